package usecase

import "errors"

// Sentinel errors for the use case layer. The HTTP controller maps these to
// status codes; everything else surfaces as an internal error.
var (
	// Validation errors (400)
	ErrInvalidArgument = errors.New("invalid argument")

	// Authentication errors (401)
	ErrInvalidCredentials = errors.New("Invalid user")

	// Access control errors (403)
	ErrAdminRequired        = errors.New("Admin access required")
	ErrMasterAdminProtected = errors.New("the master admin account is protected")
	ErrChannelProtected     = errors.New("the channel is protected and cannot be modified")

	// Conflict errors (409)
	ErrEmailTaken = errors.New("an account with this email already exists")

	// Local store write failures (503)
	ErrStoreFailure = errors.New("user store is unavailable")

	// Chat platform failures (502)
	ErrUpstream = errors.New("chat platform request failed")
)
