package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// UserID represents a unique identifier for a user. IDs are immutable once
// assigned and double as the identity key in the chat platform directory.
type UserID string

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	if len(u) > 64 {
		return goerr.New("user ID is too long", goerr.V("id", u))
	}
	if !idPattern.MatchString(string(u)) {
		return goerr.New("user ID must be lowercase alphanumeric with hyphens or underscores", goerr.V("id", u))
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}
