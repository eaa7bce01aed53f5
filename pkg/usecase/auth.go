package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/service/stream"
	"github.com/guideops/guideops/pkg/utils/logging"
)

// AuthUseCase implements login, registration and federated login. Every
// successful path pushes the user's current name/role/avatar into the chat
// directory before a token is minted, so the chat platform's view is never
// stale at the start of a session.
type AuthUseCase struct {
	uc *UseCases
}

// Login authenticates by user ID or email plus password. The identifier is
// resolved as an exact ID match first, then as an email. Password
// verification is always enforced: records without a local credential
// (federated accounts) cannot log in with a password.
func (a *AuthUseCase) Login(ctx context.Context, identifier, password string) (*model.SessionGrant, error) {
	if identifier == "" {
		return nil, goerr.Wrap(ErrInvalidArgument, "userId or email is required")
	}

	users := a.uc.repo.User()

	user, err := users.GetByID(ctx, types.UserID(identifier))
	if errors.Is(err, interfaces.ErrUserNotFound) {
		user, err = users.GetByEmail(ctx, identifier)
	}
	if errors.Is(err, interfaces.ErrUserNotFound) {
		return nil, goerr.Wrap(ErrInvalidCredentials, "unknown identifier", goerr.V("identifier", identifier))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve login identifier")
	}

	if !user.HasCredential() {
		return nil, goerr.Wrap(ErrInvalidCredentials, "account has no local credential", goerr.V("id", user.ID))
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, goerr.Wrap(ErrInvalidCredentials, "password mismatch", goerr.V("id", user.ID))
	}

	return a.issueGrant(ctx, user)
}

// Register creates a local account, mirrors it into the chat directory and
// mints a session token.
func (a *AuthUseCase) Register(ctx context.Context, email, name, password string) (*model.SessionGrant, error) {
	if err := model.ValidateEmail(email); err != nil {
		return nil, goerr.Wrap(ErrInvalidArgument, "email is malformed", goerr.V("email", email))
	}
	if name == "" {
		return nil, goerr.Wrap(ErrInvalidArgument, "name is required")
	}
	if len(password) < model.MinPasswordLength {
		return nil, goerr.Wrap(ErrInvalidArgument, "password is too short",
			goerr.V("min_length", model.MinPasswordLength))
	}

	email = model.NormalizeEmail(email)
	users := a.uc.repo.User()

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil, goerr.Wrap(ErrEmailTaken, "email already registered locally")
	}
	if !errors.Is(err, interfaces.ErrUserNotFound) {
		return nil, goerr.Wrap(err, "failed to check email uniqueness")
	}

	// Cross-check the chat directory for drift. Best-effort: query failures
	// on the vendor side must not block local registration.
	if exists, err := a.uc.chat.EmailExists(ctx, email); err != nil {
		logging.From(ctx).Warn("chat directory email check failed, continuing with registration",
			"email", email, "error", err.Error())
	} else if exists {
		return nil, goerr.Wrap(ErrEmailTaken, "email already present in chat directory")
	}

	id, err := newUniqueID(ctx, users, func() types.UserID { return localIDFromName(name) })
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           id,
		Name:         name,
		Email:        email,
		Role:         types.RoleUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidArgument, "invalid registration", goerr.V("cause", err.Error()))
	}

	if err := users.Put(ctx, user); err != nil {
		return nil, goerr.Wrap(ErrStoreFailure, "failed to persist new user", goerr.V("cause", err.Error()))
	}

	grant, err := a.issueGrant(ctx, user)
	if err != nil {
		return nil, err
	}

	// Auto-join configured channels. Best-effort: a failed membership call
	// never rolls back a completed registration.
	for _, ch := range a.uc.autoJoin {
		if err := a.uc.chat.AddChannelMembers(ctx, ch, []string{user.ID.String()}); err != nil {
			logging.From(ctx).Warn("failed to add new user to channel",
				"id", user.ID, "channel_type", ch.Type, "channel_id", ch.ID, "error", err.Error())
		}
	}

	return grant, nil
}

// LoginWithGoogle verifies a Google ID token and upserts the asserted
// identity, creating the local record on first login.
func (a *AuthUseCase) LoginWithGoogle(ctx context.Context, credential string) (*model.SessionGrant, error) {
	if credential == "" {
		return nil, goerr.Wrap(ErrInvalidArgument, "Google credential is required")
	}
	if a.uc.verifier == nil {
		return nil, goerr.Wrap(ErrInvalidArgument, "Google login is not configured")
	}

	claims, err := a.uc.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidCredentials, "Google token verification failed", goerr.V("cause", err.Error()))
	}
	if err := model.ValidateEmail(claims.Email); err != nil {
		return nil, goerr.Wrap(ErrInvalidCredentials, "Google token carries no usable email")
	}

	email := model.NormalizeEmail(claims.Email)
	users := a.uc.repo.User()

	name := claims.Name
	if name == "" {
		name = email
	}

	user, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, interfaces.ErrUserNotFound):
		id, err := newUniqueID(ctx, users, func() types.UserID {
			return federatedIDFromClaims(claims.Name, email)
		})
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		user = &model.User{
			ID:        id,
			Name:      name,
			Email:     email,
			Role:      types.RoleUser,
			GoogleID:  claims.Subject,
			CreatedAt: now,
			UpdatedAt: now,
		}

	case err != nil:
		return nil, goerr.Wrap(err, "failed to look up federated user")

	default:
		// Upsert-on-login: refresh the profile, keep the local role
		user.Name = name
		user.GoogleID = claims.Subject
		user.UpdatedAt = time.Now().UTC()
	}

	if err := users.Put(ctx, user); err != nil {
		return nil, goerr.Wrap(ErrStoreFailure, "failed to persist federated user", goerr.V("cause", err.Error()))
	}

	return a.issueGrant(ctx, user)
}

// issueGrant mirrors the user into the chat directory and mints the session
// token. The mirror comes first: a token for a user the chat platform has
// never seen (or sees with a stale role) is worse than a failed login.
func (a *AuthUseCase) issueGrant(ctx context.Context, user *model.User) (*model.SessionGrant, error) {
	identity := &stream.Identity{
		ID:       user.ID.String(),
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role.String(),
		ImageURL: user.AvatarURL(),
		GoogleID: user.GoogleID,
	}
	if err := a.uc.chat.UpsertUser(ctx, identity); err != nil {
		return nil, goerr.Wrap(ErrUpstream, "failed to mirror user into chat directory",
			goerr.V("id", user.ID), goerr.V("cause", err.Error()))
	}

	token, err := a.uc.chat.CreateSessionToken(user.ID.String())
	if err != nil {
		return nil, goerr.Wrap(ErrUpstream, "failed to mint session token",
			goerr.V("id", user.ID), goerr.V("cause", err.Error()))
	}

	return &model.SessionGrant{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		SessionToken: token,
		ChatAPIKey:   a.uc.chat.APIKey(),
	}, nil
}
