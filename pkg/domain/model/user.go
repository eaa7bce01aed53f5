package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/types"
)

// MinPasswordLength is the minimum accepted password length for registration
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is a locally stored identity record. The local store is the single
// source of truth for credentials and role; the chat platform directory only
// holds a projection of name/role/avatar that is refreshed on every login.
type User struct {
	ID        types.UserID `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      types.Role   `json:"role"`
	CreatedAt time.Time    `json:"created_at,omitzero"`
	UpdatedAt time.Time    `json:"updated_at,omitzero"`

	// PasswordHash is set only for locally registered accounts
	PasswordHash []byte `json:"password_hash,omitempty"`
	// GoogleID is set only for federated accounts
	GoogleID string `json:"google_id,omitempty"`
}

// Validate checks the invariants of a user record
func (u *User) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}
	if u.Name == "" {
		return goerr.New("user name is required", goerr.V("id", u.ID))
	}
	if err := ValidateEmail(u.Email); err != nil {
		return goerr.Wrap(err, "invalid user email", goerr.V("id", u.ID))
	}
	if !u.Role.IsValid() {
		return goerr.New("invalid user role", goerr.V("id", u.ID), goerr.V("role", u.Role))
	}
	return nil
}

// HasCredential reports whether the record carries a local password
func (u *User) HasCredential() bool {
	return len(u.PasswordHash) > 0
}

// AvatarURL returns the deterministic avatar for the user, seeded by ID so
// the image survives renames.
func (u *User) AvatarURL() string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", u.ID)
}

// NormalizeEmail lowers and trims an email address. All store lookups and
// writes go through this so email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that an email address is well formed
func ValidateEmail(email string) error {
	if email == "" {
		return goerr.New("email is required")
	}
	if !emailPattern.MatchString(email) {
		return goerr.New("email is malformed", goerr.V("email", email))
	}
	return nil
}
