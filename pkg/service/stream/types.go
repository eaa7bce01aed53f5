package stream

import (
	"context"
	"time"

	"github.com/guideops/guideops/pkg/domain/model"
)

// Service provides the interface to the Stream Chat API. The chat platform
// owns message transport, presence and channel storage; this service only
// covers the request/response calls the identity plane needs. The directory
// entries it writes are a projection of the local store, never the
// authoritative copy.
type Service interface {
	// APIKey returns the public API key handed to clients in a session grant
	APIKey() string

	// UpsertUser creates or refreshes a user in the chat directory
	UpsertUser(ctx context.Context, identity *Identity) error

	// CreateSessionToken mints a session token for the given user ID.
	// Signing is local, no network round-trip.
	CreateSessionToken(userID string) (string, error)

	// DeleteUser removes a user from the chat directory, optionally marking
	// their messages as deleted
	DeleteUser(ctx context.Context, userID string, markMessagesDeleted bool) error

	// EmailExists reports whether any directory user carries the email
	EmailExists(ctx context.Context, email string) (bool, error)

	// SetChannelPrivacy toggles the private and invite_only flags in
	// lock-step via a field-scoped update that leaves the name untouched
	SetChannelPrivacy(ctx context.Context, ch model.ChannelRef, private bool) error

	// SetChannelDisabled toggles the channel disabled (archived) flag
	SetChannelDisabled(ctx context.Context, ch model.ChannelRef, disabled bool) error

	// AddChannelMembers adds users to a channel. Silently skips if userIDs
	// is empty.
	AddChannelMembers(ctx context.Context, ch model.ChannelRef, userIDs []string) error

	// AddChannelModerators grants channel moderator to users in a channel
	AddChannelModerators(ctx context.Context, ch model.ChannelRef, userIDs []string) error

	// ListDisabledChannels returns the disabled (archived) channels of the
	// given type, most recently updated first
	ListDisabledChannels(ctx context.Context, channelType string) ([]*ChannelInfo, error)
}

// Identity is the projection of a local user record pushed to the chat
// directory
type Identity struct {
	ID       string
	Name     string
	Email    string
	Role     string
	ImageURL string
	GoogleID string
}

// ChannelInfo is a summary of a channel as reported by the chat platform
type ChannelInfo struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Disabled    bool      `json:"disabled"`
	MemberCount int       `json:"member_count"`
	CreatedBy   string    `json:"created_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
