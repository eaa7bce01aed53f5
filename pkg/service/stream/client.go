package stream

import (
	"context"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/model"
)

// DefaultTimeout bounds every request to the chat platform. The vendor has
// no SLA on slow responses and a stuck call must not pin a request handler.
const DefaultTimeout = 10 * time.Second

// client implements Service interface
type client struct {
	api    *stream.Client
	apiKey string
}

// Option is a functional option for client configuration
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout sets the HTTP timeout for chat platform calls
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// New creates a new Stream Chat service with the provided API credentials
func New(apiKey, apiSecret string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("Stream API key is required")
	}
	if apiSecret == "" {
		return nil, goerr.New("Stream API secret is required")
	}

	o := &options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}

	api, err := stream.NewClient(apiKey, apiSecret, stream.WithTimeout(o.timeout))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Stream client")
	}

	return &client{api: api, apiKey: apiKey}, nil
}

func (c *client) APIKey() string {
	return c.apiKey
}

// UpsertUser creates or refreshes a user in the chat directory
func (c *client) UpsertUser(ctx context.Context, identity *Identity) error {
	user := &stream.User{
		ID:    identity.ID,
		Name:  identity.Name,
		Role:  identity.Role,
		Image: identity.ImageURL,
		ExtraData: map[string]interface{}{
			"email": identity.Email,
		},
	}
	if identity.GoogleID != "" {
		user.ExtraData["google_id"] = identity.GoogleID
	}

	if _, err := c.api.UpsertUser(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to upsert chat user", goerr.V("id", identity.ID))
	}
	return nil
}

// CreateSessionToken mints a session token for the given user ID
func (c *client) CreateSessionToken(userID string) (string, error) {
	token, err := c.api.CreateToken(userID, time.Time{})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create session token", goerr.V("id", userID))
	}
	return token, nil
}

// DeleteUser removes a user from the chat directory
func (c *client) DeleteUser(ctx context.Context, userID string, markMessagesDeleted bool) error {
	var opts []stream.DeleteUserOption
	if markMessagesDeleted {
		opts = append(opts, stream.DeleteUserWithMarkMessagesDeleted())
	}

	if _, err := c.api.DeleteUser(ctx, userID, opts...); err != nil {
		return goerr.Wrap(err, "failed to delete chat user", goerr.V("id", userID))
	}
	return nil
}

// EmailExists reports whether any directory user carries the email
func (c *client) EmailExists(ctx context.Context, email string) (bool, error) {
	resp, err := c.api.QueryUsers(ctx, &stream.QueryOption{
		Filter: map[string]interface{}{
			"email": email,
		},
		Limit: 1,
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to query chat users by email")
	}

	return len(resp.Users) > 0, nil
}

// SetChannelPrivacy toggles the privacy flags of a channel. The two flags are
// one logical privacy bit; toggling them independently leaves the channel ACL
// in an inconsistent state. A field-scoped update keeps the rest of the
// channel data, notably the name, intact.
func (c *client) SetChannelPrivacy(ctx context.Context, ch model.ChannelRef, private bool) error {
	channel := c.api.Channel(ch.Type, ch.ID)

	_, err := channel.PartialUpdate(ctx, stream.PartialUpdate{
		Set: map[string]interface{}{
			"private":     private,
			"invite_only": private,
		},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update channel privacy",
			goerr.V("channel_type", ch.Type), goerr.V("channel_id", ch.ID))
	}
	return nil
}

// SetChannelDisabled toggles the channel disabled (archived) flag
func (c *client) SetChannelDisabled(ctx context.Context, ch model.ChannelRef, disabled bool) error {
	channel := c.api.Channel(ch.Type, ch.ID)

	_, err := channel.PartialUpdate(ctx, stream.PartialUpdate{
		Set: map[string]interface{}{
			"disabled": disabled,
		},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update channel disabled flag",
			goerr.V("channel_type", ch.Type), goerr.V("channel_id", ch.ID))
	}
	return nil
}

// AddChannelMembers adds users to a channel
func (c *client) AddChannelMembers(ctx context.Context, ch model.ChannelRef, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	channel := c.api.Channel(ch.Type, ch.ID)
	if _, err := channel.AddMembers(ctx, userIDs); err != nil {
		return goerr.Wrap(err, "failed to add channel members",
			goerr.V("channel_type", ch.Type), goerr.V("channel_id", ch.ID), goerr.V("users", userIDs))
	}
	return nil
}

// AddChannelModerators grants channel moderator to users in a channel
func (c *client) AddChannelModerators(ctx context.Context, ch model.ChannelRef, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	channel := c.api.Channel(ch.Type, ch.ID)
	if _, err := channel.AddModerators(ctx, userIDs...); err != nil {
		return goerr.Wrap(err, "failed to add channel moderators",
			goerr.V("channel_type", ch.Type), goerr.V("channel_id", ch.ID), goerr.V("users", userIDs))
	}
	return nil
}

// ListDisabledChannels returns the disabled (archived) channels of a type
func (c *client) ListDisabledChannels(ctx context.Context, channelType string) ([]*ChannelInfo, error) {
	resp, err := c.api.QueryChannels(ctx, &stream.QueryOption{
		Filter: map[string]interface{}{
			"type":     channelType,
			"disabled": true,
		},
		Sort: []*stream.SortOption{
			{Field: "updated_at", Direction: -1},
		},
		Limit: 50,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query disabled channels", goerr.V("channel_type", channelType))
	}

	channels := make([]*ChannelInfo, 0, len(resp.Channels))
	for _, ch := range resp.Channels {
		info := &ChannelInfo{
			Type:        ch.Type,
			ID:          ch.ID,
			Disabled:    ch.Disabled,
			MemberCount: ch.MemberCount,
			UpdatedAt:   ch.UpdatedAt,
		}
		if name, ok := ch.ExtraData["name"].(string); ok {
			info.Name = name
		}
		if ch.CreatedBy != nil {
			info.CreatedBy = ch.CreatedBy.Name
		}
		channels = append(channels, info)
	}

	return channels, nil
}
