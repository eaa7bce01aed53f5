package model

import "github.com/m-mizutani/goerr/v2"

// ChannelRef identifies a channel on the chat platform
type ChannelRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Validate checks if the channel reference is complete
func (c ChannelRef) Validate() error {
	if c.Type == "" {
		return goerr.New("channel type is required")
	}
	if c.ID == "" {
		return goerr.New("channel ID is required")
	}
	return nil
}

// Equal reports whether two channel references point at the same channel
func (c ChannelRef) Equal(other ChannelRef) bool {
	return c.Type == other.Type && c.ID == other.ID
}

// DefaultProtectedChannel is the well-known channel that must never be
// renamed, deleted or have its privacy toggled.
var DefaultProtectedChannel = ChannelRef{Type: "team", ID: "general"}
