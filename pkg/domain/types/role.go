package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Role represents the authorization role of a user
type Role string

const (
	RoleUser             Role = "user"
	RoleAdmin            Role = "admin"
	RoleChannelModerator Role = "channel_moderator"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleUser,
		RoleAdmin,
		RoleChannelModerator,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser,
		RoleAdmin,
		RoleChannelModerator:
		return true
	default:
		return false
	}
}

// Normalize returns the role, treating empty as RoleUser
func (r Role) Normalize() Role {
	if r == "" {
		return RoleUser
	}
	return r
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", goerr.New("invalid role", goerr.V("role", s))
	}
	return role, nil
}

// Capability is a permission evaluated from a role. Handlers and use cases
// check capabilities instead of comparing role strings.
type Capability string

const (
	// CapManageUsers allows role changes, user deletion and user listing
	CapManageUsers Capability = "manage_users"
	// CapManageChannels allows privacy, archive and moderator changes
	CapManageChannels Capability = "manage_channels"
	// CapModerateChannel allows moderation within an assigned channel
	CapModerateChannel Capability = "moderate_channel"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin:            {CapManageUsers, CapManageChannels, CapModerateChannel},
	RoleChannelModerator: {CapModerateChannel},
	RoleUser:             {},
}

// Can reports whether the role grants the given capability
func (r Role) Can(c Capability) bool {
	for _, cap := range roleCapabilities[r.Normalize()] {
		if cap == c {
			return true
		}
	}
	return false
}
