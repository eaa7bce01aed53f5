package model

import "github.com/guideops/guideops/pkg/domain/types"

// SessionGrant is the bundle handed to a client after successful
// authentication: the user profile plus the chat session token and the API
// key the frontend needs to connect to the chat platform.
type SessionGrant struct {
	UserID       types.UserID `json:"userId"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         types.Role   `json:"role"`
	SessionToken string       `json:"sessionToken"`
	ChatAPIKey   string       `json:"chatApiKey"`
}
