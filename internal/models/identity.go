// internal/models/identity.go
package models

import "github.com/google/uuid"

// Identity is the verified identity attached to a connection before it
// reaches the match core. It is an immutable value passed alongside
// each inbound event, never a mutable field on the connection itself.
type Identity struct {
	UserID    uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}
