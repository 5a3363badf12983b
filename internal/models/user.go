// internal/models/user.go
package models

import "github.com/google/uuid"

// User is a row in the users table. Authentication and registration
// live outside this service; the match core only reads identity fields
// and writes rank/win/loss counters at settlement.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`

	Rank   int `json:"rank"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Identity projects the user onto the immutable connection identity.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}
