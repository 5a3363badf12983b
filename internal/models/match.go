// internal/models/match.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/damas-online/damas/internal/engine"
)

// MatchStatus is the lifecycle state of a match record.
type MatchStatus string

const (
	// StatusWaiting: only the creator is seated; the lobby timer runs.
	StatusWaiting MatchStatus = "waiting"
	// StatusReadying: both seats filled, awaiting mutual confirmation.
	StatusReadying MatchStatus = "readying"
	// StatusInProgress: the game is being played.
	StatusInProgress MatchStatus = "inprogress"
	// StatusFinished: normal conclusion, including surrender.
	StatusFinished MatchStatus = "finished"
	// StatusCancelled: lobby expired or the creator cancelled before an
	// opponent joined.
	StatusCancelled MatchStatus = "cancelled"
	// StatusAbandoned: a player forfeited via timeout or disconnect penalty.
	StatusAbandoned MatchStatus = "abandoned"
)

// Terminal reports whether no transition may leave this status.
func (s MatchStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled || s == StatusAbandoned
}

// HistoryEntry records one applied move for replay and display.
type HistoryEntry struct {
	Move      string    `json:"move"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// Match is the durable record of one match. While a live session
// exists for it, the in-memory copy held by the session is the single
// writable copy and persistence is a side effect; across restarts the
// stored row is the source of truth.
type Match struct {
	ID              uuid.UUID      `json:"id"`
	Player1ID       uuid.UUID      `json:"player1Id"`
	Player2ID       uuid.UUID      `json:"player2Id,omitempty"` // uuid.Nil until joined
	Player1Username string         `json:"player1Username,omitempty"`
	Player2Username string         `json:"player2Username,omitempty"`
	Board           engine.Board   `json:"board"`
	CurrentPlayerID uuid.UUID      `json:"currentPlayerId,omitempty"` // only meaningful while inprogress
	Status          MatchStatus    `json:"status"`
	WinnerID        uuid.UUID      `json:"winnerId,omitempty"` // set iff finished or abandoned
	History         []HistoryEntry `json:"history"`
	StartTime       time.Time      `json:"startTime"`
	EndTime         *time.Time     `json:"endTime,omitempty"`
}

// NewMatch builds a waiting match record for its creator with the
// standard opening position.
func NewMatch(creator Identity) *Match {
	id, _ := uuid.NewRandom()
	return &Match{
		ID:              id,
		Player1ID:       creator.UserID,
		Player1Username: creator.Username,
		Board:           engine.NewBoard(),
		Status:          StatusWaiting,
		StartTime:       time.Now().UTC(),
	}
}

// SeatOf reports which seat (1 or 2) the user occupies, or 0 if neither.
func (m *Match) SeatOf(userID uuid.UUID) int {
	switch {
	case userID == m.Player1ID:
		return 1
	case m.Player2ID != uuid.Nil && userID == m.Player2ID:
		return 2
	}
	return 0
}

// ColorOf returns the color played by the user. Player 1 (the creator)
// is always White.
func (m *Match) ColorOf(userID uuid.UUID) engine.Color {
	if userID == m.Player1ID {
		return engine.White
	}
	return engine.Black
}

// OpponentOf returns the other seat's user ID, or uuid.Nil when the
// seat is empty.
func (m *Match) OpponentOf(userID uuid.UUID) uuid.UUID {
	if userID == m.Player1ID {
		return m.Player2ID
	}
	return m.Player1ID
}
