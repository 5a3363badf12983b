// internal/match/events.go
package match

import (
	"github.com/damas-online/damas/internal/engine"
	"github.com/damas-online/damas/internal/models"
)

// EventType labels one server->client frame.
type EventType string

const (
	EventWaitingOpponent    EventType = "waiting_opponent"
	EventPlayerJoined       EventType = "player_joined"
	EventReadyStatusUpdate  EventType = "ready_status_update"
	EventGameStart          EventType = "game_start"
	EventGameUpdate         EventType = "game_update"
	EventTimerUpdate        EventType = "timer_update"
	EventPlayerDisconnected EventType = "player_disconnected"
	EventPlayerReconnected  EventType = "player_reconnected"
	EventGameOver           EventType = "game_over"
	EventError              EventType = "error"
)

// Readiness carries both confirmation flags during the readying phase.
type Readiness struct {
	Player1 bool `json:"player1"`
	Player2 bool `json:"player2"`
}

// Event is one JSON frame pushed to a connected peer. Exactly one
// event is sent per frame; optional fields are omitted when unused.
type Event struct {
	Type        EventType        `json:"type"`
	Match       *models.Match    `json:"match,omitempty"`
	Readiness   *Readiness       `json:"readiness,omitempty"`
	LastMove    *engine.Move     `json:"lastMoveResult,omitempty"`
	Player      *models.Identity `json:"player,omitempty"`
	SecondsLeft int              `json:"secondsLeft,omitempty"`
	Winner      *models.Identity `json:"winner,omitempty"`
	Reason      string           `json:"reason,omitempty"`
	Message     string           `json:"message,omitempty"`
}

// PushFunc delivers one event to a connected peer. Implementations
// must serialize the event before returning (or treat it as immutable):
// the orchestrator may keep mutating the underlying match record as
// soon as the call returns. Delivery itself is fire-and-forget.
type PushFunc func(Event)

// ErrorEvent builds the error reply sent to a single sender.
func ErrorEvent(message string) Event {
	return Event{Type: EventError, Message: message}
}
