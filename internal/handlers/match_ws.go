// internal/handlers/match_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/damas-online/damas/internal/database"
	"github.com/damas-online/damas/internal/engine"
	"github.com/damas-online/damas/internal/match"
	"github.com/damas-online/damas/internal/middleware"
	"github.com/damas-online/damas/internal/models"
)

// MatchMessage is the shape of incoming WebSocket messages on a match
// connection.
type MatchMessage struct {
	Type string       `json:"type"`
	Move *engine.Move `json:"move,omitempty"`
}

// outboxSize bounds the per-connection send queue. A client that stops
// draining loses events and will resynchronize from the next full
// state push after reconnecting.
const outboxSize = 64

// MatchWSHandler upgrades the HTTP connection to WebSocket for one
// match. It authenticates the user, admits them to the session (seat
// holder rebind, or second-player join while the match is waiting),
// and runs the read loop until the connection drops.
func MatchWSHandler(logger *logrus.Logger, o *match.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract match ID from URL path: /match/ws/{match_id}
		idStr := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/match/ws/"), "/", 2)[0]
		if idStr == "" {
			http.Error(w, "missing match_id in path (/match/ws/{match_id})", http.StatusBadRequest)
			return
		}
		matchID, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "invalid match_id format", http.StatusBadRequest)
			return
		}

		s, err := o.Lookup(r.Context(), matchID)
		if errors.Is(err, match.ErrMatchNotFound) {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, match.ErrMatchConcluded) {
			http.Error(w, "match has already concluded", http.StatusGone)
			return
		}
		if err != nil {
			http.Error(w, "failed to load match", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"match"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for match %s: %v", matchID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error during handler exit")

		if c.Subprotocol() != "match" {
			c.Close(websocket.StatusPolicyViolation, "client must use the 'match' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		identity, err := authenticateRequest(r)
		if err != nil {
			logger.Warnf("authentication failed for match %s: %v", matchID, err)
			c.Close(websocket.StatusPolicyViolation, "authentication failed")
			return
		}

		// Settlement later needs a users row for both players.
		if err := database.EnsureUser(r.Context(), identity); err != nil {
			logger.WithError(err).Warn("failed to upsert user on ws attach")
		}

		// A single writer goroutine drains the outbox so events reach
		// the client in the order they were pushed.
		outbox := make(chan []byte, outboxSize)
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for data := range outbox {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := c.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					logger.Warnf("failed to write to user %s in match %s: %v", identity.UserID, matchID, err)
					return
				}
			}
		}()

		push := func(ev match.Event) {
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Errorf("failed to marshal event (%s) for match %s: %v", ev.Type, matchID, err)
				return
			}
			select {
			case outbox <- data:
			default:
				logger.Warnf("outbox full for user %s in match %s; dropping %s", identity.UserID, matchID, ev.Type)
			}
		}

		if err := o.Attach(r.Context(), s, identity, push); err != nil {
			switch {
			case errors.Is(err, match.ErrMatchConcluded):
				c.Close(websocket.StatusCode(MatchConcludedError), "match has already concluded")
			case errors.Is(err, match.ErrNotParticipant):
				c.Close(websocket.StatusCode(NotParticipantError), "you are not seated in this match")
			default:
				c.Close(websocket.StatusInternalError, "failed to join match")
			}
			close(outbox)
			return
		}
		logger.Infof("user %s attached to match %s", identity.UserID, matchID)

		readMatchMessages(r.Context(), c, o, s, identity, push, logger)

		o.Disconnect(s, identity)
		close(outbox)
		<-writerDone
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readMatchMessages reads client messages until the connection drops
// or the context is cancelled, routing each to the orchestrator.
// Rejected actions are reported to the sender only.
func readMatchMessages(ctx context.Context, c *websocket.Conn, o *match.Orchestrator, s *match.Session, identity models.Identity, push match.PushFunc, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for user %s in match %s", identity.UserID, s.MatchID)
			} else if !errors.Is(err, context.Canceled) {
				logger.Warnf("error reading from user %s in match %s: %v", identity.UserID, s.MatchID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg MatchMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			push(match.ErrorEvent("invalid JSON"))
			continue
		}

		switch msg.Type {
		case "player_ready":
			if err := o.Ready(ctx, s, identity); err != nil {
				push(match.ErrorEvent(err.Error()))
			}
		case "make_move":
			if msg.Move == nil {
				push(match.ErrorEvent("make_move requires a move"))
				continue
			}
			if err := o.Move(ctx, s, identity, *msg.Move); err != nil {
				push(match.ErrorEvent(err.Error()))
			}
		case "surrender":
			if err := o.Surrender(ctx, s, identity); err != nil {
				push(match.ErrorEvent(err.Error()))
			}
		case "cancel":
			if err := o.Cancel(ctx, s, identity); err != nil {
				push(match.ErrorEvent(err.Error()))
			}
		case "ping":
			pong, _ := json.Marshal(map[string]string{"type": "pong"})
			wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			if err := c.Write(wctx, websocket.MessageText, pong); err != nil {
				logger.Warnf("failed to write pong to user %s: %v", identity.UserID, err)
			}
			cancel()
		default:
			push(match.ErrorEvent(fmt.Sprintf("unknown message type: %s", msg.Type)))
		}
	}
}
