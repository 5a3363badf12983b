// internal/handlers/match.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/damas-online/damas/internal/database"
	"github.com/damas-online/damas/internal/match"
)

// CreateMatchHandler handles POST /match/create. The authenticated user
// becomes player 1 of a new waiting match and should connect to
// /match/ws/{match_id} to receive events for it.
func CreateMatchHandler(logger *logrus.Logger, o *match.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		identity, err := authenticateRequest(r)
		if err != nil {
			http.Error(w, "invalid or missing auth token", http.StatusUnauthorized)
			return
		}

		// Settlement later needs a users row for both players.
		if err := database.EnsureUser(r.Context(), identity); err != nil {
			logger.WithError(err).Warn("failed to upsert user on match create")
		}

		s, err := o.CreateMatch(r.Context(), identity)
		if err != nil {
			logger.WithError(err).Error("failed to create match")
			http.Error(w, "failed to create match", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"match_id": s.MatchID,
		})
	}
}

// ListMatchesHandler handles GET /match/list: open matches the caller
// could join, oldest first.
func ListMatchesHandler(logger *logrus.Logger, o *match.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		identity, err := authenticateRequest(r)
		if err != nil {
			http.Error(w, "invalid or missing auth token", http.StatusUnauthorized)
			return
		}

		matches, err := o.ListWaiting(r.Context(), identity.UserID)
		if err != nil {
			logger.WithError(err).Error("failed to list waiting matches")
			http.Error(w, "failed to list matches", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": matches,
		})
	}
}
