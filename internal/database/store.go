// internal/database/store.go
package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/damas-online/damas/internal/models"
)

// Store adapts this package's query functions to the orchestrator's
// store interfaces.
type Store struct{}

func (Store) Load(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	return GetMatchByID(ctx, id)
}

func (Store) Save(ctx context.Context, m *models.Match) error {
	return SaveMatch(ctx, m)
}

func (Store) FindWaiting(ctx context.Context, excluding uuid.UUID) ([]*models.Match, error) {
	return FindWaitingMatches(ctx, excluding)
}

func (Store) ApplyResult(ctx context.Context, winnerID, loserID uuid.UUID, forfeit bool) error {
	return ApplyMatchResult(ctx, winnerID, loserID, forfeit)
}
