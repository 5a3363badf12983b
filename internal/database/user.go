// internal/database/user.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/damas-online/damas/internal/models"
	"github.com/damas-online/damas/internal/rating"
)

// EnsureUser upserts a users row for a verified identity. Accounts are
// created elsewhere; this only guarantees a row exists before a match
// settles against it, and refreshes the display fields.
func EnsureUser(ctx context.Context, identity models.Identity) error {
	q := `
	INSERT INTO users (id, username, avatar_url, rank, wins, losses)
	VALUES ($1, $2, $3, $4, 0, 0)
	ON CONFLICT (id) DO UPDATE SET username=$2, avatar_url=$3
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, identity.UserID, identity.Username, identity.AvatarURL, rating.DefaultRank)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, username, avatar_url, rank, wins, losses
	FROM users
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.AvatarURL, &u.Rank, &u.Wins, &u.Losses,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ApplyMatchResult settles both players' rank and win/loss counters in
// one transaction. The rows are locked so concurrent settlements of
// different matches touching the same user serialize.
func ApplyMatchResult(ctx context.Context, winnerID, loserID uuid.UUID, forfeit bool) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		selQ := `SELECT id, username, avatar_url, rank, wins, losses FROM users WHERE id=$1 FOR UPDATE`

		var winner, loser models.User
		if e := tx.QueryRow(ctx, selQ, winnerID).Scan(
			&winner.ID, &winner.Username, &winner.AvatarURL, &winner.Rank, &winner.Wins, &winner.Losses,
		); e != nil {
			return e
		}
		if e := tx.QueryRow(ctx, selQ, loserID).Scan(
			&loser.ID, &loser.Username, &loser.AvatarURL, &loser.Rank, &loser.Wins, &loser.Losses,
		); e != nil {
			return e
		}

		rating.ApplyWin(&winner)
		if forfeit {
			rating.ApplyForfeit(&loser)
		} else {
			rating.ApplyLoss(&loser)
		}

		updQ := `UPDATE users SET rank=$1, wins=$2, losses=$3 WHERE id=$4`
		if _, e := tx.Exec(ctx, updQ, winner.Rank, winner.Wins, winner.Losses, winner.ID); e != nil {
			return e
		}
		if _, e := tx.Exec(ctx, updQ, loser.Rank, loser.Wins, loser.Losses, loser.ID); e != nil {
			return e
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to settle match result: %w", err)
	}
	return nil
}
