// internal/database/match.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/damas-online/damas/internal/models"
)

// SaveMatch upserts the durable match record. The board and the move
// history travel as jsonb so a row can be rehydrated into a live
// session after a process restart.
func SaveMatch(ctx context.Context, m *models.Match) error {
	boardJSON, err := json.Marshal(m.Board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	historyJSON, err := json.Marshal(m.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	q := `
	INSERT INTO matches (id, player1_id, player2_id, player1_username, player2_username,
	                     board, current_player_id, status, winner_id, history,
	                     start_time, end_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
	    player2_id=$3, player2_username=$5, board=$6, current_player_id=$7,
	    status=$8, winner_id=$9, history=$10, end_time=$12
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			m.ID, m.Player1ID, m.Player2ID, m.Player1Username, m.Player2Username,
			boardJSON, m.CurrentPlayerID, string(m.Status), m.WinnerID, historyJSON,
			m.StartTime, m.EndTime,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

func GetMatchByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	var (
		m           models.Match
		boardJSON   []byte
		historyJSON []byte
		status      string
	)
	q := `
	SELECT id, player1_id, player2_id, player1_username, player2_username,
	       board, current_player_id, status, winner_id, history,
	       start_time, end_time
	FROM matches
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.Player1ID, &m.Player2ID, &m.Player1Username, &m.Player2Username,
		&boardJSON, &m.CurrentPlayerID, &status, &m.WinnerID, &historyJSON,
		&m.StartTime, &m.EndTime,
	)
	if err != nil {
		return nil, err
	}
	m.Status = models.MatchStatus(status)
	if err := json.Unmarshal(boardJSON, &m.Board); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &m.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return &m, nil
}

// FindWaitingMatches lists open matches the given user could join,
// oldest first. A user's own waiting matches are excluded.
func FindWaitingMatches(ctx context.Context, excluding uuid.UUID) ([]*models.Match, error) {
	q := `
	SELECT id, player1_id, player2_id, player1_username, player2_username,
	       board, current_player_id, status, winner_id, history,
	       start_time, end_time
	FROM matches
	WHERE status='waiting' AND player1_id <> $1
	ORDER BY start_time ASC
	`
	rows, err := DB.Query(ctx, q, excluding)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		var (
			m           models.Match
			boardJSON   []byte
			historyJSON []byte
			status      string
		)
		if err := rows.Scan(
			&m.ID, &m.Player1ID, &m.Player2ID, &m.Player1Username, &m.Player2Username,
			&boardJSON, &m.CurrentPlayerID, &status, &m.WinnerID, &historyJSON,
			&m.StartTime, &m.EndTime,
		); err != nil {
			return nil, err
		}
		m.Status = models.MatchStatus(status)
		if err := json.Unmarshal(boardJSON, &m.Board); err != nil {
			return nil, fmt.Errorf("unmarshal board: %w", err)
		}
		if err := json.Unmarshal(historyJSON, &m.History); err != nil {
			return nil, fmt.Errorf("unmarshal history: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
