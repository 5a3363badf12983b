// internal/rating/rating_test.go
package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/damas-online/damas/internal/models"
)

func TestApplyWinLoss(t *testing.T) {
	winner := &models.User{Rank: DefaultRank}
	loser := &models.User{Rank: DefaultRank}

	ApplyWin(winner)
	ApplyLoss(loser)

	assert.Equal(t, DefaultRank+WinIncrement, winner.Rank)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, DefaultRank-LossDecrement, loser.Rank)
	assert.Equal(t, 1, loser.Losses)
}

func TestForfeitPenaltyExceedsNormalLoss(t *testing.T) {
	assert.Greater(t, ForfeitPenalty, LossDecrement)

	u := &models.User{Rank: DefaultRank}
	ApplyForfeit(u)
	assert.Equal(t, DefaultRank-ForfeitPenalty, u.Rank)
	assert.Equal(t, 1, u.Losses)
}

func TestRankNeverGoesNegative(t *testing.T) {
	u := &models.User{Rank: 5}
	ApplyForfeit(u)
	assert.Equal(t, MinimumRank, u.Rank)
}
