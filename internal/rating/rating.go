// internal/rating/rating.go
package rating

import "github.com/damas-online/damas/internal/models"

// Rank deltas applied at settlement. Forfeiting (turn timeout or
// abandoned reconnection) costs substantially more than losing over
// the board.
const (
	WinIncrement   = 20
	LossDecrement  = 10
	ForfeitPenalty = 50

	MinimumRank = 0
	DefaultRank = 1000
)

// ApplyWin credits a normal win.
func ApplyWin(u *models.User) {
	u.Rank += WinIncrement
	u.Wins++
}

// ApplyLoss debits a normal loss, including loss by surrender.
func ApplyLoss(u *models.User) {
	u.Rank -= LossDecrement
	u.Losses++
	clamp(u)
}

// ApplyForfeit debits a forfeiture (timeout or abandonment).
func ApplyForfeit(u *models.User) {
	u.Rank -= ForfeitPenalty
	u.Losses++
	clamp(u)
}

func clamp(u *models.User) {
	if u.Rank < MinimumRank {
		u.Rank = MinimumRank
	}
}
