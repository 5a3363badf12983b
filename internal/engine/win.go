// internal/engine/win.go
package engine

// Finish reasons reported by CheckWinCondition.
const (
	ReasonNoPieces = "no_pieces"
	ReasonNoMoves  = "no_moves"
)

// Outcome is the result of a termination check.
type Outcome struct {
	Finished bool
	Winner   Color
	Reason   string
}

// CheckWinCondition reports whether the side to move has lost: either
// it has no pieces left, or it has pieces but no legal move (no capture
// and no simple move). An empty board for nextToMove is a legal query.
func CheckWinCondition(b Board, nextToMove Color) Outcome {
	if b.CountPieces(nextToMove) == 0 {
		return Outcome{Finished: true, Winner: nextToMove.Opponent(), Reason: ReasonNoPieces}
	}
	if len(FindCaptureSequences(b, nextToMove)) == 0 && len(FindSimpleMoves(b, nextToMove)) == 0 {
		return Outcome{Finished: true, Winner: nextToMove.Opponent(), Reason: ReasonNoMoves}
	}
	return Outcome{}
}
