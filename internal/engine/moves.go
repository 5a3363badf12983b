// internal/engine/moves.go
package engine

// FindSimpleMoves enumerates non-capturing moves for color: one-step
// forward diagonal moves for pawns and unobstructed diagonal runs of
// any length for kings. Callers should only treat these as legal when
// FindCaptureSequences returned nothing, per the mandatory-capture rule.
func FindSimpleMoves(b Board, color Color) []Move {
	var moves []Move
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			from := Cell{row, col}
			piece := b.At(from)
			if !IsOwnedBy(piece, color) {
				continue
			}
			if piece.IsKing() {
				for _, dir := range diagonals {
					to := Cell{from.Row + dir.Row, from.Col + dir.Col}
					for to.InBounds() && b.At(to) == Empty {
						moves = append(moves, Move{From: from, To: to})
						to = Cell{to.Row + dir.Row, to.Col + dir.Col}
					}
				}
			} else {
				fwd := forwardDir(color)
				for _, dc := range [2]int{-1, 1} {
					to := Cell{from.Row + fwd, from.Col + dc}
					if to.InBounds() && b.At(to) == Empty {
						moves = append(moves, Move{From: from, To: to})
					}
				}
			}
		}
	}
	return moves
}

// ApplyMove returns a new board with the moving piece relocated, every
// captured square cleared, and pawn promotion applied when the piece
// finishes on the opponent's back rank. The promotion check runs after
// relocation, on the final square only: a pawn passing over the back
// rank mid-chain is not crowned.
func ApplyMove(b Board, m Move) Board {
	piece := b.At(m.From)
	b[m.From.Row][m.From.Col] = Empty
	for _, taken := range m.Captured {
		b[taken.Row][taken.Col] = Empty
	}
	if !piece.IsKing() {
		if color, ok := piece.Color(); ok && m.To.Row == promotionRow(color) {
			piece = KingOf(color)
		}
	}
	b[m.To.Row][m.To.Col] = piece
	return b
}
