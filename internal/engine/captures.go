// internal/engine/captures.go
package engine

// diagonals are the four diagonal step directions.
var diagonals = [4]Cell{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// searchFrame is one pending node of the capture search. The board is
// never mutated during the search: the moving piece's origin square is
// treated as vacated, and already-captured squares stay on the board
// (they block king runs) but cannot be jumped a second time.
type searchFrame struct {
	pos      Cell
	path     []Cell
	captured []Cell
}

// FindCaptureSequences enumerates every capture chain available to
// color and returns only those whose capture count equals the global
// maximum: if any capture exists, non-capturing moves are illegal, and
// among captures only the longest chains are legal, even across
// different source pieces. The result is empty when color has no
// pieces or no captures; that is a legal query, not an error.
func FindCaptureSequences(b Board, color Color) []CaptureSequence {
	var sequences []CaptureSequence
	best := 0

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			origin := Cell{row, col}
			piece := b.At(origin)
			if !IsOwnedBy(piece, color) {
				continue
			}
			for _, seq := range captureChainsFrom(b, origin, piece.IsKing(), color) {
				switch n := len(seq.Captured); {
				case n > best:
					best = n
					sequences = sequences[:0]
					sequences = append(sequences, seq)
				case n == best:
					sequences = append(sequences, seq)
				}
			}
		}
	}
	return sequences
}

// captureChainsFrom explores every capture chain starting at origin
// using an explicit work-list instead of recursion, so deep multi-jump
// chains cost one frame each rather than a full board copy per branch.
func captureChainsFrom(b Board, origin Cell, king bool, color Color) []CaptureSequence {
	var chains []CaptureSequence

	stack := []searchFrame{{
		pos:      origin,
		path:     []Cell{origin},
		captured: nil,
	}}

	occupied := func(c Cell) bool {
		return c != origin && b.At(c) != Empty
	}
	alreadyCaptured := func(frame searchFrame, c Cell) bool {
		for _, taken := range frame.captured {
			if taken == c {
				return true
			}
		}
		return false
	}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		extended := false
		for _, dir := range diagonals {
			if king {
				// A king captures along a clear diagonal run: skip empty
				// squares, the first occupied square must be an enemy not
				// yet captured in this chain, then any empty square past
				// it is a legal landing. Two enemies in a row block the run.
				scan := Cell{frame.pos.Row + dir.Row, frame.pos.Col + dir.Col}
				for scan.InBounds() && !occupied(scan) {
					scan = Cell{scan.Row + dir.Row, scan.Col + dir.Col}
				}
				if !scan.InBounds() || !IsOwnedBy(b.At(scan), color.Opponent()) || alreadyCaptured(frame, scan) {
					continue
				}
				target := scan
				land := Cell{target.Row + dir.Row, target.Col + dir.Col}
				for land.InBounds() && !occupied(land) {
					stack = append(stack, extendFrame(frame, land, target))
					extended = true
					land = Cell{land.Row + dir.Row, land.Col + dir.Col}
				}
			} else {
				// A pawn captures by a single adjacent jump, in any of the
				// four diagonal directions, landing two squares beyond.
				target := Cell{frame.pos.Row + dir.Row, frame.pos.Col + dir.Col}
				land := Cell{frame.pos.Row + 2*dir.Row, frame.pos.Col + 2*dir.Col}
				if !land.InBounds() || occupied(land) {
					continue
				}
				if !occupied(target) || !IsOwnedBy(b.At(target), color.Opponent()) || alreadyCaptured(frame, target) {
					continue
				}
				stack = append(stack, extendFrame(frame, land, target))
				extended = true
			}
		}

		// A chain ends at a square with no further capture available.
		if !extended && len(frame.captured) > 0 {
			chains = append(chains, CaptureSequence{
				Path:     frame.path,
				Captured: frame.captured,
			})
		}
	}
	return chains
}

// extendFrame builds the child frame for jumping target and landing on
// land. Path and captured slices are copied so sibling branches share
// no backing arrays.
func extendFrame(frame searchFrame, land, target Cell) searchFrame {
	path := make([]Cell, len(frame.path), len(frame.path)+1)
	copy(path, frame.path)
	captured := make([]Cell, len(frame.captured), len(frame.captured)+1)
	copy(captured, frame.captured)
	return searchFrame{
		pos:      land,
		path:     append(path, land),
		captured: append(captured, target),
	}
}
