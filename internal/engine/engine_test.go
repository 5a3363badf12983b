// internal/engine/engine_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// place is a test helper to drop pieces on an empty board.
func place(b *Board, p Piece, cells ...Cell) {
	for _, c := range cells {
		b[c.Row][c.Col] = p
	}
}

func TestNewBoardOpeningPosition(t *testing.T) {
	b := NewBoard()

	assert.Equal(t, 12, b.CountPieces(White), "White should start with 12 pawns")
	assert.Equal(t, 12, b.CountPieces(Black), "Black should start with 12 pawns")

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			c := Cell{row, col}
			piece := b.At(c)
			if piece == Empty {
				continue
			}
			assert.True(t, c.IsDark(), "piece on light square %v", c)
			assert.False(t, piece.IsKing(), "no kings in the opening position")
			if row < 3 {
				assert.Equal(t, BlackPawn, piece)
			}
			if row > 4 {
				assert.Equal(t, WhitePawn, piece)
			}
		}
	}
	// Middle rows are empty.
	for row := 3; row < 5; row++ {
		for col := 0; col < Size; col++ {
			assert.Equal(t, Empty, b[row][col])
		}
	}
}

func TestOpeningPositionHasNoCaptures(t *testing.T) {
	b := NewBoard()
	assert.Empty(t, FindCaptureSequences(b, White))
	assert.Empty(t, FindCaptureSequences(b, Black))
	// Each side has 7 legal opening moves.
	assert.Len(t, FindSimpleMoves(b, White), 7)
	assert.Len(t, FindSimpleMoves(b, Black), 7)
}

func TestSingleBlackPawnCapture(t *testing.T) {
	var b Board
	place(&b, BlackPawn, Cell{2, 3})
	place(&b, WhitePawn, Cell{3, 4})

	seqs := FindCaptureSequences(b, Black)
	require.Len(t, seqs, 1)
	seq := seqs[0]
	assert.Equal(t, []Cell{{2, 3}, {4, 5}}, seq.Path)
	assert.Equal(t, []Cell{{3, 4}}, seq.Captured)

	m := seq.Move()
	assert.Equal(t, Cell{2, 3}, m.From)
	assert.Equal(t, Cell{4, 5}, m.To)
}

func TestPawnCapturesBackward(t *testing.T) {
	// Brazilian pawns capture in all four diagonal directions.
	var b Board
	place(&b, WhitePawn, Cell{3, 2})
	place(&b, BlackPawn, Cell{4, 3}) // behind the white pawn

	seqs := FindCaptureSequences(b, White)
	require.Len(t, seqs, 1)
	assert.Equal(t, []Cell{{4, 3}}, seqs[0].Captured)
	assert.Equal(t, Cell{5, 4}, seqs[0].Path[len(seqs[0].Path)-1])
}

func TestMajorityRuleAcrossPieces(t *testing.T) {
	// One white pawn has a single capture, another a double. Only the
	// double chain is legal.
	var b Board
	place(&b, WhitePawn, Cell{5, 0}, Cell{5, 4})
	place(&b, BlackPawn, Cell{4, 1})           // single capture for (5,0)
	place(&b, BlackPawn, Cell{4, 5}, Cell{2, 5}) // double chain for (5,4)

	seqs := FindCaptureSequences(b, White)
	require.NotEmpty(t, seqs)
	for _, seq := range seqs {
		assert.Len(t, seq.Captured, 2, "only maximal chains may be returned")
		assert.Equal(t, Cell{5, 4}, seq.Path[0], "the double chain starts at (5,4)")
	}
}

func TestCaptureChainNeverRevisitsCapturedSquare(t *testing.T) {
	// A king in a ring of pawns can chain in circles; every returned
	// sequence must still capture each square at most once.
	var b Board
	place(&b, WhiteKing, Cell{4, 3})
	place(&b, BlackPawn, Cell{3, 2}, Cell{1, 2}, Cell{1, 4}, Cell{3, 4}, Cell{5, 2}, Cell{5, 4})

	seqs := FindCaptureSequences(b, White)
	require.NotEmpty(t, seqs)
	for _, seq := range seqs {
		seen := make(map[Cell]bool)
		for _, taken := range seq.Captured {
			assert.False(t, seen[taken], "square %v captured twice in %v", taken, seq.Captured)
			seen[taken] = true
		}
	}
}

func TestKingFlyingCapture(t *testing.T) {
	var b Board
	place(&b, WhiteKing, Cell{7, 0})
	place(&b, BlackPawn, Cell{4, 3})

	seqs := FindCaptureSequences(b, White)
	require.NotEmpty(t, seqs)
	// The king may land on any empty square past the captured piece.
	landings := make(map[Cell]bool)
	for _, seq := range seqs {
		require.Equal(t, []Cell{{4, 3}}, seq.Captured)
		landings[seq.Path[len(seq.Path)-1]] = true
	}
	assert.True(t, landings[Cell{3, 4}])
	assert.True(t, landings[Cell{2, 5}])
	assert.True(t, landings[Cell{1, 6}])
	assert.True(t, landings[Cell{0, 7}])
}

func TestKingCannotJumpTwoEnemiesInOneHop(t *testing.T) {
	var b Board
	place(&b, WhiteKing, Cell{7, 0})
	place(&b, BlackPawn, Cell{5, 2}, Cell{4, 3}) // adjacent pair on the diagonal

	assert.Empty(t, FindCaptureSequences(b, White))
}

func TestEmptyBoardQueries(t *testing.T) {
	var b Board
	assert.Empty(t, FindCaptureSequences(b, White))
	assert.Empty(t, FindSimpleMoves(b, White))
	assert.Equal(t, 0, b.CountPieces(White))
}

func TestSimpleMovesPawnForwardOnly(t *testing.T) {
	var b Board
	place(&b, WhitePawn, Cell{4, 3})

	moves := FindSimpleMoves(b, White)
	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, 3, m.To.Row, "white pawns advance toward row 0")
		assert.False(t, m.IsCapture())
	}
}

func TestKingSlidesAnyDistance(t *testing.T) {
	var b Board
	place(&b, BlackKing, Cell{0, 1})

	moves := FindSimpleMoves(b, Black)
	// Down-left: (1,0). Down-right: (1,2)..(7,8 oob) => (1,2),(2,3),(3,4),(4,5),(5,6),(6,7).
	assert.Len(t, moves, 7)
}

func TestApplyMovePromotion(t *testing.T) {
	var b Board
	place(&b, WhitePawn, Cell{1, 2})

	next := ApplyMove(b, Move{From: Cell{1, 2}, To: Cell{0, 3}})
	assert.Equal(t, WhiteKing, next.At(Cell{0, 3}), "pawn reaching row 0 is crowned")
	assert.Equal(t, Empty, next.At(Cell{1, 2}))

	// Any other landing preserves the basic type.
	next = ApplyMove(b, Move{From: Cell{1, 2}, To: Cell{2, 3}})
	assert.Equal(t, WhitePawn, next.At(Cell{2, 3}))
}

func TestApplyMovePieceCountInvariant(t *testing.T) {
	b := NewBoard()
	for _, m := range FindSimpleMoves(b, White) {
		next := ApplyMove(b, m)
		assert.Equal(t, b.TotalPieces(), next.TotalPieces(), "simple moves preserve piece count")
	}

	var c Board
	place(&c, WhitePawn, Cell{5, 4})
	place(&c, BlackPawn, Cell{4, 5}, Cell{2, 5})
	seqs := FindCaptureSequences(c, White)
	require.Len(t, seqs, 1)
	m := seqs[0].Move()
	next := ApplyMove(c, m)
	assert.Equal(t, c.TotalPieces()-len(m.Captured), next.TotalPieces(),
		"a move with N captures removes exactly N pieces")
}

func TestApplyMoveDoesNotMutateInput(t *testing.T) {
	b := NewBoard()
	moves := FindSimpleMoves(b, White)
	require.NotEmpty(t, moves)
	_ = ApplyMove(b, moves[0])
	assert.Equal(t, NewBoard(), b)
}

func TestAdvancedPawnsNotCapturable(t *testing.T) {
	// Two pawns advanced into adjacent-but-non-capturable diagonal
	// positions: the landing square behind each is occupied or off-board
	// only when blocked; here both landings are open but the pawns are
	// not diagonal neighbors, so no capture exists.
	b := NewBoard()
	b = ApplyMove(b, Move{From: Cell{5, 2}, To: Cell{4, 3}})
	b = ApplyMove(b, Move{From: Cell{2, 5}, To: Cell{3, 6}})

	assert.Empty(t, FindCaptureSequences(b, White))
	assert.Empty(t, FindCaptureSequences(b, Black))
	assert.NotEmpty(t, FindSimpleMoves(b, White))
	assert.NotEmpty(t, FindSimpleMoves(b, Black))
}

func TestCheckWinConditionNoPieces(t *testing.T) {
	var b Board
	place(&b, WhitePawn, Cell{5, 2})

	res := CheckWinCondition(b, Black)
	require.True(t, res.Finished)
	assert.Equal(t, White, res.Winner)
	assert.Equal(t, ReasonNoPieces, res.Reason)
}

func TestCheckWinConditionNoMoves(t *testing.T) {
	// Black pawn at (5,0) is wedged: forward landing blocked, no capture.
	var b Board
	place(&b, BlackPawn, Cell{5, 0})
	place(&b, WhitePawn, Cell{6, 1})
	place(&b, WhitePawn, Cell{7, 2})

	res := CheckWinCondition(b, Black)
	require.True(t, res.Finished)
	assert.Equal(t, White, res.Winner)
	assert.Equal(t, ReasonNoMoves, res.Reason)
}

func TestCheckWinConditionNotFinished(t *testing.T) {
	res := CheckWinCondition(NewBoard(), White)
	assert.False(t, res.Finished)
}

func TestMoveNotation(t *testing.T) {
	simple := Move{From: Cell{5, 2}, To: Cell{4, 3}}
	assert.Equal(t, "c3-d4", simple.Notation())

	capture := Move{From: Cell{5, 4}, To: Cell{1, 4}, Captured: []Cell{{4, 5}, {2, 5}}}
	assert.Equal(t, "e3xf4xf6-e7", capture.Notation())
}

func TestSequenceMatches(t *testing.T) {
	seq := CaptureSequence{
		Path:     []Cell{{5, 4}, {3, 6}, {1, 4}},
		Captured: []Cell{{4, 5}, {2, 5}},
	}
	assert.True(t, seq.Matches(Move{From: Cell{5, 4}, To: Cell{1, 4}, Captured: []Cell{{4, 5}, {2, 5}}}))
	assert.False(t, seq.Matches(Move{From: Cell{5, 4}, To: Cell{1, 4}, Captured: []Cell{{2, 5}, {4, 5}}}),
		"capture order is part of the claim")
	assert.False(t, seq.Matches(Move{From: Cell{5, 4}, To: Cell{3, 6}, Captured: []Cell{{4, 5}}}))
}
