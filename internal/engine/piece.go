// internal/engine/piece.go
package engine

import "fmt"

// Color identifies one side of a match. White belongs to the match
// creator and moves first.
type Color uint8

const (
	White Color = iota
	Black
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Piece is the content of a single board cell.
type Piece uint8

const (
	Empty Piece = iota
	WhitePawn
	BlackPawn
	WhiteKing
	BlackKing
)

// pieceNames are the wire/database encodings of each cell value.
var pieceNames = map[Piece]string{
	Empty:     "",
	WhitePawn: "w",
	BlackPawn: "b",
	WhiteKing: "W",
	BlackKing: "B",
}

// Color reports which side owns the piece. ok is false for Empty.
func (p Piece) Color() (c Color, ok bool) {
	switch p {
	case WhitePawn, WhiteKing:
		return White, true
	case BlackPawn, BlackKing:
		return Black, true
	}
	return White, false
}

// IsKing reports whether the piece is a promoted piece.
func (p Piece) IsKing() bool {
	return p == WhiteKing || p == BlackKing
}

// IsOwnedBy reports whether the piece (pawn or king) belongs to color.
func IsOwnedBy(p Piece, color Color) bool {
	c, ok := p.Color()
	return ok && c == color
}

// PawnOf returns the pawn piece for the given color.
func PawnOf(color Color) Piece {
	if color == White {
		return WhitePawn
	}
	return BlackPawn
}

// KingOf returns the king piece for the given color.
func KingOf(color Color) Piece {
	if color == White {
		return WhiteKing
	}
	return BlackKing
}

// MarshalJSON encodes the piece as its single-letter name ("" for empty,
// "w"/"b" for pawns, "W"/"B" for kings).
func (p Piece) MarshalJSON() ([]byte, error) {
	name, ok := pieceNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown piece value %d", p)
	}
	return []byte(`"` + name + `"`), nil
}

// UnmarshalJSON decodes the single-letter piece encoding.
func (p *Piece) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid piece encoding %s", s)
	}
	name := s[1 : len(s)-1]
	for piece, n := range pieceNames {
		if n == name {
			*p = piece
			return nil
		}
	}
	return fmt.Errorf("unknown piece encoding %q", name)
}
