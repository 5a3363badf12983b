// internal/engine/board.go
package engine

// Size is the board dimension. Brazilian checkers is played on 8x8.
const Size = 8

// Cell addresses one square. Row 0 is Black's back rank, row 7 is
// White's. Only dark squares ((row+col) odd) ever hold pieces.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the cell is on the board.
func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// IsDark reports whether the cell is a playable dark square.
func (c Cell) IsDark() bool {
	return (c.Row+c.Col)%2 == 1
}

// Board is a plain value type; copying a Board copies the position.
type Board [Size][Size]Piece

// NewBoard returns the standard Brazilian checkers opening position:
// Black pawns on the dark squares of rows 0-2, White pawns on rows 5-7,
// the middle two rows empty.
func NewBoard() Board {
	var b Board
	for row := 0; row < 3; row++ {
		for col := 0; col < Size; col++ {
			if (Cell{row, col}).IsDark() {
				b[row][col] = BlackPawn
			}
		}
	}
	for row := 5; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if (Cell{row, col}).IsDark() {
				b[row][col] = WhitePawn
			}
		}
	}
	return b
}

// At returns the piece at the given cell.
func (b Board) At(c Cell) Piece {
	return b[c.Row][c.Col]
}

// CountPieces returns the number of pieces (pawns and kings) owned by color.
func (b Board) CountPieces(color Color) int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if IsOwnedBy(b[row][col], color) {
				count++
			}
		}
	}
	return count
}

// TotalPieces returns the number of occupied cells.
func (b Board) TotalPieces() int {
	return b.CountPieces(White) + b.CountPieces(Black)
}

// forwardDir is the row delta a pawn of the given color advances in.
// White moves toward row 0, Black toward row 7.
func forwardDir(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

// promotionRow is the back rank on which a pawn of the given color is crowned.
func promotionRow(color Color) int {
	if color == White {
		return 0
	}
	return Size - 1
}
