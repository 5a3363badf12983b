// internal/engine/move.go
package engine

import (
	"fmt"
	"strings"
)

// Move is the wire-level description of one turn: the origin square,
// the final landing square, and the ordered list of captured squares
// (empty for a simple move).
type Move struct {
	From     Cell   `json:"from"`
	To       Cell   `json:"to"`
	Captured []Cell `json:"capturedCells,omitempty"`
}

// IsCapture reports whether the move captures at least one piece.
func (m Move) IsCapture() bool {
	return len(m.Captured) > 0
}

// CaptureSequence is one terminal chain found by the capture search.
// Path starts at the origin square and lists every landing square in
// order; Captured lists the jumped squares in the same order.
type CaptureSequence struct {
	Path     []Cell
	Captured []Cell
}

// Move collapses the sequence into its wire representation.
func (s CaptureSequence) Move() Move {
	captured := make([]Cell, len(s.Captured))
	copy(captured, s.Captured)
	return Move{
		From:     s.Path[0],
		To:       s.Path[len(s.Path)-1],
		Captured: captured,
	}
}

// cellName renders a cell in algebraic notation (a1 bottom-left from
// White's point of view).
func cellName(c Cell) string {
	return fmt.Sprintf("%c%d", 'a'+rune(c.Col), Size-c.Row)
}

// Notation renders the move for history entries, e.g. "c3-d4" for a
// simple move or "e3xf4xf6-e7" for a multi-capture (captured squares
// listed in jump order, then the landing square).
func (m Move) Notation() string {
	if !m.IsCapture() {
		return cellName(m.From) + "-" + cellName(m.To)
	}
	var sb strings.Builder
	sb.WriteString(cellName(m.From))
	for _, cap := range m.Captured {
		sb.WriteString("x")
		sb.WriteString(cellName(cap))
	}
	sb.WriteString("-")
	sb.WriteString(cellName(m.To))
	return sb.String()
}

// cellsEqual compares two cell lists positionally.
func cellsEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Matches reports whether a claimed move corresponds to this sequence:
// same origin, same terminal landing square, and the same captured
// squares in the same order. Intermediate landings are not part of the
// wire move, so equal-capture chains that differ only in transit are
// interchangeable.
func (s CaptureSequence) Matches(m Move) bool {
	return s.Path[0] == m.From &&
		s.Path[len(s.Path)-1] == m.To &&
		cellsEqual(s.Captured, m.Captured)
}
