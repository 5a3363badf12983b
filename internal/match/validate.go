// internal/match/validate.go
package match

import "github.com/damas-online/damas/internal/engine"

// validateMove checks a move claim against the rule engine. When any
// capture is available, the claim must match one of the maximal
// capture sequences; the engine may return several equally long chains
// and any of them is accepted as claimed, without forcing a canonical
// choice. When no capture exists, the claim must match a simple move
// exactly.
func validateMove(b engine.Board, color engine.Color, mv engine.Move) error {
	sequences := engine.FindCaptureSequences(b, color)
	if len(sequences) > 0 {
		for _, seq := range sequences {
			if seq.Matches(mv) {
				return nil
			}
		}
		return ErrIllegalMove
	}

	if mv.IsCapture() {
		return ErrIllegalMove
	}
	for _, legal := range engine.FindSimpleMoves(b, color) {
		if legal.From == mv.From && legal.To == mv.To {
			return nil
		}
	}
	return ErrIllegalMove
}
