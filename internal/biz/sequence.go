package biz

import (
	"cascade/encoding"
)

// Step is one board snapshot taken before removal, with the matches found on
// it. The terminal step of a sequence has no matches.
type Step struct {
	Grid    *Grid
	Matches []Match
}

// Terminal reports whether the step ends its sequence.
func (s Step) Terminal() bool { return len(s.Matches) == 0 }

// Payload converts the step to its delivered form.
func (s Step) Payload() encoding.RoundPayload {
	return encoding.RoundPayload{Matrix: s.Grid.Strings(), Combine: MatchStrings(s.Matches)}
}

// Sequence is every cascade step of one spin, ending with the stable board.
type Sequence []Step

// Payloads converts every step in order.
func (seq Sequence) Payloads() []encoding.RoundPayload {
	out := make([]encoding.RoundPayload, len(seq))
	for i, s := range seq {
		out[i] = s.Payload()
	}
	return out
}

// Cascades is the number of paying steps.
func (seq Sequence) Cascades() int {
	if len(seq) == 0 {
		return 0
	}
	return len(seq) - 1
}

// Final returns the stable board the sequence ends on.
func (seq Sequence) Final() *Grid {
	if len(seq) == 0 {
		return nil
	}
	return seq[len(seq)-1].Grid
}

// Spin draws a fresh grid from src and cascades it until it is stable.
func (e *Engine) Spin(src SymbolSource) (Sequence, error) {
	g, err := e.NewGrid(src)
	if err != nil {
		return nil, err
	}
	return e.SpinFrom(g, src)
}

// SpinFrom cascades a caller-supplied grid. The grid must match the engine
// geometry and hold only alphabet symbols. Every step owns its own grid
// snapshot. Exceeding MaxCascades paying steps is an engine fault.
func (e *Engine) SpinFrom(g *Grid, src SymbolSource) (Sequence, error) {
	if g.Rows() != e.cfg.Rows || g.Cols() != e.cfg.Cols {
		return nil, configError("grid is %dx%d, engine expects %dx%d", g.Rows(), g.Cols(), e.cfg.Rows, e.cfg.Cols)
	}
	for i := 0; i < g.Len(); i++ {
		if s := g.At(i); !e.cfg.Contains(s) {
			return nil, configError("cell %d holds %q, not in the alphabet", i, s)
		}
	}
	var seq Sequence
	cur := g.Clone()
	for {
		matches := e.FindMatches(cur)
		if len(matches) == 0 {
			return append(seq, Step{Grid: cur}), nil
		}
		if len(seq) >= e.cfg.MaxCascades {
			return nil, engineFault("grid still matching after %d cascades", e.cfg.MaxCascades)
		}
		seq = append(seq, Step{Grid: cur, Matches: matches})
		cur = e.Resolve(cur, matches, src)
	}
}
