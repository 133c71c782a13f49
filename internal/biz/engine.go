package biz

import (
	"github.com/kamstrup/intmap"
)

// Engine detects matches, resolves cascades and generates spin sequences
// for one EngineConfig. It holds no mutable state and is safe to share.
type Engine struct {
	cfg EngineConfig
}

// NewEngine validates cfg and returns an engine for it.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Symbols = append([]Symbol(nil), cfg.Symbols...)
	return &Engine{cfg: cfg}, nil
}

// Config returns a copy of the engine settings.
func (e *Engine) Config() EngineConfig {
	cfg := e.cfg
	cfg.Symbols = append([]Symbol(nil), e.cfg.Symbols...)
	return cfg
}

// NewGrid draws a fresh grid of the configured size from src.
func (e *Engine) NewGrid(src SymbolSource) (*Grid, error) {
	return NewGrid(e.cfg.Rows, e.cfg.Cols, src)
}

// FindMatches returns the clusters of g that reach the minimum size, in
// seed order, as scored descriptors.
func (e *Engine) FindMatches(g *Grid) []Match {
	var matches []Match
	for _, c := range FindClusters(g, e.cfg.Wildcard) {
		if c.Size() < e.cfg.MinCluster {
			continue
		}
		matches = append(matches, NewMatch(c, e.cfg.ScorePerCell))
	}
	return matches
}

// Resolve removes every cell referenced by matches, lets the remaining cells
// of each column fall to the bottom in their original order and refills the
// vacated cells from src, starting with the one just above the settled cells
// and moving up to row 0. g is left untouched.
func (e *Engine) Resolve(g *Grid, matches []Match, src SymbolSource) *Grid {
	next := g.Clone()
	removed := removalSet(g, matches)
	removed.ForEach(func(idx int) bool {
		next.cells[idx] = empty
		return true
	})
	for c := 0; c < next.cols; c++ {
		writeR := compactColumn(next, c)
		for r := writeR; r >= 0; r-- {
			next.cells[c*next.rows+r] = src.NextSymbol()
		}
	}
	return next
}

// Gaps returns, per column, how many cells matches remove. A client uses it
// to compute fall distances.
func (e *Engine) Gaps(g *Grid, matches []Match) []int {
	gaps := make([]int, g.cols)
	removalSet(g, matches).ForEach(func(idx int) bool {
		gaps[g.Col(idx)]++
		return true
	})
	return gaps
}

// removalSet is the union of match indices that fall inside g.
func removalSet(g *Grid, matches []Match) *intmap.Set[int] {
	set := intmap.NewSet[int](g.Len())
	for _, m := range matches {
		for _, idx := range m.Indices {
			if idx >= 0 && idx < g.Len() {
				set.Add(idx)
			}
		}
	}
	return set
}

// compactColumn slides the non-empty cells of column c to the highest row
// indices, keeping their order, and returns the lowest row still empty, or
// -1 when the column is full.
func compactColumn(g *Grid, c int) int {
	base := c * g.rows
	writeR := g.rows - 1
	for r := g.rows - 1; r >= 0; r-- {
		v := g.cells[base+r]
		if v == empty {
			continue
		}
		g.cells[base+writeR] = v
		writeR--
	}
	for r := writeR; r >= 0; r-- {
		g.cells[base+r] = empty
	}
	return writeR
}
