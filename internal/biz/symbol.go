package biz

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is one cell value of the grid alphabet.
type Symbol string

// empty marks a removed cell while a cascade is being resolved. It never
// leaves the resolver.
const empty Symbol = ""

// Default engine settings of the 5x5 product.
const (
	DefaultRows        = 5
	DefaultCols        = 5
	DefaultMinCluster  = 4
	DefaultMaxCascades = 64
	DefaultWildcard    = Symbol("K")
)

// DefaultSymbols is the drawable alphabet, wildcard included.
var DefaultSymbols = []Symbol{"1", "2", "3", "4", "5", "6", "7", "8", "K"}

// DefaultScorePerCell is the score contributed by every cell of a match.
var DefaultScorePerCell = decimal.NewFromFloat(0.5)

// EngineConfig describes the grid geometry, the alphabet and the match rules.
type EngineConfig struct {
	Rows         int
	Cols         int
	MinCluster   int
	Symbols      []Symbol // drawable alphabet, must contain Wildcard
	Wildcard     Symbol
	ScorePerCell decimal.Decimal
	MaxCascades  int // safety valve for Spin
}

// DefaultEngineConfig returns the settings of the 5x5 product.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Rows:         DefaultRows,
		Cols:         DefaultCols,
		MinCluster:   DefaultMinCluster,
		Symbols:      append([]Symbol(nil), DefaultSymbols...),
		Wildcard:     DefaultWildcard,
		ScorePerCell: DefaultScorePerCell,
		MaxCascades:  DefaultMaxCascades,
	}
}

// Validate rejects geometry, alphabet or rule settings the engine cannot run with.
func (c EngineConfig) Validate() error {
	switch {
	case c.Rows <= 0 || c.Cols <= 0:
		return configError("grid dimensions must be positive, got %dx%d", c.Rows, c.Cols)
	case c.MinCluster < 1:
		return configError("minimum cluster size must be at least 1, got %d", c.MinCluster)
	case len(c.Symbols) == 0:
		return configError("symbol alphabet is empty")
	case c.MaxCascades < 1:
		return configError("max cascades must be at least 1, got %d", c.MaxCascades)
	case !c.ScorePerCell.IsPositive():
		return configError("score per cell must be positive, got %s", c.ScorePerCell)
	}
	if err := validateAlphabet(c.Symbols); err != nil {
		return err
	}
	if !c.Contains(c.Wildcard) {
		return configError("wildcard %q is not part of the alphabet", c.Wildcard)
	}
	return nil
}

// Contains reports whether s belongs to the alphabet.
func (c EngineConfig) Contains(s Symbol) bool {
	for _, v := range c.Symbols {
		if v == s {
			return true
		}
	}
	return false
}

// Size is the number of cells of one grid.
func (c EngineConfig) Size() int { return c.Rows * c.Cols }

func validateAlphabet(symbols []Symbol) error {
	seen := make(map[Symbol]struct{}, len(symbols))
	for _, s := range symbols {
		if s == empty {
			return configError("alphabet contains an empty symbol")
		}
		// ';' and ',' are descriptor separators
		if strings.ContainsAny(string(s), ";, ") {
			return configError("symbol %q contains a reserved character", s)
		}
		if _, ok := seen[s]; ok {
			return configError("symbol %q is listed twice", s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// ParseSymbols converts configuration strings to symbols.
func ParseSymbols(values []string) []Symbol {
	out := make([]Symbol, 0, len(values))
	for _, v := range values {
		out = append(out, Symbol(v))
	}
	return out
}
