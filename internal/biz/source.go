package biz

import (
	"math/rand/v2"
)

// SymbolSource supplies the symbols used to fill and refill a grid.
type SymbolSource interface {
	NextSymbol() Symbol
}

// SourceFunc adapts a plain function to SymbolSource.
type SourceFunc func() Symbol

func (f SourceFunc) NextSymbol() Symbol { return f() }

type uniformSource struct {
	symbols []Symbol
	rng     *rand.Rand
}

// NewUniformSource draws every symbol with equal probability from rng.
func NewUniformSource(symbols []Symbol, rng *rand.Rand) SymbolSource {
	return &uniformSource{symbols: append([]Symbol(nil), symbols...), rng: rng}
}

// NewSeededSource is a uniform source over a PCG stream, reproducible from seed.
func NewSeededSource(symbols []Symbol, seed uint64) SymbolSource {
	return NewUniformSource(symbols, NewRand(seed))
}

// NewRand returns a PCG generator fully determined by seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (s *uniformSource) NextSymbol() Symbol {
	return s.symbols[s.rng.IntN(len(s.symbols))]
}

type weightedSource struct {
	symbols []Symbol
	cum     []int
	total   int
	rng     *rand.Rand
}

// NewWeightedSource draws symbols[i] with probability weights[i]/sum(weights).
func NewWeightedSource(symbols []Symbol, weights []int, rng *rand.Rand) (SymbolSource, error) {
	if len(symbols) == 0 {
		return nil, configError("symbol alphabet is empty")
	}
	if len(weights) != len(symbols) {
		return nil, configError("got %d weights for %d symbols", len(weights), len(symbols))
	}
	s := &weightedSource{
		symbols: append([]Symbol(nil), symbols...),
		cum:     make([]int, len(weights)),
		rng:     rng,
	}
	for i, w := range weights {
		if w < 0 {
			return nil, configError("weight of %q is negative", symbols[i])
		}
		s.total += w
		s.cum[i] = s.total
	}
	if s.total <= 0 {
		return nil, configError("symbol weights sum to zero")
	}
	return s, nil
}

func (s *weightedSource) NextSymbol() Symbol {
	r := s.rng.IntN(s.total)
	for i, c := range s.cum {
		if r < c {
			return s.symbols[i]
		}
	}
	return s.symbols[len(s.symbols)-1]
}
