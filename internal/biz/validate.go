package biz

import (
	"cascade/encoding"
)

// ValidatePayload checks a payload received from outside the engine against
// cfg and returns its decoded matches. The matrix must hold exactly one
// alphabet symbol per cell; every descriptor must parse, anchor on a
// non-wildcard symbol and reference distinct in-range cells that hold the
// anchor or the wildcard.
func ValidatePayload(p encoding.RoundPayload, cfg EngineConfig) ([]Match, error) {
	size := cfg.Size()
	if len(p.Matrix) != size {
		return nil, roundError("matrix has %d cells, want %d", len(p.Matrix), size)
	}
	for i, v := range p.Matrix {
		if !cfg.Contains(Symbol(v)) {
			return nil, roundError("cell %d holds unknown symbol %q", i, v)
		}
	}
	matches := make([]Match, 0, len(p.Combine))
	for _, raw := range p.Combine {
		m, err := ParseMatch(raw)
		if err != nil {
			return nil, err
		}
		if m.Symbol == cfg.Wildcard || !cfg.Contains(m.Symbol) {
			return nil, roundError("descriptor %q: invalid anchor", raw)
		}
		seen := make(map[int]struct{}, len(m.Indices))
		for _, idx := range m.Indices {
			if idx < 0 || idx >= size {
				return nil, roundError("descriptor %q: index %d out of range [0,%d)", raw, idx, size)
			}
			if _, dup := seen[idx]; dup {
				return nil, roundError("descriptor %q: index %d repeated", raw, idx)
			}
			seen[idx] = struct{}{}
			if v := Symbol(p.Matrix[idx]); v != m.Symbol && v != cfg.Wildcard {
				return nil, roundError("descriptor %q: cell %d holds %q", raw, idx, v)
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// ValidatePayloads checks a whole dataset, stopping at the first bad entry.
func ValidatePayloads(ps []encoding.RoundPayload, cfg EngineConfig) error {
	for i, p := range ps {
		if _, err := ValidatePayload(p, cfg); err != nil {
			return roundError("payload %d: %v", i, err)
		}
	}
	return nil
}
