package biz

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Match is a cluster large enough to pay. It serializes to the wire form
// "{symbol};{sorted indices};{score}", e.g. "3;0,1,2,3;2.00".
type Match struct {
	Symbol  Symbol
	Indices []int
	Score   decimal.Decimal
}

// NewMatch scores cluster at perCell per member.
func NewMatch(c Cluster, perCell decimal.Decimal) Match {
	return Match{
		Symbol:  c.Anchor,
		Indices: c.sortedIndices(),
		Score:   perCell.Mul(decimal.NewFromInt(int64(c.Size()))),
	}
}

func (m Match) Size() int { return len(m.Indices) }

func (m Match) String() string {
	var b strings.Builder
	b.WriteString(string(m.Symbol))
	b.WriteByte(';')
	for i, idx := range m.Indices {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(idx))
	}
	b.WriteByte(';')
	b.WriteString(m.Score.StringFixed(2))
	return b.String()
}

// ParseMatch decodes a wire descriptor. Index order is kept as sent; range
// checks against a grid belong to ValidatePayload.
func ParseMatch(s string) (Match, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return Match{}, roundError("descriptor %q: want 3 fields, got %d", s, len(parts))
	}
	if parts[0] == "" {
		return Match{}, roundError("descriptor %q: empty symbol", s)
	}
	if parts[1] == "" {
		return Match{}, roundError("descriptor %q: no indices", s)
	}
	fields := strings.Split(parts[1], ",")
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		idx, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Match{}, roundError("descriptor %q: bad index %q", s, f)
		}
		indices = append(indices, idx)
	}
	score, err := decimal.NewFromString(parts[2])
	if err != nil {
		return Match{}, roundError("descriptor %q: bad score %q", s, parts[2])
	}
	return Match{Symbol: Symbol(parts[0]), Indices: indices, Score: score}, nil
}

// MatchStrings serializes a match list in order.
func MatchStrings(matches []Match) []string {
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.String()
	}
	return out
}

// TotalScore sums the scores of matches.
func TotalScore(matches []Match) decimal.Decimal {
	total := decimal.Zero
	for _, m := range matches {
		total = total.Add(m.Score)
	}
	return total
}
