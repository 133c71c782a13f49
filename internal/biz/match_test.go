package biz

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchScore(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{1, "0.50"},
		{4, "2.00"},
		{5, "2.50"},
		{15, "7.50"},
		{25, "12.50"},
	}
	for _, tt := range tests {
		indices := make([]int, tt.size)
		for i := range indices {
			indices[i] = tt.size - 1 - i
		}
		m := NewMatch(Cluster{Anchor: "3", Indices: indices}, DefaultScorePerCell)
		assert.Equal(t, tt.want, m.Score.StringFixed(2), "size %d", tt.size)
		assert.IsIncreasing(t, m.Indices)
		assert.Equal(t, tt.size, m.Size())
	}
}

func TestMatchString(t *testing.T) {
	m := NewMatch(Cluster{Anchor: "3", Indices: []int{3, 1, 0, 2}}, DefaultScorePerCell)
	assert.Equal(t, "3;0,1,2,3;2.00", m.String())
}

func TestParseMatch(t *testing.T) {
	m, err := ParseMatch("3;0,1,2,3;2.00")
	require.NoError(t, err)
	assert.Equal(t, Symbol("3"), m.Symbol)
	assert.Equal(t, []int{0, 1, 2, 3}, m.Indices)
	assert.True(t, m.Score.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "3;0,1,2,3;2.00", m.String())

	m, err = ParseMatch("5;4,9,8,14;7.50")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 9, 8, 14}, m.Indices, "order is kept as sent")
}

func TestParseMatchErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"3;0,1,2,3",
		"3;0,1;2.00;x",
		";0,1,2,3;2.00",
		"3;;2.00",
		"3;0,a,2;2.00",
		"3;0,,2;2.00",
		"3;0,1,2,3;two",
	} {
		_, err := ParseMatch(raw)
		require.Error(t, err, "%q", raw)
		assert.True(t, IsInvalidRound(err), "%q", raw)
	}
}

func TestMatchStringsAndTotal(t *testing.T) {
	assert.Nil(t, MatchStrings(nil))
	assert.True(t, TotalScore(nil).IsZero())

	matches := []Match{
		NewMatch(Cluster{Anchor: "1", Indices: []int{0, 1, 2, 3}}, DefaultScorePerCell),
		NewMatch(Cluster{Anchor: "2", Indices: []int{10, 11, 12, 13, 14}}, DefaultScorePerCell),
	}
	assert.Equal(t, []string{"1;0,1,2,3;2.00", "2;10,11,12,13,14;2.50"}, MatchStrings(matches))
	assert.Equal(t, "4.50", TotalScore(matches).StringFixed(2))
}
