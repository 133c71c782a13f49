package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinFromStableGrid(t *testing.T) {
	e := newTestEngine(t)
	g := mustGrid(t, 5, 5, baseCells(5, 5))
	seq, err := e.SpinFrom(g, scripted("1"))
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.True(t, seq[0].Terminal())
	assert.Equal(t, g.Cells(), seq.Final().Cells())
	assert.Zero(t, seq.Cascades())

	p := seq[0].Payload()
	assert.Len(t, p.Matrix, 25)
	assert.Nil(t, p.Combine)
	assert.True(t, p.Ended())
}

func TestSpinFromCannedRound(t *testing.T) {
	e := newTestEngine(t)
	g := mustGrid(t, 5, 5, firstRound)
	i := 0
	src := SourceFunc(func() Symbol {
		i++
		return []Symbol{"6", "7", "8"}[i%3]
	})
	seq, err := e.SpinFrom(g, src)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(seq), 2)
	assert.Equal(t, []string{"3;0,1,2,3;2.00", "5;4,8,9,14;2.00", "2;7,12,13,16,17;2.50"},
		MatchStrings(seq[0].Matches))
	assert.Equal(t, firstRound, seq[0].Grid.Cells())
	assert.Equal(t, firstRound, g.Cells(), "caller grid must not change")
}

func TestSpinTerminationLaw(t *testing.T) {
	e := newTestEngine(t)
	for seed := uint64(1); seed <= 200; seed++ {
		seq, err := e.Spin(NewSeededSource(DefaultSymbols, seed))
		require.NoError(t, err, "seed %d", seed)
		require.NotEmpty(t, seq)
		for i, s := range seq {
			assert.Equal(t, i == len(seq)-1, s.Terminal(), "seed %d step %d", seed, i)
			assert.Equal(t, MatchStrings(e.FindMatches(s.Grid)), MatchStrings(s.Matches), "seed %d step %d", seed, i)
			if i > 0 {
				assert.NotSame(t, seq[i-1].Grid, s.Grid)
			}
		}
	}
}

func TestSpinIsReproducible(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.Spin(NewSeededSource(DefaultSymbols, 42))
	require.NoError(t, err)
	b, err := e.Spin(NewSeededSource(DefaultSymbols, 42))
	require.NoError(t, err)
	assert.Equal(t, a.Payloads(), b.Payloads())
}

func TestSpinCapIsEngineFault(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MaxCascades = 3
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	seq, err := e.Spin(scripted("1"))
	require.Error(t, err)
	assert.True(t, IsEngineFault(err))
	assert.Nil(t, seq)
}

func TestSpinFromRejectsWrongSize(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.SpinFrom(mustGrid(t, 4, 5, baseCells(4, 5)), scripted("1"))
	assert.True(t, IsInvalidConfig(err))
}

func TestSequenceHelpersOnEmpty(t *testing.T) {
	var seq Sequence
	assert.Zero(t, seq.Cascades())
	assert.Nil(t, seq.Final())
	assert.Empty(t, seq.Payloads())
}

func TestSpinFromRejectsForeignCells(t *testing.T) {
	e := newTestEngine(t)
	for _, bad := range []Symbol{empty, "Z"} {
		cells := baseCells(5, 5)
		for i := 0; i < 4; i++ {
			cells[i] = bad
		}
		seq, err := e.SpinFrom(mustGrid(t, 5, 5, cells), scripted("1"))
		assert.True(t, IsInvalidConfig(err), "cell %q", bad)
		assert.Nil(t, seq)
	}
}
