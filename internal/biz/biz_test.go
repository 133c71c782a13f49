package biz

import (
	"testing"

	"cascade/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yola1107/kratos/v2/log"
)

func TestNewEngineConfig(t *testing.T) {
	cfg, err := NewEngineConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineConfig(), cfg)

	cfg, err = NewEngineConfig(&conf.Engine{
		Rows:         6,
		Cols:         7,
		MinCluster:   5,
		Symbols:      []string{"a", "b", "W"},
		Wildcard:     "W",
		ScorePerCell: "0.25",
		MaxCascades:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Rows)
	assert.Equal(t, 7, cfg.Cols)
	assert.Equal(t, 5, cfg.MinCluster)
	assert.Equal(t, strs("a", "b", "W"), cfg.Symbols)
	assert.Equal(t, "0.25", cfg.ScorePerCell.String())
	assert.Equal(t, 10, cfg.MaxCascades)

	_, err = NewEngineConfig(&conf.Engine{ScorePerCell: "half"})
	assert.True(t, IsInvalidConfig(err))
	_, err = NewEngineConfig(&conf.Engine{Symbols: []string{"a", "b"}})
	assert.True(t, IsInvalidConfig(err), "default wildcard is missing from the alphabet")
}

func TestNewSymbolSource(t *testing.T) {
	cfg := DefaultEngineConfig()
	open := func(c *conf.Engine) (SymbolSource, error) {
		sources, err := NewSourceFactory(c, cfg)
		if err != nil {
			return nil, err
		}
		return NewSymbolSource(c, sources, log.DefaultLogger)
	}

	src, err := open(&conf.Engine{Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, draw(NewSeededSource(cfg.Symbols, 9), 50), draw(src, 50))

	src, err = open(&conf.Engine{Fair: &conf.Engine_Fair{ServerSeed: "s", ClientSeed: "c", Nonce: 3}})
	require.NoError(t, err)
	fair, err := NewFairSource(cfg.Symbols, "s", "c", 3)
	require.NoError(t, err)
	assert.Equal(t, draw(fair, 50), draw(src, 50))

	_, err = open(&conf.Engine{Seed: 1, Weights: []int32{1, 2}})
	assert.True(t, IsInvalidConfig(err))

	src, err = open(nil)
	require.NoError(t, err)
	assert.NotNil(t, src)
}

func TestNewSourceFactory(t *testing.T) {
	cfg := DefaultEngineConfig()

	weights := []int32{0, 0, 1, 0, 0, 0, 0, 0, 0}
	sources, err := NewSourceFactory(&conf.Engine{Weights: weights}, cfg)
	require.NoError(t, err)
	src, err := sources(11)
	require.NoError(t, err)
	for _, s := range draw(src, 100) {
		assert.Equal(t, Symbol("3"), s)
	}

	sources, err = NewSourceFactory(&conf.Engine{Fair: &conf.Engine_Fair{ServerSeed: "s", ClientSeed: "c"}}, cfg)
	require.NoError(t, err)
	src, err = sources(5)
	require.NoError(t, err)
	fair, err := NewFairSource(cfg.Symbols, "s", "c", 5)
	require.NoError(t, err)
	assert.Equal(t, draw(fair, 50), draw(src, 50), "seed is the nonce")

	sources, err = NewSourceFactory(nil, cfg)
	require.NoError(t, err)
	src, err = sources(4)
	require.NoError(t, err)
	assert.Equal(t, draw(NewSeededSource(cfg.Symbols, 4), 50), draw(src, 50))

	_, err = NewSourceFactory(&conf.Engine{Weights: make([]int32, len(cfg.Symbols))}, cfg)
	assert.True(t, IsInvalidConfig(err), "all-zero weights")
}

func TestNewRoundOptions(t *testing.T) {
	assert.Equal(t, RoundOptions{SourceID: "default", Mode: ModeGenerated}, NewRoundOptions(nil))
	assert.Equal(t, RoundOptions{SourceID: "table-1", Mode: ModeMock}, NewRoundOptions(&conf.Source{Id: "table-1", Mode: ModeMock}))
}
