package biz

import (
	"context"
	"errors"
	"testing"

	"cascade/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testLogger *zap.Logger

func init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	cfg.DisableStacktrace = true
	testLogger, _ = cfg.Build()
}

func TestSimulatorRun(t *testing.T) {
	sim := NewSimulator(newTestEngine(t), nil, 4, testLogger)
	report, err := sim.Run(context.Background(), 1001, 99)
	require.NoError(t, err)

	assert.EqualValues(t, 1001, report.Spins)
	assert.Zero(t, report.Faults)
	var spins, cascades int64
	for n, c := range report.Chains {
		spins += c
		cascades += int64(n) * c
	}
	assert.EqualValues(t, 1001, spins)
	assert.Equal(t, report.Cascades, cascades)
	assert.LessOrEqual(t, report.HitSpins, report.Spins)
	assert.True(t, report.MaxScore.LessThanOrEqual(report.TotalScore))
	assert.Contains(t, report.String(), "spins=1001")
}

func TestSimulatorReproducible(t *testing.T) {
	e := newTestEngine(t)
	a, err := NewSimulator(e, nil, 3, testLogger).Run(context.Background(), 300, 5)
	require.NoError(t, err)
	b, err := NewSimulator(e, UniformSources(DefaultSymbols), 3, nil).Run(context.Background(), 300, 5)
	require.NoError(t, err)
	assert.True(t, a.TotalScore.Equal(b.TotalScore))
	assert.Equal(t, a.Chains, b.Chains)
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewSimulator(newTestEngine(t), nil, 2, testLogger).Run(ctx, 1000, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Spins)
}

func TestSimulationReportEmpty(t *testing.T) {
	r := newSimulationReport()
	assert.True(t, r.AvgScore().IsZero())
	assert.Zero(t, r.HitRate())
}

func TestSimulatorUsesConfiguredWeights(t *testing.T) {
	e := newTestEngine(t)
	uniform, err := NewSimulator(e, nil, 2, nil).Run(context.Background(), 20, 3)
	require.NoError(t, err)
	assert.Zero(t, uniform.Faults)

	// only "1" can be drawn: every board is one cluster that refills itself
	sources, err := NewSourceFactory(&conf.Engine{Weights: []int32{1, 0, 0, 0, 0, 0, 0, 0, 0}}, e.Config())
	require.NoError(t, err)
	skewed, err := NewSimulator(e, sources, 2, nil).Run(context.Background(), 20, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 20, skewed.Faults)
	assert.Zero(t, skewed.Spins)
}

func TestSimulatorSourceError(t *testing.T) {
	boom := errors.New("no source")
	sources := func(seed uint64) (SymbolSource, error) {
		if seed == 2 {
			return nil, boom
		}
		return NewSeededSource(DefaultSymbols, seed), nil
	}
	report, err := NewSimulator(newTestEngine(t), sources, 3, nil).Run(context.Background(), 30, 1)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, report)
}
