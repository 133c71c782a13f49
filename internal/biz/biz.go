package biz

import (
	"math/rand/v2"

	"cascade/internal/conf"

	"github.com/google/wire"
	"github.com/shopspring/decimal"
	"github.com/yola1107/kratos/v2/log"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewEngineConfig, NewEngine, NewSourceFactory, NewSymbolSource, NewRoundOptions, NewRoundUsecase)

// NewEngineConfig applies c over the product defaults.
func NewEngineConfig(c *conf.Engine) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if c == nil {
		return cfg, nil
	}
	if c.Rows != 0 {
		cfg.Rows = int(c.Rows)
	}
	if c.Cols != 0 {
		cfg.Cols = int(c.Cols)
	}
	if c.MinCluster != 0 {
		cfg.MinCluster = int(c.MinCluster)
	}
	if len(c.Symbols) > 0 {
		cfg.Symbols = ParseSymbols(c.Symbols)
	}
	if c.Wildcard != "" {
		cfg.Wildcard = Symbol(c.Wildcard)
	}
	if c.MaxCascades != 0 {
		cfg.MaxCascades = int(c.MaxCascades)
	}
	if c.ScorePerCell != "" {
		d, err := decimal.NewFromString(c.ScorePerCell)
		if err != nil {
			return cfg, configError("score_per_cell %q: %v", c.ScorePerCell, err)
		}
		cfg.ScorePerCell = d
	}
	return cfg, cfg.Validate()
}

// SourceFactory builds the symbol source of one seed. Every consumer that
// has to deal the configured game from a seed (the live feed, sequence
// reproduction, the simulator) draws through the same factory.
type SourceFactory func(seed uint64) (SymbolSource, error)

// UniformSources is the factory of NewSeededSource over symbols.
func UniformSources(symbols []Symbol) SourceFactory {
	symbols = append([]Symbol(nil), symbols...)
	return func(seed uint64) (SymbolSource, error) {
		return NewSeededSource(symbols, seed), nil
	}
}

// NewSourceFactory picks the fair, weighted or uniform source described by c.
// A fair source uses the seed as its nonce; the others seed a PCG stream.
// Weights are checked once here.
func NewSourceFactory(c *conf.Engine, cfg EngineConfig) (SourceFactory, error) {
	symbols := append([]Symbol(nil), cfg.Symbols...)
	switch {
	case c != nil && c.Fair != nil && c.Fair.ServerSeed != "":
		serverSeed, clientSeed := c.Fair.ServerSeed, c.Fair.ClientSeed
		return func(seed uint64) (SymbolSource, error) {
			return NewFairSource(symbols, serverSeed, clientSeed, seed)
		}, nil
	case c != nil && len(c.Weights) > 0:
		weights := make([]int, len(c.Weights))
		for i, w := range c.Weights {
			weights[i] = int(w)
		}
		if _, err := NewWeightedSource(symbols, weights, NewRand(0)); err != nil {
			return nil, err
		}
		return func(seed uint64) (SymbolSource, error) {
			return NewWeightedSource(symbols, weights, NewRand(seed))
		}, nil
	default:
		return UniformSources(symbols), nil
	}
}

// NewSymbolSource opens the live source of the feed. A fair source starts at
// the configured nonce; otherwise a zero seed draws a random one.
func NewSymbolSource(c *conf.Engine, sources SourceFactory, logger log.Logger) (SymbolSource, error) {
	helper := log.NewHelper(logger)
	if c != nil && c.Fair != nil && c.Fair.ServerSeed != "" {
		helper.Infof("symbol source: provably fair, client seed %q nonce %d", c.Fair.ClientSeed, c.Fair.Nonce)
		return sources(c.Fair.Nonce)
	}
	var seed uint64
	if c != nil {
		seed = c.Seed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	helper.Infof("symbol source: weighted=%t, seed %d", c != nil && len(c.Weights) > 0, seed)
	return sources(seed)
}

// NewRoundOptions reads the feed selection from c.
func NewRoundOptions(c *conf.Source) RoundOptions {
	opts := RoundOptions{SourceID: "default", Mode: ModeGenerated}
	if c == nil {
		return opts
	}
	if c.Id != "" {
		opts.SourceID = c.Id
	}
	if c.Mode != "" {
		opts.Mode = c.Mode
	}
	return opts
}
