package biz

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SimulationReport aggregates the statistics of many independent spins.
type SimulationReport struct {
	Spins      int64
	HitSpins   int64 // spins with at least one cascade
	Cascades   int64
	Faults     int64
	MaxChain   int
	TotalScore decimal.Decimal
	MaxScore   decimal.Decimal
	Chains     map[int]int64 // cascade count -> spins
	Elapsed    time.Duration
}

func newSimulationReport() *SimulationReport {
	return &SimulationReport{TotalScore: decimal.Zero, MaxScore: decimal.Zero, Chains: map[int]int64{}}
}

func (r *SimulationReport) add(seq Sequence) {
	r.Spins++
	n := seq.Cascades()
	r.Chains[n]++
	r.Cascades += int64(n)
	if n > 0 {
		r.HitSpins++
	}
	if n > r.MaxChain {
		r.MaxChain = n
	}
	score := decimal.Zero
	for _, s := range seq {
		score = score.Add(TotalScore(s.Matches))
	}
	r.TotalScore = r.TotalScore.Add(score)
	if score.GreaterThan(r.MaxScore) {
		r.MaxScore = score
	}
}

func (r *SimulationReport) merge(o *SimulationReport) {
	r.Spins += o.Spins
	r.HitSpins += o.HitSpins
	r.Cascades += o.Cascades
	r.Faults += o.Faults
	r.MaxChain = max(r.MaxChain, o.MaxChain)
	r.TotalScore = r.TotalScore.Add(o.TotalScore)
	if o.MaxScore.GreaterThan(r.MaxScore) {
		r.MaxScore = o.MaxScore
	}
	for k, v := range o.Chains {
		r.Chains[k] += v
	}
}

// AvgScore is the mean total score per spin.
func (r *SimulationReport) AvgScore() decimal.Decimal {
	if r.Spins == 0 {
		return decimal.Zero
	}
	return r.TotalScore.Div(decimal.NewFromInt(r.Spins))
}

// HitRate is the share of spins with at least one cascade, in percent.
func (r *SimulationReport) HitRate() float64 {
	if r.Spins == 0 {
		return 0
	}
	return float64(r.HitSpins) * 100 / float64(r.Spins)
}

func (r *SimulationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "spins=%d hitRate=%.2f%% cascades=%d maxChain=%d faults=%d elapsed=%v\n",
		r.Spins, r.HitRate(), r.Cascades, r.MaxChain, r.Faults, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "totalScore=%s avgScore=%s maxScore=%s\n",
		r.TotalScore.StringFixed(2), r.AvgScore().StringFixed(4), r.MaxScore.StringFixed(2))
	for n := 0; n <= r.MaxChain; n++ {
		if c := r.Chains[n]; c > 0 {
			fmt.Fprintf(&b, "  chain %2d: %d\n", n, c)
		}
	}
	return b.String()
}

// Simulator runs spins of one engine on a pool of workers. Worker i draws from
// sources(seed+i), so a run is reproducible for a fixed (seed, workers) pair.
type Simulator struct {
	engine  *Engine
	sources SourceFactory
	workers int
	log     *zap.Logger
}

// NewSimulator deals spins through sources; nil selects uniform draws over
// the engine alphabet.
func NewSimulator(engine *Engine, sources SourceFactory, workers int, logger *zap.Logger) *Simulator {
	if sources == nil {
		sources = UniformSources(engine.cfg.Symbols)
	}
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{engine: engine, sources: sources, workers: workers, log: logger}
}

// Run executes spins spins split across the workers. Engine faults are
// counted, not returned; cancelling ctx stops every worker at its next spin.
// A failed submission still waits for the workers already running.
func (s *Simulator) Run(ctx context.Context, spins int64, seed uint64) (*SimulationReport, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	start := time.Now()
	total := newSimulationReport()
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	submit := func() error {
		share := spins / int64(s.workers)
		for i := 0; i < s.workers; i++ {
			n := share
			if i == 0 {
				n += spins % int64(s.workers)
			}
			if n == 0 {
				continue
			}
			src, err := s.sources(seed + uint64(i))
			if err != nil {
				return err
			}
			worker := i
			wg.Add(1)
			err = pool.Submit(func() {
				defer wg.Done()
				local := s.work(ctx, worker, n, src)
				mu.Lock()
				total.merge(local)
				mu.Unlock()
			})
			if err != nil {
				wg.Done()
				return err
			}
		}
		return nil
	}
	err = submit()
	wg.Wait()
	if err != nil {
		return nil, err
	}
	total.Elapsed = time.Since(start)
	s.log.Info("simulation finished",
		zap.Int64("spins", total.Spins),
		zap.Float64("hitRate", total.HitRate()),
		zap.Int("maxChain", total.MaxChain),
		zap.String("avgScore", total.AvgScore().StringFixed(4)),
		zap.Duration("elapsed", total.Elapsed))
	return total, ctx.Err()
}

func (s *Simulator) work(ctx context.Context, worker int, spins int64, src SymbolSource) *SimulationReport {
	r := newSimulationReport()
	for i := int64(0); i < spins; i++ {
		if ctx.Err() != nil {
			break
		}
		seq, err := s.engine.Spin(src)
		if err != nil {
			r.Faults++
			s.log.Error("spin failed", zap.Int("worker", worker), zap.Int64("spin", i), zap.Error(err))
			continue
		}
		r.add(seq)
	}
	return r
}
