package biz

import (
	"context"
	"errors"
	"sync"
	"time"

	"cascade/encoding"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yola1107/kratos/v2/log"
)

// Feed modes.
const (
	ModeMock      = "mock"
	ModeGenerated = "generated"
)

// Round is one delivered cascade step.
type Round struct {
	RequestID  string
	SourceID   string
	SequenceID string
	Step       int
	Payload    encoding.RoundPayload
	Score      decimal.Decimal
	CreatedAt  time.Time
}

// CachedSequence is the generated sequence a source is currently drawing from.
type CachedSequence struct {
	ID     string                  `json:"id"`
	Cursor int                     `json:"cursor"`
	Steps  []encoding.RoundPayload `json:"steps"`
}

func (c *CachedSequence) exhausted() bool { return c == nil || c.Cursor >= len(c.Steps) }

// SequenceCache keeps the current sequence of a source between requests.
// Load returns nil, nil on a miss.
type SequenceCache interface {
	Load(ctx context.Context, sourceID string) (*CachedSequence, error)
	Store(ctx context.Context, sourceID string, seq *CachedSequence) error
}

// RoundRepo is the audit log of delivered rounds.
type RoundRepo interface {
	Save(ctx context.Context, r *Round) error
	ListRecent(ctx context.Context, sourceID string, limit int) ([]*Round, error)
}

// RoundPublisher forwards delivered rounds to downstream consumers.
type RoundPublisher interface {
	Publish(ctx context.Context, r *Round) error
}

// RoundUsecase draws rounds from a canned dataset or from generated spin
// sequences, one step per call.
type RoundUsecase struct {
	sourceID string
	mode     string
	engine   *Engine
	src      SymbolSource
	sources  SourceFactory
	cache    SequenceCache
	repo     RoundRepo
	pub      RoundPublisher
	log      *log.Helper

	mu      sync.Mutex
	dataset []encoding.RoundPayload
	mockIdx int
	current *CachedSequence
}

// RoundOptions selects the feed of a RoundUsecase.
type RoundOptions struct {
	SourceID string
	Mode     string
	Dataset  []encoding.RoundPayload // mock mode; nil selects the built-in dataset
}

// NewRoundUsecase validates the feed settings. The mock dataset is checked
// against the engine configuration before any round is served. A nil
// sources reproduces sequences from uniform draws.
func NewRoundUsecase(opts RoundOptions, engine *Engine, src SymbolSource, sources SourceFactory, cache SequenceCache, repo RoundRepo, pub RoundPublisher, logger log.Logger) (*RoundUsecase, error) {
	if sources == nil {
		sources = UniformSources(engine.cfg.Symbols)
	}
	uc := &RoundUsecase{
		sourceID: opts.SourceID,
		mode:     opts.Mode,
		engine:   engine,
		src:      src,
		sources:  sources,
		cache:    cache,
		repo:     repo,
		pub:      pub,
		log:      log.NewHelper(logger),
	}
	switch opts.Mode {
	case ModeMock:
		dataset := opts.Dataset
		if dataset == nil {
			var err error
			if dataset, err = encoding.DecodePayloads([]byte(_mockRoundsRaw)); err != nil {
				return nil, configError("built-in dataset: %v", err)
			}
		}
		if len(dataset) == 0 {
			return nil, configError("mock dataset is empty")
		}
		if err := ValidatePayloads(dataset, engine.Config()); err != nil {
			return nil, configError("mock dataset rejected: %v", err)
		}
		uc.dataset = dataset
	case ModeGenerated:
		if src == nil {
			return nil, configError("generated mode needs a symbol source")
		}
	default:
		return nil, configError("unknown source mode %q", opts.Mode)
	}
	return uc, nil
}

func (uc *RoundUsecase) Mode() string     { return uc.mode }
func (uc *RoundUsecase) SourceID() string { return uc.sourceID }
func (uc *RoundUsecase) Engine() *Engine  { return uc.engine }

// Next returns the next round of the feed.
func (uc *RoundUsecase) Next(ctx context.Context, requestID string) (*Round, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var (
		r   *Round
		err error
	)
	if uc.mode == ModeMock {
		r = uc.nextMock()
	} else {
		r, err = uc.nextGenerated(ctx)
	}
	if err != nil {
		return nil, err
	}
	r.RequestID = requestID
	r.SourceID = uc.sourceID
	r.CreatedAt = time.Now()
	return r, nil
}

func (uc *RoundUsecase) nextMock() *Round {
	p := uc.dataset[uc.mockIdx]
	step := uc.mockIdx
	uc.mockIdx = (uc.mockIdx + 1) % len(uc.dataset)
	matches, _ := ValidatePayload(p, uc.engine.Config()) // checked at construction
	return &Round{SequenceID: "mock", Step: step, Payload: p, Score: TotalScore(matches)}
}

func (uc *RoundUsecase) nextGenerated(ctx context.Context) (*Round, error) {
	if uc.current == nil && uc.cache != nil {
		uc.current = uc.loadCached(ctx)
	}
	if uc.current.exhausted() {
		seq, err := uc.engine.Spin(uc.src)
		if err != nil {
			return nil, err
		}
		uc.current = &CachedSequence{ID: uuid.NewString(), Steps: seq.Payloads()}
		uc.log.WithContext(ctx).Debugf("source %s: new sequence %s with %d cascades", uc.sourceID, uc.current.ID, seq.Cascades())
	}
	cur := uc.current
	p := cur.Steps[cur.Cursor]
	r := &Round{SequenceID: cur.ID, Step: cur.Cursor, Payload: p}
	cur.Cursor++

	matches, err := ValidatePayload(p, uc.engine.Config())
	if err != nil {
		// only reachable through a corrupted cache entry
		uc.current = nil
		return nil, err
	}
	r.Score = TotalScore(matches)

	if uc.cache != nil {
		if err := uc.cache.Store(ctx, uc.sourceID, cur); err != nil {
			uc.log.WithContext(ctx).Warnf("source %s: store sequence %s: %v", uc.sourceID, cur.ID, err)
		}
	}
	return r, nil
}

// loadCached resumes a cached sequence. Entries that fail validation are
// dropped so bad cache contents never reach a caller.
func (uc *RoundUsecase) loadCached(ctx context.Context) *CachedSequence {
	cs, err := uc.cache.Load(ctx, uc.sourceID)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("source %s: load cached sequence: %v", uc.sourceID, err)
		return nil
	}
	if cs == nil || cs.exhausted() || cs.Cursor < 0 {
		return nil
	}
	if err := ValidatePayloads(cs.Steps, uc.engine.Config()); err != nil {
		uc.log.WithContext(ctx).Warnf("source %s: discard cached sequence %s: %v", uc.sourceID, cs.ID, err)
		return nil
	}
	return cs
}

// Archive records and publishes a delivered round. Both sinks are attempted.
func (uc *RoundUsecase) Archive(ctx context.Context, r *Round) error {
	var errs []error
	if uc.repo != nil {
		if err := uc.repo.Save(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	if uc.pub != nil {
		if err := uc.pub.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recent lists the latest audited rounds of this source, newest first.
func (uc *RoundUsecase) Recent(ctx context.Context, limit int) ([]*Round, error) {
	if uc.repo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.repo.ListRecent(ctx, uc.sourceID, limit)
}

// Sequence generates one reproducible sequence from seed with the configured
// source kind, independent of the feed.
func (uc *RoundUsecase) Sequence(seed uint64) (Sequence, error) {
	src, err := uc.sources(seed)
	if err != nil {
		return nil, err
	}
	return uc.engine.Spin(src)
}
