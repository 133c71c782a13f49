package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"cascade/encoding"
	"cascade/internal/biz"
	"cascade/internal/conf"

	"github.com/google/uuid"
	"github.com/yola1107/kratos/v2/log"
)

// Default delivery delay of a round: uniform in [min, max), plus slow on a
// slowChance share of requests.
const (
	defaultMinDelay   = 100 * time.Millisecond
	defaultMaxDelay   = 1500 * time.Millisecond
	defaultSlowChance = 0.2
	defaultSlowDelay  = 2000 * time.Millisecond
)

// RoundListener receives every delivered round payload.
type RoundListener func(encoding.RoundPayload)

// DelayPolicy draws the artificial latency of one delivery.
type DelayPolicy struct {
	Min        time.Duration
	Max        time.Duration
	SlowChance float64
	Slow       time.Duration
}

// NewDelayPolicy reads c; an absent or all-zero section keeps the defaults.
func NewDelayPolicy(c *conf.Source) DelayPolicy {
	p := DelayPolicy{Min: defaultMinDelay, Max: defaultMaxDelay, SlowChance: defaultSlowChance, Slow: defaultSlowDelay}
	if c == nil || (c.MinDelay == 0 && c.MaxDelay == 0 && c.SlowChance == 0 && c.SlowDelay == 0) {
		return p
	}
	p.Min = c.MinDelay.AsDuration()
	p.Max = c.MaxDelay.AsDuration()
	p.SlowChance = c.SlowChance
	p.Slow = c.SlowDelay.AsDuration()
	if p.Max < p.Min {
		p.Max = p.Min
	}
	return p
}

func (p DelayPolicy) next(rng *rand.Rand) time.Duration {
	d := p.Min
	if span := p.Max - p.Min; span > 0 {
		d += time.Duration(rng.Int64N(int64(span)))
	}
	if p.SlowChance > 0 && rng.Float64() < p.SlowChance {
		d += p.Slow
	}
	return d
}

// RoundService is the asynchronous round source: every request is answered
// by exactly one delivery to all registered listeners after a random delay.
type RoundService struct {
	uc     *biz.RoundUsecase
	log    *log.Helper
	sched  *Scheduler
	policy DelayPolicy

	rngMu sync.Mutex
	rng   *rand.Rand

	mu        sync.RWMutex
	listeners []RoundListener

	closed atomic.Bool
}

// NewRoundService starts the delivery scheduler; the returned cleanup stops it.
func NewRoundService(c *conf.Source, uc *biz.RoundUsecase, logger log.Logger) (*RoundService, func()) {
	s := newRoundService(uc, NewDelayPolicy(c), logger)
	return s, s.Close
}

func newRoundService(uc *biz.RoundUsecase, policy DelayPolicy, logger log.Logger) *RoundService {
	return &RoundService{
		uc:     uc,
		log:    log.NewHelper(logger),
		sched:  NewScheduler(),
		policy: policy,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// RegisterListener adds fn to the listeners of every later delivery.
// Listeners run in registration order on the delivery goroutine.
func (s *RoundService) RegisterListener(fn RoundListener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// RequestNextRound schedules one delivery and returns its request id. The
// round itself is drawn when the delay elapses.
func (s *RoundService) RequestNextRound(ctx context.Context) (string, error) {
	if s.closed.Load() {
		return "", biz.ErrSourceClosed
	}
	id := uuid.NewString()
	s.rngMu.Lock()
	delay := s.policy.next(s.rng)
	s.rngMu.Unlock()

	if s.sched.Once(delay, func() { s.deliver(id) }) < 0 {
		return "", biz.ErrSourceClosed
	}
	s.log.WithContext(ctx).Debugf("round %s scheduled in %v", id, delay)
	return id, nil
}

func (s *RoundService) deliver(requestID string) {
	ctx := context.Background()
	r, err := s.uc.Next(ctx, requestID)
	if err != nil {
		s.log.Errorf("round %s: %v", requestID, err)
		return
	}
	s.mu.RLock()
	listeners := append([]RoundListener(nil), s.listeners...)
	s.mu.RUnlock()
	for i, fn := range listeners {
		s.notify(i, fn, r.Payload)
	}
	if err := s.uc.Archive(ctx, r); err != nil {
		s.log.Warnf("round %s: archive: %v", requestID, err)
	}
}

func (s *RoundService) notify(i int, fn RoundListener, p encoding.RoundPayload) {
	defer recoverFromError(func(e any) {
		s.log.Errorf("round listener %d panicked: %v", i, e)
	})
	fn(p)
}

// Close stops accepting requests and drops deliveries still waiting.
func (s *RoundService) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	if n := s.sched.Stop(); n > 0 {
		s.log.Warnf("round source closed with %d pending deliveries dropped", n)
	}
}

// Recent lists the latest archived rounds.
func (s *RoundService) Recent(ctx context.Context, limit int) ([]*biz.Round, error) {
	return s.uc.Recent(ctx, limit)
}

// Sequence generates the reproducible sequence of seed.
func (s *RoundService) Sequence(seed uint64) (biz.Sequence, error) {
	return s.uc.Sequence(seed)
}
