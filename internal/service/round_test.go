package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cascade/encoding"
	"cascade/internal/biz"
	"cascade/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yola1107/kratos/v2/log"
)

func newTestService(t *testing.T, mode string) *RoundService {
	t.Helper()
	e, err := biz.NewEngine(biz.DefaultEngineConfig())
	require.NoError(t, err)
	uc, err := biz.NewRoundUsecase(biz.RoundOptions{SourceID: "test", Mode: mode}, e,
		biz.NewSeededSource(biz.DefaultSymbols, 1), nil, nil, nil, nil, log.DefaultLogger)
	require.NoError(t, err)
	s := newRoundService(uc, DelayPolicy{}, log.DefaultLogger)
	t.Cleanup(s.Close)
	return s
}

func TestNewDelayPolicy(t *testing.T) {
	p := NewDelayPolicy(nil)
	assert.Equal(t, DelayPolicy{Min: 100 * time.Millisecond, Max: 1500 * time.Millisecond, SlowChance: 0.2, Slow: 2 * time.Second}, p)

	p = NewDelayPolicy(&conf.Source{MinDelay: conf.Duration(time.Second), MaxDelay: conf.Duration(time.Millisecond)})
	assert.Equal(t, time.Second, p.Min)
	assert.Equal(t, time.Second, p.Max)
	assert.Zero(t, p.SlowChance)
}

func TestDelayPolicyBounds(t *testing.T) {
	p := NewDelayPolicy(nil)
	rng := biz.NewRand(1)
	slow := 0
	for i := 0; i < 2000; i++ {
		d := p.next(rng)
		require.GreaterOrEqual(t, d, p.Min)
		require.Less(t, d, p.Max+p.Slow)
		if d >= p.Max {
			slow++
		}
	}
	assert.InDelta(t, 400, slow, 120)
	assert.Zero(t, DelayPolicy{}.next(rng))
}

func TestRoundServiceListenersInOrder(t *testing.T) {
	s := newTestService(t, biz.ModeMock)

	var (
		mu    sync.Mutex
		calls []string
		wg    sync.WaitGroup
	)
	got := make([]encoding.RoundPayload, 0, 3)
	s.RegisterListener(func(p encoding.RoundPayload) {
		mu.Lock()
		calls = append(calls, "first")
		got = append(got, p)
		mu.Unlock()
	})
	s.RegisterListener(func(encoding.RoundPayload) { panic("listener failure") })
	s.RegisterListener(func(encoding.RoundPayload) {
		mu.Lock()
		calls = append(calls, "third")
		mu.Unlock()
		wg.Done()
	})

	wg.Add(3)
	for i := 0; i < 3; i++ {
		id, err := s.RequestNextRound(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}
	wg.Wait()

	assert.Equal(t, []string{"first", "third", "first", "third", "first", "third"}, calls)
	require.Len(t, got, 3)
	assert.Equal(t, "3;0,1,2,3;2.00", got[0].Combine[0])
	assert.Equal(t, []string{"1;3,8,7,13;1.00"}, got[1].Combine)
	assert.True(t, got[2].Ended())
}

func TestRoundServiceClosed(t *testing.T) {
	s := newTestService(t, biz.ModeGenerated)
	s.Close()
	_, err := s.RequestNextRound(context.Background())
	assert.ErrorIs(t, err, biz.ErrSourceClosed)
}

func TestHandleRequestRound(t *testing.T) {
	s := newTestService(t, biz.ModeGenerated)

	rec := httptest.NewRecorder()
	s.HandleRequestRound(rec, httptest.NewRequest(http.MethodPost, "/v1/round/request", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"request_id"`)

	rec = httptest.NewRecorder()
	s.HandleRequestRound(rec, httptest.NewRequest(http.MethodGet, "/v1/round/request", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	s.Close()
	rec = httptest.NewRecorder()
	s.HandleRequestRound(rec, httptest.NewRequest(http.MethodPost, "/v1/round/request", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), biz.ReasonSourceClosed)
}

func TestHandleSequence(t *testing.T) {
	s := newTestService(t, biz.ModeGenerated)

	rec := httptest.NewRecorder()
	s.HandleSequence(rec, httptest.NewRequest(http.MethodGet, "/v1/sequence?seed=42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var reply sequenceReply
	require.NoError(t, encoding.Unmarshal(rec.Body.Bytes(), &reply))
	assert.EqualValues(t, 42, reply.Seed)
	require.Len(t, reply.Steps, reply.Cascades+1)
	assert.True(t, reply.Steps[len(reply.Steps)-1].Ended())

	again := httptest.NewRecorder()
	s.HandleSequence(again, httptest.NewRequest(http.MethodGet, "/v1/sequence?seed=42", nil))
	assert.Equal(t, rec.Body.String(), again.Body.String())

	rec = httptest.NewRecorder()
	s.HandleSequence(rec, httptest.NewRequest(http.MethodGet, "/v1/sequence?seed=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRecentWithoutStore(t *testing.T) {
	s := newTestService(t, biz.ModeMock)
	rec := httptest.NewRecorder()
	s.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/v1/rounds?limit=5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = httptest.NewRecorder()
	s.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/v1/rounds?limit=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
