package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cascade/encoding"
	"cascade/internal/biz"

	"github.com/redis/go-redis/v9"
	"github.com/yola1107/kratos/v2/log"
)

type sequenceCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
	log *log.Helper
}

// NewSequenceCache keeps the current generated sequence of each source in
// redis. It returns nil when redis is not configured.
func NewSequenceCache(data *Data, logger log.Logger) biz.SequenceCache {
	if data.rdb == nil {
		return nil
	}
	return &sequenceCache{rdb: data.rdb, ttl: data.ttl, log: log.NewHelper(logger)}
}

func sequenceKey(sourceID string) string {
	return "cascade:sequence:" + sourceID
}

func (c *sequenceCache) Load(ctx context.Context, sourceID string) (*biz.CachedSequence, error) {
	b, err := c.rdb.Get(ctx, sequenceKey(sourceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", sequenceKey(sourceID), err)
	}
	return decodeSequence(b)
}

func (c *sequenceCache) Store(ctx context.Context, sourceID string, seq *biz.CachedSequence) error {
	b, err := encoding.Marshal(seq)
	if err != nil {
		return fmt.Errorf("encode sequence %s: %w", seq.ID, err)
	}
	if err := c.rdb.Set(ctx, sequenceKey(sourceID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", sequenceKey(sourceID), err)
	}
	return nil
}

func decodeSequence(b []byte) (*biz.CachedSequence, error) {
	var cs biz.CachedSequence
	if err := encoding.Unmarshal(b, &cs); err != nil {
		return nil, fmt.Errorf("decode cached sequence: %w", err)
	}
	return &cs, nil
}
