package data

import (
	"context"
	"fmt"
	"time"

	"cascade/encoding"
	"cascade/internal/biz"

	"github.com/shopspring/decimal"
	"github.com/yola1107/kratos/v2/log"
	"xorm.io/xorm"
)

// roundRecord is one delivered round in the audit log.
type roundRecord struct {
	Id         int64  `xorm:"pk autoincr"`
	RequestId  string `xorm:"varchar(64) index"`
	SourceId   string `xorm:"varchar(64) index notnull"`
	SequenceId string `xorm:"varchar(64)"`
	Step       int    `xorm:"int"`
	Matrix     string `xorm:"text"`
	Combine    string `xorm:"text"`
	Score      string `xorm:"varchar(32)"`
	CreatedAt  int64  `xorm:"bigint"` // unix milliseconds
}

func (roundRecord) TableName() string { return "round_record" }

func toRecord(r *biz.Round) (*roundRecord, error) {
	matrix, err := encoding.Marshal(r.Payload.Matrix)
	if err != nil {
		return nil, err
	}
	combine, err := encoding.Marshal(r.Payload.Combine)
	if err != nil {
		return nil, err
	}
	return &roundRecord{
		RequestId:  r.RequestID,
		SourceId:   r.SourceID,
		SequenceId: r.SequenceID,
		Step:       r.Step,
		Matrix:     string(matrix),
		Combine:    string(combine),
		Score:      r.Score.StringFixed(2),
		CreatedAt:  r.CreatedAt.UnixMilli(),
	}, nil
}

func (rec *roundRecord) toRound() (*biz.Round, error) {
	r := &biz.Round{
		RequestID:  rec.RequestId,
		SourceID:   rec.SourceId,
		SequenceID: rec.SequenceId,
		Step:       rec.Step,
		CreatedAt:  time.UnixMilli(rec.CreatedAt),
	}
	if err := encoding.Unmarshal([]byte(rec.Matrix), &r.Payload.Matrix); err != nil {
		return nil, fmt.Errorf("round %d matrix: %w", rec.Id, err)
	}
	if err := encoding.Unmarshal([]byte(rec.Combine), &r.Payload.Combine); err != nil {
		return nil, fmt.Errorf("round %d combine: %w", rec.Id, err)
	}
	score, err := decimal.NewFromString(rec.Score)
	if err != nil {
		return nil, fmt.Errorf("round %d score: %w", rec.Id, err)
	}
	r.Score = score
	return r, nil
}

type roundRepo struct {
	db  *xorm.Engine
	log *log.Helper
}

// NewRoundRepo returns the xorm audit log, or nil when no database is
// configured.
func NewRoundRepo(data *Data, logger log.Logger) biz.RoundRepo {
	if data.db == nil {
		return nil
	}
	return newRoundRepo(data.db, logger)
}

func newRoundRepo(db *xorm.Engine, logger log.Logger) *roundRepo {
	return &roundRepo{db: db, log: log.NewHelper(logger)}
}

func (r *roundRepo) Save(ctx context.Context, round *biz.Round) error {
	rec, err := toRecord(round)
	if err != nil {
		return fmt.Errorf("encode round %s: %w", round.RequestID, err)
	}
	if _, err := r.db.Context(ctx).Insert(rec); err != nil {
		return fmt.Errorf("insert round %s: %w", round.RequestID, err)
	}
	return nil
}

func (r *roundRepo) ListRecent(ctx context.Context, sourceID string, limit int) ([]*biz.Round, error) {
	var recs []roundRecord
	err := r.db.Context(ctx).
		Where("source_id = ?", sourceID).
		Desc("id").
		Limit(limit).
		Find(&recs)
	if err != nil {
		return nil, fmt.Errorf("list rounds of %s: %w", sourceID, err)
	}
	out := make([]*biz.Round, 0, len(recs))
	for i := range recs {
		round, err := recs[i].toRound()
		if err != nil {
			r.log.WithContext(ctx).Warnf("skip unreadable round: %v", err)
			continue
		}
		out = append(out, round)
	}
	return out, nil
}
