package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cascade/encoding"
	"cascade/internal/biz"

	"github.com/streadway/amqp"
	"github.com/yola1107/kratos/v2/log"
)

// amqpChannel is the part of *amqp.Channel the publisher needs.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type roundPublisher struct {
	mu         sync.Mutex
	ch         amqpChannel
	exchange   string
	routingKey string
	log        *log.Helper
}

// NewRoundPublisher publishes delivered rounds as JSON events, or returns nil
// when no broker is configured.
func NewRoundPublisher(data *Data, logger log.Logger) biz.RoundPublisher {
	if data.broker == nil {
		return nil
	}
	return newRoundPublisher(data.broker.ch, data.broker.exchange, data.broker.routingKey, logger)
}

func newRoundPublisher(ch amqpChannel, exchange, routingKey string, logger log.Logger) *roundPublisher {
	return &roundPublisher{ch: ch, exchange: exchange, routingKey: routingKey, log: log.NewHelper(logger)}
}

func (p *roundPublisher) Publish(ctx context.Context, r *biz.Round) error {
	body, err := encoding.Marshal(encoding.RoundEvent{
		RequestID:  r.RequestID,
		SourceID:   r.SourceID,
		SequenceID: r.SequenceID,
		Step:       r.Step,
		Score:      r.Score.StringFixed(2),
		Payload:    r.Payload,
		Timestamp:  r.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode round event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    r.RequestID,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish round %s: %w", r.RequestID, err)
	}
	p.log.WithContext(ctx).Debugf("published round %s to %s/%s", r.RequestID, p.exchange, p.routingKey)
	return nil
}
