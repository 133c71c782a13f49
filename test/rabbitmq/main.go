package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"cascade/encoding"
	"cascade/internal/biz"

	"github.com/streadway/amqp"
	"github.com/yola1107/kratos/contrib/log/zap/v2"
	"github.com/yola1107/kratos/v2/log"
)

var (
	host       = flag.String("host", "127.0.0.1", "rabbitmq host")
	port       = flag.Int("port", 5672, "rabbitmq port")
	user       = flag.String("user", "guest", "rabbitmq user")
	password   = flag.String("password", "guest", "rabbitmq password")
	exchange   = flag.String("exchange", "cascade.rounds", "round exchange")
	routingKey = flag.String("key", "round", "routing key")
	queueName  = flag.String("queue", "cascade-rounds-inspect", "queue to bind")
)

// buildRabbitMQURL escapes the credentials, which may contain URL characters.
func buildRabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		url.QueryEscape(*user), url.QueryEscape(*password), *host, *port)
}

// Consume binds a queue to the round exchange and checks every published
// round against the default engine configuration.
func Consume(ctx context.Context) error {
	conn, err := amqp.Dial(buildRabbitMQURL())
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(*exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(*queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(*queueName, *routingKey, *exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := ch.Consume(*queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	cfg := biz.DefaultEngineConfig()
	log.Infof("consuming %s/%s via %s", *exchange, *routingKey, *queueName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				log.Warn("delivery channel closed")
				return nil
			}
			ev, err := encoding.DecodeEvent(msg.Body)
			if err != nil {
				log.Errorf("undecodable message %s: %v", msg.MessageId, err)
			} else if matches, err := biz.ValidatePayload(ev.Payload, cfg); err != nil {
				log.Errorf("round %s rejected: %v", ev.RequestID, err)
			} else {
				log.Infof("round %s seq=%s step=%d matches=%d score=%s ended=%t",
					ev.RequestID, ev.SequenceID, ev.Step, len(matches), ev.Score, ev.Payload.Ended())
			}
			if err := msg.Ack(false); err != nil {
				log.Errorf("ack: %v", err)
			}
		}
	}
}

func main() {
	flag.Parse()

	logger := zap.New(nil)
	defer logger.Close()
	log.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Consume(ctx); err != nil {
		log.Fatalf("consumer: %v", err)
	}
}
