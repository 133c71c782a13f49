package data

import (
	"fmt"
	"net/url"
	"time"

	"cascade/internal/conf"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	kredis "github.com/yola1107/kratos/v2/library/db/redis"
	kxorm "github.com/yola1107/kratos/v2/library/db/xorm"
	"github.com/yola1107/kratos/v2/log"
	_ "modernc.org/sqlite"
	"xorm.io/xorm"
)

const defaultCacheTTL = 30 * time.Minute

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewRedis, NewDB, NewRabbitMQ, NewSequenceCache, NewRoundRepo, NewRoundPublisher)

// Data bundles the optional stores. A nil member means its section is not
// configured and the matching repo is disabled.
type Data struct {
	db     *xorm.Engine
	rdb    redis.UniversalClient
	broker *Broker
	ttl    time.Duration
}

// NewData .
func NewData(c *conf.Data, logger log.Logger, db *xorm.Engine, rdb redis.UniversalClient, broker *Broker) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	d := &Data{db: db, rdb: rdb, broker: broker, ttl: defaultCacheTTL}
	if c != nil && c.Redis != nil && c.Redis.CacheTtl > 0 {
		d.ttl = c.Redis.CacheTtl.AsDuration()
	}
	helper.Infof("data: database=%t redis=%t rabbitmq=%t", db != nil, rdb != nil, broker != nil)
	cleanup := func() {
		helper.Info("closing the data resources")
		if d.rdb != nil {
			if err := d.rdb.Close(); err != nil {
				helper.Warnf("close redis: %v", err)
			}
		}
	}
	return d, cleanup, nil
}

func NewRedis(c *conf.Data, logger log.Logger) redis.UniversalClient {
	if c == nil || c.Redis == nil || c.Redis.Addr == "" {
		return nil
	}
	return kredis.NewClient(kredis.WithAddress(c.Redis.Addr))
}

// NewDB opens the audit database and syncs its schema.
func NewDB(c *conf.Data, logger log.Logger) (*xorm.Engine, func(), error) {
	if c == nil || c.Database == nil || c.Database.Driver == "" {
		return nil, func() {}, nil
	}
	engine, err := kxorm.NewEngine(
		kxorm.WithDriver(c.Database.Driver),
		kxorm.WithDataSource(c.Database.Source),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", c.Database.Driver, err)
	}
	if err := syncSchema(engine); err != nil {
		engine.Close()
		return nil, nil, err
	}
	return engine, func() { engine.Close() }, nil
}

func syncSchema(engine *xorm.Engine) error {
	if err := engine.Sync(new(roundRecord)); err != nil {
		return fmt.Errorf("sync round_record: %w", err)
	}
	return nil
}

// Broker is one AMQP channel bound to the round exchange.
type Broker struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbitMQ dials the broker and declares the durable direct exchange
// rounds are published to.
func NewRabbitMQ(c *conf.Data, logger log.Logger) (*Broker, func(), error) {
	if c == nil || c.Rabbitmq == nil || c.Rabbitmq.Host == "" {
		return nil, func() {}, nil
	}
	rc := c.Rabbitmq
	conn, err := amqp.Dial(buildRabbitMQURL(rc))
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	b := &Broker{conn: conn, ch: ch, exchange: rc.Exchange, routingKey: rc.RoutingKey}
	if b.exchange == "" {
		b.exchange = "cascade.rounds"
	}
	if b.routingKey == "" {
		b.routingKey = "round"
	}
	if err := ch.ExchangeDeclare(b.exchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", b.exchange, err)
	}
	helper := log.NewHelper(logger)
	return b, func() {
		if err := ch.Close(); err != nil {
			helper.Warnf("close channel: %v", err)
		}
		if err := conn.Close(); err != nil {
			helper.Warnf("close rabbitmq: %v", err)
		}
	}, nil
}

// buildRabbitMQURL escapes the credentials, which may contain URL characters.
func buildRabbitMQURL(c *conf.Data_Rabbitmq) string {
	port := c.Port
	if port == 0 {
		port = 5672
	}
	vhost := url.PathEscape(c.Vhost)
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		url.QueryEscape(c.Username), url.QueryEscape(c.Password), c.Host, port, vhost)
}
