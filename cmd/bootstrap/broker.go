package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"omiam-waitlist/internal/infra/idempotency"
	"omiam-waitlist/internal/infra/memstore"
	"omiam-waitlist/internal/infra/repository"
	"omiam-waitlist/internal/infra/transport"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const startupTimeout = 10 * time.Second

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewTransport,
		NewIdempotencyStore,
	),
)

func NewTransport(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.Transport, error) {
	if cfg.Broker.Transport != config.TransportAMQP {
		return transport.NewLogTransport(logger), nil
	}

	conn, err := amqp.Dial(cfg.Broker.URL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return conn.Close()
		},
	})

	logger.Info("AMQPブローカーに接続しました", "queue_prefix", cfg.Broker.QueuePrefix)
	return transport.NewAMQPTransport(conn, cfg.Broker.QueuePrefix, logger), nil
}

// NewIdempotencyStore prefers Redis, then the PostgreSQL pool, then process memory.
func NewIdempotencyStore(lc fx.Lifecycle, cfg config.Config, pool *pgxpool.Pool, clk clock.Clock, logger *slog.Logger) (shared.IdempotencyStore, error) {
	if cfg.Redis.Addr == "" {
		if pool != nil {
			return repository.NewIdempotencyRepository(pool, clk, logger), nil
		}
		return memstore.NewIdempotencyStore(clk), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("Redisに接続しました", "addr", cfg.Redis.Addr)
	return idempotency.NewRedisStore(client), nil
}
