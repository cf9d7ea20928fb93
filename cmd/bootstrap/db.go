package bootstrap

import (
	"context"
	"log/slog"

	"omiam-waitlist/internal/infra/db"
	"omiam-waitlist/internal/infra/repository"
	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
		NewEntryRepository,
	),
)

// NewDB returns a nil pool for the memory driver.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.DB.Driver != config.DriverPostgres {
		logger.Info("エントリはメモリ上にのみ保持されます", "driver", cfg.DB.Driver)
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, pool, logger); err != nil {
		cleanup()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

func NewEntryRepository(pool *pgxpool.Pool, logger *slog.Logger) shared.EntryRepository {
	if pool == nil {
		return repository.NewNopEntryRepository()
	}
	return repository.NewEntryRepository(pool, logger)
}
