package components

import (
	"context"
	"log/slog"

	"omiam-waitlist/internal/infra/memstore"
	"omiam-waitlist/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			NewUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

// NewUnitOfWork restores persisted entries before the server starts accepting requests.
func NewUnitOfWork(lc fx.Lifecycle, repo shared.EntryRepository, logger *slog.Logger) *memstore.UnitOfWork {
	uow := memstore.NewUnitOfWork(repo, logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return uow.Load(ctx)
		},
	})
	return uow
}
