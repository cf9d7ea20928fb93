package components

import (
	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/usecase"
	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/queries"
	"omiam-waitlist/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	notification.NewDefaultCatalog,
	NewConfigurationHolder,
	fx.Annotate(
		waitlist.NewDefaultPriorityCalculator,
		fx.As(new(waitlist.PriorityCalculator)),
	),
	fx.Annotate(
		waitlist.NewDefaultWaitEstimator,
		fx.As(new(waitlist.WaitEstimator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewWaitlistCommands,
		commands.NewConfigurationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewWaitlistQueries,
		queries.NewConfigurationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewConfigurationHolder seeds the runtime configuration with the environment overrides.
func NewConfigurationHolder(cfg config.Config) *shared.ConfigurationHolder {
	initial := waitlist.DefaultConfiguration()
	if cfg.Waitlist.MaxWaitHours > 0 {
		initial.MaxWaitHours = cfg.Waitlist.MaxWaitHours
	}
	if cfg.Waitlist.AutoExpireAfter > 0 {
		initial.AutoExpireAfter = cfg.Waitlist.AutoExpireAfter
	}
	if cfg.Waitlist.MaxEntriesPerCustomer > 0 {
		initial.MaxEntriesPerCustomer = cfg.Waitlist.MaxEntriesPerCustomer
	}
	return shared.NewConfigurationHolder(initial)
}
