package components

import (
	"omiam-waitlist/internal/handler"
	"omiam-waitlist/internal/handler/api"
	"omiam-waitlist/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewWaitlistHandler,
		api.NewConfigurationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
