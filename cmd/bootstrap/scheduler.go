package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/shared"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(
		StartCleanupScheduler,
	),
)

// expiredKeyPurger is implemented by idempotency stores that do not expire keys on their own.
type expiredKeyPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

func StartCleanupScheduler(lc fx.Lifecycle, cfg config.Config, cmds commands.WaitlistCommands, store shared.IdempotencyStore, logger *slog.Logger) {
	interval := cfg.Waitlist.CleanupInterval
	if interval <= 0 {
		logger.Info("定期クリーンアップは無効です")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				runCleanupLoop(ctx, interval, cmds, store, logger)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func runCleanupLoop(ctx context.Context, interval time.Duration, cmds commands.WaitlistCommands, store shared.IdempotencyStore, logger *slog.Logger) {
	purger, _ := store.(expiredKeyPurger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := cmds.Cleanup(ctx)
			if err != nil {
				logger.Error("定期クリーンアップに失敗しました", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("期限切れエントリを削除しました", "removed", removed)
			}
			if purger != nil {
				if _, err := purger.DeleteExpired(ctx); err != nil {
					logger.Warn("期限切れの冪等キー削除に失敗しました", "error", err)
				}
			}
		}
	}
}
