package transport

import (
	"context"
	"log/slog"

	"omiam-waitlist/internal/usecase/shared"
)

// LogTransport writes notifications to the structured log instead of sending them.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Name() string {
	return "log"
}

func (t *LogTransport) Deliver(ctx context.Context, msg shared.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Info("notification delivered",
		"record_id", msg.RecordID,
		"entry_id", msg.EntryID,
		"channel", msg.Channel,
		"category", msg.Category,
		"template_id", msg.TemplateID,
		"recipient", msg.Recipient,
		"subject", msg.Subject)
	return nil
}
