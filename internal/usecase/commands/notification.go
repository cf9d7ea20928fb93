package commands

import (
	"context"
	"log/slog"
	"time"

	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/pkg/metrics"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTemplateUnavailable = errs.New("no active template for notification category")
	ErrChannelDisabled     = errs.New("no enabled channel for notification template")
	ErrQuietHours          = errs.New("notifications are paused during quiet hours")
	ErrEntryNotWaiting     = errs.New("entry is no longer waiting for a table")
)

const deliveryTimeout = 10 * time.Second

type DeliveryResult struct {
	RecordID uuid.UUID
	Status   waitlist.NotificationStatus
	Err      error
}

// SendResult describes an accepted notification. Delivery receives exactly one
// value once the transport returns, then is closed.
type SendResult struct {
	RecordID uuid.UUID
	Channel  waitlist.NotificationType
	Delivery <-chan DeliveryResult
}

type notifier struct {
	uow       shared.UnitOfWork
	config    *shared.ConfigurationHolder
	catalog   *notification.Catalog
	transport shared.Transport
	clock     clock.Clock
}

func newNotifier(
	uow shared.UnitOfWork,
	config *shared.ConfigurationHolder,
	catalog *notification.Catalog,
	transport shared.Transport,
	clk clock.Clock,
) *notifier {
	return &notifier{uow: uow, config: config, catalog: catalog, transport: transport, clock: clk}
}

// sendHook runs under the store lock before anything is rendered. An error
// aborts the send; mutations it makes commit together with the pending record.
type sendHook func(entry *waitlist.Entry, now time.Time) error

func (n *notifier) send(ctx context.Context, id uuid.UUID, category notification.Category, hook sendHook) (*SendResult, error) {
	cfg := n.config.Get()
	now := n.clock.Now()

	var msg shared.OutboundMessage
	err := n.uow.Within(ctx, func(_ context.Context, tx shared.Tx) error {
		entry, ok := tx.EntryByID(id)
		if !ok {
			return ErrEntryNotFound
		}
		if hook != nil {
			if err := hook(entry, now); err != nil {
				return err
			}
		}
		tmpl, ok := n.catalog.ActiveFor(category)
		if !ok {
			return ErrTemplateUnavailable
		}
		channel, ok := tmpl.FirstEnabledChannel(cfg.ChannelEnabled)
		if !ok {
			return ErrChannelDisabled
		}
		quiet, err := cfg.Notifications.QuietHours.InQuietHours(now)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if quiet {
			return ErrQuietHours
		}

		snap := entry.Snapshot()
		rec := waitlist.NotificationRecord{
			ID:         uuid.New(),
			Type:       channel,
			Status:     waitlist.NotificationPending,
			Content:    tmpl.Render(snap, cfg.Notifications.DateLayout),
			TemplateID: tmpl.ID,
			Subject:    tmpl.Subject,
			CreatedAt:  now,
		}
		entry.AppendNotification(rec, now)
		tx.Touch(id)

		msg = shared.OutboundMessage{
			RecordID:   rec.ID,
			EntryID:    id,
			Channel:    channel,
			Category:   category.String(),
			TemplateID: tmpl.ID,
			Recipient:  recipientFor(snap.Details, channel),
			Subject:    rec.Subject,
			Content:    rec.Content,
			CreatedAt:  now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	delivery := make(chan DeliveryResult, 1)
	go n.deliver(context.WithoutCancel(ctx), msg, delivery)

	return &SendResult{RecordID: msg.RecordID, Channel: msg.Channel, Delivery: delivery}, nil
}

func (n *notifier) deliver(ctx context.Context, msg shared.OutboundMessage, out chan<- DeliveryResult) {
	defer close(out)

	dctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	deliveryErr := n.transport.Deliver(dctx, msg)
	cancel()

	status := waitlist.NotificationSent
	if deliveryErr != nil {
		status = waitlist.NotificationFailed
		slog.Warn("notification delivery failed",
			"entry_id", msg.EntryID,
			"record_id", msg.RecordID,
			"channel", msg.Channel,
			"transport", n.transport.Name(),
			"error", deliveryErr)
	}
	metrics.RecordNotification(msg.Channel.String(), status.String())

	now := n.clock.Now()
	err := n.uow.Within(ctx, func(_ context.Context, tx shared.Tx) error {
		entry, ok := tx.EntryByID(msg.EntryID)
		if !ok {
			// entry deleted while the message was in flight
			return nil
		}
		if err := entry.CompleteNotification(msg.RecordID, deliveryErr, now); err != nil {
			return err
		}
		tx.Touch(msg.EntryID)
		return nil
	})
	if err != nil {
		slog.Error("failed to record notification outcome", "record_id", msg.RecordID, "error", err)
	}

	out <- DeliveryResult{RecordID: msg.RecordID, Status: status, Err: deliveryErr}
}

func recipientFor(d waitlist.Details, channel waitlist.NotificationType) string {
	switch channel {
	case waitlist.NotificationSMS, waitlist.NotificationCall:
		return d.Phone
	case waitlist.NotificationPush:
		if d.CustomerID != nil {
			return d.CustomerID.String()
		}
		return d.Email
	default:
		return d.Email
	}
}
