//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/infra/memstore"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/pkg/ptr"
	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/queries"
	"omiam-waitlist/internal/usecase/shared"
	"omiam-waitlist/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type seedRepository struct {
	snaps []waitlist.Snapshot
}

func (r seedRepository) LoadAll(context.Context) ([]waitlist.Snapshot, error) {
	return r.snaps, nil
}

func (seedRepository) Save(context.Context, []waitlist.Snapshot, []uuid.UUID) error {
	return nil
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []shared.OutboundMessage
	err  error
}

func (t *fakeTransport) Deliver(_ context.Context, msg shared.OutboundMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	return t.err
}

func (t *fakeTransport) Name() string { return "fake" }

func (t *fakeTransport) Sent() []shared.OutboundMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]shared.OutboundMessage, len(t.sent))
	copy(out, t.sent)
	return out
}

type failingIdempotencyStore struct{}

func (failingIdempotencyStore) Begin(context.Context, string, string, time.Duration) (*shared.IdempotencyRecord, error) {
	return nil, errs.New("redis down")
}

func (failingIdempotencyStore) Complete(context.Context, string, string, uuid.UUID, time.Duration) error {
	return nil
}

func (failingIdempotencyStore) Release(context.Context, string) error {
	return nil
}

type WaitlistCommandsTestSuite struct {
	suite.Suite
	uow       *memstore.UnitOfWork
	holder    *shared.ConfigurationHolder
	idem      shared.IdempotencyStore
	transport *fakeTransport
	clock     *clock.MockClock
	commands  commands.WaitlistCommands
}

func TestWaitlistCommandsSuite(t *testing.T) {
	suite.Run(t, new(WaitlistCommandsTestSuite))
}

func (s *WaitlistCommandsTestSuite) SetupTest() {
	s.holder = shared.NewConfigurationHolder(waitlist.DefaultConfiguration())
	s.clock = clock.NewMockClock(now)
	s.idem = memstore.NewIdempotencyStore(s.clock)
	s.transport = &fakeTransport{}
	s.seed()
}

// seed rebuilds the unit of work and the commands on top of snaps.
func (s *WaitlistCommandsTestSuite) seed(snaps ...waitlist.Snapshot) {
	s.uow = memstore.NewUnitOfWork(seedRepository{snaps: snaps}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(s.uow.Load(context.Background()))
	s.commands = commands.NewWaitlistCommands(
		s.uow,
		s.holder,
		s.idem,
		waitlist.NewDefaultPriorityCalculator(),
		waitlist.NewDefaultWaitEstimator(),
		notification.NewDefaultCatalog(),
		s.transport,
		s.clock,
	)
}

func (s *WaitlistCommandsTestSuite) snapshot(id uuid.UUID) (waitlist.Snapshot, bool) {
	var (
		snap  waitlist.Snapshot
		found bool
	)
	s.Require().NoError(s.uow.WithinReadOnly(context.Background(), func(_ context.Context, r shared.Reads) error {
		if e, ok := r.EntryByID(id); ok {
			snap, found = e.Snapshot(), true
		}
		return nil
	}))
	return snap, found
}

func (s *WaitlistCommandsTestSuite) awaitDelivery(res *commands.SendResult) commands.DeliveryResult {
	select {
	case d, ok := <-res.Delivery:
		s.Require().True(ok)
		return d
	case <-time.After(2 * time.Second):
		s.FailNow("delivery did not complete")
		return commands.DeliveryResult{}
	}
}

func (s *WaitlistCommandsTestSuite) TestCreate() {
	ctx := context.Background()

	s.Run("success: entry is ranked and a confirmation is sent", func() {
		s.SetupTest()
		details := builder.NewEntryBuilder().WithPartySize(6).BuildDetails()

		res, err := s.commands.Create(ctx, commands.CreateEntryRequest{Details: details}, "")
		s.Require().NoError(err)
		s.False(res.IsReplayed)

		snap, ok := s.snapshot(res.EntryID)
		s.Require().True(ok)
		s.Equal(waitlist.PriorityMedium, snap.Priority)
		s.Equal(90, snap.EstimatedWait)
		s.Equal(1, snap.Position)
		s.Equal(waitlist.StatusWaiting, snap.Status)

		s.Eventually(func() bool {
			snap, _ := s.snapshot(res.EntryID)
			return len(snap.Notifications) == 1 && snap.Notifications[0].Status == waitlist.NotificationSent
		}, 2*time.Second, 10*time.Millisecond)
		sent := s.transport.Sent()
		s.Require().Len(sent, 1)
		s.Equal(waitlist.NotificationEmail, sent[0].Channel)
		s.Equal("waitlist-confirmation", sent[0].TemplateID)
		s.Equal(details.Email, sent[0].Recipient)
		s.Contains(sent[0].Content, "Camille Martin")
	})

	s.Run("error: customer at capacity", func() {
		customer := uuid.New()
		s.SetupTest()
		s.seed(
			builder.NewEntryBuilder().WithCustomer(customer).BuildSnapshot(),
			builder.NewEntryBuilder().WithCustomer(customer).WithStatus(waitlist.StatusNotified).BuildSnapshot(),
			builder.NewEntryBuilder().WithCustomer(customer).BuildSnapshot(),
			builder.NewEntryBuilder().WithCustomer(customer).WithStatus(waitlist.StatusCancelled).BuildSnapshot(),
		)

		_, err := s.commands.Create(ctx, commands.CreateEntryRequest{Details: builder.NewEntryBuilder().WithCustomer(customer).BuildDetails()}, "")
		s.ErrorIs(err, commands.ErrCapacityExceeded)
	})

	s.Run("success: inactive entries do not count towards capacity", func() {
		customer := uuid.New()
		s.SetupTest()
		s.seed(
			builder.NewEntryBuilder().WithCustomer(customer).BuildSnapshot(),
			builder.NewEntryBuilder().WithCustomer(customer).WithStatus(waitlist.StatusConfirmed).BuildSnapshot(),
			builder.NewEntryBuilder().WithCustomer(customer).WithStatus(waitlist.StatusExpired).BuildSnapshot(),
		)

		_, err := s.commands.Create(ctx, commands.CreateEntryRequest{Details: builder.NewEntryBuilder().WithCustomer(customer).BuildDetails()}, "")
		s.NoError(err)
	})

	s.Run("error: invalid details", func() {
		s.SetupTest()
		details := builder.NewEntryBuilder().WithPartySize(0).BuildDetails()

		_, err := s.commands.Create(ctx, commands.CreateEntryRequest{Details: details}, "")
		s.True(errs.Is(err, commands.ErrDomainValidation))
		s.True(errs.Is(err, waitlist.ErrInvalidPartySize))
	})
}

func (s *WaitlistCommandsTestSuite) TestCreateIdempotency() {
	ctx := context.Background()

	s.Run("success: replay returns the original entry", func() {
		s.SetupTest()
		req := commands.CreateEntryRequest{Details: builder.NewEntryBuilder().BuildDetails()}

		first, err := s.commands.Create(ctx, req, "key-1")
		s.Require().NoError(err)
		second, err := s.commands.Create(ctx, req, "key-1")
		s.Require().NoError(err)

		s.True(second.IsReplayed)
		s.Equal(first.EntryID, second.EntryID)
	})

	s.Run("error: key reused with a different body", func() {
		s.SetupTest()

		_, err := s.commands.Create(ctx, commands.CreateEntryRequest{Details: builder.NewEntryBuilder().BuildDetails()}, "key-1")
		s.Require().NoError(err)
		_, err = s.commands.Create(ctx, commands.CreateEntryRequest{Details: builder.NewEntryBuilder().WithPartySize(4).BuildDetails()}, "key-1")
		s.ErrorIs(err, commands.ErrIdempotencyConflict)
	})

	s.Run("success: key is released when creation fails", func() {
		customer := uuid.New()
		s.SetupTest()
		s.holder.Replace(func() waitlist.Configuration {
			cfg := waitlist.DefaultConfiguration()
			cfg.MaxEntriesPerCustomer = 1
			return cfg
		}())
		s.seed(builder.NewEntryBuilder().WithCustomer(customer).BuildSnapshot())
		req := commands.CreateEntryRequest{Details: builder.NewEntryBuilder().WithCustomer(customer).BuildDetails()}

		_, err := s.commands.Create(ctx, req, "key-1")
		s.Require().ErrorIs(err, commands.ErrCapacityExceeded)

		rec, err := s.idem.Begin(ctx, "key-1", "anything", time.Hour)
		s.Require().NoError(err)
		s.Nil(rec)
	})

	s.Run("error: store failure", func() {
		s.SetupTest()
		s.idem = failingIdempotencyStore{}
		s.seed()

		_, err := s.commands.Create(ctx, commands.CreateEntryRequest{Details: builder.NewEntryBuilder().BuildDetails()}, "key-1")
		s.True(errs.Is(err, commands.ErrIdempotencyCheckFailed))
	})
}

func (s *WaitlistCommandsTestSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("success: only supplied fields change and priority is kept", func() {
		snap := builder.NewEntryBuilder().WithSlots("19:00").BuildSnapshot()
		s.SetupTest()
		s.seed(snap)

		err := s.commands.Update(ctx, snap.ID, commands.UpdateEntryRequest{
			Name:      ptr.Of("Camille Dubois"),
			PartySize: ptr.Of(8),
		})
		s.Require().NoError(err)

		got, _ := s.snapshot(snap.ID)
		s.Equal("Camille Dubois", got.Details.Name)
		s.Equal(8, got.Details.PartySize)
		s.Equal(snap.Details.Email, got.Details.Email)
		s.Equal([]waitlist.TimeSlot{"19:00"}, got.Details.PreferredTimeSlots)
		s.Equal(waitlist.PriorityLow, got.Priority)
	})

	s.Run("success: explicit priority and expiry", func() {
		snap := builder.NewEntryBuilder().BuildSnapshot()
		s.SetupTest()
		s.seed(snap)
		expires := now.Add(3 * time.Hour)

		err := s.commands.Update(ctx, snap.ID, commands.UpdateEntryRequest{
			Priority:  ptr.Of(waitlist.PriorityUrgent),
			ExpiresAt: &expires,
		})
		s.Require().NoError(err)

		got, _ := s.snapshot(snap.ID)
		s.Equal(waitlist.PriorityUrgent, got.Priority)
		s.Require().NotNil(got.ExpiresAt)
		s.True(expires.Equal(*got.ExpiresAt))
	})

	s.Run("error: invalid merged details", func() {
		snap := builder.NewEntryBuilder().BuildSnapshot()
		s.SetupTest()
		s.seed(snap)

		err := s.commands.Update(ctx, snap.ID, commands.UpdateEntryRequest{PartySize: ptr.Of(0)})
		s.True(errs.Is(err, commands.ErrDomainValidation))

		got, _ := s.snapshot(snap.ID)
		s.Equal(2, got.Details.PartySize)
	})

	s.Run("error: not found", func() {
		s.SetupTest()
		err := s.commands.Update(ctx, uuid.New(), commands.UpdateEntryRequest{Name: ptr.Of("x")})
		s.ErrorIs(err, commands.ErrEntryNotFound)
	})
}

func (s *WaitlistCommandsTestSuite) TestChangeStatus() {
	ctx := context.Background()
	snap := builder.NewEntryBuilder().BuildSnapshot()

	s.Run("success: notified records the time", func() {
		s.SetupTest()
		s.seed(snap)

		s.Require().NoError(s.commands.ChangeStatus(ctx, snap.ID, waitlist.StatusNotified))
		got, _ := s.snapshot(snap.ID)
		s.Equal(waitlist.StatusNotified, got.Status)
		s.Require().NotNil(got.NotifiedAt)
		s.True(now.Equal(*got.NotifiedAt))
	})

	s.Run("error: unknown status", func() {
		s.SetupTest()
		s.seed(snap)

		err := s.commands.ChangeStatus(ctx, snap.ID, waitlist.Status("seated"))
		s.True(errs.Is(err, commands.ErrDomainValidation))
	})

	s.Run("error: not found", func() {
		s.SetupTest()
		s.ErrorIs(s.commands.ChangeStatus(ctx, uuid.New(), waitlist.StatusCancelled), commands.ErrEntryNotFound)
	})
}

func (s *WaitlistCommandsTestSuite) TestDelete() {
	ctx := context.Background()
	first := builder.NewEntryBuilder().CreatedAtTime(now).BuildSnapshot()
	second := builder.NewEntryBuilder().CreatedAtTime(now.Add(time.Minute)).BuildSnapshot()
	s.seed(first, second)

	found, err := s.commands.Delete(ctx, first.ID)
	s.Require().NoError(err)
	s.True(found)

	got, _ := s.snapshot(second.ID)
	s.Equal(1, got.Position)

	found, err = s.commands.Delete(ctx, first.ID)
	s.Require().NoError(err)
	s.False(found)
}

func (s *WaitlistCommandsTestSuite) TestCleanup() {
	expired := builder.NewEntryBuilder().ExpiringAt(now.Add(-time.Minute)).BuildSnapshot()
	notExpired := builder.NewEntryBuilder().ExpiringAt(now.Add(time.Hour)).BuildSnapshot()
	staleNotified := builder.NewEntryBuilder().WithStatus(waitlist.StatusNotified).CreatedAtTime(now.Add(-3 * time.Hour)).BuildSnapshot()
	freshNotified := builder.NewEntryBuilder().WithStatus(waitlist.StatusNotified).CreatedAtTime(now.Add(-time.Hour)).BuildSnapshot()
	oldWaiting := builder.NewEntryBuilder().CreatedAtTime(now.Add(-48 * time.Hour)).BuildSnapshot()
	s.seed(expired, notExpired, staleNotified, freshNotified, oldWaiting)

	removed, err := s.commands.Cleanup(context.Background())
	s.Require().NoError(err)
	s.Equal(2, removed)

	_, ok := s.snapshot(expired.ID)
	s.False(ok)
	_, ok = s.snapshot(staleNotified.ID)
	s.False(ok)
	for _, id := range []uuid.UUID{notExpired.ID, freshNotified.ID, oldWaiting.ID} {
		_, ok := s.snapshot(id)
		s.True(ok)
	}

	removed, err = s.commands.Cleanup(context.Background())
	s.Require().NoError(err)
	s.Zero(removed)
}

func (s *WaitlistCommandsTestSuite) TestCleanupMeasuresFromCreation() {
	ctx := context.Background()
	old := builder.NewEntryBuilder().CreatedAtTime(now.Add(-3 * time.Hour)).BuildSnapshot()
	recent := builder.NewEntryBuilder().CreatedAtTime(now.Add(-30 * time.Minute)).BuildSnapshot()
	s.seed(old, recent)

	s.Require().NoError(s.commands.ChangeStatus(ctx, old.ID, waitlist.StatusNotified))
	s.Require().NoError(s.commands.ChangeStatus(ctx, recent.ID, waitlist.StatusNotified))

	removed, err := s.commands.Cleanup(ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, ok := s.snapshot(old.ID)
	s.False(ok, "an entry notified just now is still removed once it was created long enough ago")
	_, ok = s.snapshot(recent.ID)
	s.True(ok)
}

func (s *WaitlistCommandsTestSuite) TestCreateThenMatch() {
	ctx := context.Background()
	date := waitlist.NewDate(2025, 6, 12)
	q := queries.NewWaitlistQueries(s.uow, s.holder, s.clock)

	create := func(b *builder.EntryBuilder) uuid.UUID {
		res, err := s.commands.Create(ctx, commands.CreateEntryRequest{Details: b.BuildDetails()}, "")
		s.Require().NoError(err)
		return res.EntryID
	}
	a := create(builder.NewEntryBuilder().WithPartySize(2).WithDate(date).WithSlots("19:00"))
	b := create(builder.NewEntryBuilder().WithPartySize(8).WithDate(date).WithSlots("19:00").
		With(func(b *builder.EntryBuilder) { b.Occasion = "anniversaire" }))

	slots := []waitlist.AvailabilitySlot{{Date: date, TimeSlot: "19:00", AvailableTables: 1}}

	matches, err := q.FindMatches(ctx, slots)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(b, matches[0].Entry.ID)
	s.Equal("urgent", matches[0].Entry.Priority)
	s.Equal(1, matches[0].Entry.Position)
	s.Equal(95, matches[0].Score)
	s.Equal(a, matches[1].Entry.ID)
	s.Equal("low", matches[1].Entry.Priority)
	s.Equal(70, matches[1].Score)

	found, err := s.commands.Delete(ctx, b)
	s.Require().NoError(err)
	s.Require().True(found)

	matches, err = q.FindMatches(ctx, slots)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(a, matches[0].Entry.ID)
	s.Equal(1, matches[0].Entry.Position)

	views, _, err := q.Search(ctx, queries.SearchFilter{}, nil, 0)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(a, views[0].ID)
}

func (s *WaitlistCommandsTestSuite) TestSend() {
	ctx := context.Background()
	snap := builder.NewEntryBuilder().BuildSnapshot()

	s.Run("success: delivery outcome is recorded", func() {
		s.SetupTest()
		s.seed(snap)

		res, err := s.commands.Send(ctx, snap.ID, notification.CategoryReminder)
		s.Require().NoError(err)
		s.Equal(waitlist.NotificationEmail, res.Channel)

		d := s.awaitDelivery(res)
		s.Equal(waitlist.NotificationSent, d.Status)
		s.NoError(d.Err)

		got, _ := s.snapshot(snap.ID)
		s.Require().Len(got.Notifications, 1)
		s.Equal(res.RecordID, got.Notifications[0].ID)
		s.Equal(waitlist.NotificationSent, got.Notifications[0].Status)
		s.Equal("waitlist-reminder", got.Notifications[0].TemplateID)
		s.NotNil(got.Notifications[0].SentAt)
	})

	s.Run("success: transport failure is recorded on the entry", func() {
		s.SetupTest()
		s.transport.err = errs.New("smtp unavailable")
		s.seed(snap)

		res, err := s.commands.Send(ctx, snap.ID, notification.CategoryReminder)
		s.Require().NoError(err)

		d := s.awaitDelivery(res)
		s.Equal(waitlist.NotificationFailed, d.Status)
		s.Error(d.Err)

		got, _ := s.snapshot(snap.ID)
		s.Require().Len(got.Notifications, 1)
		s.Equal(waitlist.NotificationFailed, got.Notifications[0].Status)
		s.Equal("smtp unavailable", got.Notifications[0].Error)
		s.Nil(got.Notifications[0].SentAt)
	})

	s.Run("error: quiet hours", func() {
		s.SetupTest()
		_, err := s.holder.Update(func(cfg *waitlist.Configuration) error {
			cfg.Notifications.QuietHours = waitlist.QuietHours{Enabled: true, Start: "11:00", End: "13:00"}
			return nil
		})
		s.Require().NoError(err)
		s.seed(snap)

		_, err = s.commands.Send(ctx, snap.ID, notification.CategoryReminder)
		s.ErrorIs(err, commands.ErrQuietHours)
		s.Empty(s.transport.Sent())
	})

	s.Run("error: every template channel disabled", func() {
		s.SetupTest()
		_, err := s.holder.Update(func(cfg *waitlist.Configuration) error {
			cfg.Notifications.Email = false
			return nil
		})
		s.Require().NoError(err)
		s.seed(snap)

		_, err = s.commands.Send(ctx, snap.ID, notification.CategoryReminder)
		s.ErrorIs(err, commands.ErrChannelDisabled)

		got, _ := s.snapshot(snap.ID)
		s.Empty(got.Notifications)
	})

	s.Run("error: not found", func() {
		s.SetupTest()
		_, err := s.commands.Send(ctx, uuid.New(), notification.CategoryReminder)
		s.ErrorIs(err, commands.ErrEntryNotFound)
	})
}

func (s *WaitlistCommandsTestSuite) TestNotifyAvailability() {
	ctx := context.Background()

	s.Run("success: waiting entry becomes notified", func() {
		snap := builder.NewEntryBuilder().BuildSnapshot()
		s.SetupTest()
		s.seed(snap)

		res, err := s.commands.NotifyAvailability(ctx, snap.ID)
		s.Require().NoError(err)
		s.Equal(waitlist.NotificationSMS, res.Channel)
		s.awaitDelivery(res)

		got, _ := s.snapshot(snap.ID)
		s.Equal(waitlist.StatusNotified, got.Status)
		s.NotNil(got.NotifiedAt)

		sent := s.transport.Sent()
		s.Require().Len(sent, 1)
		s.Equal(snap.Details.Phone, sent[0].Recipient)
		s.Equal("availability", sent[0].Category)
	})

	for _, status := range []waitlist.Status{waitlist.StatusConfirmed, waitlist.StatusCancelled, waitlist.StatusNotified} {
		s.Run("error: "+status.String()+" entry is refused before sending", func() {
			snap := builder.NewEntryBuilder().WithStatus(status).BuildSnapshot()
			s.SetupTest()
			s.seed(snap)

			res, err := s.commands.NotifyAvailability(ctx, snap.ID)
			s.ErrorIs(err, commands.ErrEntryNotWaiting)
			s.Nil(res)

			got, _ := s.snapshot(snap.ID)
			s.Equal(status, got.Status)
			s.Empty(got.Notifications)
			s.Empty(s.transport.Sent())
		})
	}

	s.Run("error: quiet hours leave a waiting entry untouched", func() {
		snap := builder.NewEntryBuilder().BuildSnapshot()
		s.SetupTest()
		_, err := s.holder.Update(func(cfg *waitlist.Configuration) error {
			cfg.Notifications.QuietHours = waitlist.QuietHours{Enabled: true, Start: "11:00", End: "13:00"}
			return nil
		})
		s.Require().NoError(err)
		s.seed(snap)

		_, err = s.commands.NotifyAvailability(ctx, snap.ID)
		s.ErrorIs(err, commands.ErrQuietHours)

		got, _ := s.snapshot(snap.ID)
		s.Equal(waitlist.StatusWaiting, got.Status)
		s.Nil(got.NotifiedAt)
	})
}
