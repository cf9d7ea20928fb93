//go:build unit

package waitlist_test

import (
	"errors"
	"testing"
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type testCase struct {
	name   string
	mutate func(*builder.EntryBuilder)
	errIs  error
}

func TestNewEntry(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		details := builder.NewEntryBuilder().BuildDetails()

		actual, err := waitlist.NewEntry(details, waitlist.PriorityMedium, 90, now)
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, waitlist.StatusWaiting, actual.Status())
		assert.Equal(t, waitlist.PriorityMedium, actual.Priority())
		assert.Equal(t, 90, actual.EstimatedWait())
		assert.Equal(t, now, actual.CreatedAt())
		assert.Equal(t, now, actual.UpdatedAt())
		assert.Empty(t, actual.Notifications())
		assert.Nil(t, actual.NotifiedAt())
	})

	t.Run("座席指定なしはno-preferenceになる", func(t *testing.T) {
		details := builder.NewEntryBuilder().WithSeating("").BuildDetails()

		actual, err := waitlist.NewEntry(details, waitlist.PriorityLow, 60, now)
		require.NoError(t, err)
		assert.Equal(t, waitlist.SeatingNoPreference, actual.SeatingPreference())
	})

	t.Run("入力検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "人数0",
				mutate: func(b *builder.EntryBuilder) { b.WithPartySize(0) },
				errIs:  waitlist.ErrInvalidPartySize,
			},
			{
				name:   "人数1",
				mutate: func(b *builder.EntryBuilder) { b.WithPartySize(1) },
			},
			{
				name:   "名前が空白のみ",
				mutate: func(b *builder.EntryBuilder) { b.Name = "   " },
				errIs:  waitlist.ErrMissingContact,
			},
			{
				name:   "電話番号なし",
				mutate: func(b *builder.EntryBuilder) { b.Phone = "" },
				errIs:  waitlist.ErrMissingContact,
			},
			{
				name:   "希望日なし",
				mutate: func(b *builder.EntryBuilder) { b.WithDate(waitlist.Date{}) },
				errIs:  waitlist.ErrInvalidDate,
			},
			{
				name:   "希望時間帯なし",
				mutate: func(b *builder.EntryBuilder) { b.WithSlots() },
				errIs:  waitlist.ErrNoPreferredTimeSlots,
			},
			{
				name:   "時間帯の形式不正",
				mutate: func(b *builder.EntryBuilder) { b.WithSlots("7pm") },
				errIs:  waitlist.ErrInvalidTimeSlot,
			},
			{
				name:   "未知の座席種別",
				mutate: func(b *builder.EntryBuilder) { b.WithSeating("rooftop") },
				errIs:  waitlist.ErrInvalidSeatingPreference,
			},
		})
	})

	t.Run("入力のスライスを共有しない", func(t *testing.T) {
		details := builder.NewEntryBuilder().BuildDetails()

		actual, err := waitlist.NewEntry(details, waitlist.PriorityLow, 60, now)
		require.NoError(t, err)

		details.PreferredTimeSlots[0] = "12:00"
		assert.Equal(t, waitlist.TimeSlot("19:30"), actual.Details().PreferredTimeSlots[0])
	})
}

func TestEntryLifecycle(t *testing.T) {
	t.Run("notifiedへの遷移で通知日時を記録する", func(t *testing.T) {
		entry := builder.NewEntryBuilder().BuildDomain()
		later := now.Add(time.Hour)

		require.NoError(t, entry.ChangeStatus(waitlist.StatusNotified, later))
		require.NotNil(t, entry.NotifiedAt())
		assert.Equal(t, later, *entry.NotifiedAt())

		// a second transition to notified keeps the first timestamp
		require.NoError(t, entry.ChangeStatus(waitlist.StatusNotified, later.Add(time.Hour)))
		assert.Equal(t, later, *entry.NotifiedAt())
	})

	t.Run("未知のステータスは拒否する", func(t *testing.T) {
		entry := builder.NewEntryBuilder().BuildDomain()

		err := entry.ChangeStatus(waitlist.Status("seated"), now)
		require.ErrorIs(t, err, waitlist.ErrInvalidStatus)
		assert.Equal(t, waitlist.StatusWaiting, entry.Status())
	})

	t.Run("優先度の上書き", func(t *testing.T) {
		entry := builder.NewEntryBuilder().BuildDomain()

		require.NoError(t, entry.OverridePriority(waitlist.PriorityUrgent, now))
		assert.Equal(t, waitlist.PriorityUrgent, entry.Priority())
		require.ErrorIs(t, entry.OverridePriority(waitlist.Priority("vip"), now), waitlist.ErrInvalidPriority)
	})

	t.Run("通知結果の記録", func(t *testing.T) {
		entry := builder.NewEntryBuilder().BuildDomain()
		sentID, failedID := uuid.New(), uuid.New()
		entry.AppendNotification(waitlist.NotificationRecord{ID: sentID, Type: waitlist.NotificationEmail, Status: waitlist.NotificationPending, CreatedAt: now}, now)
		entry.AppendNotification(waitlist.NotificationRecord{ID: failedID, Type: waitlist.NotificationSMS, Status: waitlist.NotificationPending, CreatedAt: now}, now)

		require.NoError(t, entry.CompleteNotification(sentID, nil, now.Add(time.Second)))
		require.NoError(t, entry.CompleteNotification(failedID, errors.New("gateway timeout"), now.Add(time.Second)))
		require.ErrorIs(t, entry.CompleteNotification(uuid.New(), nil, now), waitlist.ErrNotificationNotFound)

		records := entry.Notifications()
		require.Len(t, records, 2)
		assert.Equal(t, waitlist.NotificationSent, records[0].Status)
		require.NotNil(t, records[0].SentAt)
		assert.Equal(t, waitlist.NotificationFailed, records[1].Status)
		assert.Equal(t, "gateway timeout", records[1].Error)
		assert.Nil(t, records[1].SentAt)
	})

	t.Run("有効期限", func(t *testing.T) {
		expired := builder.NewEntryBuilder().ExpiringAt(now.Add(-time.Minute)).BuildDomain()
		pending := builder.NewEntryBuilder().ExpiringAt(now.Add(time.Minute)).BuildDomain()
		open := builder.NewEntryBuilder().BuildDomain()

		assert.True(t, expired.HasExpired(now))
		assert.False(t, pending.HasExpired(now))
		assert.False(t, open.HasExpired(now))
	})

	t.Run("スナップショットは独立したコピー", func(t *testing.T) {
		entry := builder.NewEntryBuilder().BuildDomain()

		snap := entry.Snapshot()
		snap.Details.PreferredTimeSlots[0] = "12:00"
		snap.Status = waitlist.StatusCancelled

		assert.Equal(t, waitlist.TimeSlot("19:30"), entry.Details().PreferredTimeSlots[0])
		assert.Equal(t, waitlist.StatusWaiting, entry.Status())
	})

	t.Run("顧客の判定", func(t *testing.T) {
		customerID := uuid.New()
		entry := builder.NewEntryBuilder().WithCustomer(customerID).BuildDomain()

		assert.True(t, entry.BelongsTo(customerID))
		assert.False(t, entry.BelongsTo(uuid.New()))
		assert.False(t, builder.NewEntryBuilder().BuildDomain().BelongsTo(customerID))
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			details := builder.NewEntryBuilder().With(c.mutate).BuildDetails()
			actual, err := waitlist.NewEntry(details, waitlist.PriorityLow, 60, now)

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
