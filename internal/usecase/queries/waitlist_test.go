//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/infra/memstore"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/usecase/queries"
	"omiam-waitlist/internal/usecase/shared"
	"omiam-waitlist/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

type WaitlistQueriesTestSuite struct {
	suite.Suite
	holder  *shared.ConfigurationHolder
	queries queries.WaitlistQueries
}

func TestWaitlistQueriesSuite(t *testing.T) {
	suite.Run(t, new(WaitlistQueriesTestSuite))
}

func (s *WaitlistQueriesTestSuite) SetupTest() {
	s.holder = shared.NewConfigurationHolder(waitlist.DefaultConfiguration())
	s.seed()
}

func (s *WaitlistQueriesTestSuite) seed(snaps ...waitlist.Snapshot) {
	uow := memstore.NewUnitOfWork(seedRepository{snaps: snaps}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(uow.Load(context.Background()))
	s.queries = queries.NewWaitlistQueries(uow, s.holder, clock.NewMockClock(now))
}

func ids(views []*queries.EntryView) []uuid.UUID {
	out := make([]uuid.UUID, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func (s *WaitlistQueriesTestSuite) TestGetByID() {
	snap := builder.NewEntryBuilder().WithSlots("19:30", "21:00").BuildSnapshot()
	s.seed(snap)

	view, err := s.queries.GetByID(context.Background(), snap.ID)
	s.Require().NoError(err)
	s.Equal(snap.ID, view.ID)
	s.Equal("2025-06-12", view.PreferredDate)
	s.Equal([]string{"19:30", "21:00"}, view.PreferredTimeSlots)
	s.Equal("low", view.Priority)
	s.Equal(1, view.Position)
	s.NotNil(view.Notifications)

	_, err = s.queries.GetByID(context.Background(), uuid.New())
	s.ErrorIs(err, queries.ErrEntryNotFound)
}

func (s *WaitlistQueriesTestSuite) TestSearchFilters() {
	customer := uuid.New()
	camille := builder.NewEntryBuilder().CreatedAtTime(now).BuildSnapshot()
	large := builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) {
		b.Name = "Louis Bernard"
		b.Email = "louis@example.com"
		b.Phone = "+33699999999"
	}).WithPartySize(8).WithPriority(waitlist.PriorityHigh).WithSeating(waitlist.SeatingOutdoor).CreatedAtTime(now.Add(time.Minute)).BuildSnapshot()
	later := builder.NewEntryBuilder().WithDate(waitlist.NewDate(2025, 6, 20)).WithCustomer(customer).CreatedAtTime(now.Add(2 * time.Minute)).BuildSnapshot()
	cancelled := builder.NewEntryBuilder().WithStatus(waitlist.StatusCancelled).CreatedAtTime(now.Add(3 * time.Minute)).BuildSnapshot()
	s.seed(camille, large, later, cancelled)

	cases := []struct {
		name     string
		filter   queries.SearchFilter
		expected []uuid.UUID
	}{
		{name: "no filter returns newest first", filter: queries.SearchFilter{}, expected: []uuid.UUID{cancelled.ID, later.ID, large.ID, camille.ID}},
		{name: "status", filter: queries.SearchFilter{Statuses: []waitlist.Status{waitlist.StatusCancelled}}, expected: []uuid.UUID{cancelled.ID}},
		{name: "priority", filter: queries.SearchFilter{Priorities: []waitlist.Priority{waitlist.PriorityHigh, waitlist.PriorityUrgent}}, expected: []uuid.UUID{large.ID}},
		{name: "seating", filter: queries.SearchFilter{Seating: []waitlist.SeatingPreference{waitlist.SeatingOutdoor}}, expected: []uuid.UUID{large.ID}},
		{name: "date range", filter: queries.SearchFilter{From: waitlist.NewDate(2025, 6, 13), To: waitlist.NewDate(2025, 6, 30)}, expected: []uuid.UUID{later.ID}},
		{name: "date range is inclusive", filter: queries.SearchFilter{From: waitlist.NewDate(2025, 6, 12), To: waitlist.NewDate(2025, 6, 12)}, expected: []uuid.UUID{cancelled.ID, large.ID, camille.ID}},
		{name: "party size", filter: queries.SearchFilter{MinPartySize: 3, MaxPartySize: 10}, expected: []uuid.UUID{large.ID}},
		{name: "customer", filter: queries.SearchFilter{CustomerID: &customer}, expected: []uuid.UUID{later.ID}},
		{name: "text matches name case-insensitively", filter: queries.SearchFilter{Text: "LOUIS"}, expected: []uuid.UUID{large.ID}},
		{name: "text matches phone", filter: queries.SearchFilter{Text: "699999"}, expected: []uuid.UUID{large.ID}},
		{name: "filters combine", filter: queries.SearchFilter{Text: "camille", Statuses: []waitlist.Status{waitlist.StatusWaiting}}, expected: []uuid.UUID{later.ID, camille.ID}},
	}
	for _, c := range cases {
		s.Run(c.name, func() {
			views, next, err := s.queries.Search(context.Background(), c.filter, nil, 0)
			s.Require().NoError(err)
			s.Nil(next)
			s.Equal(c.expected, ids(views))
		})
	}
}

func (s *WaitlistQueriesTestSuite) TestSearchPagination() {
	var snaps []waitlist.Snapshot
	for i := range 5 {
		snaps = append(snaps, builder.NewEntryBuilder().CreatedAtTime(now.Add(time.Duration(i)*time.Minute)).BuildSnapshot())
	}
	s.seed(snaps...)
	ctx := context.Background()

	page1, next, err := s.queries.Search(ctx, queries.SearchFilter{}, nil, 2)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	s.Equal([]uuid.UUID{snaps[4].ID, snaps[3].ID}, ids(page1))

	page2, next, err := s.queries.Search(ctx, queries.SearchFilter{}, next, 2)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	s.Equal([]uuid.UUID{snaps[2].ID, snaps[1].ID}, ids(page2))

	page3, next, err := s.queries.Search(ctx, queries.SearchFilter{}, next, 2)
	s.Require().NoError(err)
	s.Nil(next)
	s.Equal([]uuid.UUID{snaps[0].ID}, ids(page3))

	_, _, err = s.queries.Search(ctx, queries.SearchFilter{}, &queries.Cursor{After: "not-a-cursor"}, 2)
	s.True(errs.Is(err, queries.ErrInvalidCursor))
}

func (s *WaitlistQueriesTestSuite) TestSearchSameCreatedAt() {
	a := builder.NewEntryBuilder().CreatedAtTime(now).BuildSnapshot()
	b := builder.NewEntryBuilder().CreatedAtTime(now).BuildSnapshot()
	s.seed(a, b)
	ctx := context.Background()

	page1, next, err := s.queries.Search(ctx, queries.SearchFilter{}, nil, 1)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	page2, _, err := s.queries.Search(ctx, queries.SearchFilter{}, next, 1)
	s.Require().NoError(err)

	s.Require().Len(page1, 1)
	s.Require().Len(page2, 1)
	s.ElementsMatch([]uuid.UUID{a.ID, b.ID}, []uuid.UUID{page1[0].ID, page2[0].ID})
}

func (s *WaitlistQueriesTestSuite) TestFindMatches() {
	waiting := builder.NewEntryBuilder().CreatedAtTime(now).BuildSnapshot()
	notified := builder.NewEntryBuilder().WithStatus(waitlist.StatusNotified).BuildSnapshot()
	s.seed(waiting, notified)

	matches, err := s.queries.FindMatches(context.Background(), []waitlist.AvailabilitySlot{{
		Date:            waitlist.NewDate(2025, 6, 12),
		TimeSlot:        "19:30",
		AvailableTables: 2,
		SeatingTypes:    []waitlist.SeatingPreference{waitlist.SeatingIndoor},
	}})
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(waiting.ID, matches[0].Entry.ID)
	s.Equal(70, matches[0].Score)
	s.Require().Len(matches[0].MatchingSlots, 1)
	s.Equal("2025-06-12", matches[0].MatchingSlots[0].Date)
	s.Equal([]string{"indoor"}, matches[0].MatchingSlots[0].SeatingTypes)

	matches, err = s.queries.FindMatches(context.Background(), nil)
	s.Require().NoError(err)
	s.NotNil(matches)
	s.Empty(matches)
}

func (s *WaitlistQueriesTestSuite) TestStats() {
	s.seed(
		builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) { b.EstimatedWait = 60 }).CreatedAtTime(now.Add(-5*time.Hour)).BuildSnapshot(),
		builder.NewEntryBuilder().WithStatus(waitlist.StatusNotified).WithPriority(waitlist.PriorityHigh).With(func(b *builder.EntryBuilder) { b.EstimatedWait = 120 }).CreatedAtTime(now.Add(-time.Hour)).BuildSnapshot(),
		builder.NewEntryBuilder().WithStatus(waitlist.StatusConfirmed).CreatedAtTime(now.Add(-10*time.Hour)).BuildSnapshot(),
	)

	stats, err := s.queries.Stats(context.Background())
	s.Require().NoError(err)
	s.Equal(3, stats.Total)
	s.Equal(2, stats.Active)
	s.Equal(map[string]int{"waiting": 1, "notified": 1, "confirmed": 1}, stats.ByStatus)
	s.Equal(map[string]int{"low": 2, "high": 1}, stats.ByPriority)
	s.InDelta(90.0, stats.AverageEstimatedWait, 0.001)
	s.Equal(1, stats.Overdue)
}

func TestConfigurationQueries(t *testing.T) {
	holder := shared.NewConfigurationHolder(waitlist.DefaultConfiguration())
	q := queries.NewConfigurationQueries(holder, notification.NewDefaultCatalog())

	cfg := q.Get(context.Background())
	cfg.PriorityRules.LoyaltyTierBonus["gold"] = 0
	assert.Equal(t, 15, holder.Get().PriorityRules.LoyaltyTierBonus["gold"])

	templates := q.Templates(context.Background())
	require.Len(t, templates, 4)
	assert.Equal(t, "availability", templates[1].Category)
	assert.Equal(t, []string{"sms", "email"}, templates[1].Channels)
}
