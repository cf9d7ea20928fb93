//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/infra/db"
	"omiam-waitlist/internal/infra/repository"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/usecase/shared"
	"omiam-waitlist/tests/common/builder"
	"omiam-waitlist/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testUser     = "test"
	testPassword = "testpass"
	testDB       = "waitlist"
)

type EntryRepositoryTestSuite struct {
	suite.Suite
	container testcontainers.Container
	pool      *pgxpool.Pool
	repo      *repository.EntryRepository
	clock     *clock.MockClock
	keys      *repository.IdempotencyRepository
}

func TestEntryRepositorySuite(t *testing.T) {
	suite.Run(t, new(EntryRepositoryTestSuite))
}

func (s *EntryRepositoryTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       testDB,
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", testUser, testPassword, host, port.Port(), testDB)
			}).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	pool, _, err := db.Connect(ctx, config.DBConfig{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   testDB,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 4,
	})
	s.Require().NoError(err)
	s.pool = pool

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(repository.Migrate(ctx, pool, logger))
	// applying twice must be harmless
	s.Require().NoError(repository.Migrate(ctx, pool, logger))
	s.repo = repository.NewEntryRepository(pool, logger)
	s.clock = clock.NewMockClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	s.keys = repository.NewIdempotencyRepository(pool, s.clock, logger)
}

func (s *EntryRepositoryTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.container.Terminate(ctx)
	}
}

func (s *EntryRepositoryTestSuite) SetupTest() {
	s.Require().NoError(dbtest.ResetDB(s.pool))
}

var snapshotOpts = cmp.Options{
	cmp.AllowUnexported(waitlist.Date{}),
	cmpopts.EquateApproxTime(time.Microsecond),
	cmpopts.EquateEmpty(),
}

func (s *EntryRepositoryTestSuite) TestSaveAndLoad() {
	ctx := context.Background()
	customer := uuid.New()
	expires := time.Date(2025, 6, 12, 21, 0, 0, 0, time.UTC)
	sentAt := time.Date(2025, 6, 10, 12, 5, 0, 0, time.UTC)

	full := builder.NewEntryBuilder().
		WithCustomer(customer).
		WithSeating(waitlist.SeatingOutdoor).
		WithPriority(waitlist.PriorityHigh).
		ExpiringAt(expires).
		With(func(b *builder.EntryBuilder) {
			b.Occasion = "anniversaire"
			b.Notifications = []waitlist.NotificationRecord{{
				ID:         uuid.New(),
				Type:       waitlist.NotificationSMS,
				Status:     waitlist.NotificationSent,
				Content:    "Bonjour",
				TemplateID: "waitlist-confirmation",
				SentAt:     &sentAt,
				CreatedAt:  sentAt,
			}}
		}).
		BuildSnapshot()
	full.Details.SpecialRequests = []string{"high chair"}
	full.Details.Allergies = []string{"peanuts"}
	minimal := builder.NewEntryBuilder().CreatedAtTime(full.CreatedAt.Add(time.Minute)).BuildSnapshot()

	s.Require().NoError(s.repo.Save(ctx, []waitlist.Snapshot{full, minimal}, nil))

	loaded, err := s.repo.LoadAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	if diff := cmp.Diff(full, loaded[0], snapshotOpts); diff != "" {
		s.Failf("full entry mismatch", "(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(minimal, loaded[1], snapshotOpts); diff != "" {
		s.Failf("minimal entry mismatch", "(-want +got):\n%s", diff)
	}
}

func (s *EntryRepositoryTestSuite) TestUpsertAndDelete() {
	ctx := context.Background()
	keep := builder.NewEntryBuilder().BuildSnapshot()
	drop := builder.NewEntryBuilder().CreatedAtTime(keep.CreatedAt.Add(time.Minute)).BuildSnapshot()
	s.Require().NoError(s.repo.Save(ctx, []waitlist.Snapshot{keep, drop}, nil))

	keep.Status = waitlist.StatusNotified
	keep.Position = 4
	s.Require().NoError(s.repo.Save(ctx, []waitlist.Snapshot{keep}, []uuid.UUID{drop.ID}))

	loaded, err := s.repo.LoadAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal(keep.ID, loaded[0].ID)
	s.Equal(waitlist.StatusNotified, loaded[0].Status)
	s.Equal(4, loaded[0].Position)
}

func (s *EntryRepositoryTestSuite) TestSaveIsAtomic() {
	ctx := context.Background()
	valid := builder.NewEntryBuilder().BuildSnapshot()
	invalid := builder.NewEntryBuilder().WithPartySize(0).BuildSnapshot()

	err := s.repo.Save(ctx, []waitlist.Snapshot{valid, invalid}, nil)
	s.Require().Error(err)

	s.Zero(dbtest.CountEntries(s.T(), s.pool))
}

func (s *EntryRepositoryTestSuite) TestIdempotencyKeys() {
	ctx := context.Background()
	ttl := 10 * time.Minute

	s.Run("claim then replay the completed record", func() {
		s.Require().NoError(dbtest.ResetDB(s.pool))

		rec, err := s.keys.Begin(ctx, "k1", "hash-a", ttl)
		s.Require().NoError(err)
		s.Nil(rec)

		rec, err = s.keys.Begin(ctx, "k1", "hash-a", ttl)
		s.Require().NoError(err)
		s.Require().NotNil(rec)
		s.Equal(shared.IdempotencyProcessing, rec.Status)
		s.Nil(rec.EntryID)

		entryID := uuid.New()
		s.Require().NoError(s.keys.Complete(ctx, "k1", "hash-a", entryID, ttl))

		rec, err = s.keys.Begin(ctx, "k1", "hash-b", ttl)
		s.Require().NoError(err)
		s.Require().NotNil(rec)
		s.Equal(shared.IdempotencyCompleted, rec.Status)
		s.Equal("hash-a", rec.RequestHash)
		s.Require().NotNil(rec.EntryID)
		s.Equal(entryID, *rec.EntryID)
	})

	s.Run("expired key is claimed again and purged", func() {
		s.Require().NoError(dbtest.ResetDB(s.pool))

		_, err := s.keys.Begin(ctx, "k2", "hash-a", ttl)
		s.Require().NoError(err)

		s.clock.Add(ttl + time.Second)
		rec, err := s.keys.Begin(ctx, "k2", "hash-b", ttl)
		s.Require().NoError(err)
		s.Nil(rec)

		s.clock.Add(ttl + time.Second)
		purged, err := s.keys.DeleteExpired(ctx)
		s.Require().NoError(err)
		s.Equal(int64(1), purged)
	})

	s.Run("release frees the key", func() {
		s.Require().NoError(dbtest.ResetDB(s.pool))

		_, err := s.keys.Begin(ctx, "k3", "hash-a", ttl)
		s.Require().NoError(err)
		s.Require().NoError(s.keys.Release(ctx, "k3"))

		rec, err := s.keys.Begin(ctx, "k3", "hash-a", ttl)
		s.Require().NoError(err)
		s.Nil(rec)
	})
}
