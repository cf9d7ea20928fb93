//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"omiam-waitlist/cmd/bootstrap"
	"omiam-waitlist/cmd/bootstrap/components"
	"omiam-waitlist/internal/infra/db"
	"omiam-waitlist/internal/infra/memstore"
	"omiam-waitlist/internal/infra/repository"
	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/usecase/shared"
	"omiam-waitlist/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgErr       error
)

// postgresEndpoint starts one PostgreSQL container per test process.
func postgresEndpoint(t *testing.T) (string, nat.Port) {
	t.Helper()

	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		pgContainer, pgErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				// データはRAM上に置き、耐久性の設定は切る
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
				Cmd:   []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off", "-c", "full_page_writes=off"},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return adminDSN(host, port)
				}).WithStartupTimeout(60 * time.Second),
				Labels: map[string]string{"purpose": "waitlist-e2e"},
			},
			Started: true,
		})
	})
	require.NoError(t, pgErr, "PostgreSQLコンテナの起動に失敗")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err, "コンテナホストの取得に失敗")
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err, "コンテナポートの取得に失敗")
	return host, port
}

func adminDSN(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port.Port())
}

// createDatabase gives each suite its own database so that suites can run in parallel.
func createDatabase(t *testing.T, host string, port nat.Port) config.DBConfig {
	t.Helper()

	name := "waitlist_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, adminDSN(host, port))
	require.NoError(t, err, "管理者接続に失敗")
	defer admin.Close()

	// CREATE DATABASE can race with other suites on the template database
	var createErr error
	for attempt := range 5 {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
			slog.Warn("データベース作成を再試行中", "attempt", attempt+1, "error", createErr)
		}
		if _, createErr = admin.Exec(ctx, "CREATE DATABASE "+name); createErr == nil {
			break
		}
	}
	require.NoError(t, createErr, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		pool, err := pgxpool.New(dropCtx, adminDSN(host, port))
		if err != nil {
			slog.Warn("クリーンアップ用の接続に失敗しました", "database", name, "error", err)
			return
		}
		defer pool.Close()
		if _, err := pool.Exec(dropCtx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", name, "error", err)
		}
	})

	return config.DBConfig{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "Europe/Paris",
		MaxConns: 4,
	}
}

// startApp wires the production fx graph against the suite database. The
// cleanup scheduler is left out so that tests control when entries expire.
func startApp(t *testing.T, dbCfg config.DBConfig) (*pgxpool.Pool, *gin.Engine, *memstore.UnitOfWork, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, closePool, err := db.Connect(ctx, dbCfg)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(closePool)
	require.NoError(t, repository.Migrate(ctx, pool, slog.Default()), "スキーマの適用に失敗")

	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	cfg.Waitlist.CleanupInterval = 0

	var (
		router *gin.Engine
		uow    *memstore.UnitOfWork
	)
	app := fx.New(
		fx.Supply(cfg, pool),
		fx.Provide(
			func() *gin.Engine { return gin.New() },
			bootstrap.NewEntryRepository,
			func(u shared.UnitOfWork) *memstore.UnitOfWork { return u.(*memstore.UnitOfWork) },
		),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.BrokerModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router, &uow),
		fx.NopLogger,
	)
	require.NoError(t, app.Start(ctx), "fxアプリケーションの起動に失敗")

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err)
		}
	})

	return pool, router, uow, cfg
}

// SharedSuite is embedded by every e2e suite.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	UoW    *memstore.UnitOfWork
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	host, port := postgresEndpoint(t)
	s.DB, s.Router, s.UoW, s.Config = startApp(t, createDatabase(t, host, port))
}

func (s *SharedSuite) SetupSubTest() {
	// TRUNCATE, then reload so the in-memory waitlist matches the empty tables
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
	require.NoError(s.T(), s.UoW.Load(context.Background()), "Failed to reload waitlist state")
}
