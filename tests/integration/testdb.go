//go:build integration

// Package integration runs the ledger against a real PostgreSQL started with
// testcontainers and migrated with the shipped SQL schema.
package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestDB is a migrated database in its own container
type TestDB struct {
	DB  *gorm.DB
	DSN string
}

// NewTestDB starts PostgreSQL, applies every migration and registers cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migration.NewFromURL(dsn, migrationsDir(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Close())

	database, err := persistence.NewDatabaseFromDialector(gormpostgres.Open(dsn), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return &TestDB{DB: database.DB, DSN: dsn}
}

// Count returns the number of rows in table.
func (db *TestDB) Count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Table(table).Count(&n).Error)
	return n
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
