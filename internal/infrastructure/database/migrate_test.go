package database

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreReadable(t *testing.T) {
	src, err := iofs.New(migrationFS, migrationsDir)
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "match_requests")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	_ = down.Close()
}

func TestMigrateFailsWhenDatabaseUnreachable(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = Migrate(context.Background(), sqlx.NewDb(mockDB, "postgres"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create postgres driver")
}
