package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, zerolog.Nop())

	mock.ExpectPing()
	assert.NoError(t, db.HealthCheck(context.Background()))

	down := errors.New("connection refused")
	mock.ExpectPing().WillReturnError(down)
	assert.ErrorIs(t, db.HealthCheck(context.Background()), down)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWrap_UsesPostgresBindvars(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, zerolog.Nop())
	assert.Equal(t, "postgres", db.DriverName())
	assert.Equal(t, "SELECT 1 FROM topics WHERE id = $1", db.Rebind("SELECT 1 FROM topics WHERE id = ?"))
}
