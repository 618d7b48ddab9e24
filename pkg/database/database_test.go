package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/liftmate/liftmate/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============== Retryable Error Tests ==============

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"plain error", errors.New("boom"), false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"disk full", &pgconn.PgError{Code: "53100"}, false},
		{"wrapped deadlock", fmt.Errorf("insert ride: %w", &pgconn.PgError{Code: "40P01"}), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsRetryable(tc.err))
		})
	}
}

// ============== Pool Tests ==============

func TestNewPostgresPool_InvalidDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{URL: "postgres://%zz"}

	pool, err := NewPostgresPool(context.Background(), cfg)

	assert.Nil(t, pool)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse database config")
}

func TestClose_NilPool(t *testing.T) {
	assert.NotPanics(t, func() { Close(nil) })
}

// ============== Migration Tests ==============

func TestMigrationFiles_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
	assert.GreaterOrEqual(t, ups, 1)
}

func TestMigrationFiles_CreateRidesTable(t *testing.T) {
	body, err := fs.ReadFile(migrationFiles, "migrations/000001_create_rides.up.sql")
	require.NoError(t, err)

	sql := string(body)
	for _, col := range []string{
		"ride_type", "post_type", "pickup_location", "dropoff_location",
		"departure_date", "departure_time", "seats_available", "price_per_seat",
		"driver_name", "phone_number", "is_whatsapp", "selfie_url", "created_at",
	} {
		assert.Contains(t, sql, col)
	}
}

func TestMigrate_InvalidURL(t *testing.T) {
	err := Migrate("notascheme://nowhere")
	assert.Error(t, err)
}
