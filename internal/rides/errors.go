package rides

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/resilience"
)

var (
	// ErrBackendPaused means the hosted row store is unreachable or paused
	ErrBackendPaused = errors.New("backend paused")
	// ErrNotFound means no ride has the requested id
	ErrNotFound = errors.New("ride not found")
)

// PausedMessage is shown when the row store is unavailable
const PausedMessage = "The ride board is temporarily unavailable. Please try again in a few minutes."

var outageFragments = []string{
	"paused",
	"inactive",
	"service unavailable",
	"failed to fetch",
	"connection refused",
	"no such host",
	"timeout",
}

// IsOutage reports whether err looks like the store being unavailable rather
// than rejecting the request
func IsOutage(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, ErrBackendPaused) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range outageFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// StoreMessage returns the message the store attached to err
func StoreMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

// classifyStoreError maps a row store failure to an AppError:
// outages become 503 with PausedMessage, anything else 500 with the store message.
func classifyStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewNotFoundError("ride not found", ErrNotFound)
	}
	if IsOutage(err) {
		return common.NewAppError(http.StatusServiceUnavailable, PausedMessage, fmt.Errorf("%s: %w: %w", op, ErrBackendPaused, err))
	}
	return common.NewInternalError(StoreMessage(err), fmt.Errorf("%s: %w", op, err))
}

// isStoreRejection reports errors that say nothing about store health: the
// store answered and refused the row, or the client went away mid-query.
// These do not count against the circuit breaker.
func isStoreRejection(err error) bool {
	if err == nil || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, context.Canceled) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		class := pgErr.Code[:2]
		return class == "22" || class == "23"
	}
	return false
}
