// Package repo contains all storage access logic for the carpool registry.
// The registry is persisted as a whole: every store loads and saves the full,
// ordered set of ride offers. No business logic lives here, only encoding,
// SQL and type mapping.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/carpool/internal/domain"
)

// ErrCorruptStore is returned by Load when the backing storage exists but
// cannot be decoded into ride offers. It is never silently recovered from.
var ErrCorruptStore = errors.New("corrupt ride store")

// RideStore defines the persistence operations for the ride registry.
// The service layer depends on this interface, not a concrete store,
// which allows the service to be unit-tested with a mock.
type RideStore interface {
	// Load returns every ride offer in registry order.
	// An absent store is an empty registry, not an error.
	Load(ctx context.Context) ([]domain.RideOffer, error)

	// Save replaces the stored registry with offers, preserving their order.
	Save(ctx context.Context, offers []domain.RideOffer) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}
