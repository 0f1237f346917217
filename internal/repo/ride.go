package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/carpool/internal/domain"
)

// pgRideStore is the Postgres implementation of RideStore.
// Registry order is kept in the position column.
type pgRideStore struct {
	db db
}

// NewRideStore constructs a Postgres-backed RideStore.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRideStore(db db) RideStore {
	return &pgRideStore{db: db}
}

// Load returns every ride ordered by position.
func (r *pgRideStore) Load(ctx context.Context) ([]domain.RideOffer, error) {
	const q = `
		SELECT id, driver_name, departure_time, origin, total_seats, passengers
		FROM rides
		ORDER BY position`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RideStore.Load: %w", err)
	}
	defer rows.Close()

	offers := []domain.RideOffer{}
	for rows.Next() {
		o, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RideStore.Load: scan: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RideStore.Load: rows: %w", err)
	}

	return offers, nil
}

// Save replaces the whole table inside one transaction: either every offer
// is written in its new position, or the previous registry is left untouched.
func (r *pgRideStore) Save(ctx context.Context, offers []domain.RideOffer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.RideStore.Save: begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM rides`); err != nil {
		return fmt.Errorf("repo.RideStore.Save: clear: %w", err)
	}

	rows := make([][]any, len(offers))
	for i, o := range offers {
		passengers := o.Passengers
		if passengers == nil {
			passengers = []string{}
		}
		rows[i] = []any{o.ID, i, o.DriverName, o.DepartureTime, o.Origin, o.TotalSeats, passengers}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"rides"},
		[]string{"id", "position", "driver_name", "departure_time", "origin", "total_seats", "passengers"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("repo.RideStore.Save: copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.RideStore.Save: commit: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRide maps a single database row into a domain.RideOffer.
func scanRide(s scanner) (domain.RideOffer, error) {
	var (
		o          domain.RideOffer
		id         pgtype.UUID
		passengers []string
	)

	if err := s.Scan(&id, &o.DriverName, &o.DepartureTime, &o.Origin, &o.TotalSeats, &passengers); err != nil {
		return domain.RideOffer{}, err
	}

	o.ID = uuid.UUID(id.Bytes)
	o.Passengers = passengers
	if o.Passengers == nil {
		o.Passengers = []string{}
	}
	return o, nil
}
