package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Driver names accepted by Open.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// OpenOptions selects and configures the store returned by Open.
type OpenOptions struct {
	Driver      string
	Path        string // file driver
	DatabaseURL string // postgres driver
}

// Open returns the RideStore selected by opts and a func that releases it.
// For postgres, pending migrations are applied and the connection is checked
// before the store is returned.
func Open(ctx context.Context, opts OpenOptions, log *slog.Logger) (RideStore, func(), error) {
	switch opts.Driver {
	case "", DriverFile:
		log.InfoContext(ctx, "using file store", "path", opts.Path)
		return NewFileStore(opts.Path), func() {}, nil

	case DriverPostgres:
		if err := Migrate(ctx, opts.DatabaseURL, log); err != nil {
			return nil, nil, fmt.Errorf("repo.Open: %w", err)
		}
		// New() does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.Open: pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo.Open: ping: %w", err)
		}
		log.InfoContext(ctx, "database connection established")
		return NewRideStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("repo.Open: unknown driver %q", opts.Driver)
	}
}
