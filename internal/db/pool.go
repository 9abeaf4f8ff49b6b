package db

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultDBUser   = "postgres"
	applicationName = "fitsphere-backend"
)

type NewDBPoolParams struct {
	DBHost string
	DBPort string
	DBName string
	// DBUser falls back to the postgres superuser when empty
	DBUser         string
	TracingEnabled bool
}

// NewDBPool creates a pgx connection pool tagged with the service
// application name, optionally instrumented with otel tracing.
func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	dbUser := params.DBUser
	if dbUser == "" {
		dbUser = defaultDBUser
	}

	connString := fmt.Sprintf(
		"postgres://%s@%s:%s/%s?application_name=%s",
		dbUser, params.DBHost, params.DBPort, params.DBName, applicationName,
	)
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return pool, nil
}
