package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/metrics"
)

// Table schema and queries. seq disambiguates ordering between events
// persisted within the same timestamp resolution.
const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS potholes (
	id        uuid PRIMARY KEY,
	seq       bigserial,
	latitude  double precision NOT NULL,
	longitude double precision NOT NULL,
	intensity double precision NOT NULL,
	ts        timestamptz NOT NULL DEFAULT now()
)`
	insertSQL = `INSERT INTO potholes (id, latitude, longitude, intensity, ts) VALUES ($1, $2, $3, $4, $5)`
	listSQL   = `SELECT id, latitude, longitude, intensity, ts FROM potholes ORDER BY ts DESC, seq DESC`
	countSQL  = `SELECT count(*) FROM potholes`
)

// Pool is the subset of pgxpool.Pool the store uses. Tests substitute a
// fake.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// newPool is a seam so tests can intercept pool creation.
var newPool = func(ctx context.Context, url string) (Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// PostgresStore persists pothole events in a Postgres table.
type PostgresStore struct {
	pool Pool
}

// OpenPostgres connects to url and ensures the potholes table exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := newPool(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Insert appends an event. Postgres guarantees atomicity of the single
// row insert under concurrency.
func (s *PostgresStore) Insert(ctx context.Context, e model.Event) error {
	_, err := s.pool.Exec(ctx, insertSQL, e.ID, e.Latitude, e.Longitude, e.Intensity, e.Timestamp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsert, err)
	}
	if n, err := s.Count(ctx); err == nil {
		metrics.UpdateStoredEvents(n)
	}
	return nil
}

// List returns all events newest first.
func (s *PostgresStore) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Latitude, &e.Longitude, &e.Intensity, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return out, nil
}

// Count returns the number of stored events.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return n, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
