package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tiny/internal/shortener"
)

const uniqueViolationCode = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
// The urls table is created by Migrate.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) FindByTarget(ctx context.Context, target string) (*shortener.URL, error) {
	query := `
		SELECT target, tiny, created, usage_count
		FROM urls
		WHERE target = $1
	`

	return scanURL(p.pool.QueryRow(ctx, query, target))
}

func (p *PostgresStore) FindByTiny(ctx context.Context, tiny shortener.Tiny) (*shortener.URL, error) {
	query := `
		SELECT target, tiny, created, usage_count
		FROM urls
		WHERE tiny = $1
	`

	return scanURL(p.pool.QueryRow(ctx, query, string(tiny)))
}

// Insert relies on the primary key on target and the unique index on tiny.
func (p *PostgresStore) Insert(ctx context.Context, url *shortener.URL) error {
	query := `
		INSERT INTO urls (target, tiny, created, usage_count)
		VALUES ($1, $2, $3, 0)
	`

	_, err := p.pool.Exec(ctx, query, url.Target, string(url.Tiny), url.Created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return shortener.ErrUniqueViolation
		}

		return err
	}

	return nil
}

func (p *PostgresStore) IncrementUsage(ctx context.Context, tiny shortener.Tiny) error {
	query := `
		UPDATE urls
		SET usage_count = usage_count + 1
		WHERE tiny = $1
	`

	tag, err := p.pool.Exec(ctx, query, string(tiny))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) TopByUsage(ctx context.Context, n int) ([]*shortener.URL, error) {
	if n <= 0 {
		return []*shortener.URL{}, nil
	}

	query := `
		SELECT target, tiny, created, usage_count
		FROM urls
		ORDER BY usage_count DESC, created ASC
		LIMIT $1
	`

	rows, err := p.pool.Query(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make([]*shortener.URL, 0, n)

	for rows.Next() {
		url, err := scanURL(rows)
		if err != nil {
			return nil, err
		}

		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanURL(row pgx.Row) (*shortener.URL, error) {
	var (
		url  shortener.URL
		tiny string
	)

	err := row.Scan(&url.Target, &tiny, &url.Created, &url.UsageCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	url.Tiny = shortener.Tiny(tiny)

	return &url, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
