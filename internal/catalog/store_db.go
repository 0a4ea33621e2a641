package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	pgUndefinedTable = "42P01"
)

var ErrSchemaMissing = errors.New("catalog table missing")

// PostgresStore reads the catalog from a products table:
//
//	products(id int, position int, name text, popularity_score numeric, weight numeric, images jsonb)
//
// position is the display order; ties fall back to id.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a pool through the pgx database/sql driver.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, popularity_score, weight, images
			FROM products
			ORDER BY position ASC, id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var (
				p      Product
				images []byte
			)
			if err := rows.Scan(&p.ID, &p.Name, &p.PopularityScore, &p.Weight, &images); err != nil {
				return err
			}
			if len(images) > 0 {
				if err := json.Unmarshal(images, &p.Images); err != nil {
					return fmt.Errorf("product %d images: %w", p.ID, err)
				}
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if isUndefinedTable(err) {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Snapshot reads the table once and freezes it in memory; the catalog is
// never re-read for the life of the process.
func Snapshot(ctx context.Context, src Store) (*MemStore, error) {
	products, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewMemStore(products)
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
