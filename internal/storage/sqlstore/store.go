// Package sqlstore implements the repository ports over database/sql. The
// MySQL and SQLite packages supply the Dialect; queries use '?' placeholders
// which both drivers accept.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hotel_wishlist/internal/domain"
)

// Dialect captures what differs between the supported engines.
type Dialect struct {
	Name string
	// Schema statements are executed one by one, in order, by Migrate.
	Schema []string
	// InsertIgnore is the statement verb that skips rows violating a unique key.
	InsertIgnore string
	// UpsertHotel inserts (id, name, stars, page_url, photo) or updates the existing row.
	UpsertHotel string
	// ForUpdate is appended to aggregate reads done inside a write transaction.
	ForUpdate string

	IsUniqueViolation     func(error) bool
	IsForeignKeyViolation func(error) bool
}

type Store struct {
	db *sql.DB
	d  Dialect
}

var (
	_ domain.HotelRepository    = (*Store)(nil)
	_ domain.PersonRepository   = (*Store)(nil)
	_ domain.WishListRepository = (*Store)(nil)
)

func New(db *sql.DB, d Dialect) *Store { return &Store{db: db, d: d} }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dialect() string { return s.d.Name }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.d.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.d.Name, err)
		}
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// translate maps driver constraint errors onto the domain taxonomy.
func (s *Store) translate(err error, what string) error {
	if err == nil {
		return nil
	}
	switch {
	case s.d.IsUniqueViolation != nil && s.d.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, domain.ErrConflict)
	case s.d.IsForeignKeyViolation != nil && s.d.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
