package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_wishlist/internal/storage/sqlstore"
)

// MySQL server error numbers we translate.
const (
	errDupEntry         = 1062
	errNoReferencedRow  = 1216
	errNoReferencedRow2 = 1452
	errRowIsReferenced  = 1217
	errRowIsReferenced2 = 1451
)

func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:                  "mysql",
		Schema:                schema,
		InsertIgnore:          "INSERT IGNORE",
		UpsertHotel:           upsertHotelSQL,
		ForUpdate:             " FOR UPDATE",
		IsUniqueViolation:     isUniqueViolation,
		IsForeignKeyViolation: isForeignKeyViolation,
	}
}

// New wraps an already opened handle.
func New(db *sql.DB) *sqlstore.Store { return sqlstore.New(db, Dialect()) }

// Open connects, pings and migrates.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	st := New(db)
	if err := st.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func mysqlErrNumber(err error) uint16 {
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isUniqueViolation(err error) bool { return mysqlErrNumber(err) == errDupEntry }

func isForeignKeyViolation(err error) bool {
	switch mysqlErrNumber(err) {
	case errNoReferencedRow, errNoReferencedRow2, errRowIsReferenced, errRowIsReferenced2:
		return true
	}
	return false
}
