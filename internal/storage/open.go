// Package storage picks the SQL backend named in configuration.
package storage

import (
	"context"
	"fmt"

	"hotel_wishlist/internal/shared"
	"hotel_wishlist/internal/storage/mysql"
	"hotel_wishlist/internal/storage/sqlite"
	"hotel_wishlist/internal/storage/sqlstore"
)

// Open connects to the configured store and applies its schema.
func Open(ctx context.Context, cfg shared.Config) (*sqlstore.Store, error) {
	switch cfg.StoreDriver {
	case "mysql":
		return mysql.Open(ctx, cfg.MySQLDSN)
	case "sqlite":
		return sqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
