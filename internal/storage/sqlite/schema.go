package sqlite

var schema = []string{
	`CREATE TABLE IF NOT EXISTS hotels (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  name     TEXT    NOT NULL,
  stars    INTEGER NOT NULL DEFAULT 0,
  page_url TEXT    NOT NULL DEFAULT '',
  photo    TEXT    NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS facilities (
  name TEXT PRIMARY KEY
)`,
	`CREATE TABLE IF NOT EXISTS hotel_facilities (
  hotel_id      INTEGER NOT NULL REFERENCES hotels (id) ON DELETE CASCADE,
  facility_name TEXT    NOT NULL REFERENCES facilities (name),
  PRIMARY KEY (hotel_id, facility_name)
)`,
	`CREATE INDEX IF NOT EXISTS idx_hotel_facilities_name ON hotel_facilities (facility_name)`,
	`CREATE TABLE IF NOT EXISTS persons (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT    NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS wishlists (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  owner_id     INTEGER NOT NULL REFERENCES persons (id) ON DELETE CASCADE,
  name         TEXT    NOT NULL,
  sharing_code TEXT    NOT NULL UNIQUE,
  UNIQUE (owner_id, name)
)`,
	`CREATE TABLE IF NOT EXISTS wishlist_hotels (
  wishlist_id INTEGER NOT NULL REFERENCES wishlists (id) ON DELETE CASCADE,
  hotel_id    INTEGER NOT NULL REFERENCES hotels (id) ON DELETE CASCADE,
  PRIMARY KEY (wishlist_id, hotel_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_wishlist_hotels_hotel ON wishlist_hotels (hotel_id)`,
}

const upsertHotelSQL = `
INSERT INTO hotels (id, name, stars, page_url, photo)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  name     = excluded.name,
  stars    = excluded.stars,
  page_url = excluded.page_url,
  photo    = excluded.photo
`
