package mysql

// Note: identifiers used as keys are VARCHAR(191) so utf8mb4 unique indexes fit.
// Tables use utf8mb4_bin: names are equal only when byte-equal, as on SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS hotels (
  id         BIGINT       NOT NULL AUTO_INCREMENT,
  name       VARCHAR(255) NOT NULL,
  stars      INT          NOT NULL DEFAULT 0,
  page_url   VARCHAR(1024) NOT NULL DEFAULT '',
  photo      VARCHAR(1024) NOT NULL DEFAULT '',
  created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,

	`CREATE TABLE IF NOT EXISTS facilities (
  name VARCHAR(191) NOT NULL,
  PRIMARY KEY (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,

	`CREATE TABLE IF NOT EXISTS hotel_facilities (
  hotel_id      BIGINT       NOT NULL,
  facility_name VARCHAR(191) NOT NULL,
  PRIMARY KEY (hotel_id, facility_name),
  KEY idx_hotel_facilities_name (facility_name),
  CONSTRAINT fk_hf_hotel FOREIGN KEY (hotel_id) REFERENCES hotels (id) ON DELETE CASCADE,
  CONSTRAINT fk_hf_facility FOREIGN KEY (facility_name) REFERENCES facilities (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,

	`CREATE TABLE IF NOT EXISTS persons (
  id       BIGINT       NOT NULL AUTO_INCREMENT,
  username VARCHAR(191) NOT NULL,
  PRIMARY KEY (id),
  UNIQUE KEY uq_persons_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,

	`CREATE TABLE IF NOT EXISTS wishlists (
  id           BIGINT       NOT NULL AUTO_INCREMENT,
  owner_id     BIGINT       NOT NULL,
  name         VARCHAR(191) NOT NULL,
  sharing_code CHAR(36)     NOT NULL,
  created_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  UNIQUE KEY uq_wishlists_owner_name (owner_id, name),
  UNIQUE KEY uq_wishlists_sharing_code (sharing_code),
  CONSTRAINT fk_wishlists_owner FOREIGN KEY (owner_id) REFERENCES persons (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,

	`CREATE TABLE IF NOT EXISTS wishlist_hotels (
  wishlist_id BIGINT    NOT NULL,
  hotel_id    BIGINT    NOT NULL,
  added_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (wishlist_id, hotel_id),
  KEY idx_wishlist_hotels_hotel (hotel_id),
  CONSTRAINT fk_wh_wishlist FOREIGN KEY (wishlist_id) REFERENCES wishlists (id) ON DELETE CASCADE,
  CONSTRAINT fk_wh_hotel FOREIGN KEY (hotel_id) REFERENCES hotels (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,
}

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, stars, page_url, photo)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  stars      = VALUES(stars),
  page_url   = VALUES(page_url),
  photo      = VALUES(photo),
  updated_at = CURRENT_TIMESTAMP
`
