package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotel_wishlist/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHotel(r rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	err := r.Scan(&h.ID, &h.Name, &h.Stars, &h.PageURL, &h.Photo)
	h.Facilities = []string{}
	return h, err
}

func (s *Store) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	h.Facilities = domain.NormalizeFacilities(h.Facilities)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.insertHotel(ctx, tx, h); err != nil {
			return err
		}
		return s.writeFacilities(ctx, tx, h.ID, h.Facilities)
	})
}

func (s *Store) insertHotel(ctx context.Context, q querier, h *domain.Hotel) error {
	if h.ID == 0 {
		res, err := q.ExecContext(ctx, insertHotelSQL, h.Name, h.Stars, h.PageURL, h.Photo)
		if err != nil {
			return s.translate(err, "insert hotel")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("hotel id: %w", err)
		}
		h.ID = id
		return nil
	}
	if _, err := q.ExecContext(ctx, insertHotelWithIDSQL, h.ID, h.Name, h.Stars, h.PageURL, h.Photo); err != nil {
		return s.translate(err, fmt.Sprintf("insert hotel %d", h.ID))
	}
	return nil
}

// writeFacilities upserts the facility rows and replaces the hotel's links.
func (s *Store) writeFacilities(ctx context.Context, q querier, hotelID int64, names []string) error {
	if _, err := q.ExecContext(ctx, deleteHotelFacilitiesSQL, hotelID); err != nil {
		return fmt.Errorf("clear facilities of hotel %d: %w", hotelID, err)
	}
	for _, n := range names {
		if _, err := q.ExecContext(ctx, s.d.InsertIgnore+insertFacilitySuffix, n); err != nil {
			return s.translate(err, "upsert facility "+n)
		}
		if _, err := q.ExecContext(ctx, insertHotelFacilitySQL, hotelID, n); err != nil {
			return s.translate(err, "link facility "+n)
		}
	}
	return nil
}

func (s *Store) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return s.getHotel(ctx, s.db, id, "")
}

func (s *Store) getHotel(ctx context.Context, q querier, id int64, lock string) (domain.Hotel, error) {
	h, err := scanHotel(q.QueryRowContext(ctx, getHotelSQL+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("get hotel %d: %w", id, err)
	}
	hs := []domain.Hotel{h}
	if err := attachFacilities(ctx, q, hs); err != nil {
		return domain.Hotel{}, err
	}
	return hs[0], nil
}

func (s *Store) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	hs, err := queryHotels(ctx, s.db, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	return hs, attachFacilities(ctx, s.db, hs)
}

func (s *Store) UpdateHotel(ctx context.Context, id int64, fn func(*domain.Hotel) error) (domain.Hotel, error) {
	var out domain.Hotel
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		h, err := s.getHotel(ctx, tx, id, s.d.ForUpdate)
		if err != nil {
			return err
		}
		if err := fn(&h); err != nil {
			return err
		}
		h.ID = id
		h.Facilities = domain.NormalizeFacilities(h.Facilities)
		if _, err := tx.ExecContext(ctx, updateHotelSQL, h.Name, h.Stars, h.PageURL, h.Photo, id); err != nil {
			return s.translate(err, fmt.Sprintf("update hotel %d", id))
		}
		if err := s.writeFacilities(ctx, tx, id, h.Facilities); err != nil {
			return err
		}
		out = h
		return nil
	})
	return out, err
}

// DeleteHotel removes the hotel together with its wishlist memberships and facility links.
func (s *Store) DeleteHotel(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getHotel(ctx, tx, id, s.d.ForUpdate); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteHotelMembershipSQL, id); err != nil {
			return fmt.Errorf("drop memberships of hotel %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, deleteHotelFacilitiesSQL, id); err != nil {
			return fmt.Errorf("drop facilities of hotel %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, deleteHotelSQL, id); err != nil {
			return s.translate(err, fmt.Sprintf("delete hotel %d", id))
		}
		return nil
	})
}

func (s *Store) GetFacility(ctx context.Context, name string) (domain.HotelFacility, error) {
	var f domain.HotelFacility
	err := s.db.QueryRowContext(ctx, getFacilitySQL, name).Scan(&f.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HotelFacility{}, fmt.Errorf("facility %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.HotelFacility{}, fmt.Errorf("get facility %q: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx, hotelsOfFacilitySQL, name)
	if err != nil {
		return domain.HotelFacility{}, fmt.Errorf("hotels of facility %q: %w", name, err)
	}
	defer rows.Close()
	f.Hotels = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return domain.HotelFacility{}, err
		}
		f.Hotels = append(f.Hotels, id)
	}
	return f, rows.Err()
}

func (s *Store) ListFacilities(ctx context.Context) ([]domain.HotelFacility, error) {
	rows, err := s.db.QueryContext(ctx, listFacilitiesSQL)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	out := []domain.HotelFacility{}
	idx := map[string]int{}
	for rows.Next() {
		var f domain.HotelFacility
		if err := rows.Scan(&f.Name); err != nil {
			rows.Close()
			return nil, err
		}
		f.Hotels = []int64{}
		idx[f.Name] = len(out)
		out = append(out, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := s.db.QueryContext(ctx, allFacilityLinksSQL)
	if err != nil {
		return nil, fmt.Errorf("list facility links: %w", err)
	}
	defer links.Close()
	for links.Next() {
		var (
			hotelID int64
			name    string
		)
		if err := links.Scan(&hotelID, &name); err != nil {
			return nil, err
		}
		if i, ok := idx[name]; ok {
			out[i].Hotels = append(out[i].Hotels, hotelID)
		}
	}
	return out, links.Err()
}

func (s *Store) ListHotelsByFacility(ctx context.Context, name string) ([]domain.Hotel, error) {
	var exists string
	err := s.db.QueryRowContext(ctx, getFacilitySQL, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("facility %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get facility %q: %w", name, err)
	}
	hs, err := queryHotels(ctx, s.db, listHotelsByFacilitySQL, name)
	if err != nil {
		return nil, err
	}
	return hs, attachFacilities(ctx, s.db, hs)
}

// ImportCatalog upserts facilities first, then hotels by id, all in one transaction.
func (s *Store) ImportCatalog(ctx context.Context, facilities []domain.HotelFacility, hotels []domain.Hotel) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, f := range facilities {
			if _, err := tx.ExecContext(ctx, s.d.InsertIgnore+insertFacilitySuffix, f.Name); err != nil {
				return s.translate(err, "import facility "+f.Name)
			}
		}
		for i := range hotels {
			h := &hotels[i]
			h.Facilities = domain.NormalizeFacilities(h.Facilities)
			if h.ID == 0 {
				if err := s.insertHotel(ctx, tx, h); err != nil {
					return err
				}
			} else if _, err := tx.ExecContext(ctx, s.d.UpsertHotel, h.ID, h.Name, h.Stars, h.PageURL, h.Photo); err != nil {
				return s.translate(err, fmt.Sprintf("import hotel %d", h.ID))
			}
			if err := s.writeFacilities(ctx, tx, h.ID, h.Facilities); err != nil {
				return err
			}
		}
		return nil
	})
}

// queryHotels reads all rows before returning so callers may issue the next
// query on the same connection.
func queryHotels(ctx context.Context, q querier, query string, args ...any) ([]domain.Hotel, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func attachFacilities(ctx context.Context, q querier, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(hs))
	seen := make(map[int64]struct{}, len(hs))
	for _, h := range hs {
		if _, ok := seen[h.ID]; !ok {
			seen[h.ID] = struct{}{}
			ids = append(ids, h.ID)
		}
	}

	rows, err := q.QueryContext(ctx, fmt.Sprintf(facilityLinksForHotelsSQL, placeholders(len(ids))), int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query hotel facilities: %w", err)
	}
	defer rows.Close()

	byHotel := make(map[int64][]string, len(ids))
	for rows.Next() {
		var (
			hotelID int64
			name    string
		)
		if err := rows.Scan(&hotelID, &name); err != nil {
			return fmt.Errorf("scan hotel facility: %w", err)
		}
		byHotel[hotelID] = append(byHotel[hotelID], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range hs {
		if fs := byHotel[hs[i].ID]; fs != nil {
			hs[i].Facilities = fs
		} else {
			hs[i].Facilities = []string{}
		}
	}
	return nil
}
