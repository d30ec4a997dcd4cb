package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotel_wishlist/internal/domain"
)

func scanWishList(r rowScanner) (domain.WishList, error) {
	var wl domain.WishList
	err := r.Scan(&wl.ID, &wl.Name, &wl.OwnerID, &wl.Owner, &wl.SharingCode)
	wl.Hotels = []domain.Hotel{}
	return wl, err
}

// CreateWishList inserts the row and assigns wl.ID. A unique violation is
// reported as ErrConflict when the owner already uses the name, otherwise as
// ErrSharingCodeTaken.
func (s *Store) CreateWishList(ctx context.Context, wl *domain.WishList) error {
	res, err := s.db.ExecContext(ctx, insertWishListSQL, wl.OwnerID, wl.Name, wl.SharingCode)
	if err != nil {
		if s.d.IsUniqueViolation != nil && s.d.IsUniqueViolation(err) {
			var n int
			if qerr := s.db.QueryRowContext(ctx, wishListNameTakenSQL, wl.OwnerID, wl.Name).Scan(&n); qerr != nil {
				return fmt.Errorf("check wishlist name: %w", qerr)
			}
			if n == 0 {
				return domain.ErrSharingCodeTaken
			}
		}
		return s.translate(err, fmt.Sprintf("wishlist %q", wl.Name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("wishlist id: %w", err)
	}
	wl.ID = id
	if wl.Hotels == nil {
		wl.Hotels = []domain.Hotel{}
	}
	return nil
}

func (s *Store) GetWishList(ctx context.Context, ownerID int64, name string) (domain.WishList, error) {
	return s.getWishList(ctx, s.db, getWishListSQL, "", fmt.Sprintf("wishlist %q", name), ownerID, name)
}

func (s *Store) GetWishListByCode(ctx context.Context, code string) (domain.WishList, error) {
	return s.getWishList(ctx, s.db, getWishListByCodeSQL, "", "sharing code", code)
}

func (s *Store) getWishList(ctx context.Context, q querier, query, lock, what string, args ...any) (domain.WishList, error) {
	wl, err := scanWishList(q.QueryRowContext(ctx, query+lock, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WishList{}, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	if err != nil {
		return domain.WishList{}, fmt.Errorf("get %s: %w", what, err)
	}
	wls := []domain.WishList{wl}
	if err := attachMembers(ctx, q, wls); err != nil {
		return domain.WishList{}, err
	}
	return wls[0], nil
}

func (s *Store) ListWishLists(ctx context.Context, ownerID int64) ([]domain.WishList, error) {
	return s.listWishLists(ctx, s.db, ownerID)
}

func (s *Store) listWishLists(ctx context.Context, q querier, ownerID int64) ([]domain.WishList, error) {
	rows, err := q.QueryContext(ctx, listWishListsSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wishlists: %w", err)
	}
	out := []domain.WishList{}
	for rows.Next() {
		wl, err := scanWishList(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan wishlist: %w", err)
		}
		out = append(out, wl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, attachMembers(ctx, q, out)
}

// UpdateWishList locks the wishlist row, lets fn mutate the aggregate and
// writes back the name and the membership difference. ID, owner and sharing
// code are immutable and restored after fn.
func (s *Store) UpdateWishList(ctx context.Context, ownerID int64, name string, fn func(*domain.WishList) error) (domain.WishList, error) {
	var out domain.WishList
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		wl, err := s.getWishList(ctx, tx, getWishListSQL, s.d.ForUpdate, fmt.Sprintf("wishlist %q", name), ownerID, name)
		if err != nil {
			return err
		}
		before := make(map[int64]struct{}, len(wl.Hotels))
		for _, id := range wl.HotelIDs() {
			before[id] = struct{}{}
		}
		id, owner, code := wl.ID, wl.Owner, wl.SharingCode

		if err := fn(&wl); err != nil {
			return err
		}
		wl.ID, wl.OwnerID, wl.Owner, wl.SharingCode = id, ownerID, owner, code

		if wl.Name != name {
			if _, err := tx.ExecContext(ctx, renameWishListSQL, wl.Name, id); err != nil {
				return s.translate(err, fmt.Sprintf("wishlist %q", wl.Name))
			}
		}

		after := make(map[int64]struct{}, len(wl.Hotels))
		for _, hid := range wl.HotelIDs() {
			after[hid] = struct{}{}
			if _, ok := before[hid]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, insertMemberSQL, id, hid); err != nil {
				return s.translate(err, fmt.Sprintf("hotel %d", hid))
			}
		}
		for hid := range before {
			if _, ok := after[hid]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, deleteMemberSQL, id, hid); err != nil {
				return fmt.Errorf("remove hotel %d: %w", hid, err)
			}
		}
		out = wl
		return nil
	})
	return out, err
}

func (s *Store) DeleteWishList(ctx context.Context, ownerID int64, name string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		wl, err := scanWishList(tx.QueryRowContext(ctx, getWishListSQL+s.d.ForUpdate, ownerID, name))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("wishlist %q: %w", name, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get wishlist %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, deleteMembersSQL, wl.ID); err != nil {
			return fmt.Errorf("drop hotels of wishlist %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, deleteWishListSQL, wl.ID); err != nil {
			return fmt.Errorf("delete wishlist %q: %w", name, err)
		}
		return nil
	})
}

// attachMembers fills in the hotel set (with facilities) of every wishlist.
func attachMembers(ctx context.Context, q querier, wls []domain.WishList) error {
	if len(wls) == 0 {
		return nil
	}
	ids := make([]int64, len(wls))
	idx := make(map[int64]int, len(wls))
	for i, wl := range wls {
		ids[i] = wl.ID
		idx[wl.ID] = i
	}

	rows, err := q.QueryContext(ctx, fmt.Sprintf(membersForWishListsSQL, placeholders(len(ids))), int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query wishlist hotels: %w", err)
	}
	type member struct {
		wishList int64
		hotel    domain.Hotel
	}
	var members []member
	for rows.Next() {
		var m member
		if err := rows.Scan(&m.wishList, &m.hotel.ID, &m.hotel.Name, &m.hotel.Stars, &m.hotel.PageURL, &m.hotel.Photo); err != nil {
			rows.Close()
			return fmt.Errorf("scan wishlist hotel: %w", err)
		}
		members = append(members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	hotels := make([]domain.Hotel, len(members))
	for i, m := range members {
		hotels[i] = m.hotel
	}
	if err := attachFacilities(ctx, q, hotels); err != nil {
		return err
	}
	for i, m := range members {
		w := &wls[idx[m.wishList]]
		w.Hotels = append(w.Hotels, hotels[i])
	}
	return nil
}
