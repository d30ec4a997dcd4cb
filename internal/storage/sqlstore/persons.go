package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotel_wishlist/internal/domain"
)

func (s *Store) CreatePerson(ctx context.Context, p *domain.Person) error {
	res, err := s.db.ExecContext(ctx, insertPersonSQL, p.Username)
	if err != nil {
		return s.translate(err, fmt.Sprintf("person %q", p.Username))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("person id: %w", err)
	}
	p.ID = id
	p.WishLists = []domain.WishList{}
	return nil
}

func (s *Store) GetPerson(ctx context.Context, username string) (domain.Person, error) {
	return s.getPerson(ctx, s.db, username, "")
}

func (s *Store) getPerson(ctx context.Context, q querier, username, lock string) (domain.Person, error) {
	var p domain.Person
	err := q.QueryRowContext(ctx, getPersonSQL+lock, username).Scan(&p.ID, &p.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Person{}, fmt.Errorf("person %q: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Person{}, fmt.Errorf("get person %q: %w", username, err)
	}
	p.WishLists, err = s.listWishLists(ctx, q, p.ID)
	if err != nil {
		return domain.Person{}, err
	}
	return p, nil
}

// UpdatePerson only persists the username; wishlists hang off the surrogate id
// and follow a rename without being touched.
func (s *Store) UpdatePerson(ctx context.Context, username string, fn func(*domain.Person) error) (domain.Person, error) {
	var out domain.Person
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := s.getPerson(ctx, tx, username, s.d.ForUpdate)
		if err != nil {
			return err
		}
		id := p.ID
		if err := fn(&p); err != nil {
			return err
		}
		p.ID = id
		if p.Username != username {
			if _, err := tx.ExecContext(ctx, renamePersonSQL, p.Username, id); err != nil {
				return s.translate(err, fmt.Sprintf("person %q", p.Username))
			}
		}
		for i := range p.WishLists {
			p.WishLists[i].Owner = p.Username
		}
		out = p
		return nil
	})
	return out, err
}

func (s *Store) DeletePerson(ctx context.Context, username string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, getPersonSQL+s.d.ForUpdate, username).Scan(&id, new(string))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("person %q: %w", username, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get person %q: %w", username, err)
		}
		if _, err := tx.ExecContext(ctx, deleteOwnerMembersSQL, id); err != nil {
			return fmt.Errorf("drop wishlist hotels of %q: %w", username, err)
		}
		if _, err := tx.ExecContext(ctx, deleteOwnerWishListSQL, id); err != nil {
			return fmt.Errorf("drop wishlists of %q: %w", username, err)
		}
		if _, err := tx.ExecContext(ctx, deletePersonSQL, id); err != nil {
			return s.translate(err, fmt.Sprintf("delete person %q", username))
		}
		return nil
	})
}
