package app

import (
	"context"
	"fmt"
	"strings"

	"hotel_wishlist/internal/domain"
)

type PersonService struct {
	repo domain.PersonRepository
}

func NewPersonService(r domain.PersonRepository) *PersonService {
	return &PersonService{repo: r}
}

func cleanUsername(u string) (string, error) {
	u = strings.TrimSpace(u)
	if u == "" {
		return "", fmt.Errorf("username is required: %w", domain.ErrMalformed)
	}
	return u, nil
}

func (s *PersonService) CreatePerson(ctx context.Context, username string) (domain.Person, error) {
	u, err := cleanUsername(username)
	if err != nil {
		return domain.Person{}, err
	}
	p := domain.Person{Username: u}
	if err := s.repo.CreatePerson(ctx, &p); err != nil {
		return domain.Person{}, err
	}
	return p, nil
}

func (s *PersonService) GetPerson(ctx context.Context, username string) (domain.Person, error) {
	return s.repo.GetPerson(ctx, username)
}

// RenamePerson changes the lookup key. Renaming to the current name is a no-op.
func (s *PersonService) RenamePerson(ctx context.Context, username, newUsername string) (domain.Person, error) {
	u, err := cleanUsername(newUsername)
	if err != nil {
		return domain.Person{}, err
	}
	return s.repo.UpdatePerson(ctx, username, func(p *domain.Person) error {
		p.Username = u
		return nil
	})
}

func (s *PersonService) DeletePerson(ctx context.Context, username string) error {
	return s.repo.DeletePerson(ctx, username)
}

func (s *PersonService) ListWishLists(ctx context.Context, username string) ([]domain.WishList, error) {
	p, err := s.repo.GetPerson(ctx, username)
	if err != nil {
		return nil, err
	}
	return p.WishLists, nil
}
