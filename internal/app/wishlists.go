package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel_wishlist/internal/domain"
)

// sharing code draws before giving up; a single collision is already unlikely.
const maxCodeAttempts = 5

type WishListService struct {
	persons   domain.PersonRepository
	wishLists domain.WishListRepository
	hotels    domain.HotelRepository
}

func NewWishListService(p domain.PersonRepository, w domain.WishListRepository, h domain.HotelRepository) *WishListService {
	return &WishListService{persons: p, wishLists: w, hotels: h}
}

func cleanWishListName(n string) (string, error) {
	n = strings.TrimSpace(n)
	if n == "" {
		return "", fmt.Errorf("wishlist name is required: %w", domain.ErrMalformed)
	}
	return n, nil
}

func (s *WishListService) CreateWishList(ctx context.Context, owner, name string) (domain.WishList, error) {
	n, err := cleanWishListName(name)
	if err != nil {
		return domain.WishList{}, err
	}
	p, err := s.persons.GetPerson(ctx, owner)
	if err != nil {
		return domain.WishList{}, err
	}
	if p.HasWishList(n) {
		return domain.WishList{}, fmt.Errorf("wishlist %q of %q: %w", n, owner, domain.ErrConflict)
	}

	wl := domain.NewWishList(p, n)
	for attempt := 1; ; attempt++ {
		err = s.wishLists.CreateWishList(ctx, &wl)
		if !errors.Is(err, domain.ErrSharingCodeTaken) {
			break
		}
		if attempt == maxCodeAttempts {
			return domain.WishList{}, fmt.Errorf("allocate sharing code: %w", err)
		}
		wl.SharingCode = domain.NewSharingCode()
	}
	if err != nil {
		return domain.WishList{}, err
	}
	return wl, nil
}

func (s *WishListService) owner(ctx context.Context, username string) (domain.Person, error) {
	return s.persons.GetPerson(ctx, username)
}

func (s *WishListService) GetWishList(ctx context.Context, owner, name string) (domain.WishList, error) {
	p, err := s.owner(ctx, owner)
	if err != nil {
		return domain.WishList{}, err
	}
	return s.wishLists.GetWishList(ctx, p.ID, name)
}

func (s *WishListService) RenameWishList(ctx context.Context, owner, name, newName string) (domain.WishList, error) {
	n, err := cleanWishListName(newName)
	if err != nil {
		return domain.WishList{}, err
	}
	p, err := s.owner(ctx, owner)
	if err != nil {
		return domain.WishList{}, err
	}
	if n != name && p.HasWishList(n) {
		return domain.WishList{}, fmt.Errorf("wishlist %q of %q: %w", n, owner, domain.ErrConflict)
	}
	return s.wishLists.UpdateWishList(ctx, p.ID, name, func(wl *domain.WishList) error {
		wl.Name = n
		return nil
	})
}

func (s *WishListService) DeleteWishList(ctx context.Context, owner, name string) error {
	p, err := s.owner(ctx, owner)
	if err != nil {
		return err
	}
	return s.wishLists.DeleteWishList(ctx, p.ID, name)
}

// AddHotel is idempotent: adding a member again leaves the set unchanged.
func (s *WishListService) AddHotel(ctx context.Context, owner, name string, hotelID int64) (domain.WishList, error) {
	p, err := s.owner(ctx, owner)
	if err != nil {
		return domain.WishList{}, err
	}
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return domain.WishList{}, err
	}
	return s.wishLists.UpdateWishList(ctx, p.ID, name, func(wl *domain.WishList) error {
		wl.AddHotel(h)
		return nil
	})
}

// RemoveHotel ignores hotels that are not members.
func (s *WishListService) RemoveHotel(ctx context.Context, owner, name string, hotelID int64) (domain.WishList, error) {
	p, err := s.owner(ctx, owner)
	if err != nil {
		return domain.WishList{}, err
	}
	return s.wishLists.UpdateWishList(ctx, p.ID, name, func(wl *domain.WishList) error {
		wl.RemoveHotel(hotelID)
		return nil
	})
}

func (s *WishListService) SharingCode(ctx context.Context, owner, name string) (string, error) {
	wl, err := s.GetWishList(ctx, owner, name)
	if err != nil {
		return "", err
	}
	return wl.SharingCode, nil
}

func (s *WishListService) GetShared(ctx context.Context, code string) (domain.WishList, error) {
	if strings.TrimSpace(code) == "" {
		return domain.WishList{}, fmt.Errorf("sharing code is required: %w", domain.ErrMalformed)
	}
	return s.wishLists.GetWishListByCode(ctx, code)
}
