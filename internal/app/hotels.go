package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel_wishlist/internal/domain"
)

// HotelService serves the hotel catalog and its facilities. Single hotel and
// facility reads go through the cache when one is configured.
type HotelService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id int64) string       { return fmt.Sprintf("hotel:%d", id) }
func facilityKey(name string) string { return "facility:" + name }

func validateHotel(h domain.Hotel) error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("hotel name is required: %w", domain.ErrMalformed)
	}
	if h.Stars < 0 || h.Stars > 5 {
		return fmt.Errorf("stars must be between 0 and 5, got %d: %w", h.Stars, domain.ErrMalformed)
	}
	if h.ID < 0 {
		return fmt.Errorf("hotel id must be positive: %w", domain.ErrMalformed)
	}
	return nil
}

func (s *HotelService) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h.Name = strings.TrimSpace(h.Name)
	if err := validateHotel(h); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.repo.CreateHotel(ctx, &h); err != nil {
		return domain.Hotel{}, err
	}
	s.evict(ctx, h.ID, h.Facilities)
	return h, nil
}

func (s *HotelService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

func (s *HotelService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx)
}

func (s *HotelService) UpdateHotel(ctx context.Context, id int64, p domain.HotelPatch) (domain.Hotel, error) {
	var before []string
	h, err := s.repo.UpdateHotel(ctx, id, func(h *domain.Hotel) error {
		before = append([]string(nil), h.Facilities...)
		h.Apply(p)
		h.Name = strings.TrimSpace(h.Name)
		return validateHotel(*h)
	})
	if err != nil {
		return domain.Hotel{}, err
	}
	s.evict(ctx, id, append(before, h.Facilities...))
	return h, nil
}

func (s *HotelService) DeleteHotel(ctx context.Context, id int64) error {
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id, h.Facilities)
	return nil
}

func (s *HotelService) HotelFacilities(ctx context.Context, id int64) ([]string, error) {
	h, err := s.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	return h.Facilities, nil
}

func (s *HotelService) GetFacility(ctx context.Context, name string) (domain.HotelFacility, error) {
	key := facilityKey(name)
	var f domain.HotelFacility
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &f); ok {
			return f, nil
		}
	}
	f, err := s.repo.GetFacility(ctx, name)
	if err != nil {
		return domain.HotelFacility{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, f, int(s.cacheTTL.Seconds()))
	}
	return f, nil
}

func (s *HotelService) ListFacilities(ctx context.Context) ([]domain.HotelFacility, error) {
	return s.repo.ListFacilities(ctx)
}

func (s *HotelService) ListHotelsByFacility(ctx context.Context, name string) ([]domain.Hotel, error) {
	return s.repo.ListHotelsByFacility(ctx, name)
}

// evict drops the hotel entry and every facility entry it touched.
func (s *HotelService) evict(ctx context.Context, id int64, facilities []string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	for _, n := range domain.NormalizeFacilities(facilities) {
		_ = s.cache.Del(ctx, facilityKey(n))
	}
}
