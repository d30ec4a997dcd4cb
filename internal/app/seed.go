package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_wishlist/internal/domain"
)

type SeedReport struct {
	Sources    int
	Hotels     int
	Facilities int
	Took       time.Duration
}

// CatalogLoader reads seed documents and writes them as one catalog import.
type CatalogLoader struct {
	repo    domain.HotelRepository
	cache   domain.Cache
	workers int
}

func NewCatalogLoader(r domain.HotelRepository, c domain.Cache, workers int) *CatalogLoader {
	if workers <= 0 {
		workers = 4
	}
	return &CatalogLoader{repo: r, cache: c, workers: workers}
}

// Load reads every source concurrently. Nothing is written unless all of them
// were read and parsed.
func (l *CatalogLoader) Load(ctx context.Context, sources ...domain.SeedSource) (SeedReport, error) {
	start := time.Now()
	parsed := make([][]domain.Hotel, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, src := range sources {
		g.Go(func() error {
			raw, err := src.Read(gctx)
			if err != nil {
				return fmt.Errorf("read seed %s: %w", src.Name(), err)
			}
			hs, err := parseSeedDocument(raw)
			if err != nil {
				return fmt.Errorf("parse seed %s: %w", src.Name(), err)
			}
			log.Debug().Str("source", src.Name()).Int("hotels", len(hs)).Msg("seed read")
			parsed[i] = hs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SeedReport{}, err
	}

	hotels := mergeSeedHotels(parsed)
	facilities := domain.CollectFacilities(hotels)

	// a re-seed can drop a hotel from a facility the new documents never name
	var stale []domain.HotelFacility
	if l.cache != nil {
		var err error
		if stale, err = l.repo.ListFacilities(ctx); err != nil {
			return SeedReport{}, fmt.Errorf("list facilities: %w", err)
		}
	}

	if err := l.repo.ImportCatalog(ctx, facilities, hotels); err != nil {
		return SeedReport{}, fmt.Errorf("import catalog: %w", err)
	}

	if l.cache != nil {
		for _, h := range hotels {
			_ = l.cache.Del(ctx, hotelKey(h.ID))
		}
		evicted := make(map[string]struct{}, len(stale)+len(facilities))
		for _, f := range append(stale, facilities...) {
			if _, ok := evicted[f.Name]; ok {
				continue
			}
			evicted[f.Name] = struct{}{}
			_ = l.cache.Del(ctx, facilityKey(f.Name))
		}
	}

	return SeedReport{
		Sources:    len(sources),
		Hotels:     len(hotels),
		Facilities: len(facilities),
		Took:       time.Since(start),
	}, nil
}

// mergeSeedHotels keeps source order; a later hotel with the same id replaces
// the earlier one in place.
func mergeSeedHotels(parsed [][]domain.Hotel) []domain.Hotel {
	var out []domain.Hotel
	pos := map[int64]int{}
	for _, hs := range parsed {
		for _, h := range hs {
			if h.ID != 0 {
				if i, ok := pos[h.ID]; ok {
					out[i] = h
					continue
				}
				pos[h.ID] = len(out)
			}
			out = append(out, h)
		}
	}
	return out
}
