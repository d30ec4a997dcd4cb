package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_wishlist/internal/app"
	"hotel_wishlist/internal/domain"
	"hotel_wishlist/internal/storage/sqlite"
)

const seedA = `{"hotels":[
  {"id": 1, "name": "Grand", "stars": 4, "page_url": "https://grand.example", "facilities": ["Pool", "Wifi"]},
  {"hotel_id": "2", "hotel_name": "Budget", "rating": "2,5", "photos": ["p1.jpg", "p2.jpg"], "amenities": [{"name": "Wifi"}]}
]}`

const seedB = `[
  {"id": 1, "name": "Grand Renovated", "stars": 5, "facilities": ["Spa"]},
  {"name": "No Id", "pageUrl": "https://noid.example"}
]`

func TestCatalogLoader_MergesSourcesAndDedupesFacilities(t *testing.T) {
	repo := newMemStore()
	cache := &fakeCache{}
	l := app.NewCatalogLoader(repo, cache, 2)

	rep, err := l.Load(context.Background(),
		fakeSource{name: "a", body: seedA},
		fakeSource{name: "b", body: seedB},
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rep.Sources != 2 || rep.Hotels != 3 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Facilities != 2 {
		t.Fatalf("facilities should be deduplicated by name, got %d", rep.Facilities)
	}

	grand := repo.hotels[1]
	if grand.Name != "Grand Renovated" || grand.Stars != 5 {
		t.Fatalf("later source should win for the same id: %+v", grand)
	}
	budget := repo.hotels[2]
	if budget.Name != "Budget" || budget.Stars != 2 || budget.Photo != "p1.jpg" || budget.Facilities[0] != "Wifi" {
		t.Fatalf("flexible fields not mapped: %+v", budget)
	}
	if len(repo.hotels) != 3 {
		t.Fatalf("hotel without id should get one: %d hotels", len(repo.hotels))
	}
	if len(cache.dels) == 0 {
		t.Fatalf("seeded hotels should be evicted from cache")
	}
}

func TestCatalogLoader_ReadFailureWritesNothing(t *testing.T) {
	repo := newMemStore()
	l := app.NewCatalogLoader(repo, nil, 4)

	_, err := l.Load(context.Background(),
		fakeSource{name: "ok", body: seedA},
		fakeSource{name: "broken", err: errBoom},
	)
	if !errors.Is(err, errBoom) {
		t.Fatalf("want read error, got %v", err)
	}
	if repo.imports != 0 || len(repo.hotels) != 0 {
		t.Fatalf("nothing should be written: %d imports, %d hotels", repo.imports, len(repo.hotels))
	}
}

func TestCatalogLoader_ParseFailureWritesNothing(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"hotels": [`,
		"no hotels":    `{"rooms": []}`,
		"scalar":       `42`,
		"missing name": `[{"id": 3}]`,
		"not object":   `["Grand"]`,
		"negative id":  `[{"id": -4, "name": "Grand"}]`,
		"fraction id":  `[{"id": 1.5, "name": "Grand"}]`,
		"text id":      `[{"hotel_id": "abc", "name": "Grand"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newMemStore()
			_, err := app.NewCatalogLoader(repo, nil, 1).Load(context.Background(),
				fakeSource{name: "ok", body: seedA},
				fakeSource{name: name, body: body},
			)
			if !errors.Is(err, domain.ErrMalformed) {
				t.Fatalf("want malformed, got %v", err)
			}
			if repo.imports != 0 {
				t.Fatalf("import should not run")
			}
		})
	}
}

func TestCatalogLoader_ImportErrorIsReported(t *testing.T) {
	repo := newMemStore()
	repo.importErr = errBoom
	_, err := app.NewCatalogLoader(repo, nil, 1).Load(context.Background(), fakeSource{name: "a", body: seedA})
	if !errors.Is(err, errBoom) {
		t.Fatalf("want import error, got %v", err)
	}
}

func TestCatalogLoader_ReseedEvictsDroppedFacilities(t *testing.T) {
	ctx := context.Background()
	st, err := sqlite.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cache := &fakeCache{}
	hotels := app.NewHotelService(st, cache, time.Minute)
	loader := app.NewCatalogLoader(st, cache, 1)

	if _, err := loader.Load(ctx, fakeSource{name: "v1", body: `[{"id": 1, "name": "Grand", "facilities": ["Pool"]}]`}); err != nil {
		t.Fatalf("first load: %v", err)
	}
	f, err := hotels.GetFacility(ctx, "Pool")
	if err != nil || len(f.Hotels) != 1 {
		t.Fatalf("GetFacility before reseed: %+v %v", f, err)
	}

	if _, err := loader.Load(ctx, fakeSource{name: "v2", body: `[{"id": 1, "name": "Grand", "facilities": ["Spa"]}]`}); err != nil {
		t.Fatalf("second load: %v", err)
	}
	f, err = hotels.GetFacility(ctx, "Pool")
	if err != nil {
		t.Fatalf("GetFacility after reseed: %v", err)
	}
	if len(f.Hotels) != 0 {
		t.Fatalf("cached facility still lists hotels %v after they dropped it", f.Hotels)
	}
}

func TestCatalogLoader_WholeNumberIDs(t *testing.T) {
	repo := newMemStore()
	_, err := app.NewCatalogLoader(repo, nil, 1).Load(context.Background(),
		fakeSource{name: "a", body: `[{"id": 7.0, "name": "Seven"}, {"hotel_id": "", "name": "Blank"}]`})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if repo.hotels[7].Name != "Seven" {
		t.Fatalf("7.0 should map to id 7: %+v", repo.hotels)
	}
	if len(repo.hotels) != 2 {
		t.Fatalf("blank id should be treated as absent: %d hotels", len(repo.hotels))
	}
}
