package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"hotel_wishlist/internal/domain"
)

// ---- fakes ----

// memStore keeps every aggregate in maps behind one mutex; update callbacks run
// under the lock, which mirrors the row lock of the SQL store.
type memStore struct {
	mu        sync.Mutex
	hotels    map[int64]domain.Hotel
	persons   map[string]domain.Person
	wishLists map[int64]domain.WishList
	nextID    int64
	hotelGets int
	importErr error
	imports   int
}

func newMemStore() *memStore {
	return &memStore{
		hotels:    map[int64]domain.Hotel{},
		persons:   map[string]domain.Person{},
		wishLists: map[int64]domain.WishList{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.id() + 1000
	}
	if _, ok := m.hotels[h.ID]; ok {
		return fmt.Errorf("hotel %d: %w", h.ID, domain.ErrConflict)
	}
	h.Facilities = domain.NormalizeFacilities(h.Facilities)
	m.hotels[h.ID] = *h
	return nil
}

func (m *memStore) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotelGets++
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	return h, nil
}

func (m *memStore) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Hotel{}
	for _, h := range m.hotels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateHotel(ctx context.Context, id int64, fn func(*domain.Hotel) error) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	if err := fn(&h); err != nil {
		return domain.Hotel{}, err
	}
	h.ID = id
	m.hotels[id] = h
	return h, nil
}

func (m *memStore) DeleteHotel(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotels[id]; !ok {
		return fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	delete(m.hotels, id)
	for k, wl := range m.wishLists {
		wl.RemoveHotel(id)
		m.wishLists[k] = wl
	}
	return nil
}

func (m *memStore) GetFacility(ctx context.Context, name string) (domain.HotelFacility, error) {
	fs, _ := m.ListFacilities(ctx)
	for _, f := range fs {
		if f.Name == name {
			return f, nil
		}
	}
	return domain.HotelFacility{}, fmt.Errorf("facility %q: %w", name, domain.ErrNotFound)
}

func (m *memStore) ListFacilities(ctx context.Context) ([]domain.HotelFacility, error) {
	hs, _ := m.ListHotels(ctx)
	fs := domain.CollectFacilities(hs)
	for i := range fs {
		fs[i].Hotels = []int64{}
		for _, h := range hs {
			for _, n := range h.Facilities {
				if n == fs[i].Name {
					fs[i].Hotels = append(fs[i].Hotels, h.ID)
				}
			}
		}
	}
	return fs, nil
}

func (m *memStore) ListHotelsByFacility(ctx context.Context, name string) ([]domain.Hotel, error) {
	f, err := m.GetFacility(ctx, name)
	if err != nil {
		return nil, err
	}
	out := []domain.Hotel{}
	for _, id := range f.Hotels {
		h, _ := m.GetHotel(ctx, id)
		out = append(out, h)
	}
	return out, nil
}

func (m *memStore) ImportCatalog(ctx context.Context, facilities []domain.HotelFacility, hotels []domain.Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports++
	if m.importErr != nil {
		return m.importErr
	}
	for i := range hotels {
		if hotels[i].ID == 0 {
			hotels[i].ID = m.id() + 1000
		}
		m.hotels[hotels[i].ID] = hotels[i]
	}
	return nil
}

func (m *memStore) CreatePerson(ctx context.Context, p *domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.persons[p.Username]; ok {
		return fmt.Errorf("person %q: %w", p.Username, domain.ErrConflict)
	}
	p.ID = m.id()
	p.WishLists = []domain.WishList{}
	m.persons[p.Username] = domain.Person{ID: p.ID, Username: p.Username}
	return nil
}

func (m *memStore) ownedBy(id int64) []domain.WishList {
	out := []domain.WishList{}
	for _, wl := range m.wishLists {
		if wl.OwnerID == id {
			out = append(out, copyWishList(wl))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) GetPerson(ctx context.Context, username string) (domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.persons[username]
	if !ok {
		return domain.Person{}, fmt.Errorf("person %q: %w", username, domain.ErrNotFound)
	}
	p.WishLists = m.ownedBy(p.ID)
	return p, nil
}

func (m *memStore) UpdatePerson(ctx context.Context, username string, fn func(*domain.Person) error) (domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.persons[username]
	if !ok {
		return domain.Person{}, fmt.Errorf("person %q: %w", username, domain.ErrNotFound)
	}
	p.WishLists = m.ownedBy(p.ID)
	if err := fn(&p); err != nil {
		return domain.Person{}, err
	}
	if p.Username != username {
		if _, taken := m.persons[p.Username]; taken {
			return domain.Person{}, fmt.Errorf("person %q: %w", p.Username, domain.ErrConflict)
		}
		delete(m.persons, username)
		for k, wl := range m.wishLists {
			if wl.OwnerID == p.ID {
				wl.Owner = p.Username
				m.wishLists[k] = wl
			}
		}
	}
	m.persons[p.Username] = domain.Person{ID: p.ID, Username: p.Username}
	p.WishLists = m.ownedBy(p.ID)
	return p, nil
}

func (m *memStore) DeletePerson(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.persons[username]
	if !ok {
		return fmt.Errorf("person %q: %w", username, domain.ErrNotFound)
	}
	for k, wl := range m.wishLists {
		if wl.OwnerID == p.ID {
			delete(m.wishLists, k)
		}
	}
	delete(m.persons, username)
	return nil
}

func (m *memStore) CreateWishList(ctx context.Context, wl *domain.WishList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.wishLists {
		if o.OwnerID == wl.OwnerID && o.Name == wl.Name {
			return fmt.Errorf("wishlist %q: %w", wl.Name, domain.ErrConflict)
		}
		if o.SharingCode == wl.SharingCode {
			return domain.ErrSharingCodeTaken
		}
	}
	wl.ID = m.id()
	m.wishLists[wl.ID] = copyWishList(*wl)
	return nil
}

func (m *memStore) find(ownerID int64, name string) (domain.WishList, bool) {
	for _, wl := range m.wishLists {
		if wl.OwnerID == ownerID && wl.Name == name {
			return copyWishList(wl), true
		}
	}
	return domain.WishList{}, false
}

func (m *memStore) GetWishList(ctx context.Context, ownerID int64, name string) (domain.WishList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wl, ok := m.find(ownerID, name)
	if !ok {
		return domain.WishList{}, fmt.Errorf("wishlist %q: %w", name, domain.ErrNotFound)
	}
	return wl, nil
}

func (m *memStore) GetWishListByCode(ctx context.Context, code string) (domain.WishList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, wl := range m.wishLists {
		if wl.SharingCode == code {
			return copyWishList(wl), nil
		}
	}
	return domain.WishList{}, fmt.Errorf("sharing code: %w", domain.ErrNotFound)
}

func (m *memStore) ListWishLists(ctx context.Context, ownerID int64) ([]domain.WishList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ownedBy(ownerID), nil
}

func (m *memStore) UpdateWishList(ctx context.Context, ownerID int64, name string, fn func(*domain.WishList) error) (domain.WishList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wl, ok := m.find(ownerID, name)
	if !ok {
		return domain.WishList{}, fmt.Errorf("wishlist %q: %w", name, domain.ErrNotFound)
	}
	id, code := wl.ID, wl.SharingCode
	if err := fn(&wl); err != nil {
		return domain.WishList{}, err
	}
	wl.ID, wl.SharingCode = id, code
	if wl.Name != name {
		if _, taken := m.find(ownerID, wl.Name); taken {
			return domain.WishList{}, fmt.Errorf("wishlist %q: %w", wl.Name, domain.ErrConflict)
		}
	}
	for _, hid := range wl.HotelIDs() {
		if _, ok := m.hotels[hid]; !ok {
			return domain.WishList{}, fmt.Errorf("hotel %d: %w", hid, domain.ErrNotFound)
		}
	}
	m.wishLists[id] = copyWishList(wl)
	return wl, nil
}

func (m *memStore) DeleteWishList(ctx context.Context, ownerID int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	wl, ok := m.find(ownerID, name)
	if !ok {
		return fmt.Errorf("wishlist %q: %w", name, domain.ErrNotFound)
	}
	delete(m.wishLists, wl.ID)
	return nil
}

func copyWishList(wl domain.WishList) domain.WishList {
	wl.Hotels = append([]domain.Hotel{}, wl.Hotels...)
	return wl
}

// fakeCache round-trips values through JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// fakeSource serves a fixed document or error.
type fakeSource struct {
	name string
	body string
	err  error
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Read(ctx context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

var errBoom = errors.New("boom")
