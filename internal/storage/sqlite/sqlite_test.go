package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"hotel_wishlist/internal/domain"
	"hotel_wishlist/internal/storage/sqlite"
	"hotel_wishlist/internal/storage/sqlstore"
)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	st, err := sqlite.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedHotels(t *testing.T, st *sqlstore.Store) []domain.Hotel {
	t.Helper()
	hotels := []domain.Hotel{
		{ID: 1, Name: "Alpha", Stars: 3, Facilities: []string{"Wifi", "Pool"}},
		{ID: 2, Name: "Beta", Stars: 4, Facilities: []string{"Wifi"}},
		{ID: 3, Name: "Gamma", Stars: 5},
	}
	if err := st.ImportCatalog(context.Background(), domain.CollectFacilities(hotels), hotels); err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	return hotels
}

func newPerson(t *testing.T, st *sqlstore.Store, name string) domain.Person {
	t.Helper()
	p := domain.Person{Username: name}
	if err := st.CreatePerson(context.Background(), &p); err != nil {
		t.Fatalf("CreatePerson(%s): %v", name, err)
	}
	return p
}

func TestImportCatalog_IsIdempotentAndDedupesFacilities(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	hotels := seedHotels(t, st)
	if err := st.ImportCatalog(ctx, domain.CollectFacilities(hotels), hotels); err != nil {
		t.Fatalf("re-import: %v", err)
	}

	all, err := st.ListHotels(ctx)
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 hotels, got %d", len(all))
	}
	facs, err := st.ListFacilities(ctx)
	if err != nil {
		t.Fatalf("ListFacilities: %v", err)
	}
	if len(facs) != 2 || facs[0].Name != "Pool" || facs[1].Name != "Wifi" {
		t.Fatalf("unexpected facilities: %+v", facs)
	}
	if len(facs[1].Hotels) != 2 {
		t.Fatalf("Wifi should link two hotels: %+v", facs[1])
	}
	if all[2].Facilities == nil || len(all[2].Facilities) != 0 {
		t.Fatalf("hotel without facilities should have an empty list: %#v", all[2].Facilities)
	}
}

func TestHotels_CRUD(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	seedHotels(t, st)

	h := domain.Hotel{Name: "Delta", Stars: 2, Facilities: []string{"Spa", "Spa"}}
	if err := st.CreateHotel(ctx, &h); err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	if h.ID <= 3 {
		t.Fatalf("expected a fresh id, got %d", h.ID)
	}
	if err := st.CreateHotel(ctx, &domain.Hotel{ID: 1, Name: "dup"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate id: want conflict, got %v", err)
	}

	got, err := st.UpdateHotel(ctx, h.ID, func(x *domain.Hotel) error {
		x.ID = 999 // ignored
		x.Stars = 5
		x.Facilities = []string{"Pool"}
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateHotel: %v", err)
	}
	if got.ID != h.ID || got.Stars != 5 || len(got.Facilities) != 1 || got.Facilities[0] != "Pool" {
		t.Fatalf("unexpected updated hotel: %+v", got)
	}

	byFac, err := st.ListHotelsByFacility(ctx, "Pool")
	if err != nil {
		t.Fatalf("ListHotelsByFacility: %v", err)
	}
	if len(byFac) != 2 {
		t.Fatalf("want 2 pool hotels, got %+v", byFac)
	}
	if _, err := st.ListHotelsByFacility(ctx, "Sauna"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown facility: want not found, got %v", err)
	}

	if err := st.DeleteHotel(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHotel: %v", err)
	}
	if _, err := st.GetHotel(ctx, h.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted hotel: want not found, got %v", err)
	}
	if err := st.DeleteHotel(ctx, h.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want not found, got %v", err)
	}
}

func TestUpdateHotel_FnErrorRollsBack(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	seedHotels(t, st)

	boom := errors.New("boom")
	_, err := st.UpdateHotel(ctx, 1, func(h *domain.Hotel) error {
		h.Name = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want fn error, got %v", err)
	}
	h, _ := st.GetHotel(ctx, 1)
	if h.Name != "Alpha" {
		t.Fatalf("update should have been rolled back: %+v", h)
	}
}

func TestPersons_UniqueUsernameAndRename(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	seedHotels(t, st)

	alice := newPerson(t, st, "alice")
	newPerson(t, st, "bob")
	if err := st.CreatePerson(ctx, &domain.Person{Username: "alice"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate person: want conflict, got %v", err)
	}

	wl := domain.NewWishList(alice, "Trip")
	if err := st.CreateWishList(ctx, &wl); err != nil {
		t.Fatalf("CreateWishList: %v", err)
	}

	if _, err := st.UpdatePerson(ctx, "alice", func(p *domain.Person) error {
		p.Username = "bob"
		return nil
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("rename onto taken name: want conflict, got %v", err)
	}

	p, err := st.UpdatePerson(ctx, "alice", func(p *domain.Person) error {
		p.Username = "alicia"
		return nil
	})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if len(p.WishLists) != 1 || p.WishLists[0].Owner != "alicia" {
		t.Fatalf("wishlists should follow the rename: %+v", p)
	}
	if _, err := st.GetPerson(ctx, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("old name should be free, got %v", err)
	}
	byCode, err := st.GetWishListByCode(ctx, wl.SharingCode)
	if err != nil || byCode.Owner != "alicia" {
		t.Fatalf("shared view should show the new owner: %+v %v", byCode, err)
	}
}

func TestWishLists_UniquenessAndMembership(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	hotels := seedHotels(t, st)
	alice := newPerson(t, st, "alice")
	bob := newPerson(t, st, "bob")

	trip := domain.NewWishList(alice, "Trip")
	if err := st.CreateWishList(ctx, &trip); err != nil {
		t.Fatalf("CreateWishList: %v", err)
	}
	again := domain.NewWishList(alice, "Trip")
	if err := st.CreateWishList(ctx, &again); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("same owner same name: want conflict, got %v", err)
	}
	bobs := domain.NewWishList(bob, "Trip")
	if err := st.CreateWishList(ctx, &bobs); err != nil {
		t.Fatalf("other owner may reuse the name: %v", err)
	}
	clash := domain.NewWishList(bob, "Other")
	clash.SharingCode = trip.SharingCode
	if err := st.CreateWishList(ctx, &clash); !errors.Is(err, domain.ErrSharingCodeTaken) {
		t.Fatalf("code clash: want ErrSharingCodeTaken, got %v", err)
	}

	got, err := st.UpdateWishList(ctx, alice.ID, "Trip", func(w *domain.WishList) error {
		w.AddHotel(hotels[1])
		w.AddHotel(hotels[0])
		w.AddHotel(hotels[0])
		w.SharingCode = "tampered"
		return nil
	})
	if err != nil {
		t.Fatalf("add hotels: %v", err)
	}
	if ids := got.HotelIDs(); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected members %v", ids)
	}
	if got.SharingCode != trip.SharingCode {
		t.Fatalf("sharing code must not change")
	}

	if _, err := st.UpdateWishList(ctx, alice.ID, "Trip", func(w *domain.WishList) error {
		w.AddHotel(domain.Hotel{ID: 404})
		return nil
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown hotel: want not found, got %v", err)
	}

	shared, err := st.GetWishListByCode(ctx, trip.SharingCode)
	if err != nil {
		t.Fatalf("GetWishListByCode: %v", err)
	}
	if len(shared.Hotels) != 2 || len(shared.Hotels[0].Facilities) != 2 {
		t.Fatalf("shared view should carry hotels with facilities: %+v", shared)
	}

	if err := st.DeleteHotel(ctx, 1); err != nil {
		t.Fatalf("DeleteHotel: %v", err)
	}
	after, _ := st.GetWishList(ctx, alice.ID, "Trip")
	if ids := after.HotelIDs(); len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("deleted hotel should leave the wishlist: %v", ids)
	}

	if _, err := st.UpdateWishList(ctx, alice.ID, "Trip", func(w *domain.WishList) error {
		w.Name = "Summer"
		return nil
	}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := st.GetWishList(ctx, alice.ID, "Trip"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("old name should be gone, got %v", err)
	}

	if err := st.DeletePerson(ctx, "alice"); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	if _, err := st.GetWishListByCode(ctx, trip.SharingCode); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("wishlists go with their owner, got %v", err)
	}
	if _, err := st.GetWishList(ctx, bob.ID, "Trip"); err != nil {
		t.Fatalf("bob's wishlist must survive: %v", err)
	}
}

func TestDeleteWishList_NotFound(t *testing.T) {
	st := newStore(t)
	alice := newPerson(t, st, "alice")
	if err := st.DeleteWishList(context.Background(), alice.ID, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestKeysAreCaseSensitive(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	hs := []domain.Hotel{{ID: 1, Name: "Case", Facilities: []string{"Wifi", "WiFi"}}}
	if err := st.ImportCatalog(ctx, domain.CollectFacilities(hs), hs); err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	if h, err := st.GetHotel(ctx, 1); err != nil || len(h.Facilities) != 2 {
		t.Fatalf("GetHotel: %+v %v", h, err)
	}

	p := newPerson(t, st, "alice")
	newPerson(t, st, "Alice")

	wl := domain.NewWishList(p, "Trip")
	if err := st.CreateWishList(ctx, &wl); err != nil {
		t.Fatalf("CreateWishList: %v", err)
	}
	if _, err := st.GetWishList(ctx, p.ID, "trip"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found for other case, got %v", err)
	}
}
