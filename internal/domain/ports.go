package domain

import "context"

// Mutating methods that take a func run it inside one transaction holding the
// aggregate's row lock; returning an error from fn rolls everything back.

type HotelRepository interface {
	CreateHotel(ctx context.Context, h *Hotel) error
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
	UpdateHotel(ctx context.Context, id int64, fn func(*Hotel) error) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error

	GetFacility(ctx context.Context, name string) (HotelFacility, error)
	ListFacilities(ctx context.Context) ([]HotelFacility, error)
	ListHotelsByFacility(ctx context.Context, name string) ([]Hotel, error)

	// ImportCatalog writes facilities and hotels in a single transaction.
	ImportCatalog(ctx context.Context, facilities []HotelFacility, hotels []Hotel) error
}

type PersonRepository interface {
	CreatePerson(ctx context.Context, p *Person) error
	GetPerson(ctx context.Context, username string) (Person, error)
	UpdatePerson(ctx context.Context, username string, fn func(*Person) error) (Person, error)
	// DeletePerson also removes every wishlist the person owns.
	DeletePerson(ctx context.Context, username string) error
}

type WishListRepository interface {
	CreateWishList(ctx context.Context, wl *WishList) error
	GetWishList(ctx context.Context, ownerID int64, name string) (WishList, error)
	GetWishListByCode(ctx context.Context, code string) (WishList, error)
	ListWishLists(ctx context.Context, ownerID int64) ([]WishList, error)
	UpdateWishList(ctx context.Context, ownerID int64, name string, fn func(*WishList) error) (WishList, error)
	DeleteWishList(ctx context.Context, ownerID int64, name string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SeedSource yields one raw seed document.
type SeedSource interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}
