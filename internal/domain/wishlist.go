package domain

import (
	"sort"

	"github.com/google/uuid"
)

type WishList struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	OwnerID     int64   `json:"-"`
	Owner       string  `json:"owner"`
	Hotels      []Hotel `json:"hotels"`
	SharingCode string  `json:"sharingCode"`
}

// NewWishList returns an empty wishlist with a freshly generated sharing code.
func NewWishList(owner Person, name string) WishList {
	return WishList{
		Name:        name,
		OwnerID:     owner.ID,
		Owner:       owner.Username,
		Hotels:      []Hotel{},
		SharingCode: NewSharingCode(),
	}
}

// NewSharingCode draws a random (v4) UUID, 122 bits of entropy.
func NewSharingCode() string { return uuid.NewString() }

func (w *WishList) HasHotel(id int64) bool {
	for _, h := range w.Hotels {
		if h.ID == id {
			return true
		}
	}
	return false
}

// AddHotel reports whether the set changed.
func (w *WishList) AddHotel(h Hotel) bool {
	if w.HasHotel(h.ID) {
		return false
	}
	w.Hotels = append(w.Hotels, h)
	sort.Slice(w.Hotels, func(i, j int) bool { return w.Hotels[i].ID < w.Hotels[j].ID })
	return true
}

// RemoveHotel reports whether the set changed; removing a non-member is a no-op.
func (w *WishList) RemoveHotel(id int64) bool {
	for i, h := range w.Hotels {
		if h.ID == id {
			w.Hotels = append(w.Hotels[:i], w.Hotels[i+1:]...)
			return true
		}
	}
	return false
}

func (w *WishList) HotelIDs() []int64 {
	ids := make([]int64, 0, len(w.Hotels))
	for _, h := range w.Hotels {
		ids = append(ids, h.ID)
	}
	return ids
}
