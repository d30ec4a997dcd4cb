package domain

type Person struct {
	ID        int64      `json:"-"`
	Username  string     `json:"username"`
	WishLists []WishList `json:"wishLists"`
}

// HasWishList compares by name: two distinct wishlists can never share a name under one owner.
func (p Person) HasWishList(name string) bool {
	_, ok := p.WishList(name)
	return ok
}

func (p Person) WishList(name string) (WishList, bool) {
	for _, wl := range p.WishLists {
		if wl.Name == name {
			return wl, true
		}
	}
	return WishList{}, false
}
