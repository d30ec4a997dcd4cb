package domain

import (
	"sort"
	"strings"
)

type Hotel struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Stars      int      `json:"stars"`
	PageURL    string   `json:"pageUrl"`
	Photo      string   `json:"photo"`
	Facilities []string `json:"facilities"`
}

// HotelFacility is identified by its name; Hotels is derived from the join table.
type HotelFacility struct {
	Name   string  `json:"name"`
	Hotels []int64 `json:"hotels,omitempty"`
}

// HotelPatch carries the mutable hotel fields; nil means "leave as is".
type HotelPatch struct {
	Name       *string
	Stars      *int
	PageURL    *string
	Photo      *string
	Facilities *[]string
}

func (h *Hotel) Apply(p HotelPatch) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Stars != nil {
		h.Stars = *p.Stars
	}
	if p.PageURL != nil {
		h.PageURL = *p.PageURL
	}
	if p.Photo != nil {
		h.Photo = *p.Photo
	}
	if p.Facilities != nil {
		h.Facilities = NormalizeFacilities(*p.Facilities)
	}
}

// NormalizeFacilities trims, drops blanks and dedupes by name, keeping a stable sorted order.
func NormalizeFacilities(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CollectFacilities returns the distinct facility names referenced by hotels.
func CollectFacilities(hotels []Hotel) []HotelFacility {
	var names []string
	for _, h := range hotels {
		names = append(names, h.Facilities...)
	}
	norm := NormalizeFacilities(names)
	out := make([]HotelFacility, 0, len(norm))
	for _, n := range norm {
		out = append(out, HotelFacility{Name: n})
	}
	return out
}
