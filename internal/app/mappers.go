package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_wishlist/internal/domain"
)

/********** alias registry (single source of truth) **********/

var hotelAliases = map[string][]string{
	"id":         {"id", "hotel_id", "hotelId"},
	"name":       {"name", "hotel_name", "hotelName"},
	"stars":      {"stars", "rating", "rating.stars"},
	"page_url":   {"page_url", "pageUrl", "url", "website"},
	"photo":      {"photo", "image", "main_image_th"},
	"photos":     {"photos", "images"},
	"facilities": {"facilities", "amenities"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmpty: first non-empty string among the paths registered for key.
func firstNonEmpty(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/json.Number/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			if v == math.Trunc(v) {
				x := int64(v)
				return &x
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return &n
			}
			if f, err := v.Float64(); err == nil && f == math.Trunc(f) {
				n := int64(f)
				return &n
			}
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {name/url/src}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if s := strings.TrimSpace(t); s != "" {
						out = append(out, s)
					}
				case map[string]any:
					for _, f := range []string{"name", "url", "src"} {
						if s, ok := t[f].(string); ok && strings.TrimSpace(s) != "" {
							out = append(out, strings.TrimSpace(s))
							break
						}
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

/********** seed document **********/

// parseSeedDocument accepts {"hotels":[...]} or a bare array of hotel objects.
func parseSeedDocument(raw []byte) ([]domain.Hotel, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w: %w", domain.ErrMalformed, err)
	}

	var items []any
	switch d := doc.(type) {
	case []any:
		items = d
	case map[string]any:
		hs, ok := d["hotels"].([]any)
		if !ok {
			return nil, fmt.Errorf("seed object has no hotels array: %w", domain.ErrMalformed)
		}
		items = hs
	default:
		return nil, fmt.Errorf("seed must be an array or an object: %w", domain.ErrMalformed)
	}

	out := make([]domain.Hotel, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("seed hotel #%d is not an object: %w", i, domain.ErrMalformed)
		}
		h, err := mapSeedHotel(m)
		if err != nil {
			return nil, fmt.Errorf("seed hotel #%d: %w", i, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// seedHotelID returns 0 when no id alias is present. A present id must be a
// non-negative integer.
func seedHotelID(m map[string]any) (int64, error) {
	for _, p := range hotelAliases["id"] {
		raw := lookupAny(m, p)
		if raw == nil {
			continue
		}
		if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		v := firstInt64Flexible(m, p)
		if v == nil || *v < 0 {
			return 0, fmt.Errorf("id %v must be a non-negative integer: %w", raw, domain.ErrMalformed)
		}
		return *v, nil
	}
	return 0, nil
}

func mapSeedHotel(m map[string]any) (domain.Hotel, error) {
	var h domain.Hotel
	h.Name = firstNonEmpty(m, "name")
	if h.Name == "" {
		return domain.Hotel{}, fmt.Errorf("missing name: %w", domain.ErrMalformed)
	}
	id, err := seedHotelID(m)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("hotel %q: %w", h.Name, err)
	}
	h.ID = id
	if f := getFloatFlexible(m, hotelAliases["stars"]...); f != nil {
		h.Stars = int(*f)
	}
	if h.Stars < 0 || h.Stars > 5 {
		log.Warn().Str("hotel", h.Name).Int("stars", h.Stars).Msg("seed stars out of range, clamped")
		h.Stars = min(max(h.Stars, 0), 5)
	}
	h.PageURL = firstNonEmpty(m, "page_url")
	h.Photo = firstNonEmpty(m, "photo")
	if h.Photo == "" {
		if ps := firstSliceStrings(m, hotelAliases["photos"]...); len(ps) > 0 {
			h.Photo = ps[0]
		}
	}
	h.Facilities = domain.NormalizeFacilities(firstSliceStrings(m, hotelAliases["facilities"]...))
	return h, nil
}
