// Package apiclient is the blocking HTTP client the console uses to talk to
// the wishlist API. Every call returns its result or a domain error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotel_wishlist/internal/adapters/observability"
	"hotel_wishlist/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
}

func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func seg(s string) string { return url.PathEscape(s) }

func (c *Client) do(ctx context.Context, method, endpoint, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("api", endpoint, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("api", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return statusError(resp)
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(b))
	var p problem
	if json.Unmarshal(b, &p) == nil && p.Detail != "" {
		detail = p.Detail
	}
	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case http.StatusConflict:
		sentinel = domain.ErrConflict
	case http.StatusBadRequest:
		sentinel = domain.ErrMalformed
	default:
		return fmt.Errorf("api status %d: %s", resp.StatusCode, detail)
	}
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("%s: %w", detail, sentinel)
}

// Login reports whether the username exists.
func (c *Client) Login(ctx context.Context, username string) (bool, error) {
	var p domain.Person
	err := c.do(ctx, http.MethodGet, "person", "/api/persons/"+seg(username), nil, &p)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Register reports whether the username was created; a taken name is not an error.
func (c *Client) Register(ctx context.Context, username string) (bool, error) {
	var p domain.Person
	err := c.do(ctx, http.MethodPost, "persons", "/api/persons", map[string]string{"username": username}, &p)
	if errors.Is(err, domain.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	err := c.do(ctx, http.MethodGet, "hotels", "/api/hotels", nil, &out)
	return out, err
}

func (c *Client) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var out domain.Hotel
	err := c.do(ctx, http.MethodGet, "hotel", "/api/hotels/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

func (c *Client) ListWishLists(ctx context.Context, username string) ([]domain.WishList, error) {
	var out []domain.WishList
	err := c.do(ctx, http.MethodGet, "wishlists", "/api/persons/"+seg(username)+"/wishlists", nil, &out)
	return out, err
}

func (c *Client) GetWishList(ctx context.Context, username, name string) (domain.WishList, error) {
	var out domain.WishList
	err := c.do(ctx, http.MethodGet, "wishlist", wishListPath(username, name), nil, &out)
	return out, err
}

func (c *Client) CreateWishList(ctx context.Context, username, name string) (domain.WishList, error) {
	var out domain.WishList
	err := c.do(ctx, http.MethodPost, "wishlists", "/api/persons/"+seg(username)+"/wishlists", map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) DeleteWishList(ctx context.Context, username, name string) error {
	return c.do(ctx, http.MethodDelete, "wishlist", wishListPath(username, name), nil, nil)
}

func (c *Client) AddHotel(ctx context.Context, username, name string, hotelID int64) (domain.WishList, error) {
	var out domain.WishList
	err := c.do(ctx, http.MethodPut, "wishlist_hotel", memberPath(username, name, hotelID), nil, &out)
	return out, err
}

func (c *Client) RemoveHotel(ctx context.Context, username, name string, hotelID int64) (domain.WishList, error) {
	var out domain.WishList
	err := c.do(ctx, http.MethodDelete, "wishlist_hotel", memberPath(username, name, hotelID), nil, &out)
	return out, err
}

func (c *Client) SharingCode(ctx context.Context, username, name string) (string, error) {
	var out struct {
		SharingCode string `json:"sharingCode"`
	}
	err := c.do(ctx, http.MethodGet, "share", wishListPath(username, name)+"/share", nil, &out)
	return out.SharingCode, err
}

func (c *Client) GetShared(ctx context.Context, code string) (domain.WishList, error) {
	var out domain.WishList
	err := c.do(ctx, http.MethodGet, "shared", "/api/shared/"+seg(code), nil, &out)
	return out, err
}

func wishListPath(username, name string) string {
	return "/api/persons/" + seg(username) + "/wishlists/" + seg(name)
}

func memberPath(username, name string, hotelID int64) string {
	return wishListPath(username, name) + "/hotels/" + strconv.FormatInt(hotelID, 10)
}
