package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"hotel_wishlist/internal/app"
	"hotel_wishlist/internal/domain"
)

// request bodies are tiny JSON objects
const maxBodyBytes = 1 << 20

type Handlers struct {
	Hotels    *app.HotelService
	Persons   *app.PersonService
	WishLists *app.WishListService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", h.listHotels)
			r.Post("/", h.createHotel)
			r.Get("/{id}", h.getHotel)
			r.Put("/{id}", h.updateHotel)
			r.Delete("/{id}", h.deleteHotel)
			r.Get("/{id}/facilities", h.hotelFacilities)
		})
		r.Route("/facilities", func(r chi.Router) {
			r.Get("/", h.listFacilities)
			r.Get("/{name}", h.getFacility)
			r.Get("/{name}/hotels", h.facilityHotels)
		})
		r.Route("/persons", func(r chi.Router) {
			r.Post("/", h.createPerson)
			r.Get("/{username}", h.getPerson)
			r.Put("/{username}", h.renamePerson)
			r.Delete("/{username}", h.deletePerson)

			r.Get("/{username}/wishlists", h.listWishLists)
			r.Post("/{username}/wishlists", h.createWishList)
			r.Get("/{username}/wishlists/{name}", h.getWishList)
			r.Put("/{username}/wishlists/{name}", h.renameWishList)
			r.Delete("/{username}/wishlists/{name}", h.deleteWishList)
			r.Put("/{username}/wishlists/{name}/hotels/{hotelId}", h.addHotel)
			r.Delete("/{username}/wishlists/{name}/hotels/{hotelId}", h.removeHotel)
			r.Get("/{username}/wishlists/{name}/share", h.sharingCode)
		})
		r.Get("/shared/{code}", h.getShared)
	})
}

/********** response helpers **********/

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrMalformed):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable answers a GET with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

/********** request helpers **********/

// pathParam returns the decoded value of a route parameter. chi matches on
// RawPath when the request carried escaped characters.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func int64Param(r *http.Request, key string) (int64, error) {
	raw := pathParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q must be a positive number: %w", key, raw, domain.ErrMalformed)
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %v: %w", err, domain.ErrMalformed)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request: %v: %w", err, domain.ErrMalformed)
	}
	return nil
}

/********** hotels **********/

type createHotelRequest struct {
	ID         int64    `json:"id" validate:"gte=0"`
	Name       string   `json:"name" validate:"required,max=255"`
	Stars      int      `json:"stars" validate:"gte=0,lte=5"`
	PageURL    string   `json:"pageUrl" validate:"omitempty,url,max=1024"`
	Photo      string   `json:"photo" validate:"max=1024"`
	Facilities []string `json:"facilities" validate:"dive,required,max=191"`
}

type patchHotelRequest struct {
	Name       *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Stars      *int      `json:"stars" validate:"omitempty,gte=0,lte=5"`
	PageURL    *string   `json:"pageUrl" validate:"omitempty,max=1024"`
	Photo      *string   `json:"photo" validate:"omitempty,max=1024"`
	Facilities *[]string `json:"facilities" validate:"omitempty,dive,required,max=191"`
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.ListHotels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.CreateHotel(r.Context(), domain.Hotel{
		ID:         req.ID,
		Name:       req.Name,
		Stars:      req.Stars,
		PageURL:    req.PageURL,
		Photo:      req.Photo,
		Facilities: req.Facilities,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/hotels/%d", out.ID))
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req patchHotelRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	// "" clears the page URL; anything else must pass the same rule as create
	if req.PageURL != nil && *req.PageURL != "" {
		if err := validate.Var(*req.PageURL, "url"); err != nil {
			writeError(w, r, fmt.Errorf("invalid request: pageUrl: %v: %w", err, domain.ErrMalformed))
			return
		}
	}
	out, err := h.Hotels.UpdateHotel(r.Context(), id, domain.HotelPatch{
		Name:       req.Name,
		Stars:      req.Stars,
		PageURL:    req.PageURL,
		Photo:      req.Photo,
		Facilities: req.Facilities,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Hotels.DeleteHotel(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) hotelFacilities(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.HotelFacilities(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

/********** facilities **********/

func (h *Handlers) listFacilities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.ListFacilities(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getFacility(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.GetFacility(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) facilityHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.ListHotelsByFacility(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

/********** persons **********/

type personRequest struct {
	Username string `json:"username" validate:"required,max=191"`
}

func (h *Handlers) createPerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Persons.CreatePerson(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/persons/"+url.PathEscape(out.Username))
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) getPerson(w http.ResponseWriter, r *http.Request) {
	out, err := h.Persons.GetPerson(r.Context(), pathParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) renamePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Persons.RenamePerson(r.Context(), pathParam(r, "username"), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.Persons.DeletePerson(r.Context(), pathParam(r, "username")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** wishlists **********/

type wishListRequest struct {
	Name string `json:"name" validate:"required,max=191"`
}

type sharingCodeResponse struct {
	SharingCode string `json:"sharingCode"`
}

func (h *Handlers) listWishLists(w http.ResponseWriter, r *http.Request) {
	out, err := h.Persons.ListWishLists(r.Context(), pathParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) createWishList(w http.ResponseWriter, r *http.Request) {
	var req wishListRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	owner := pathParam(r, "username")
	out, err := h.WishLists.CreateWishList(r.Context(), owner, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/persons/"+url.PathEscape(owner)+"/wishlists/"+url.PathEscape(out.Name))
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) getWishList(w http.ResponseWriter, r *http.Request) {
	out, err := h.WishLists.GetWishList(r.Context(), pathParam(r, "username"), pathParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) renameWishList(w http.ResponseWriter, r *http.Request) {
	var req wishListRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.WishLists.RenameWishList(r.Context(), pathParam(r, "username"), pathParam(r, "name"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteWishList(w http.ResponseWriter, r *http.Request) {
	if err := h.WishLists.DeleteWishList(r.Context(), pathParam(r, "username"), pathParam(r, "name")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) addHotel(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "hotelId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.WishLists.AddHotel(r.Context(), pathParam(r, "username"), pathParam(r, "name"), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) removeHotel(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "hotelId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.WishLists.RemoveHotel(r.Context(), pathParam(r, "username"), pathParam(r, "name"), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) sharingCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.WishLists.SharingCode(r.Context(), pathParam(r, "username"), pathParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, sharingCodeResponse{SharingCode: code})
}

func (h *Handlers) getShared(w http.ResponseWriter, r *http.Request) {
	out, err := h.WishLists.GetShared(r.Context(), pathParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}
