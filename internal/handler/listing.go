package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carmarket/carmarket-go/internal/identity"
	"github.com/carmarket/carmarket-go/internal/market"
	"github.com/carmarket/carmarket-go/internal/model"
)

// ListingHandler serves the listing browse, detail and sell endpoints.
type ListingHandler struct {
	reader        *market.Reader
	coordinator   *market.Coordinator
	featuredLimit int
}

// NewListingHandler creates a new ListingHandler. featuredLimit is the default
// size of the featured strip.
func NewListingHandler(reader *market.Reader, coordinator *market.Coordinator, featuredLimit int) *ListingHandler {
	if featuredLimit <= 0 {
		featuredLimit = market.DefaultFeaturedLimit
	}
	return &ListingHandler{reader: reader, coordinator: coordinator, featuredLimit: featuredLimit}
}

// HandleList handles GET /api/v1/listings?q=&min_price=&max_price=&location=&sort= requests.
func (h *ListingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	views, err := h.reader.Search(r.Context(), q)
	if err != nil {
		writeMarketError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// HandleFeatured handles GET /api/v1/listings/featured requests.
func (h *ListingHandler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	limit := h.featuredLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	views, err := h.reader.Featured(r.Context(), limit)
	if err != nil {
		writeMarketError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// HandleLocations handles GET /api/v1/listings/locations requests.
func (h *ListingHandler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.reader.Locations(r.Context())
	if err != nil {
		writeMarketError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, locations)
}

// HandleGet handles GET /api/v1/listings/{id} requests.
func (h *ListingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.reader.Listing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMarketError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandleCreate handles POST /api/v1/listings requests.
func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var form model.ListingForm
	if !decodeJSON(w, r, maxListingBody, &form) {
		return
	}

	record, err := h.coordinator.CreateListing(r.Context(), form, actor.ID)
	if err != nil {
		writeMarketError(w, r, err)
		return
	}

	h.writeListing(w, r, http.StatusCreated, record.ID)
}

// HandleUpdate handles PUT /api/v1/listings/{id} requests.
func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var form model.ListingUpdateForm
	if !decodeJSON(w, r, maxListingBody, &form) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.coordinator.UpdateListing(r.Context(), id, form, actor.ID); err != nil {
		writeMarketError(w, r, err)
		return
	}

	h.writeListing(w, r, http.StatusOK, id)
}

// HandleDelete handles DELETE /api/v1/listings/{id} requests.
func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	if err := h.coordinator.DeleteListing(r.Context(), chi.URLParam(r, "id"), actor.ID); err != nil {
		writeMarketError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMine handles GET /api/v1/me/listings requests.
func (h *ListingHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	views, err := h.reader.OwnerListings(r.Context(), actor.ID)
	if err != nil {
		writeMarketError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// writeListing re-reads a listing after a write. The write has already
// succeeded, so a failed read still reports the id.
func (h *ListingHandler) writeListing(w http.ResponseWriter, r *http.Request, status int, id string) {
	view, err := h.reader.Listing(r.Context(), id)
	if err != nil {
		writeJSON(w, status, map[string]string{"id": id})
		return
	}
	writeJSON(w, status, view)
}

func parseQuery(r *http.Request) (market.Query, error) {
	values := r.URL.Query()

	sort, err := market.ParseSortKey(values.Get("sort"))
	if err != nil {
		return market.Query{}, err
	}
	minPrice, err := parsePriceBound(values.Get("min_price"), "min_price")
	if err != nil {
		return market.Query{}, err
	}
	maxPrice, err := parsePriceBound(values.Get("max_price"), "max_price")
	if err != nil {
		return market.Query{}, err
	}

	return market.Query{
		SearchText: values.Get("q"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Location:   values.Get("location"),
		Sort:       sort,
	}, nil
}

type queryError string

func (e queryError) Error() string { return string(e) }

func parsePriceBound(raw, name string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, queryError(name + " must be a non-negative integer")
	}
	return &v, nil
}
