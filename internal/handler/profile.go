package handler

import (
	"net/http"

	"github.com/carmarket/carmarket-go/internal/identity"
	"github.com/carmarket/carmarket-go/internal/market"
	"github.com/carmarket/carmarket-go/internal/model"
)

// ProfileHandler serves the signed-in seller's profile.
type ProfileHandler struct {
	reader      *market.Reader
	coordinator *market.Coordinator
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(reader *market.Reader, coordinator *market.Coordinator) *ProfileHandler {
	return &ProfileHandler{reader: reader, coordinator: coordinator}
}

// HandleGet handles GET /api/v1/me/profile requests.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.reader.Profile(r.Context())
	if err != nil {
		writeMarketError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleUpdate handles PUT /api/v1/me/profile requests.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var patch model.ProfilePatch
	if !decodeJSON(w, r, maxProfileBody, &patch) {
		return
	}

	// Provision first so a brand-new seller can edit right away.
	if _, err := h.reader.Profile(r.Context()); err != nil {
		writeMarketError(w, r, err)
		return
	}
	if err := h.coordinator.UpdateProfile(r.Context(), actor.ID, patch); err != nil {
		writeMarketError(w, r, err)
		return
	}

	profile, err := h.reader.Profile(r.Context())
	if err != nil {
		writeMarketError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
