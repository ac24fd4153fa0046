package handler

import (
	"errors"
	"net/http"

	"github.com/kzboard/kzboard/internal/domain"
)

// GetModes lists all supported game modes
func (h *Handler) GetModes(w http.ResponseWriter, r *http.Request) {
	modes, err := h.store.Modes(r.Context())
	if err != nil {
		h.serverError(w, "failed to list modes", err)
		return
	}
	h.writeJSON(w, http.StatusOK, modes)
}

// GetMap fetches a single map with tiers for the requested mode
func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	mode := params.Get("mode")
	name := params.Get("map")
	if mode == "" || name == "" {
		h.badRequest(w, "mode and map parameters are required")
		return
	}

	m, err := h.store.Map(r.Context(), mode, name)
	if errors.Is(err, domain.ErrMapNotFound) {
		http.Error(w, "map not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, "failed to get map", err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// GetMaps lists all validated maps with tiers for the requested mode
func (h *Handler) GetMaps(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		h.badRequest(w, "mode parameter is required")
		return
	}

	maps, err := h.store.Maps(r.Context(), mode)
	if err != nil {
		h.serverError(w, "failed to list maps", err)
		return
	}
	h.writeJSON(w, http.StatusOK, maps)
}
