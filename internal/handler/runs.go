package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/kzboard/kzboard/internal/domain"
)

// MapTop returns the top runs for a course, one per player, fastest first
func (h *Handler) MapTop(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	mapName := params.Get("map")
	mode := params.Get("mode")
	if mapName == "" || mode == "" {
		h.badRequest(w, "map and mode parameters are required")
		return
	}
	course, err := parseCourse(params)
	if err != nil {
		h.badRequest(w, "course must be an unsigned integer")
		return
	}
	kind, err := domain.ParseRunKind(params.Get("kind"))
	if err != nil {
		h.badRequest(w, "kind must be NUB or PRO")
		return
	}

	runs, err := h.store.MapTop(r.Context(), domain.MapTopQuery{
		MapName: mapName,
		Course:  course,
		Mode:    mode,
		Kind:    kind,
	})
	if err != nil {
		h.serverError(w, "failed to query map top", err)
		return
	}
	h.writeJSON(w, http.StatusOK, runs)
}

// CoursePBHistory returns a player's personal-best progression on a
// course, newest improvement first
func (h *Handler) CoursePBHistory(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	mapName := params.Get("map")
	mode := params.Get("mode")
	if mapName == "" || mode == "" {
		h.badRequest(w, "map and mode parameters are required")
		return
	}
	playerID, err := strconv.ParseUint(params.Get("player_id"), 10, 64)
	if err != nil {
		h.badRequest(w, "player_id must be an unsigned integer")
		return
	}
	course, err := parseCourse(params)
	if err != nil {
		h.badRequest(w, "course must be an unsigned integer")
		return
	}
	kind, err := domain.ParseRunKind(params.Get("kind"))
	if err != nil {
		h.badRequest(w, "kind must be NUB or PRO")
		return
	}

	runs, err := h.store.CoursePBHistory(r.Context(), domain.PBHistoryQuery{
		PlayerID: playerID,
		MapName:  mapName,
		Course:   course,
		Mode:     mode,
		Kind:     kind,
	})
	if err != nil {
		h.serverError(w, "failed to query pb history", err)
		return
	}
	h.writeJSON(w, http.StatusOK, runs)
}

func parseCourse(params url.Values) (uint32, error) {
	course, err := strconv.ParseUint(params.Get("course"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(course), nil
}
