package handler

import (
	"net/http"
	"strings"
)

// Boolean-mode full-text queries treat these characters as operators. They
// are stripped so users can neither steer the query plan nor get surprising
// results. Map search also splits on underscores, which map names use as
// word separators.
const searchDelimiters = `+-@><()~*"% `

// sanitizeSearchQuery splits the raw query on the operator characters,
// drops tokens shorter than the full-text engine's minimum token length,
// and turns the survivors into prefix matches.
func sanitizeSearchQuery(raw string, splitUnderscore bool) string {
	delimiters := searchDelimiters
	if splitUnderscore {
		delimiters += "_"
	}
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})

	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) >= 2 {
			words = append(words, token+"*")
		}
	}
	return strings.Join(words, " ")
}

// SearchPlayers free-text searches player names
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := sanitizeSearchQuery(r.URL.Query().Get("query"), false)
	if query == "" {
		h.badRequest(w, "insufficient search query")
		return
	}

	players, err := h.store.SearchPlayers(r.Context(), query)
	if err != nil {
		h.serverError(w, "failed to search players", err)
		return
	}
	h.writeJSON(w, http.StatusOK, players)
}

// SearchMaps free-text searches map tags, returning the usual map shape
func (h *Handler) SearchMaps(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	mode := params.Get("mode")
	if mode == "" {
		h.badRequest(w, "mode parameter is required")
		return
	}
	query := sanitizeSearchQuery(params.Get("query"), true)
	if query == "" {
		h.badRequest(w, "insufficient search query")
		return
	}

	maps, err := h.store.SearchMaps(r.Context(), query, mode)
	if err != nil {
		h.serverError(w, "failed to search maps", err)
		return
	}
	h.writeJSON(w, http.StatusOK, maps)
}
