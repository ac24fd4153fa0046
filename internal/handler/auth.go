package handler

import (
	"net/http"

	"github.com/kzboard/kzboard/internal/auth"
)

// AuthUserResponse is the body returned after a successful Steam login
type AuthUserResponse struct {
	PlayerID uint64 `json:"player_id"`
	Token    string `json:"token"`
}

// SteamAuth redirects the user agent to the Steam OpenID provider
func (h *Handler) SteamAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", h.steam.RedirectURL())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusPermanentRedirect)
}

// SteamAuthVerify consumes the OpenID callback and issues a session token
func (h *Handler) SteamAuthVerify(w http.ResponseWriter, r *http.Request) {
	steamID, err := h.steam.Verify(r.Context(), r.URL.Query())
	if err != nil {
		http.Error(w, "Verification failed", http.StatusUnauthorized)
		return
	}

	userID, err := auth.UserIDFromSteamID64(steamID)
	if err != nil {
		h.serverError(w, "openid provider returned an invalid steamid", err)
		return
	}

	// Permissions are not assigned at login; loading them from the
	// database would slot in here.
	token, err := h.tokens.Sign(userID, nil)
	if err != nil {
		h.serverError(w, "failed to encode session token", err)
		return
	}

	h.writeJSON(w, http.StatusOK, AuthUserResponse{
		PlayerID: userID,
		Token:    token,
	})
}

// Protected is a guarded example route requiring the ViewBans permission
func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.serverError(w, "user principal missing from context", nil)
		return
	}
	if !user.HasPermission(auth.PermissionViewBans) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	h.writeJSON(w, http.StatusOK, user.Permissions)
}

// ServerInfo echoes the authenticated game server's identity
func (h *Handler) ServerInfo(w http.ResponseWriter, r *http.Request) {
	server, ok := auth.ServerFromContext(r.Context())
	if !ok {
		h.serverError(w, "server principal missing from context", nil)
		return
	}
	h.writeJSON(w, http.StatusOK, server)
}
