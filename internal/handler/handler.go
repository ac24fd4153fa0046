package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/kzboard/kzboard/internal/auth"
	"github.com/kzboard/kzboard/internal/domain"
)

// Store is the read-only data access surface the handlers depend on
type Store interface {
	Modes(ctx context.Context) ([]domain.Mode, error)
	Map(ctx context.Context, mode, name string) (*domain.Map, error)
	Maps(ctx context.Context, mode string) ([]domain.Map, error)
	MapTop(ctx context.Context, q domain.MapTopQuery) ([]domain.MapRun, error)
	CoursePBHistory(ctx context.Context, q domain.PBHistoryQuery) ([]domain.PBRun, error)
	SearchPlayers(ctx context.Context, query string) ([]domain.Player, error)
	SearchMaps(ctx context.Context, query, mode string) ([]domain.Map, error)
	ServerByToken(ctx context.Context, token string) (*domain.Server, error)
}

// Handler provides HTTP handlers for the leaderboard API
type Handler struct {
	store  Store
	tokens *auth.TokenManager
	steam  *auth.SteamOpenID
	logger *slog.Logger
}

// New creates a new HTTP handler
func New(store Store, tokens *auth.TokenManager, steam *auth.SteamOpenID, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		tokens: tokens,
		steam:  steam,
		logger: logger,
	}
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)

	// Identity
	r.Get("/steam_auth", h.SteamAuth)
	r.Get("/steam_auth_verify", h.SteamAuthVerify)
	r.With(auth.RequireUser(h.tokens)).Get("/protected", h.Protected)
	r.With(auth.RequireServer(h.store, h.logger)).Get("/server_info", h.ServerInfo)

	// Modes and maps
	r.Get("/get_modes", h.GetModes)
	r.Get("/get_map", h.GetMap)
	r.Get("/get_maps", h.GetMaps)

	// Runs
	r.Get("/maptop", h.MapTop)
	r.Get("/get_course_pb_history", h.CoursePBHistory)

	// Search
	r.Get("/search_players", h.SearchPlayers)
	r.Get("/search_maps", h.SearchMaps)

	return r
}

// corsMiddleware adds permissive CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-User-Token, X-Server-Token, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// badRequest writes a 400 with a short plain-text message
func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	http.Error(w, msg, http.StatusBadRequest)
}

// serverError logs the underlying error and writes a constant 500 body
func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
