package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/justestif/go-soundmood/internal/auth"
	"github.com/justestif/go-soundmood/internal/playlist"
	"github.com/justestif/go-soundmood/internal/soundcloud"
)

type contextKey string

const tokenContextKey contextKey = "access_token"

// Authenticator is the auth surface the handlers need. Satisfied by
// *auth.Authenticator.
type Authenticator interface {
	AuthURL() (authURL, state string, err error)
	Exchange(ctx context.Context, code, state string) (*auth.TokenResult, error)
}

// APIClient is the pass-through surface for /api/soundcloud/me and /search.
type APIClient interface {
	Me(ctx context.Context, token string) (*soundcloud.User, error)
	SearchTracks(ctx context.Context, token, q string, opts soundcloud.SearchOptions) ([]soundcloud.Track, error)
}

// PlaylistGenerator runs the mood playlist pipeline.
type PlaylistGenerator interface {
	Generate(ctx context.Context, token, mood string, analysis json.RawMessage) (*playlist.Result, error)
}

// Handlers contains the HTTP handlers for the relay API.
type Handlers struct {
	auth      Authenticator
	client    APIClient
	playlists PlaylistGenerator
	logger    *log.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(a Authenticator, client APIClient, playlists PlaylistGenerator, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{auth: a, client: client, playlists: playlists, logger: logger}
}

// Health reports liveness (GET /health).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// AuthURL starts the authorization flow (GET /auth/soundcloud/url).
func (h *Handlers) AuthURL(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.auth.AuthURL()
	if err != nil {
		h.logger.Error("building authorization URL", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to build authorization URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"authUrl": authURL,
		"state":   state,
	})
}

type tokenRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// Token exchanges the callback code for tokens (POST /auth/soundcloud/token).
// Missing code or state is rejected before anything reaches SoundCloud.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" || req.State == "" {
		writeError(w, http.StatusBadRequest, "Missing code or state")
		return
	}

	result, err := h.auth.Exchange(r.Context(), req.Code, req.State)
	if err != nil {
		h.logger.Warn("token exchange failed", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Me returns the authenticated user's profile (GET /api/soundcloud/me).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.client.Me(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.logger.Warn("profile fetch failed", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Search is a pass-through track search (GET /api/soundcloud/search).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Missing search query")
		return
	}

	limit := soundcloud.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	tracks, err := h.client.SearchTracks(r.Context(), tokenFrom(r.Context()), q, soundcloud.SearchOptions{Limit: limit})
	if err != nil {
		h.logger.Warn("search failed", "q", q, "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

type playlistRequest struct {
	Mood         string          `json:"mood"`
	AnalysisData json.RawMessage `json:"analysisData"`
}

// CreatePlaylist generates and publishes a mood playlist
// (POST /api/soundcloud/playlist).
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Mood == "" {
		writeError(w, http.StatusBadRequest, "Missing mood")
		return
	}

	result, err := h.playlists.Generate(r.Context(), tokenFrom(r.Context()), req.Mood, req.AnalysisData)
	if err != nil {
		h.logger.Warn("playlist generation failed", "mood", req.Mood, "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"playlist": result})
}

// requireBearer rejects requests without an Authorization bearer token and
// stashes the token in the request context for downstream handlers.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing access token")
			return
		}
		ctx := context.WithValue(r.Context(), tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFrom returns the bearer token placed in the context by requireBearer.
func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
