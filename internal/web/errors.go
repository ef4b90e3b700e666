package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justestif/go-soundmood/internal/auth"
	"github.com/justestif/go-soundmood/internal/playlist"
	"github.com/justestif/go-soundmood/internal/soundcloud"
)

// errorResponse is the JSON envelope for every failure.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// writeDomainError maps domain failures onto the HTTP taxonomy: reused or
// expired states and validation problems are 400s, an empty track pool is a
// 404, upstream rejections keep their status when it's a client-class code,
// and everything else is a 500. Raw upstream bodies never reach the client;
// only the mapped message and error code do.
func writeDomainError(w http.ResponseWriter, err error) {
	var exchangeErr *auth.ExchangeError
	var apiErr *soundcloud.APIError

	switch {
	case errors.Is(err, auth.ErrStateNotFound):
		writeError(w, http.StatusBadRequest, "State already used or expired. Please restart the authorization flow.")
	case errors.Is(err, playlist.ErrNoTracks):
		writeError(w, http.StatusNotFound, "No tracks found for the given mood. Try a different mood.")
	case errors.As(err, &exchangeErr):
		writeErrorDetails(w, http.StatusInternalServerError, exchangeErr.Message, exchangeErr.Code)
	case errors.As(err, &apiErr):
		status := http.StatusInternalServerError
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		writeErrorDetails(w, status, "SoundCloud request failed", apiErr.Code)
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
