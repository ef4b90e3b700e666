package soundcloud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreatePlaylistPrimary(t *testing.T) {
	var gotBody playlistRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/playlists" {
			t.Errorf("%s %s, want POST /playlists", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Playlist{ID: 99, Title: gotBody.Playlist.Title, TrackCount: len(gotBody.Playlist.Tracks)})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	created, degraded, err := client.CreatePlaylist(context.Background(), "tok", "Tired Mix", "a mix", []int64{11, 22})
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}
	if degraded {
		t.Error("degraded = true on primary success")
	}
	if created.ID != 99 {
		t.Errorf("playlist ID = %d, want 99", created.ID)
	}

	if gotBody.Playlist.Sharing != "public" {
		t.Errorf("sharing = %q, want public", gotBody.Playlist.Sharing)
	}
	if len(gotBody.Playlist.Tracks) != 2 || gotBody.Playlist.Tracks[0].ID != 11 {
		t.Errorf("tracks = %+v, want ids 11, 22", gotBody.Playlist.Tracks)
	}
}

func TestCreatePlaylistFallback(t *testing.T) {
	var calls int
	var fallbackForm string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"code": "invalid_body", "message": "unexpected format"})
			return
		}

		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("fallback Content-Type = %q, want form-encoded", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing fallback form: %v", err)
		}
		if got := r.PostForm.Get("playlist[title]"); got != "Tired Mix" {
			t.Errorf("playlist[title] = %q, want Tired Mix", got)
		}
		fallbackForm = r.PostForm.Encode()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Playlist{ID: 7, Title: "Tired Mix"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	created, degraded, err := client.CreatePlaylist(context.Background(), "tok", "Tired Mix", "a mix", []int64{11})
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}
	if !degraded {
		t.Error("degraded = false, want true after fallback")
	}
	if created.ID != 7 {
		t.Errorf("playlist ID = %d, want 7", created.ID)
	}
	if calls != 2 {
		t.Errorf("upstream calls = %d, want 2", calls)
	}
	if strings.Contains(fallbackForm, "tracks") {
		t.Errorf("fallback form %q carries tracks, want them dropped", fallbackForm)
	}
}

func TestCreatePlaylistBothAttemptsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"code": "server_error", "message": "boom"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	_, _, err := client.CreatePlaylist(context.Background(), "tok", "Mix", "desc", nil)
	if err == nil {
		t.Fatal("CreatePlaylist() error = nil, want failure")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", apiErr.Status)
	}
}
