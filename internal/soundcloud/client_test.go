package soundcloud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("path = %q, want /me", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "OAuth test-token" {
			t.Errorf("Authorization = %q, want OAuth test-token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(User{ID: 42, Username: "coder"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	user, err := client.Me(context.Background(), "test-token")
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if user.ID != 42 || user.Username != "coder" {
		t.Errorf("Me() = %+v, want id 42 / username coder", user)
	}
}

func TestMeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"code": "unauthorized", "message": "invalid token"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	_, err := client.Me(context.Background(), "bad-token")
	if err == nil {
		t.Fatal("Me() error = nil, want APIError")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
	if apiErr.Code != "unauthorized" {
		t.Errorf("Code = %q, want unauthorized", apiErr.Code)
	}
}

func TestSearchTracks(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracks" {
			t.Errorf("path = %q, want /tracks", r.URL.Path)
		}
		gotQuery = map[string]string{
			"q":              r.URL.Query().Get("q"),
			"limit":          r.URL.Query().Get("limit"),
			"offset":         r.URL.Query().Get("offset"),
			"duration[from]": r.URL.Query().Get("duration[from]"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Track{
			{ID: 1, Title: "first"},
			{ID: 2, Title: "second"},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	tracks, err := client.SearchTracks(context.Background(), "tok", "indie neutral", SearchOptions{
		Limit:       100, // above the cap
		Offset:      17,
		MinDuration: 90_000,
	})
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}

	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if gotQuery["q"] != "indie neutral" {
		t.Errorf("q = %q", gotQuery["q"])
	}
	if gotQuery["limit"] != "50" {
		t.Errorf("limit = %q, want 50 (clamped)", gotQuery["limit"])
	}
	if gotQuery["offset"] != "17" {
		t.Errorf("offset = %q, want 17", gotQuery["offset"])
	}
	if gotQuery["duration[from]"] != "90000" {
		t.Errorf("duration[from] = %q, want 90000", gotQuery["duration[from]"])
	}
}

func TestSearchTracksDefaultLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q, want default 20", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	if _, err := client.SearchTracks(context.Background(), "tok", "jazz", SearchOptions{}); err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}
}
