package soundcloud

import (
	"context"
	"fmt"
	"net/url"
)

// playlistRequest is the structured body for POST /playlists.
type playlistRequest struct {
	Playlist playlistPayload `json:"playlist"`
}

type playlistPayload struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Sharing     string          `json:"sharing"`
	Tracks      []playlistTrack `json:"tracks"`
}

type playlistTrack struct {
	ID int64 `json:"id"`
}

// CreatePlaylist submits a public playlist with the given tracks. If SoundCloud
// rejects the structured JSON body, one fallback form-encoded submission is made
// carrying only title, description, and sharing. The track attachment is dropped
// in that degraded mode, reported through the returned flag. When both attempts
// fail, the second failure is returned.
func (c *Client) CreatePlaylist(ctx context.Context, token, title, description string, trackIDs []int64) (playlist *Playlist, degraded bool, err error) {
	body := playlistRequest{
		Playlist: playlistPayload{
			Title:       title,
			Description: description,
			Sharing:     "public",
			Tracks:      make([]playlistTrack, 0, len(trackIDs)),
		},
	}
	for _, id := range trackIDs {
		body.Playlist.Tracks = append(body.Playlist.Tracks, playlistTrack{ID: id})
	}

	var created Playlist
	if err := c.postJSON(ctx, token, "/playlists", body, &created); err == nil {
		return &created, false, nil
	}

	form := url.Values{
		"playlist[title]":       {title},
		"playlist[description]": {description},
		"playlist[sharing]":     {"public"},
	}

	var fallback Playlist
	if err := c.postForm(ctx, token, "/playlists", form, &fallback); err != nil {
		return nil, false, fmt.Errorf("creating playlist: %w", err)
	}
	return &fallback, true, nil
}
