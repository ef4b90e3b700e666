package soundcloud

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultSearchLimit applies when the caller doesn't specify one.
	DefaultSearchLimit = 20

	// MaxSearchLimit is the cap SoundCloud enforces per page.
	MaxSearchLimit = 50
)

// SearchOptions narrows a track search.
type SearchOptions struct {
	Limit int
	// Offset is the pagination offset into the result set.
	Offset int
	// MinDuration is a server-side duration[from] filter hint, in milliseconds.
	// Zero means no filter.
	MinDuration int64
}

// SearchTracks queries /tracks for q. Limit is clamped to [1, MaxSearchLimit]
// with DefaultSearchLimit as the fallback.
func (c *Client) SearchTracks(ctx context.Context, token, q string, opts SearchOptions) ([]Track, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	query := url.Values{
		"q":     {q},
		"limit": {strconv.Itoa(limit)},
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.MinDuration > 0 {
		query.Set("duration[from]", strconv.FormatInt(opts.MinDuration, 10))
	}

	var tracks []Track
	if err := c.get(ctx, token, "/tracks", query, &tracks); err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	return tracks, nil
}
