// Package playlist assembles mood playlists: it plans search terms, fans out
// track searches against SoundCloud, filters and de-duplicates the results,
// and publishes the final set as a playlist.
package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-soundmood/internal/mood"
	"github.com/justestif/go-soundmood/internal/soundcloud"
)

const (
	// perTermLimit keeps each search cheap; variety comes from term count.
	perTermLimit = 4

	// maxSearchOffset bounds the randomized pagination offset per term.
	maxSearchOffset = 50

	// Engagement and duration filter thresholds.
	minPlaybackCount  = 1000
	minLikesCount     = 50
	minDurationMs     = 90_000
	maxDurationMs     = 480_000
	searchConcurrency = 4
)

// ErrNoTracks is returned when every planned search term came back empty
// after filtering. Surfaced as 404 at the HTTP boundary.
var ErrNoTracks = errors.New("no tracks found for mood")

// Client is the slice of the SoundCloud API the service uses.
type Client interface {
	SearchTracks(ctx context.Context, token, q string, opts soundcloud.SearchOptions) ([]soundcloud.Track, error)
	CreatePlaylist(ctx context.Context, token, title, description string, trackIDs []int64) (*soundcloud.Playlist, bool, error)
}

// Result is the assembled playlist response: the upstream creation result
// plus the selected tracks and request metadata. Degraded marks the fallback
// submission path, where the created playlist does not contain the tracks.
type Result struct {
	soundcloud.Playlist
	Tracks       []soundcloud.Track `json:"tracks"`
	Mood         string             `json:"mood"`
	AnalysisData json.RawMessage    `json:"analysisData,omitempty"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	Degraded     bool               `json:"degraded,omitempty"`
}

// Service generates mood playlists. The RNG drives search offsets and the
// final shuffle only; it is a non-security source and injectable for tests.
// One Service is shared by every handler goroutine, and rand.Rand is not
// goroutine-safe, so rngMu covers every draw.
type Service struct {
	client  Client
	planner *mood.Planner
	rngMu   sync.Mutex
	rng     *rand.Rand
	logger  *log.Logger
	target  int
	now     func() time.Time
}

// NewService creates a playlist service. A nil rng gets a time-seeded one;
// a nil logger discards nothing but logs to stderr defaults.
func NewService(client Client, planner *mood.Planner, rng *rand.Rand, logger *log.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		client:  client,
		planner: planner,
		rng:     rng,
		logger:  logger,
		target:  DefaultTargetCount,
		now:     time.Now,
	}
}

// Generate runs the full pipeline for a mood: plan terms, search, filter,
// select a diverse set, and publish. analysis is passed through untouched.
func (s *Service) Generate(ctx context.Context, token, moodLabel string, analysis json.RawMessage) (*Result, error) {
	terms := s.planner.SearchTerms(moodLabel)

	pool := s.searchAll(ctx, token, terms)
	if len(pool) == 0 {
		return nil, ErrNoTracks
	}

	s.rngMu.Lock()
	selected := selectDiverse(pool, s.target, s.rng)
	s.rngMu.Unlock()

	now := s.now()
	title := playlistTitle(moodLabel, now)
	description := fmt.Sprintf("Auto-generated %s mood mix for coding sessions", strings.ToLower(moodLabel))

	ids := make([]int64, len(selected))
	for i, t := range selected {
		ids[i] = t.ID
	}

	created, degraded, err := s.client.CreatePlaylist(ctx, token, title, description, ids)
	if err != nil {
		return nil, err
	}
	if degraded {
		s.logger.Warn("playlist created without track attachment", "mood", moodLabel, "tracks", len(ids))
	}

	return &Result{
		Playlist:     *created,
		Tracks:       selected,
		Mood:         moodLabel,
		AnalysisData: analysis,
		GeneratedAt:  now,
		Degraded:     degraded,
	}, nil
}

// searchAll issues one search per term with bounded concurrency and gathers
// every track passing the engagement/duration filter. A failing term is
// logged and skipped; only a fully empty pool fails the overall request.
func (s *Service) searchAll(ctx context.Context, token string, terms []string) []soundcloud.Track {
	// Offsets come from the shared RNG up front; it isn't safe to share
	// across the search goroutines, nor across concurrent requests.
	offsets := make([]int, len(terms))
	s.rngMu.Lock()
	for i := range terms {
		offsets[i] = s.rng.IntN(maxSearchOffset)
	}
	s.rngMu.Unlock()

	var (
		mu   sync.Mutex
		pool []soundcloud.Track
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)

	for i, term := range terms {
		g.Go(func() error {
			tracks, err := s.client.SearchTracks(gctx, token, term, soundcloud.SearchOptions{
				Limit:       perTermLimit,
				Offset:      offsets[i],
				MinDuration: minDurationMs,
			})
			if err != nil {
				s.logger.Warn("search term failed", "term", term, "err", err)
				return nil
			}

			kept := make([]soundcloud.Track, 0, len(tracks))
			for _, t := range tracks {
				if keepTrack(t) {
					kept = append(kept, t)
				}
			}

			mu.Lock()
			pool = append(pool, kept...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // per-term errors are swallowed above

	return pool
}

// keepTrack applies the engagement and duration post-filter: a track needs
// either real playback traction or likes, and a duration between 90s and 8m.
func keepTrack(t soundcloud.Track) bool {
	engaged := t.PlaybackCount > minPlaybackCount || t.LikesCount > minLikesCount
	duration := t.Duration > minDurationMs && t.Duration < maxDurationMs
	return engaged && duration
}

// playlistTitle derives the playlist name from the mood and generation date.
// The first rune is capitalized, not the first byte, so multi-byte labels
// stay valid UTF-8.
func playlistTitle(moodLabel string, now time.Time) string {
	label := strings.ToLower(strings.TrimSpace(moodLabel))
	if label == "" {
		label = mood.FallbackMood
	}
	first, size := utf8.DecodeRuneInString(label)
	capitalized := strings.ToUpper(string(first)) + label[size:]
	return fmt.Sprintf("%s Coding Session - %s", capitalized, now.Format("Jan 2, 2006"))
}
