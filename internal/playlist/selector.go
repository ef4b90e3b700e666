package playlist

import (
	"math/rand/v2"
	"strings"

	"github.com/justestif/go-soundmood/internal/soundcloud"
)

// DefaultTargetCount is how many tracks a generated playlist aims for.
const DefaultTargetCount = 15

// selectDiverse reduces a track pool to at most target tracks. Pass 1 keeps a
// track only if both its artist and title are new (case-insensitive), giving
// one track per artist. If that leaves the result under target, pass 2 admits
// further tracks whose title is new, allowing artist repeats to fill up. The
// combined result is shuffled and truncated to target. Titles are always
// unique in the output.
func selectDiverse(pool []soundcloud.Track, target int, rng *rand.Rand) []soundcloud.Track {
	if target <= 0 {
		target = DefaultTargetCount
	}

	seenArtists := make(map[string]struct{})
	seenTitles := make(map[string]struct{})
	var selected []soundcloud.Track

	for _, t := range pool {
		artist := strings.ToLower(t.User.Username)
		title := strings.ToLower(t.Title)
		if _, ok := seenArtists[artist]; ok {
			continue
		}
		if _, ok := seenTitles[title]; ok {
			continue
		}
		seenArtists[artist] = struct{}{}
		seenTitles[title] = struct{}{}
		selected = append(selected, t)
	}

	if len(selected) < target {
		for _, t := range pool {
			if len(selected) >= target {
				break
			}
			title := strings.ToLower(t.Title)
			if _, ok := seenTitles[title]; ok {
				continue
			}
			seenTitles[title] = struct{}{}
			selected = append(selected, t)
		}
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	if len(selected) > target {
		selected = selected[:target]
	}
	return selected
}
