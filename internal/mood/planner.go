package mood

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// MaxTerms bounds the number of search terms a plan can contain.
const MaxTerms = 10

// modifiers add best-effort variety to one extra term per plan. The pick is
// not a fairness or security property.
var modifiers = []string{"deep focus", "late night", "instrumental", "underground", "chillout"}

// Planner turns a mood label into an ordered set of search terms.
// Safe for concurrent use: one Planner serves every request.
type Planner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlanner creates a planner using the given non-security randomness source
// for term shuffling and modifier selection. A nil rng gets a time-seeded one.
func NewPlanner(rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Planner{rng: rng}
}

// SearchTerms plans the queries for a mood: per-genre valence/energy/artist
// terms, two mood-level terms, and one modifier term, deduplicated in first-
// occurrence order, then shuffled and truncated to MaxTerms. Unknown moods use
// the satisfied profile, including in the generated term text.
func (p *Planner) SearchTerms(moodLabel string) []string {
	profile := Resolve(moodLabel)

	// rand.Rand is not goroutine-safe; the lock covers every draw.
	p.mu.Lock()
	defer p.mu.Unlock()

	modifier := modifiers[p.rng.IntN(len(modifiers))]

	terms := buildTerms(profile, modifier)

	p.rng.Shuffle(len(terms), func(i, j int) {
		terms[i], terms[j] = terms[j], terms[i]
	})
	if len(terms) > MaxTerms {
		terms = terms[:MaxTerms]
	}
	return terms
}

// buildTerms produces the full deduplicated candidate list for a profile in
// first-occurrence order, before shuffling and truncation.
func buildTerms(profile Profile, modifier string) []string {
	var terms []string
	for _, genre := range profile.Genres {
		terms = append(terms,
			fmt.Sprintf("%s %s", genre, profile.Valence),
			fmt.Sprintf("%s %s energy", genre, profile.Energy),
		)
		for _, artist := range Artists(genre, 2) {
			terms = append(terms, fmt.Sprintf("%s %s", artist, genre))
		}
	}

	terms = append(terms,
		fmt.Sprintf("%s coding music", profile.Label),
		fmt.Sprintf("%s %s music", profile.Valence, profile.Energy),
		fmt.Sprintf("%s %s", modifier, profile.Genres[0]),
	)

	return dedupe(terms)
}

// dedupe removes exact duplicates, preserving first occurrence.
func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
