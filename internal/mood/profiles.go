// Package mood maps a mood label to SoundCloud search terms. The mapping is
// static table lookup; the only nondeterminism is the planner's shuffle and
// modifier pick, both driven by an injectable randomness source.
package mood

import "strings"

// Energy is the intensity level of a mood profile.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// Valence is the sentiment polarity of a mood profile.
type Valence string

const (
	ValencePositive Valence = "positive"
	ValenceNeutral  Valence = "neutral"
	ValenceNegative Valence = "negative"
)

// FallbackMood is the profile used for unrecognized labels. The fallback is
// deterministic: every unknown mood resolves to the same profile.
const FallbackMood = "satisfied"

// Profile describes how a mood translates into music search space.
type Profile struct {
	Label   string
	Genres  []string
	Energy  Energy
	Valence Valence
}

// profiles holds the five supported moods. Read-only after init.
var profiles = map[string]Profile{
	"happy": {
		Label:   "happy",
		Genres:  []string{"pop", "dance", "electronic", "funk"},
		Energy:  EnergyHigh,
		Valence: ValencePositive,
	},
	"sad": {
		Label:   "sad",
		Genres:  []string{"acoustic", "piano", "singer-songwriter", "ambient"},
		Energy:  EnergyLow,
		Valence: ValenceNegative,
	},
	"angry": {
		Label:   "angry",
		Genres:  []string{"rock", "metal", "punk", "industrial"},
		Energy:  EnergyHigh,
		Valence: ValenceNegative,
	},
	"tired": {
		Label:   "tired",
		Genres:  []string{"indie", "alternative", "ambient", "lo-fi"},
		Energy:  EnergyLow,
		Valence: ValenceNeutral,
	},
	"satisfied": {
		Label:   "satisfied",
		Genres:  []string{"chill", "jazz", "soul", "lo-fi"},
		Energy:  EnergyMedium,
		Valence: ValencePositive,
	},
}

// genreArtists maps a genre to representative artists, used to diversify the
// generated search terms. Genres without an entry just skip the artist terms.
var genreArtists = map[string][]string{
	"pop":               {"Dua Lipa", "Charli XCX"},
	"dance":             {"Calvin Harris", "Disclosure"},
	"electronic":        {"ODESZA", "Flume"},
	"funk":              {"Vulfpeck", "Jungle"},
	"acoustic":          {"Ben Howard", "Iron & Wine"},
	"piano":             {"Ludovico Einaudi", "Nils Frahm"},
	"singer-songwriter": {"Phoebe Bridgers", "Sufjan Stevens"},
	"indie":             {"Tame Impala", "Mac DeMarco"},
	"alternative":       {"Radiohead", "Alt-J"},
	"ambient":           {"Brian Eno", "Tycho"},
	"lo-fi":             {"Jinsang", "Idealism"},
	"rock":              {"Queens of the Stone Age", "Royal Blood"},
	"metal":             {"Gojira", "Mastodon"},
	"punk":              {"IDLES", "Turnstile"},
	"industrial":        {"Nine Inch Nails", "HEALTH"},
	"chill":             {"Bonobo", "Emancipator"},
	"jazz":              {"Kamasi Washington", "BADBADNOTGOOD"},
	"soul":              {"Leon Bridges", "Tom Misch"},
}

// Resolve returns the profile for a mood label, case-insensitively.
// Unrecognized labels resolve to the FallbackMood profile.
func Resolve(label string) Profile {
	if p, ok := profiles[strings.ToLower(strings.TrimSpace(label))]; ok {
		return p
	}
	return profiles[FallbackMood]
}

// Artists returns up to n representative artists for a genre.
func Artists(genre string, n int) []string {
	artists := genreArtists[genre]
	if len(artists) > n {
		artists = artists[:n]
	}
	return artists
}
