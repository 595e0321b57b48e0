package analysis

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Context categories for the versatility score. Unanchored substring
// matches against playlist names, same looseness as the favorites keywords.
var contextCategories = map[string][]string{
	"mood":     {"chill", "relax", "happy", "sad", "angry", "hype", "calm"},
	"activity": {"workout", "gym", "drive", "work", "study", "sleep", "party"},
	"time":     {"morning", "night", "evening", "summer", "winter"},
}

// RankedTrack pairs a track with its computed scores for the ranked lists.
type RankedTrack struct {
	Track       *Track `json:"track" yaml:"track"`
	Affinity    int    `json:"affinity_score" yaml:"affinity_score"`
	Versatility int    `json:"versatility_score" yaml:"versatility_score"`
}

// AffinityScore estimates how likely a track is a genuine personal favorite.
// Unlike VersatilityScore, which rewards appearing everywhere, it combines
// curation signals: playlist presence, favorites context, artist dedication,
// album depth, obscurity, and timing. Pure function of (track, ctx).
func AffinityScore(t *Track, ctx *AggregateContext) int {
	score := 0

	switch {
	case t.Count() >= 3:
		score += 35
	case t.Count() == 2:
		score += 20
	default:
		score += 10
	}

	if t.InFavorites {
		score += 25
		// Favorites plus multiple playlists is a strong cross-context signal.
		if t.Count() >= 2 {
			score += 10
		}
	}

	maxArtistTracks := 0
	for _, artistID := range t.ArtistIDs {
		if artistID == "" {
			continue
		}
		if n := ctx.ArtistTrackCounts[artistID]; n > maxArtistTracks {
			maxArtistTracks = n
		}
	}
	switch {
	case maxArtistTracks >= 20:
		score += 10
	case maxArtistTracks >= 15:
		score += 8
	case maxArtistTracks >= 10:
		score += 6
	case maxArtistTracks >= 6:
		score += 4
	case maxArtistTracks >= 3:
		score += 2
	}

	if t.AlbumID != "" {
		switch albumTracks := ctx.AlbumTrackCounts[t.AlbumID]; {
		case albumTracks >= 5:
			score += 15
		case albumTracks >= 3:
			score += 8
		}
	}

	// Obscurity bonus / popularity penalty.
	if t.Popularity != nil {
		switch p := *t.Popularity; {
		case p < 30:
			score += 8
		case p < 50:
			score += 4
		case p >= 85:
			score -= 8
		case p >= 75:
			score -= 4
		}
	}

	if latest, ok := t.LatestAdded(); ok {
		switch daysAgo := daysBetween(latest, ctx.Now); {
		case daysAgo < 180:
			score += 10
		case daysAgo < 365:
			score += 5
		}
	}

	score += earlyAdopterBonus(t)

	if t.Evergreen {
		score += 15
	}

	// Small playlists mean focused curation; the first qualifying playlist
	// wins and the bonus is not cumulative.
	for _, name := range t.Playlists {
		size, known := ctx.PlaylistSizes[name]
		if !known {
			continue
		}
		if size < 30 {
			score += 12
			break
		} else if size < 50 {
			score += 6
			break
		}
	}

	for _, name := range t.Playlists {
		if ctx.ActivePlaylists[name] {
			score += 5
		}
	}

	return score
}

func earlyAdopterBonus(t *Track) int {
	release, ok := parseReleaseDate(t.ReleaseDate, t.ReleaseDatePrecision)
	if !ok {
		return 0
	}
	earliest, ok := t.EarliestAdded()
	if !ok {
		return 0
	}

	switch days := daysBetween(release, earliest); {
	case days >= 0 && days < 7:
		return 15
	case days >= 0 && days < 30:
		return 8
	}
	return 0
}

// VersatilityScore measures how many contexts a track fits: high scores mark
// crowd pleasers that work everywhere, not necessarily personal favorites.
// Pure function of the track's own fields.
func VersatilityScore(t *Track) int {
	score := t.Count() * 10

	if t.Popularity != nil {
		if *t.Popularity >= 60 {
			score += 10
		} else if *t.Popularity >= 40 {
			score += 5
		}
	}

	// Credit appearing across distinct context categories, once per
	// category no matter how many playlists match it.
	if t.Count() >= 2 {
		matched := 0
		for _, keywords := range contextCategories {
			if anyPlaylistMatches(t.Playlists, keywords) {
				matched++
			}
		}
		score += matched * 5
	}

	return score
}

func anyPlaylistMatches(playlists []string, keywords []string) bool {
	for _, playlist := range playlists {
		lower := strings.ToLower(playlist)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// LikelyFavorites ranks tracks that appear in multiple playlists or in a
// favorites playlist, by affinity.
func LikelyFavorites(s *Store, ctx *AggregateContext) []RankedTrack {
	var ranked []RankedTrack
	for _, t := range s.Tracks() {
		if t.Count() > 1 || t.InFavorites {
			ranked = append(ranked, scoreTrack(t, ctx))
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return lessFavorites(ranked[i], ranked[j])
	})
	return ranked
}

// VersatileTracks ranks tracks that appear in multiple playlists, by
// versatility.
func VersatileTracks(s *Store, ctx *AggregateContext) []RankedTrack {
	var ranked []RankedTrack
	for _, t := range s.Tracks() {
		if t.Count() > 1 {
			ranked = append(ranked, scoreTrack(t, ctx))
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return lessVersatile(ranked[i], ranked[j])
	})
	return ranked
}

func scoreTrack(t *Track, ctx *AggregateContext) RankedTrack {
	return RankedTrack{
		Track:       t,
		Affinity:    AffinityScore(t, ctx),
		Versatility: VersatilityScore(t),
	}
}

// lessFavorites orders by affinity desc, playlist count desc, then
// case-insensitive name asc, a total order stable across runs.
func lessFavorites(a, b RankedTrack) bool {
	if a.Affinity != b.Affinity {
		return a.Affinity > b.Affinity
	}
	return lessByCountThenName(a.Track, b.Track)
}

// lessVersatile orders by versatility desc, playlist count desc, then
// case-insensitive name asc.
func lessVersatile(a, b RankedTrack) bool {
	if a.Versatility != b.Versatility {
		return a.Versatility > b.Versatility
	}
	return lessByCountThenName(a.Track, b.Track)
}

// lessByAppearances orders the raw track listing: playlist count desc, then
// case-insensitive name asc.
func lessByAppearances(a, b *Track) bool {
	return lessByCountThenName(a, b)
}

func lessByCountThenName(a, b *Track) bool {
	if a.Count() != b.Count() {
		return a.Count() > b.Count()
	}
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

// parseReleaseDate parses a release date at its stated precision: day is
// exact, month snaps to the first of the month, year to January 1.
func parseReleaseDate(date, precision string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}

	var layout string
	switch precision {
	case "day":
		layout = "2006-01-02"
	case "month":
		layout = "2006-01-02"
		date += "-01"
	default:
		layout = "2006-01-02"
		date += "-01-01"
	}

	parsed, err := time.Parse(layout, date)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// daysBetween counts whole days from a to b, rounding down so that a span a
// few hours short of a day counts as negative, not zero.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}
