package analysis

import (
	"strings"
	"time"
)

// Playlist names containing any of these suggest curated favorites. These
// are unanchored substring matches, so "top" also hits "topiary" - that
// looseness is intentional and matches how people actually name playlists.
var favoritesKeywords = []string{
	"favorite", "favourit", "best", "top", "loved", "likes", "all time",
	"essential", "perfect", "goat", "greatest", "classic", "forever",
}

// ActiveRecencyDays is the default window for classifying a playlist as
// active: an addition within this many days of the analysis instant.
const ActiveRecencyDays = 365 * 2

// IsFavoritesName reports whether a playlist name suggests it contains the
// user's favorites.
func IsFavoritesName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range favoritesKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsActivePlaylist classifies a playlist as active rotation vs archive based
// purely on the recency of its newest addition. A playlist with no dated
// additions at all is an archive.
func IsActivePlaylist(newestAdd time.Time, now time.Time, recencyDays int) bool {
	if newestAdd.IsZero() {
		return false
	}
	return newestAdd.After(now.AddDate(0, 0, -recencyDays))
}
