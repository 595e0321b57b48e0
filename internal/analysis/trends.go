package analysis

import "strings"

// TopTrack is a ranked entry from the user's listening history.
type TopTrack struct {
	Rank    int      `json:"rank" yaml:"rank"`
	Name    string   `json:"name" yaml:"name"`
	Artists []string `json:"artists" yaml:"artists"`
	Album   string   `json:"album" yaml:"album"`
	URL     string   `json:"spotify_url,omitempty" yaml:"spotify_url,omitempty"`
}

// ArtistLine joins the artist names for display.
func (t TopTrack) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// TopArtist is a ranked artist from the user's listening history.
type TopArtist struct {
	Rank       int      `json:"rank" yaml:"rank"`
	Name       string   `json:"name" yaml:"name"`
	Genres     []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Popularity int      `json:"popularity" yaml:"popularity"`
	URL        string   `json:"spotify_url,omitempty" yaml:"spotify_url,omitempty"`
}

// GenreLine shows up to three genres.
func (a TopArtist) GenreLine() string {
	if len(a.Genres) == 0 {
		return "No genres"
	}
	genres := a.Genres
	if len(genres) > 3 {
		genres = genres[:3]
	}
	return strings.Join(genres, ", ")
}

// Trends compares short-term and long-term listening.
type Trends struct {
	// RisingArtists are in the short-term top 10 but absent from the
	// long-term list.
	RisingArtists []string `json:"rising_artists" yaml:"rising_artists"`

	// ConsistentFavorites are in both the short-term and long-term top 10.
	ConsistentFavorites []string `json:"consistent_favorites" yaml:"consistent_favorites"`

	// NewDiscoveries are short-term top tracks absent from the long-term
	// list, capped at 5.
	NewDiscoveries []string `json:"new_discoveries" yaml:"new_discoveries"`
}

// AnalyzeTrends derives listening trends from the per-time-range top lists.
// Output order follows short-term rank so results are stable.
func AnalyzeTrends(topTracks map[string][]TopTrack, topArtists map[string][]TopArtist) Trends {
	trends := Trends{}

	longArtists := make(map[string]bool)
	for _, a := range topArtists["long_term"] {
		longArtists[a.Name] = true
	}
	longTop10 := make(map[string]bool)
	for i, a := range topArtists["long_term"] {
		if i >= 10 {
			break
		}
		longTop10[a.Name] = true
	}

	for i, a := range topArtists["short_term"] {
		if i >= 10 {
			break
		}
		if !longArtists[a.Name] {
			trends.RisingArtists = append(trends.RisingArtists, a.Name)
		}
		if longTop10[a.Name] {
			trends.ConsistentFavorites = append(trends.ConsistentFavorites, a.Name)
		}
	}

	longTracks := make(map[string]bool)
	for _, t := range topTracks["long_term"] {
		longTracks[t.Name] = true
	}
	for _, t := range topTracks["short_term"] {
		if len(trends.NewDiscoveries) >= 5 {
			break
		}
		if !longTracks[t.Name] {
			trends.NewDiscoveries = append(trends.NewDiscoveries, t.Name)
		}
	}

	return trends
}
