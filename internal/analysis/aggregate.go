package analysis

import (
	"sort"
	"time"
)

// Fan level tiers by unique playlisted tracks per artist.
const (
	FanLevelSuper  = "SUPER FAN"
	FanLevelBig    = "Big Fan"
	FanLevelFan    = "Fan"
	FanLevelCasual = "Casual"

	thresholdFanSuper = 15
	thresholdFanBig   = 8
	thresholdFan      = 4
)

// AlbumStats is the per-album rollup across all deduplicated tracks.
type AlbumStats struct {
	AlbumID            string   `json:"album_id" yaml:"album_id"`
	Name               string   `json:"name" yaml:"name"`
	Artist             string   `json:"artist" yaml:"artist"`
	Tracks             []string `json:"tracks" yaml:"tracks"`
	TotalAppearances   int      `json:"total_appearances" yaml:"total_appearances"`
	TotalTracksInAlbum int      `json:"total_tracks_in_album,omitempty" yaml:"total_tracks_in_album,omitempty"`
	AlbumType          string   `json:"album_type,omitempty" yaml:"album_type,omitempty"`
	ReleaseDate        string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
}

// CompletionRatio is the fraction of the album's tracks found in playlists,
// or 0 when the album's track total is unknown.
func (a *AlbumStats) CompletionRatio() float64 {
	if a.TotalTracksInAlbum > 0 {
		return float64(len(a.Tracks)) / float64(a.TotalTracksInAlbum)
	}
	return 0
}

// CompletionPercent is the completion ratio as a whole percentage.
func (a *AlbumStats) CompletionPercent() int {
	return int(a.CompletionRatio() * 100)
}

// LikelyFavorite reports whether more than half the album is playlisted,
// with at least 3 distinct tracks.
func (a *AlbumStats) LikelyFavorite() bool {
	return a.CompletionRatio() > 0.5 && len(a.Tracks) >= 3
}

// ArtistStats is the per-artist rollup across all deduplicated tracks.
type ArtistStats struct {
	ArtistID         string   `json:"artist_id" yaml:"artist_id"`
	Name             string   `json:"name" yaml:"name"`
	UniqueTracks     int      `json:"unique_tracks" yaml:"unique_tracks"`
	TotalAppearances int      `json:"total_appearances" yaml:"total_appearances"`
	Tracks           []string `json:"tracks" yaml:"tracks"`
}

// FanLevel buckets the listener's dedication to this artist.
func (a *ArtistStats) FanLevel() string {
	switch {
	case a.UniqueTracks >= thresholdFanSuper:
		return FanLevelSuper
	case a.UniqueTracks >= thresholdFanBig:
		return FanLevelBig
	case a.UniqueTracks >= thresholdFan:
		return FanLevelFan
	default:
		return FanLevelCasual
	}
}

// AggregateContext is the read-only snapshot of aggregate statistics the
// scoring functions need. It is built once, after all ingestion finishes,
// and passed alongside each track rather than stored on the records.
type AggregateContext struct {
	// Now is the analysis instant; recency-sensitive scoring reads it
	// instead of the wall clock.
	Now time.Time

	// ArtistTrackCounts maps artist ID to the number of distinct tracks by
	// that artist found in playlists.
	ArtistTrackCounts map[string]int

	// AlbumTrackCounts maps album ID to the number of distinct tracks from
	// that album found in playlists.
	AlbumTrackCounts map[string]int

	// PlaylistSizes maps playlist name to its total track count.
	PlaylistSizes map[string]int

	// ActivePlaylists is the set of playlist names classified as active.
	ActivePlaylists map[string]bool
}

// BuildAggregateContext computes the artist and album count snapshots from
// the store's current state. Call it after every Ingest and before reading
// any score.
func BuildAggregateContext(s *Store, sizes map[string]int, active map[string]bool, now time.Time) *AggregateContext {
	artistCounts := make(map[string]int)
	albumCounts := make(map[string]int)
	for _, track := range s.Tracks() {
		for _, artistID := range track.ArtistIDs {
			if artistID != "" {
				artistCounts[artistID]++
			}
		}
		if track.AlbumID != "" {
			albumCounts[track.AlbumID]++
		}
	}

	return &AggregateContext{
		Now:               now,
		ArtistTrackCounts: artistCounts,
		AlbumTrackCounts:  albumCounts,
		PlaylistSizes:     sizes,
		ActivePlaylists:   active,
	}
}

// AggregateAlbums groups tracks by album. Tracks without an album ID are
// excluded. The album's track total is backfilled from whichever track
// supplies it first.
func AggregateAlbums(s *Store) []*AlbumStats {
	albums := make(map[string]*AlbumStats)
	var order []*AlbumStats

	for _, track := range s.Tracks() {
		if track.AlbumID == "" {
			continue
		}

		album, seen := albums[track.AlbumID]
		if !seen {
			artist := "Unknown"
			if len(track.Artists) > 0 {
				artist = track.Artists[0]
			}
			album = &AlbumStats{
				AlbumID:            track.AlbumID,
				Name:               track.Album,
				Artist:             artist,
				TotalTracksInAlbum: track.AlbumTotalTracks,
				AlbumType:          track.AlbumType,
				ReleaseDate:        track.ReleaseDate,
			}
			albums[track.AlbumID] = album
			order = append(order, album)
		}

		if !containsString(album.Tracks, track.Name) {
			album.Tracks = append(album.Tracks, track.Name)
		}
		album.TotalAppearances += track.Count()

		if album.TotalTracksInAlbum == 0 && track.AlbumTotalTracks > 0 {
			album.TotalTracksInAlbum = track.AlbumTotalTracks
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return lessAlbums(order[i], order[j])
	})
	return order
}

// lessAlbums orders by completion ratio, then distinct tracks, then total
// appearances, all descending. Full ties keep first-seen order.
func lessAlbums(a, b *AlbumStats) bool {
	if a.CompletionRatio() != b.CompletionRatio() {
		return a.CompletionRatio() > b.CompletionRatio()
	}
	if len(a.Tracks) != len(b.Tracks) {
		return len(a.Tracks) > len(b.Tracks)
	}
	return a.TotalAppearances > b.TotalAppearances
}

// AggregateArtists groups tracks by artist, pairing names and IDs by index.
// Pairs with an empty artist ID are skipped. Unique-track counts increment
// only the first time a track name is seen for an artist; appearance sums
// accumulate every time.
func AggregateArtists(s *Store) []*ArtistStats {
	artists := make(map[string]*ArtistStats)
	var order []*ArtistStats

	for _, track := range s.Tracks() {
		for i, artistID := range track.ArtistIDs {
			if artistID == "" {
				continue
			}

			name := "Unknown"
			if i < len(track.Artists) {
				name = track.Artists[i]
			}

			artist, seen := artists[artistID]
			if !seen {
				artist = &ArtistStats{ArtistID: artistID, Name: name}
				artists[artistID] = artist
				order = append(order, artist)
			}

			if !containsString(artist.Tracks, track.Name) {
				artist.Tracks = append(artist.Tracks, track.Name)
				artist.UniqueTracks++
			}
			artist.TotalAppearances += track.Count()
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return lessArtists(order[i], order[j])
	})
	return order
}

// lessArtists orders by unique tracks, then total appearances, descending.
func lessArtists(a, b *ArtistStats) bool {
	if a.UniqueTracks != b.UniqueTracks {
		return a.UniqueTracks > b.UniqueTracks
	}
	return a.TotalAppearances > b.TotalAppearances
}
