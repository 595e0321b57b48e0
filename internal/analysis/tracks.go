package analysis

import (
	"strings"
	"time"

	"spotify-curator/internal/catalog"
)

// Track accumulates everything known about one track across every playlist
// it was seen in. Records are created and mutated only by Store.Ingest, with
// one exception: AnalyzeTemporalPatterns sets Evergreen.
type Track struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Artists     []string `json:"artists" yaml:"artists"`
	ArtistIDs   []string `json:"artist_ids" yaml:"artist_ids"`
	Album       string   `json:"album" yaml:"album"`
	AlbumID     string   `json:"album_id" yaml:"album_id"`
	URL         string   `json:"spotify_url" yaml:"spotify_url"`
	Playlists   []string `json:"playlists" yaml:"playlists"`
	InFavorites bool     `json:"in_favorites_playlist" yaml:"in_favorites_playlist"`
	Popularity  *int     `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	DurationMS  *int     `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`

	ReleaseDate          string `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	ReleaseDatePrecision string `json:"release_date_precision,omitempty" yaml:"release_date_precision,omitempty"`
	AlbumType            string `json:"album_type,omitempty" yaml:"album_type,omitempty"`
	AlbumTotalTracks     int    `json:"album_total_tracks,omitempty" yaml:"album_total_tracks,omitempty"`

	// AddedDates maps playlist name to when the track was added there. A
	// playlist may appear in Playlists without an entry here when the API
	// gave no parseable added_at.
	AddedDates map[string]time.Time `json:"added_dates,omitempty" yaml:"added_dates,omitempty"`

	Evergreen bool `json:"is_evergreen" yaml:"is_evergreen"`
}

// Count is the number of distinct playlists containing this track.
func (t *Track) Count() int {
	return len(t.Playlists)
}

// ArtistLine joins the artist names for display.
func (t *Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// FavoritesWeight is the playlist count with a small bump for favorites
// playlists, used by the raw frequency listing.
func (t *Track) FavoritesWeight() int {
	weight := t.Count()
	if t.InFavorites {
		weight += 2
	}
	return weight
}

// EarliestAdded returns the earliest date the track was added to any
// playlist. ok is false when no add dates were recorded.
func (t *Track) EarliestAdded() (earliest time.Time, ok bool) {
	for _, d := range t.AddedDates {
		if !ok || d.Before(earliest) {
			earliest = d
			ok = true
		}
	}
	return
}

// LatestAdded returns the latest date the track was added to any playlist.
func (t *Track) LatestAdded() (latest time.Time, ok bool) {
	for _, d := range t.AddedDates {
		if !ok || d.After(latest) {
			latest = d
			ok = true
		}
	}
	return
}

// Store deduplicates tracks seen across playlists. It is the single mutation
// point for track records.
type Store struct {
	tracks map[string]*Track
	order  []string // track IDs in first-seen order

	// FilteredByHorizon counts items excluded because their add date
	// predates the horizon cutoff. MissingAddDate counts items excluded
	// because the cutoff was set but the item had no parseable add date.
	// Both are cumulative across all Ingest calls.
	FilteredByHorizon int
	MissingAddDate    int
}

func NewStore() *Store {
	return &Store{tracks: make(map[string]*Track)}
}

// Len reports the number of distinct tracks seen.
func (s *Store) Len() int {
	return len(s.tracks)
}

// Get returns the record for a track ID, or nil.
func (s *Store) Get(id string) *Track {
	return s.tracks[id]
}

// Tracks returns all records in first-seen order.
func (s *Store) Tracks() []*Track {
	tracks := make([]*Track, len(s.order))
	for i, id := range s.order {
		tracks[i] = s.tracks[id]
	}
	return tracks
}

// Ingest folds one playlist's items into the store. Items without a track or
// track ID (local or unavailable files) are skipped. When cutoff is non-nil,
// items with no parseable add date are dropped and counted, as are items
// added before the cutoff.
func (s *Store) Ingest(playlistName string, isFavorites bool, items []catalog.PlaylistItem, cutoff *time.Time) {
	for _, item := range items {
		if item.Track == nil || item.Track.ID == "" || item.IsLocal {
			continue
		}

		addedAt, hasAdded := parseAddedAt(item.AddedAt)

		if cutoff != nil {
			if !hasAdded {
				s.MissingAddDate++
				continue
			}
			if addedAt.Before(*cutoff) {
				s.FilteredByHorizon++
				continue
			}
		}

		track, seen := s.tracks[item.Track.ID]
		if !seen {
			track = newTrack(item.Track, playlistName, isFavorites)
			s.tracks[track.ID] = track
			s.order = append(s.order, track.ID)
		} else {
			if !containsString(track.Playlists, playlistName) {
				track.Playlists = append(track.Playlists, playlistName)
			}
			if isFavorites {
				track.InFavorites = true
			}
		}

		if hasAdded {
			track.AddedDates[playlistName] = addedAt
		}
	}
}

func newTrack(data *catalog.TrackData, playlistName string, isFavorites bool) *Track {
	artists := make([]string, len(data.Artists))
	artistIDs := make([]string, len(data.Artists))
	for i, a := range data.Artists {
		artists[i] = a.Name
		artistIDs[i] = a.ID
	}

	return &Track{
		ID:                   data.ID,
		Name:                 data.Name,
		Artists:              artists,
		ArtistIDs:            artistIDs,
		Album:                data.Album.Name,
		AlbumID:              data.Album.ID,
		URL:                  data.URL,
		Playlists:            []string{playlistName},
		InFavorites:          isFavorites,
		Popularity:           data.Popularity,
		DurationMS:           data.DurationMS,
		ReleaseDate:          data.Album.ReleaseDate,
		ReleaseDatePrecision: data.Album.ReleaseDatePrecision,
		AlbumType:            data.Album.AlbumType,
		AlbumTotalTracks:     data.Album.TotalTracks,
		AddedDates:           make(map[string]time.Time),
	}
}

// parseAddedAt parses an ISO-8601 added_at string to a naive UTC instant.
func parseAddedAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
