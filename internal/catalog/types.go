package catalog

// Raw payload schemas for everything the analyzer consumes from the Spotify
// Web API. These are the shapes that get cached to disk, so the JSON field
// names are part of the cache layout and must stay stable.

// Profile is a user profile record.
type Profile struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Followers   int    `json:"followers" yaml:"followers"`
	URL         string `json:"profile_url" yaml:"profile_url"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	Product     string `json:"product,omitempty" yaml:"product,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Playlist is the metadata for one playlist, as listed on the owner's
// profile.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
	Owner      string `json:"owner"`
}

// PlaylistItem is one entry of a playlist: a track plus the context it was
// added in. AddedAt is the raw ISO-8601 string from the API; it may be empty
// for very old playlists.
type PlaylistItem struct {
	AddedAt   string     `json:"added_at,omitempty"`
	AddedByID string     `json:"added_by_id,omitempty"`
	IsLocal   bool       `json:"is_local,omitempty"`
	Track     *TrackData `json:"track"`
}

// TrackData is the track metadata carried by a playlist item.
type TrackData struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Popularity *int        `json:"popularity,omitempty"`
	DurationMS *int        `json:"duration_ms,omitempty"`
	Artists    []ArtistRef `json:"artists"`
	Album      AlbumData   `json:"album"`
	URL        string      `json:"spotify_url,omitempty"`
}

// ArtistRef is a (name, id) pair. The ID may be empty for some compilation
// artists; the two slices built from these stay index-aligned.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumData is the album metadata carried by a track.
type AlbumData struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	AlbumType            string `json:"album_type,omitempty"`
	ReleaseDate          string `json:"release_date,omitempty"`
	ReleaseDatePrecision string `json:"release_date_precision,omitempty"`
	TotalTracks          int    `json:"total_tracks,omitempty"`
}

// TopTrackData is one of the authenticated user's ranked top tracks.
type TopTrackData struct {
	Name    string      `json:"name"`
	Artists []ArtistRef `json:"artists"`
	Album   string      `json:"album"`
	URL     string      `json:"spotify_url,omitempty"`
}

// TopArtistData is one of the authenticated user's ranked top artists.
type TopArtistData struct {
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity"`
	URL        string   `json:"spotify_url,omitempty"`
}

// UserData is everything fetched for a public-playlist analysis run. This is
// the unit that gets cached per user.
type UserData struct {
	UserInfo       Profile                   `json:"user_info"`
	Playlists      []Playlist                `json:"playlists"`
	PlaylistTracks map[string][]PlaylistItem `json:"playlist_tracks"`
}

// SelfData is everything fetched for a self-analysis run, keyed by time
// range (short_term, medium_term, long_term).
type SelfData struct {
	UserInfo   Profile                    `json:"user_info"`
	TopTracks  map[string][]TopTrackData  `json:"top_tracks_raw"`
	TopArtists map[string][]TopArtistData `json:"top_artists_raw"`
}

// TimeRanges are the listening-history buckets the API exposes, most recent
// first.
var TimeRanges = []string{"short_term", "medium_term", "long_term"}
