package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zmb3/spotify/v2"
)

// Profile fetches the public profile for a user.
func (c *Client) Profile(ctx context.Context, userID string) (Profile, error) {
	var user *spotify.User
	err := c.fetchPage(ctx, func() error {
		var err error
		user, err = c.api.GetUsersPublicProfile(ctx, spotify.ID(userID))
		return err
	})
	if err != nil {
		return Profile{}, fmt.Errorf("fetching profile for %q: %w", userID, err)
	}

	profile := Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Followers:   int(user.Followers.Count),
		URL:         user.ExternalURLs["spotify"],
	}
	if profile.DisplayName == "" {
		profile.DisplayName = user.ID
	}
	return profile, nil
}

// CurrentProfile fetches the authenticated user's own profile, which carries
// extra private fields.
func (c *Client) CurrentProfile(ctx context.Context) (Profile, error) {
	var user *spotify.PrivateUser
	err := c.fetchPage(ctx, func() error {
		var err error
		user, err = c.api.CurrentUser(ctx)
		return err
	})
	if err != nil {
		return Profile{}, fmt.Errorf("fetching current user: %w", err)
	}

	profile := Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Followers:   int(user.Followers.Count),
		URL:         user.ExternalURLs["spotify"],
		Country:     user.Country,
		Product:     user.Product,
		Email:       user.Email,
	}
	if profile.DisplayName == "" {
		profile.DisplayName = user.ID
	}
	return profile, nil
}

// FetchUserData fetches everything needed for a public-playlist analysis:
// the profile, the playlist listing, and every playlist's items. Playlists
// that fail to fetch are skipped with a warning rather than aborting the
// whole run.
func (c *Client) FetchUserData(ctx context.Context, userID string) (*UserData, error) {
	profile, err := c.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	playlists, err := c.userPlaylists(ctx, userID)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Fetching tracks from %d playlists\n", len(playlists))
	tracks := make(map[string][]PlaylistItem, len(playlists))
	for i, playlist := range playlists {
		fmt.Printf("  [%d/%d] %s\n", i+1, len(playlists), playlist.Name)
		items, err := c.playlistItems(ctx, playlist.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping playlist %q: %v\n", playlist.Name, err)
			continue
		}
		tracks[playlist.ID] = items
	}

	return &UserData{
		UserInfo:       profile,
		Playlists:      playlists,
		PlaylistTracks: tracks,
	}, nil
}

// FetchSelfData fetches the authenticated user's top tracks and artists for
// every time range. A failed range yields an empty bucket, not an error.
func (c *Client) FetchSelfData(ctx context.Context) (*SelfData, error) {
	profile, err := c.CurrentProfile(ctx)
	if err != nil {
		return nil, err
	}

	data := &SelfData{
		UserInfo:   profile,
		TopTracks:  make(map[string][]TopTrackData),
		TopArtists: make(map[string][]TopArtistData),
	}

	for _, timeRange := range TimeRanges {
		tracks, err := c.topTracks(ctx, timeRange)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not fetch top tracks (%s): %v\n", timeRange, err)
			tracks = nil
		}
		data.TopTracks[timeRange] = tracks

		artists, err := c.topArtists(ctx, timeRange)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not fetch top artists (%s): %v\n", timeRange, err)
			artists = nil
		}
		data.TopArtists[timeRange] = artists
	}

	return data, nil
}

func (c *Client) userPlaylists(ctx context.Context, userID string) ([]Playlist, error) {
	var page *spotify.SimplePlaylistPage
	err := c.fetchPage(ctx, func() error {
		var err error
		page, err = c.api.GetPlaylistsForUser(ctx, userID, spotify.Limit(50))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching playlists for %q: %w", userID, err)
	}

	var playlists []Playlist
	for {
		for _, p := range page.Playlists {
			if !p.IsPublic {
				continue
			}
			playlists = append(playlists, Playlist{
				ID:         string(p.ID),
				Name:       p.Name,
				TrackCount: int(p.Tracks.Total),
				Owner:      p.Owner.ID,
			})
		}

		err = c.fetchPage(ctx, func() error {
			return c.api.NextPage(ctx, page)
		})
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching next playlist page: %w", err)
		}
	}
	return playlists, nil
}

func (c *Client) playlistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var page *spotify.PlaylistItemPage
	err := c.fetchPage(ctx, func() error {
		var err error
		page, err = c.api.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(100))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching items for playlist %q: %w", playlistID, err)
	}

	var items []PlaylistItem
	for {
		for _, item := range page.Items {
			track := item.Track.Track
			if track == nil {
				// Podcast episodes and removed tracks have no track payload.
				continue
			}
			items = append(items, convertItem(item, track))
		}

		err = c.fetchPage(ctx, func() error {
			return c.api.NextPage(ctx, page)
		})
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching next item page: %w", err)
		}
	}
	return items, nil
}

func convertItem(item spotify.PlaylistItem, track *spotify.FullTrack) PlaylistItem {
	artists := make([]ArtistRef, len(track.Artists))
	for i, a := range track.Artists {
		artists[i] = ArtistRef{ID: string(a.ID), Name: a.Name}
	}

	popularity := int(track.Popularity)
	duration := int(track.Duration)

	return PlaylistItem{
		AddedAt:   item.AddedAt,
		AddedByID: item.AddedBy.ID,
		IsLocal:   item.IsLocal,
		Track: &TrackData{
			ID:         string(track.ID),
			Name:       track.Name,
			Popularity: &popularity,
			DurationMS: &duration,
			Artists:    artists,
			Album: AlbumData{
				ID:                   string(track.Album.ID),
				Name:                 track.Album.Name,
				AlbumType:            track.Album.AlbumType,
				ReleaseDate:          track.Album.ReleaseDate,
				ReleaseDatePrecision: track.Album.ReleaseDatePrecision,
				TotalTracks:          int(track.Album.TotalTracks),
			},
			URL: track.ExternalURLs["spotify"],
		},
	}
}

func (c *Client) topTracks(ctx context.Context, timeRange string) ([]TopTrackData, error) {
	var page *spotify.FullTrackPage
	err := c.fetchPage(ctx, func() error {
		var err error
		page, err = c.api.CurrentUsersTopTracks(ctx, spotify.Limit(20), spotify.Timerange(spotify.Range(timeRange)))
		return err
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]TopTrackData, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		artists := make([]ArtistRef, len(t.Artists))
		for i, a := range t.Artists {
			artists[i] = ArtistRef{ID: string(a.ID), Name: a.Name}
		}
		tracks = append(tracks, TopTrackData{
			Name:    t.Name,
			Artists: artists,
			Album:   t.Album.Name,
			URL:     t.ExternalURLs["spotify"],
		})
	}
	return tracks, nil
}

func (c *Client) topArtists(ctx context.Context, timeRange string) ([]TopArtistData, error) {
	var page *spotify.FullArtistPage
	err := c.fetchPage(ctx, func() error {
		var err error
		page, err = c.api.CurrentUsersTopArtists(ctx, spotify.Limit(20), spotify.Timerange(spotify.Range(timeRange)))
		return err
	})
	if err != nil {
		return nil, err
	}

	artists := make([]TopArtistData, 0, len(page.Artists))
	for _, a := range page.Artists {
		artists = append(artists, TopArtistData{
			Name:       a.Name,
			Genres:     a.Genres,
			Popularity: int(a.Popularity),
			URL:        a.ExternalURLs["spotify"],
		})
	}
	return artists, nil
}
