package analysis

import (
	"testing"
	"time"

	"spotify-curator/internal/catalog"
)

func testUserData() *catalog.UserData {
	return &catalog.UserData{
		UserInfo: catalog.Profile{ID: "alice", DisplayName: "Alice"},
		Playlists: []catalog.Playlist{
			{ID: "p1", Name: "Best Songs Ever", Owner: "alice", TrackCount: 2},
			{ID: "p2", Name: "Commute", Owner: "alice", TrackCount: 2},
			{ID: "p3", Name: "Collaborative Mix", Owner: "bob", TrackCount: 5},
		},
		PlaylistTracks: map[string][]catalog.PlaylistItem{
			"p1": {
				newItem("t1", "Anthem", "2024-01-01T00:00:00Z"),
				newItem("t2", "Deep Cut", "2024-01-02T00:00:00Z"),
			},
			"p2": {
				newItem("t1", "Anthem", "2020-01-01T00:00:00Z"),
				newItem("t3", "Podcast Filler", "2020-01-02T00:00:00Z"),
			},
			"p3": {
				newItem("t9", "Not Mine", "2024-01-01T00:00:00Z"),
			},
		},
	}
}

func TestAnalyzeUser(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	result := New(Config{Now: now}).AnalyzeUser(testUserData(), "alice")

	if result.TotalPlaylists != 3 {
		t.Errorf("TotalPlaylists = %d, want 3", result.TotalPlaylists)
	}
	if result.PlaylistsAnalyzed != 2 {
		t.Errorf("PlaylistsAnalyzed = %d, want 2", result.PlaylistsAnalyzed)
	}
	if result.PlaylistsSkippedOwner != 1 {
		t.Errorf("PlaylistsSkippedOwner = %d, want 1", result.PlaylistsSkippedOwner)
	}
	if result.TotalUniqueTracks != 3 {
		t.Errorf("TotalUniqueTracks = %d, want 3 (foreign playlist excluded)", result.TotalUniqueTracks)
	}

	if len(result.FavoritesPlaylists) != 1 || result.FavoritesPlaylists[0] != "Best Songs Ever" {
		t.Errorf("FavoritesPlaylists = %v, want [Best Songs Ever]", result.FavoritesPlaylists)
	}

	anthem := findRanked(result.LikelyFavorites, "t1")
	if anthem == nil {
		t.Fatal("track in two playlists missing from likely favorites")
	}
	if !anthem.Track.InFavorites {
		t.Errorf("track from a favorites playlist not flagged")
	}

	if len(result.Tracks) != 3 {
		t.Fatalf("Tracks has %d entries, want 3", len(result.Tracks))
	}
	if result.Tracks[0].ID != "t1" {
		t.Errorf("Tracks[0] = %q, want the multi-playlist track first", result.Tracks[0].ID)
	}
}

func TestAnalyzeUserClassification(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	result := New(Config{Now: now}).AnalyzeUser(testUserData(), "alice")

	if len(result.Playlists.Active) != 1 || result.Playlists.Active[0] != "Best Songs Ever" {
		t.Errorf("Active = %v, want [Best Songs Ever]", result.Playlists.Active)
	}
	if len(result.Playlists.Archive) != 1 || result.Playlists.Archive[0] != "Commute" {
		t.Errorf("Archive = %v, want [Commute]", result.Playlists.Archive)
	}
}

func TestAnalyzeUserHorizon(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	result := New(Config{Now: now, HorizonCutoff: &cutoff}).AnalyzeUser(testUserData(), "alice")

	// Both p2 items predate the cutoff; only the two p1 adds survive.
	if result.TotalUniqueTracks != 2 {
		t.Errorf("TotalUniqueTracks = %d, want 2", result.TotalUniqueTracks)
	}
	if result.TracksFiltered != 2 {
		t.Errorf("TracksFiltered = %d, want 2", result.TracksFiltered)
	}

	// Classification still sees the raw dates, so the old playlist is
	// archive because of age, not because its items were filtered.
	if len(result.Playlists.Archive) != 1 {
		t.Errorf("Archive = %v, want the stale playlist", result.Playlists.Archive)
	}
}

func TestAnalyzeUserNoOwnedPlaylists(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	result := New(Config{Now: now}).AnalyzeUser(testUserData(), "carol")

	if result.PlaylistsAnalyzed != 0 {
		t.Errorf("PlaylistsAnalyzed = %d, want 0", result.PlaylistsAnalyzed)
	}
	if result.PlaylistsSkippedOwner != 3 {
		t.Errorf("PlaylistsSkippedOwner = %d, want 3", result.PlaylistsSkippedOwner)
	}
	if result.TotalUniqueTracks != 0 {
		t.Errorf("TotalUniqueTracks = %d, want 0", result.TotalUniqueTracks)
	}
}

func TestAnalyzeSelf(t *testing.T) {
	data := &catalog.SelfData{
		UserInfo: catalog.Profile{ID: "alice", DisplayName: "Alice"},
		TopTracks: map[string][]catalog.TopTrackData{
			"short_term": {
				{Name: "New Obsession", Artists: []catalog.ArtistRef{{ID: "a1", Name: "Newcomer"}}, Album: "Debut"},
			},
			"long_term": {
				{Name: "Perennial", Artists: []catalog.ArtistRef{{ID: "a2", Name: "Staple"}}, Album: "Classic"},
			},
		},
		TopArtists: map[string][]catalog.TopArtistData{
			"short_term": {{Name: "Newcomer"}, {Name: "Staple"}},
			"long_term":  {{Name: "Staple"}},
		},
	}

	result := New(Config{Now: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)}).AnalyzeSelf(data)

	if !result.SelfAnalysis {
		t.Errorf("SelfAnalysis not set")
	}
	short := result.TopTracks["short_term"]
	if len(short) != 1 || short[0].Rank != 1 || short[0].Name != "New Obsession" {
		t.Errorf("short-term top tracks = %v", short)
	}
	if result.Trends == nil {
		t.Fatal("Trends missing")
	}
	if len(result.Trends.RisingArtists) != 1 || result.Trends.RisingArtists[0] != "Newcomer" {
		t.Errorf("RisingArtists = %v, want [Newcomer]", result.Trends.RisingArtists)
	}
	if len(result.Trends.ConsistentFavorites) != 1 || result.Trends.ConsistentFavorites[0] != "Staple" {
		t.Errorf("ConsistentFavorites = %v, want [Staple]", result.Trends.ConsistentFavorites)
	}
}

func findRanked(ranked []RankedTrack, id string) *RankedTrack {
	for i := range ranked {
		if ranked[i].Track.ID == id {
			return &ranked[i]
		}
	}
	return nil
}
