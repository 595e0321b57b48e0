package analysis

import (
	"testing"
	"time"

	"spotify-curator/internal/catalog"
)

// albumItem builds a playlist item for a track on a shared album.
func albumItem(id, name, albumID string, totalTracks int) catalog.PlaylistItem {
	return catalog.PlaylistItem{
		AddedAt: "2023-01-01T00:00:00Z",
		Track: &catalog.TrackData{
			ID:      id,
			Name:    name,
			Artists: []catalog.ArtistRef{{ID: "shared-artist", Name: "Shared Artist"}},
			Album:   catalog.AlbumData{ID: albumID, Name: "Album " + albumID, TotalTracks: totalTracks},
		},
	}
}

func TestAggregateAlbums(t *testing.T) {
	s := NewStore()
	s.Ingest("Playlist A", false, []catalog.PlaylistItem{
		albumItem("t1", "One", "alb1", 10),
		albumItem("t2", "Two", "alb1", 10),
		albumItem("t3", "Three", "alb2", 0),
	}, nil)
	s.Ingest("Playlist B", false, []catalog.PlaylistItem{
		albumItem("t1", "One", "alb1", 10),
	}, nil)

	albums := AggregateAlbums(s)
	if len(albums) != 2 {
		t.Fatalf("got %d albums, want 2", len(albums))
	}

	byID := make(map[string]*AlbumStats)
	for _, a := range albums {
		byID[a.AlbumID] = a
	}

	alb1 := byID["alb1"]
	if len(alb1.Tracks) != 2 {
		t.Errorf("alb1 has %d distinct tracks, want 2", len(alb1.Tracks))
	}
	if alb1.TotalAppearances != 3 {
		t.Errorf("alb1 TotalAppearances = %d, want 3", alb1.TotalAppearances)
	}
	if ratio := alb1.CompletionRatio(); ratio != 0.2 {
		t.Errorf("alb1 CompletionRatio() = %v, want 0.2", ratio)
	}
	if pct := alb1.CompletionPercent(); pct != 20 {
		t.Errorf("alb1 CompletionPercent() = %d, want 20", pct)
	}

	alb2 := byID["alb2"]
	if ratio := alb2.CompletionRatio(); ratio != 0 {
		t.Errorf("album with unknown track total has CompletionRatio() = %v, want 0", ratio)
	}
}

func TestAggregateAlbumsBackfillsTotalTracks(t *testing.T) {
	s := NewStore()
	first := albumItem("t1", "One", "alb1", 0)
	second := albumItem("t2", "Two", "alb1", 12)
	s.Ingest("Playlist A", false, []catalog.PlaylistItem{first, second}, nil)

	albums := AggregateAlbums(s)
	if len(albums) != 1 {
		t.Fatalf("got %d albums, want 1", len(albums))
	}
	if albums[0].TotalTracksInAlbum != 12 {
		t.Errorf("TotalTracksInAlbum = %d, want backfilled 12", albums[0].TotalTracksInAlbum)
	}
}

func TestAggregateAlbumsSkipsMissingAlbumID(t *testing.T) {
	s := NewStore()
	s.Ingest("Playlist A", false, []catalog.PlaylistItem{albumItem("t1", "One", "", 0)}, nil)

	if albums := AggregateAlbums(s); len(albums) != 0 {
		t.Errorf("got %d albums for tracks without album IDs, want 0", len(albums))
	}
}

func TestAlbumLikelyFavorite(t *testing.T) {
	cases := []struct {
		tracks int
		total  int
		want   bool
	}{
		{3, 5, true},   // 60% with 3 tracks
		{2, 3, false},  // over half but under 3 tracks
		{3, 6, false},  // exactly half is not enough
		{5, 5, true},   // complete album
		{3, 0, false},  // unknown total
		{10, 40, false}, // many tracks, low completion
	}

	for _, tc := range cases {
		album := &AlbumStats{TotalTracksInAlbum: tc.total}
		for i := 0; i < tc.tracks; i++ {
			album.Tracks = append(album.Tracks, string(rune('a'+i)))
		}
		if got := album.LikelyFavorite(); got != tc.want {
			t.Errorf("LikelyFavorite() with %d/%d tracks = %v, want %v", tc.tracks, tc.total, got, tc.want)
		}
	}
}

func TestAggregateArtists(t *testing.T) {
	s := NewStore()
	s.Ingest("Playlist A", false, []catalog.PlaylistItem{
		albumItem("t1", "One", "alb1", 10),
		albumItem("t2", "Two", "alb1", 10),
	}, nil)
	s.Ingest("Playlist B", false, []catalog.PlaylistItem{
		albumItem("t1", "One", "alb1", 10),
	}, nil)

	artists := AggregateArtists(s)
	if len(artists) != 1 {
		t.Fatalf("got %d artists, want 1", len(artists))
	}
	artist := artists[0]
	if artist.Name != "Shared Artist" {
		t.Errorf("Name = %q, want %q", artist.Name, "Shared Artist")
	}
	if artist.UniqueTracks != 2 {
		t.Errorf("UniqueTracks = %d, want 2", artist.UniqueTracks)
	}
	if artist.TotalAppearances != 3 {
		t.Errorf("TotalAppearances = %d, want 3", artist.TotalAppearances)
	}
}

func TestAggregateArtistsSkipsEmptyID(t *testing.T) {
	s := NewStore()
	item := catalog.PlaylistItem{
		AddedAt: "2023-01-01T00:00:00Z",
		Track: &catalog.TrackData{
			ID:   "t1",
			Name: "One",
			Artists: []catalog.ArtistRef{
				{ID: "", Name: "Nameless Collective"},
				{ID: "a2", Name: "Named Artist"},
			},
		},
	}
	s.Ingest("Playlist A", false, []catalog.PlaylistItem{item}, nil)

	artists := AggregateArtists(s)
	if len(artists) != 1 {
		t.Fatalf("got %d artists, want 1", len(artists))
	}
	if artists[0].Name != "Named Artist" {
		t.Errorf("Name = %q, want the ID-bearing artist at the same index", artists[0].Name)
	}
}

func TestFanLevel(t *testing.T) {
	cases := []struct {
		unique int
		want   string
	}{
		{20, FanLevelSuper},
		{15, FanLevelSuper},
		{14, FanLevelBig},
		{8, FanLevelBig},
		{7, FanLevelFan},
		{4, FanLevelFan},
		{3, FanLevelCasual},
		{0, FanLevelCasual},
	}

	for _, tc := range cases {
		artist := &ArtistStats{UniqueTracks: tc.unique}
		if got := artist.FanLevel(); got != tc.want {
			t.Errorf("FanLevel() with %d unique tracks = %q, want %q", tc.unique, got, tc.want)
		}
	}
}

func TestBuildAggregateContext(t *testing.T) {
	s := NewStore()
	s.Ingest("Playlist A", false, []catalog.PlaylistItem{
		albumItem("t1", "One", "alb1", 10),
		albumItem("t2", "Two", "alb1", 10),
		albumItem("t3", "Three", "alb2", 5),
	}, nil)

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	ctx := BuildAggregateContext(s, map[string]int{"Playlist A": 3}, map[string]bool{"Playlist A": true}, now)

	if got := ctx.ArtistTrackCounts["shared-artist"]; got != 3 {
		t.Errorf("ArtistTrackCounts = %d, want 3", got)
	}
	if got := ctx.AlbumTrackCounts["alb1"]; got != 2 {
		t.Errorf("AlbumTrackCounts[alb1] = %d, want 2", got)
	}
	if !ctx.Now.Equal(now) {
		t.Errorf("Now = %v, want %v", ctx.Now, now)
	}
}
