package analysis

import (
	"sort"
	"time"

	"spotify-curator/internal/catalog"
)

// Config carries the knobs for one analysis run. Now is the analysis
// instant; tests pin it so nothing depends on the wall clock.
type Config struct {
	Now               time.Time
	HorizonCutoff     *time.Time
	ActiveRecencyDays int // 0 means the ActiveRecencyDays default
}

func (c Config) recencyDays() int {
	if c.ActiveRecencyDays > 0 {
		return c.ActiveRecencyDays
	}
	return ActiveRecencyDays
}

// Classification splits the analyzed playlists into active rotation and
// archive by name.
type Classification struct {
	Active  []string `json:"active" yaml:"active"`
	Archive []string `json:"archive" yaml:"archive"`
}

// Result is everything one analysis run produces, consumed by the rendering
// and export layers.
type Result struct {
	User         catalog.Profile `json:"user" yaml:"user"`
	SelfAnalysis bool            `json:"is_self_analysis" yaml:"is_self_analysis"`
	FromCache    bool            `json:"from_cache" yaml:"from_cache"`

	TotalPlaylists        int      `json:"total_playlists" yaml:"total_playlists"`
	PlaylistsAnalyzed     int      `json:"playlists_analyzed" yaml:"playlists_analyzed"`
	PlaylistsSkippedOwner int      `json:"playlists_skipped_owner" yaml:"playlists_skipped_owner"`
	FavoritesPlaylists    []string `json:"favorites_playlists" yaml:"favorites_playlists"`

	TotalUniqueTracks    int        `json:"total_unique_tracks" yaml:"total_unique_tracks"`
	TracksFiltered       int        `json:"tracks_filtered" yaml:"tracks_filtered"`
	TracksMissingAddDate int        `json:"tracks_missing_added_at" yaml:"tracks_missing_added_at"`
	HorizonCutoff        *time.Time `json:"horizon_cutoff,omitempty" yaml:"horizon_cutoff,omitempty"`

	Tracks          []*Track        `json:"tracks" yaml:"tracks"`
	Albums          []*AlbumStats   `json:"albums" yaml:"albums"`
	Artists         []*ArtistStats  `json:"artists" yaml:"artists"`
	LikelyFavorites []RankedTrack   `json:"likely_favorites" yaml:"likely_favorites"`
	VersatileTracks []RankedTrack   `json:"versatile_tracks" yaml:"versatile_tracks"`
	FavoriteAlbums  []*AlbumStats   `json:"favorite_albums" yaml:"favorite_albums"`
	Temporal        TemporalSummary `json:"temporal_patterns" yaml:"temporal_patterns"`
	Playlists       Classification  `json:"playlist_classification" yaml:"playlist_classification"`

	// Self-analysis only, keyed by time range.
	TopTracks  map[string][]TopTrack  `json:"top_tracks,omitempty" yaml:"top_tracks,omitempty"`
	TopArtists map[string][]TopArtist `json:"top_artists,omitempty" yaml:"top_artists,omitempty"`
	Trends     *Trends                `json:"trends,omitempty" yaml:"trends,omitempty"`
}

// Analyzer runs the aggregation-and-scoring pipeline for one user. Create a
// fresh one per run; the dedup store is not reusable across users.
type Analyzer struct {
	cfg   Config
	store *Store
}

func New(cfg Config) *Analyzer {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now().UTC()
	}
	return &Analyzer{cfg: cfg, store: NewStore()}
}

// AnalyzeUser runs the full pipeline over raw fetched (or cached) data:
// owner filtering, classification, ingestion, aggregation, temporal
// analysis, scoring, and ranking. Only playlists owned by targetUser count.
func (a *Analyzer) AnalyzeUser(data *catalog.UserData, targetUser string) *Result {
	owned := make([]catalog.Playlist, 0, len(data.Playlists))
	skipped := 0
	for _, p := range data.Playlists {
		if p.Owner != targetUser {
			skipped++
			continue
		}
		owned = append(owned, p)
	}

	// Classify before ingestion: activity looks at raw add dates, not the
	// horizon-filtered view.
	sizes := make(map[string]int, len(owned))
	active := make(map[string]bool)
	var activeNames, archiveNames []string
	for _, p := range owned {
		sizes[p.Name] = p.TrackCount
		newest := newestAddDate(data.PlaylistTracks[p.ID])
		if IsActivePlaylist(newest, a.cfg.Now, a.cfg.recencyDays()) {
			active[p.Name] = true
			activeNames = append(activeNames, p.Name)
		} else {
			archiveNames = append(archiveNames, p.Name)
		}
	}

	// Favorites classification happens at analysis time, not fetch time, so
	// keyword changes apply to cached data too.
	var favoritesNames []string
	for _, p := range owned {
		isFavorites := IsFavoritesName(p.Name)
		if isFavorites {
			favoritesNames = append(favoritesNames, p.Name)
		}
		a.store.Ingest(p.Name, isFavorites, data.PlaylistTracks[p.ID], a.cfg.HorizonCutoff)
	}

	ctx := BuildAggregateContext(a.store, sizes, active, a.cfg.Now)

	// Temporal analysis mutates the evergreen flags affinity reads.
	temporal := AnalyzeTemporalPatterns(a.store)

	tracks := a.store.Tracks()
	sort.SliceStable(tracks, func(i, j int) bool {
		return lessByAppearances(tracks[i], tracks[j])
	})

	albums := AggregateAlbums(a.store)
	var favoriteAlbums []*AlbumStats
	for _, album := range albums {
		if album.LikelyFavorite() {
			favoriteAlbums = append(favoriteAlbums, album)
		}
	}

	return &Result{
		User:                  data.UserInfo,
		TotalPlaylists:        len(data.Playlists),
		PlaylistsAnalyzed:     len(owned),
		PlaylistsSkippedOwner: skipped,
		FavoritesPlaylists:    favoritesNames,
		TotalUniqueTracks:     a.store.Len(),
		TracksFiltered:        a.store.FilteredByHorizon,
		TracksMissingAddDate:  a.store.MissingAddDate,
		HorizonCutoff:         a.cfg.HorizonCutoff,
		Tracks:                tracks,
		Albums:                albums,
		Artists:               AggregateArtists(a.store),
		LikelyFavorites:       LikelyFavorites(a.store, ctx),
		VersatileTracks:       VersatileTracks(a.store, ctx),
		FavoriteAlbums:        favoriteAlbums,
		Temporal:              temporal,
		Playlists: Classification{
			Active:  activeNames,
			Archive: archiveNames,
		},
	}
}

// AnalyzeSelf turns raw self-analysis data into ranked top lists and trends.
func (a *Analyzer) AnalyzeSelf(data *catalog.SelfData) *Result {
	topTracks := make(map[string][]TopTrack, len(catalog.TimeRanges))
	topArtists := make(map[string][]TopArtist, len(catalog.TimeRanges))

	for _, timeRange := range catalog.TimeRanges {
		var tracks []TopTrack
		for i, raw := range data.TopTracks[timeRange] {
			artists := make([]string, len(raw.Artists))
			for j, ref := range raw.Artists {
				artists[j] = ref.Name
			}
			tracks = append(tracks, TopTrack{
				Rank:    i + 1,
				Name:    raw.Name,
				Artists: artists,
				Album:   raw.Album,
				URL:     raw.URL,
			})
		}
		topTracks[timeRange] = tracks

		var artists []TopArtist
		for i, raw := range data.TopArtists[timeRange] {
			artists = append(artists, TopArtist{
				Rank:       i + 1,
				Name:       raw.Name,
				Genres:     raw.Genres,
				Popularity: raw.Popularity,
				URL:        raw.URL,
			})
		}
		topArtists[timeRange] = artists
	}

	trends := AnalyzeTrends(topTracks, topArtists)

	return &Result{
		User:         data.UserInfo,
		SelfAnalysis: true,
		TopTracks:    topTracks,
		TopArtists:   topArtists,
		Trends:       &trends,
	}
}

// newestAddDate finds the most recent added_at across a playlist's items.
// Zero when no item has a parseable date.
func newestAddDate(items []catalog.PlaylistItem) time.Time {
	var newest time.Time
	for _, item := range items {
		if added, ok := parseAddedAt(item.AddedAt); ok && added.After(newest) {
			newest = added
		}
	}
	return newest
}
