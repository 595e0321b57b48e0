package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"spotify-curator/internal/analysis"
)

var timeRangeLabels = map[string]string{
	"short_term":  "Last 4 Weeks",
	"medium_term": "Last 6 Months",
	"long_term":   "All Time",
}

// renderResult prints the analysis as terminal tables, topN entries each.
func renderResult(out io.Writer, result *analysis.Result, topN int) {
	if result.SelfAnalysis {
		renderSelfResult(out, result, topN)
		return
	}

	fmt.Fprintf(out, "\nPlaylist analysis for %s (%s)\n", result.User.DisplayName, result.User.URL)
	fmt.Fprintf(out, "Playlists: %d analyzed", result.PlaylistsAnalyzed)
	if result.PlaylistsSkippedOwner > 0 {
		fmt.Fprintf(out, " (%d skipped, not owned by user)", result.PlaylistsSkippedOwner)
	}
	fmt.Fprintf(out, "\nUnique tracks: %d\n", result.TotalUniqueTracks)

	if result.HorizonCutoff != nil {
		fmt.Fprintf(out, "Horizon: counting additions since %s", result.HorizonCutoff.Format("2006-01-02"))
		var parts []string
		if result.TracksFiltered > 0 {
			parts = append(parts, fmt.Sprintf("%d outside time horizon", result.TracksFiltered))
		}
		if result.TracksMissingAddDate > 0 {
			parts = append(parts, fmt.Sprintf("%d missing add date", result.TracksMissingAddDate))
		}
		if len(parts) > 0 {
			fmt.Fprintf(out, " (filtered out %s)", strings.Join(parts, ", "))
		}
		fmt.Fprintln(out)
	}

	if len(result.FavoritesPlaylists) > 0 {
		fmt.Fprintf(out, "Favorites playlists: %s\n", strings.Join(result.FavoritesPlaylists, ", "))
	}

	renderFrequency(out, result.Tracks, topN)
	renderFavorites(out, result.LikelyFavorites, topN)
	renderVersatile(out, result.VersatileTracks, topN)
	renderAlbums(out, result, topN)
	renderArtists(out, result, topN)
	renderTemporal(out, result)
	renderClassification(out, result)
}

func renderFrequency(out io.Writer, tracks []*analysis.Track, topN int) {
	var repeated []*analysis.Track
	for _, track := range tracks {
		if track.Count() > 1 {
			repeated = append(repeated, track)
		}
	}
	if len(repeated) == 0 {
		return
	}

	fmt.Fprintf(out, "\n## Most Repeated Tracks\n")
	table := tablewriter.NewWriter(out)
	table.Header([]string{"#", "Track", "Artist", "Playlists", "Weight"})
	for i, track := range repeated {
		if i >= topN {
			break
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			truncate(track.Name, 35),
			truncate(track.ArtistLine(), 25),
			strconv.Itoa(track.Count()),
			strconv.Itoa(track.FavoritesWeight()),
		})
	}
	table.Render()
}

func renderFavorites(out io.Writer, favorites []analysis.RankedTrack, topN int) {
	if len(favorites) == 0 {
		return
	}

	fmt.Fprintf(out, "\n## Likely All-Time Favorites\n")
	table := tablewriter.NewWriter(out)
	table.Header([]string{"#", "Track", "Artist", "Score", "Playlists", "Fav"})
	for i, r := range favorites {
		if i >= topN {
			break
		}
		fav := ""
		if r.Track.InFavorites {
			fav = "*"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			truncate(r.Track.Name, 35),
			truncate(r.Track.ArtistLine(), 25),
			strconv.Itoa(r.Affinity),
			strconv.Itoa(r.Track.Count()),
			fav,
		})
	}
	table.Render()
}

func renderVersatile(out io.Writer, versatile []analysis.RankedTrack, topN int) {
	if len(versatile) == 0 {
		return
	}

	fmt.Fprintf(out, "\n## Versatile Crowd Pleasers\n")
	table := tablewriter.NewWriter(out)
	table.Header([]string{"#", "Track", "Artist", "Score", "Playlists"})
	for i, r := range versatile {
		if i >= topN {
			break
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			truncate(r.Track.Name, 35),
			truncate(r.Track.ArtistLine(), 25),
			strconv.Itoa(r.Versatility),
			strconv.Itoa(r.Track.Count()),
		})
	}
	table.Render()
}

func renderAlbums(out io.Writer, result *analysis.Result, topN int) {
	if len(result.Albums) == 0 {
		return
	}

	fmt.Fprintf(out, "\n## Top Albums (%d likely favorites)\n", len(result.FavoriteAlbums))
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Album", "Artist", "Tracks", "Total", "Complete", "Fav"})
	for i, album := range result.Albums {
		if i >= topN {
			break
		}
		total := "?"
		completion := "-"
		if album.TotalTracksInAlbum > 0 {
			total = strconv.Itoa(album.TotalTracksInAlbum)
			completion = fmt.Sprintf("%d%%", album.CompletionPercent())
		}
		fav := ""
		if album.LikelyFavorite() {
			fav = "*"
		}
		table.Append([]string{
			truncate(album.Name, 35),
			truncate(album.Artist, 25),
			strconv.Itoa(len(album.Tracks)),
			total,
			completion,
			fav,
		})
	}
	table.Render()
}

func renderArtists(out io.Writer, result *analysis.Result, topN int) {
	if len(result.Artists) == 0 {
		return
	}

	fmt.Fprintf(out, "\n## Top Artists\n")
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Unique Tracks", "Appearances", "Fan Level"})
	for i, artist := range result.Artists {
		if i >= topN {
			break
		}
		table.Append([]string{
			truncate(artist.Name, 30),
			strconv.Itoa(artist.UniqueTracks),
			strconv.Itoa(artist.TotalAppearances),
			artist.FanLevel(),
		})
	}
	table.Render()
}

func renderTemporal(out io.Writer, result *analysis.Result) {
	t := result.Temporal
	if t.EvergreenCount == 0 && t.EarlyAdopterCount == 0 && t.FirstMonthCount == 0 {
		return
	}

	fmt.Fprintf(out, "\n## Temporal Patterns\n")
	fmt.Fprintf(out, "Evergreen tracks (re-added 6+ months apart): %d\n", t.EvergreenCount)
	fmt.Fprintf(out, "Early adopter picks (added within a week of release): %d\n", t.EarlyAdopterCount)
	fmt.Fprintf(out, "First-month picks (added within a month of release): %d\n", t.FirstMonthCount)
}

func renderClassification(out io.Writer, result *analysis.Result) {
	fmt.Fprintf(out, "\n## Playlist Rotation\n")
	fmt.Fprintf(out, "Active (%d): %s\n", len(result.Playlists.Active), joinOrNone(result.Playlists.Active))
	fmt.Fprintf(out, "Archive (%d): %s\n", len(result.Playlists.Archive), joinOrNone(result.Playlists.Archive))
}

func renderSelfResult(out io.Writer, result *analysis.Result, topN int) {
	fmt.Fprintf(out, "\nListening analysis for %s (%s)\n", result.User.DisplayName, result.User.URL)
	if result.User.Country != "" {
		fmt.Fprintf(out, "Country: %s  Account: %s  Followers: %d\n",
			result.User.Country, result.User.Product, result.User.Followers)
	}

	for _, timeRange := range []string{"short_term", "medium_term", "long_term"} {
		tracks := result.TopTracks[timeRange]
		fmt.Fprintf(out, "\n## Top Tracks (%s)\n", timeRangeLabels[timeRange])
		if len(tracks) == 0 {
			fmt.Fprintln(out, "No data available.")
		} else {
			table := tablewriter.NewWriter(out)
			table.Header([]string{"#", "Track", "Artist", "Album"})
			for i, t := range tracks {
				if i >= topN {
					break
				}
				table.Append([]string{
					strconv.Itoa(t.Rank),
					truncate(t.Name, 35),
					truncate(t.ArtistLine(), 25),
					truncate(t.Album, 25),
				})
			}
			table.Render()
		}

		artists := result.TopArtists[timeRange]
		fmt.Fprintf(out, "\n## Top Artists (%s)\n", timeRangeLabels[timeRange])
		if len(artists) == 0 {
			fmt.Fprintln(out, "No data available.")
		} else {
			table := tablewriter.NewWriter(out)
			table.Header([]string{"#", "Artist", "Genres", "Popularity"})
			for i, a := range artists {
				if i >= topN {
					break
				}
				table.Append([]string{
					strconv.Itoa(a.Rank),
					truncate(a.Name, 30),
					truncate(a.GenreLine(), 35),
					strconv.Itoa(a.Popularity),
				})
			}
			table.Render()
		}
	}

	if result.Trends != nil {
		fmt.Fprintf(out, "\n## Trends\n")
		fmt.Fprintf(out, "Rising artists: %s\n", joinOrNone(result.Trends.RisingArtists))
		fmt.Fprintf(out, "Consistent favorites: %s\n", joinOrNone(result.Trends.ConsistentFavorites))
		fmt.Fprintf(out, "New discoveries: %s\n", joinOrNone(result.Trends.NewDiscoveries))
	}
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
