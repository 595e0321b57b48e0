package analysis

// evergreenSpanDays is the minimum spread between a track's first and last
// playlist additions for it to count as an evergreen favorite.
const evergreenSpanDays = 180

// TemporalSummary reports timing-based listening patterns.
type TemporalSummary struct {
	EvergreenTrackIDs  []string `json:"evergreen_track_ids" yaml:"evergreen_track_ids"`
	EarlyAdopterTracks []string `json:"early_adopter_tracks" yaml:"early_adopter_tracks"`
	FirstMonthTracks   []string `json:"first_month_tracks" yaml:"first_month_tracks"`
	EvergreenCount     int      `json:"evergreen_count" yaml:"evergreen_count"`
	EarlyAdopterCount  int      `json:"early_adopter_count" yaml:"early_adopter_count"`
	FirstMonthCount    int      `json:"first_month_count" yaml:"first_month_count"`
}

// AnalyzeTemporalPatterns finds evergreen tracks (re-added to different
// playlists at least six months apart) and early-adopter behavior (added
// within the first week or month of release). It sets each evergreen track's
// flag, so it must run before affinity scores are read.
func AnalyzeTemporalPatterns(s *Store) TemporalSummary {
	summary := TemporalSummary{}

	for _, track := range s.Tracks() {
		if len(track.AddedDates) > 1 {
			earliest, _ := track.EarliestAdded()
			latest, _ := track.LatestAdded()
			if daysBetween(earliest, latest) >= evergreenSpanDays {
				track.Evergreen = true
				summary.EvergreenTrackIDs = append(summary.EvergreenTrackIDs, track.ID)
			}
		}

		if release, ok := parseReleaseDate(track.ReleaseDate, track.ReleaseDatePrecision); ok {
			if earliest, ok := track.EarliestAdded(); ok {
				switch days := daysBetween(release, earliest); {
				case days >= 0 && days < 7:
					summary.EarlyAdopterTracks = append(summary.EarlyAdopterTracks, track.ID)
				case days >= 0 && days < 30:
					summary.FirstMonthTracks = append(summary.FirstMonthTracks, track.ID)
				}
			}
		}
	}

	summary.EvergreenCount = len(summary.EvergreenTrackIDs)
	summary.EarlyAdopterCount = len(summary.EarlyAdopterTracks)
	summary.FirstMonthCount = len(summary.FirstMonthTracks)
	return summary
}
