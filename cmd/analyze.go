package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"spotify-curator/internal/analysis"
	"spotify-curator/internal/cache"
	"spotify-curator/internal/catalog"
)

var (
	analyzeSelf  bool
	topCount     int
	exportPath   string
	horizonStr   string
	noCache      bool
	refreshCache bool
	cacheTTL     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [user-id]",
	Short: "Analyzes a user's public playlists",
	Long: `Fetches all public playlists for a user (or, with --self, your own top
tracks and artists) and reports likely favorites, versatile tracks, album and
artist rollups, and temporal listening patterns. Fetched data is cached
locally so scoring can be re-run without hitting the API.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := runAnalysis(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		renderResult(os.Stdout, result, topCount)

		if exportPath != "" {
			if err := exportJSON(exportPath, result); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("Exported analysis to %s\n", exportPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeSelf, "self", false, "Analyze your own listening history (requires browser login)")
	analyzeCmd.Flags().IntVarP(&topCount, "top", "n", 20, "Number of entries to show per table")
	analyzeCmd.Flags().StringVar(&exportPath, "export", "", "Write the full analysis as JSON to this path")
	analyzeCmd.Flags().StringVar(&horizonStr, "horizon", "", "Only count tracks added within this period, like '1y', '6m', or '30d'")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the local cache entirely")
	analyzeCmd.Flags().BoolVar(&refreshCache, "refresh-cache", false, "Re-fetch even if cached data is fresh")
	analyzeCmd.Flags().IntVar(&cacheTTL, "cache-ttl", cache.DefaultTTLHours, "Cache expiration in hours")
}

// runAnalysis is the shared pipeline behind analyze and report.
func runAnalysis(args []string) (*analysis.Result, error) {
	if analyzeSelf == (len(args) == 1) {
		return nil, fmt.Errorf("specify either a user ID or --self")
	}

	cfg := analysis.Config{Now: time.Now().UTC()}
	if horizonStr != "" {
		cutoff, err := analysis.ParseHorizon(horizonStr, cfg.Now)
		if err != nil {
			return nil, err
		}
		cfg.HorizonCutoff = &cutoff
	}

	dir, err := getCacheDir()
	if err != nil {
		return nil, err
	}
	store := cache.New(dir)

	if analyzeSelf {
		return runSelfAnalysis(cfg, store)
	}
	return runUserAnalysis(cfg, store, args[0])
}

func runUserAnalysis(cfg analysis.Config, store *cache.Cache, userID string) (*analysis.Result, error) {
	var data catalog.UserData
	fromCache := false

	if !noCache && !refreshCache {
		if cachedAt, ok := store.Load(userID, &data); ok {
			fromCache = true
			fmt.Printf("Using cached data for user %s (cached: %s)\n", userID, cachedAt.Format(time.RFC3339))
		}
	}

	if !fromCache {
		clientID, clientSecret, err := getCredentials()
		if err != nil {
			return nil, err
		}

		ctx := context.Background()
		client, err := catalog.New(ctx, clientID, clientSecret)
		if err != nil {
			return nil, err
		}

		fetched, err := client.FetchUserData(ctx, userID)
		if err != nil {
			return nil, err
		}
		data = *fetched

		if !noCache {
			if err := store.Save(userID, &data, cacheTTL); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}

	result := analysis.New(cfg).AnalyzeUser(&data, userID)
	result.FromCache = fromCache
	return result, nil
}

func runSelfAnalysis(cfg analysis.Config, store *cache.Cache) (*analysis.Result, error) {
	clientID, clientSecret, err := getCredentials()
	if err != nil {
		return nil, err
	}

	// Authentication happens before the cache check: the cache key needs
	// the user ID, which only the authenticated profile provides.
	ctx := context.Background()
	client, err := catalog.NewAuthenticated(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	profile, err := client.CurrentProfile(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Authenticated as: %s\n", profile.DisplayName)

	// The self_ prefix keeps self-analysis entries apart from public ones.
	cacheKey := "self_" + profile.ID

	var data catalog.SelfData
	fromCache := false
	if !noCache && !refreshCache {
		if cachedAt, ok := store.Load(cacheKey, &data); ok {
			fromCache = true
			fmt.Printf("Using cached listening data (cached: %s)\n", cachedAt.Format(time.RFC3339))
		}
	}

	if !fromCache {
		fetched, err := client.FetchSelfData(ctx)
		if err != nil {
			return nil, err
		}
		data = *fetched

		if !noCache {
			if err := store.Save(cacheKey, &data, cacheTTL); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}

	result := analysis.New(cfg).AnalyzeSelf(&data)
	result.FromCache = fromCache
	return result, nil
}

func exportJSON(path string, result *analysis.Result) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
