package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"spotify-curator/internal/cache"
)

var reportCmd = &cobra.Command{
	Use:   "report [user-id]",
	Short: "Dumps the full analysis as YAML",
	Long: `Runs the same analysis as 'analyze' but writes the complete result to
stdout as YAML instead of rendering tables. Useful for diffing runs or
feeding other tools.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runYAMLReport(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&analyzeSelf, "self", false, "Analyze your own listening history (requires browser login)")
	reportCmd.Flags().StringVar(&horizonStr, "horizon", "", "Only count tracks added within this period, like '1y', '6m', or '30d'")
	reportCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the local cache entirely")
	reportCmd.Flags().BoolVar(&refreshCache, "refresh-cache", false, "Re-fetch even if cached data is fresh")
	reportCmd.Flags().IntVar(&cacheTTL, "cache-ttl", cache.DefaultTTLHours, "Cache expiration in hours")
}

func runYAMLReport(args []string) error {
	result, err := runAnalysis(args)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
