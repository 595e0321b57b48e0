package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spotify-curator/internal/cache"
)

var clearAll bool

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache [user-id]",
	Short: "Removes cached fetch data",
	Long:  `Deletes the cached data for one user, or every cached entry with --all.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := clearCache(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(clearCacheCmd)

	clearCacheCmd.Flags().BoolVar(&clearAll, "all", false, "Clear every cached entry")
}

func clearCache(args []string) error {
	dir, err := getCacheDir()
	if err != nil {
		return err
	}
	store := cache.New(dir)

	switch {
	case clearAll:
		if err := store.ClearAll(); err != nil {
			return err
		}
		fmt.Println("Cleared all cached data")

	case len(args) == 1:
		if err := store.Clear(args[0]); err != nil {
			return err
		}
		fmt.Printf("Cleared cache for user %s\n", args[0])

	default:
		return fmt.Errorf("specify a user ID or --all")
	}
	return nil
}
