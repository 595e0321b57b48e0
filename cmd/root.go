package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string
var clientID string
var clientSecret string
var cacheDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-curator",
	Short: "Analyzes a Spotify user's playlist curation",
	Long: `Scans a Spotify user's public playlists and reports which tracks are
true favorites versus crowd pleasers, which albums and artists dominate the
curation, and how listening behavior shifts over time.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-curator.yaml)")

	rootCmd.PersistentFlags().StringVar(
		&clientID, "client_id", "", "Spotify API client ID (or SPOTIFY_ID env)")
	viper.BindPFlag("client_id", rootCmd.PersistentFlags().Lookup("client_id"))
	viper.BindEnv("client_id", "SPOTIFY_ID")

	rootCmd.PersistentFlags().StringVar(
		&clientSecret, "client_secret", "", "Spotify API client secret (or SPOTIFY_SECRET env)")
	viper.BindPFlag("client_secret", rootCmd.PersistentFlags().Lookup("client_secret"))
	viper.BindEnv("client_secret", "SPOTIFY_SECRET")

	rootCmd.PersistentFlags().StringVar(
		&cacheDir, "cache-dir", "", "Directory for cached fetch data (default is $HOME/.spotify-curator/cache)")
	viper.BindPFlag("cache-dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Credentials may live in a .env file, matching the developer dashboard
	// setup instructions. Missing .env is fine.
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-curator" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-curator")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// getCredentials returns the API credentials or an error that aborts before
// any engine work begins.
func getCredentials() (id, secret string, err error) {
	id = viper.GetString("client_id")
	secret = viper.GetString("client_secret")
	if id == "" || secret == "" {
		return "", "", fmt.Errorf("missing Spotify credentials: set SPOTIFY_ID and SPOTIFY_SECRET (get credentials at https://developer.spotify.com/dashboard)")
	}
	return id, secret, nil
}

// getCacheDir resolves the cache directory, defaulting under home.
func getCacheDir() (string, error) {
	if dir := viper.GetString("cache-dir"); dir != "" {
		return dir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".spotify-curator", "cache"), nil
}
