package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/octofit/dashboard/go/internal/config"
)

var (
	envFile string
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:           "dashboard",
	Short:         "OctoFit dashboard server and CLI",
	Long:          "dashboard renders the OctoFit Tracker views (users, activities, teams, leaderboard and workouts) from the OctoFit REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load(envFile)
		setupLogging(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		if envErr != nil {
			if errors.Is(envErr, fs.ErrNotExist) {
				log.Debug().Str("file", envFile).Msg("no env file found")
			} else {
				log.Warn().Err(envErr).Str("file", envFile).Msg("could not load env file")
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "OctoFit API base URL (overrides API_BASE_URL)")
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	return cfg, nil
}

func setupLogging(level, format string) {
	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
