package commands

import (
	"studio-metrics/internal/api"
	"studio-metrics/internal/config"
	"studio-metrics/internal/logging"
	"studio-metrics/internal/metrics"
	"studio-metrics/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	storeClient store.Client
)

var rootCmd = &cobra.Command{
	Use:   "studio-metrics",
	Short: "Studio-Metrics is an analytics backend for class-booking studios",
	Long: `An analytics service that computes sales, retention, occupancy and client-activity
reports from a studio's booking and credit-package data store.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configuration first: it resolves the log directory. Anything
		// logged before Init goes to the default stderr logger.
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		logging.Init(verbose, cfg.LogDir)

		// Initialize data store client
		storeClient = store.NewClient(cfg.Store)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Studio-Metrics starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		dir := metrics.LoadDirectory(cmd.Context(), storeClient)
		engine := metrics.NewEngine(storeClient, dir)
		server := api.NewServer(engine, cfg.HTTPAddr, cfg.CORSOrigin)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("HTTP server terminated")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(reportCmd)
}
