package commands

import (
	"log/slog"
	"os"
	"time"

	"arenafeed/lib/configutil"
	"arenafeed/lib/restyutil"
	"arenafeed/lib/scrapers/arena"
	"arenafeed/lib/scrapers/catalog"
	"arenafeed/lib/serviceutil"
	"arenafeed/services/leaderboard"

	"github.com/spf13/cobra"
)

type Config struct {
	ArenaBaseUrl   string `json:"arena_base_url"`
	CatalogBaseUrl string `json:"catalog_base_url"`
	DataDir        string `json:"data_dir"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Retries        int    `json:"retries"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	if cfg.ArenaBaseUrl == "" {
		cfg.ArenaBaseUrl = "https://arena.ai"
	}
	if cfg.CatalogBaseUrl == "" {
		cfg.CatalogBaseUrl = "https://raw.githubusercontent.com/lmarena/arena-catalog/main/data"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 75
	}
	return cfg
}

var refreshDataDir *string
var refreshOnly *[]string
var refreshDebugHttp *string

func init() {
	refreshDataDir = refreshCmd.Flags().String("data-dir", "", "Override the output directory.")
	refreshOnly = refreshCmd.Flags().StringSlice("only", nil, "Refresh only the named variants (e.g. text,vision-style-control).")
	refreshDebugHttp = refreshCmd.Flags().String("debug-http", "", "Dump raw request/response pairs to this directory.")
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [--data-dir <dir>] [--only <variants>]",
	Short: "Scrapes the live arena leaderboard pages and rewrites the data files.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if *refreshDataDir != "" {
			cfg.DataDir = *refreshDataDir
		}

		variants, err := leaderboard.SelectVariants(*refreshOnly)
		if err != nil {
			serviceutil.Fatal("failed to select variants", err)
		}

		arenaClient, err := arena.NewClient(arena.ClientOptions{
			BaseUrl: cfg.ArenaBaseUrl,
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
			Retries: cfg.Retries,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize arena client", err)
		}
		if *refreshDebugHttp != "" {
			arenaClient.SetInstrumentOutput(restyutil.NewFilesystemOutput(*refreshDebugHttp))
		}
		catalogClient := catalog.NewClient(catalog.ClientOptions{
			BaseUrl: cfg.CatalogBaseUrl,
		})

		service := leaderboard.NewService(arenaClient, catalogClient, leaderboard.Options{
			DataDir: cfg.DataDir,
		})

		t1 := time.Now()
		report := service.RefreshAll(cmd.Context(), variants)
		slog.Info("refresh time", "seconds", time.Since(t1).Seconds())

		if report.Failed() {
			os.Exit(1)
		}
	},
}
