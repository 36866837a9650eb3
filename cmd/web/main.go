package main

import (
	"fmt"
	"os"

	"github.com/de-tools/pivot-atlas/pkg/server"
	"github.com/de-tools/pivot-atlas/pkg/services/config"
	"github.com/de-tools/pivot-atlas/pkg/services/session"
	"github.com/de-tools/pivot-atlas/pkg/store/columns"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the pivot configuration builder",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the application config file (YAML, TOML or JSON); PIVOT_* env vars override it")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	var presets config.PresetRegistry
	if cfg.Pivot.PresetsPath != "" {
		presets, err = config.NewPresetRegistry(cfg.Pivot.PresetsPath)
		if err != nil {
			return fmt.Errorf("failed to create preset registry: %w", err)
		}

		names, _ := presets.GetPresets(ctx)
		logger.Info().Msgf("Presets found at `%s` successfully loaded.", cfg.Pivot.PresetsPath)
		for _, name := range names {
			logger.Info().Msgf("Preset: `%s`", name)
		}
	}

	var source columns.Source
	if cfg.Source.Driver != "" {
		db, err := columns.Connect(columns.Settings{
			Driver: cfg.Source.Driver,
			DSN:    cfg.Source.DSN,
			Files:  cfg.Source.Files,
		})
		if err != nil {
			return fmt.Errorf("failed to open column source: %w", err)
		}
		defer db.Close()

		if source, err = columns.NewSQLSource(db); err != nil {
			return fmt.Errorf("failed to create column source: %w", err)
		}
		logger.Info().Str("driver", cfg.Source.Driver).Msg("column discovery enabled")
	}

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Sessions: session.NewManager(session.Options{Strict: cfg.Pivot.Strict, Logger: logger}),
			Presets:  presets,
			Columns:  source,
			Logger:   logger,
		},
	})

	return api.Start()
}
