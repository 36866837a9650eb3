package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/databricks/databricks-sdk-go/config"
	pivotconfig "github.com/de-tools/pivot-atlas/pkg/services/config"
	"github.com/de-tools/pivot-atlas/pkg/store/columns"
	"github.com/spf13/cobra"
)

const catalogDriver = "unity-catalog"

// SourceOpener returns a column source for the given connection settings.
// The closer may be nil.
type SourceOpener func(ctx context.Context, opts SourceOptions) (columns.Source, io.Closer, error)

type SourceOptions struct {
	Driver string
	DSN    string
	Files  map[string]string

	// Unity Catalog: either a .databrickscfg profile or host and token.
	ConfigPath string
	Profile    string
	Host       string
	Token      string
}

func (o *SourceOptions) bindFlags(cmd *cobra.Command) {
	defaultPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath = filepath.Join(home, ".databrickscfg")
	}

	cmd.Flags().StringVar(&o.Driver, "driver", "",
		fmt.Sprintf("Column source: one of %v or %s", columns.SupportedDrivers, catalogDriver))
	cmd.Flags().StringVar(&o.DSN, "dsn", "", "Connection string for SQL drivers")
	cmd.Flags().StringToStringVar(&o.Files, "file", nil, "duckdb only: expose a CSV/Parquet/JSON file as a view (name=path)")
	cmd.Flags().StringVar(&o.ConfigPath, "databrickscfg", defaultPath, "Path to the .databrickscfg file")
	cmd.Flags().StringVar(&o.Profile, "profile", "", "Profile in the .databrickscfg file for "+catalogDriver)
	cmd.Flags().StringVar(&o.Host, "host", "", "Databricks workspace host for "+catalogDriver)
	cmd.Flags().StringVar(&o.Token, "token", "", "Databricks token for "+catalogDriver)
}

// OpenSource connects to a SQL warehouse, a local DuckDB or Unity Catalog.
func OpenSource(ctx context.Context, opts SourceOptions) (columns.Source, io.Closer, error) {
	if opts.Driver == catalogDriver {
		cfg, err := workspaceConfig(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		source, err := columns.NewCatalogSource(cfg)
		return source, nil, err
	}

	db, err := columns.Connect(columns.Settings{Driver: opts.Driver, DSN: opts.DSN, Files: opts.Files})
	if err != nil {
		return nil, nil, err
	}
	source, err := columns.NewSQLSource(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return source, db, nil
}

func workspaceConfig(ctx context.Context, opts SourceOptions) (*config.Config, error) {
	if opts.Profile == "" {
		return &config.Config{Host: opts.Host, Token: opts.Token}, nil
	}

	registry, err := pivotconfig.NewProfileRegistry(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return registry.GetConfig(ctx, opts.Profile)
}
