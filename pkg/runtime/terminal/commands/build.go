package commands

import (
	"fmt"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/de-tools/pivot-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/pivot-atlas/pkg/services/config"
	"github.com/de-tools/pivot-atlas/pkg/services/pivot"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildCmd replays a scripted sequence of UI events against a fresh builder
// and prints the resulting configuration. Events name items by column key.
//
//	events:
//	  - type: drag_start
//	    item: region
//	  - type: drag_end
//	    item: region
//	    over: rows
type BuildCmd struct {
	columns     []string
	source      SourceOptions
	table       string
	presetsPath string
	preset      string
	eventsPath  string
	strict      bool
	open        SourceOpener
	reporter    *export.Reporter
}

func NewBuildCmd(open SourceOpener, reporter *export.Reporter) *cobra.Command {
	bc := &BuildCmd{open: open, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a pivot configuration from columns, a preset and scripted events",
		RunE:  bc.run,
	}

	cmd.Flags().StringSliceVar(&bc.columns, "columns", nil, "Comma separated column names")
	bc.source.bindFlags(cmd)
	cmd.Flags().StringVar(&bc.table, "table", "", "Discover columns from this table instead of --columns")
	cmd.Flags().StringVar(&bc.presetsPath, "presets", "", "Path to the presets INI file")
	cmd.Flags().StringVar(&bc.preset, "preset", "", "Preset to start from")
	cmd.Flags().StringVar(&bc.eventsPath, "events", "", "YAML or JSON file with an events list")
	cmd.Flags().BoolVar(&bc.strict, "strict", false, "Fail on internal invariant violations")

	cmd.MarkFlagsMutuallyExclusive("columns", "table")
	cmd.MarkFlagsOneRequired("columns", "table")
	cmd.MarkFlagsRequiredTogether("presets", "preset")

	return cmd
}

func (bc *BuildCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	columns := bc.columns
	if bc.table != "" {
		discovered, err := discoverColumns(cmd, bc.open, bc.source, bc.table)
		if err != nil {
			return err
		}
		columns = discovered
	}

	var initial domain.InitialConfig
	if bc.preset != "" {
		registry, err := config.NewPresetRegistry(bc.presetsPath)
		if err != nil {
			return err
		}
		if initial, err = registry.GetPreset(ctx, bc.preset); err != nil {
			return err
		}
	}

	events, err := loadEvents(bc.eventsPath)
	if err != nil {
		return err
	}

	builder := pivot.NewBuilder(pivot.Options{Logger: *logger, Strict: bc.strict})
	if err := builder.Initialize(columns, initial); err != nil {
		return fmt.Errorf("failed to initialize pivot: %w", err)
	}

	for i, ev := range events {
		changed, err := builder.Apply(resolveKeys(builder, ev))
		if err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Type, err)
		}
		logger.Debug().
			Int("event", i+1).
			Str("type", string(ev.Type)).
			Bool("changed", changed).
			Msg("event applied")
	}

	report := domain.NewReport("Pivot configuration", builder.Configuration(), builder.Zone(domain.ZoneAvailable))
	return bc.reporter.Handle(report)
}

func loadEvents(path string) ([]pivot.Event, error) {
	if path == "" {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var events []pivot.Event
	if err := v.UnmarshalKey("events", &events); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	return events, nil
}

// resolveKeys swaps column keys for item ids. Zone names in Over win over a
// column with the same key; unknown keys pass through unchanged.
func resolveKeys(b *pivot.Builder, ev pivot.Event) pivot.Event {
	lookup := func(key string) string {
		if item, _, ok := b.ItemByKey(key); ok {
			return item.ID
		}
		return key
	}

	ev.Item = lookup(ev.Item)
	ev.Before = lookup(ev.Before)
	if !domain.ZoneID(ev.Over).IsValid() {
		ev.Over = lookup(ev.Over)
	}
	return ev
}
