package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/pivot-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type PresetsCmd struct {
	presetsPath string
}

func NewPresetsCmd() *cobra.Command {
	pc := &PresetsCmd{}
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the initial configurations defined in a presets file",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.presetsPath, "presets", "", "Path to the presets INI file")
	_ = cmd.MarkFlagRequired("presets")

	return cmd
}

func (pc *PresetsCmd) run(cmd *cobra.Command, args []string) error {
	registry, err := config.NewPresetRegistry(pc.presetsPath)
	if err != nil {
		return err
	}

	presets, err := registry.GetPresets(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list presets: %w", err)
	}
	if len(presets) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No presets found in: %s\n", pc.presetsPath)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Presets in %s:\n%s\n", pc.presetsPath, strings.Join(presets, "\n"))
	return nil
}
