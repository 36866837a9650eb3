package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/pivot-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/pivot-atlas/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	logger   zerolog.Logger
	open     commands.SourceOpener
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logger zerolog.Logger
	// OpenSource defaults to commands.OpenSource.
	OpenSource commands.SourceOpener
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenSource == nil {
		opts.OpenSource = commands.OpenSource
	}

	cli := &CLI{
		logger:   opts.Logger,
		open:     opts.OpenSource,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx))
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pivot",
		Short:         "Pivot configuration builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewBuildCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewPresetsCmd())
	cmd.AddCommand(commands.NewColumnsCmd(cli.open))

	return cmd
}
