package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type ColumnsCmd struct {
	source SourceOptions
	table  string
	open   SourceOpener
}

func NewColumnsCmd(open SourceOpener) *cobra.Command {
	cc := &ColumnsCmd{open: open}
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the columns a report table exposes",
		RunE:  cc.run,
	}

	cc.source.bindFlags(cmd)
	cmd.Flags().StringVar(&cc.table, "table", "", "Table name, optionally catalog.schema.table")

	_ = cmd.MarkFlagRequired("driver")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func (cc *ColumnsCmd) run(cmd *cobra.Command, args []string) error {
	names, err := discoverColumns(cmd, cc.open, cc.source, cc.table)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No columns found for table: %s\n", cc.table)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Columns of %s:\n%s\n", cc.table, strings.Join(names, "\n"))
	return nil
}

func discoverColumns(cmd *cobra.Command, open SourceOpener, opts SourceOptions, table string) ([]string, error) {
	source, closer, err := open(cmd.Context(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open column source %s: %w", opts.Driver, err)
	}
	if closer != nil {
		defer closer.Close()
	}

	names, err := source.Columns(cmd.Context(), table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return names, nil
}
