package commands

import (
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the target database",
		Example: `  rowdesk tables
  rowdesk tables -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tables, err := cc.Service.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, len(tables))
			for i, t := range tables {
				names[i] = t.Name
			}
			return cc.Renderer.Strings("table", names)
		},
	}
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "columns <table>",
		Short:   "List the columns of a table",
		Example: `  rowdesk columns users`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			columns, err := cc.Service.ListColumns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cc.Renderer.Strings("column", columns)
		},
	}
}

// NewValuesCommand creates the values command.
func NewValuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "values <table> <column>",
		Short:   "List the distinct values of a column",
		Example: `  rowdesk values users role`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			values, err := cc.Service.DistinctValues(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return cc.Renderer.List(args[1], values)
		},
	}
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query <table> [projection]",
		Short: "Run a projection query against a table",
		Long: `Select columns from a table.

The projection is a comma-separated list of column names, each optionally
wrapped in one aggregate function such as SUM or COUNT. Without a
projection every row of the table is returned.`,
		Example: `  rowdesk query users "id, name"
  rowdesk query orders "SUM(amount)"
  rowdesk query users -o csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				rows, err := cc.Service.TableRows(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return cc.Renderer.Rows(rows)
			}

			rows, err := cc.Service.Query(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return cc.Renderer.Rows(rows)
		},
	}
}
