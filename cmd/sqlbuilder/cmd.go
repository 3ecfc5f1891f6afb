package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/golobby/sqlbuilder"
	"github.com/golobby/sqlbuilder/op"
)

// Run the CLI with args, which must not contain the binary name.
func Run(ctx context.Context, args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sqlbuilder",
		Short:         "Inspect and query a database table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.String("driver", "sqlite3", "database driver: postgres, mysql, sqlite3 or sqlite")
	flags.String("host", "", "database host")
	flags.Int("port", 0, "database port")
	flags.String("database", "", "database name, or file for sqlite")
	flags.String("user", "", "database user")
	flags.String("password", "", "database password")
	flags.String("dsn", "", "raw data source name, overrides the other connection flags")
	flags.Duration("timeout", 0, "per statement timeout")
	flags.String("config-file", "", "path to a config file")
	flags.Bool("log-queries", false, "log every statement")

	root.AddCommand(newColumnsCmd(), newSelectCmd(), newExecCmd())
	return root
}

func openTable(cmd *cobra.Command, name string) (*sqlbuilder.Table, error) {
	var opts options
	if err := parseOptions(cmd, &opts); err != nil {
		return nil, err
	}
	if opts.LogQueries {
		logger, err := sqlbuilder.NewLogger(sqlbuilder.LogLevelDev)
		if err != nil {
			return nil, err
		}
		opts.Logger = logger
		sqlbuilder.SetQueryLogging(true)
	}
	return sqlbuilder.Open(opts.Config, name)
}

func lastError(t *sqlbuilder.Table) error {
	if t.HasError() {
		return t.LastError()
	}
	return nil
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns TABLE",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTable(cmd, args[0])
			if err != nil {
				return err
			}
			defer t.Close()
			if err := lastError(t); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Schematic())
			return nil
		},
	}
}

func newSelectCmd() *cobra.Command {
	var (
		where   string
		orderBy string
		desc    bool
		limit   int
		offset  int
	)
	cmd := &cobra.Command{
		Use:   "select TABLE [FIELD...]",
		Short: "Select rows from a table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTable(cmd, args[0])
			if err != nil {
				return err
			}
			defer t.Close()
			stmt := t.Select(args[1:]...).Limit(limit).Offset(offset)
			if where != "" {
				stmt.Where(op.Raw(where))
			}
			if orderBy != "" {
				order := sqlbuilder.Asc
				if desc {
					order = sqlbuilder.Desc
				}
				stmt.OrderBy(orderBy, order)
			}
			records := stmt.Perform()
			if err := lastError(t); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), records.Render(stmt.Columns()...))
			return nil
		},
	}
	cmd.Flags().StringVar(&where, "where", "", "raw WHERE predicate")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "column to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec TABLE SQL",
		Short: "Run a statement on the table's connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTable(cmd, args[0])
			if err != nil {
				return err
			}
			defer t.Close()
			res := t.PerformSQLContext(cmd.Context(), args[1])
			if res.Err != nil {
				return res.Err
			}
			if len(res.Records) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), res.Render())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatInt(res.RowsAffected, 10)+" rows affected")
			return nil
		},
	}
}
