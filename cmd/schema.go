package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/flowseed/internal/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var schemaPrint bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the data_sources, data_flows and analyses tables",
	Long: `Creates the three tables in foreign key order when they do not exist.
Running it again against a prepared database changes nothing.

Examples:
  flowseed schema
  flowseed schema --print`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		m := schema.NewManager(rt.session, rt.log)

		if schemaPrint {
			stmts, err := m.Statements()
			if err != nil {
				return err
			}
			for _, stmt := range stmts {
				fmt.Println(stmt)
				fmt.Println()
			}
			return nil
		}

		ctx := context.Background()
		if err := rt.session.Ensure(ctx); err != nil {
			return err
		}

		color.Cyan("🔨 Ensuring tables on %s...", rt.cfg.Database.Provider)
		if err := m.Ensure(ctx); err != nil {
			return err
		}

		color.Green("✅ Schema ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaPrint, "print", false, "Print the CREATE TABLE statements instead of running them")
}
