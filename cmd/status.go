package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/flowseed/internal/schema"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and the last identifier per table",
	Long: `Show, for data_sources, data_flows and analyses:
- the number of stored rows
- the largest stored identifier, where the next run will continue from`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := context.Background()
		if err := rt.session.Ensure(ctx); err != nil {
			return err
		}

		statuses, err := collectStatus(ctx, rt)
		if err != nil {
			return err
		}

		color.Cyan("📊 %s (%s)", rt.cfg.Database.Name, rt.cfg.Database.Provider)
		fmt.Printf("  %-15s %10s %10s\n", "TABLE", "ROWS", "LAST ID")
		for _, st := range statuses {
			fmt.Printf("  %-15s %10d %10d\n", st.Table, st.Rows, st.MaxID)
		}
		return nil
	},
}

func collectStatus(ctx context.Context, rt *runtime) ([]types.TableStatus, error) {
	order, err := schema.InsertionOrder()
	if err != nil {
		return nil, err
	}

	statuses := make([]types.TableStatus, 0, len(order))
	for _, name := range order {
		table, _ := schema.Lookup(name)

		rows, err := rt.session.CountRows(ctx, name)
		if err != nil {
			return nil, err
		}
		maxID, err := rt.session.MaxID(ctx, name, table.PrimaryKey())
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, types.TableStatus{Table: name, Rows: rows, MaxID: maxID})
	}
	return statuses, nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
