package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/flowseed/internal/config"
	"github.com/Lumos-Labs-HQ/flowseed/internal/export"
	"github.com/Lumos-Labs-HQ/flowseed/internal/schema"
	"github.com/Lumos-Labs-HQ/flowseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	genDryRun       bool
	genExportDir    string
	genExportFormat string
	genSchema       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic records and load them in one transaction",
	Long: `
Generates sources, then flows referencing them, then analyses referencing
the flows, and inserts all three sets in a single transaction. Any failed
insert rolls back the whole run.

Identifiers continue from the largest value already stored per table.

Examples:
  flowseed generate
  flowseed generate --sources 5 --flows 10 --analyses 15
  flowseed generate --seed 7 --dry-run --export out --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		applyGenerationFlags(cmd.Flags(), &rt.cfg.Generation)
		if err := rt.cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		result, err := runGeneration(context.Background(), rt, !genDryRun, quietFlag(cmd))
		if err != nil {
			return err
		}

		if genExportDir != "" {
			path, err := export.Write(result, genExportDir, genExportFormat)
			if err != nil {
				return err
			}
			color.Green("✅ Export completed: %s", path)
		}
		return nil
	},
}

// runGeneration performs one run with the runtime's settings. With persist
// false nothing is written.
func runGeneration(ctx context.Context, rt *runtime, persist, quiet bool) (*seeder.Result, error) {
	opts := seeder.OptionsFromConfig(rt.cfg.Generation)
	opts.Quiet = quiet
	s := seeder.NewSeeder(rt.session, opts, rt.log)

	counts := seeder.Counts{
		Sources:  rt.cfg.Generation.Sources,
		Flows:    rt.cfg.Generation.Flows,
		Analyses: rt.cfg.Generation.Analyses,
	}

	if !persist {
		result, err := s.Generate(ctx, counts)
		if err != nil {
			return nil, err
		}
		if !quiet {
			color.Yellow("🔍 Dry run: %d records generated, nothing written", result.Total())
		}
		return result, nil
	}

	if genSchema {
		if err := rt.session.Ensure(ctx); err != nil {
			return nil, err
		}
		if err := schema.NewManager(rt.session, rt.log).Ensure(ctx); err != nil {
			return nil, err
		}
	}

	return s.GenerateAndLoad(ctx, counts)
}

func applyGenerationFlags(flags *pflag.FlagSet, g *config.Generation) {
	if flags.Changed("sources") {
		g.Sources, _ = flags.GetInt("sources")
	}
	if flags.Changed("flows") {
		g.Flows, _ = flags.GetInt("flows")
	}
	if flags.Changed("analyses") {
		g.Analyses, _ = flags.GetInt("analyses")
	}
	if flags.Changed("seed") {
		g.RandSeed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("text-seed") {
		g.TextSeed, _ = flags.GetInt64("text-seed")
	}
	if flags.Changed("batch") {
		g.BatchSize, _ = flags.GetInt("batch")
	}
}

func addGenerationFlags(flags *pflag.FlagSet) {
	flags.Int("sources", config.DefaultSources, "Number of data sources to generate")
	flags.Int("flows", config.DefaultFlows, "Number of data flows to generate")
	flags.Int("analyses", config.DefaultAnalyses, "Number of analyses to generate")
	flags.Int64("seed", 0, "Seed for enum, parent and time choices (0 = random)")
	flags.Int64("text-seed", config.DefaultTextSeed, "Seed for names and free text")
	flags.Int("batch", 0, "Rows per INSERT statement (0 = as many as the database allows)")
	flags.BoolVar(&genSchema, "create-schema", true, "Create missing tables before loading")
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")
	return quiet
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerationFlags(generateCmd.Flags())
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Generate without writing to the database")
	generateCmd.Flags().StringVar(&genExportDir, "export", "", "Also write the generated records to this directory")
	generateCmd.Flags().StringVar(&genExportFormat, "format", "json", "Export format: json, yaml or csv")
}
