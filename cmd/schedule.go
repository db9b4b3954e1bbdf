package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleSpec string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run generate on a cron schedule",
	Long: `Runs a full generate-and-load on every tick of a cron expression until
interrupted. A run that is still going when the next tick fires causes that
tick to be skipped. Failed runs are logged and not retried.

Examples:
  flowseed schedule --cron "@hourly"
  flowseed schedule --cron "*/15 * * * *" --sources 10 --flows 20 --analyses 30`,
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		quiet := quietFlag(cmd)
		logger := cronLogger{rt.log.Sugar()}
		c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))

		entryID, err := c.AddFunc(scheduleSpec, func() {
			if _, err := runGeneration(ctx, rt, true, quiet); err != nil {
				rt.log.Error("scheduled run failed", zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", scheduleSpec, err)
		}

		c.Start()
		color.Cyan("⏰ Scheduled with %q, next run at %s", scheduleSpec, c.Entry(entryID).Next.Format("2006-01-02 15:04:05"))

		<-ctx.Done()
		color.Yellow("🛑 Stopping scheduler, waiting for the current run...")
		<-c.Stop().Done()
		return nil
	},
}

// cronLogger routes scheduler events into the operations logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	addGenerationFlags(scheduleCmd.Flags())
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "@hourly", "Cron expression (five fields or descriptors such as @hourly)")
}
