// goldsentinel tracks Indian gold prices and mails a next-day forecast.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"GoldSentinel/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "goldsentinel",
		Short: "Daily gold price report and forecast",
		Long: `goldsentinel scrapes the Indian 24K gold rate, scores a handful of
market indicators and mails a next-day forecast report.

Without a subcommand it performs a single run, like "goldsentinel run".`,
		SilenceUsage: true,
		RunE:         runOnce,
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "path to the YAML config file")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch, forecast and deliver one report, then exit",
		RunE:  runOnce,
	}
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.sched.RunReport(ctx)
	if err != nil {
		return err
	}
	if !res.EmailSent {
		a.log.Warn("report was not emailed", zap.String("run_id", res.RunID))
	}
	return nil
}

func serveCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cron schedule and answer Telegram commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sched.RegisterAll(a.cfg.Schedule.ReportCron, a.cfg.Schedule.PriceCheckCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			a.sched.Start()
			defer a.sched.Stop()

			if a.telegram != nil {
				go a.telegram.StartPolling(ctx, a.sched.HandleCommand, a.log)
				a.log.Info("telegram polling started")
			}
			if runOnStart {
				a.log.Info("run-on-start enabled, executing report now")
				a.goReport(ctx)
			}

			a.log.Info("goldsentinel is running, press Ctrl+C to stop",
				zap.String("report_cron", a.cfg.Schedule.ReportCron),
				zap.String("timezone", a.cfg.Schedule.Timezone))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			a.log.Info("shutdown signal received, stopping")
			cancel()
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "send a report immediately after starting")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recently recorded runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			rec := openRecorder(cfg, zap.NewNop())
			defer rec.Close()

			runs, err := rec.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), scheduler.FormatRuns(runs, cfg.Location()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}
