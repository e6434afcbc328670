package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"covidstat/internal/notifier"
	"covidstat/internal/scheduler"
)

func newWatchCmd(configPath *string) *cobra.Command {
	var flagCountry string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh one country's CSV export on a cron schedule",
		Long: `Refresh the configured country on schedule.refresh_cron (six fields, seconds
first), rewrite its CSV export and, when Telegram is configured, send a summary.
Set RUN_ON_START=true to refresh once immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			country := a.cfg.Schedule.Country
			if flagCountry != "" {
				country = flagCountry
			}
			ctx := cmd.Context()

			var (
				tn *notifier.TelegramNotifier
				n  notifier.Notifier
			)
			if a.cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
				n = tn
			}

			sched := scheduler.NewScheduler(ctx, a.collector, n, country, a.cfg.Output.Dir, a.logger)
			if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				a.logger.Info("telegram polling started")
			}

			if os.Getenv("RUN_ON_START") == "true" {
				a.logger.Info("RUN_ON_START enabled, refreshing now")
				go sched.RefreshNow()
			}

			a.logger.Info("watching",
				zap.String("country", country),
				zap.String("cron", a.cfg.Schedule.RefreshCron),
				zap.String("output_dir", a.cfg.Output.Dir))
			<-ctx.Done()
			a.logger.Info("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCountry, "country", "", "country to watch (default from config)")
	return cmd
}
