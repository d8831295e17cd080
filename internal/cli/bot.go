package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tempowise/internal/bot"
	"tempowise/internal/metrics"
	"tempowise/internal/service"
)

const (
	reportJobTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Run the Telegram bot together with the scheduler that drives timers and
periodic reports. Metrics are served on METRICS_ADDR when it is set.`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.cfg.RequireTelegram(); err != nil {
		return err
	}

	scheduler := service.NewSchedulerService(a.loc, a.log.With().Str("component", "scheduler").Logger())
	svc := a.services(scheduler)

	telegramBot, err := bot.New(a.cfg.TelegramToken, svc, a.loc, a.log.With().Str("component", "bot").Logger())
	if err != nil {
		return err
	}

	sendReports := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), reportJobTimeout)
		defer cancel()
		if err := telegramBot.SendReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error().Err(err).Msg("send reports")
		}
	}
	if a.cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval(a.cfg.ReportInterval, sendReports); err != nil {
			return err
		}
	}
	if a.cfg.ReportTime != "" {
		if _, err := scheduler.ScheduleDaily(a.cfg.ReportTime, sendReports); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	if a.cfg.MetricsAddr != "" {
		go func() {
			a.log.Info().Str("addr", a.cfg.MetricsAddr).Msg("serving metrics")
			if err := metrics.Serve(ctx, a.cfg.MetricsAddr); err != nil {
				a.log.Error().Stack().Err(err).Msg("metrics server")
			}
		}()
	}

	a.log.Info().
		Dur("report_interval", a.cfg.ReportInterval).
		Str("report_time", a.cfg.ReportTime).
		Str("ai_provider", a.cfg.AI.Provider).
		Msg("tempowise bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	saved := svc.Timer.StopAll(stopCtx)
	halted := svc.Pomodoro.StopAll()
	a.log.Info().Int("saved_sessions", saved).Int("halted_pomodoros", halted).Msg("shutdown complete")
	return nil
}
