package scanrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"mediascan/internal/config"
	"mediascan/internal/logging"
)

// Daemon scans once immediately and then on cfg.Scan.Schedule until ctx is
// cancelled. Overlapping runs are skipped rather than queued. A scan that is
// refused because another process holds the lock is logged and retried at
// the next tick.
func Daemon(ctx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	schedule, err := cron.ParseStandard(cfg.Scan.Schedule)
	if err != nil {
		return fmt.Errorf("parse scan schedule %q: %w", cfg.Scan.Schedule, err)
	}

	base := opts.Logger
	if base == nil {
		base = logging.NewNop()
	}
	logger := logging.NewComponentLogger(base, "daemon")

	runOnce := func() {
		if ctx.Err() != nil {
			return
		}
		_, err := Run(ctx, cfg, opts)
		switch {
		case err == nil:
		case errors.Is(err, ErrLocked):
			logger.Info("scheduled scan skipped", logging.String("reason", err.Error()))
		case ctx.Err() != nil:
			logger.Info("scan interrupted", logging.Error(err))
		default:
			logging.ErrorWithContext(logger, "scheduled scan failed", "scan_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run 'mediascan doctor' to check folders and catalog"),
			)
		}
	}

	runOnce()

	scheduler := cron.New(
		cron.WithLogger(cronLogger{logger: logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
	)
	scheduler.Schedule(schedule, cron.FuncJob(runOnce))
	scheduler.Start()
	logger.Info("daemon started",
		logging.String("schedule", cfg.Scan.Schedule),
		logging.String("next_scan", schedule.Next(time.Now()).Format(time.RFC3339)),
	)

	<-ctx.Done()
	<-scheduler.Stop().Done()
	logger.Info("daemon stopped")
	return nil
}

// cronLogger routes scheduler diagnostics into slog at debug level.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Warn("cron: "+msg, append([]any{logging.Error(err)}, keysAndValues...)...)
}
