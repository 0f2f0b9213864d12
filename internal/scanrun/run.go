package scanrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mediascan/internal/catalog"
	"mediascan/internal/config"
	"mediascan/internal/ingest"
	"mediascan/internal/logging"
	"mediascan/internal/preflight"
)

// ErrLocked is returned when another process holds the scan lock.
var ErrLocked = errors.New("another mediascan scan is already running")

// Options configures a scan.
type Options struct {
	Logger *slog.Logger
	// Folders replaces the configured library folders when non-empty.
	Folders []string
	// Progress is invoked once per discovered file.
	Progress func(path string, outcome ingest.Outcome)
}

// Run scans every library folder once and returns one summary per folder
// that passed its preflight check. Folders that fail the check are logged and
// skipped. On cancellation the summaries gathered so far are returned along
// with the context error.
func Run(ctx context.Context, cfg *config.Config, opts Options) ([]ingest.Summary, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	base := opts.Logger
	if base == nil {
		base = logging.NewNop()
	}

	if len(opts.Folders) > 0 {
		override, err := cfg.WithFolders(opts.Folders)
		if err != nil {
			return nil, fmt.Errorf("resolve folders: %w", err)
		}
		cfg = override
	}
	if len(cfg.Library.Folders) == 0 {
		return nil, errors.New("no library folders configured (set library.folders or MEDIASCAN_FOLDERS)")
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.NewComponentLogger(base, "scanrun").With(logging.String(logging.FieldRunID, runID))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release scan lock", logging.Error(err))
		}
	}()

	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	coord := ingest.New(store,
		ingest.WithLogger(base),
		ingest.WithWorkers(cfg.Scan.IngestWorkers),
		ingest.WithEventBuffer(cfg.Scan.EventBuffer),
		ingest.WithRunID(runID),
		ingest.WithProgress(opts.Progress),
	)

	start := time.Now()
	logger.Info("scan started",
		logging.Int("folders", len(cfg.Library.Folders)),
		logging.String("catalog", store.Driver()),
	)

	summaries := make([]ingest.Summary, 0, len(cfg.Library.Folders))
	for _, root := range cfg.Library.Folders {
		if check := preflight.CheckFolder("library folder", root); !check.Passed {
			logging.WarnWithContext(logger, "library folder skipped", "folder_unavailable",
				logging.String(logging.FieldRoot, root),
				logging.String("detail", check.Detail),
				logging.String(logging.FieldErrorHint, "check that the folder is mounted and readable"),
				logging.String(logging.FieldImpact, "folder was not scanned"),
			)
			continue
		}
		summary, err := coord.Run(ctx, root)
		summaries = append(summaries, summary)
		if err != nil {
			return summaries, err
		}
	}

	total := Totals(summaries)
	logger.Info("scan finished",
		logging.Int("folders_scanned", len(summaries)),
		logging.Int("inserted", total.Inserted),
		logging.Int("skipped", total.Skipped),
		logging.Int("rejected", total.Rejected),
		logging.Int("failed", total.Failed),
		logging.Duration("duration", time.Since(start)),
	)
	return summaries, nil
}

// Totals adds up a set of per-folder summaries. Root is left empty.
func Totals(summaries []ingest.Summary) ingest.Summary {
	var total ingest.Summary
	for _, s := range summaries {
		total.Directories += s.Directories
		total.Files += s.Files
		total.Inserted += s.Inserted
		total.Skipped += s.Skipped
		total.Rejected += s.Rejected
		total.Failed += s.Failed
		total.WalkErrors += s.WalkErrors
		total.Duration += s.Duration
	}
	return total
}
