package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mediascan/internal/catalog"
	"mediascan/internal/logging"
	"mediascan/internal/mediainfo"
	"mediascan/internal/walker"
)

const (
	defaultWorkers     = 4
	defaultEventBuffer = 64
)

// Store is the persistence contract the coordinator depends on.
// FindByPath returns nil, nil when no record exists. Insert reports a unique
// path violation as catalog.ErrDuplicate.
type Store interface {
	EnsureUniqueIndex(ctx context.Context) error
	FindByPath(ctx context.Context, path string) (*catalog.Record, error)
	Insert(ctx context.Context, rec catalog.Record) (*catalog.Record, error)
}

// Outcome is the result of ingesting a single file.
type Outcome int

const (
	OutcomeSkipped Outcome = iota + 1
	OutcomeRejected
	OutcomeInserted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRejected:
		return "rejected"
	case OutcomeInserted:
		return "inserted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Summary aggregates the results of one root walk.
type Summary struct {
	Root        string        `json:"root"`
	Directories int           `json:"directories"`
	Files       int           `json:"files"`
	Inserted    int           `json:"inserted"`
	Skipped     int           `json:"skipped"`
	Rejected    int           `json:"rejected"`
	Failed      int           `json:"failed"`
	WalkErrors  int           `json:"walk_errors"`
	Duration    time.Duration `json:"duration_ns"`
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWorkers bounds the number of concurrent lookup/insert operations.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithEventBuffer sets the channel capacity between the walker and the
// coordinator.
func WithEventBuffer(n int) Option {
	return func(c *Coordinator) {
		if n >= 0 {
			c.buffer = n
		}
	}
}

// WithRunID stamps inserted records with the scan run identifier.
func WithRunID(runID string) Option {
	return func(c *Coordinator) {
		c.runID = runID
	}
}

// WithWalkerOptions forwards options to every walker the coordinator creates.
func WithWalkerOptions(opts ...walker.Option) Option {
	return func(c *Coordinator) {
		c.walkOpts = append(c.walkOpts, opts...)
	}
}

// WithProgress registers a callback invoked once per file with its outcome.
// It may be called from several goroutines at once.
func WithProgress(fn func(path string, outcome Outcome)) Option {
	return func(c *Coordinator) {
		c.progress = fn
	}
}

// Coordinator ingests walk results into a Store.
type Coordinator struct {
	store    Store
	base     *slog.Logger
	logger   *slog.Logger
	workers  int
	buffer   int
	runID    string
	walkOpts []walker.Option
	progress func(string, Outcome)

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates a coordinator backed by store.
func New(store Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		logger:   logging.NewNop(),
		workers:  defaultWorkers,
		buffer:   defaultEventBuffer,
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.base = c.logger
	c.logger = logging.NewComponentLogger(c.logger, "ingest")
	return c
}

type counters struct {
	inserted atomic.Int64
	skipped  atomic.Int64
	rejected atomic.Int64
	failed   atomic.Int64
}

func (c *counters) add(outcome Outcome) {
	switch outcome {
	case OutcomeInserted:
		c.inserted.Add(1)
	case OutcomeSkipped:
		c.skipped.Add(1)
	case OutcomeRejected:
		c.rejected.Add(1)
	case OutcomeFailed:
		c.failed.Add(1)
	}
}

// Run ensures the unique path index, then walks root and ingests every file
// it finds. It returns once the walk has ended and all outstanding store
// operations have completed. Per-file failures are reported in the summary;
// the error is non-nil only when the index cannot be ensured or ctx was
// cancelled.
func (c *Coordinator) Run(ctx context.Context, root string) (Summary, error) {
	start := time.Now()
	summary := Summary{Root: root}
	ctx = logging.WithRoot(ctx, root)
	logger := logging.WithContext(ctx, c.logger)
	if err := c.store.EnsureUniqueIndex(ctx); err != nil {
		return summary, fmt.Errorf("ensure unique index: %w", err)
	}
	logger.Info("folder added")

	walkOpts := append([]walker.Option{walker.WithLogger(c.base)}, c.walkOpts...)
	events := walker.New(root, walkOpts...).Stream(ctx, c.buffer)

	var (
		group  errgroup.Group
		counts counters
	)
	group.SetLimit(c.workers)

	for event := range events {
		switch event.Kind {
		case walker.KindDirectory:
			summary.Directories++
		case walker.KindError:
			summary.WalkErrors++
			c.logWalkError(logger, event)
		case walker.KindFile:
			summary.Files++
			path, info := event.Path, event.Info
			group.Go(func() error {
				outcome := c.ingestFile(ctx, logger, path, info)
				counts.add(outcome)
				if c.progress != nil {
					c.progress(path, outcome)
				}
				return nil
			})
		case walker.KindEnd:
		}
	}
	_ = group.Wait()

	summary.Inserted = int(counts.inserted.Load())
	summary.Skipped = int(counts.skipped.Load())
	summary.Rejected = int(counts.rejected.Load())
	summary.Failed = int(counts.failed.Load())
	summary.Duration = time.Since(start)

	logger.Info("walk finished",
		logging.Int("directories", summary.Directories),
		logging.Int("files", summary.Files),
		logging.Int("inserted", summary.Inserted),
		logging.Int("skipped", summary.Skipped),
		logging.Int("rejected", summary.Rejected),
		logging.Int("failed", summary.Failed),
		logging.Int("walk_errors", summary.WalkErrors),
		logging.Duration("duration", summary.Duration),
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (c *Coordinator) logWalkError(logger *slog.Logger, event walker.Event) {
	if errors.Is(event.Err, context.Canceled) || errors.Is(event.Err, context.DeadlineExceeded) {
		logger.Info("walk cancelled", logging.Error(event.Err))
		return
	}
	hint := "check that the path still exists and is readable"
	if errors.Is(event.Err, fs.ErrPermission) {
		hint = "grant read and execute permission to the mediascan user"
	}
	logging.WarnWithContext(logger, "walk error", "walk_error",
		logging.String(logging.FieldPath, event.Path),
		logging.Error(event.Err),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "path and its descendants were not catalogued"),
	)
}

// ingestFile runs extraction, the validity predicate and lookup-then-insert
// for one path.
func (c *Coordinator) ingestFile(ctx context.Context, logger *slog.Logger, path string, info fs.FileInfo) Outcome {
	meta := mediainfo.Parse(path)
	if !mediainfo.Valid(meta) {
		logger.Debug("file rejected",
			logging.String(logging.FieldPath, path),
			logging.String("type", meta.Type.String()),
			logging.String("title", meta.Title),
		)
		return OutcomeRejected
	}

	if !c.claim(path) {
		logger.Info("file skipped", logging.String(logging.FieldPath, path), logging.String("reason", "already in flight"))
		return OutcomeSkipped
	}
	defer c.release(path)

	existing, err := c.store.FindByPath(ctx, path)
	if err != nil {
		logging.ErrorWithContext(logger, "catalog lookup failed", "catalog_lookup_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check catalog connectivity; the file is retried on the next scan"),
		)
		return OutcomeFailed
	}
	if existing != nil {
		logger.Info("file skipped", logging.String(logging.FieldPath, path), logging.String("reason", "already catalogued"))
		return OutcomeSkipped
	}

	rec := catalog.Record{Metadata: meta, RunID: c.runID}
	if info != nil {
		rec.Size = info.Size()
		rec.ModTime = info.ModTime().UTC()
	}
	stored, err := c.store.Insert(ctx, rec)
	if errors.Is(err, catalog.ErrDuplicate) {
		logger.Info("file skipped", logging.String(logging.FieldPath, path), logging.String("reason", "duplicate insert"))
		return OutcomeSkipped
	}
	if err != nil {
		logging.ErrorWithContext(logger, "catalog insert failed", "catalog_insert_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check catalog connectivity; the file is retried on the next scan"),
		)
		return OutcomeFailed
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldPath, path),
		logging.Int64("id", stored.ID),
		logging.String("type", stored.Type.String()),
		logging.String("title", stored.Title),
	}
	if stored.IsEpisode() {
		attrs = append(attrs, logging.String("series", stored.Series))
	}
	logger.Info("file inserted", logging.Args(attrs...)...)
	return OutcomeInserted
}

func (c *Coordinator) claim(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[path]; busy {
		return false
	}
	c.inFlight[path] = struct{}{}
	return true
}

func (c *Coordinator) release(path string) {
	c.mu.Lock()
	delete(c.inFlight, path)
	c.mu.Unlock()
}
