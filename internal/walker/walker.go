package walker

import (
	"context"
	"iter"
	"log/slog"
	"path/filepath"
	"runtime"

	"mediascan/internal/logging"
)

// Walker traverses the tree below a single root.
type Walker struct {
	root   string
	fsys   FileSystem
	logger *slog.Logger
}

// New creates a walker for root. The root itself is the first path visited;
// a root that is a regular file yields a single File event.
func New(root string, opts ...Option) *Walker {
	w := &Walker{
		root:   root,
		fsys:   osFS{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.NewComponentLogger(w.logger, "walker")
	return w
}

// Root returns the path the walk starts from.
func (w *Walker) Root() string {
	return w.root
}

// Events returns a lazy sequence of walk events. Every iteration starts a
// fresh walk from the root, and no filesystem call is made until the first
// event is requested. Breaking out of the loop abandons the walk.
//
// When ctx is cancelled the sequence yields an Error carrying ctx.Err()
// followed by End.
func (w *Walker) Events(ctx context.Context) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		queue := []string{w.root}
		for {
			if err := ctx.Err(); err != nil {
				if yield(errorEvent("", err)) {
					yield(endEvent())
				}
				return
			}
			if len(queue) == 0 {
				yield(endEvent())
				return
			}

			path := queue[0]
			queue[0] = ""
			queue = queue[1:]

			children, ok := w.step(path, yield)
			if !ok {
				return
			}
			queue = append(queue, children...)
			runtime.Gosched()
		}
	}
}

// step resolves one queued path and reports the child paths to enqueue. It
// returns false when the consumer stopped the iteration.
func (w *Walker) step(path string, yield func(Event) bool) ([]string, bool) {
	info, err := w.fsys.Stat(path)
	if err != nil {
		w.logger.Debug("stat failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return nil, yield(errorEvent(path, err))
	}

	if !info.IsDir() {
		return nil, yield(fileEvent(path, info))
	}

	if !yield(directoryEvent(path, info)) {
		return nil, false
	}

	entries, err := w.fsys.ReadDir(path)
	if err != nil {
		w.logger.Debug("list failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return nil, yield(errorEvent(path, err))
	}
	w.logger.Debug("directory listed",
		logging.String(logging.FieldPath, path),
		logging.Int("entries", len(entries)),
	)

	children := make([]string, 0, len(entries))
	for _, entry := range entries {
		children = append(children, filepath.Join(path, entry.Name()))
	}
	return children, true
}

// Stream runs the walk on a producer goroutine and delivers events on a
// channel with the given buffer size. The channel is closed after End.
// Consumers must drain the channel until it is closed.
func (w *Walker) Stream(ctx context.Context, buffer int) <-chan Event {
	if buffer < 0 {
		buffer = 0
	}
	out := make(chan Event, buffer)
	go func() {
		defer close(out)
		for event := range w.Events(ctx) {
			out <- event
		}
	}()
	return out
}
