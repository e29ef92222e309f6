package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"agridash/internal/util"
)

// Loader performs a one-shot asynchronous load of the reference data and
// exposes a completion signal, so dependents can await readiness instead of
// polling a shared flag. Load may be invoked from any number of call sites;
// only the first one starts the load.
type Loader struct {
	path string
	log  *slog.Logger

	once  sync.Once
	ready chan struct{}

	mu  sync.Mutex
	m   *Map
	err error
}

// NewLoader creates a Loader reading reference data from the JSON file at
// path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{
		path:  path,
		log:   logger,
		ready: make(chan struct{}),
	}
}

// Load starts the load on first call and returns immediately. Subsequent
// calls are no-ops.
func (l *Loader) Load(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.ready)

	var m *Map
	err := util.Retry(ctx, 3, 500*time.Millisecond, func() error {
		var e error
		m, e = ReadFile(l.path)
		return e
	})
	if err != nil {
		l.log.Error("loading reference data", "path", l.path, "error", err)
		l.mu.Lock()
		l.err = fmt.Errorf("loading reference data: %w", err)
		l.mu.Unlock()
		return
	}

	l.mu.Lock()
	l.m = m
	l.mu.Unlock()
	l.log.Info("reference data loaded",
		"counties", len(m.CountyMarkets),
		"triples", len(m.Triples()),
	)
}

// Ready returns a channel that is closed once the load has settled, whether
// it succeeded or failed.
func (l *Loader) Ready() <-chan struct{} {
	return l.ready
}

// Map returns the loaded reference data, or nil if the load has not
// completed or failed.
func (l *Loader) Map() *Map {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m
}

// Err returns the load error, if any.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Wait blocks until the load settles or the context is cancelled, then
// returns the map or the load error.
func (l *Loader) Wait(ctx context.Context) (*Map, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.ready:
	}
	if err := l.Err(); err != nil {
		return nil, err
	}
	return l.Map(), nil
}
