package pageload

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wayne-enterprises/bidash/internal/feed"
)

// Fetcher retrieves the raw body of one feed.
type Fetcher interface {
	Fetch(ctx context.Context, slot feed.Slot) ([]byte, error)
}

// Observer receives the outcome of each fetch.
type Observer interface {
	ObserveFetch(slot string, outcome string, elapsed time.Duration)
}

// Fetch outcomes reported to the Observer.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeMalformed = "malformed"
)

// Loader fires the five feed requests for a page load.
type Loader struct {
	fetcher  Fetcher
	store    Store
	logger   *slog.Logger
	observer Observer
	timeout  time.Duration
}

// NewLoader constructs a Loader. observer and logger may be nil.
func NewLoader(fetcher Fetcher, store Store, logger *slog.Logger, observer Observer, timeout time.Duration) *Loader {
	return &Loader{fetcher: fetcher, store: store, logger: logger, observer: observer, timeout: timeout}
}

// Load tracks the in-flight fetches of one page load.
type Load struct {
	ID   string
	done chan struct{}
}

// Done is closed once every fetch has settled.
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// Start issues one unordered GET per feed and returns immediately. Fetches are
// detached from ctx cancellation; each is bounded by the loader timeout.
func (l *Loader) Start(ctx context.Context, id string) *Load {
	load := &Load{ID: id, done: make(chan struct{})}
	base := context.WithoutCancel(ctx)

	var g errgroup.Group
	for _, slot := range feed.Slots {
		g.Go(func() error {
			l.fill(base, id, slot)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(load.done)
	}()
	return load
}

func (l *Loader) fill(ctx context.Context, id string, slot feed.Slot) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	start := time.Now()
	raw, err := l.fetcher.Fetch(ctx, slot)
	if err != nil {
		l.observe(slot, OutcomeError, start)
		l.fail(ctx, id, slot, err)
		return
	}
	if _, err := feed.Decode(slot, raw); err != nil {
		l.observe(slot, OutcomeMalformed, start)
		l.fail(ctx, id, slot, err)
		return
	}
	l.observe(slot, OutcomeOK, start)
	if err := l.store.Put(ctx, id, slot, raw); err != nil {
		l.warn("store slot", id, slot, err)
	}
}

func (l *Loader) fail(ctx context.Context, id string, slot feed.Slot, cause error) {
	l.warn("feed unavailable", id, slot, cause)
	if err := l.store.Fail(ctx, id, slot, cause.Error()); err != nil {
		l.warn("record failure", id, slot, err)
	}
}

func (l *Loader) observe(slot feed.Slot, outcome string, start time.Time) {
	if l.observer != nil {
		l.observer.ObserveFetch(string(slot), outcome, time.Since(start))
	}
}

func (l *Loader) warn(msg, id string, slot feed.Slot, err error) {
	if l.logger != nil {
		l.logger.Warn(msg, slog.String("page_id", id), slog.String("feed", string(slot)), slog.Any("error", err))
	}
}
