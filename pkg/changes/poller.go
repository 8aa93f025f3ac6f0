// Package changes watches the Open Library recent-changes feeds and reports
// events that have not been seen before.
//
// A Poller runs one tick immediately on Start and then one tick per
// interval. Each tick reads the last-seen markers from durable storage,
// fetches the add-book and edit-book feeds concurrently, reports the new
// prefix of each page (add events first, then edit events) and moves each
// marker to the newest id of its page.
package changes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/logging"
)

// Fetcher fetches a page of a recent-changes feed, newest first.
type Fetcher interface {
	RecentChanges(ctx context.Context, kind books.Kind, limit int) ([]books.ChangeEvent, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, kind books.Kind, limit int) ([]books.ChangeEvent, error)

// RecentChanges implements Fetcher.
func (f FetcherFunc) RecentChanges(ctx context.Context, kind books.Kind, limit int) ([]books.ChangeEvent, error) {
	return f(ctx, kind, limit)
}

// Handler receives the new events of a tick. It is never called with an
// empty slice. A Handler must not call Stop on its own Poller.
type Handler func(ctx context.Context, events []books.ChangeEvent)

// Poller polls the change feeds on a fixed interval.
type Poller struct {
	fetcher  Fetcher
	markers  MarkerStore
	interval time.Duration
	limit    int
	clock    clock.Clock
	logger   *zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// held for the duration of every cycle, loop or manual
	cycle sync.Mutex
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the time between ticks.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithLimit sets the number of events requested per feed.
func WithLimit(n int) Option {
	return func(p *Poller) {
		p.limit = n
	}
}

// WithClock sets the clock used to schedule ticks.
func WithClock(c clock.Clock) Option {
	return func(p *Poller) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller creates a Poller that reads feeds through fetcher and keeps its
// markers in markers.
func NewPoller(fetcher Fetcher, markers MarkerStore, opts ...Option) (*Poller, error) {
	p := &Poller{
		fetcher:  fetcher,
		markers:  markers,
		interval: constants.DefaultPollInterval,
		limit:    constants.DefaultFeedLimit,
		clock:    clock.WallClock,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if fetcher == nil {
		return nil, errors.NewValidationError("fetcher", nil, "fetcher is required")
	}
	if markers == nil {
		return nil, errors.NewValidationError("markers", nil, "marker store is required")
	}
	if p.interval <= 0 {
		return nil, errors.NewValidationError("interval", p.interval, "poll interval must be positive")
	}
	if p.limit <= 0 {
		return nil, errors.NewValidationError("limit", p.limit, "feed limit must be positive")
	}
	return p, nil
}

// Interval returns the time between ticks.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start begins polling. The first tick runs immediately. Calling Start
// while already running does nothing.
func (p *Poller) Start(onNew Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.logger.Debug().Msg("Poller already running, ignoring start")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctx = logging.WithLogger(ctx, p.logger)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	p.logger.Info().Dur("interval", p.interval).Int("limit", p.limit).Msg("Starting change feed polling")
	go p.run(ctx, done, onNew)
}

// Stop cancels polling and waits for the loop to exit, including any
// in-flight fetch. It is safe to call when not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info().Msg("Stopped change feed polling")
}

// IsRunning reports whether the poll loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}, onNew Handler) {
	defer close(done)
	for {
		p.tick(ctx, onNew)

		// the wait starts after the tick completes; ticks never overlap
		timer := p.clock.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

func (p *Poller) deliver(ctx context.Context, onNew Handler, events []books.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Str("panic", fmt.Sprint(r)).Msg("Change handler panicked")
		}
	}()
	onNew(ctx, events)
}

type feedResult struct {
	events []books.ChangeEvent
	err    error
}

// Tick runs one poll cycle and returns the new events, add events first.
// Markers are advanced for every feed that returned at least one event.
// Fetch failures are logged and leave that feed's marker untouched. When
// ctx is canceled before the fetches complete, nothing is returned and no
// marker is written.
func (p *Poller) Tick(ctx context.Context) []books.ChangeEvent {
	return p.tick(ctx, nil)
}

// TickIdle runs one cycle like Tick but refuses while the poll loop is
// active. The check and the cycle are atomic: a loop started meanwhile
// waits for the cycle to finish. A Handler must not call TickIdle.
func (p *Poller) TickIdle(ctx context.Context) ([]books.ChangeEvent, error) {
	if p.IsRunning() {
		return nil, errRunning()
	}
	p.cycle.Lock()
	defer p.cycle.Unlock()
	if p.IsRunning() {
		return nil, errRunning()
	}
	return p.poll(ctx, nil), nil
}

func errRunning() error {
	return errors.NewValidationError("poller", true, "cannot run a manual cycle while polling")
}

func (p *Poller) tick(ctx context.Context, onNew Handler) []books.ChangeEvent {
	p.cycle.Lock()
	defer p.cycle.Unlock()
	return p.poll(ctx, onNew)
}

func (p *Poller) poll(ctx context.Context, onNew Handler) []books.ChangeEvent {
	logger := logging.FromContext(ctx)

	markers, err := p.markers.Markers(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read markers, treating as absent")
		markers = MarkerPair{}
	}

	results := make([]feedResult, len(books.Kinds))
	var wg sync.WaitGroup
	for i, kind := range books.Kinds {
		wg.Add(1)
		go func(i int, kind books.Kind) {
			defer wg.Done()
			events, err := p.fetcher.RecentChanges(ctx, kind, p.limit)
			results[i] = feedResult{events: events, err: err}
		}(i, kind)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}

	var fresh []books.ChangeEvent
	for i, kind := range books.Kinds {
		res := results[i]
		if res.err != nil {
			logger.Warn().Err(res.err).Str("feed", kind.Feed()).Msg("Failed to fetch change feed")
			continue
		}
		newEvents := NewPrefix(res.events, markers.For(kind))
		logger.Debug().
			Str("feed", kind.Feed()).
			Str("marker", markers.For(kind)).
			Int("fetched", len(res.events)).
			Int("new", len(newEvents)).
			Msg("Checked change feed")
		fresh = append(fresh, newEvents...)
	}

	if len(fresh) > 0 {
		logger.Info().Int("count", len(fresh)).Msg("New change events")
		if onNew != nil {
			p.deliver(ctx, onNew, fresh)
		}
	}

	// delivered events must not be reported again even if ctx was canceled meanwhile
	saveCtx := context.WithoutCancel(ctx)
	for i, kind := range books.Kinds {
		res := results[i]
		if res.err != nil || len(res.events) == 0 {
			continue
		}
		newest := res.events[0].ID
		if newest == markers.For(kind) {
			continue
		}
		if err := p.markers.SetMarker(saveCtx, kind, newest); err != nil {
			logger.Warn().Err(err).Str("feed", kind.Feed()).Msg("Failed to save marker")
		}
	}
	return fresh
}
