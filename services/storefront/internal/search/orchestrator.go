// Package search turns user input into product searches: it debounces
// keystrokes, keeps at most one request in flight and exposes the resulting
// view state.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/logger"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

// DefaultDebounce is the pause in typing after which SetQuery searches.
const DefaultDebounce = 400 * time.Millisecond

// Searcher performs a single product search.
type Searcher interface {
	SearchProducts(ctx context.Context, query string) (*domain.SearchResponse, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebounce sets the debounce delay. Zero searches on the next tick.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithObserver installs an event hook.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithMessages overrides user-facing error messages per kind.
func WithMessages(m Messages) Option {
	return func(o *Orchestrator) {
		for kind, msg := range m {
			o.messages[kind] = msg
		}
	}
}

// Orchestrator owns the query and the view state of the search page.
//
// Every request gets a sequence number and its own context. Starting a new
// request, resetting or closing cancels the previous context and advances
// the sequence, so a completion is applied only if its sequence is still
// current and its context is still live.
type Orchestrator struct {
	searcher Searcher
	debounce time.Duration
	observer Observer
	messages Messages

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
	changes    chan domain.ViewState

	mu       sync.Mutex
	query    string
	state    domain.ViewState
	timer    *time.Timer
	timerGen uint64
	seq      uint64
	cancel   context.CancelFunc
	closed   bool
}

// New creates an idle Orchestrator.
func New(searcher Searcher, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		searcher:   searcher,
		debounce:   DefaultDebounce,
		observer:   nopObserver{},
		messages:   DefaultMessages(),
		baseCtx:    ctx,
		baseCancel: cancel,
		changes:    make(chan domain.ViewState, 1),
		state:      domain.Idle(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetQuery records text and restarts the debounce timer. It never searches
// synchronously; only the newest timer can fire.
func (o *Orchestrator) SetQuery(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.query = text
	o.stopTimerLocked()
	gen := o.timerGen
	o.timer = time.AfterFunc(o.debounce, func() { o.fireDebounce(gen) })
}

// Search records text and searches immediately, cancelling any pending
// debounce and any in-flight request.
func (o *Orchestrator) Search(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.query = text
	o.stopTimerLocked()
	o.startLocked(text)
}

// Retry searches the current query again.
func (o *Orchestrator) Retry() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.stopTimerLocked()
	o.startLocked(o.query)
}

// Reset cancels the pending timer and the in-flight request, clears the
// query and returns to idle.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.stopTimerLocked()
	o.cancelInFlightLocked()
	o.query = ""
	o.observer.OnEvent(Event{Type: EventReset})
	o.setStateLocked(domain.Idle())
}

// Query returns the current query text.
func (o *Orchestrator) Query() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.query
}

// State returns the current view state.
func (o *Orchestrator) State() domain.ViewState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Changes delivers the latest view state after each transition. Only the
// newest undelivered state is kept. The channel is closed by Close.
func (o *Orchestrator) Changes() <-chan domain.ViewState {
	return o.changes
}

// Close cancels all work, waits for request goroutines to return and closes
// the Changes channel. Further calls are no-ops.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.stopTimerLocked()
	o.cancelInFlightLocked()
	o.mu.Unlock()

	o.baseCancel()
	o.wg.Wait()
	close(o.changes)
}

func (o *Orchestrator) fireDebounce(gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || gen != o.timerGen {
		return
	}

	o.timer = nil
	o.observer.OnEvent(Event{Type: EventDebounceFired, Query: o.query})
	o.startLocked(o.query)
}

// startLocked cancels the in-flight request and issues a new one for text.
// An empty query goes straight to idle.
func (o *Orchestrator) startLocked(text string) {
	o.cancelInFlightLocked()

	term := strings.TrimSpace(text)
	if term == "" {
		o.observer.OnEvent(Event{Type: EventEmptyQuery})
		o.setStateLocked(domain.Idle())
		return
	}

	o.seq++
	seq := o.seq
	ctx, cancel := context.WithCancel(logger.WithCorrelationID(o.baseCtx, uuid.NewString()))
	o.cancel = cancel

	o.observer.OnEvent(Event{Type: EventRequestStarted, Seq: seq, Query: term})
	o.setStateLocked(domain.Loading())

	o.wg.Add(1)
	go o.run(ctx, seq, term)
}

func (o *Orchestrator) run(ctx context.Context, seq uint64, term string) {
	defer o.wg.Done()

	start := time.Now()
	resp, err := o.searcher.SearchProducts(ctx, term)
	elapsed := time.Since(start)

	o.mu.Lock()
	defer o.mu.Unlock()

	if seq != o.seq || ctx.Err() != nil || apperrors.IsCancelled(err) {
		o.observer.OnEvent(Event{Type: EventRequestDiscarded, Seq: seq, Query: term, Err: err, Elapsed: elapsed})
		return
	}
	o.cancel()
	o.cancel = nil

	if err != nil {
		kind := apperrors.KindOf(err)
		o.observer.OnEvent(Event{Type: EventRequestFailed, Seq: seq, Query: term, Kind: kind, Err: err, Elapsed: elapsed})
		o.setStateLocked(domain.Failure(o.messages.For(err), kind))
		return
	}
	o.observer.OnEvent(Event{Type: EventRequestSucceeded, Seq: seq, Query: term, Elapsed: elapsed})
	o.setStateLocked(domain.Success(resp))
}

// stopTimerLocked invalidates the pending debounce timer, if any.
func (o *Orchestrator) stopTimerLocked() {
	o.timerGen++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// cancelInFlightLocked cancels the current request and advances the
// sequence so its completion is discarded.
func (o *Orchestrator) cancelInFlightLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
		o.seq++
	}
}

// setStateLocked stores s and publishes it, replacing any undelivered state.
func (o *Orchestrator) setStateLocked(s domain.ViewState) {
	o.state = s
	select {
	case <-o.changes:
	default:
	}
	o.changes <- s
}
