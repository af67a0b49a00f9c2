package view

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/cvdesk/internal/logging"
	"github.com/rshade/cvdesk/internal/pagination"
	"github.com/rshade/cvdesk/internal/record"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Without it the logger is taken from the Connect context.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = &l
	}
}

// WithMiddleware wraps the fetcher at connect time, outermost first.
// No middleware is installed by default, so failures are never retried.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Controller) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithRefreshTrigger adds an external stream of refresh requests, such as a
// file watcher. Each receive issues a new fetch.
func WithRefreshTrigger(src <-chan struct{}) Option {
	return func(c *Controller) {
		c.refreshSrc = src
	}
}

// WithFailureMessage overrides the user-facing message placed in the error slot.
func WithFailureMessage(msg string) Option {
	return func(c *Controller) {
		if strings.TrimSpace(msg) != "" {
			c.failureMessage = msg
		}
	}
}

type fetchResult struct {
	id      uint64
	records []record.Record
	err     error
}

// Controller merges fetch results, sort changes and page changes into a
// stream of consistent Views. Create one with New; a Controller is single-use.
type Controller struct {
	fetch          Fetcher
	middleware     []Middleware
	refreshSrc     <-chan struct{}
	failureMessage string
	logger         *zerolog.Logger

	// mu guards lifecycle state and the fields read by State/Snapshot.
	mu        sync.Mutex
	state     State
	errored   bool
	sortBound bool
	pageBound bool
	sortSrc   <-chan pagination.SortSpec
	pageSrc   <-chan pagination.PageSpec
	last      View
	cancel    context.CancelFunc
	loopDone  chan struct{}

	// Owned by the event loop once connected.
	records  []record.Record
	sortSpec pagination.SortSpec
	pageSpec pagination.PageSpec
	notice   *Notice
	loaded   bool
	fetchSeq uint64
	seq      uint64

	views     chan View
	errs      chan *Notice
	results   chan fetchResult
	refresh   chan struct{}
	closeOnce sync.Once
}

// New creates a Controller that obtains records from fetch.
func New(fetch Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetch:          fetch,
		failureMessage: DefaultFailureMessage,
		state:          StateIdle,
		records:        []record.Record{},
		views:          make(chan View),
		errs:           make(chan *Notice, 1),
		results:        make(chan fetchResult),
		refresh:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BindSort sets the initial sort and the stream of later sort changes.
// updates may be nil for a fixed sort. It must be called before Connect.
func (c *Controller) BindSort(initial pagination.SortSpec, updates <-chan pagination.SortSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.bindableLocked(); err != nil {
		return err
	}
	c.sortSpec = initial
	c.sortSrc = updates
	c.sortBound = true
	return nil
}

// BindPage sets the initial page and the stream of later page changes.
// updates may be nil for a fixed page. It must be called before Connect.
func (c *Controller) BindPage(initial pagination.PageSpec, updates <-chan pagination.PageSpec) error {
	if err := initial.Validate(); err != nil {
		return fmt.Errorf("binding page: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.bindableLocked(); err != nil {
		return err
	}
	c.pageSpec = initial
	c.pageSrc = updates
	c.pageBound = true
	return nil
}

func (c *Controller) bindableLocked() error {
	switch c.state {
	case StateIdle:
		return nil
	case StateDisconnected:
		return ErrDisconnected
	default:
		return ErrAlreadyConnected
	}
}

// Connect starts the event loop, issues the initial fetch and returns the
// view channel. Both a sort and a page binding must have been established,
// otherwise an error wrapping ErrPrecondition is returned.
//
// Cancelling ctx has the same effect as Disconnect.
func (c *Controller) Connect(ctx context.Context) (<-chan View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDisconnected {
		return nil, ErrDisconnected
	}
	if c.state != StateIdle {
		return nil, ErrAlreadyConnected
	}

	var missing []string
	if c.fetch == nil {
		missing = append(missing, "fetcher")
	}
	if !c.sortBound {
		missing = append(missing, "sort")
	}
	if !c.pageBound {
		missing = append(missing, "page")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s binding; bind sort and page before connecting",
			ErrPrecondition, strings.Join(missing, ", "))
	}

	if c.logger == nil {
		l := logging.ComponentLogger(*logging.FromContext(ctx), "view")
		c.logger = &l
	}

	fetch := c.fetch
	for i := len(c.middleware) - 1; i >= 0; i-- {
		fetch = c.middleware[i](fetch)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loopDone = make(chan struct{})
	c.state = StateLoading

	c.logger.Info().
		Str("sort", c.sortSpec.String()).
		Int("page_index", c.pageSpec.Index).
		Int("page_size", c.pageSpec.Size).
		Msg("view connected")

	go c.run(loopCtx, fetch, c.sortSrc, c.pageSrc)

	return c.views, nil
}

// Errors returns the error channel. It carries a *Notice each time a fetch
// fails and nil when a later fetch succeeds. Only the latest value is kept
// for a slow reader. The channel is closed by Disconnect.
func (c *Controller) Errors() <-chan *Notice {
	return c.errs
}

// Refresh issues a new fetch. Requests made while one is already queued are
// coalesced. It is a no-op unless the controller is connected.
func (c *Controller) Refresh() {
	c.mu.Lock()
	connected := c.state == StateLoading || c.state == StateReady
	c.mu.Unlock()
	if !connected {
		return
	}

	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Disconnect stops the event loop and closes the view and error channels.
// No value is published after it returns. It does not wait for in-flight
// fetches; their context is cancelled and their results are dropped.
// Calling it more than once is safe.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	loopDone := c.loopDone
	wasConnected := c.state == StateLoading || c.state == StateReady
	logger := c.logger
	c.state = StateDisconnected
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if loopDone != nil {
		<-loopDone
	}
	c.closeChannels()

	if wasConnected && logger != nil {
		logger.Info().Msg("view disconnected")
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Errored reports whether the error slot is currently set.
func (c *Controller) Errored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errored
}

// Snapshot returns the most recently published View.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.last
	v.Records = slices.Clone(v.Records)
	return v
}

func (c *Controller) closeChannels() {
	c.closeOnce.Do(func() {
		// Drop an unread notice so nothing is delivered after teardown.
		select {
		case <-c.errs:
		default:
		}
		close(c.errs)
		close(c.views)
	})
}

// run is the event loop. It is the only writer of views and errs.
func (c *Controller) run(
	ctx context.Context,
	fetch Fetcher,
	sortSrc <-chan pagination.SortSpec,
	pageSrc <-chan pagination.PageSpec,
) {
	defer func() {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.closeChannels()
		close(c.loopDone)
	}()

	refreshSrc := c.refreshSrc
	c.startFetch(ctx, fetch)

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-c.results:
			if !c.handleFetch(ctx, res) {
				return
			}

		case spec, ok := <-sortSrc:
			if !ok {
				sortSrc = nil
				continue
			}
			c.sortSpec = spec
			if !c.publish(ctx, TriggerSort) {
				return
			}

		case spec, ok := <-pageSrc:
			if !ok {
				pageSrc = nil
				continue
			}
			if err := spec.Validate(); err != nil {
				c.logger.Warn().Err(err).Msg("ignoring invalid page change")
				continue
			}
			c.pageSpec = spec
			if !c.publish(ctx, TriggerPage) {
				return
			}

		case <-c.refresh:
			c.startFetch(ctx, fetch)

		case _, ok := <-refreshSrc:
			if !ok {
				refreshSrc = nil
				continue
			}
			c.startFetch(ctx, fetch)
		}
	}
}

// startFetch runs fetch in its own goroutine. When several fetches overlap,
// whichever result is delivered last wins; there is no cancellation of
// superseded requests.
func (c *Controller) startFetch(ctx context.Context, fetch Fetcher) {
	c.fetchSeq++
	id := c.fetchSeq
	c.logger.Debug().Uint64("fetch_id", id).Msg("fetch issued")

	go func() {
		records, err := fetch(ctx)
		select {
		case c.results <- fetchResult{id: id, records: records, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) handleFetch(ctx context.Context, res fetchResult) bool {
	if res.err != nil {
		c.notice = &Notice{Message: c.failureMessage, Cause: res.err}
		c.logger.Warn().
			Err(res.err).
			Uint64("fetch_id", res.id).
			Int("retained", len(c.records)).
			Msg("fetch failed")

		c.mu.Lock()
		c.errored = true
		c.markReadyLocked()
		c.mu.Unlock()

		c.publishNotice(c.notice)
		return c.publish(ctx, TriggerFetchFailed)
	}

	c.records = slices.Clone(res.records)
	if c.records == nil {
		c.records = []record.Record{}
	}
	c.loaded = true

	c.mu.Lock()
	wasErrored := c.errored
	c.errored = false
	c.markReadyLocked()
	c.mu.Unlock()

	if wasErrored {
		c.notice = nil
		c.publishNotice(nil)
	}
	c.logger.Debug().Uint64("fetch_id", res.id).Int("records", len(c.records)).Msg("fetch succeeded")
	return c.publish(ctx, TriggerFetch)
}

// markReadyLocked leaves the loading state without undoing a concurrent Disconnect.
func (c *Controller) markReadyLocked() {
	if c.state == StateLoading {
		c.state = StateReady
	}
}

// publishNotice replaces whatever is buffered on the error channel.
func (c *Controller) publishNotice(n *Notice) {
	for {
		select {
		case c.errs <- n:
			return
		default:
			select {
			case <-c.errs:
			default:
			}
		}
	}
}

// publish recomputes the visible page and delivers it. It returns false if
// the loop was cancelled while waiting for the reader.
func (c *Controller) publish(ctx context.Context, trigger Trigger) bool {
	c.seq++
	v := View{
		Records:   pagination.Page(pagination.Sort(c.records, c.sortSpec), c.pageSpec),
		Sort:      c.sortSpec,
		Page:      c.pageSpec,
		Meta:      pagination.NewMeta(c.pageSpec, len(c.records)),
		Err:       c.notice,
		Loaded:    c.loaded,
		Trigger:   trigger,
		TriggerID: logging.NewID(),
		Seq:       c.seq,
	}

	c.mu.Lock()
	c.last = v
	c.last.Records = slices.Clone(v.Records)
	c.mu.Unlock()

	c.logger.Debug().
		Str("trigger", trigger.String()).
		Str("trigger_id", v.TriggerID).
		Uint64("seq", v.Seq).
		Int("visible", len(v.Records)).
		Int("total", len(c.records)).
		Bool("errored", v.Err != nil).
		Msg("view recomputed")

	select {
	case c.views <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
