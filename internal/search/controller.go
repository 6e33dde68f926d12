// Package search owns the query lifecycle: it accepts submitted queries,
// tracks the loading flag, fetches from the catalog and publishes state.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/anisearch/internal/metrics"
	"github.com/vmunix/anisearch/pkg/jikan"
)

//go:generate mockgen -destination=mocks/mock_search.go -package=mocks . Catalog,Recorder

// DefaultStartupQuery is submitted by Start unless overridden.
const DefaultStartupQuery = "naruto"

// Catalog fetches shows matching a free-text query.
type Catalog interface {
	Search(ctx context.Context, query string) ([]jikan.Show, error)
}

// Recorder is notified after every completed fetch, published or not.
type Recorder interface {
	RecordSearch(ctx context.Context, o Outcome) error
}

// Outcome describes one completed fetch.
type Outcome struct {
	Query    string
	Results  int
	Err      error
	Stale    bool // a newer query was issued before this one completed
	Duration time.Duration
	At       time.Time
}

// State is the observable search state. Values are snapshots; the Results
// slice is never modified after publication.
type State struct {
	Query   string
	Results []jikan.Show
	Loading bool
	Err     error // only set when failures clear the loading flag
	Seq     uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log.With("component", "search")
		}
	}
}

// WithStartupQuery sets the query submitted by Start. An empty query
// disables the startup search.
func WithStartupQuery(q string) Option {
	return func(c *Controller) {
		c.startupQuery = q
	}
}

// WithClearLoadingOnFailure controls what a failed fetch publishes. By
// default a failure leaves the state untouched, so the loading flag stays
// set until the next successful query. When enabled, the failure is
// published as Err with the loading flag cleared.
func WithClearLoadingOnFailure(clear bool) Option {
	return func(c *Controller) {
		c.clearOnFailure = clear
	}
}

// WithQueryEncoder transforms query text just before it is handed to the
// catalog. State and recorded outcomes keep the text as submitted.
func WithQueryEncoder(fn func(string) string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.encode = fn
		}
	}
}

// WithRecorder sets a recorder notified of every completed fetch.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithContext sets the base context fetches run under. It is never
// canceled by the controller itself.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Controller mediates between submitted queries and the catalog.
type Controller struct {
	catalog        Catalog
	recorder       Recorder
	log            *slog.Logger
	ctx            context.Context
	encode         func(string) string
	startupQuery   string
	clearOnFailure bool

	mu     sync.Mutex
	state  State
	issued uint64 // sequence number of the latest submitted query
	closed bool

	subs     *broadcaster
	inflight errgroup.Group
}

// New creates a controller. The loading flag starts set when a startup
// query is configured; call Start to issue it.
func New(catalog Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog:      catalog,
		log:          slog.Default().With("component", "search"),
		ctx:          context.Background(),
		encode:       func(s string) string { return s },
		startupQuery: DefaultStartupQuery,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = State{
		Results: []jikan.Show{},
		Loading: !isBlank(c.startupQuery),
	}
	c.subs = newBroadcaster(c.state)
	return c
}

// Start submits the startup query.
func (c *Controller) Start() {
	c.SubmitQuery(c.startupQuery)
}

// SubmitQuery starts a fetch for text. Blank text is ignored. The call
// returns immediately; the outcome is published when the fetch completes.
func (c *Controller) SubmitQuery(text string) {
	if isBlank(text) {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.issued++
	seq := c.issued
	next := c.state
	next.Query = text
	next.Loading = true
	next.Err = nil
	c.publishLocked(next)
	c.mu.Unlock()

	metrics.SearchesSubmitted.Inc()
	c.log.Debug("query submitted", "query", text, "seq", seq)

	c.inflight.Go(func() error {
		c.fetch(seq, text)
		return nil
	})
}

// fetch runs one catalog search and publishes its outcome if it is still
// the latest issued query.
func (c *Controller) fetch(seq uint64, text string) {
	start := time.Now()
	results, err := c.catalog.Search(c.ctx, c.encode(text))
	duration := time.Since(start)

	c.mu.Lock()
	stale := seq != c.issued
	switch {
	case c.closed:
		// Nobody is observing anymore.
	case stale:
		c.log.Debug("discarding superseded result", "query", text, "seq", seq, "latest", c.issued)
	case err != nil:
		c.log.Warn("search failed", "query", text, "error", err, "duration_ms", duration.Milliseconds())
		if c.clearOnFailure {
			next := c.state
			next.Loading = false
			next.Err = err
			c.publishLocked(next)
		}
	default:
		if results == nil {
			results = []jikan.Show{}
		}
		next := c.state
		next.Results = results
		next.Loading = false
		next.Err = nil
		c.publishLocked(next)
		c.log.Debug("search published", "query", text, "results", len(results), "duration_ms", duration.Milliseconds())
	}
	c.mu.Unlock()

	outcome := Outcome{
		Query:    text,
		Results:  len(results),
		Err:      err,
		Stale:    stale,
		Duration: duration,
		At:       start,
	}
	metrics.SearchesTotal.WithLabelValues(outcome.label()).Inc()

	if c.recorder != nil {
		if rerr := c.recorder.RecordSearch(c.ctx, outcome); rerr != nil {
			c.log.Warn("failed to record search", "query", text, "error", rerr)
		}
	}
}

// ItemSelected is called when a result row is chosen. It does not change
// state; selection handling is left to the front end.
func (c *Controller) ItemSelected(position int) {
	c.mu.Lock()
	n := len(c.state.Results)
	var title string
	if position >= 0 && position < n {
		title = c.state.Results[position].Title
	}
	c.mu.Unlock()

	c.log.Debug("item selected", "position", position, "title", title, "results", n)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that receives the current state immediately
// and then every later publication. A slow reader skips intermediate
// states but always ends on the latest one.
func (c *Controller) Subscribe() <-chan State {
	return c.subs.subscribe()
}

// Unsubscribe removes and closes a subscription channel.
func (c *Controller) Unsubscribe(ch <-chan State) {
	c.subs.unsubscribe(ch)
}

// Wait blocks until every fetch started so far has completed.
func (c *Controller) Wait() {
	_ = c.inflight.Wait()
}

// Close stops publication and closes all subscription channels. Fetches
// still in flight run to completion and are discarded.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.subs.close()
	return nil
}

// publishLocked replaces the state and notifies subscribers. Callers hold c.mu,
// which keeps publications ordered.
func (c *Controller) publishLocked(next State) {
	next.Seq = c.state.Seq + 1
	c.state = next
	c.subs.publish(next)
}

func (o Outcome) label() string {
	switch {
	case o.Stale:
		return "stale"
	case o.Err != nil:
		return "failed"
	default:
		return "success"
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
