// Package crawler implements the crawl engine: a single coordinator
// goroutine that owns all mutable crawl state, dispatching fetch tasks to a
// pool of workers and absorbing their results until the frontier drains.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/5l1v3r1/linkcheck/internal/config"
	"github.com/5l1v3r1/linkcheck/internal/fetcher"
	"github.com/5l1v3r1/linkcheck/internal/scope"
	"github.com/5l1v3r1/linkcheck/internal/urlutil"
	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// Options tunes a single crawl.
type Options struct {
	CheckExternal  bool
	Connections    int
	UserAgent      string
	Headers        map[string]string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	MaxRedirects   int
	PerHostDelay   time.Duration
	RateRequests   int
	RateWindow     time.Duration
	Logger         *slog.Logger
}

// OptionsFrom maps a crawl configuration onto engine options.
func OptionsFrom(cfg config.CrawlConfig, logger *slog.Logger) Options {
	return Options{
		CheckExternal:  cfg.CheckExternal,
		Connections:    cfg.Connections,
		UserAgent:      cfg.UserAgent,
		Headers:        cfg.Headers,
		RequestTimeout: cfg.RequestTimeout.Duration,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		MaxRedirects:   cfg.MaxRedirects,
		PerHostDelay:   cfg.PerHostDelay.Duration,
		RateRequests:   cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window.Duration,
		Logger:         logger,
	}
}

// coordinator owns the destination store, the pending queue, and the
// in-flight set. Workers only ever see immutable tasks and produce owned
// results, so no lock guards any of this.
type coordinator struct {
	store    *store
	matcher  *scope.Matcher
	opts     Options
	logger   *slog.Logger
	pending  []*types.Destination
	inFlight mapset.Set[string]
	seen     mapset.Set[string]
	links    []types.Link
}

// Crawl checks every destination reachable from the seeds within the scope
// described by hostGlobs. An empty glob list derives the scope from the
// seeds themselves ("<seed>**"). The returned error is reserved for
// engine-level failures; per-destination failures are data on the result.
func Crawl(ctx context.Context, seeds []string, hostGlobs []string, opts Options) (*types.CrawlResult, error) {
	if opts.Connections <= 0 {
		opts.Connections = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &coordinator{
		store:    newStore(),
		opts:     opts,
		logger:   logger,
		inFlight: mapset.NewThreadUnsafeSet[string](),
		seen:     mapset.NewThreadUnsafeSet[string](),
	}

	var seedURIs []*url.URL
	var seedDests []*types.Destination
	for _, raw := range seeds {
		d := c.store.intern(raw)
		seedDests = append(seedDests, d)
		if d.IsInvalid {
			logger.Warn("invalid seed", "url", raw)
			continue
		}
		seedURIs = append(seedURIs, d.URI)
	}
	if len(seedURIs) == 0 {
		return nil, errors.New("crawl: no valid seed URLs")
	}

	if len(hostGlobs) == 0 {
		hostGlobs = scope.SeedGlobs(seedURIs)
	}
	matcher, err := scope.NewMatcher(hostGlobs)
	if err != nil {
		return nil, err
	}
	c.matcher = matcher

	for _, d := range seedDests {
		c.classify(d)
		c.enqueue(d)
	}

	w := &worker{
		fetcher: fetcher.New(fetcher.Options{
			UserAgent:    opts.UserAgent,
			Headers:      opts.Headers,
			Timeout:      opts.RequestTimeout,
			MaxBodyBytes: opts.MaxBodyBytes,
			MaxRedirects: opts.MaxRedirects,
		}),
		limiter: newHostLimiter(opts.PerHostDelay, opts.RateRequests, opts.RateWindow),
		logger:  logger,
	}
	p, err := newPool(ctx, opts.Connections, w, logger)
	if err != nil {
		return nil, err
	}

	if err := c.run(ctx, p); err != nil {
		return c.assemble(), err
	}
	return c.assemble(), nil
}

// run is the coordinator loop: keep the pool fed while work is pending,
// absorb results as they arrive, stop when nothing is pending or in flight.
func (c *coordinator) run(ctx context.Context, p *pool) error {
	for len(c.pending) > 0 || c.inFlight.Cardinality() > 0 {
		if len(c.pending) > 0 {
			next := c.pending[0]
			select {
			case p.dispatch <- Task{URL: next.URL, ShouldParse: !next.IsExternal}:
				c.pending = c.pending[1:]
				c.inFlight.Add(next.URL)
			case r := <-p.results:
				if err := c.absorb(r); err != nil {
					c.abort(p)
					return err
				}
			case <-ctx.Done():
				c.abort(p)
				return ctx.Err()
			}
			continue
		}

		select {
		case r := <-p.results:
			if err := c.absorb(r); err != nil {
				c.abort(p)
				return err
			}
		case <-ctx.Done():
			c.abort(p)
			return ctx.Err()
		}
	}

	p.close()
	for r := range p.results {
		if err := c.absorb(r); err != nil {
			return err
		}
	}
	return nil
}

// abort closes dispatch and drains whatever the workers still produce, so
// in-flight fetches finish on their own terms and their results land in
// the store.
func (c *coordinator) abort(p *pool) {
	p.close()
	for r := range p.results {
		c.inFlight.Remove(r.result.URL)
		_ = c.store.merge(r.result)
	}
}

// absorb merges one worker result and processes the page's outbound links
// in a single coordinator step.
func (c *coordinator) absorb(r taskResult) error {
	u := r.result.URL
	if !c.inFlight.Contains(u) {
		return fmt.Errorf("crawl: result for %q which is not in flight", u)
	}
	c.inFlight.Remove(u)
	if err := c.store.merge(r.result); err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	c.logger.Debug("checked", "url", u, "status", r.result.StatusCode, "outbound", len(r.references))

	if len(r.references) == 0 {
		return nil
	}

	base, err := url.Parse(r.result.FinalURL)
	if err != nil {
		return fmt.Errorf("crawl: unparseable final url %q: %w", r.result.FinalURL, err)
	}

	for _, ref := range r.references {
		origin := types.Origin{URL: u, Element: ref.Element}

		target, fragment, err := urlutil.Resolve(base, ref.Href)
		var d *types.Destination
		if err != nil {
			d = c.store.intern(ref.Href)
		} else {
			d = c.store.internURL(target, fragment)
		}

		c.links = append(c.links, types.Link{Origin: origin, Destination: d, Fragment: fragment})
		c.classify(d)
		c.enqueue(d)
	}
	return nil
}

// classify stamps the internal/external verdict. The matcher is pure, so
// re-stamping an already-seen destination is a no-op.
func (c *coordinator) classify(d *types.Destination) {
	if d.URI == nil {
		return
	}
	d.IsExternal = !c.matcher.MatchesAsInternal(d.URI)
}

// enqueue moves an undiscovered destination into pending. Invalid and
// unsupported-scheme destinations are skipped for cause; external ones are
// checked only when the crawl is configured to.
func (c *coordinator) enqueue(d *types.Destination) {
	if c.seen.Contains(d.URL) {
		return
	}
	if d.IsInvalid || d.IsUnsupportedScheme() {
		return
	}
	if d.IsExternal && !c.opts.CheckExternal {
		return
	}
	c.seen.Add(d.URL)
	c.pending = append(c.pending, d)
}

func (c *coordinator) assemble() *types.CrawlResult {
	return &types.CrawlResult{
		RunID:        uuid.NewString(),
		Destinations: c.store.all(),
		Links:        c.links,
	}
}
