package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/5l1v3r1/linkcheck/internal/fetcher"
	"github.com/5l1v3r1/linkcheck/internal/parser"
	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// Task is one unit of work handed to the pool: check this URL, and parse
// the body for outbound links when the destination is internal.
type Task struct {
	URL         string
	ShouldParse bool
}

// taskResult is what a worker sends back: the destination result plus the
// outbound references extracted from the body, keyed by origin = Task.URL.
type taskResult struct {
	result     *types.DestinationResult
	references []parser.Reference
}

// worker checks destinations one task at a time. Workers are stateless
// between tasks and never touch the destination store.
type worker struct {
	fetcher *fetcher.Fetcher
	limiter *hostLimiter
	logger  *slog.Logger
}

// run processes a single task into a result. Transport failures become
// didNotConnect on the result rather than errors; the crawl treats them as
// data about the destination.
func (w *worker) run(ctx context.Context, task Task) taskResult {
	result := &types.DestinationResult{URL: task.URL}

	u, err := url.Parse(task.URL)
	if err != nil {
		result.IsInvalid = true
		return taskResult{result: result}
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "file":
	default:
		// Unsupported scheme: no status, no didNotConnect. It was never
		// checked, and that is not the destination's fault.
		return taskResult{result: result}
	}

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx, u.Hostname()); err != nil {
			result.DidNotConnect = true
			return taskResult{result: result}
		}
	}

	resp, err := w.fetcher.Fetch(ctx, u, task.ShouldParse)
	if err != nil {
		w.logger.Debug("fetch failed", "url", task.URL, "error", err)
		result.DidNotConnect = true
		return taskResult{result: result}
	}

	result.StatusCode = resp.StatusCode
	result.PrimaryType = resp.PrimaryType
	result.SubType = resp.SubType
	result.Redirects = resp.Redirects
	result.FinalURL = resp.FinalURL.String()

	if !task.ShouldParse || resp.StatusCode != 200 {
		// Error pages are often HTML too; their links are noise.
		return taskResult{result: result}
	}

	doc, parseable := parser.Parse(resp.Body, resp.PrimaryType, resp.SubType)
	if !parseable {
		return taskResult{result: result}
	}

	result.IsSource = true
	result.Anchors = doc.Anchors
	if result.Anchors == nil {
		result.Anchors = []string{}
	}
	return taskResult{result: result, references: doc.References}
}
