// Package export writes the crawl result to machine-readable sinks.
package export

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// Exporter writes a crawl result to one sink.
type Exporter interface {
	Export(result *types.CrawlResult) error
}

// Pipeline fans a crawl result out to every configured sink.
type Pipeline struct {
	exporters []Exporter
}

// NewPipeline builds a pipeline over the given sinks. Returns nil when
// there is nothing to export to.
func NewPipeline(exporters ...Exporter) *Pipeline {
	var active []Exporter
	for _, e := range exporters {
		if e != nil {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return &Pipeline{exporters: active}
}

// Export runs all sinks; they are independent, so they run concurrently.
func (p *Pipeline) Export(result *types.CrawlResult) error {
	if p == nil {
		return nil
	}
	var g errgroup.Group
	for _, e := range p.exporters {
		e := e
		g.Go(func() error {
			if err := e.Export(result); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}
