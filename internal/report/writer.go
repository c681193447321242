// Package report renders a crawl result for humans.
package report

import (
	"fmt"
	"io"

	"github.com/rodaine/table"

	"github.com/5l1v3r1/linkcheck/internal/export"
	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// Writer prints the crawl summary, broken links, and anchor warnings.
type Writer struct {
	out io.Writer
}

// NewWriter returns a report writer targeting out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write renders the report.
func (w *Writer) Write(result *types.CrawlResult) error {
	stats := result.Stats()

	fmt.Fprintf(w.out, "Checked %d of %d destinations (%d external, %d skipped)\n",
		stats.Checked, stats.Destinations, stats.External, stats.Unsupported+stats.Invalid)

	if broken := result.BrokenLinks(); len(broken) > 0 {
		fmt.Fprintf(w.out, "\n%d broken link(s):\n", len(broken))
		tbl := table.New("Source", "Target", "Reason").WithWriter(w.out)
		for _, l := range broken {
			tbl.AddRow(l.Origin.URL, targetLabel(l), export.Reason(l))
		}
		tbl.Print()
	}

	if warnings := result.AnchorWarnings(); len(warnings) > 0 {
		fmt.Fprintf(w.out, "\n%d anchor warning(s):\n", len(warnings))
		tbl := table.New("Source", "Target", "Missing anchor").WithWriter(w.out)
		for _, l := range warnings {
			tbl.AddRow(l.Origin.URL, l.Destination.URL, "#"+l.Fragment)
		}
		tbl.Print()
	}

	if stats.Broken == 0 && stats.AnchorWarnings == 0 {
		fmt.Fprintln(w.out, "No broken links found.")
	}
	return nil
}

func targetLabel(l types.Link) string {
	if l.Fragment != "" {
		return l.Destination.URL + "#" + l.Fragment
	}
	return l.Destination.URL
}
