package export

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// jsonReport is the serialized shape of a crawl result.
type jsonReport struct {
	RunID        string                    `json:"runId"`
	Destinations []*types.DestinationResult `json:"destinations"`
	Broken       []jsonLink                `json:"broken"`
	Warnings     []jsonLink                `json:"anchorWarnings"`
}

type jsonLink struct {
	Source   string `json:"source"`
	Element  string `json:"element,omitempty"`
	Target   string `json:"target"`
	Fragment string `json:"fragment,omitempty"`
	Status   int    `json:"statusCode,omitempty"`
	Reason   string `json:"reason"`
}

// JSONExporter writes the crawl result as an indented JSON document.
type JSONExporter struct {
	Path string
}

// NewJSONExporter returns an exporter writing to path.
func NewJSONExporter(path string) *JSONExporter {
	return &JSONExporter{Path: path}
}

// Export serializes the result to the configured file.
func (e *JSONExporter) Export(result *types.CrawlResult) error {
	report := jsonReport{
		RunID:  result.RunID,
		Broken: []jsonLink{},
	}
	for _, d := range result.Destinations {
		report.Destinations = append(report.Destinations, destinationResult(d))
	}
	for _, l := range result.BrokenLinks() {
		report.Broken = append(report.Broken, linkRecord(l))
	}
	for _, l := range result.AnchorWarnings() {
		report.Warnings = append(report.Warnings, linkRecord(l))
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(e.Path, raw, 0o644)
}

// destinationResult renders a destination back into its wire form.
func destinationResult(d *types.Destination) *types.DestinationResult {
	return &types.DestinationResult{
		URL:           d.URL,
		FinalURL:      d.FinalURL,
		StatusCode:    d.StatusCode,
		PrimaryType:   d.PrimaryType,
		SubType:       d.SubType,
		Redirects:     d.Redirects,
		IsExternal:    d.IsExternal,
		IsSource:      d.IsSource,
		Anchors:       d.Anchors,
		IsInvalid:     d.IsInvalid,
		DidNotConnect: d.DidNotConnect,
	}
}

func linkRecord(l types.Link) jsonLink {
	rec := jsonLink{
		Source:   l.Origin.URL,
		Element:  l.Origin.Element,
		Target:   l.Destination.URL,
		Fragment: l.Fragment,
		Status:   l.Destination.StatusCode,
		Reason:   Reason(l),
	}
	return rec
}

// Reason names why a link appears in a report section.
func Reason(l types.Link) string {
	d := l.Destination
	switch {
	case d == nil:
		return "unknown"
	case d.IsInvalid:
		return "invalid URL"
	case d.IsUnsupportedScheme():
		return "unsupported scheme"
	case d.DidNotConnect:
		return "did not connect"
	case l.HasMissingAnchor():
		return "missing anchor"
	case d.StatusCode != 200:
		return "HTTP " + strconv.Itoa(d.StatusCode)
	default:
		return "ok"
	}
}
