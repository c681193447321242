package export

import (
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// destinationRow is one CSV line per destination, checked or not.
type destinationRow struct {
	URL         string `csv:"url"`
	FinalURL    string `csv:"final_url"`
	StatusCode  string `csv:"status_code"`
	ContentType string `csv:"content_type"`
	External    bool   `csv:"external"`
	Broken      bool   `csv:"broken"`
	Reason      string `csv:"reason"`
}

// CSVExporter writes one row per destination.
type CSVExporter struct {
	Path string
}

// NewCSVExporter returns an exporter writing to path.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{Path: path}
}

// Export writes the destination table as CSV.
func (e *CSVExporter) Export(result *types.CrawlResult) error {
	rows := make([]destinationRow, 0, len(result.Destinations))
	for _, d := range result.Destinations {
		rows = append(rows, destinationRow{
			URL:         d.URL,
			FinalURL:    d.FinalURL,
			StatusCode:  statusLabel(d),
			ContentType: contentType(d),
			External:    d.IsExternal,
			Broken:      d.IsBroken(),
			Reason:      destinationReason(d),
		})
	}

	fh, err := os.Create(e.Path)
	if err != nil {
		return err
	}
	defer fh.Close()

	return gocsv.MarshalFile(&rows, fh)
}

func statusLabel(d *types.Destination) string {
	if d.StatusCode == 0 {
		return ""
	}
	return strconv.Itoa(d.StatusCode)
}

func contentType(d *types.Destination) string {
	if d.PrimaryType == "" {
		return ""
	}
	return d.PrimaryType + "/" + d.SubType
}

func destinationReason(d *types.Destination) string {
	switch {
	case d.IsInvalid:
		return "invalid URL"
	case d.IsUnsupportedScheme():
		return "unsupported scheme"
	case d.DidNotConnect:
		return "did not connect"
	case !d.WasTried():
		return "not checked"
	case d.StatusCode != 200:
		return "HTTP " + strconv.Itoa(d.StatusCode)
	default:
		return "ok"
	}
}
