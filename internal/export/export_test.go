package export

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5l1v3r1/linkcheck/pkg/types"
)

func sampleResult(t *testing.T) *types.CrawlResult {
	t.Helper()
	mk := func(raw string) *types.Destination {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		return types.NewDestination(raw, u)
	}

	home := mk("http://site/")
	home.StatusCode = 200
	home.FinalURL = "http://site/"
	home.IsSource = true
	home.PrimaryType, home.SubType = "text", "html"

	missing := mk("http://site/missing")
	missing.StatusCode = 404
	missing.FinalURL = "http://site/missing"

	page := mk("http://site/page")
	page.StatusCode = 200
	page.IsSource = true
	page.Anchors = []string{"real"}
	page.AddFragment("ghost")

	return &types.CrawlResult{
		RunID:        "test-run",
		Destinations: []*types.Destination{home, missing, page},
		Links: []types.Link{
			{Origin: types.Origin{URL: "http://site/", Element: "a"}, Destination: missing},
			{Origin: types.Origin{URL: "http://site/", Element: "a"}, Destination: page, Fragment: "ghost"},
		},
	}
}

func TestJSONExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, NewJSONExporter(path).Export(sampleResult(t)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var report struct {
		RunID        string                     `json:"runId"`
		Destinations []*types.DestinationResult `json:"destinations"`
		Broken       []map[string]any           `json:"broken"`
		Warnings     []map[string]any           `json:"anchorWarnings"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))

	assert.Equal(t, "test-run", report.RunID)
	assert.Len(t, report.Destinations, 3)
	require.Len(t, report.Broken, 1)
	assert.Equal(t, "http://site/missing", report.Broken[0]["target"])
	assert.Equal(t, "HTTP 404", report.Broken[0]["reason"])
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "ghost", report.Warnings[0]["fragment"])
}

func TestCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, NewCSVExporter(path).Export(sampleResult(t)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")

	// Header plus one row per destination.
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "url")
	assert.Contains(t, lines[0], "status_code")
	assert.Contains(t, string(raw), "http://site/missing")
	assert.Contains(t, string(raw), "HTTP 404")
}

func TestPipelineFansOut(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "r.json")
	csvPath := filepath.Join(dir, "r.csv")

	p := NewPipeline(NewJSONExporter(jsonPath), NewCSVExporter(csvPath), nil)
	require.NoError(t, p.Export(sampleResult(t)))

	_, err := os.Stat(jsonPath)
	assert.NoError(t, err)
	_, err = os.Stat(csvPath)
	assert.NoError(t, err)
}

func TestNilPipelineIsNoop(t *testing.T) {
	assert.Nil(t, NewPipeline())
	assert.NoError(t, NewPipeline().Export(sampleResult(t)))
}

func TestReason(t *testing.T) {
	u, _ := url.Parse("mailto:x@y")
	mailto := types.NewDestination("mailto:x@y", u)
	assert.Equal(t, "unsupported scheme", Reason(types.Link{Destination: mailto}))

	invalid := types.NewDestination("::bad::", nil)
	assert.Equal(t, "invalid URL", Reason(types.Link{Destination: invalid}))
}
