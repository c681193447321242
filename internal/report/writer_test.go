package report

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5l1v3r1/linkcheck/pkg/types"
)

func mk(t *testing.T, raw string, status int) *types.Destination {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	d := types.NewDestination(raw, u)
	d.StatusCode = status
	return d
}

func TestWriteCleanReport(t *testing.T) {
	home := mk(t, "http://site/", 200)
	result := &types.CrawlResult{
		Destinations: []*types.Destination{home},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(result))

	out := buf.String()
	assert.Contains(t, out, "Checked 1 of 1 destinations")
	assert.Contains(t, out, "No broken links found.")
}

func TestWriteBrokenAndWarnings(t *testing.T) {
	home := mk(t, "http://site/", 200)
	home.IsSource = true

	missing := mk(t, "http://site/missing", 404)

	page := mk(t, "http://site/page", 200)
	page.IsSource = true
	page.Anchors = []string{"real"}

	result := &types.CrawlResult{
		Destinations: []*types.Destination{home, missing, page},
		Links: []types.Link{
			{Origin: types.Origin{URL: "http://site/", Element: "a"}, Destination: missing},
			{Origin: types.Origin{URL: "http://site/", Element: "a"}, Destination: page, Fragment: "ghost"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(result))

	out := buf.String()
	assert.Contains(t, out, "1 broken link(s):")
	assert.Contains(t, out, "http://site/missing")
	assert.Contains(t, out, "HTTP 404")
	assert.Contains(t, out, "1 anchor warning(s):")
	assert.Contains(t, out, "#ghost")
	assert.NotContains(t, out, "No broken links found.")
}
