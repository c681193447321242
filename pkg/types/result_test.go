package types

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMapRoundTrip(t *testing.T) {
	original := &DestinationResult{
		URL:         "http://example.com/page",
		FinalURL:    "http://example.com/landed",
		StatusCode:  200,
		PrimaryType: "text",
		SubType:     "html",
		Redirects: []BasicRedirectInfo{
			{URL: "http://example.com/step1", StatusCode: 301},
			{URL: "http://example.com/landed", StatusCode: 302},
		},
		IsExternal: true,
		IsSource:   true,
		Anchors:    []string{"top", "footer"},
	}

	decoded := ResultFromMap(original.ToMap())
	assert.Equal(t, original, decoded)
}

func TestResultMapRoundTripFailure(t *testing.T) {
	original := &DestinationResult{
		URL:           "http://example.com/down",
		DidNotConnect: true,
	}
	decoded := ResultFromMap(original.ToMap())
	assert.Equal(t, original, decoded)
}

func TestResultMapFieldNames(t *testing.T) {
	m := (&DestinationResult{URL: "u"}).ToMap()
	for _, key := range []string{
		"url", "statusCode", "primaryType", "subType", "redirects",
		"finalUrl", "isExternal", "isSource", "anchors", "isInvalid", "didNotConnect",
	} {
		assert.Contains(t, m, key)
	}
}

func dest(t *testing.T, raw string) *Destination {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return NewDestination(raw, u)
}

func TestIsBroken(t *testing.T) {
	ok := dest(t, "http://example.com/ok")
	ok.StatusCode = 200
	assert.False(t, ok.IsBroken())

	notFound := dest(t, "http://example.com/missing")
	notFound.StatusCode = 404
	assert.True(t, notFound.IsBroken())

	down := dest(t, "http://example.com/down")
	down.DidNotConnect = true
	assert.True(t, down.IsBroken())

	invalid := NewDestination("http://exa mple.com", nil)
	assert.True(t, invalid.IsInvalid)
	assert.True(t, invalid.IsBroken())

	mailto := dest(t, "mailto:user@example.com")
	assert.True(t, mailto.IsUnsupportedScheme())
	assert.False(t, mailto.IsBroken())
	assert.False(t, mailto.WasTried())
}

func TestWasTried(t *testing.T) {
	d := dest(t, "http://example.com/")
	assert.False(t, d.WasTried())

	d.StatusCode = 301
	assert.True(t, d.WasTried())

	d2 := dest(t, "http://example.com/b")
	d2.DidNotConnect = true
	assert.True(t, d2.WasTried())
}

func TestFragmentsAndAnchors(t *testing.T) {
	d := dest(t, "http://example.com/page")
	d.AddFragment("intro")
	d.AddFragment("intro")
	d.AddFragment("details")
	d.AddFragment("")

	assert.Equal(t, 2, d.Fragments.Cardinality())

	d.IsSource = true
	d.Anchors = []string{"intro"}
	assert.True(t, d.HasAnchor("intro"))
	assert.True(t, d.HasAnchor(""))
	assert.False(t, d.HasAnchor("details"))
}

func TestApplyMergesResult(t *testing.T) {
	d := dest(t, "http://example.com/page")
	d.Apply(&DestinationResult{
		URL:         d.URL,
		FinalURL:    "http://example.com/final",
		StatusCode:  200,
		PrimaryType: "text",
		SubType:     "html",
		IsSource:    true,
		Anchors:     []string{"a"},
		Redirects:   []BasicRedirectInfo{{URL: "http://example.com/final", StatusCode: 301}},
	})

	assert.Equal(t, 200, d.StatusCode)
	assert.Equal(t, "http://example.com/final", d.FinalURL)
	assert.True(t, d.IsSource)
	assert.Equal(t, []string{"a"}, d.Anchors)
	require.Len(t, d.Redirects, 1)
}

func TestCrawlResultClassification(t *testing.T) {
	okDest := dest(t, "http://site/ok")
	okDest.StatusCode = 200

	missing := dest(t, "http://site/missing")
	missing.StatusCode = 404

	page := dest(t, "http://site/page")
	page.StatusCode = 200
	page.IsSource = true
	page.Anchors = []string{"real"}
	page.AddFragment("ghost")

	result := &CrawlResult{
		Destinations: []*Destination{okDest, missing, page},
		Links: []Link{
			{Origin: Origin{URL: "http://site/"}, Destination: okDest},
			{Origin: Origin{URL: "http://site/"}, Destination: missing},
			{Origin: Origin{URL: "http://site/"}, Destination: page, Fragment: "ghost"},
		},
	}

	broken := result.BrokenLinks()
	require.Len(t, broken, 1)
	assert.Equal(t, missing, broken[0].Destination)

	warnings := result.AnchorWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "ghost", warnings[0].Fragment)

	stats := result.Stats()
	assert.Equal(t, 3, stats.Destinations)
	assert.Equal(t, 1, stats.Broken)
	assert.Equal(t, 1, stats.AnchorWarnings)
	assert.Equal(t, 3, stats.Checked)
}
