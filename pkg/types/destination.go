package types

import (
	"net/url"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// BasicRedirectInfo records a single redirect hop.
type BasicRedirectInfo struct {
	URL        string `json:"url"`
	StatusCode int    `json:"statusCode"`
}

// Destination is a node of the crawl graph: a URL with its fragment
// stripped, plus everything learned about it during the crawl. Two
// destinations are the same destination iff their URL is equal;
// fragments requested by different origins accumulate into Fragments.
type Destination struct {
	URL string
	URI *url.URL

	// Fragments holds every fragment any origin requested for this URL.
	Fragments mapset.Set[string]

	// StatusCode is zero until the destination has been fetched.
	StatusCode  int
	PrimaryType string
	SubType     string

	Redirects []BasicRedirectInfo
	FinalURL  string

	// Anchors lists the anchor names declared on this resource. Only
	// meaningful when IsSource is true.
	Anchors []string

	IsExternal    bool
	IsSource      bool
	IsInvalid     bool
	DidNotConnect bool
}

// NewDestination builds a destination for an already-normalized URL.
// A nil URI marks the destination invalid (the raw text is retained as URL).
func NewDestination(rawURL string, uri *url.URL) *Destination {
	return &Destination{
		URL:       rawURL,
		URI:       uri,
		Fragments: mapset.NewThreadUnsafeSet[string](),
		IsInvalid: uri == nil,
	}
}

// supportedSchemes are the schemes the fetch worker knows how to check.
var supportedSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
	"file":  {},
}

// IsUnsupportedScheme reports whether the destination has a well-formed URL
// with a scheme the checker does not fetch (mailto:, javascript:, tel:, ...).
func (d *Destination) IsUnsupportedScheme() bool {
	if d.IsInvalid || d.URI == nil {
		return false
	}
	_, ok := supportedSchemes[strings.ToLower(d.URI.Scheme)]
	return !ok
}

// WasTried reports whether a fetch was attempted and concluded.
func (d *Destination) WasTried() bool {
	return d.DidNotConnect || d.StatusCode != 0
}

// IsBroken reports whether the destination was supposed to resolve and did
// not. Unsupported schemes are never broken: they are skipped, not checked.
func (d *Destination) IsBroken() bool {
	if d.IsUnsupportedScheme() {
		return false
	}
	return d.IsInvalid || d.DidNotConnect || d.StatusCode != 200
}

// HasAnchor reports whether the given fragment resolves on this resource.
// The empty fragment always resolves (it addresses the top of the page).
func (d *Destination) HasAnchor(fragment string) bool {
	if fragment == "" {
		return true
	}
	for _, a := range d.Anchors {
		if a == fragment {
			return true
		}
	}
	return false
}

// AddFragment records that some origin requested this destination with the
// given fragment.
func (d *Destination) AddFragment(fragment string) {
	if fragment == "" {
		return
	}
	d.Fragments.Add(fragment)
}

// Apply merges a worker result into the destination. Mutable fields
// transition from unset to set exactly once per crawl.
func (d *Destination) Apply(r *DestinationResult) {
	d.FinalURL = r.FinalURL
	d.StatusCode = r.StatusCode
	d.PrimaryType = r.PrimaryType
	d.SubType = r.SubType
	d.Redirects = r.Redirects
	d.IsSource = r.IsSource
	d.Anchors = r.Anchors
	d.DidNotConnect = r.DidNotConnect
}
