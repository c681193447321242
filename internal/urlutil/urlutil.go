// Package urlutil canonicalizes URLs so that the crawl can key its
// destination store on a single stable string per resource.
package urlutil

import (
	"net/url"
	"strings"
)

// Split separates a raw URL reference into its fragment-free base and its
// fragment. The fragment is everything after the first '#', verbatim.
func Split(raw string) (base, fragment string) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return raw, ""
}

// Canonical renders u without its fragment in a stable form: lowercase
// scheme and host, default ports stripped, empty paths normalized to "/".
// The same parse always yields the same serialization.
func Canonical(u *url.URL) string {
	if u == nil {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if u.Opaque != "" {
		// mailto:user@host and friends have no authority component.
		return scheme + ":" + u.Opaque
	}
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && port != defaultPortForScheme(scheme) {
		host = host + ":" + port
	}
	path := u.EscapedPath()
	if path == "" && host != "" {
		path = "/"
	}
	key := scheme + "://" + host + path
	if q := u.RawQuery; q != "" {
		key += "?" + q
	}
	return key
}

// Normalize parses raw and returns the canonical fragment-free URL, the
// fragment, and the parsed form. A parse failure returns the error together
// with the unparsed fragment-free text and the fragment, and a nil URL.
func Normalize(raw string) (key, fragment string, u *url.URL, err error) {
	base, fragment := Split(raw)
	u, err = url.Parse(base)
	if err != nil {
		return base, fragment, nil, err
	}
	u.Fragment = ""
	return Canonical(u), fragment, u, nil
}

// Resolve interprets href relative to base and returns the target with its
// fragment split off.
func Resolve(base *url.URL, href string) (target *url.URL, fragment string, err error) {
	ref, fragment := Split(href)
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fragment, err
	}
	return base.ResolveReference(parsed), fragment, nil
}

func defaultPortForScheme(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	default:
		return ""
	}
}
