// Package parser extracts outbound references and declared anchors from
// fetched HTML and CSS payloads. Parsing is a pure function of the body and
// its content type so it stays testable without any network.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Reference is one outbound link found in a document: the element that
// carried it plus the raw href, unresolved. The caller resolves hrefs
// against the page's final URL.
type Reference struct {
	Element string
	Href    string
}

// Document is everything a single parse pass yields.
type Document struct {
	References []Reference
	Anchors    []string
}

// hrefElements maps the attribute to read for each element goquery visits.
var hrefElements = []struct {
	selector string
	attr     string
}{
	{"a[href]", "href"},
	{"link[href]", "href"},
	{"area[href]", "href"},
	{"img[src]", "src"},
	{"script[src]", "src"},
	{"iframe[src]", "src"},
	{"frame[src]", "src"},
	{"source[src]", "src"},
}

// Parseable reports whether a payload with this media type can yield links.
func Parseable(primaryType, subType string) bool {
	if primaryType != "text" {
		return false
	}
	return subType == "html" || subType == "css"
}

// Parse extracts references and anchors from a parseable body. Unparseable
// content types return (nil, false). A body that fails to parse despite its
// content type degrades to an empty document, not an error.
func Parse(body []byte, primaryType, subType string) (*Document, bool) {
	if !Parseable(primaryType, subType) {
		return nil, false
	}
	if subType == "css" {
		return ParseCSS(body), true
	}
	doc, err := ParseHTML(body)
	if err != nil {
		return &Document{}, true
	}
	return doc, true
}

// ParseHTML walks the document once, collecting hrefs, srcs, and declared
// anchor names (id attributes and <a name=...>).
func ParseHTML(body []byte) (*Document, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, el := range hrefElements {
		root.Find(el.selector).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr(el.attr)
			if !ok {
				return
			}
			href = strings.TrimSpace(href)
			if href == "" {
				return
			}
			doc.References = append(doc.References, Reference{
				Element: goquery.NodeName(s),
				Href:    href,
			})
		})
	}

	seen := make(map[string]struct{})
	addAnchor := func(name string) {
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		doc.Anchors = append(doc.Anchors, name)
	}
	root.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		addAnchor(strings.TrimSpace(id))
	})
	root.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		addAnchor(strings.TrimSpace(name))
	})

	return doc, nil
}

var (
	cssURLPattern    = regexp.MustCompile(`url\(\s*['"]?([^'")\s]+)['"]?\s*\)`)
	cssImportPattern = regexp.MustCompile(`@import\s+['"]([^'"]+)['"]`)
)

// ParseCSS extracts url(...) references and @import targets. CSS declares
// no anchors.
func ParseCSS(body []byte) *Document {
	doc := &Document{}
	seen := make(map[string]struct{})
	add := func(element, href string) {
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "data:") {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		doc.References = append(doc.References, Reference{Element: element, Href: href})
	}
	for _, m := range cssURLPattern.FindAllSubmatch(body, -1) {
		add("url", string(m[1]))
	}
	for _, m := range cssImportPattern.FindAllSubmatch(body, -1) {
		add("@import", string(m[1]))
	}
	return doc
}
