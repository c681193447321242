package types

// Origin identifies where a link was found: the source page plus the
// element that carried the reference.
type Origin struct {
	URL     string
	Element string
}

// Link is an edge of the crawl graph, from an origin to a destination,
// optionally tagged with the fragment the origin requested. The fragment
// governs anchor validation; reachability is a property of the destination.
type Link struct {
	Origin      Origin
	Destination *Destination
	Fragment    string
}

// HasMissingAnchor reports whether the link requests a fragment that the
// destination page does not declare. Only meaningful once the destination
// has been fetched and parsed.
func (l Link) HasMissingAnchor() bool {
	if l.Fragment == "" || l.Destination == nil || !l.Destination.IsSource {
		return false
	}
	return !l.Destination.HasAnchor(l.Fragment)
}
