package types

// CrawlResult aggregates the outcome of a crawl: every destination that was
// referenced or seeded and every link edge discovered along the way.
type CrawlResult struct {
	RunID        string
	Destinations []*Destination
	Links        []Link
}

// BrokenLinks returns the edges whose destination is broken.
func (r *CrawlResult) BrokenLinks() []Link {
	var broken []Link
	for _, l := range r.Links {
		if l.Destination != nil && l.Destination.IsBroken() {
			broken = append(broken, l)
		}
	}
	return broken
}

// AnchorWarnings returns the edges that request a fragment their
// destination page does not declare. These are warnings, not failures.
func (r *CrawlResult) AnchorWarnings() []Link {
	var warnings []Link
	for _, l := range r.Links {
		if l.HasMissingAnchor() {
			warnings = append(warnings, l)
		}
	}
	return warnings
}

// BrokenDestinations returns every broken destination once, in discovery order.
func (r *CrawlResult) BrokenDestinations() []*Destination {
	var broken []*Destination
	for _, d := range r.Destinations {
		if d.IsBroken() {
			broken = append(broken, d)
		}
	}
	return broken
}

// Stats summarizes a crawl for reporting.
type Stats struct {
	Destinations   int
	Checked        int
	Broken         int
	Unsupported    int
	Invalid        int
	External       int
	AnchorWarnings int
}

// Stats computes aggregate counters over the crawl result.
func (r *CrawlResult) Stats() Stats {
	s := Stats{
		Destinations:   len(r.Destinations),
		AnchorWarnings: len(r.AnchorWarnings()),
	}
	for _, d := range r.Destinations {
		switch {
		case d.IsInvalid:
			s.Invalid++
		case d.IsUnsupportedScheme():
			s.Unsupported++
		}
		if d.WasTried() {
			s.Checked++
		}
		if d.IsBroken() {
			s.Broken++
		}
		if d.IsExternal {
			s.External++
		}
	}
	return s
}
