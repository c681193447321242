package crawler

import (
	"fmt"
	"net/url"

	"github.com/5l1v3r1/linkcheck/internal/urlutil"
	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// store is the deduplicating set of destinations, keyed by normalized URL.
// It is owned by the coordinator goroutine; nothing else touches it.
type store struct {
	byURL map[string]*types.Destination
	order []*types.Destination
}

func newStore() *store {
	return &store{byURL: make(map[string]*types.Destination)}
}

// intern returns the destination for raw, creating it on first reference.
// A fragment in raw accumulates into the destination's fragment set either
// way. An unparseable URL yields an invalid destination that retains the
// original text.
func (s *store) intern(raw string) *types.Destination {
	key, fragment, uri, err := urlutil.Normalize(raw)
	if err != nil {
		key = raw
		uri = nil
	}
	d, ok := s.byURL[key]
	if !ok {
		d = types.NewDestination(key, uri)
		s.byURL[key] = d
		s.order = append(s.order, d)
	}
	d.AddFragment(fragment)
	return d
}

// internURL interns an already-parsed URL, with an optional fragment carried
// separately.
func (s *store) internURL(u *url.URL, fragment string) *types.Destination {
	key := urlutil.Canonical(u)
	d, ok := s.byURL[key]
	if !ok {
		d = types.NewDestination(key, u)
		s.byURL[key] = d
		s.order = append(s.order, d)
	}
	d.AddFragment(fragment)
	return d
}

// merge applies a worker result to the destination it belongs to. A result
// for an unknown or already-checked URL is a coordinator invariant
// violation, not a recoverable condition.
func (s *store) merge(r *types.DestinationResult) error {
	d, ok := s.byURL[r.URL]
	if !ok {
		return fmt.Errorf("result for unknown destination %q", r.URL)
	}
	if d.WasTried() {
		return fmt.Errorf("destination %q checked twice", r.URL)
	}
	d.Apply(r)
	return nil
}

func (s *store) get(key string) *types.Destination {
	return s.byURL[key]
}

// all returns destinations in insertion order.
func (s *store) all() []*types.Destination {
	return s.order
}
