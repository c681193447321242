package types

// DestinationResult is the message a fetch worker produces for one
// destination. URL is the correlation key the coordinator uses to locate
// the destination the result merges into.
type DestinationResult struct {
	URL           string              `json:"url"`
	FinalURL      string              `json:"finalUrl,omitempty"`
	StatusCode    int                 `json:"statusCode,omitempty"`
	PrimaryType   string              `json:"primaryType,omitempty"`
	SubType       string              `json:"subType,omitempty"`
	Redirects     []BasicRedirectInfo `json:"redirects,omitempty"`
	IsExternal    bool                `json:"isExternal,omitempty"`
	IsSource      bool                `json:"isSource,omitempty"`
	Anchors       []string            `json:"anchors,omitempty"`
	IsInvalid     bool                `json:"isInvalid,omitempty"`
	DidNotConnect bool                `json:"didNotConnect,omitempty"`
}

// ToMap renders the result in its canonical map form. Field names are
// stable wire identifiers.
func (r *DestinationResult) ToMap() map[string]any {
	redirects := make([]map[string]any, 0, len(r.Redirects))
	for _, hop := range r.Redirects {
		redirects = append(redirects, map[string]any{
			"url":        hop.URL,
			"statusCode": hop.StatusCode,
		})
	}
	return map[string]any{
		"url":           r.URL,
		"finalUrl":      r.FinalURL,
		"statusCode":    r.StatusCode,
		"primaryType":   r.PrimaryType,
		"subType":       r.SubType,
		"redirects":     redirects,
		"isExternal":    r.IsExternal,
		"isSource":      r.IsSource,
		"anchors":       append([]string(nil), r.Anchors...),
		"isInvalid":     r.IsInvalid,
		"didNotConnect": r.DidNotConnect,
	}
}

// ResultFromMap rebuilds a DestinationResult from its canonical map form.
func ResultFromMap(m map[string]any) *DestinationResult {
	r := &DestinationResult{
		URL:           asString(m["url"]),
		FinalURL:      asString(m["finalUrl"]),
		StatusCode:    asInt(m["statusCode"]),
		PrimaryType:   asString(m["primaryType"]),
		SubType:       asString(m["subType"]),
		IsExternal:    asBool(m["isExternal"]),
		IsSource:      asBool(m["isSource"]),
		IsInvalid:     asBool(m["isInvalid"]),
		DidNotConnect: asBool(m["didNotConnect"]),
	}
	if hops, ok := m["redirects"].([]map[string]any); ok {
		for _, hop := range hops {
			r.Redirects = append(r.Redirects, BasicRedirectInfo{
				URL:        asString(hop["url"]),
				StatusCode: asInt(hop["statusCode"]),
			})
		}
	}
	if anchors, ok := m["anchors"].([]string); ok && len(anchors) > 0 {
		r.Anchors = append([]string(nil), anchors...)
	}
	return r
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	n, _ := v.(int)
	return n
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
