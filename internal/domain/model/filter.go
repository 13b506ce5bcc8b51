package model

// GeoFilter restricts discovery to a radius around a point.
type GeoFilter struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius"`
	Name     string  `json:"name,omitempty"`
}

// Filter is the discovery filter state. It lives only in memory.
type Filter struct {
	Search   string     `json:"search"`
	Category *Category  `json:"category"`
	Location *GeoFilter `json:"location"`
}

// Clone returns a deep copy.
func (f Filter) Clone() Filter {
	out := Filter{Search: f.Search}
	if f.Category != nil {
		c := *f.Category
		out.Category = &c
	}
	if f.Location != nil {
		l := *f.Location
		out.Location = &l
	}
	return out
}

// Cursor tracks pagination within one filter session.
// HasMore is always Page < TotalPages.
type Cursor struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// NewCursor builds a cursor that satisfies the HasMore invariant. A missing
// or zero total is treated as a single page.
func NewCursor(page, totalPages int) Cursor {
	if totalPages < 1 {
		totalPages = 1
	}
	return Cursor{Page: page, TotalPages: totalPages, HasMore: page < totalPages}
}

// PageMeta is the pagination block of a list response.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}
