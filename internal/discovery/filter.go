package discovery

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/okian/eventsphere/internal/domain/model"
)

// Update is a partial filter change. Updates passed to one SetFilter call are
// applied in order.
type Update func(*model.Filter)

// Search sets the free-text query. The text is trimmed and NFC-normalised
// so visually identical queries hit the same results.
func Search(s string) Update {
	s = norm.NFC.String(strings.TrimSpace(s))
	return func(f *model.Filter) { f.Search = s }
}

// Category restricts results to one category.
func Category(c model.Category) Update {
	return func(f *model.Filter) { f.Category = &c }
}

// AnyCategory removes the category restriction.
func AnyCategory() Update {
	return func(f *model.Filter) { f.Category = nil }
}

// Near restricts results to a radius around a point.
func Near(g model.GeoFilter) Update {
	return func(f *model.Filter) { f.Location = &g }
}

// Anywhere removes the location restriction.
func Anywhere() Update {
	return func(f *model.Filter) { f.Location = nil }
}
