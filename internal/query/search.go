// Package query is the stateless listing filter engine.
package query

import (
	"strings"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/taxonomy"
)

// Filter holds independently optional constraints. A zero value for a key
// (empty string, empty slice, nil pointer) places no constraint. Keys combine
// with AND; the values of a multi-valued key combine with OR.
type Filter struct {
	// Search is a case-insensitive substring matched against title, model,
	// manufacturer, any specialty and any category.
	Search      string           `json:"search,omitempty"`
	Specialties []string         `json:"specialties,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	City        string           `json:"city,omitempty"`
	Condition   domain.Condition `json:"condition,omitempty"`
	MinPrice    *int64           `json:"minPrice,omitempty"`
	MaxPrice    *int64           `json:"maxPrice,omitempty"`
	VendorID    string           `json:"vendorId,omitempty"`
}

// IsEmpty reports whether the filter places no constraint at all.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		len(f.Specialties) == 0 &&
		len(f.Categories) == 0 &&
		f.City == "" &&
		f.Condition == "" &&
		f.MinPrice == nil &&
		f.MaxPrice == nil &&
		f.VendorID == ""
}

type predicate func(l *domain.Listing) bool

func (f Filter) predicates() []predicate {
	var ps []predicate
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		ps = append(ps, func(l *domain.Listing) bool { return matchesText(l, term) })
	}
	if len(f.Specialties) > 0 {
		ps = append(ps, func(l *domain.Listing) bool { return taxonomy.Intersects(l.Specialties, f.Specialties) })
	}
	if len(f.Categories) > 0 {
		ps = append(ps, func(l *domain.Listing) bool { return taxonomy.Intersects(l.Categories, f.Categories) })
	}
	if f.City != "" {
		ps = append(ps, func(l *domain.Listing) bool { return l.City == f.City })
	}
	if f.Condition != "" {
		ps = append(ps, func(l *domain.Listing) bool { return l.Condition == f.Condition })
	}
	if f.MinPrice != nil {
		minPrice := *f.MinPrice
		ps = append(ps, func(l *domain.Listing) bool { return l.Price >= minPrice })
	}
	if f.MaxPrice != nil {
		maxPrice := *f.MaxPrice
		ps = append(ps, func(l *domain.Listing) bool { return l.Price <= maxPrice })
	}
	if f.VendorID != "" {
		ps = append(ps, func(l *domain.Listing) bool { return l.BelongsTo(f.VendorID) })
	}
	return ps
}

func matchesText(l *domain.Listing, term string) bool {
	if containsFold(l.Title, term) || containsFold(l.Model, term) || containsFold(l.Manufacturer, term) {
		return true
	}
	for _, s := range l.Specialties {
		if containsFold(s, term) {
			return true
		}
	}
	for _, c := range l.Categories {
		if containsFold(c, term) {
			return true
		}
	}
	return false
}

// containsFold expects term already lower-cased.
func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), term)
}

// Search returns the normalized listings matching every constraint of f, in
// their original order. The input slice is not modified. The result is never nil.
func Search(listings []domain.Listing, f Filter) []domain.Listing {
	ps := f.predicates()
	out := make([]domain.Listing, 0, len(listings))
	for _, raw := range listings {
		l := raw.Normalized()
		if matchesAll(&l, ps) {
			out = append(out, l)
		}
	}
	return out
}

func matchesAll(l *domain.Listing, ps []predicate) bool {
	for _, p := range ps {
		if !p(l) {
			return false
		}
	}
	return true
}
