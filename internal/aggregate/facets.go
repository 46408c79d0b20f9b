package aggregate

import "github.com/mujahidkhanofficial/medixra-sub000/internal/domain"

// Facet is a multi-valued listing dimension that can be counted.
type Facet string

const (
	FacetSpecialty Facet = "specialty"
	FacetCategory  Facet = "category"
)

// CountsByFacet maps each facet value to the number of listings carrying it.
// Listings are normalized first, and a value repeated within one listing is
// counted once for it. Unknown facets yield an empty map.
func CountsByFacet(listings []domain.Listing, facet Facet) map[string]int {
	counts := make(map[string]int)
	for _, raw := range listings {
		l := raw.Normalized()
		var values []string
		switch facet {
		case FacetSpecialty:
			values = l.Specialties
		case FacetCategory:
			values = l.Categories
		default:
			return counts
		}
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			counts[v]++
		}
	}
	return counts
}

// CountsByCity maps each city to its number of listings.
func CountsByCity(listings []domain.Listing) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		if l.City != "" {
			counts[l.City]++
		}
	}
	return counts
}
