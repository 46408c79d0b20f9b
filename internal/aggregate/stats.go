// Package aggregate computes review statistics, review orderings and facet counts.
package aggregate

import (
	"encoding/json"
	"sort"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// Stats summarizes a set of reviews.
type Stats struct {
	// Average is the mean rating rounded half away from zero to one decimal place.
	Average      decimal.Decimal `json:"average"`
	Total        int             `json:"total"`
	Distribution map[int]int     `json:"distribution"`
}

// AverageText renders the average with exactly one decimal, e.g. "4.0".
func (s Stats) AverageText() string {
	return s.Average.StringFixed(1)
}

// MarshalJSON writes the average in its fixed one-decimal form, e.g.
// {"average":"4.0"}, so every consumer sees the same text as AverageText.
func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Average      string      `json:"average"`
		Total        int         `json:"total"`
		Distribution map[int]int `json:"distribution"`
	}{
		Average:      s.AverageText(),
		Total:        s.Total,
		Distribution: s.Distribution,
	})
}

// StatsFor computes the average, count and per-rating distribution. The
// distribution always has keys 1 to 5. Ratings outside 1..5 are ignored.
func StatsFor(reviews []domain.Review) Stats {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	sum := 0
	total := 0
	for _, r := range reviews {
		if !domain.ValidRating(r.Rating) {
			continue
		}
		dist[r.Rating]++
		sum += r.Rating
		total++
	}
	avg := decimal.Zero
	if total > 0 {
		avg = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(total))).Round(1)
	}
	return Stats{Average: avg, Total: total, Distribution: dist}
}

// SortMode selects a review ordering.
type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortHighest SortMode = "highest"
	SortLowest  SortMode = "lowest"
)

// SortedBy returns a sorted copy of reviews. Ties keep their input order and an
// unknown mode returns the reviews in input order.
func SortedBy(reviews []domain.Review, mode SortMode) []domain.Review {
	out := make([]domain.Review, len(reviews))
	copy(out, reviews)

	var less func(i, j int) bool
	switch mode {
	case SortNewest:
		less = func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) }
	case SortHighest:
		less = func(i, j int) bool { return out[i].Rating > out[j].Rating }
	case SortLowest:
		less = func(i, j int) bool { return out[i].Rating < out[j].Rating }
	default:
		return out
	}
	sort.SliceStable(out, less)
	return out
}
