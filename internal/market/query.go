package market

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/carmarket/carmarket-go/internal/model"
)

// SortKey selects the ordering of a query result.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
)

// AnyLocation matches every location.
const AnyLocation = "all"

// ParseSortKey validates s. An empty string means SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh:
		return key, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q", ErrValidation, s)
	}
}

// Query is a declarative filter and ordering over listing views.
type Query struct {
	SearchText string
	MinPrice   *int64
	MaxPrice   *int64
	Location   string
	Sort       SortKey
}

// Apply returns the views matching q in q.Sort order. It never modifies views
// and equal sort keys keep their input order.
func Apply(views []model.ListingView, q Query) []model.ListingView {
	needle := strings.ToLower(q.SearchText)
	out := make([]model.ListingView, 0, len(views))
	for _, v := range views {
		if needle != "" && !matchesText(v, needle) {
			continue
		}
		if q.MinPrice != nil && v.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && v.Price > *q.MaxPrice {
			continue
		}
		if q.Location != "" && q.Location != AnyLocation && string(v.Location) != q.Location {
			continue
		}
		out = append(out, v)
	}

	slices.SortStableFunc(out, comparator(q.Sort))
	return out
}

func matchesText(v model.ListingView, needle string) bool {
	return strings.Contains(strings.ToLower(v.Title), needle) ||
		strings.Contains(strings.ToLower(v.Make), needle) ||
		strings.Contains(strings.ToLower(v.Model), needle) ||
		strings.Contains(strings.ToLower(v.Description), needle)
}

func comparator(key SortKey) func(a, b model.ListingView) int {
	switch key {
	case SortOldest:
		return func(a, b model.ListingView) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortPriceLow:
		return func(a, b model.ListingView) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b model.ListingView) int { return cmp.Compare(b.Price, a.Price) }
	default:
		return func(a, b model.ListingView) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

// Featured returns at most n views from the head of views.
func Featured(views []model.ListingView, n int) []model.ListingView {
	if n < 0 {
		n = 0
	}
	if n > len(views) {
		n = len(views)
	}
	return slices.Clone(views[:n])
}

// Locations returns the distinct listing locations in first-seen order.
func Locations(views []model.ListingView) []model.Location {
	seen := make(map[model.Location]struct{})
	locations := make([]model.Location, 0)
	for _, v := range views {
		if _, ok := seen[v.Location]; ok {
			continue
		}
		seen[v.Location] = struct{}{}
		locations = append(locations, v.Location)
	}
	return locations
}
