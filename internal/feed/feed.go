// Package feed holds the pure transforms applied to a fetched listing
// collection before rendering: price ordering, top-N truncation and the
// title/location search filter.
package feed

import (
	"sort"
	"strings"

	"urbannest-bot/internal/models"
)

// SectionSize is how many cards the curated home sections show.
const SectionSize = 4

func SortByPriceAsc(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, len(listings))
	copy(out, listings)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

func SortByPriceDesc(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, len(listings))
	copy(out, listings)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return out
}

func Top(listings []models.Listing, n int) []models.Listing {
	if n < 0 {
		n = 0
	}
	if len(listings) <= n {
		return listings
	}
	return listings[:n]
}

// GuestFavorites is the "highly rated" section: the four most expensive
// nests, priciest first.
func GuestFavorites(listings []models.Listing) []models.Listing {
	return Top(SortByPriceDesc(listings), SectionSize)
}

// BudgetFriendly is the opposite cut: the four cheapest, cheapest first.
func BudgetFriendly(listings []models.Listing) []models.Listing {
	return Top(SortByPriceAsc(listings), SectionSize)
}

// Filter keeps listings whose title or location contains the query,
// case-insensitively. An empty query keeps everything.
func Filter(listings []models.Listing, query string) []models.Listing {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return listings
	}
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Title), query) ||
			strings.Contains(strings.ToLower(l.Location), query) {
			out = append(out, l)
		}
	}
	return out
}
