package deals

import "sort"

// Rank deduplicates scored listings by id (first occurrence wins) and
// orders them by descending score. Ties break by ascending price, then
// by original input order.
func Rank(listings []Listing) []Listing {
	seen := make(map[string]bool, len(listings))
	deduped := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		deduped = append(deduped, l)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Score != deduped[j].Score {
			return deduped[i].Score > deduped[j].Score
		}
		return deduped[i].Price < deduped[j].Price
	})
	return deduped
}

// FallbackMarketPrice derives a stand-in reference price from the
// listings themselves when the upstream feed gives none: the
// arithmetic mean of all valid listing prices. The caller surfaces
// this as the effective market price so scoring and display agree.
func FallbackMarketPrice(listings []Listing) (float64, error) {
	if len(listings) == 0 {
		return 0, ErrInvalidReference
	}
	var sum float64
	for _, l := range listings {
		sum += l.Price
	}
	return sum / float64(len(listings)), nil
}
