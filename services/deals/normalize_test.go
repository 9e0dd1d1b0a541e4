package deals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	posted := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	listing, rej := Normalize(RawListing{
		"id":              "rev-123",
		"price":           849.99,
		"source":          "Reverb",
		"condition":       "Excellent",
		"seller_verified": true,
		"seller_rating":   4.8,
		"location":        "Nashville, TN",
		"posted_at":       posted.Format(time.RFC3339),
		"url":             "https://reverb.com/item/rev-123",
		"description":     "Player grade, some fret wear.",
	}, NormalizeOptions{})
	require.Nil(t, rej)

	require.Equal(t, Listing{
		ID:             "rev-123",
		Price:          849.99,
		Source:         "Reverb",
		Condition:      ConditionExcellent,
		SellerVerified: true,
		SellerRating:   4.8,
		Location:       "Nashville, TN",
		PostedAt:       &posted,
		URL:            "https://reverb.com/item/rev-123",
		Description:    "Player grade, some fret wear.",
	}, listing)
}

func TestNormalizeFieldVariants(t *testing.T) {
	listing, rej := Normalize(RawListing{
		"listingId":      "eb-9",
		"amount":         "1299.00",
		"marketplace":    "eBay",
		"sellerVerified": true,
		"sellerLocation": "Austin, TX",
		"datePosted":     "2026-01-05",
		"listingUrl":     "https://ebay.com/itm/eb-9",
	}, NormalizeOptions{})
	require.Nil(t, rej)

	require.Equal(t, "eb-9", listing.ID)
	require.Equal(t, 1299.00, listing.Price)
	require.Equal(t, "eBay", listing.Source)
	require.True(t, listing.SellerVerified)
	require.Equal(t, "Austin, TX", listing.Location)
	require.NotNil(t, listing.PostedAt)
	require.Equal(t, "https://ebay.com/itm/eb-9", listing.URL)
}

func TestNormalizeNestedPrice(t *testing.T) {
	listing, rej := Normalize(RawListing{
		"id":     "rev-77",
		"source": "Reverb",
		"price":  map[string]any{"amount": "650.00", "currency": "USD"},
		"url":    "https://reverb.com/item/rev-77",
	}, NormalizeOptions{})
	require.Nil(t, rej)
	require.Equal(t, 650.00, listing.Price)
}

func TestNormalizeRejections(t *testing.T) {
	for _, tc := range []struct {
		name   string
		raw    RawListing
		opts   NormalizeOptions
		reason string
	}{
		{
			name:   "missing price",
			raw:    RawListing{"source": "Reverb"},
			reason: "missing or non-numeric price",
		},
		{
			name:   "non-numeric price",
			raw:    RawListing{"source": "Reverb", "price": "call for pricing"},
			reason: "missing or non-numeric price",
		},
		{
			name:   "zero price",
			raw:    RawListing{"source": "Reverb", "price": 0.0},
			reason: "non-positive price",
		},
		{
			name:   "negative price",
			raw:    RawListing{"source": "Reverb", "price": -50.0},
			reason: "non-positive price",
		},
		{
			name:   "missing source",
			raw:    RawListing{"price": 500.0},
			reason: "missing source",
		},
		{
			name:   "missing url when required",
			raw:    RawListing{"source": "Craigslist", "price": 500.0},
			opts:   NormalizeOptions{RequireURL: true},
			reason: "missing url",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, rej := Normalize(tc.raw, tc.opts)
			require.NotNil(t, rej)
			require.Equal(t, tc.reason, rej.Reason)
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	listing, rej := Normalize(RawListing{
		"source":    "Facebook Marketplace",
		"price":     425.0,
		"condition": "like new-ish",
		"location":  "Not specified",
		"rating":    9.7,
	}, NormalizeOptions{})
	require.Nil(t, rej)

	// identity synthesized from source and price
	require.Equal(t, "facebook-marketplace-425.00", listing.ID)
	require.Equal(t, ConditionUsed, listing.Condition)
	require.Equal(t, "Unknown", listing.Location)
	require.Equal(t, 5.0, listing.SellerRating)
	require.True(t, listing.NeedsSearchURL)
	require.Empty(t, listing.URL)
	require.Nil(t, listing.PostedAt)
}

func TestNormalizeConditionMapping(t *testing.T) {
	require.Equal(t, ConditionExcellent, NormalizeCondition("Mint"))
	require.Equal(t, ConditionNew, NormalizeCondition("New"))
	require.Equal(t, ConditionVeryGood, NormalizeCondition("Very Good"))
	require.Equal(t, ConditionUsed, NormalizeCondition("B-stock"))
	require.Equal(t, ConditionUsed, NormalizeCondition(""))
}

func TestNormalizeBatchIsolatesFailures(t *testing.T) {
	raws := []RawListing{
		{"id": "a", "source": "Reverb", "price": 700.0, "url": "https://reverb.com/a"},
		{"source": "Reverb"},
		{"id": "b", "source": "eBay", "price": 900.0, "url": "https://ebay.com/b"},
		{"price": 100.0},
		{"id": "c", "source": "Craigslist", "price": -1.0},
	}

	valid, rejected, reasons := NormalizeBatch(raws, NormalizeOptions{})
	require.Len(t, valid, 2)
	require.Equal(t, 3, rejected)
	require.Equal(t, map[string]int{
		"missing or non-numeric price": 1,
		"missing source":               1,
		"non-positive price":           1,
	}, reasons)

	require.Equal(t, "a", valid[0].ID)
	require.Equal(t, "b", valid[1].ID)
}
