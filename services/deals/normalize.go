package deals

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rejected explains why a raw record failed normalization.
type Rejected struct {
	Reason string
}

type NormalizeOptions struct {
	// reject records without a usable URL instead of flagging them
	// for a constructed search link
	RequireURL bool
}

// field name variants that have shown up across upstream feed versions
var idKeys = []string{"id", "listing_id", "listingId"}
var sourceKeys = []string{"source", "marketplace"}
var locationKeys = []string{"location", "seller_location", "sellerLocation"}
var postedKeys = []string{"posted_at", "date_posted", "datePosted", "created_at"}
var urlKeys = []string{"url", "listing_url", "listingUrl", "_link"}
var verifiedKeys = []string{"seller_verified", "sellerVerified", "verified"}
var ratingKeys = []string{"seller_rating", "sellerRating", "rating"}
var conditionKeys = []string{"condition"}
var descriptionKeys = []string{"description", "desc"}
var priceKeys = []string{"price", "amount"}

func (r RawListing) stringField(keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func (r RawListing) numberField(keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err == nil {
				return parsed, true
			}
		case map[string]any:
			// reverb nests price as {"amount": "...", "currency": "USD"}
			nested := RawListing(n)
			amount, ok := nested.numberField([]string{"amount"})
			if ok {
				return amount, true
			}
		}
	}
	return 0, false
}

func (r RawListing) boolField(keys []string) bool {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		b, ok := v.(bool)
		if ok {
			return b
		}
	}
	return false
}

func (r RawListing) timeField(keys []string) *time.Time {
	s, ok := r.stringField(keys)
	if !ok {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return &t
		}
	}
	return nil
}

// Normalize validates and reshapes one raw feed record into the
// canonical Listing. It is pure: a failure only rejects this record,
// never the batch.
func Normalize(raw RawListing, opts NormalizeOptions) (Listing, *Rejected) {
	price, ok := raw.numberField(priceKeys)
	if !ok {
		return Listing{}, &Rejected{Reason: "missing or non-numeric price"}
	}
	if price <= 0 {
		return Listing{}, &Rejected{Reason: "non-positive price"}
	}

	source, ok := raw.stringField(sourceKeys)
	if !ok {
		return Listing{}, &Rejected{Reason: "missing source"}
	}

	id, ok := raw.stringField(idKeys)
	if !ok {
		// identity can still be synthesized from (source, price)
		id = fmt.Sprintf("%s-%.2f", slugify(source), price)
	}

	url, hasUrl := raw.stringField(urlKeys)
	if !hasUrl && opts.RequireURL {
		return Listing{}, &Rejected{Reason: "missing url"}
	}

	condition, _ := raw.stringField(conditionKeys)
	location, ok := raw.stringField(locationKeys)
	if !ok || location == "Not specified" {
		location = "Unknown"
	}
	rating, ok := raw.numberField(ratingKeys)
	if !ok || rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	description, _ := raw.stringField(descriptionKeys)

	return Listing{
		ID:             id,
		Price:          price,
		Source:         source,
		Condition:      NormalizeCondition(condition),
		SellerVerified: raw.boolField(verifiedKeys),
		SellerRating:   rating,
		Location:       location,
		PostedAt:       raw.timeField(postedKeys),
		URL:            url,
		NeedsSearchURL: !hasUrl,
		Description:    description,
	}, nil
}

// NormalizeBatch runs Normalize over the whole feed. Rejected records
// are counted per reason and skipped.
func NormalizeBatch(raws []RawListing, opts NormalizeOptions) ([]Listing, int, map[string]int) {
	var valid []Listing
	rejected := 0
	reasons := map[string]int{}

	for _, raw := range raws {
		listing, rej := Normalize(raw, opts)
		if rej != nil {
			rejected++
			reasons[rej.Reason]++
			continue
		}
		valid = append(valid, listing)
	}
	return valid, rejected, reasons
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
