package deals

import (
	"errors"
	"time"
)

var ErrFetchFailed = errors.New("deals: upstream fetch failed")
var ErrInvalidReference = errors.New("deals: market price must be positive")
var ErrScanActive = errors.New("deals: a scan is already active for this guitar")

type Condition string

const (
	ConditionNew       Condition = "New"
	ConditionExcellent Condition = "Excellent"
	ConditionVeryGood  Condition = "Very Good"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
	ConditionUsed      Condition = "Used"
)

var knownConditions = map[Condition]bool{
	ConditionNew:       true,
	ConditionExcellent: true,
	ConditionVeryGood:  true,
	ConditionGood:      true,
	ConditionFair:      true,
	ConditionPoor:      true,
	ConditionUsed:      true,
}

// NormalizeCondition maps a marketplace condition string onto the known
// set, defaulting to Used for anything unrecognized. "Mint" shows up on
// some marketplaces and is treated as Excellent.
func NormalizeCondition(raw string) Condition {
	if raw == "Mint" {
		return ConditionExcellent
	}
	c := Condition(raw)
	if knownConditions[c] {
		return c
	}
	return ConditionUsed
}

// Listing is a single marketplace offer for a guitar, after
// normalization. Score is only meaningful once attached by the scorer.
type Listing struct {
	ID             string     `json:"id"`
	Price          float64    `json:"price"`
	Source         string     `json:"source"`
	Condition      Condition  `json:"condition"`
	SellerVerified bool       `json:"seller_verified"`
	SellerRating   float64    `json:"seller_rating"`
	Location       string     `json:"location"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
	URL            string     `json:"url"`
	// set when the source gave no usable URL and the consumer should
	// construct a marketplace search link instead
	NeedsSearchURL bool   `json:"needs_search_url,omitempty"`
	Description    string `json:"description,omitempty"`
	Score          int    `json:"score"`
}

// RawListing is one record as decoded straight out of the upstream
// feed's JSON, before any validation.
type RawListing map[string]any

// ScanStatus is the externally visible state of one scan. It is owned
// exclusively by the scan that produced it and replaced wholesale on
// the next scan.
type ScanStatus struct {
	ScanID           string    `json:"scan_id"`
	Active           bool      `json:"active"`
	Progress         float64   `json:"progress"`
	CurrentSource    string    `json:"current_source"`
	CompletedSources []string  `json:"completed_sources"`
	RevealedCount    int       `json:"revealed_count"`
	RejectedCount    int       `json:"rejected_count"`
	MarketPrice      float64   `json:"market_price"`
	CompletedAt      time.Time `json:"completed_at"`
	NextScanAt       time.Time `json:"next_scan_at"`
	Err              string    `json:"err,omitempty"`
}

// ScanEvent pairs a status snapshot with the prefix of the ranked
// listing set revealed so far.
type ScanEvent struct {
	Status   ScanStatus `json:"status"`
	Listings []Listing  `json:"listings"`
}
