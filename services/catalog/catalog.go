// Package catalog is the static guitar knowledge base: brands, models,
// reference MSRPs, and the marketplace search links used for listings
// that arrive without a URL of their own.
package catalog

import (
	"net/url"
	"sort"
	"strings"
)

type Guitar struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Category string `json:"category"`
	Tier     string `json:"tier"`
	MSRP     int    `json:"msrp"`
}

// Brands returns every known brand in alphabetical order.
func Brands() []string {
	var brands []string
	for brand := range guitars {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands
}

// Models returns the known models for a brand, alphabetically. Brand
// lookup is case-insensitive.
func Models(brand string) []Guitar {
	models, ok := guitars[canonicalBrand(brand)]
	if !ok {
		return nil
	}
	out := make([]Guitar, len(models))
	copy(out, models)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Model < out[j].Model
	})
	return out
}

// Lookup finds one guitar, case-insensitively.
func Lookup(brand, model string) (Guitar, bool) {
	for _, g := range guitars[canonicalBrand(brand)] {
		if strings.EqualFold(g.Model, model) {
			return g, true
		}
	}
	return Guitar{}, false
}

func canonicalBrand(brand string) string {
	for known := range guitars {
		if strings.EqualFold(known, brand) {
			return known
		}
	}
	return brand
}

// search endpoints per marketplace, keyed by the labels the feed and
// the scan simulation both use
var searchUrls = map[string]string{
	"Reverb":                   "https://reverb.com/marketplace?query=",
	"eBay":                     "https://www.ebay.com/sch/i.html?_nkw=",
	"Facebook Marketplace":     "https://www.facebook.com/marketplace/search?query=",
	"Craigslist":               "https://craigslist.org/search/msga?query=",
	"Guitar Center Used":       "https://www.guitarcenter.com/Used/?Ntt=",
	"Sweetwater Gear Exchange": "https://www.sweetwater.com/gear-exchange/?q=",
}

// SearchLink builds a marketplace search URL for a guitar, used as the
// fallback when a listing has no URL of its own. Unknown sources fall
// back to a Reverb search.
func SearchLink(source, brand, model string) string {
	base, ok := searchUrls[source]
	if !ok {
		base = searchUrls["Reverb"]
	}
	query := url.QueryEscape(strings.TrimSpace(brand + " " + model))
	return base + query
}
