package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBrands(t *testing.T) {
	brands := Brands()
	require.True(t, sort.StringsAreSorted(brands))
	require.Contains(t, brands, "Fender")
	require.Contains(t, brands, "Gibson")
	require.Contains(t, brands, "Yamaha")
}

func TestModels(t *testing.T) {
	models := Models("fender")
	require.NotEmpty(t, models)
	require.True(t, sort.SliceIsSorted(models, func(i, j int) bool {
		return models[i].Model < models[j].Model
	}))
	for _, m := range models {
		require.Equal(t, "Fender", m.Brand)
		require.Positive(t, m.MSRP)
	}

	require.Nil(t, Models("Harmony"))
}

func TestLookup(t *testing.T) {
	g, ok := Lookup("FENDER", "stratocaster")
	require.True(t, ok)
	require.Equal(t, "Stratocaster", g.Model)
	require.Equal(t, 799, g.MSRP)

	_, ok = Lookup("Fender", "Flying V")
	require.False(t, ok)
}

func TestSearchLink(t *testing.T) {
	link := SearchLink("eBay", "Fender", "Stratocaster")
	require.Equal(t, "https://www.ebay.com/sch/i.html?_nkw=Fender+Stratocaster", link)

	// unknown sources fall back to a Reverb search
	link = SearchLink("Some Pawn Shop", "Gibson", "Les Paul Standard")
	require.Equal(t, "https://reverb.com/marketplace?query=Gibson+Les+Paul+Standard", link)
}
