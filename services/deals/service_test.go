package deals

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"dealio-backend/lib/testutil"
	"dealio-backend/services/deals/db"
	"dealio-backend/services/marketfeed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeFeed serves a canned feed, optionally failing or blocking until
// released so tests can hold a scan open.
type fakeFeed struct {
	feed marketfeed.Feed
	err  error
	gate chan struct{}
}

func (f *fakeFeed) Fetch(ctx context.Context, brand, model string) (marketfeed.Feed, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return marketfeed.Feed{}, ctx.Err()
		}
	}
	if f.err != nil {
		return marketfeed.Feed{}, f.err
	}
	return f.feed, nil
}

func setupService(t *testing.T, feed Feed) *Service {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/deals",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return NewService(setup.DB, feed, Config{
		Scan: ScanConfig{Sources: []string{"Reverb", "eBay", "Craigslist"}},
	})
}

func feedListings() []map[string]any {
	return []map[string]any{
		{
			"id":              "rev-1",
			"source":          "Reverb",
			"price":           700.0,
			"condition":       "Excellent",
			"seller_verified": true,
			"url":             "https://reverb.com/item/rev-1",
		},
		{
			"id":        "eb-1",
			"source":    "eBay",
			"price":     1000.0,
			"condition": "Used",
			"url":       "https://ebay.com/itm/eb-1",
		},
		{
			"source": "Craigslist",
			"price":  "not for sale",
		},
	}
}

func TestTrackUntrack(t *testing.T) {
	service := setupService(t, &fakeFeed{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, service.Track(ctx, "Fender", "Stratocaster"))
	require.NoError(t, service.Track(ctx, "Gibson", "Les Paul Standard"))

	guitars, err := service.TrackedGuitars(ctx)
	require.NoError(t, err)
	require.Len(t, guitars, 2)

	require.NoError(t, service.Untrack(ctx, "Fender", "Stratocaster"))
	guitars, err = service.TrackedGuitars(ctx)
	require.NoError(t, err)
	require.Len(t, guitars, 1)
	require.Equal(t, "Gibson", guitars[0].Brand)
}

func TestScanSettles(t *testing.T) {
	service := setupService(t, &fakeFeed{
		feed: marketfeed.Feed{
			MarketPrice: 1000,
			Listings:    feedListings(),
		},
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, service.Track(ctx, "Fender", "Stratocaster"))

	scan, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)
	for range scan.Events() {
	}
	<-scan.Done()

	final := scan.Final()
	require.False(t, final.Status.Active)
	require.Empty(t, final.Status.Err)
	require.Equal(t, 1000.0, final.Status.MarketPrice)
	require.Equal(t, 1, final.Status.RejectedCount)
	require.Len(t, final.Listings, 2)
	// ranked best deal first
	require.Equal(t, "rev-1", final.Listings[0].ID)
	require.Equal(t, 100, final.Listings[0].Score)
	require.Equal(t, 75, final.Listings[1].Score)

	settled, err := service.Settled(ctx, "Fender", "Stratocaster")
	require.NoError(t, err)
	require.Equal(t, scan.ID, settled.ScanID)
	require.Equal(t, 1000.0, settled.MarketPrice)
	require.Equal(t, 1, settled.RejectedCount)
	// the listings survive the sqlite round trip byte for byte
	require.Empty(t, cmp.Diff(final.Listings, settled.Listings))
	require.True(t, settled.NextScanAt.After(settled.CompletedAt))
}

func TestScanFallbackMarketPrice(t *testing.T) {
	service := setupService(t, &fakeFeed{
		feed: marketfeed.Feed{
			Listings: []map[string]any{
				{"id": "a", "source": "Reverb", "price": 600.0, "url": "https://reverb.com/a"},
				{"id": "b", "source": "Reverb", "price": 1000.0, "url": "https://reverb.com/b"},
			},
		},
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	scan, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)
	for range scan.Events() {
	}

	final := scan.Final()
	require.Empty(t, final.Status.Err)
	require.Equal(t, 800.0, final.Status.MarketPrice)
}

func TestScanPriceHintWins(t *testing.T) {
	service := setupService(t, &fakeFeed{
		feed: marketfeed.Feed{
			MarketPrice: 1000,
			Listings:    feedListings(),
		},
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	scan, err := service.RunScan(ctx, "Fender", "Stratocaster", 1400)
	require.NoError(t, err)
	for range scan.Events() {
	}

	require.Equal(t, 1400.0, scan.Final().Status.MarketPrice)
}

func TestScanFetchFailure(t *testing.T) {
	service := setupService(t, &fakeFeed{err: errors.New("upstream 503")})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, service.Track(ctx, "Fender", "Stratocaster"))

	scan, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)
	for range scan.Events() {
	}

	final := scan.Final()
	require.False(t, final.Status.Active)
	require.Equal(t, ErrFetchFailed.Error(), final.Status.Err)
	require.Empty(t, final.Listings)

	// a failed scan never settles
	_, err = service.Settled(ctx, "Fender", "Stratocaster")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScanNoReference(t *testing.T) {
	service := setupService(t, &fakeFeed{feed: marketfeed.Feed{}})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	scan, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)
	for range scan.Events() {
	}

	require.Equal(t, ErrInvalidReference.Error(), scan.Final().Status.Err)
}

func TestConcurrentScanRejected(t *testing.T) {
	gate := make(chan struct{})
	service := setupService(t, &fakeFeed{
		feed: marketfeed.Feed{MarketPrice: 1000, Listings: feedListings()},
		gate: gate,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	scan, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)

	_, err = service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.ErrorIs(t, err, ErrScanActive)

	// a different guitar scans concurrently just fine
	other, err := service.RunScan(ctx, "Gibson", "Les Paul Standard", 0)
	require.NoError(t, err)

	close(gate)
	<-scan.Done()
	<-other.Done()

	// the slot frees up once the scan finishes
	again, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)
	<-again.Done()
}

func TestCancelledScanDoesNotSettle(t *testing.T) {
	gate := make(chan struct{})
	service := setupService(t, &fakeFeed{
		feed: marketfeed.Feed{MarketPrice: 1000, Listings: feedListings()},
		gate: gate,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	require.NoError(t, service.Track(ctx, "Fender", "Stratocaster"))

	// first scan completes and settles
	first, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)
	close(gate)
	<-first.Done()
	settled, err := service.Settled(ctx, "Fender", "Stratocaster")
	require.NoError(t, err)
	require.Equal(t, first.ID, settled.ScanID)

	// second scan is cancelled mid-flight and must not replace it
	slow := &fakeFeed{
		feed: marketfeed.Feed{MarketPrice: 1000, Listings: feedListings()},
		gate: make(chan struct{}),
	}
	service.feed = slow
	second, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)
	require.True(t, service.CancelScan("Fender", "Stratocaster"))
	<-second.Done()

	settled, err = service.Settled(ctx, "Fender", "Stratocaster")
	require.NoError(t, err)
	require.Equal(t, first.ID, settled.ScanID)
}

func TestUntrackCancelsActiveScan(t *testing.T) {
	service := setupService(t, &fakeFeed{
		feed: marketfeed.Feed{MarketPrice: 1000, Listings: feedListings()},
		gate: make(chan struct{}),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, service.Track(ctx, "Fender", "Stratocaster"))
	scan, err := service.RunScan(ctx, "Fender", "Stratocaster", 0)
	require.NoError(t, err)

	require.NoError(t, service.Untrack(ctx, "Fender", "Stratocaster"))

	select {
	case <-scan.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("untrack did not cancel the active scan")
	}

	_, ok := service.ActiveScan("Fender", "Stratocaster")
	require.False(t, ok)
}
