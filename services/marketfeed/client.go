package marketfeed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealio-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("services/marketfeed")

// ErrFetchFailed covers any upstream failure: transport errors,
// non-success statuses and malformed bodies alike. Callers treat all
// of them as "fetch failed, zero listings".
var ErrFetchFailed = errors.New("marketfeed: fetch failed")

type Config struct {
	BaseUrl     string `json:"base_url"`
	AccessToken string `json:"access_token"`
	// directory for the badger response cache, empty disables caching
	CacheDir string `json:"cache_dir"`
}

// Feed is one guitar's worth of upstream data: the reference market
// price (0 when the source gives none), the raw listing records, and
// pass-through metadata the dashboard shows but never interprets.
type Feed struct {
	MarketPrice float64          `json:"market_price"`
	Listings    []map[string]any `json:"listings"`
	Specs       map[string]any   `json:"specs,omitempty"`
	ImageUrl    string           `json:"image_url,omitempty"`
}

type feedResponse struct {
	MarketPrice    *float64         `json:"market_price"`
	AvgMarketPrice *float64         `json:"avg_market_price"`
	Listings       []map[string]any `json:"listings"`
	Specs          map[string]any   `json:"specs"`
	ImageUrl       string           `json:"image_url"`
}

type Client struct {
	http  *resty.Client
	cache *responseCache
}

func NewClient(cfg Config) (*Client, error) {
	httpClient := resty.New()
	httpClient.SetTimeout(time.Minute)
	httpClient.SetBaseURL(cfg.BaseUrl)
	httpClient.SetHeader("Accept", "application/json")
	if cfg.AccessToken != "" {
		httpClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken))
	}
	telemetry.InstrumentResty(httpClient, "services/marketfeed")

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	var cache *responseCache
	if cfg.CacheDir != "" {
		var err error
		cache, err = newResponseCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
	}

	return &Client{http: httpClient, cache: cache}, nil
}

func (c *Client) Close() error {
	if c.cache != nil {
		return c.cache.close()
	}
	return nil
}

// Fetch pulls the market price and raw listings for one guitar. The
// response is cached briefly since dashboard refreshes tend to hit the
// same guitar in bursts.
func (c *Client) Fetch(ctx context.Context, brand, model string) (Feed, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	span.SetAttributes(
		attribute.String("brand", brand),
		attribute.String("model", model),
	)

	key := cacheKey(brand, model)
	if c.cache != nil {
		feed, ok := c.cache.get(ctx, key)
		if ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return feed, nil
		}
	}

	var body feedResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("brand", brand).
		SetQueryParam("model", model).
		SetResult(&body).
		Get("/api/listings")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Feed{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if res.IsError() {
		err := fmt.Errorf("%w: status %s", ErrFetchFailed, res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Feed{}, err
	}

	feed := Feed{
		MarketPrice: derefPrice(body.MarketPrice, body.AvgMarketPrice),
		Listings:    body.Listings,
		Specs:       body.Specs,
		ImageUrl:    body.ImageUrl,
	}
	if c.cache != nil {
		c.cache.put(ctx, key, feed)
	}
	return feed, nil
}

func derefPrice(prices ...*float64) float64 {
	for _, p := range prices {
		if p != nil && *p > 0 {
			return *p
		}
	}
	return 0
}

func cacheKey(brand, model string) string {
	return "feed:" + strings.ToLower(strings.TrimSpace(brand)) +
		":" + strings.ToLower(strings.TrimSpace(model))
}
