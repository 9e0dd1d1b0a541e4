package deals

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"dealio-backend/services/catalog"
	"dealio-backend/services/deals/db"
	"dealio-backend/services/marketfeed"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/deals")

// Feed is the upstream data source boundary. Implemented by
// marketfeed.Client in production.
type Feed interface {
	Fetch(ctx context.Context, brand, model string) (marketfeed.Feed, error)
}

type Config struct {
	Scan ScanConfig `json:"scan"`
	// drop listings without a usable URL instead of constructing a
	// marketplace search link for them
	RequireListingURL bool `json:"require_listing_url"`
}

// Service runs the scan pipeline (fetch, normalize, score, rank,
// progressively reveal) for the user's tracked guitars and keeps the
// latest settled result per guitar in sqlite.
type Service struct {
	db   *sql.DB
	qry  *db.Queries
	feed Feed
	cfg  Config

	mu     sync.Mutex
	active map[string]*Scan
}

func NewService(database *sql.DB, feed Feed, cfg Config) *Service {
	cfg.Scan = cfg.Scan.withDefaults()
	return &Service{
		db:     database,
		qry:    db.New(database),
		feed:   feed,
		cfg:    cfg,
		active: map[string]*Scan{},
	}
}

type TrackedGuitar struct {
	Brand   string    `json:"brand"`
	Model   string    `json:"model"`
	AddedAt time.Time `json:"added_at"`
}

func guitarKey(brand, model string) string {
	return strings.ToLower(strings.TrimSpace(brand)) + "::" + strings.ToLower(strings.TrimSpace(model))
}

func (s *Service) Track(ctx context.Context, brand, model string) error {
	ctx, span := tracer.Start(ctx, "Track")
	defer span.End()
	span.SetAttributes(
		attribute.String("brand", brand),
		attribute.String("model", model),
	)

	if _, known := catalog.Lookup(brand, model); !known {
		slog.WarnContext(ctx, "tracking a guitar outside the catalog", "brand", brand, "model", model)
	}

	err := s.qry.CreateTrackedGuitar(ctx, db.CreateTrackedGuitarParams{
		Brand:   brand,
		Model:   model,
		AddedAt: time.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *Service) Untrack(ctx context.Context, brand, model string) error {
	ctx, span := tracer.Start(ctx, "Untrack")
	defer span.End()
	span.SetAttributes(
		attribute.String("brand", brand),
		attribute.String("model", model),
	)

	s.CancelScan(brand, model)

	err := s.qry.DeleteTrackedGuitar(ctx, db.DeleteTrackedGuitarParams{
		Brand: brand,
		Model: model,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *Service) TrackedGuitars(ctx context.Context) ([]TrackedGuitar, error) {
	ctx, span := tracer.Start(ctx, "TrackedGuitars")
	defer span.End()

	rows, err := s.qry.ListTrackedGuitars(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	guitars := make([]TrackedGuitar, len(rows))
	for i, r := range rows {
		guitars[i] = TrackedGuitar{
			Brand:   r.Brand,
			Model:   r.Model,
			AddedAt: time.Unix(r.AddedAt, 0),
		}
	}
	return guitars, nil
}

// RunScan starts one scan for a guitar. At most one scan per guitar
// may be active; a second call returns ErrScanActive and leaves the
// running scan untouched. The scan outlives the caller's context,
// stop it through Cancel or CancelScan.
func (s *Service) RunScan(ctx context.Context, brand, model string, priceHint float64) (*Scan, error) {
	ctx, span := tracer.Start(ctx, "RunScan")
	defer span.End()
	span.SetAttributes(
		attribute.String("brand", brand),
		attribute.String("model", model),
	)

	key := guitarKey(brand, model)

	s.mu.Lock()
	if _, busy := s.active[key]; busy {
		s.mu.Unlock()
		span.SetStatus(codes.Error, ErrScanActive.Error())
		return nil, ErrScanActive
	}

	scanCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	scan := newScan(ulid.Make().String(), cancel, len(s.cfg.Scan.Sources)+4)
	s.active[key] = scan
	s.mu.Unlock()

	span.SetAttributes(attribute.String("scan_id", scan.ID))

	go s.runScan(scanCtx, scan, key, brand, model, priceHint)
	return scan, nil
}

func (s *Service) runScan(ctx context.Context, scan *Scan, key, brand, model string, priceHint float64) {
	ctx, span := tracer.Start(ctx, "scan")
	defer span.End()
	span.SetAttributes(attribute.String("scan_id", scan.ID))

	defer func() {
		s.mu.Lock()
		delete(s.active, key)
		s.mu.Unlock()
		scan.finish()
	}()

	status := ScanStatus{ScanID: scan.ID}

	feed, err := s.feed.Fetch(ctx, brand, model)
	if err != nil {
		// the scan never starts: terminal failed status, empty set
		slog.ErrorContext(ctx, "feed fetch failed", "brand", brand, "model", model, "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		status.Err = ErrFetchFailed.Error()
		status.CompletedAt = time.Now()
		scan.emit(ScanEvent{Status: status, Listings: []Listing{}})
		return
	}

	raws := make([]RawListing, len(feed.Listings))
	for i, l := range feed.Listings {
		raws[i] = RawListing(l)
	}
	valid, rejected, reasons := NormalizeBatch(raws, NormalizeOptions{
		RequireURL: s.cfg.RequireListingURL,
	})
	if rejected > 0 {
		slog.WarnContext(ctx, "rejected feed records", "count", rejected, "reasons", reasons)
	}
	status.RejectedCount = rejected

	marketPrice := priceHint
	if marketPrice <= 0 {
		marketPrice = feed.MarketPrice
	}
	if marketPrice <= 0 {
		marketPrice, err = FallbackMarketPrice(valid)
		if err != nil {
			slog.ErrorContext(ctx, "no market price reference", "brand", brand, "model", model)
			span.SetStatus(codes.Error, err.Error())
			status.Err = ErrInvalidReference.Error()
			status.CompletedAt = time.Now()
			scan.emit(ScanEvent{Status: status, Listings: []Listing{}})
			return
		}
	}
	status.MarketPrice = marketPrice

	for i := range valid {
		if valid[i].NeedsSearchURL {
			valid[i].URL = catalog.SearchLink(valid[i].Source, brand, model)
		}
	}

	scored, err := ScoreAll(valid, marketPrice)
	if err != nil {
		// unreachable, the reference was validated above
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		status.Err = err.Error()
		status.CompletedAt = time.Now()
		scan.emit(ScanEvent{Status: status, Listings: []Listing{}})
		return
	}
	ranked := Rank(scored)

	scan.reveal(ctx, s.cfg.Scan, status, ranked)

	if ctx.Err() != nil {
		// partial reveals are valid, but only completed scans
		// replace the settled result
		return
	}
	err = s.persistResult(ctx, brand, model, scan.Final())
	if err != nil {
		slog.ErrorContext(ctx, "persist scan result", "brand", brand, "model", model, "err", err)
		span.RecordError(err)
	}
}

func (s *Service) persistResult(ctx context.Context, brand, model string, final ScanEvent) error {
	guitar, err := s.qry.GetTrackedGuitar(ctx, db.GetTrackedGuitarParams{
		Brand: brand,
		Model: model,
	})
	if err == sql.ErrNoRows {
		// scans of untracked guitars are allowed, they just have
		// nowhere to settle
		slog.DebugContext(ctx, "scan finished for untracked guitar", "brand", brand, "model", model)
		return nil
	}
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(final.Listings)
	if err != nil {
		return err
	}
	listingsJSON := string(encoded)
	if listingsJSON == "null" {
		listingsJSON = "[]"
	}
	return s.qry.UpsertScanResult(ctx, db.UpsertScanResultParams{
		GuitarID:      guitar.ID,
		ScanID:        final.Status.ScanID,
		CompletedAt:   final.Status.CompletedAt.Unix(),
		NextScanAt:    final.Status.NextScanAt.Unix(),
		MarketPrice:   final.Status.MarketPrice,
		RejectedCount: int64(final.Status.RejectedCount),
		Listings:      listingsJSON,
	})
}

// CancelScan stops the active scan for a guitar, if any. Reports
// whether there was one.
func (s *Service) CancelScan(brand, model string) bool {
	s.mu.Lock()
	scan, ok := s.active[guitarKey(brand, model)]
	s.mu.Unlock()
	if !ok {
		return false
	}
	scan.Cancel()
	return true
}

// ActiveScan returns the in-flight scan for a guitar, if any.
func (s *Service) ActiveScan(brand, model string) (*Scan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.active[guitarKey(brand, model)]
	return scan, ok
}

// SettledResult is the stored outcome of the last completed scan for
// a tracked guitar.
type SettledResult struct {
	ScanID        string    `json:"scan_id"`
	CompletedAt   time.Time `json:"completed_at"`
	NextScanAt    time.Time `json:"next_scan_at"`
	MarketPrice   float64   `json:"market_price"`
	RejectedCount int       `json:"rejected_count"`
	Listings      []Listing `json:"listings"`
}

func (s *Service) Settled(ctx context.Context, brand, model string) (SettledResult, error) {
	ctx, span := tracer.Start(ctx, "Settled")
	defer span.End()
	span.SetAttributes(
		attribute.String("brand", brand),
		attribute.String("model", model),
	)

	guitar, err := s.qry.GetTrackedGuitar(ctx, db.GetTrackedGuitarParams{
		Brand: brand,
		Model: model,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SettledResult{}, err
	}
	row, err := s.qry.GetScanResult(ctx, guitar.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SettledResult{}, err
	}

	var listings []Listing
	err = json.Unmarshal([]byte(row.Listings), &listings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal stored listings")
		return SettledResult{}, err
	}

	return SettledResult{
		ScanID:        row.ScanID,
		CompletedAt:   time.Unix(row.CompletedAt, 0),
		NextScanAt:    time.Unix(row.NextScanAt, 0),
		MarketPrice:   row.MarketPrice,
		RejectedCount: int(row.RejectedCount),
		Listings:      listings,
	}, nil
}
