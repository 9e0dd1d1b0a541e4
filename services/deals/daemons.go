package deals

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RescanDaemon refreshes every tracked guitar on the configured
// interval. Guitars with a scan already in flight are skipped rather
// than queued, overlapping scans for one subject are never allowed.
func (s *Service) RescanDaemon(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Scan.rescanInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.rescanTracked(ctx)
		}
	}
}

func (s *Service) rescanTracked(ctx context.Context) {
	guitars, err := s.TrackedGuitars(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list tracked guitars", "err", err)
		return
	}

	// running these in serial keeps the daemon inside the upstream
	// rate limit
	for _, g := range guitars {
		scan, err := s.RunScan(ctx, g.Brand, g.Model, 0)
		if errors.Is(err, ErrScanActive) {
			slog.DebugContext(ctx, "skipping rescan, scan already active", "brand", g.Brand, "model", g.Model)
			continue
		}
		if err != nil {
			slog.WarnContext(ctx, "rescan failed to start", "brand", g.Brand, "model", g.Model, "err", err)
			continue
		}

		select {
		case <-scan.Done():
		case <-ctx.Done():
			scan.Cancel()
			return
		}
	}
}
