package deals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func makeRanked(n int) []Listing {
	listings := make([]Listing, n)
	for i := range listings {
		listings[i] = Listing{
			ID:    fmt.Sprintf("listing-%d", i),
			Price: float64(500 + i*10),
			Score: 100 - i,
		}
	}
	return listings
}

func collectEvents(scan *Scan) []ScanEvent {
	var events []ScanEvent
	for ev := range scan.Events() {
		events = append(events, ev)
	}
	return events
}

func TestRevealProgression(t *testing.T) {
	cfg := ScanConfig{}.withDefaults()
	ranked := makeRanked(24)

	ctx, cancel := context.WithCancel(context.Background())
	scan := newScan("scan-1", cancel, len(cfg.Sources)+4)
	go func() {
		scan.reveal(ctx, cfg, ScanStatus{ScanID: "scan-1", MarketPrice: 900}, ranked)
		scan.finish()
	}()

	events := collectEvents(scan)
	<-scan.Done()

	// one event per source plus the terminal event
	require.Len(t, events, len(cfg.Sources)+1)

	prevRevealed := 0
	prevProgress := 0.0
	for i, ev := range events[:len(cfg.Sources)] {
		require.True(t, ev.Status.Active)
		require.Equal(t, cfg.Sources[i], ev.Status.CurrentSource)
		require.GreaterOrEqual(t, ev.Status.RevealedCount, prevRevealed)
		require.Greater(t, ev.Status.Progress, prevProgress)
		require.Len(t, ev.Listings, ev.Status.RevealedCount)
		// revealed listings are always a prefix of the ranked order
		for j, l := range ev.Listings {
			require.Equal(t, ranked[j].ID, l.ID)
		}
		prevRevealed = ev.Status.RevealedCount
		prevProgress = ev.Status.Progress
	}

	first := events[0]
	require.Equal(t, 3, first.Status.RevealedCount)
	middle := events[len(cfg.Sources)/2]
	require.Equal(t, (len(ranked)+1)/2, middle.Status.RevealedCount)

	terminal := events[len(events)-1]
	require.False(t, terminal.Status.Active)
	require.Empty(t, terminal.Status.CurrentSource)
	require.Equal(t, len(ranked), terminal.Status.RevealedCount)
	require.Len(t, terminal.Listings, len(ranked))
	require.False(t, terminal.Status.CompletedAt.IsZero())
	require.Equal(t,
		terminal.Status.CompletedAt.Add(6*time.Hour),
		terminal.Status.NextScanAt,
	)

	require.Equal(t, terminal, scan.Final())
}

func TestRevealFewerListingsThanSteps(t *testing.T) {
	cfg := ScanConfig{}.withDefaults()
	ranked := makeRanked(2)

	ctx, cancel := context.WithCancel(context.Background())
	scan := newScan("scan-2", cancel, len(cfg.Sources)+4)
	go func() {
		scan.reveal(ctx, cfg, ScanStatus{ScanID: "scan-2"}, ranked)
		scan.finish()
	}()

	events := collectEvents(scan)
	for _, ev := range events {
		require.LessOrEqual(t, ev.Status.RevealedCount, len(ranked))
	}
	terminal := events[len(events)-1]
	require.Equal(t, len(ranked), terminal.Status.RevealedCount)
}

func TestRevealEmptyRanked(t *testing.T) {
	cfg := ScanConfig{}.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	scan := newScan("scan-3", cancel, len(cfg.Sources)+4)
	go func() {
		scan.reveal(ctx, cfg, ScanStatus{ScanID: "scan-3"}, nil)
		scan.finish()
	}()

	events := collectEvents(scan)
	terminal := events[len(events)-1]
	require.False(t, terminal.Status.Active)
	require.Zero(t, terminal.Status.RevealedCount)
	require.Empty(t, terminal.Listings)
}

func TestRevealCancellation(t *testing.T) {
	// a long min delay so cancellation lands inside the first sleep
	cfg := ScanConfig{
		MinStepDelayMs: 5000,
		MaxStepDelayMs: 5000,
	}.withDefaults()
	ranked := makeRanked(24)

	ctx, cancel := context.WithCancel(context.Background())
	scan := newScan("scan-4", cancel, len(cfg.Sources)+4)
	go func() {
		scan.reveal(ctx, cfg, ScanStatus{ScanID: "scan-4"}, ranked)
		scan.finish()
	}()

	events := make(chan []ScanEvent, 1)
	go func() {
		events <- collectEvents(scan)
	}()

	time.Sleep(50 * time.Millisecond)
	scan.Cancel()

	select {
	case evs := <-events:
		// the first source emitted, then cancellation cut the scan
		// short; the terminal event still arrives
		terminal := evs[len(evs)-1]
		require.False(t, terminal.Status.Active)
		require.Equal(t, 3, terminal.Status.RevealedCount)
		require.Len(t, terminal.Listings, 3)
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not terminate after cancellation")
	}
}

func TestRevealCountPacing(t *testing.T) {
	total := 20
	steps := 6
	prev := 0
	for step := 0; step < steps; step++ {
		next := revealCount(step, steps, total, prev)
		require.GreaterOrEqual(t, next, prev)
		require.LessOrEqual(t, next, total)
		prev = next
	}
	require.Equal(t, total, prev)
}
