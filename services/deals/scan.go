package deals

import (
	"context"
	"sync"
	"time"

	"github.com/mazen160/go-random"
)

// DefaultSources is the fixed label sequence a scan steps through.
// These are presentation labels for the simulated multi-source pass,
// not the sources the listings actually came from.
var DefaultSources = []string{
	"Reverb",
	"eBay",
	"Facebook Marketplace",
	"Craigslist",
	"Guitar Center Used",
	"Sweetwater Gear Exchange",
}

type ScanConfig struct {
	Sources []string `json:"sources"`
	// inter-step delay bounds in milliseconds, both zero disables
	// the delay entirely (tests rely on this)
	MinStepDelayMs int `json:"min_step_delay_ms"`
	MaxStepDelayMs int `json:"max_step_delay_ms"`
	// advisory interval until the next scan, also drives the
	// rescan daemon
	RescanIntervalHours int `json:"rescan_interval_hours"`
}

func (c ScanConfig) withDefaults() ScanConfig {
	if len(c.Sources) == 0 {
		c.Sources = DefaultSources
	}
	if c.RescanIntervalHours == 0 {
		c.RescanIntervalHours = 6
	}
	return c
}

func (c ScanConfig) rescanInterval() time.Duration {
	return time.Duration(c.RescanIntervalHours) * time.Hour
}

// Scan is one live scan invocation. Consumers read progress from
// Events until it closes, then pick up the settled state from Final.
type Scan struct {
	ID string

	events chan ScanEvent
	cancel context.CancelFunc
	done   chan struct{}

	mu   sync.Mutex
	last ScanEvent
}

func newScan(id string, cancel context.CancelFunc, eventCapacity int) *Scan {
	return &Scan{
		ID:     id,
		events: make(chan ScanEvent, eventCapacity),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Events yields every status transition of the scan, ending with a
// terminal event (Active=false). The channel closes after the
// terminal event.
func (s *Scan) Events() <-chan ScanEvent {
	return s.events
}

// Cancel stops the scan at the next step boundary. Listings revealed
// so far stay revealed.
func (s *Scan) Cancel() {
	s.cancel()
}

func (s *Scan) Done() <-chan struct{} {
	return s.done
}

// Final returns the last emitted event. Only meaningful after Done is
// closed, at which point it is the settled state of the scan.
func (s *Scan) Final() ScanEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scan) emit(ev ScanEvent) {
	s.mu.Lock()
	s.last = ev
	s.mu.Unlock()
	// the channel is sized for the bounded number of step events,
	// emits never block
	select {
	case s.events <- ev:
	default:
	}
}

func (s *Scan) finish() {
	close(s.events)
	close(s.done)
}

// reveal walks the configured source labels, exposing a growing prefix
// of the ranked set at each step. Cancellation is checked at step
// boundaries only; each step itself is just a slice.
func (s *Scan) reveal(ctx context.Context, cfg ScanConfig, status ScanStatus, ranked []Listing) {
	total := len(ranked)
	steps := len(cfg.Sources)
	revealed := 0

	for i, source := range cfg.Sources {
		if i > 0 {
			if !sleepStep(ctx, cfg) {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		revealed = revealCount(i, steps, total, revealed)

		status.Active = true
		status.CurrentSource = source
		status.CompletedSources = append(status.CompletedSources, source)
		status.Progress = float64(i+1) / float64(steps) * 100
		status.RevealedCount = revealed
		s.emit(ScanEvent{Status: status, Listings: ranked[:revealed]})
	}

	status.Active = false
	status.CurrentSource = ""
	status.RevealedCount = revealed
	status.CompletedAt = time.Now()
	status.NextScanAt = status.CompletedAt.Add(cfg.rescanInterval())
	s.emit(ScanEvent{Status: status, Listings: ranked[:revealed]})
}

// prefix pacing: a small head right away, roughly half at the middle
// step, everything on the last step
func revealCount(step, steps, total, previous int) int {
	next := previous
	switch {
	case step == steps-1:
		next = total
	case step == 0:
		next = 3
	case step == steps/2:
		next = (total + 1) / 2
	}
	if next < previous {
		next = previous
	}
	if next > total {
		next = total
	}
	return next
}

// sleepStep suspends for a randomized delay between steps,
// simulating marketplace scan latency. Returns false if cancelled.
func sleepStep(ctx context.Context, cfg ScanConfig) bool {
	if cfg.MaxStepDelayMs <= 0 {
		return ctx.Err() == nil
	}
	ms, err := random.IntRange(cfg.MinStepDelayMs, cfg.MaxStepDelayMs+1)
	if err != nil {
		ms = cfg.MinStepDelayMs
	}

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
