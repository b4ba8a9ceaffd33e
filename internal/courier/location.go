package courier

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// Synthetic fallback sample parameters
const (
	fallbackBaseLatitude  = -23.5505
	fallbackBaseLongitude = -46.6333
	fallbackJitter        = 0.005
	fallbackAccuracy      = 10
	fallbackSpeed         = 20
	fallbackHeading       = 90
)

// PositionOptions mirror the acquisition knobs of platform geolocation
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Positioner is the platform positioning source. A nil Positioner means
// the platform cannot provide positioning at all.
type Positioner interface {
	// CurrentPosition acquires a one-shot fix.
	CurrentPosition(opts PositionOptions) (LocationSample, error)

	// WatchPosition starts continuous monitoring. Every update or error is
	// delivered to fn. The returned function cancels the watch.
	WatchPosition(opts PositionOptions, fn func(LocationSample, error)) (func(), error)
}

// locationPusher is the slice of the API client the reporter needs
type locationPusher interface {
	PushLocation(ctx context.Context, sample LocationSample) error
}

// Reporter samples the courier position while online and pushes every
// sample to the location endpoint.
type Reporter struct {
	api locationPusher
	pos Positioner
	log *slog.Logger

	// fallbackInterval is the synthetic sample period when no positioning
	// is available. Shortened in tests.
	fallbackInterval time.Duration
}

// NewReporter creates a location reporter. pos may be nil when the
// platform has no positioning support.
func NewReporter(api locationPusher, pos Positioner, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		api:              api,
		pos:              pos,
		log:              logger,
		fallbackInterval: 30 * time.Second,
	}
}

// ReporterHandle owns the loops started by one activation. Stop is
// idempotent and releases both the continuous watch and any fallback
// timer.
type ReporterHandle struct {
	once      sync.Once
	done      chan struct{}
	stopWatch func()
}

// Stop deactivates the reporter
func (h *ReporterHandle) Stop() {
	h.once.Do(func() {
		close(h.done)
		if h.stopWatch != nil {
			h.stopWatch()
		}
	})
}

func (h *ReporterHandle) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Start activates location reporting and returns the handle that owns it
func (r *Reporter) Start() *ReporterHandle {
	h := &ReporterHandle{done: make(chan struct{})}

	if r.pos == nil {
		r.log.Warn("positioning unavailable, using synthetic location")
		go r.runFallback(h)
		return h
	}

	// One-shot high-accuracy fix, tolerating a position cached up to a
	// minute ago.
	go func() {
		sample, err := r.pos.CurrentPosition(PositionOptions{
			HighAccuracy: true,
			Timeout:      10 * time.Second,
			MaximumAge:   60 * time.Second,
		})
		if err != nil {
			r.log.Warn("one-shot position failed, sending synthetic sample", "error", err)
			sample = r.synthetic()
		}
		if h.stopped() {
			return
		}
		r.send(sample)
	}()

	// Continuous monitoring with a tighter cache tolerance. A single
	// errored update yields one synthetic sample; the watch stays up.
	stop, err := r.pos.WatchPosition(PositionOptions{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaximumAge:   30 * time.Second,
	}, func(sample LocationSample, err error) {
		if h.stopped() {
			return
		}
		if err != nil {
			r.log.Warn("position update failed, sending synthetic sample", "error", err)
			sample = r.synthetic()
		}
		r.send(sample)
	})
	if err != nil {
		r.log.Warn("continuous watch unavailable, sending synthetic sample", "error", err)
		r.send(r.synthetic())
		return h
	}

	h.stopWatch = stop
	return h
}

// runFallback emits a synthetic sample immediately and then on a fixed
// timer until stopped.
func (r *Reporter) runFallback(h *ReporterHandle) {
	r.send(r.synthetic())

	ticker := time.NewTicker(r.fallbackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			r.send(r.synthetic())
		}
	}
}

// synthetic fabricates a reading around the base coordinate
func (r *Reporter) synthetic() LocationSample {
	return LocationSample{
		Latitude:  fallbackBaseLatitude + (rand.Float64()*2*fallbackJitter - fallbackJitter),
		Longitude: fallbackBaseLongitude + (rand.Float64()*2*fallbackJitter - fallbackJitter),
		Accuracy:  fallbackAccuracy,
		Speed:     fallbackSpeed,
		Heading:   fallbackHeading,
	}
}

// send transmits one sample. Failures are logged and never block or
// retry the next sample.
func (r *Reporter) send(sample LocationSample) {
	if err := r.api.PushLocation(context.Background(), sample); err != nil {
		r.log.Error("location push failed", "error", err)
	}
}
