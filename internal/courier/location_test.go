package courier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"
)

type capturePusher struct {
	mu      sync.Mutex
	samples []LocationSample
}

func (p *capturePusher) PushLocation(ctx context.Context, sample LocationSample) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples = append(p.samples, sample)
	return nil
}

func (p *capturePusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.samples)
}

func (p *capturePusher) all() []LocationSample {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]LocationSample, len(p.samples))
	copy(out, p.samples)
	return out
}

type fakePositioner struct {
	mu          sync.Mutex
	current     LocationSample
	currentErr  error
	currentOpts PositionOptions
	watchOpts   PositionOptions
	watchFn     func(LocationSample, error)
	watchErr    error
	stopCalls   int
}

func (f *fakePositioner) CurrentPosition(opts PositionOptions) (LocationSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentOpts = opts
	return f.current, f.currentErr
}

func (f *fakePositioner) WatchPosition(opts PositionOptions, fn func(LocationSample, error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.watchOpts = opts
	f.watchFn = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopCalls++
	}, nil
}

func (f *fakePositioner) emit(sample LocationSample, err error) {
	f.mu.Lock()
	fn := f.watchFn
	f.mu.Unlock()
	if fn != nil {
		fn(sample, err)
	}
}

func (f *fakePositioner) stopped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopCalls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached in time")
}

func isSynthetic(s LocationSample) bool {
	return math.Abs(s.Latitude-fallbackBaseLatitude) <= fallbackJitter &&
		math.Abs(s.Longitude-fallbackBaseLongitude) <= fallbackJitter &&
		s.Accuracy == fallbackAccuracy &&
		s.Speed == fallbackSpeed &&
		s.Heading == fallbackHeading
}

func TestReporterWithoutPositionerUsesSyntheticTimer(t *testing.T) {
	pusher := &capturePusher{}
	reporter := NewReporter(pusher, nil, quietLogger())
	reporter.fallbackInterval = 10 * time.Millisecond

	handle := reporter.Start()
	waitFor(t, func() bool { return pusher.count() >= 3 })
	handle.Stop()

	for _, sample := range pusher.all() {
		if !isSynthetic(sample) {
			t.Fatalf("non-synthetic sample without positioner: %+v", sample)
		}
	}

	// No further samples after Stop
	settled := pusher.count()
	time.Sleep(50 * time.Millisecond)
	if pusher.count() != settled {
		t.Fatalf("samples kept flowing after Stop: %d -> %d", settled, pusher.count())
	}
}

func TestReporterOneShotAndWatch(t *testing.T) {
	fix := LocationSample{Latitude: -27.5954, Longitude: -48.548, Accuracy: 5, Speed: 12, Heading: 180}
	pos := &fakePositioner{current: fix}
	pusher := &capturePusher{}
	reporter := NewReporter(pusher, pos, quietLogger())

	handle := reporter.Start()
	defer handle.Stop()

	// Initial one-shot fix is reported
	waitFor(t, func() bool { return pusher.count() >= 1 })
	if got := pusher.all()[0]; got != fix {
		t.Fatalf("one-shot sample = %+v, want %+v", got, fix)
	}

	// Acquisition knobs: 60s cache tolerance for the one-shot, 30s for the watch
	if !pos.currentOpts.HighAccuracy || pos.currentOpts.Timeout != 10*time.Second || pos.currentOpts.MaximumAge != 60*time.Second {
		t.Fatalf("one-shot options = %+v", pos.currentOpts)
	}
	if !pos.watchOpts.HighAccuracy || pos.watchOpts.Timeout != 10*time.Second || pos.watchOpts.MaximumAge != 30*time.Second {
		t.Fatalf("watch options = %+v", pos.watchOpts)
	}

	// Every watch update triggers a report
	update := LocationSample{Latitude: -27.6, Longitude: -48.55, Accuracy: 8, Speed: 30, Heading: 90}
	pos.emit(update, nil)
	waitFor(t, func() bool { return pusher.count() >= 2 })
	if got := pusher.all()[1]; got != update {
		t.Fatalf("watch sample = %+v, want %+v", got, update)
	}
}

func TestReporterUpdateErrorEmitsOneSyntheticSample(t *testing.T) {
	pos := &fakePositioner{current: LocationSample{Latitude: 1, Longitude: 1}}
	pusher := &capturePusher{}
	reporter := NewReporter(pusher, pos, quietLogger())

	handle := reporter.Start()
	defer handle.Stop()
	waitFor(t, func() bool { return pusher.count() >= 1 })

	before := pusher.count()
	pos.emit(LocationSample{}, errors.New("position unavailable"))
	waitFor(t, func() bool { return pusher.count() == before+1 })

	if sample := pusher.all()[before]; !isSynthetic(sample) {
		t.Fatalf("error fallback sample is not synthetic: %+v", sample)
	}
	if pos.stopped() != 0 {
		t.Fatalf("watch torn down after a single errored update")
	}

	// Monitoring continues: the next good update still flows
	good := LocationSample{Latitude: 2, Longitude: 2}
	pos.emit(good, nil)
	waitFor(t, func() bool { return pusher.count() == before+2 })
}

func TestReporterStopReleasesWatch(t *testing.T) {
	pos := &fakePositioner{current: LocationSample{Latitude: 1, Longitude: 1}}
	pusher := &capturePusher{}
	reporter := NewReporter(pusher, pos, quietLogger())

	handle := reporter.Start()
	waitFor(t, func() bool { return pusher.count() >= 1 })

	handle.Stop()
	handle.Stop() // idempotent

	if pos.stopped() != 1 {
		t.Fatalf("watch stop calls = %d, want 1", pos.stopped())
	}

	// A late platform callback after Stop is ignored, not a crash
	before := pusher.count()
	pos.emit(LocationSample{Latitude: 9, Longitude: 9}, nil)
	time.Sleep(20 * time.Millisecond)
	if pusher.count() != before {
		t.Fatalf("sample reported after Stop")
	}
}
