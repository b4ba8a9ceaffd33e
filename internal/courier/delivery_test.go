package courier

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeRatingSender struct {
	mu    sync.Mutex
	calls int
	last  RatingSubmission
	err   error
}

func (f *fakeRatingSender) SubmitRating(ctx context.Context, submission RatingSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = submission
	return f.err
}

func (f *fakeRatingSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testOffer() DeliveryOffer {
	return StaticOffers()[0]
}

func TestAdvanceFollowsLifecycle(t *testing.T) {
	tracker := NewTracker(&fakeRatingSender{}, 2, nil)

	active, err := tracker.Accept(testOffer())
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if active.Status != StatusAccepted {
		t.Fatalf("new delivery status = %q, want %q", active.Status, StatusAccepted)
	}

	want := []DeliveryStatus{StatusPickup, StatusInTransit, StatusDelivered}
	for _, expected := range want {
		status, err := tracker.Advance()
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if status != expected {
			t.Fatalf("Advance = %q, want %q", status, expected)
		}
	}

	// Advancing past delivered is a no-op
	status, err := tracker.Advance()
	if !errors.Is(err, ErrAlreadyDelivered) {
		t.Fatalf("Advance past terminal: err = %v, want ErrAlreadyDelivered", err)
	}
	if status != StatusDelivered {
		t.Fatalf("status after terminal advance = %q, want %q", status, StatusDelivered)
	}
}

func TestAcceptFailsWhileActive(t *testing.T) {
	tracker := NewTracker(&fakeRatingSender{}, 2, nil)

	if _, err := tracker.Accept(testOffer()); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := tracker.Accept(StaticOffers()[1]); !errors.Is(err, ErrDeliveryInProgress) {
		t.Fatalf("second Accept: err = %v, want ErrDeliveryInProgress", err)
	}
}

func TestCancelFromNonTerminalStates(t *testing.T) {
	// Cancellation must work after zero, one and two advances
	for steps := 0; steps < 3; steps++ {
		tracker := NewTracker(&fakeRatingSender{}, 2, nil)
		if _, err := tracker.Accept(testOffer()); err != nil {
			t.Fatalf("Accept: %v", err)
		}
		for i := 0; i < steps; i++ {
			if _, err := tracker.Advance(); err != nil {
				t.Fatalf("Advance: %v", err)
			}
		}

		if err := tracker.Cancel(); err != nil {
			t.Fatalf("Cancel after %d advances: %v", steps, err)
		}
		if tracker.Active() != nil {
			t.Fatalf("delivery still active after cancel")
		}
	}
}

func TestCancelUnavailableOnceDelivered(t *testing.T) {
	tracker := NewTracker(&fakeRatingSender{}, 2, nil)
	tracker.Accept(testOffer())
	for i := 0; i < 3; i++ {
		tracker.Advance()
	}

	if err := tracker.Cancel(); !errors.Is(err, ErrAlreadyDelivered) {
		t.Fatalf("Cancel at delivered: err = %v, want ErrAlreadyDelivered", err)
	}
}

func TestCompleteWithRatingValidatesStars(t *testing.T) {
	sender := &fakeRatingSender{}
	tracker := NewTracker(sender, 2, nil)
	tracker.Accept(testOffer())
	for i := 0; i < 3; i++ {
		tracker.Advance()
	}

	for _, stars := range []int{0, -1, 6} {
		err := tracker.CompleteWithRating(context.Background(), stars, "")
		if !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("stars=%d: err = %v, want ErrInvalidRating", stars, err)
		}
	}
	if sender.callCount() != 0 {
		t.Fatalf("invalid ratings issued %d network calls, want 0", sender.callCount())
	}
}

func TestCompleteWithRatingSubmitsExactlyOnce(t *testing.T) {
	sender := &fakeRatingSender{}
	tracker := NewTracker(sender, 2, nil)
	offer := testOffer()
	tracker.Accept(offer)
	for i := 0; i < 3; i++ {
		tracker.Advance()
	}

	if err := tracker.CompleteWithRating(context.Background(), 5, "great"); err != nil {
		t.Fatalf("CompleteWithRating: %v", err)
	}

	if sender.callCount() != 1 {
		t.Fatalf("rating submissions = %d, want 1", sender.callCount())
	}
	if sender.last.Rating != 5 || sender.last.Comment != "great" {
		t.Fatalf("submission = %+v", sender.last)
	}
	if sender.last.RaterID != 2 || sender.last.RatedID != offer.CustomerID || sender.last.OrderID != offer.ID {
		t.Fatalf("submission ids = %+v", sender.last)
	}
	if tracker.Active() != nil {
		t.Fatalf("delivery still active after rating")
	}
}

func TestCompleteWithRatingFailureStillReturnsToIdle(t *testing.T) {
	sender := &fakeRatingSender{err: errors.New("server unavailable")}
	tracker := NewTracker(sender, 2, nil)
	tracker.Accept(testOffer())
	for i := 0; i < 3; i++ {
		tracker.Advance()
	}

	err := tracker.CompleteWithRating(context.Background(), 4, "")
	if err == nil {
		t.Fatalf("expected submission error to surface")
	}
	if tracker.Active() != nil {
		t.Fatalf("delivery still active after failed rating; courier must return to idle")
	}
	if sender.callCount() != 1 {
		t.Fatalf("failed submission retried: %d calls", sender.callCount())
	}
}

func TestCompleteWithRatingRequiresDelivered(t *testing.T) {
	sender := &fakeRatingSender{}
	tracker := NewTracker(sender, 2, nil)
	tracker.Accept(testOffer())

	if err := tracker.CompleteWithRating(context.Background(), 5, ""); err == nil {
		t.Fatalf("rating before delivered should fail")
	}
	if sender.callCount() != 0 {
		t.Fatalf("premature rating issued a network call")
	}
}

func TestDismissRating(t *testing.T) {
	tracker := NewTracker(&fakeRatingSender{}, 2, nil)
	tracker.Accept(testOffer())
	for i := 0; i < 3; i++ {
		tracker.Advance()
	}

	if err := tracker.DismissRating(); err != nil {
		t.Fatalf("DismissRating: %v", err)
	}
	if tracker.Active() != nil {
		t.Fatalf("delivery still active after dismiss")
	}
}

func TestStatusTableCoversAllStatuses(t *testing.T) {
	for _, status := range []DeliveryStatus{StatusAccepted, StatusPickup, StatusInTransit, StatusDelivered} {
		info, ok := StatusTable[status]
		if !ok || info.Title == "" {
			t.Fatalf("StatusTable missing entry for %q", status)
		}
	}
}
