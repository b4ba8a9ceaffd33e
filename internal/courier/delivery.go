package courier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DeliveryStatus is the lifecycle position of an active delivery
type DeliveryStatus string

const (
	StatusAccepted  DeliveryStatus = "accepted"
	StatusPickup    DeliveryStatus = "pickup"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
)

// nextStatus maps each status to its successor. Transitions are strictly
// forward; delivered has no successor.
var nextStatus = map[DeliveryStatus]DeliveryStatus{
	StatusAccepted:  StatusPickup,
	StatusPickup:    StatusInTransit,
	StatusInTransit: StatusDelivered,
}

// StatusInfo is the presentation record for a lifecycle status
type StatusInfo struct {
	Title       string
	Description string
	Color       string
}

// StatusTable drives all status-derived presentation
var StatusTable = map[DeliveryStatus]StatusInfo{
	StatusAccepted:  {Title: "Pedido Aceito", Description: "Dirija-se ao local de coleta", Color: "blue"},
	StatusPickup:    {Title: "No Local de Coleta", Description: "Colete o item e confirme", Color: "yellow"},
	StatusInTransit: {Title: "A Caminho", Description: "Dirija-se ao local de entrega", Color: "orange"},
	StatusDelivered: {Title: "Entregue", Description: "Entrega concluída com sucesso", Color: "green"},
}

// ActiveDelivery is the single delivery the courier is executing
type ActiveDelivery struct {
	DeliveryOffer
	Status     DeliveryStatus `json:"status"`
	AcceptedAt time.Time      `json:"acceptedAt"`
}

var (
	ErrDeliveryInProgress = errors.New("a delivery is already in progress")
	ErrNoActiveDelivery   = errors.New("no active delivery")
	ErrAlreadyDelivered   = errors.New("delivery already completed")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5 stars")
)

// ratingSender is the slice of the API client the tracker needs
type ratingSender interface {
	SubmitRating(ctx context.Context, submission RatingSubmission) error
}

// Tracker advances a single active delivery through its lifecycle and
// handles the post-completion rating step.
type Tracker struct {
	mu       sync.Mutex
	api      ratingSender
	log      *slog.Logger
	driverID uint
	active   *ActiveDelivery
}

// NewTracker creates a lifecycle tracker for the given courier
func NewTracker(api ratingSender, driverID uint, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{api: api, log: logger, driverID: driverID}
}

// Accept turns an offer into the active delivery. It fails while another
// delivery is active.
func (t *Tracker) Accept(offer DeliveryOffer) (*ActiveDelivery, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != nil {
		return nil, ErrDeliveryInProgress
	}

	t.active = &ActiveDelivery{
		DeliveryOffer: offer,
		Status:        StatusAccepted,
		AcceptedAt:    time.Now(),
	}
	t.log.Info("delivery accepted", "offerId", offer.ID, "customer", offer.CustomerName)

	active := *t.active
	return &active, nil
}

// Active returns a copy of the current delivery, or nil when idle
func (t *Tracker) Active() *ActiveDelivery {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil {
		return nil
	}
	active := *t.active
	return &active
}

// Advance moves the delivery one step forward. Advancing a delivered
// delivery is a no-op.
func (t *Tracker) Advance() (DeliveryStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil {
		return "", ErrNoActiveDelivery
	}

	next, ok := nextStatus[t.active.Status]
	if !ok {
		return t.active.Status, ErrAlreadyDelivered
	}

	t.active.Status = next
	t.log.Info("delivery status advanced", "offerId", t.active.ID, "status", string(next))
	return next, nil
}

// Cancel discards the active delivery. It is unavailable once delivered;
// the caller is responsible for the confirmation prompt.
func (t *Tracker) Cancel() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil {
		return ErrNoActiveDelivery
	}
	if t.active.Status == StatusDelivered {
		return ErrAlreadyDelivered
	}

	t.log.Info("delivery cancelled", "offerId", t.active.ID, "status", string(t.active.Status))
	t.active = nil
	return nil
}

// CompleteWithRating submits the post-delivery rating and returns the
// courier to idle. Star validation happens before any network call; a
// failed submission is reported once and never retried, and the courier
// goes idle regardless of the outcome.
func (t *Tracker) CompleteWithRating(ctx context.Context, stars int, comment string) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidRating
	}

	t.mu.Lock()
	if t.active == nil {
		t.mu.Unlock()
		return ErrNoActiveDelivery
	}
	if t.active.Status != StatusDelivered {
		t.mu.Unlock()
		return fmt.Errorf("delivery is %s, not delivered", t.active.Status)
	}
	submission := RatingSubmission{
		RaterID:    t.driverID,
		RatedID:    t.active.CustomerID,
		OrderID:    t.active.ID,
		Rating:     stars,
		Comment:    comment,
		RatingType: "customer_service",
	}
	t.active = nil
	t.mu.Unlock()

	if err := t.api.SubmitRating(ctx, submission); err != nil {
		t.log.Error("rating submission failed", "orderId", submission.OrderID, "error", err)
		return fmt.Errorf("rating submission failed: %w", err)
	}

	t.log.Info("rating submitted", "orderId", submission.OrderID, "rating", stars)
	return nil
}

// DismissRating skips the rating step after a delivered delivery and
// returns the courier to idle.
func (t *Tracker) DismissRating() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil {
		return ErrNoActiveDelivery
	}
	if t.active.Status != StatusDelivered {
		return fmt.Errorf("delivery is %s, not delivered", t.active.Status)
	}

	t.active = nil
	return nil
}

// discard drops any active delivery without ceremony, used on logout
func (t *Tracker) discard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = nil
}
