package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

// DefaultSettleDelay is how long a payment stays in processing.
const DefaultSettleDelay = 2500 * time.Millisecond

// OrderRefPrefix starts every order reference.
const OrderRefPrefix = "HNO-"

// checkoutEntry owns one checkout session and its settlement timer.
type checkoutEntry struct {
	mu      sync.Mutex
	session *domain.CheckoutSession
	timer   *time.Timer
	closed  bool
}

// stop cancels the settlement timer and marks the entry dead. Must be called
// with e.mu held.
func (e *checkoutEntry) stop() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if !e.closed {
		e.closed = true
		checkoutActive.Dec()
	}
}

// CheckoutService hosts one checkout session per storefront session.
type CheckoutService struct {
	carts       *CartService
	publisher   event.Publisher
	logger      *slog.Logger
	settleDelay time.Duration

	mu      sync.Mutex
	entries map[string]*checkoutEntry
}

// NewCheckoutService creates a new checkout service. A non-positive
// settleDelay selects DefaultSettleDelay.
func NewCheckoutService(carts *CartService, publisher event.Publisher, logger *slog.Logger, settleDelay time.Duration) *CheckoutService {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &CheckoutService{
		carts:       carts,
		publisher:   publisher,
		logger:      logger,
		settleDelay: settleDelay,
		entries:     make(map[string]*checkoutEntry),
	}
}

// NewOrderRef returns a display-only order reference such as HNO-3F9A1C7B.
func NewOrderRef() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return OrderRefPrefix + strings.ToUpper(id[:8])
}

// Open starts a checkout over a snapshot of the session's cart. An existing
// session is replaced unless its payment is processing.
func (s *CheckoutService) Open(ctx context.Context, sessionID string) (domain.CheckoutSession, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	session, err := domain.NewCheckoutSession(uuid.NewString(), sessionID, cart, time.Now().UTC())
	if err != nil {
		checkoutRejections.WithLabelValues("open", "empty_cart").Inc()
		return domain.CheckoutSession{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[sessionID]; ok {
		prev.mu.Lock()
		if !prev.closed && prev.session.Step == domain.StepProcessing {
			prev.mu.Unlock()
			checkoutRejections.WithLabelValues("open", "processing").Inc()
			return domain.CheckoutSession{}, apperrors.Conflict("a payment is being processed for this session")
		}
		prev.stop()
		prev.mu.Unlock()
	}

	s.entries[sessionID] = &checkoutEntry{session: session}
	checkoutActive.Inc()
	checkoutTransitions.WithLabelValues("open").Inc()

	s.logger.InfoContext(ctx, "checkout opened",
		slog.String("session_id", sessionID),
		slog.String("checkout_id", session.ID),
		slog.Int64("total", session.Totals.Total),
	)
	return session.Snapshot(), nil
}

// lookup returns the live entry for sessionID, locked. The caller must unlock it.
func (s *CheckoutService) lookup(sessionID string) (*checkoutEntry, error) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.NotFound("checkout session", sessionID)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, apperrors.NotFound("checkout session", sessionID)
	}
	return e, nil
}

// forget removes e from the registry if it is still the current entry.
func (s *CheckoutService) forget(sessionID string, e *checkoutEntry) {
	s.mu.Lock()
	if s.entries[sessionID] == e {
		delete(s.entries, sessionID)
	}
	s.mu.Unlock()
}

// Get returns the current checkout session.
func (s *CheckoutService) Get(_ context.Context, sessionID string) (domain.CheckoutSession, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	defer e.mu.Unlock()
	return e.session.Snapshot(), nil
}

// transition runs fn against the locked session and records the outcome.
func (s *CheckoutService) transition(ctx context.Context, sessionID, name string, fn func(*checkoutEntry) error) (domain.CheckoutSession, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	from := e.session.Step
	if err := fn(e); err != nil {
		e.mu.Unlock()
		checkoutRejections.WithLabelValues(name, rejectionReason(err)).Inc()
		return domain.CheckoutSession{}, err
	}
	snapshot := e.session.Snapshot()
	e.mu.Unlock()

	checkoutTransitions.WithLabelValues(name).Inc()
	s.logger.InfoContext(ctx, "checkout transition",
		slog.String("session_id", sessionID),
		slog.String("checkout_id", snapshot.ID),
		slog.String("transition", name),
		slog.String("from", from),
		slog.String("to", snapshot.Step),
	)
	return snapshot, nil
}

// SubmitShipping advances from shipping to payment.
func (s *CheckoutService) SubmitShipping(ctx context.Context, sessionID string, details domain.ShippingDetails) (domain.CheckoutSession, error) {
	return s.transition(ctx, sessionID, "submit_shipping", func(e *checkoutEntry) error {
		return e.session.SubmitShipping(details)
	})
}

// BackToShipping returns from payment to shipping.
func (s *CheckoutService) BackToShipping(ctx context.Context, sessionID string) (domain.CheckoutSession, error) {
	return s.transition(ctx, sessionID, "back_to_shipping", func(e *checkoutEntry) error {
		return e.session.BackToShipping()
	})
}

// SubmitPayment advances from payment to processing and schedules settlement.
func (s *CheckoutService) SubmitPayment(ctx context.Context, sessionID string, card domain.CardDetails) (domain.CheckoutSession, error) {
	return s.transition(ctx, sessionID, "submit_payment", func(e *checkoutEntry) error {
		if err := e.session.SubmitPayment(card); err != nil {
			return err
		}
		e.timer = time.AfterFunc(s.settleDelay, func() { s.settle(sessionID, e) })
		return nil
	})
}

// settle is the settlement timer callback. It does nothing once the entry
// has been torn down.
func (s *CheckoutService) settle(sessionID string, e *checkoutEntry) {
	ctx := context.Background()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	if err := e.session.Settle(NewOrderRef()); err != nil {
		e.mu.Unlock()
		s.logger.Error("settlement rejected",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return
	}
	// Empty the cart while still holding the lock so nobody observes success
	// with a full cart. Events go out after unlocking.
	s.carts.reset(ctx, sessionID)
	snapshot := e.session.Snapshot()
	e.mu.Unlock()

	s.carts.announceCleared(ctx, sessionID)
	checkoutTransitions.WithLabelValues("settle").Inc()
	s.logger.Info("checkout completed",
		slog.String("session_id", sessionID),
		slog.String("checkout_id", snapshot.ID),
		slog.String("order_ref", snapshot.OrderRef),
		slog.Int64("total", snapshot.Totals.Total),
	)

	if err := s.publisher.PublishCheckoutCompleted(ctx, snapshot); err != nil {
		s.logger.Error("failed to publish checkout.completed event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// Cancel closes a session in shipping or payment. The cart is not touched.
func (s *CheckoutService) Cancel(ctx context.Context, sessionID string) (domain.CheckoutSession, error) {
	var entry *checkoutEntry
	snapshot, err := s.transition(ctx, sessionID, "cancel", func(e *checkoutEntry) error {
		if err := e.session.Cancel(); err != nil {
			return err
		}
		e.stop()
		entry = e
		return nil
	})
	if err != nil {
		return snapshot, err
	}
	s.forget(sessionID, entry)

	if err := s.publisher.PublishCheckoutCancelled(ctx, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.cancelled event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return snapshot, nil
}

// Dismiss closes a successful session.
func (s *CheckoutService) Dismiss(ctx context.Context, sessionID string) (domain.CheckoutSession, error) {
	var entry *checkoutEntry
	snapshot, err := s.transition(ctx, sessionID, "dismiss", func(e *checkoutEntry) error {
		if err := e.session.Dismiss(); err != nil {
			return err
		}
		e.stop()
		entry = e
		return nil
	})
	if err != nil {
		return snapshot, err
	}
	s.forget(sessionID, entry)
	return snapshot, nil
}

// Teardown discards the session in whatever step it is, cancelling a pending
// settlement: neither success nor the cart clear happen afterwards. It
// reports whether a session existed.
func (s *CheckoutService) Teardown(ctx context.Context, sessionID string) bool {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	delete(s.entries, sessionID)
	s.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	step := e.session.Step
	e.stop()
	e.mu.Unlock()

	checkoutTransitions.WithLabelValues("teardown").Inc()
	s.logger.InfoContext(ctx, "checkout torn down",
		slog.String("session_id", sessionID),
		slog.String("step", step),
	)
	return true
}

// Shutdown tears down every session, cancelling all pending settlements.
func (s *CheckoutService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Teardown(ctx, id)
	}
}

func rejectionReason(err error) string {
	var ve *validator.ValidationError
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "other"
	}
}
