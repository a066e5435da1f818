package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// cartEntry is the in-memory cart of one storefront session. Storage is
// written through on every change but the entry stays authoritative. An
// entry whose last write failed is dirty and is never evicted, so storage
// being down does not lose the shopper's cart.
type cartEntry struct {
	mu     sync.Mutex
	cart   domain.Cart
	loaded bool
	dirty  atomic.Bool

	// guarded by CartService.mu
	lastSeen time.Time
}

// CartService hosts the cart engine for every storefront session.
type CartService struct {
	storage   repository.Storage
	catalog   *catalog.Store
	publisher event.Publisher
	logger    *slog.Logger

	mu      sync.Mutex
	entries map[string]*cartEntry
}

// NewCartService creates a new cart service.
func NewCartService(storage repository.Storage, store *catalog.Store, publisher event.Publisher, logger *slog.Logger) *CartService {
	return &CartService{
		storage:   storage,
		catalog:   store,
		publisher: publisher,
		logger:    logger,
		entries:   make(map[string]*cartEntry),
	}
}

// entry returns the session's entry locked. The caller must unlock it.
func (s *CartService) entry(sessionID string) *cartEntry {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	if !ok {
		e = &cartEntry{}
		s.entries[sessionID] = e
	}
	e.lastSeen = time.Now()
	s.mu.Unlock()

	e.mu.Lock()
	return e
}

// load fills e from storage on first use. A storage failure is returned and
// retried on the next call; an undecodable value is logged and replaced by an
// empty cart.
func (s *CartService) load(ctx context.Context, sessionID string, e *cartEntry) error {
	if e.loaded {
		return nil
	}

	raw, found, err := s.storage.Get(ctx, repository.SessionKey(sessionID, repository.CartKey))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return apperrors.ServiceUnavailable("cart storage is unavailable")
	}

	cart := domain.ClearCart()
	if found {
		var decoded domain.Cart
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			cartLoadRecoveries.Inc()
			s.logger.WarnContext(ctx, "discarding malformed persisted cart",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		} else {
			cart = decoded.Normalize()
		}
	}

	e.cart = cart
	e.loaded = true
	return nil
}

// persist writes the entry's cart through to storage and records whether
// storage now holds it. Failures are logged and otherwise ignored. The
// caller holds e.mu.
func (s *CartService) persist(ctx context.Context, sessionID string, e *cartEntry) {
	data, err := json.Marshal(e.cart)
	if err == nil {
		err = s.storage.Set(ctx, repository.SessionKey(sessionID, repository.CartKey), string(data))
	}
	e.dirty.Store(err != nil)
	if err != nil {
		cartPersistFailures.Inc()
		s.logger.WarnContext(ctx, "failed to persist cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// apply runs one transition under the session lock, persisting the result.
func (s *CartService) apply(ctx context.Context, sessionID, op string, transition func(domain.Cart) domain.Cart) (domain.Cart, error) {
	e := s.entry(sessionID)
	if err := s.load(ctx, sessionID, e); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.cart = transition(e.cart)
	s.persist(ctx, sessionID, e)
	cart := clone(e.cart)
	e.mu.Unlock()

	cartOperations.WithLabelValues(op).Inc()
	s.logger.DebugContext(ctx, "cart updated",
		slog.String("session_id", sessionID),
		slog.String("operation", op),
		slog.Int("item_count", cart.ItemCount()),
	)

	if err := s.publisher.PublishCartUpdated(ctx, sessionID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return cart, nil
}

// Get returns the session's cart, loading it from storage on first use.
func (s *CartService) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	e := s.entry(sessionID)
	defer e.mu.Unlock()

	if err := s.load(ctx, sessionID, e); err != nil {
		return nil, err
	}
	return clone(e.cart), nil
}

// AddProduct adds one unit of a catalog product to the cart.
func (s *CartService) AddProduct(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	p, ok := s.catalog.ByID(productID)
	if !ok {
		return nil, apperrors.NotFound("product", productID)
	}
	return s.apply(ctx, sessionID, "add", func(c domain.Cart) domain.Cart {
		return c.Add(p)
	})
}

// UpdateQuantity adjusts an item's quantity by delta, clamped to
// [1, domain.MaxQuantity]. An unknown product is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, delta int) (domain.Cart, error) {
	return s.apply(ctx, sessionID, "update_quantity", func(c domain.Cart) domain.Cart {
		return c.UpdateQuantity(productID, delta)
	})
}

// Remove drops an item from the cart. An unknown product is a no-op.
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	return s.apply(ctx, sessionID, "remove", func(c domain.Cart) domain.Cart {
		return c.Remove(productID)
	})
}

// Clear empties the cart. It never reads storage, so it cannot fail.
func (s *CartService) Clear(ctx context.Context, sessionID string) {
	s.reset(ctx, sessionID)
	s.announceCleared(ctx, sessionID)
}

// reset empties the cart and persists it without publishing anything.
func (s *CartService) reset(ctx context.Context, sessionID string) {
	e := s.entry(sessionID)
	e.cart = domain.ClearCart()
	e.loaded = true
	s.persist(ctx, sessionID, e)
	e.mu.Unlock()
}

// announceCleared records and publishes a clear done by reset.
func (s *CartService) announceCleared(ctx context.Context, sessionID string) {
	cartOperations.WithLabelValues("clear").Inc()
	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))

	if err := s.publisher.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// EvictIdle drops cached carts not touched for maxIdle. Their persisted copy
// is reloaded on the session's next request. Dirty entries are kept until a
// later write reaches storage.
func (s *CartService) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) && !e.dirty.Load() {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

func clone(c domain.Cart) domain.Cart {
	out := make(domain.Cart, len(c))
	for i, item := range c {
		out[i] = domain.CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}
