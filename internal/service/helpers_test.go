package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository/memory"
)

// --- Mock Storage ---

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStorage) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// --- Recording Publisher ---

type recordingPublisher struct {
	mu        sync.Mutex
	updated   []string
	cleared   []string
	completed []domain.CheckoutSession
	cancelled []domain.CheckoutSession
}

func (p *recordingPublisher) PublishCartUpdated(_ context.Context, sessionID string, _ domain.Cart) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, sessionID)
	return nil
}

func (p *recordingPublisher) PublishCartCleared(_ context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared = append(p.cleared, sessionID)
	return nil
}

func (p *recordingPublisher) PublishCheckoutCompleted(_ context.Context, s domain.CheckoutSession) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, s)
	return nil
}

func (p *recordingPublisher) PublishCheckoutCancelled(_ context.Context, s domain.CheckoutSession) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, s)
	return nil
}

func (p *recordingPublisher) counts() (updated, cleared, completed, cancelled int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updated), len(p.cleared), len(p.completed), len(p.cancelled)
}

// stallingPublisher holds every cart.cleared publish until release is closed.
type stallingPublisher struct {
	recordingPublisher
	release chan struct{}
	stalled atomic.Int32
}

func (p *stallingPublisher) PublishCartCleared(ctx context.Context, sessionID string) error {
	p.stalled.Add(1)
	<-p.release
	return p.recordingPublisher.PublishCartCleared(ctx, sessionID)
}

// --- Test Helpers ---

const testSettleDelay = 100 * time.Millisecond

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCartService(t *testing.T) (*CartService, *memory.Storage, *recordingPublisher) {
	t.Helper()
	storage := memory.NewStorage()
	pub := &recordingPublisher{}
	return NewCartService(storage, catalog.Default(), pub, newTestLogger()), storage, pub
}

func newTestCheckoutService(t *testing.T) (*CheckoutService, *CartService, *recordingPublisher) {
	t.Helper()
	carts, _, pub := newTestCartService(t)
	svc := NewCheckoutService(carts, pub, newTestLogger(), testSettleDelay)
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc, carts, pub
}
