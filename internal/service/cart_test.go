package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var ctx = context.Background()

func storedCart(t *testing.T, s repository.Storage, sessionID string) domain.Cart {
	t.Helper()
	raw, found, err := s.Get(ctx, repository.SessionKey(sessionID, repository.CartKey))
	require.NoError(t, err)
	require.True(t, found, "cart was not persisted")
	var c domain.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

// ============================================================================
// Get / load
// ============================================================================

func TestCartService_Get_NewSessionIsEmpty(t *testing.T) {
	svc, _, _ := newTestCartService(t)

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func TestCartService_Get_LoadsPersistedCart(t *testing.T) {
	svc, storage, _ := newTestCartService(t)
	p, _ := catalog.Default().ByID("2")
	data, err := json.Marshal(domain.Cart{{Product: p, Quantity: 3}})
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, "sess-1:heritageCart", string(data)))

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "2", cart[0].ID)
	assert.Equal(t, 3, cart[0].Quantity)
}

func TestCartService_Get_MalformedPersistedCartStartsEmpty(t *testing.T) {
	svc, storage, _ := newTestCartService(t)
	require.NoError(t, storage.Set(ctx, "sess-1:heritageCart", "{not json"))

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	cart, err = svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Len(t, storedCart(t, storage, "sess-1"), 1)
}

func TestCartService_Get_StorageErrorIsRetried(t *testing.T) {
	storage := new(mockStorage)
	svc := NewCartService(storage, catalog.Default(), &recordingPublisher{}, newTestLogger())

	storage.On("Get", mock.Anything, "sess-1:heritageCart").Return("", false, errors.New("connection refused")).Once()
	storage.On("Get", mock.Anything, "sess-1:heritageCart").Return("", false, nil).Once()

	_, err := svc.Get(ctx, "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	_, err = svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	storage.AssertNumberOfCalls(t, "Get", 2)
}

// ============================================================================
// Transitions
// ============================================================================

func TestCartService_AddProduct_PersistsAndPublishes(t *testing.T) {
	svc, storage, pub := newTestCartService(t)

	_, err := svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)
	cart, err := svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, cart, storedCart(t, storage, "sess-1"))

	updated, _, _, _ := pub.counts()
	assert.Equal(t, 2, updated)
}

func TestCartService_AddProduct_UnknownProduct(t *testing.T) {
	svc, _, pub := newTestCartService(t)

	_, err := svc.AddProduct(ctx, "sess-1", "404")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	updated, _, _, _ := pub.counts()
	assert.Zero(t, updated)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	svc, storage, _ := newTestCartService(t)
	_, err := svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "sess-1", "1", 4)
	require.NoError(t, err)
	assert.Equal(t, 5, cart[0].Quantity)

	cart, err = svc.UpdateQuantity(ctx, "sess-1", "1", -1000)
	require.NoError(t, err)
	assert.Equal(t, 1, cart[0].Quantity)

	cart, err = svc.UpdateQuantity(ctx, "sess-1", "404", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, 1, storedCart(t, storage, "sess-1")[0].Quantity)
}

func TestCartService_Remove(t *testing.T) {
	svc, storage, _ := newTestCartService(t)
	_, _ = svc.AddProduct(ctx, "sess-1", "1")
	_, _ = svc.AddProduct(ctx, "sess-1", "2")

	cart, err := svc.Remove(ctx, "sess-1", "1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "2", cart[0].ID)

	cart, err = svc.Remove(ctx, "sess-1", "404")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Len(t, storedCart(t, storage, "sess-1"), 1)
}

func TestCartService_Clear(t *testing.T) {
	svc, storage, pub := newTestCartService(t)
	_, _ = svc.AddProduct(ctx, "sess-1", "1")

	svc.Clear(ctx, "sess-1")

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	raw, _, _ := storage.Get(ctx, "sess-1:heritageCart")
	assert.Equal(t, "[]", raw)

	_, cleared, _, _ := pub.counts()
	assert.Equal(t, 1, cleared)
}

func TestCartService_PersistFailureIsSwallowed(t *testing.T) {
	storage := new(mockStorage)
	svc := NewCartService(storage, catalog.Default(), &recordingPublisher{}, newTestLogger())

	storage.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
	storage.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)
	cart, err := svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)

	assert.Equal(t, 2, cart[0].Quantity)
	storage.AssertNumberOfCalls(t, "Set", 2)
	storage.AssertNumberOfCalls(t, "Get", 1)
}

func TestCartService_EvictIdleKeepsUnsavedCarts(t *testing.T) {
	storage := new(mockStorage)
	svc := NewCartService(storage, catalog.Default(), &recordingPublisher{}, newTestLogger())

	storage.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
	storage.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()
	storage.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)

	assert.Zero(t, svc.EvictIdle(-time.Second))
	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	storage.AssertNumberOfCalls(t, "Get", 1)

	// Once a write lands the entry is clean and may go.
	_, err = svc.AddProduct(ctx, "sess-1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.EvictIdle(-time.Second))
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	svc, _, _ := newTestCartService(t)

	_, _ = svc.AddProduct(ctx, "sess-a", "1")

	cart, err := svc.Get(ctx, "sess-b")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCartService_ConcurrentAddsAreSerialised(t *testing.T) {
	svc, storage, _ := newTestCartService(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddProduct(ctx, "sess-1", "3")
		}()
	}
	wg.Wait()

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 50, cart[0].Quantity)
	assert.Equal(t, 50, storedCart(t, storage, "sess-1")[0].Quantity)
}

func TestCartService_ReturnedCartIsACopy(t *testing.T) {
	svc, _, _ := newTestCartService(t)
	cart, _ := svc.AddProduct(ctx, "sess-1", "1")

	cart[0].Quantity = 99

	again, _ := svc.Get(ctx, "sess-1")
	assert.Equal(t, 1, again[0].Quantity)
}

func TestCartService_EvictIdleReloadsFromStorage(t *testing.T) {
	svc, storage, _ := newTestCartService(t)
	_, _ = svc.AddProduct(ctx, "sess-1", "1")

	assert.Zero(t, svc.EvictIdle(time.Hour))
	assert.Equal(t, 1, svc.EvictIdle(-time.Second))

	// Changes made behind the service's back are picked up after eviction.
	p, _ := catalog.Default().ByID("4")
	data, _ := json.Marshal(domain.Cart{{Product: p, Quantity: 7}})
	require.NoError(t, storage.Set(ctx, "sess-1:heritageCart", string(data)))

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "4", cart[0].ID)
}
