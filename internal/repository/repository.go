package repository

import "context"

// CartKey is the fixed key the cart is persisted under.
const CartKey = "heritageCart"

// Storage is session-local key-value storage.
type Storage interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
}

// SessionKey scopes key to one storefront session.
func SessionKey(sessionID, key string) string {
	return sessionID + ":" + key
}
