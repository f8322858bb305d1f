package port

import (
	"context"
	"time"
)

// Listing cache keys, one per cacheable listing variant.
const (
	ListingKeyCatalogFresh = "listing:catalog:fresh"
	ListingKeyCatalogStale = "listing:catalog:stale"
	ListingKeyInventory    = "listing:inventory"
)

// ListingCache holds rendered listing payloads for a short TTL. It never
// holds authoritative stock numbers; every successful mutation invalidates
// all listing keys.
type ListingCache interface {
	// GetListing returns the cached payload for key, with found=false on miss.
	GetListing(ctx context.Context, key string) ([]byte, bool, error)

	// SetListing stores a payload under key for ttl.
	SetListing(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// InvalidateListings drops every listing key.
	InvalidateListings(ctx context.Context) error
}
