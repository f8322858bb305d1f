package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smallbatch/roastery/internal/core/domain"
)

type mockCatalogRepo struct {
	mu sync.Mutex

	items   []domain.CatalogItem
	listErr error

	listCalls    int
	lastCutoff   time.Time
	lastFresh    bool
	insertCalls  int
	lastInserted *domain.CatalogItem
	nextID       int64
	insertErr    error
}

func (m *mockCatalogRepo) ListAvailable(ctx context.Context, cutoff time.Time, freshOnly bool) ([]domain.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastCutoff = cutoff
	m.lastFresh = freshOnly
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *mockCatalogRepo) Insert(ctx context.Context, item *domain.CatalogItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	m.lastInserted = item
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.nextID++
	return m.nextID, nil
}

type mockListingCache struct {
	mu      sync.Mutex
	entries map[string][]byte

	getErr      error
	invalidated int
}

func newMockListingCache() *mockListingCache {
	return &mockListingCache{entries: make(map[string][]byte)}
}

func (m *mockListingCache) GetListing(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *mockListingCache) SetListing(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = payload
	return nil
}

func (m *mockListingCache) InvalidateListings(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	m.invalidated++
	return nil
}

func someItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: 1, ProductCode: "ETH-YIRG", Quantity: 12, Price: 14.50, TimeRoasted: time.Now().Add(-24 * time.Hour)},
		{ID: 2, ProductCode: "COL-HUIL", Quantity: 3, Price: 12.00, TimeRoasted: time.Now().Add(-48 * time.Hour)},
	}
}

func TestCatalogList_PartitionArguments(t *testing.T) {
	repo := &mockCatalogRepo{items: someItems()}
	svc := NewCatalogService(repo, nil, testLogger(), 5, time.Second)

	listing, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("fresh listing failed: %v", err)
	}
	if listing.RowCount != 2 || len(listing.Products) != 2 {
		t.Errorf("expected rowcount 2, got %d/%d", listing.RowCount, len(listing.Products))
	}
	if !repo.lastFresh {
		t.Error("expected freshOnly=true to reach the repository")
	}

	wantCutoff := time.Now().Add(-5 * 24 * time.Hour)
	if diff := repo.lastCutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff %v not within a minute of now-5d", repo.lastCutoff)
	}

	if _, err := svc.List(context.Background(), false); err != nil {
		t.Fatalf("stale listing failed: %v", err)
	}
	if repo.lastFresh {
		t.Error("expected freshOnly=false to reach the repository")
	}
}

func TestCatalogList_EmptyResultIsNotNull(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewCatalogService(repo, nil, testLogger(), 5, time.Second)

	listing, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if listing.RowCount != 0 {
		t.Errorf("expected rowcount 0, got %d", listing.RowCount)
	}
	if listing.Products == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestCatalogList_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockCatalogRepo{items: someItems()}
	cache := newMockListingCache()
	svc := NewCatalogService(repo, cache, testLogger(), 5, time.Second)

	if _, err := svc.List(context.Background(), true); err != nil {
		t.Fatalf("first listing failed: %v", err)
	}
	listing, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("second listing failed: %v", err)
	}
	if repo.listCalls != 1 {
		t.Errorf("expected one repository call, got %d", repo.listCalls)
	}
	if listing.RowCount != 2 {
		t.Errorf("cached listing lost rows, rowcount=%d", listing.RowCount)
	}
}

func TestCatalogList_CacheErrorFallsThrough(t *testing.T) {
	repo := &mockCatalogRepo{items: someItems()}
	cache := newMockListingCache()
	cache.getErr = errors.New("redis down")
	svc := NewCatalogService(repo, cache, testLogger(), 5, time.Second)

	listing, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("listing should survive cache failure: %v", err)
	}
	if listing.RowCount != 2 {
		t.Errorf("expected rowcount 2, got %d", listing.RowCount)
	}
}

func TestCatalogList_PersistenceError(t *testing.T) {
	repo := &mockCatalogRepo{listErr: errors.New("connection refused")}
	svc := NewCatalogService(repo, nil, testLogger(), 5, time.Second)

	_, err := svc.List(context.Background(), true)
	var persistence *domain.PersistenceError
	if !errors.As(err, &persistence) {
		t.Fatalf("expected PersistenceError, got: %v", err)
	}
	if persistence.Intent != "list catalog" {
		t.Errorf("expected intent 'list catalog', got %q", persistence.Intent)
	}
}

func TestCatalogCreate(t *testing.T) {
	repo := &mockCatalogRepo{}
	cache := newMockListingCache()
	svc := NewCatalogService(repo, cache, testLogger(), 5, time.Second)

	item := domain.CatalogItem{
		ProductCode: "ETH-YIRG",
		Quantity:    24,
		Price:       14.50,
		TimeRoasted: time.Now(),
	}
	if err := svc.Create(context.Background(), &item); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected assigned id on the item")
	}
	if cache.invalidated != 1 {
		t.Errorf("expected one cache invalidation, got %d", cache.invalidated)
	}
}

func TestCatalogCreate_Validation(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewCatalogService(repo, nil, testLogger(), 5, time.Second)

	bad := []domain.CatalogItem{
		{Quantity: 1, Price: 1, TimeRoasted: time.Now()},                            // no product code
		{ProductCode: "X", Quantity: 1, Price: 1},                                   // no roast time
		{ProductCode: "X", Quantity: -1, Price: 1, TimeRoasted: time.Now()},         // negative quantity
		{ProductCode: "X", Quantity: 1, Price: -0.01, TimeRoasted: time.Now()},      // negative price
	}
	for i, item := range bad {
		if err := svc.Create(context.Background(), &item); !errors.Is(err, domain.ErrMissingFields) {
			t.Errorf("case %d: expected ErrMissingFields, got: %v", i, err)
		}
	}
	if repo.insertCalls != 0 {
		t.Errorf("invalid items must not be inserted, calls=%d", repo.insertCalls)
	}
}
