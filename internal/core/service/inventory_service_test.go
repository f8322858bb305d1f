package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbatch/roastery/internal/core/domain"
)

type mockInventoryRepo struct {
	items     []domain.BeanLotSummary
	listErr   error
	listCalls int
}

func (m *mockInventoryRepo) ListGrouped(ctx context.Context) ([]domain.BeanLotSummary, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func TestInventoryList(t *testing.T) {
	repo := &mockInventoryRepo{items: []domain.BeanLotSummary{
		{ID: 1, VendorProductCode: "BRZ-SANTOS", DateArrival: time.Now().AddDate(0, 0, -10), QuantityKg: 37.5},
		{ID: 4, VendorProductCode: "KEN-AA", DateArrival: time.Now().AddDate(0, 0, -2), QuantityKg: 12},
	}}
	svc := NewInventoryService(repo, nil, testLogger(), time.Second)

	listing, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if listing.RowCount != 2 || len(listing.Items) != 2 {
		t.Errorf("expected rowcount 2, got %d/%d", listing.RowCount, len(listing.Items))
	}
}

func TestInventoryList_EmptyResultIsNotNull(t *testing.T) {
	svc := NewInventoryService(&mockInventoryRepo{}, nil, testLogger(), time.Second)

	listing, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if listing.Items == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestInventoryList_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockInventoryRepo{items: []domain.BeanLotSummary{
		{ID: 1, VendorProductCode: "BRZ-SANTOS", QuantityKg: 10},
	}}
	cache := newMockListingCache()
	svc := NewInventoryService(repo, cache, testLogger(), time.Second)

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("first listing failed: %v", err)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("second listing failed: %v", err)
	}
	if repo.listCalls != 1 {
		t.Errorf("expected one repository call, got %d", repo.listCalls)
	}
}

func TestInventoryList_PersistenceError(t *testing.T) {
	repo := &mockInventoryRepo{listErr: errors.New("connection refused")}
	svc := NewInventoryService(repo, nil, testLogger(), time.Second)

	_, err := svc.List(context.Background())
	var persistence *domain.PersistenceError
	if !errors.As(err, &persistence) {
		t.Fatalf("expected PersistenceError, got: %v", err)
	}
	if persistence.Intent != "list inventory" {
		t.Errorf("expected intent 'list inventory', got %q", persistence.Intent)
	}
}
