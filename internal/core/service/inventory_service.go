package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/smallbatch/roastery/internal/core/domain"
	"github.com/smallbatch/roastery/internal/port"
)

// InventoryService serves the grouped raw-bean listing.
type InventoryService struct {
	repo    port.InventoryRepository
	cache   port.ListingCache // optional
	log     *slog.Logger
	timeout time.Duration
}

func NewInventoryService(repo port.InventoryRepository, cache port.ListingCache, log *slog.Logger, timeout time.Duration) *InventoryService {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &InventoryService{
		repo:    repo,
		cache:   cache,
		log:     log,
		timeout: timeout,
	}
}

// List returns bean lots grouped by vendor product code: summed kilograms,
// earliest arrival date per group, ordered by arrival date ascending.
func (s *InventoryService) List(ctx context.Context) (*domain.InventoryListing, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	items, err := s.repo.ListGrouped(qctx)
	if err != nil {
		return nil, &domain.PersistenceError{Intent: "list inventory", Err: err}
	}
	if items == nil {
		items = []domain.BeanLotSummary{}
	}

	listing := &domain.InventoryListing{RowCount: len(items), Items: items}
	s.toCache(ctx, listing)
	return listing, nil
}

func (s *InventoryService) fromCache(ctx context.Context) *domain.InventoryListing {
	if s.cache == nil {
		return nil
	}
	payload, found, err := s.cache.GetListing(ctx, port.ListingKeyInventory)
	if err != nil {
		s.log.Warn("listing cache read failed", "key", port.ListingKeyInventory, "err", err)
		return nil
	}
	if !found {
		return nil
	}
	var listing domain.InventoryListing
	if err := json.Unmarshal(payload, &listing); err != nil {
		s.log.Warn("listing cache payload corrupt", "key", port.ListingKeyInventory, "err", err)
		return nil
	}
	return &listing
}

func (s *InventoryService) toCache(ctx context.Context, listing *domain.InventoryListing) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(listing)
	if err != nil {
		return
	}
	if err := s.cache.SetListing(ctx, port.ListingKeyInventory, payload, listingTTL); err != nil {
		s.log.Warn("listing cache write failed", "key", port.ListingKeyInventory, "err", err)
	}
}
