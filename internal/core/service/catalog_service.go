package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/smallbatch/roastery/internal/core/domain"
	"github.com/smallbatch/roastery/internal/port"
)

const (
	defaultMaxAgeDays = 5
	listingTTL        = 30 * time.Second
)

// CatalogService serves the catalog listing and ingest paths.
type CatalogService struct {
	repo    port.CatalogRepository
	cache   port.ListingCache // optional
	log     *slog.Logger
	maxAge  time.Duration
	timeout time.Duration
}

func NewCatalogService(repo port.CatalogRepository, cache port.ListingCache, log *slog.Logger, maxAgeDays int, timeout time.Duration) *CatalogService {
	if maxAgeDays <= 0 {
		maxAgeDays = defaultMaxAgeDays
	}
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &CatalogService{
		repo:    repo,
		cache:   cache,
		log:     log,
		maxAge:  time.Duration(maxAgeDays) * 24 * time.Hour,
		timeout: timeout,
	}
}

// List returns in-stock catalog items partitioned by roast age. The two
// variants are complementary: freshOnly selects items roasted strictly
// inside the max-age window, the other side everything at or past the
// boundary. Zero-quantity items appear in neither.
func (s *CatalogService) List(ctx context.Context, freshOnly bool) (*domain.CatalogListing, error) {
	key := port.ListingKeyCatalogStale
	if freshOnly {
		key = port.ListingKeyCatalogFresh
	}
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	cutoff := time.Now().Add(-s.maxAge)

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	items, err := s.repo.ListAvailable(qctx, cutoff, freshOnly)
	if err != nil {
		return nil, &domain.PersistenceError{Intent: "list catalog", Err: err}
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}

	listing := &domain.CatalogListing{RowCount: len(items), Products: items}
	s.toCache(ctx, key, listing)
	return listing, nil
}

// Create ingests a fully-formed catalog item. Validation is field presence
// only; there is no SKU dedup.
func (s *CatalogService) Create(ctx context.Context, item *domain.CatalogItem) error {
	if item.ProductCode == "" || item.TimeRoasted.IsZero() || item.Quantity < 0 || item.Price < 0 {
		return domain.ErrMissingFields
	}

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	id, err := s.repo.Insert(qctx, item)
	if err != nil {
		return &domain.PersistenceError{Intent: "create catalog item", Err: err}
	}
	item.ID = id

	s.invalidate(ctx)
	s.log.Info("catalog item created", "id", id, "product_code", item.ProductCode, "quantity", item.Quantity)
	return nil
}

func (s *CatalogService) fromCache(ctx context.Context, key string) *domain.CatalogListing {
	if s.cache == nil {
		return nil
	}
	payload, found, err := s.cache.GetListing(ctx, key)
	if err != nil {
		s.log.Warn("listing cache read failed", "key", key, "err", err)
		return nil
	}
	if !found {
		return nil
	}
	var listing domain.CatalogListing
	if err := json.Unmarshal(payload, &listing); err != nil {
		s.log.Warn("listing cache payload corrupt", "key", key, "err", err)
		return nil
	}
	return &listing
}

func (s *CatalogService) toCache(ctx context.Context, key string, listing *domain.CatalogListing) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(listing)
	if err != nil {
		return
	}
	if err := s.cache.SetListing(ctx, key, payload, listingTTL); err != nil {
		s.log.Warn("listing cache write failed", "key", key, "err", err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListings(ctx); err != nil {
		s.log.Warn("listing cache invalidation failed", "err", err)
	}
}
