package port

import (
	"context"
	"time"

	"github.com/smallbatch/roastery/internal/core/domain"
)

// StockStore is the per-entity persistence surface the stock ledger
// decrements against. Both the catalog and the raw-bean inventory
// implement it; the ledger runs the same validate/compare/swap sequence
// over either.
type StockStore interface {
	// Kind identifies the entity for error messages and metrics.
	Kind() domain.StockKind

	// Load retrieves the record by id. Returns (nil, nil) when absent.
	Load(ctx context.Context, id int64) (domain.StockRecord, error)

	// CompareAndDecrement writes the new quantity only if the row version
	// still matches the one the record was loaded at. Returns the full
	// updated record and true on success, or (nil, false, nil) when
	// another writer got there first.
	CompareAndDecrement(ctx context.Context, id int64, seenVersion int64, next float64) (domain.StockRecord, bool, error)
}

// CatalogRepository covers the catalog read and ingest paths.
type CatalogRepository interface {
	// ListAvailable returns in-stock items partitioned by roast time:
	// strictly after cutoff when freshOnly, at or before cutoff otherwise.
	ListAvailable(ctx context.Context, cutoff time.Time, freshOnly bool) ([]domain.CatalogItem, error)

	// Insert persists a new catalog item and returns its assigned id.
	Insert(ctx context.Context, item *domain.CatalogItem) (int64, error)
}

// InventoryRepository covers the grouped raw-bean listing.
type InventoryRepository interface {
	// ListGrouped sums quantity per vendor product code, reporting the
	// earliest arrival date and lowest lot id per group, ordered by
	// arrival date ascending.
	ListGrouped(ctx context.Context) ([]domain.BeanLotSummary, error)
}
