package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/smallbatch/roastery/internal/core/domain"
)

// CatalogStore is the MySQL adapter for finished-product rows. It backs
// both the stock ledger (Load/CompareAndDecrement) and the catalog
// listing and ingest paths.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) Kind() domain.StockKind { return domain.KindCatalog }

func (s *CatalogStore) Load(ctx context.Context, id int64) (domain.StockRecord, error) {
	item, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return item, nil
}

func (s *CatalogStore) load(ctx context.Context, q queryer, id int64) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := q.QueryRowContext(ctx, `
		SELECT id, product_code, quantity, price, time_roasted, roasting_notes, COALESCE(img, ''), version
		FROM catalog WHERE id = ?`, id,
	).Scan(&item.ID, &item.ProductCode, &item.Quantity, &item.Price,
		&item.TimeRoasted, &item.RoastingNotes, &item.Img, &item.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog item: %w", err)
	}
	return &item, nil
}

// CompareAndDecrement writes the new bag count only if the row version is
// still the one the caller read. Returns the updated row on success.
func (s *CatalogStore) CompareAndDecrement(ctx context.Context, id int64, seenVersion int64, next float64) (domain.StockRecord, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE catalog
		SET quantity = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		int(math.Round(next)), id, seenVersion,
	)
	if err != nil {
		return nil, false, fmt.Errorf("update catalog quantity: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, false, nil
	}

	item, err := s.load(ctx, tx, id)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit catalog update: %w", err)
	}
	return item, true, nil
}

// ListAvailable partitions in-stock items by roast time: strictly after
// cutoff when freshOnly, at or before cutoff otherwise. Items at exactly
// the boundary land on the stale side.
func (s *CatalogStore) ListAvailable(ctx context.Context, cutoff time.Time, freshOnly bool) ([]domain.CatalogItem, error) {
	comparison := "<="
	if freshOnly {
		comparison = ">"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_code, quantity, price, time_roasted, roasting_notes, COALESCE(img, '')
		FROM catalog
		WHERE quantity > 0 AND time_roasted `+comparison+` ?`, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("query catalog listing: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.ProductCode, &item.Quantity, &item.Price,
			&item.TimeRoasted, &item.RoastingNotes, &item.Img); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return items, nil
}

func (s *CatalogStore) Insert(ctx context.Context, item *domain.CatalogItem) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog (product_code, quantity, price, time_roasted, roasting_notes, img, version)
		VALUES (?, ?, ?, ?, ?, ?, 0)`,
		item.ProductCode, item.Quantity, item.Price, item.TimeRoasted,
		item.RoastingNotes, item.Img,
	)
	if err != nil {
		return 0, fmt.Errorf("insert catalog item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("catalog insert id: %w", err)
	}
	return id, nil
}

// InventoryStore is the MySQL adapter for raw-bean lots.
type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func (s *InventoryStore) Kind() domain.StockKind { return domain.KindInventory }

func (s *InventoryStore) Load(ctx context.Context, id int64) (domain.StockRecord, error) {
	lot, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, nil
	}
	return lot, nil
}

func (s *InventoryStore) load(ctx context.Context, q queryer, id int64) (*domain.InventoryLot, error) {
	var lot domain.InventoryLot
	err := q.QueryRowContext(ctx, `
		SELECT id, vendor_product_code, date_arrival, quantity_kg, version
		FROM inventory WHERE id = ?`, id,
	).Scan(&lot.ID, &lot.VendorProductCode, &lot.DateArrival, &lot.QuantityKg, &lot.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory lot: %w", err)
	}
	return &lot, nil
}

func (s *InventoryStore) CompareAndDecrement(ctx context.Context, id int64, seenVersion int64, next float64) (domain.StockRecord, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE inventory
		SET quantity_kg = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		next, id, seenVersion,
	)
	if err != nil {
		return nil, false, fmt.Errorf("update inventory quantity: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, false, nil
	}

	lot, err := s.load(ctx, tx, id)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit inventory update: %w", err)
	}
	return lot, true, nil
}

// ListGrouped collapses lots by vendor product code. The original schema
// mixed a bare id and arrival date into an aggregate query; here the rule
// is explicit: lowest lot id and earliest arrival per group.
func (s *InventoryStore) ListGrouped(ctx context.Context) ([]domain.BeanLotSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT MIN(id), vendor_product_code, MIN(date_arrival) AS first_arrival, SUM(quantity_kg)
		FROM inventory
		GROUP BY vendor_product_code
		ORDER BY first_arrival ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query inventory listing: %w", err)
	}
	defer rows.Close()

	var items []domain.BeanLotSummary
	for rows.Next() {
		var item domain.BeanLotSummary
		if err := rows.Scan(&item.ID, &item.VendorProductCode, &item.DateArrival, &item.QuantityKg); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory rows: %w", err)
	}
	return items, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
