package domain

import "time"

// InventoryLot is one delivered batch of raw, unroasted beans.
type InventoryLot struct {
	ID                int64     `json:"id"`
	VendorProductCode string    `json:"vendor_product_code"`
	DateArrival       time.Time `json:"date_arrival"`
	QuantityKg        float64   `json:"quantity_kg"`
	Version           int64     `json:"-"` // optimistic locking
}

func (l *InventoryLot) Available() float64 { return l.QuantityKg }

func (l *InventoryLot) RecordVersion() int64 { return l.Version }

// BeanLotSummary is one row of the grouped inventory listing: all lots
// sharing a vendor product code collapsed into a single line. ID is the
// lowest lot id in the group and DateArrival the earliest arrival.
type BeanLotSummary struct {
	ID                int64     `json:"id"`
	VendorProductCode string    `json:"vendor_product_code"`
	DateArrival       time.Time `json:"date_arrival"`
	QuantityKg        float64   `json:"quantity_kg"`
}

// InventoryListing is the response shape of the inventory listing endpoint.
type InventoryListing struct {
	RowCount int              `json:"rowcount"`
	Items    []BeanLotSummary `json:"items"`
}
