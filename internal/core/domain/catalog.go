package domain

import "time"

// CatalogItem is one lot of finished, bagged coffee available for sale.
type CatalogItem struct {
	ID            int64     `json:"catalog_id"`
	ProductCode   string    `json:"product_code"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	TimeRoasted   time.Time `json:"time_roasted"`
	RoastingNotes string    `json:"roasting_notes"`
	Img           string    `json:"img"`
	Version       int64     `json:"-"` // optimistic locking
}

func (c *CatalogItem) Available() float64 { return float64(c.Quantity) }

func (c *CatalogItem) RecordVersion() int64 { return c.Version }

// CatalogListing is the response shape of the catalog listing endpoints.
type CatalogListing struct {
	RowCount int           `json:"rowcount"`
	Products []CatalogItem `json:"products"`
}
