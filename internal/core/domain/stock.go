package domain

// StockRecord is the view of a record the stock ledger needs: how much is
// on hand and which version of the row that number was read from.
type StockRecord interface {
	Available() float64
	RecordVersion() int64
}

// StockKind describes one of the two entity kinds the ledger operates on.
// Name and Unit feed error messages, Verb the action word ("sell" bags,
// "withdraw" kilograms), Label the metrics entity label.
type StockKind struct {
	Name  string
	Unit  string
	Verb  string
	Label string
}

var (
	KindCatalog   = StockKind{Name: "catalog item", Unit: "bags", Verb: "sell", Label: "catalog"}
	KindInventory = StockKind{Name: "inventory lot", Unit: "kg", Verb: "withdraw", Label: "inventory"}
)
