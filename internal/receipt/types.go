// Package receipt defines the types and contracts for turning a grocery
// delivery receipt into persistence-ready line items.
//
// A retailer-specific Parser extracts an OrderHeader and a list of
// ItemRecords from the raw text lines of a receipt; Expand then flattens
// multi-quantity records into one row per physical unit so each unit can
// be claimed and split independently.
package receipt

import "time"

// UnitKind discriminates how an item's amount field was printed.
type UnitKind int

const (
	// UnitCount is a plain integer quantity ("2").
	UnitCount UnitKind = iota
	// UnitWeight is a weighed amount with a unit suffix ("0.86kg").
	UnitWeight
)

func (k UnitKind) String() string {
	switch k {
	case UnitCount:
		return "count"
	case UnitWeight:
		return "weight"
	default:
		return "unknown"
	}
}

// OrderHeader identifies one receipt.
type OrderHeader struct {
	OrderID int64
	// OrderTime is the start of the delivery slot. The end of the window
	// is discarded when parsing.
	OrderTime time.Time
}

// ItemRecord is one logical line item as printed on the receipt.
// Exactly one of Quantity/WeightKG carries a value, selected by Kind.
type ItemRecord struct {
	Name string
	Kind UnitKind

	// Quantity is set when Kind is UnitCount. Always >= 1.
	Quantity int
	// WeightKG is set when Kind is UnitWeight. Always > 0.
	WeightKG float64

	// Price is the printed line total. For count items this covers all
	// Quantity units; for weight items it is the weighed total.
	Price float64
}

// ExpandedRow is the flattened, persistence-ready form of an item: one
// row per physical unit for count items, one row per weight item.
type ExpandedRow struct {
	OrderID  int64
	ItemName string
	// WeightKG is nil for count items.
	WeightKG *float64
	// UnitPrice is the per-single-unit price (line total divided by
	// quantity for count items, unchanged for weight items).
	UnitPrice float64
}

// Receipt is the full result of parsing one document.
type Receipt struct {
	Header OrderHeader
	Items  []ItemRecord
	Rows   []ExpandedRow
}
