package storage

import "time"

// ReceiptRecord is one parsed receipt as persisted.
type ReceiptRecord struct {
	OrderID    int64     `json:"order_id"`
	SlotTime   time.Time `json:"slot_time"`
	TotalPrice float64   `json:"total_price"`
	Retailer   string    `json:"retailer"`
	GroupID    *int64    `json:"group_id,omitempty"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemRow is one expanded (per-unit) line item as persisted.
type ItemRow struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Name    string `json:"name"`
	// WeightKG is nil for count-based items.
	WeightKG *float64 `json:"weight_kg,omitempty"`
	Price    float64  `json:"price"`
	// Position preserves the original receipt listing order.
	Position int `json:"position"`
}

// User is a participant who can claim items.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Group is a household sharing receipts.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Claim marks that a user consumed one item row.
type Claim struct {
	ItemID int64 `json:"item_id"`
	UserID int64 `json:"user_id"`
}
