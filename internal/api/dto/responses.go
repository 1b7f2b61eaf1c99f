package dto

import "time"

// ReceiptResponse summarizes one stored receipt.
type ReceiptResponse struct {
	OrderID    int64     `json:"order_id"`
	SlotTime   time.Time `json:"slot_time"`
	TotalPrice float64   `json:"total_price"`
	Retailer   string    `json:"retailer"`
	GroupID    *int64    `json:"group_id,omitempty"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReceiptListResponse wraps the receipt listing.
type ReceiptListResponse struct {
	Receipts   []ReceiptResponse `json:"receipts"`
	TotalCount int               `json:"total_count"`
}

// ItemResponse is one per-unit item row, with its current claimants.
type ItemResponse struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	WeightKG *float64 `json:"weight_kg,omitempty"`
	Price    float64  `json:"price"`
	Position int      `json:"position"`
	UserIDs  []int64  `json:"user_ids"`
}

// ItemListResponse wraps the item listing for one receipt.
type ItemListResponse struct {
	OrderID int64          `json:"order_id"`
	Items   []ItemResponse `json:"items"`
}

// ShareResponse is one participant's computed share.
type ShareResponse struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

// SplitResponse is the computed split for one receipt.
type SplitResponse struct {
	OrderID        int64           `json:"order_id"`
	Shares         []ShareResponse `json:"shares"`
	ClaimedTotal   float64         `json:"claimed_total"`
	UnclaimedTotal float64         `json:"unclaimed_total"`
}

// CreateUserRequest creates a participant.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
}

// CreateGroupRequest creates a household group.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
