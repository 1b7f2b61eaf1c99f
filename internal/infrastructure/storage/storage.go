// Package storage provides SQLite persistence for parsed receipts,
// their per-unit item rows, and the users/groups/claims that drive
// splitting.
package storage

import (
	"errors"

	"github.com/basketsplit/basketsplit/internal/receipt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository defines the persistence operations the API and CLI need.
// Implemented by Storage (SQLite); tests may provide their own.
type Repository interface {
	// SaveReceipt stores a parsed receipt and its expanded rows in one
	// transaction, replacing any previous rows for the same order id.
	SaveReceipt(rec *ReceiptRecord, rows []receipt.ExpandedRow) error
	GetReceipt(orderID int64) (*ReceiptRecord, error)
	ListReceipts() ([]ReceiptRecord, error)
	ListItems(orderID int64) ([]ItemRow, error)

	CreateUser(username, email string) (*User, error)
	ListUsers() ([]User, error)
	CreateGroup(name, description string) (*Group, error)
	ListGroups() ([]Group, error)
	AddUserToGroup(userID, groupID int64) error

	// ClaimItem marks an item row as consumed by a user; claiming the
	// same item twice for the same user is a no-op.
	ClaimItem(itemID, userID int64) error
	UnclaimItem(itemID, userID int64) error
	// ListClaims returns item id -> claiming user ids for one receipt.
	ListClaims(orderID int64) (map[int64][]int64, error)

	Close() error
}
