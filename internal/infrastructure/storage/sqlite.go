package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/basketsplit/basketsplit/internal/receipt"
)

// Storage provides SQLite database access.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveReceipt stores the receipt header and its expanded rows in one
// transaction. Re-uploading the same order replaces its rows (and any
// claims on them, via cascade).
func (s *Storage) SaveReceipt(rec *ReceiptRecord, rows []receipt.ExpandedRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO receipts (order_id, slot_time, total_price, retailer, group_id)
		VALUES (?, ?, ?, ?, ?)
	`, rec.OrderID, rec.SlotTime, rec.TotalPrice, rec.Retailer, rec.GroupID)
	if err != nil {
		return fmt.Errorf("insert receipt %d: %w", rec.OrderID, err)
	}

	if _, err := tx.Exec(`DELETE FROM items WHERE order_id = ?`, rec.OrderID); err != nil {
		return fmt.Errorf("clear items for receipt %d: %w", rec.OrderID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items (order_id, name, weight_kg, price, position)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		var weight sql.NullFloat64
		if row.WeightKG != nil {
			weight = sql.NullFloat64{Float64: *row.WeightKG, Valid: true}
		}
		if _, err := stmt.Exec(rec.OrderID, row.ItemName, weight, row.UnitPrice, i); err != nil {
			return fmt.Errorf("insert item %d for receipt %d: %w", i, rec.OrderID, err)
		}
	}

	return tx.Commit()
}

// GetReceipt retrieves a receipt by order id.
func (s *Storage) GetReceipt(orderID int64) (*ReceiptRecord, error) {
	rec := &ReceiptRecord{}
	var groupID sql.NullInt64
	err := s.db.QueryRow(`
		SELECT r.order_id, r.slot_time, r.total_price, r.retailer, r.group_id, r.created_at,
		       (SELECT COUNT(*) FROM items i WHERE i.order_id = r.order_id)
		FROM receipts r WHERE r.order_id = ?
	`, orderID).Scan(&rec.OrderID, &rec.SlotTime, &rec.TotalPrice, &rec.Retailer,
		&groupID, &rec.CreatedAt, &rec.ItemCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		rec.GroupID = &groupID.Int64
	}
	return rec, nil
}

// ListReceipts returns all receipts, newest first.
func (s *Storage) ListReceipts() ([]ReceiptRecord, error) {
	rows, err := s.db.Query(`
		SELECT r.order_id, r.slot_time, r.total_price, r.retailer, r.group_id, r.created_at,
		       (SELECT COUNT(*) FROM items i WHERE i.order_id = r.order_id)
		FROM receipts r ORDER BY r.slot_time DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []ReceiptRecord
	for rows.Next() {
		var rec ReceiptRecord
		var groupID sql.NullInt64
		if err := rows.Scan(&rec.OrderID, &rec.SlotTime, &rec.TotalPrice, &rec.Retailer,
			&groupID, &rec.CreatedAt, &rec.ItemCount); err != nil {
			return nil, err
		}
		if groupID.Valid {
			rec.GroupID = &groupID.Int64
		}
		receipts = append(receipts, rec)
	}
	return receipts, rows.Err()
}

// ListItems returns the expanded item rows for one receipt in listing order.
func (s *Storage) ListItems(orderID int64) ([]ItemRow, error) {
	rows, err := s.db.Query(`
		SELECT item_id, order_id, name, weight_kg, price, position
		FROM items WHERE order_id = ? ORDER BY position
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ItemRow
	for rows.Next() {
		var item ItemRow
		var weight sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Name, &weight, &item.Price, &item.Position); err != nil {
			return nil, err
		}
		if weight.Valid {
			item.WeightKG = &weight.Float64
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateUser inserts a new user.
func (s *Storage) CreateUser(username, email string) (*User, error) {
	res, err := s.db.Exec(`INSERT INTO users (username, email) VALUES (?, ?)`, username, email)
	if err != nil {
		return nil, fmt.Errorf("insert user %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Username: username, Email: email}, nil
}

// ListUsers returns all users.
func (s *Storage) ListUsers() ([]User, error) {
	rows, err := s.db.Query(`SELECT user_id, username, email FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateGroup inserts a new group.
func (s *Storage) CreateGroup(name, description string) (*Group, error) {
	res, err := s.db.Exec(`INSERT INTO groups (group_name, description) VALUES (?, ?)`, name, description)
	if err != nil {
		return nil, fmt.Errorf("insert group %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Group{ID: id, Name: name, Description: description}, nil
}

// ListGroups returns all groups.
func (s *Storage) ListGroups() ([]Group, error) {
	rows, err := s.db.Query(`SELECT group_id, group_name, description FROM groups ORDER BY group_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddUserToGroup adds a membership row; repeats are no-ops.
func (s *Storage) AddUserToGroup(userID, groupID int64) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO user_groups (user_id, group_id) VALUES (?, ?)
	`, userID, groupID)
	return err
}

// ClaimItem marks an item as consumed by a user.
func (s *Storage) ClaimItem(itemID, userID int64) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO user_items (user_id, item_id) VALUES (?, ?)
	`, userID, itemID)
	return err
}

// UnclaimItem removes a claim.
func (s *Storage) UnclaimItem(itemID, userID int64) error {
	_, err := s.db.Exec(`
		DELETE FROM user_items WHERE user_id = ? AND item_id = ?
	`, userID, itemID)
	return err
}

// ListClaims returns item id -> claiming user ids for one receipt.
func (s *Storage) ListClaims(orderID int64) (map[int64][]int64, error) {
	rows, err := s.db.Query(`
		SELECT ui.item_id, ui.user_id
		FROM user_items ui
		JOIN items i ON i.item_id = ui.item_id
		WHERE i.order_id = ?
		ORDER BY ui.item_id, ui.user_id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := make(map[int64][]int64)
	for rows.Next() {
		var itemID, userID int64
		if err := rows.Scan(&itemID, &userID); err != nil {
			return nil, err
		}
		claims[itemID] = append(claims[itemID], userID)
	}
	return claims, rows.Err()
}
