package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

var itemUpdateFields = map[string]bool{
	"category_id": true,
	"name":        true,
	"frequency":   true,
	"status":      true,
}

// CreateItem inserts an item and returns its assigned row id
func (s *SQLiteStorage) CreateItem(ctx context.Context, item *types.Item) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, fmt.Errorf("invalid item: %w", err)
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO track_items (code, category_id, name, frequency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.Code, item.CategoryID, item.Name, item.Frequency, item.Status, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get item id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return id, nil
}

// GetItemByCode returns the item with the given code, or nil if absent
func (s *SQLiteStorage) GetItemByCode(ctx context.Context, code string) (*types.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, category_id, name, frequency, status, created_at, updated_at
		FROM track_items WHERE code = ?
	`, code)

	var i types.Item
	err := row.Scan(&i.ID, &i.Code, &i.CategoryID, &i.Name, &i.Frequency, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	return &i, nil
}

// GetItemsByCategory returns all items owned by a category
func (s *SQLiteStorage) GetItemsByCategory(ctx context.Context, categoryID int64) ([]*types.Item, error) {
	return s.queryItems(ctx, `
		SELECT id, code, category_id, name, frequency, status, created_at, updated_at
		FROM track_items WHERE category_id = ? ORDER BY id
	`, categoryID)
}

// GetAllItems returns all persisted items
func (s *SQLiteStorage) GetAllItems(ctx context.Context) ([]*types.Item, error) {
	return s.queryItems(ctx, `
		SELECT id, code, category_id, name, frequency, status, created_at, updated_at
		FROM track_items ORDER BY id
	`)
}

// UpdateItemFields applies a field patch to one item row
func (s *SQLiteStorage) UpdateItemFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.updateFields(ctx, "track_items", itemUpdateFields, id, updates)
}

func (s *SQLiteStorage) queryItems(ctx context.Context, query string, args ...interface{}) ([]*types.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*types.Item
	for rows.Next() {
		var i types.Item
		if err := rows.Scan(&i.ID, &i.Code, &i.CategoryID, &i.Name, &i.Frequency, &i.Status, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}
