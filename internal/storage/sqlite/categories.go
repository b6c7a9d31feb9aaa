package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

var categoryUpdateFields = map[string]bool{
	"name":   true,
	"status": true,
}

// CreateCategory inserts a category and returns its assigned row id
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *types.Category) (int64, error) {
	if err := category.Validate(); err != nil {
		return 0, fmt.Errorf("invalid category: %w", err)
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO track_categories (code, name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, category.Code, category.Name, category.Status, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get category id: %w", err)
	}
	category.ID = id
	category.CreatedAt = now
	category.UpdatedAt = now
	return id, nil
}

// GetCategoryByCode returns the category with the given code, or nil if absent
func (s *SQLiteStorage) GetCategoryByCode(ctx context.Context, code string) (*types.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, status, created_at, updated_at
		FROM track_categories WHERE code = ?
	`, code)
	return scanCategory(row)
}

// GetAllCategories returns all persisted categories
func (s *SQLiteStorage) GetAllCategories(ctx context.Context) ([]*types.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, status, created_at, updated_at
		FROM track_categories ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// UpdateCategoryFields applies a field patch to one category row
func (s *SQLiteStorage) UpdateCategoryFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.updateFields(ctx, "track_categories", categoryUpdateFields, id, updates)
}

func scanCategory(row *sql.Row) (*types.Category, error) {
	var c types.Category
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &c, nil
}
