package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// QueryContext exposes the underlying database QueryContext method for
// advanced queries that have no typed accessor.
func (s *SQLiteStorage) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// BeginTx starts a new database transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// updateFields applies a validated field patch to one row of table.
// Field names are checked against allowed before being interpolated,
// which is what makes the dynamic SET clause injection-safe.
func (s *SQLiteStorage) updateFields(ctx context.Context, table string, allowed map[string]bool, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	for key, value := range updates {
		if !allowed[key] {
			return fmt.Errorf("invalid field for update: %s", key)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", key))
		args = append(args, value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(setClauses, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s update: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s row %d not found", table, id)
	}
	return nil
}
