package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

var optionUpdateFields = map[string]bool{
	"text":   true,
	"status": true,
}

// CreateOption inserts a response option and returns its assigned row id
func (s *SQLiteStorage) CreateOption(ctx context.Context, option *types.ResponseOption) (int64, error) {
	if err := option.Validate(); err != nil {
		return 0, fmt.Errorf("invalid option: %w", err)
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO track_response_options (question_id, code, text, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, option.QuestionID, option.Code, option.Text, option.Status, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert option: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get option id: %w", err)
	}
	option.ID = id
	option.CreatedAt = now
	option.UpdatedAt = now
	return id, nil
}

// GetOptionByQuestionAndCode returns the option keyed by (questionID, code),
// or nil if absent
func (s *SQLiteStorage) GetOptionByQuestionAndCode(ctx context.Context, questionID int64, code string) (*types.ResponseOption, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question_id, code, text, status, created_at, updated_at
		FROM track_response_options WHERE question_id = ? AND code = ?
	`, questionID, code)

	var o types.ResponseOption
	err := row.Scan(&o.ID, &o.QuestionID, &o.Code, &o.Text, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan option: %w", err)
	}
	return &o, nil
}

// GetOptionsByQuestion returns all options owned by a question
func (s *SQLiteStorage) GetOptionsByQuestion(ctx context.Context, questionID int64) ([]*types.ResponseOption, error) {
	return s.queryOptions(ctx, `
		SELECT id, question_id, code, text, status, created_at, updated_at
		FROM track_response_options WHERE question_id = ? ORDER BY id
	`, questionID)
}

// GetOptionsByCode returns every option with the given code. Option codes
// are unique within a question but may repeat across questions.
func (s *SQLiteStorage) GetOptionsByCode(ctx context.Context, code string) ([]*types.ResponseOption, error) {
	return s.queryOptions(ctx, `
		SELECT id, question_id, code, text, status, created_at, updated_at
		FROM track_response_options WHERE code = ? ORDER BY id
	`, code)
}

// GetAllOptions returns all persisted options
func (s *SQLiteStorage) GetAllOptions(ctx context.Context) ([]*types.ResponseOption, error) {
	return s.queryOptions(ctx, `
		SELECT id, question_id, code, text, status, created_at, updated_at
		FROM track_response_options ORDER BY id
	`)
}

// UpdateOptionFields applies a field patch to one option row
func (s *SQLiteStorage) UpdateOptionFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.updateFields(ctx, "track_response_options", optionUpdateFields, id, updates)
}

func (s *SQLiteStorage) queryOptions(ctx context.Context, query string, args ...interface{}) ([]*types.ResponseOption, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var options []*types.ResponseOption
	for rows.Next() {
		var o types.ResponseOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Code, &o.Text, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, &o)
	}
	return options, rows.Err()
}
