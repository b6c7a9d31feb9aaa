package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

var questionUpdateFields = map[string]bool{
	"item_id":          true,
	"subtype":          true,
	"units":            true,
	"min_value":        true,
	"max_value":        true,
	"precision":        true,
	"instructions":     true,
	"required":         true,
	"summary_template": true,
	"status":           true,
}

const questionColumns = `id, code, item_id, text, type, subtype, units, min_value, max_value,
	precision, instructions, required, summary_template, parent_question_id,
	display_condition, status, created_at, updated_at`

// CreateQuestion inserts a question and returns its assigned row id
func (s *SQLiteStorage) CreateQuestion(ctx context.Context, question *types.Question) (int64, error) {
	if err := question.Validate(); err != nil {
		return 0, fmt.Errorf("invalid question: %w", err)
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO track_questions (
			code, item_id, text, type, subtype, units, min_value, max_value,
			precision, instructions, required, summary_template,
			parent_question_id, display_condition, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		question.Code, question.ItemID, question.Text, question.Type,
		subtypeValue(question.Subtype), unitValue(question.Units),
		question.MinValue, question.MaxValue, question.Precision,
		question.Instructions, question.Required, question.SummaryTemplate,
		question.ParentQuestionID, question.DisplayCondition,
		question.Status, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get question id: %w", err)
	}
	question.ID = id
	question.CreatedAt = now
	question.UpdatedAt = now
	return id, nil
}

// GetQuestionByID returns the question with the given row id, or nil if absent
func (s *SQLiteStorage) GetQuestionByID(ctx context.Context, id int64) (*types.Question, error) {
	questions, err := s.queryQuestions(ctx, fmt.Sprintf(`
		SELECT %s FROM track_questions WHERE id = ?
	`, questionColumns), id)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return questions[0], nil
}

// GetQuestionByCode returns the question with the given code, or nil if absent
func (s *SQLiteStorage) GetQuestionByCode(ctx context.Context, code string) (*types.Question, error) {
	questions, err := s.queryQuestions(ctx, fmt.Sprintf(`
		SELECT %s FROM track_questions WHERE code = ?
	`, questionColumns), code)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return questions[0], nil
}

// GetQuestionsByItem returns all questions owned by an item
func (s *SQLiteStorage) GetQuestionsByItem(ctx context.Context, itemID int64) ([]*types.Question, error) {
	return s.queryQuestions(ctx, fmt.Sprintf(`
		SELECT %s FROM track_questions WHERE item_id = ? ORDER BY id
	`, questionColumns), itemID)
}

// GetQuestionsByParent returns all questions whose parent_question_id matches
func (s *SQLiteStorage) GetQuestionsByParent(ctx context.Context, parentQuestionID int64) ([]*types.Question, error) {
	return s.queryQuestions(ctx, fmt.Sprintf(`
		SELECT %s FROM track_questions WHERE parent_question_id = ? ORDER BY id
	`, questionColumns), parentQuestionID)
}

// GetAllQuestions returns all persisted questions
func (s *SQLiteStorage) GetAllQuestions(ctx context.Context) ([]*types.Question, error) {
	return s.queryQuestions(ctx, fmt.Sprintf(`
		SELECT %s FROM track_questions ORDER BY id
	`, questionColumns))
}

// UpdateQuestionFields applies a field patch to one question row.
// Structural columns (text, type, parent_question_id, display_condition)
// are deliberately absent from the allowed set: the sync engine never
// mutates them, and the storage layer enforces that.
func (s *SQLiteStorage) UpdateQuestionFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.updateFields(ctx, "track_questions", questionUpdateFields, id, updates)
}

func (s *SQLiteStorage) queryQuestions(ctx context.Context, query string, args ...interface{}) ([]*types.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var questions []*types.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanQuestion(rows *sql.Rows) (*types.Question, error) {
	var q types.Question
	var subtype, units, summaryTemplate, displayCondition sql.NullString
	var minValue, maxValue sql.NullFloat64
	var precision sql.NullInt64
	var parentID sql.NullInt64

	err := rows.Scan(
		&q.ID, &q.Code, &q.ItemID, &q.Text, &q.Type, &subtype, &units,
		&minValue, &maxValue, &precision, &q.Instructions, &q.Required,
		&summaryTemplate, &parentID, &displayCondition, &q.Status,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}

	if subtype.Valid {
		st := types.NumericSubtype(subtype.String)
		q.Subtype = &st
	}
	if units.Valid {
		u := types.Unit(units.String)
		q.Units = &u
	}
	if minValue.Valid {
		q.MinValue = &minValue.Float64
	}
	if maxValue.Valid {
		q.MaxValue = &maxValue.Float64
	}
	if precision.Valid {
		p := int(precision.Int64)
		q.Precision = &p
	}
	if summaryTemplate.Valid {
		q.SummaryTemplate = summaryTemplate.String
	}
	if parentID.Valid {
		q.ParentQuestionID = &parentID.Int64
	}
	if displayCondition.Valid {
		q.DisplayCondition = &displayCondition.String
	}
	return &q, nil
}

func subtypeValue(s *types.NumericSubtype) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}

func unitValue(u *types.Unit) interface{} {
	if u == nil {
		return nil
	}
	return string(*u)
}
