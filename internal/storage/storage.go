// Package storage defines the interface for track configuration storage backends.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

// Storage defines the interface for track configuration storage backends.
//
// Lookups by code return (nil, nil) when the row is absent: absence is an
// expected, frequently handled condition for the sync engine, not a
// failure. Field-patch updates take a map of column name to value and
// must reject unknown column names.
type Storage interface {
	// Categories
	CreateCategory(ctx context.Context, category *types.Category) (int64, error)
	GetCategoryByCode(ctx context.Context, code string) (*types.Category, error)
	GetAllCategories(ctx context.Context) ([]*types.Category, error)
	UpdateCategoryFields(ctx context.Context, id int64, updates map[string]interface{}) error

	// Items
	CreateItem(ctx context.Context, item *types.Item) (int64, error)
	GetItemByCode(ctx context.Context, code string) (*types.Item, error)
	GetItemsByCategory(ctx context.Context, categoryID int64) ([]*types.Item, error)
	GetAllItems(ctx context.Context) ([]*types.Item, error)
	UpdateItemFields(ctx context.Context, id int64, updates map[string]interface{}) error

	// Questions
	CreateQuestion(ctx context.Context, question *types.Question) (int64, error)
	GetQuestionByID(ctx context.Context, id int64) (*types.Question, error)
	GetQuestionByCode(ctx context.Context, code string) (*types.Question, error)
	GetQuestionsByItem(ctx context.Context, itemID int64) ([]*types.Question, error)
	GetQuestionsByParent(ctx context.Context, parentQuestionID int64) ([]*types.Question, error)
	GetAllQuestions(ctx context.Context) ([]*types.Question, error)
	UpdateQuestionFields(ctx context.Context, id int64, updates map[string]interface{}) error

	// Response options
	CreateOption(ctx context.Context, option *types.ResponseOption) (int64, error)
	GetOptionByQuestionAndCode(ctx context.Context, questionID int64, code string) (*types.ResponseOption, error)
	GetOptionsByQuestion(ctx context.Context, questionID int64) ([]*types.ResponseOption, error)
	GetOptionsByCode(ctx context.Context, code string) ([]*types.ResponseOption, error)
	GetAllOptions(ctx context.Context) ([]*types.ResponseOption, error)
	UpdateOptionFields(ctx context.Context, id int64, updates map[string]interface{}) error

	// Module versions (sync gate state)
	GetModuleVersion(ctx context.Context, module string) (*types.ModuleVersion, error)
	UpsertModuleVersion(ctx context.Context, module string, version int64, syncedAt time.Time) error
	GetAllModuleVersions(ctx context.Context) ([]*types.ModuleVersion, error)

	// Metadata (internal state like the writing binary's version)
	SetMetadata(ctx context.Context, key, value string) error
	GetMetadata(ctx context.Context, key string) (string, error)

	// Statistics
	GetStatistics(ctx context.Context) (*types.Statistics, error)

	// Lifecycle
	Close() error

	// Database path (empty for in-memory backends)
	Path() string

	// UnderlyingDB returns the underlying *sql.DB connection, or nil for
	// backends not built on database/sql. Raw escape hatch only; direct
	// access bypasses the storage layer.
	UnderlyingDB() *sql.DB
}

// Config holds database configuration
type Config struct {
	Backend string // "sqlite" or "memory"
	Path    string // database file path (sqlite)
}
