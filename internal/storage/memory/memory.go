// Package memory implements the storage interface using in-memory data
// structures. It backs unit tests of the sync engine, which take the
// storage handle as an explicit dependency.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

// MemoryStorage implements the Storage interface using in-memory maps
type MemoryStorage struct {
	mu sync.RWMutex // Protects all maps

	categories map[int64]*types.Category
	items      map[int64]*types.Item
	questions  map[int64]*types.Question
	options    map[int64]*types.ResponseOption
	versions   map[string]*types.ModuleVersion
	metadata   map[string]string

	nextID int64
	closed bool

	// failErr, when set, is returned by every subsequent operation.
	// Used by tests to simulate a storage-layer failure mid-pass.
	failErr error
}

// New creates a new in-memory storage backend
func New() *MemoryStorage {
	return &MemoryStorage{
		categories: make(map[int64]*types.Category),
		items:      make(map[int64]*types.Item),
		questions:  make(map[int64]*types.Question),
		options:    make(map[int64]*types.ResponseOption),
		versions:   make(map[string]*types.ModuleVersion),
		metadata:   make(map[string]string),
	}
}

// FailWith makes every subsequent operation return err. Pass nil to
// restore normal behavior.
func (m *MemoryStorage) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MemoryStorage) nextRowID() int64 {
	m.nextID++
	return m.nextID
}

// CreateCategory inserts a category and returns its assigned row id
func (m *MemoryStorage) CreateCategory(ctx context.Context, category *types.Category) (int64, error) {
	if err := category.Validate(); err != nil {
		return 0, fmt.Errorf("invalid category: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}

	for _, existing := range m.categories {
		if existing.Code == category.Code {
			return 0, fmt.Errorf("category code %s already exists", category.Code)
		}
	}

	now := time.Now()
	category.ID = m.nextRowID()
	category.CreatedAt = now
	category.UpdatedAt = now
	stored := *category
	m.categories[category.ID] = &stored
	return category.ID, nil
}

// GetCategoryByCode returns the category with the given code, or nil if absent
func (m *MemoryStorage) GetCategoryByCode(ctx context.Context, code string) (*types.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	for _, c := range m.categories {
		if c.Code == code {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

// GetAllCategories returns all persisted categories
func (m *MemoryStorage) GetAllCategories(ctx context.Context) ([]*types.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var categories []*types.Category
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.categories[id]; ok {
			copied := *c
			categories = append(categories, &copied)
		}
	}
	return categories, nil
}

// UpdateCategoryFields applies a field patch to one category row
func (m *MemoryStorage) UpdateCategoryFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}

	c, ok := m.categories[id]
	if !ok {
		return fmt.Errorf("category row %d not found", id)
	}
	for key, value := range updates {
		switch key {
		case "name":
			c.Name = toString(value)
		case "status":
			c.Status = types.EntityStatus(toString(value))
		default:
			return fmt.Errorf("invalid field for update: %s", key)
		}
	}
	c.UpdatedAt = time.Now()
	return nil
}

// CreateItem inserts an item and returns its assigned row id
func (m *MemoryStorage) CreateItem(ctx context.Context, item *types.Item) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, fmt.Errorf("invalid item: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}

	for _, existing := range m.items {
		if existing.Code == item.Code {
			return 0, fmt.Errorf("item code %s already exists", item.Code)
		}
	}

	now := time.Now()
	item.ID = m.nextRowID()
	item.CreatedAt = now
	item.UpdatedAt = now
	stored := *item
	m.items[item.ID] = &stored
	return item.ID, nil
}

// GetItemByCode returns the item with the given code, or nil if absent
func (m *MemoryStorage) GetItemByCode(ctx context.Context, code string) (*types.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	for _, i := range m.items {
		if i.Code == code {
			copied := *i
			return &copied, nil
		}
	}
	return nil, nil
}

// GetItemsByCategory returns all items owned by a category
func (m *MemoryStorage) GetItemsByCategory(ctx context.Context, categoryID int64) ([]*types.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var items []*types.Item
	for id := int64(1); id <= m.nextID; id++ {
		if i, ok := m.items[id]; ok && i.CategoryID == categoryID {
			copied := *i
			items = append(items, &copied)
		}
	}
	return items, nil
}

// GetAllItems returns all persisted items
func (m *MemoryStorage) GetAllItems(ctx context.Context) ([]*types.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var items []*types.Item
	for id := int64(1); id <= m.nextID; id++ {
		if i, ok := m.items[id]; ok {
			copied := *i
			items = append(items, &copied)
		}
	}
	return items, nil
}

// UpdateItemFields applies a field patch to one item row
func (m *MemoryStorage) UpdateItemFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}

	i, ok := m.items[id]
	if !ok {
		return fmt.Errorf("item row %d not found", id)
	}
	for key, value := range updates {
		switch key {
		case "category_id":
			i.CategoryID = toInt64(value)
		case "name":
			i.Name = toString(value)
		case "frequency":
			i.Frequency = types.TrackingFrequency(toString(value))
		case "status":
			i.Status = types.EntityStatus(toString(value))
		default:
			return fmt.Errorf("invalid field for update: %s", key)
		}
	}
	i.UpdatedAt = time.Now()
	return nil
}

// CreateQuestion inserts a question and returns its assigned row id
func (m *MemoryStorage) CreateQuestion(ctx context.Context, question *types.Question) (int64, error) {
	if err := question.Validate(); err != nil {
		return 0, fmt.Errorf("invalid question: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}

	for _, existing := range m.questions {
		if existing.Code == question.Code {
			return 0, fmt.Errorf("question code %s already exists", question.Code)
		}
	}

	now := time.Now()
	question.ID = m.nextRowID()
	question.CreatedAt = now
	question.UpdatedAt = now
	stored := *question
	m.questions[question.ID] = &stored
	return question.ID, nil
}

// GetQuestionByID returns the question with the given row id, or nil if absent
func (m *MemoryStorage) GetQuestionByID(ctx context.Context, id int64) (*types.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	q, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

// GetQuestionByCode returns the question with the given code, or nil if absent
func (m *MemoryStorage) GetQuestionByCode(ctx context.Context, code string) (*types.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	for _, q := range m.questions {
		if q.Code == code {
			copied := *q
			return &copied, nil
		}
	}
	return nil, nil
}

// GetQuestionsByItem returns all questions owned by an item
func (m *MemoryStorage) GetQuestionsByItem(ctx context.Context, itemID int64) ([]*types.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var questions []*types.Question
	for id := int64(1); id <= m.nextID; id++ {
		if q, ok := m.questions[id]; ok && q.ItemID == itemID {
			copied := *q
			questions = append(questions, &copied)
		}
	}
	return questions, nil
}

// GetQuestionsByParent returns all questions whose parent_question_id matches
func (m *MemoryStorage) GetQuestionsByParent(ctx context.Context, parentQuestionID int64) ([]*types.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var questions []*types.Question
	for id := int64(1); id <= m.nextID; id++ {
		q, ok := m.questions[id]
		if ok && q.ParentQuestionID != nil && *q.ParentQuestionID == parentQuestionID {
			copied := *q
			questions = append(questions, &copied)
		}
	}
	return questions, nil
}

// GetAllQuestions returns all persisted questions
func (m *MemoryStorage) GetAllQuestions(ctx context.Context) ([]*types.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var questions []*types.Question
	for id := int64(1); id <= m.nextID; id++ {
		if q, ok := m.questions[id]; ok {
			copied := *q
			questions = append(questions, &copied)
		}
	}
	return questions, nil
}

// UpdateQuestionFields applies a field patch to one question row.
// Structural fields are not patchable, matching the SQLite backend.
func (m *MemoryStorage) UpdateQuestionFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}

	q, ok := m.questions[id]
	if !ok {
		return fmt.Errorf("question row %d not found", id)
	}
	for key, value := range updates {
		switch key {
		case "item_id":
			q.ItemID = toInt64(value)
		case "subtype":
			if value == nil {
				q.Subtype = nil
			} else {
				st := types.NumericSubtype(toString(value))
				q.Subtype = &st
			}
		case "units":
			if value == nil {
				q.Units = nil
			} else {
				u := types.Unit(toString(value))
				q.Units = &u
			}
		case "min_value":
			q.MinValue = toFloatPtr(value)
		case "max_value":
			q.MaxValue = toFloatPtr(value)
		case "precision":
			if value == nil {
				q.Precision = nil
			} else {
				p := int(toInt64(value))
				q.Precision = &p
			}
		case "instructions":
			q.Instructions = toString(value)
		case "required":
			q.Required = toBool(value)
		case "summary_template":
			q.SummaryTemplate = toString(value)
		case "status":
			q.Status = types.EntityStatus(toString(value))
		default:
			return fmt.Errorf("invalid field for update: %s", key)
		}
	}
	q.UpdatedAt = time.Now()
	return nil
}

// CreateOption inserts a response option and returns its assigned row id
func (m *MemoryStorage) CreateOption(ctx context.Context, option *types.ResponseOption) (int64, error) {
	if err := option.Validate(); err != nil {
		return 0, fmt.Errorf("invalid option: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}

	for _, existing := range m.options {
		if existing.QuestionID == option.QuestionID && existing.Code == option.Code {
			return 0, fmt.Errorf("option %s already exists under question %d", option.Code, option.QuestionID)
		}
	}

	now := time.Now()
	option.ID = m.nextRowID()
	option.CreatedAt = now
	option.UpdatedAt = now
	stored := *option
	m.options[option.ID] = &stored
	return option.ID, nil
}

// GetOptionByQuestionAndCode returns the option keyed by (questionID, code),
// or nil if absent
func (m *MemoryStorage) GetOptionByQuestionAndCode(ctx context.Context, questionID int64, code string) (*types.ResponseOption, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	for _, o := range m.options {
		if o.QuestionID == questionID && o.Code == code {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

// GetOptionsByQuestion returns all options owned by a question
func (m *MemoryStorage) GetOptionsByQuestion(ctx context.Context, questionID int64) ([]*types.ResponseOption, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var options []*types.ResponseOption
	for id := int64(1); id <= m.nextID; id++ {
		if o, ok := m.options[id]; ok && o.QuestionID == questionID {
			copied := *o
			options = append(options, &copied)
		}
	}
	return options, nil
}

// GetOptionsByCode returns every option with the given code
func (m *MemoryStorage) GetOptionsByCode(ctx context.Context, code string) ([]*types.ResponseOption, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var options []*types.ResponseOption
	for id := int64(1); id <= m.nextID; id++ {
		if o, ok := m.options[id]; ok && o.Code == code {
			copied := *o
			options = append(options, &copied)
		}
	}
	return options, nil
}

// GetAllOptions returns all persisted options
func (m *MemoryStorage) GetAllOptions(ctx context.Context) ([]*types.ResponseOption, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var options []*types.ResponseOption
	for id := int64(1); id <= m.nextID; id++ {
		if o, ok := m.options[id]; ok {
			copied := *o
			options = append(options, &copied)
		}
	}
	return options, nil
}

// UpdateOptionFields applies a field patch to one option row
func (m *MemoryStorage) UpdateOptionFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}

	o, ok := m.options[id]
	if !ok {
		return fmt.Errorf("option row %d not found", id)
	}
	for key, value := range updates {
		switch key {
		case "text":
			o.Text = toString(value)
		case "status":
			o.Status = types.EntityStatus(toString(value))
		default:
			return fmt.Errorf("invalid field for update: %s", key)
		}
	}
	o.UpdatedAt = time.Now()
	return nil
}

// GetModuleVersion returns the stored version row for a module, or nil
// if the module has never been synced
func (m *MemoryStorage) GetModuleVersion(ctx context.Context, module string) (*types.ModuleVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	mv, ok := m.versions[module]
	if !ok {
		return nil, nil
	}
	copied := *mv
	return &copied, nil
}

// UpsertModuleVersion inserts or updates the version row for a module
func (m *MemoryStorage) UpsertModuleVersion(ctx context.Context, module string, version int64, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}

	m.versions[module] = &types.ModuleVersion{Module: module, Version: version, LastSyncedAt: syncedAt}
	return nil
}

// GetAllModuleVersions returns every stored module version row
func (m *MemoryStorage) GetAllModuleVersions(ctx context.Context) ([]*types.ModuleVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var versions []*types.ModuleVersion
	for _, mv := range m.versions {
		copied := *mv
		versions = append(versions, &copied)
	}
	return versions, nil
}

// SetMetadata stores an internal key-value pair
func (m *MemoryStorage) SetMetadata(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.metadata[key] = value
	return nil
}

// GetMetadata returns an internal value, or "" if the key is absent
func (m *MemoryStorage) GetMetadata(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return "", m.failErr
	}
	return m.metadata[key], nil
}

// GetStatistics returns aggregate active/inactive counts per entity kind
func (m *MemoryStorage) GetStatistics(ctx context.Context) (*types.Statistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	stats := &types.Statistics{}
	for _, c := range m.categories {
		if c.Status == types.StatusActive {
			stats.ActiveCategories++
		} else {
			stats.InactiveCategories++
		}
	}
	for _, i := range m.items {
		if i.Status == types.StatusActive {
			stats.ActiveItems++
		} else {
			stats.InactiveItems++
		}
	}
	for _, q := range m.questions {
		if q.Status == types.StatusActive {
			stats.ActiveQuestions++
		} else {
			stats.InactiveQuestions++
		}
	}
	for _, o := range m.options {
		if o.Status == types.StatusActive {
			stats.ActiveOptions++
		} else {
			stats.InactiveOptions++
		}
	}
	return stats, nil
}

// Close marks the storage as closed
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Path returns "" since there is no backing file
func (m *MemoryStorage) Path() string {
	return ""
}

// UnderlyingDB returns nil; there is no database/sql connection
func (m *MemoryStorage) UnderlyingDB() *sql.DB {
	return nil
}

// Conversion helpers for patch values. The sync engine passes typed
// values or plain strings; both backends accept either.

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case fmt.Stringer:
		return t.String()
	case types.EntityStatus:
		return string(t)
	case types.TrackingFrequency:
		return string(t)
	case types.QuestionType:
		return string(t)
	case types.NumericSubtype:
		return string(t)
	case types.Unit:
		return string(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func toBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return false
	}
}

func toFloatPtr(v interface{}) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	case *float64:
		return t
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	default:
		return nil
	}
}
