package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

func setupTestDB(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "caremap-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create storage: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func mustCreateCategory(t *testing.T, store *SQLiteStorage, code, name string) *types.Category {
	t.Helper()
	cat := &types.Category{Code: code, Name: name, Status: types.StatusActive}
	if _, err := store.CreateCategory(context.Background(), cat); err != nil {
		t.Fatalf("CreateCategory(%s) failed: %v", code, err)
	}
	return cat
}

func mustCreateItem(t *testing.T, store *SQLiteStorage, code string, categoryID int64) *types.Item {
	t.Helper()
	item := &types.Item{
		Code: code, Name: code, CategoryID: categoryID,
		Frequency: types.FrequencyDaily, Status: types.StatusActive,
	}
	if _, err := store.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("CreateItem(%s) failed: %v", code, err)
	}
	return item
}

func mustCreateQuestion(t *testing.T, store *SQLiteStorage, code string, itemID int64) *types.Question {
	t.Helper()
	q := &types.Question{
		Code: code, Text: code + "?", ItemID: itemID,
		Type: types.TypeBoolean, Status: types.StatusActive,
	}
	if _, err := store.CreateQuestion(context.Background(), q); err != nil {
		t.Fatalf("CreateQuestion(%s) failed: %v", code, err)
	}
	return q
}

func TestCreateAndGetCategory(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cat := mustCreateCategory(t, store, "vitals", "Vitals")
	if cat.ID == 0 {
		t.Error("category ID should be set")
	}

	got, err := store.GetCategoryByCode(ctx, "vitals")
	if err != nil {
		t.Fatalf("GetCategoryByCode failed: %v", err)
	}
	if got == nil {
		t.Fatal("category not found")
	}
	if got.Name != "Vitals" || got.Status != types.StatusActive {
		t.Errorf("unexpected category: %+v", got)
	}

	missing, err := store.GetCategoryByCode(ctx, "nope")
	if err != nil {
		t.Fatalf("GetCategoryByCode(nope) failed: %v", err)
	}
	if missing != nil {
		t.Error("absent code should return nil, not a row")
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := store.CreateCategory(context.Background(), &types.Category{Name: "No Code", Status: types.StatusActive})
	if err == nil {
		t.Error("expected validation error for missing code")
	}
}

func TestItemsByCategory(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cat := mustCreateCategory(t, store, "vitals", "Vitals")
	other := mustCreateCategory(t, store, "activity", "Activity")
	mustCreateItem(t, store, "weight", cat.ID)
	mustCreateItem(t, store, "bp", cat.ID)
	mustCreateItem(t, store, "steps", other.ID)

	items, err := store.GetItemsByCategory(ctx, cat.ID)
	if err != nil {
		t.Fatalf("GetItemsByCategory failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}

	all, err := store.GetAllItems(ctx)
	if err != nil {
		t.Fatalf("GetAllItems failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d items, want 3", len(all))
	}
}

func TestQuestionOptionalFieldsRoundTrip(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cat := mustCreateCategory(t, store, "vitals", "Vitals")
	item := mustCreateItem(t, store, "weight", cat.ID)
	parent := mustCreateQuestion(t, store, "parent-q", item.ID)

	subtype := types.SubtypeDecimal
	units := types.UnitKilograms
	minV, maxV := 20.0, 400.0
	precision := 1
	cond := `{"optionCode":"yes"}`
	q := &types.Question{
		Code:             "weight-q",
		Text:             "Current weight?",
		ItemID:           item.ID,
		Type:             types.TypeNumeric,
		Subtype:          &subtype,
		Units:            &units,
		MinValue:         &minV,
		MaxValue:         &maxV,
		Precision:        &precision,
		Instructions:     "Weigh yourself before breakfast",
		Required:         true,
		SummaryTemplate:  "{value} kg",
		ParentQuestionID: &parent.ID,
		DisplayCondition: &cond,
		Status:           types.StatusActive,
	}
	if _, err := store.CreateQuestion(ctx, q); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	got, err := store.GetQuestionByCode(ctx, "weight-q")
	if err != nil {
		t.Fatalf("GetQuestionByCode failed: %v", err)
	}
	if got == nil {
		t.Fatal("question not found")
	}
	if got.Subtype == nil || *got.Subtype != types.SubtypeDecimal {
		t.Errorf("subtype = %v", got.Subtype)
	}
	if got.Units == nil || *got.Units != types.UnitKilograms {
		t.Errorf("units = %v", got.Units)
	}
	if got.MinValue == nil || *got.MinValue != 20.0 || got.MaxValue == nil || *got.MaxValue != 400.0 {
		t.Errorf("bounds = %v..%v", got.MinValue, got.MaxValue)
	}
	if got.Precision == nil || *got.Precision != 1 {
		t.Errorf("precision = %v", got.Precision)
	}
	if !got.Required {
		t.Error("required not persisted")
	}
	if got.ParentQuestionID == nil || *got.ParentQuestionID != parent.ID {
		t.Errorf("parent_question_id = %v", got.ParentQuestionID)
	}
	if got.DisplayCondition == nil || *got.DisplayCondition != cond {
		t.Errorf("display_condition = %v", got.DisplayCondition)
	}

	children, err := store.GetQuestionsByParent(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetQuestionsByParent failed: %v", err)
	}
	if len(children) != 1 || children[0].Code != "weight-q" {
		t.Errorf("children = %v", children)
	}
}

func TestUpdateQuestionFieldsRejectsStructural(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cat := mustCreateCategory(t, store, "vitals", "Vitals")
	item := mustCreateItem(t, store, "weight", cat.ID)
	q := mustCreateQuestion(t, store, "q1", item.ID)

	for _, field := range []string{"text", "type", "parent_question_id", "display_condition", "code"} {
		err := store.UpdateQuestionFields(ctx, q.ID, map[string]interface{}{field: "x"})
		if err == nil {
			t.Errorf("UpdateQuestionFields allowed structural field %q", field)
		}
	}

	// Non-structural fields go through
	if err := store.UpdateQuestionFields(ctx, q.ID, map[string]interface{}{
		"units":  string(types.UnitPounds),
		"status": string(types.StatusActive),
	}); err != nil {
		t.Errorf("UpdateQuestionFields failed on allowed fields: %v", err)
	}

	got, err := store.GetQuestionByCode(ctx, "q1")
	if err != nil {
		t.Fatalf("GetQuestionByCode failed: %v", err)
	}
	if got.Units == nil || *got.Units != types.UnitPounds {
		t.Errorf("units not updated: %v", got.Units)
	}
}

func TestOptionsKeyedByQuestionAndCode(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cat := mustCreateCategory(t, store, "vitals", "Vitals")
	item := mustCreateItem(t, store, "mood", cat.ID)
	q1 := mustCreateQuestion(t, store, "q1", item.ID)
	q2 := mustCreateQuestion(t, store, "q2", item.ID)

	for _, q := range []*types.Question{q1, q2} {
		opt := &types.ResponseOption{QuestionID: q.ID, Code: "yes", Text: "Yes", Status: types.StatusActive}
		if _, err := store.CreateOption(ctx, opt); err != nil {
			t.Fatalf("CreateOption failed: %v", err)
		}
	}

	// Same code under the same question violates the unique key
	dup := &types.ResponseOption{QuestionID: q1.ID, Code: "yes", Text: "Yes again", Status: types.StatusActive}
	if _, err := store.CreateOption(ctx, dup); err == nil {
		t.Error("duplicate (question_id, code) accepted")
	}

	got, err := store.GetOptionByQuestionAndCode(ctx, q1.ID, "yes")
	if err != nil {
		t.Fatalf("GetOptionByQuestionAndCode failed: %v", err)
	}
	if got == nil || got.QuestionID != q1.ID {
		t.Errorf("option = %+v", got)
	}

	byCode, err := store.GetOptionsByCode(ctx, "yes")
	if err != nil {
		t.Fatalf("GetOptionsByCode failed: %v", err)
	}
	if len(byCode) != 2 {
		t.Errorf("got %d options by code, want 2", len(byCode))
	}
}

func TestModuleVersionUpsert(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	mv, err := store.GetModuleVersion(ctx, "track")
	if err != nil {
		t.Fatalf("GetModuleVersion failed: %v", err)
	}
	if mv != nil {
		t.Fatal("expected nil for never-synced module")
	}

	now := time.Now()
	if err := store.UpsertModuleVersion(ctx, "track", 3, now); err != nil {
		t.Fatalf("UpsertModuleVersion failed: %v", err)
	}
	if err := store.UpsertModuleVersion(ctx, "track", 5, now.Add(time.Hour)); err != nil {
		t.Fatalf("UpsertModuleVersion (conflict) failed: %v", err)
	}

	mv, err = store.GetModuleVersion(ctx, "track")
	if err != nil {
		t.Fatalf("GetModuleVersion failed: %v", err)
	}
	if mv == nil || mv.Version != 5 {
		t.Errorf("module version = %+v, want version 5", mv)
	}

	all, err := store.GetAllModuleVersions(ctx)
	if err != nil {
		t.Fatalf("GetAllModuleVersions failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d module rows, want 1", len(all))
	}
}

func TestMetadata(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	val, err := store.GetMetadata(ctx, "caremap_version")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty value for absent key, got %q", val)
	}

	if err := store.SetMetadata(ctx, "caremap_version", "v1.2.0"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	if err := store.SetMetadata(ctx, "caremap_version", "v1.3.0"); err != nil {
		t.Fatalf("SetMetadata (overwrite) failed: %v", err)
	}

	val, err = store.GetMetadata(ctx, "caremap_version")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if val != "v1.3.0" {
		t.Errorf("metadata = %q, want v1.3.0", val)
	}
}

func TestGetStatistics(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cat := mustCreateCategory(t, store, "vitals", "Vitals")
	item := mustCreateItem(t, store, "weight", cat.ID)
	q := mustCreateQuestion(t, store, "q1", item.ID)
	if err := store.UpdateQuestionFields(ctx, q.ID, map[string]interface{}{"status": string(types.StatusInactive)}); err != nil {
		t.Fatalf("UpdateQuestionFields failed: %v", err)
	}

	stats, err := store.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.ActiveCategories != 1 || stats.ActiveItems != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ActiveQuestions != 0 || stats.InactiveQuestions != 1 {
		t.Errorf("question stats = %+v", stats)
	}
}
