package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

func TestCategoryLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	cat := &types.Category{Code: "vitals", Name: "Vitals", Status: types.StatusActive}
	id, err := store.CreateCategory(ctx, cat)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}

	// Duplicate code rejected
	dup := &types.Category{Code: "vitals", Name: "Vitals 2", Status: types.StatusActive}
	if _, err := store.CreateCategory(ctx, dup); err == nil {
		t.Error("duplicate category code accepted")
	}

	got, err := store.GetCategoryByCode(ctx, "vitals")
	if err != nil {
		t.Fatalf("GetCategoryByCode failed: %v", err)
	}
	if got == nil || got.ID != id {
		t.Fatalf("category = %+v", got)
	}

	// Returned rows are copies; mutating them must not leak into the store
	got.Name = "Mutated"
	again, _ := store.GetCategoryByCode(ctx, "vitals")
	if again.Name != "Vitals" {
		t.Error("store returned a shared pointer")
	}

	if err := store.UpdateCategoryFields(ctx, id, map[string]interface{}{"status": "inactive"}); err != nil {
		t.Fatalf("UpdateCategoryFields failed: %v", err)
	}
	again, _ = store.GetCategoryByCode(ctx, "vitals")
	if again.Status != types.StatusInactive {
		t.Errorf("status = %s, want inactive", again.Status)
	}

	if err := store.UpdateCategoryFields(ctx, id, map[string]interface{}{"bogus": 1}); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestQuestionParentLookup(t *testing.T) {
	store := New()
	ctx := context.Background()

	cat := &types.Category{Code: "c", Name: "C", Status: types.StatusActive}
	catID, _ := store.CreateCategory(ctx, cat)
	item := &types.Item{Code: "i", Name: "I", CategoryID: catID, Frequency: types.FrequencyDaily, Status: types.StatusActive}
	itemID, _ := store.CreateItem(ctx, item)

	parent := &types.Question{Code: "p", Text: "P?", ItemID: itemID, Type: types.TypeMultiChoice, Status: types.StatusActive}
	parentID, err := store.CreateQuestion(ctx, parent)
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	child := &types.Question{Code: "ch", Text: "Ch?", ItemID: itemID, Type: types.TypeBoolean, ParentQuestionID: &parentID, Status: types.StatusActive}
	if _, err := store.CreateQuestion(ctx, child); err != nil {
		t.Fatalf("CreateQuestion(child) failed: %v", err)
	}

	children, err := store.GetQuestionsByParent(ctx, parentID)
	if err != nil {
		t.Fatalf("GetQuestionsByParent failed: %v", err)
	}
	if len(children) != 1 || children[0].Code != "ch" {
		t.Errorf("children = %v", children)
	}
}

func TestOptionsByCode(t *testing.T) {
	store := New()
	ctx := context.Background()

	cat := &types.Category{Code: "c", Name: "C", Status: types.StatusActive}
	catID, _ := store.CreateCategory(ctx, cat)
	item := &types.Item{Code: "i", Name: "I", CategoryID: catID, Frequency: types.FrequencyDaily, Status: types.StatusActive}
	itemID, _ := store.CreateItem(ctx, item)
	q1 := &types.Question{Code: "q1", Text: "Q1?", ItemID: itemID, Type: types.TypeMultiChoice, Status: types.StatusActive}
	q1ID, _ := store.CreateQuestion(ctx, q1)
	q2 := &types.Question{Code: "q2", Text: "Q2?", ItemID: itemID, Type: types.TypeMultiChoice, Status: types.StatusActive}
	q2ID, _ := store.CreateQuestion(ctx, q2)

	for _, qid := range []int64{q1ID, q2ID} {
		opt := &types.ResponseOption{QuestionID: qid, Code: "yes", Text: "Yes", Status: types.StatusActive}
		if _, err := store.CreateOption(ctx, opt); err != nil {
			t.Fatalf("CreateOption failed: %v", err)
		}
	}

	dup := &types.ResponseOption{QuestionID: q1ID, Code: "yes", Text: "Again", Status: types.StatusActive}
	if _, err := store.CreateOption(ctx, dup); err == nil {
		t.Error("duplicate (question, code) accepted")
	}

	byCode, err := store.GetOptionsByCode(ctx, "yes")
	if err != nil {
		t.Fatalf("GetOptionsByCode failed: %v", err)
	}
	if len(byCode) != 2 {
		t.Errorf("got %d options, want 2", len(byCode))
	}
}

func TestModuleVersionAndMetadata(t *testing.T) {
	store := New()
	ctx := context.Background()

	mv, err := store.GetModuleVersion(ctx, "track")
	if err != nil || mv != nil {
		t.Fatalf("GetModuleVersion = %v, %v; want nil, nil", mv, err)
	}

	if err := store.UpsertModuleVersion(ctx, "track", 7, time.Now()); err != nil {
		t.Fatalf("UpsertModuleVersion failed: %v", err)
	}
	mv, _ = store.GetModuleVersion(ctx, "track")
	if mv == nil || mv.Version != 7 {
		t.Errorf("module version = %+v", mv)
	}

	if err := store.SetMetadata(ctx, "k", "v"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	if v, _ := store.GetMetadata(ctx, "k"); v != "v" {
		t.Errorf("metadata = %q", v)
	}
}

func TestFailWith(t *testing.T) {
	store := New()
	ctx := context.Background()
	boom := errors.New("disk on fire")

	store.FailWith(boom)
	if _, err := store.GetAllCategories(ctx); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if err := store.UpsertModuleVersion(ctx, "track", 1, time.Now()); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}

	store.FailWith(nil)
	if _, err := store.GetAllCategories(ctx); err != nil {
		t.Errorf("expected recovery after clearing error, got %v", err)
	}
}
