package tracksync

import (
	"context"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/trackconfig"
	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

// upsertCategory inserts or refreshes one category. Categories carry no
// structural fields, so the upsert is unconditional.
func (s *Syncer) upsertCategory(ctx context.Context, sc *syncContext, res *Result, def trackconfig.CategoryDef) error {
	existing, err := s.store.GetCategoryByCode(ctx, def.Code)
	if err != nil {
		return err
	}

	if existing == nil {
		cat := &types.Category{Code: def.Code, Name: def.Name, Status: types.StatusActive}
		if _, err := s.store.CreateCategory(ctx, cat); err != nil {
			return err
		}
		res.Created++
		return nil
	}

	updates := make(map[string]interface{})
	if existing.Name != def.Name {
		updates["name"] = def.Name
	}
	if existing.Status != types.StatusActive {
		updates["status"] = string(types.StatusActive)
	}
	if len(updates) == 0 {
		res.Unchanged++
		return nil
	}
	if err := s.store.UpdateCategoryFields(ctx, existing.ID, updates); err != nil {
		return err
	}
	res.Updated++
	return nil
}

// upsertItem inserts or refreshes one item. The parent category must
// already exist and the frequency must be a known enum value, otherwise
// the item is skipped and the pass continues.
func (s *Syncer) upsertItem(ctx context.Context, sc *syncContext, res *Result, def trackconfig.ItemDef) error {
	category, err := s.store.GetCategoryByCode(ctx, def.CategoryCode)
	if err != nil {
		return err
	}
	if category == nil {
		s.logf("[pass %s] item %s skipped: category %s not found", sc.passID, def.Code, def.CategoryCode)
		res.Skipped++
		return nil
	}

	if !def.Frequency.IsValid() {
		s.logf("[pass %s] item %s skipped: invalid tracking frequency %q", sc.passID, def.Code, def.Frequency)
		res.Skipped++
		return nil
	}

	existing, err := s.store.GetItemByCode(ctx, def.Code)
	if err != nil {
		return err
	}

	if existing == nil {
		item := &types.Item{
			Code:       def.Code,
			CategoryID: category.ID,
			Name:       def.Name,
			Frequency:  def.Frequency,
			Status:     types.StatusActive,
		}
		if _, err := s.store.CreateItem(ctx, item); err != nil {
			return err
		}
		res.Created++
		return nil
	}

	updates := make(map[string]interface{})
	if existing.CategoryID != category.ID {
		updates["category_id"] = category.ID
	}
	if existing.Name != def.Name {
		updates["name"] = def.Name
	}
	if existing.Frequency != def.Frequency {
		updates["frequency"] = string(def.Frequency)
	}
	if existing.Status != types.StatusActive {
		updates["status"] = string(types.StatusActive)
	}
	if len(updates) == 0 {
		res.Unchanged++
		return nil
	}
	if err := s.store.UpdateItemFields(ctx, existing.ID, updates); err != nil {
		return err
	}
	res.Updated++
	return nil
}

// upsertQuestion inserts or refreshes one question and, when the question
// ends up active, its response options.
//
// A change to an existing question's structural identity (type, text,
// parent linkage, display condition) is never applied: recorded responses
// are interpreted against those fields, so the existing row is cascade-
// deactivated and the new definition is rejected for this pass.
func (s *Syncer) upsertQuestion(ctx context.Context, sc *syncContext, res *Result, itemCode string, def trackconfig.QuestionDef) error {
	// A skipped parent poisons its whole subtree for the rest of the pass
	if def.ParentQuestionCode != nil && sc.isQuestionSkipped(*def.ParentQuestionCode) {
		s.logf("[pass %s] question %s skipped: parent %s was rejected this pass",
			sc.passID, def.Code, *def.ParentQuestionCode)
		sc.markQuestionSkipped(def.Code)
		res.Skipped++
		return nil
	}

	item, err := s.store.GetItemByCode(ctx, itemCode)
	if err != nil {
		return err
	}
	if item == nil {
		s.logf("[pass %s] question %s skipped: item %s not found", sc.passID, def.Code, itemCode)
		res.Skipped++
		return nil
	}

	var parentID *int64
	if def.ParentQuestionCode != nil {
		parent, err := s.store.GetQuestionByCode(ctx, *def.ParentQuestionCode)
		if err != nil {
			return err
		}
		if parent == nil {
			s.logf("[pass %s] question %s skipped: parent question %s not found",
				sc.passID, def.Code, *def.ParentQuestionCode)
			sc.markQuestionSkipped(def.Code)
			res.Skipped++
			return nil
		}
		// An inactive parent is as good as missing: children never
		// attach to a dead branch.
		if parent.Status != types.StatusActive {
			s.logf("[pass %s] question %s skipped: parent question %s is inactive",
				sc.passID, def.Code, *def.ParentQuestionCode)
			sc.markQuestionSkipped(def.Code)
			res.Skipped++
			return nil
		}
		parentID = &parent.ID
	}

	if !def.Type.IsValid() {
		s.logf("[pass %s] question %s skipped: invalid question type %q", sc.passID, def.Code, def.Type)
		res.Skipped++
		return nil
	}
	if def.Subtype != nil && !def.Subtype.IsValid() {
		s.logf("[pass %s] question %s skipped: invalid numeric subtype %q", sc.passID, def.Code, *def.Subtype)
		res.Skipped++
		return nil
	}
	if def.Units != nil && !def.Units.IsValid() {
		s.logf("[pass %s] question %s skipped: invalid units %q", sc.passID, def.Code, *def.Units)
		res.Skipped++
		return nil
	}

	condition := normalizeCondition(def.DisplayCondition)

	existing, err := s.store.GetQuestionByCode(ctx, def.Code)
	if err != nil {
		return err
	}

	if existing == nil {
		q := &types.Question{
			Code:             def.Code,
			ItemID:           item.ID,
			Text:             def.Text,
			Type:             def.Type,
			Subtype:          def.Subtype,
			Units:            def.Units,
			MinValue:         def.MinValue,
			MaxValue:         def.MaxValue,
			Precision:        def.Precision,
			Instructions:     def.Instructions,
			Required:         def.Required,
			SummaryTemplate:  def.SummaryTemplate,
			ParentQuestionID: parentID,
			DisplayCondition: condition,
			Status:           types.StatusActive,
		}
		if _, err := s.store.CreateQuestion(ctx, q); err != nil {
			return err
		}
		res.Created++
		return s.upsertOptions(ctx, sc, res, def)
	}

	if s.structuralViolation(existing, def, parentID, condition) {
		s.logf("[pass %s] question %s rejected: structural change to an existing question, deactivating stored row",
			sc.passID, def.Code)
		sc.markQuestionSkipped(def.Code)
		res.Skipped++
		return s.cascadeDeactivateQuestionRow(ctx, sc, res, existing)
	}

	updates := s.questionFieldDiff(existing, def)
	if existing.Status != types.StatusActive {
		// Reactivation path: a question deactivated earlier and now
		// reintroduced unchanged becomes active again.
		updates["status"] = string(types.StatusActive)
	}
	if len(updates) == 0 {
		res.Unchanged++
	} else {
		if err := s.store.UpdateQuestionFields(ctx, existing.ID, updates); err != nil {
			return err
		}
		res.Updated++
	}

	return s.upsertOptions(ctx, sc, res, def)
}

// structuralViolation reports whether def changes the structural identity
// of an existing question row
func (s *Syncer) structuralViolation(existing *types.Question, def trackconfig.QuestionDef, parentID *int64, condition *string) bool {
	if existing.Type != def.Type {
		return true
	}
	if existing.Text != def.Text {
		return true
	}
	if !int64PtrEqual(existing.ParentQuestionID, parentID) {
		return true
	}
	return !conditionsEqual(existing.DisplayCondition, condition)
}

// questionFieldDiff computes the patch over the non-structural fields
func (s *Syncer) questionFieldDiff(existing *types.Question, def trackconfig.QuestionDef) map[string]interface{} {
	updates := make(map[string]interface{})

	if !subtypePtrEqual(existing.Subtype, def.Subtype) {
		updates["subtype"] = subtypePatch(def.Subtype)
	}
	if !unitPtrEqual(existing.Units, def.Units) {
		updates["units"] = unitPatch(def.Units)
	}
	if !float64PtrEqual(existing.MinValue, def.MinValue) {
		updates["min_value"] = float64Patch(def.MinValue)
	}
	if !float64PtrEqual(existing.MaxValue, def.MaxValue) {
		updates["max_value"] = float64Patch(def.MaxValue)
	}
	if !intPtrEqual(existing.Precision, def.Precision) {
		updates["precision"] = intPatch(def.Precision)
	}
	if existing.Instructions != def.Instructions {
		updates["instructions"] = def.Instructions
	}
	if existing.Required != def.Required {
		updates["required"] = def.Required
	}
	if existing.SummaryTemplate != def.SummaryTemplate {
		updates["summary_template"] = def.SummaryTemplate
	}
	return updates
}

// upsertOptions reconciles a question's response options after the
// question itself has been refreshed. Runs only while the question is
// active; a question skipped or deactivated this pass keeps its stored
// options untouched.
func (s *Syncer) upsertOptions(ctx context.Context, sc *syncContext, res *Result, def trackconfig.QuestionDef) error {
	for _, opt := range def.ResponseOptions {
		if err := s.upsertOption(ctx, sc, res, def.Code, opt); err != nil {
			return err
		}
	}
	return nil
}

// upsertOption inserts or refreshes one response option under the named
// question
func (s *Syncer) upsertOption(ctx context.Context, sc *syncContext, res *Result, questionCode string, def trackconfig.OptionDef) error {
	if sc.isQuestionSkipped(questionCode) {
		s.logf("[pass %s] option %s skipped: question %s was rejected this pass", sc.passID, def.Code, questionCode)
		res.Skipped++
		return nil
	}

	question, err := s.store.GetQuestionByCode(ctx, questionCode)
	if err != nil {
		return err
	}
	if question == nil || question.Status != types.StatusActive {
		s.logf("[pass %s] option %s skipped: question %s missing or inactive", sc.passID, def.Code, questionCode)
		res.Skipped++
		return nil
	}

	existing, err := s.store.GetOptionByQuestionAndCode(ctx, question.ID, def.Code)
	if err != nil {
		return err
	}

	if existing == nil {
		opt := &types.ResponseOption{
			QuestionID: question.ID,
			Code:       def.Code,
			Text:       def.Text,
			Status:     types.StatusActive,
		}
		if _, err := s.store.CreateOption(ctx, opt); err != nil {
			return err
		}
		res.Created++
		return nil
	}

	updates := make(map[string]interface{})
	if existing.Text != def.Text {
		updates["text"] = def.Text
	}
	if existing.Status != types.StatusActive {
		updates["status"] = string(types.StatusActive)
	}
	if len(updates) == 0 {
		res.Unchanged++
		return nil
	}
	if err := s.store.UpdateOptionFields(ctx, existing.ID, updates); err != nil {
		return err
	}
	res.Updated++
	return nil
}

// Pointer equality helpers: nil means "not set" and compares unequal to
// any set value.

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func float64PtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func subtypePtrEqual(a, b *types.NumericSubtype) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func unitPtrEqual(a, b *types.Unit) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func subtypePatch(s *types.NumericSubtype) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}

func unitPatch(u *types.Unit) interface{} {
	if u == nil {
		return nil
	}
	return string(*u)
}

func float64Patch(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func intPatch(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
