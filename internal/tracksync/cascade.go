package tracksync

import (
	"context"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

// Cascading deactivation. Deactivating an entity takes its whole subtree
// with it: a category's items, an item's questions, a question's options
// and follow-up questions. Deactivating an option additionally sweeps
// every question whose display condition references the option's code.
//
// All of these are idempotent: an already-inactive row is not rewritten,
// but its subtree is still walked so a partially-applied earlier pass
// converges.

var inactivePatch = map[string]interface{}{"status": string(types.StatusInactive)}

func (s *Syncer) cascadeDeactivateCategory(ctx context.Context, sc *syncContext, res *Result, cat *types.Category) error {
	items, err := s.store.GetItemsByCategory(ctx, cat.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.cascadeDeactivateItemRow(ctx, sc, res, item); err != nil {
			return err
		}
	}

	if cat.Status == types.StatusInactive {
		return nil
	}
	s.logf("[pass %s] deactivating category %s", sc.passID, cat.Code)
	if err := s.store.UpdateCategoryFields(ctx, cat.ID, inactivePatch); err != nil {
		return err
	}
	res.Deactivated++
	return nil
}

func (s *Syncer) cascadeDeactivateItemRow(ctx context.Context, sc *syncContext, res *Result, item *types.Item) error {
	questions, err := s.store.GetQuestionsByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if err := s.cascadeDeactivateQuestionRow(ctx, sc, res, q); err != nil {
			return err
		}
	}

	if item.Status == types.StatusInactive {
		return nil
	}
	s.logf("[pass %s] deactivating item %s", sc.passID, item.Code)
	if err := s.store.UpdateItemFields(ctx, item.ID, inactivePatch); err != nil {
		return err
	}
	res.Deactivated++
	return nil
}

func (s *Syncer) cascadeDeactivateQuestionRow(ctx context.Context, sc *syncContext, res *Result, q *types.Question) error {
	if q.Status != types.StatusInactive {
		s.logf("[pass %s] deactivating question %s", sc.passID, q.Code)
		if err := s.store.UpdateQuestionFields(ctx, q.ID, inactivePatch); err != nil {
			return err
		}
		res.Deactivated++
	}

	options, err := s.store.GetOptionsByQuestion(ctx, q.ID)
	if err != nil {
		return err
	}
	for _, opt := range options {
		if opt.Status == types.StatusInactive {
			continue
		}
		if err := s.store.UpdateOptionFields(ctx, opt.ID, inactivePatch); err != nil {
			return err
		}
		res.Deactivated++
	}

	children, err := s.store.GetQuestionsByParent(ctx, q.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.cascadeDeactivateQuestionRow(ctx, sc, res, child); err != nil {
			return err
		}
	}
	return nil
}

// cascadeDeactivateOption deactivates one response option and then every
// question whose display condition references the option's code, since
// such questions can never be shown again.
func (s *Syncer) cascadeDeactivateOption(ctx context.Context, sc *syncContext, res *Result, opt *types.ResponseOption) error {
	if opt.Status != types.StatusInactive {
		s.logf("[pass %s] deactivating option %s", sc.passID, opt.Code)
		if err := s.store.UpdateOptionFields(ctx, opt.ID, inactivePatch); err != nil {
			return err
		}
		res.Deactivated++
	}

	questions, err := s.store.GetAllQuestions(ctx)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if q.Status == types.StatusInactive || q.DisplayCondition == nil {
			continue
		}
		codes, ok := conditionOptionCodes(*q.DisplayCondition)
		if !ok {
			continue
		}
		for _, code := range codes {
			if code != opt.Code {
				continue
			}
			s.logf("[pass %s] question %s depends on deactivated option %s", sc.passID, q.Code, opt.Code)
			if err := s.cascadeDeactivateQuestionRow(ctx, sc, res, q); err != nil {
				return err
			}
			break
		}
	}
	return nil
}
