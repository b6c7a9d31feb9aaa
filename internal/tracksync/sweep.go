package tracksync

import (
	"context"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

// Missing-entity sweeps. After the upsert walk, anything persisted under
// this module that the configuration no longer carries is deactivated,
// cascading through its subtree. Codes are compared against the full
// document, so an entity merely skipped this pass is not swept.

func (s *Syncer) deactivateMissingCategories(ctx context.Context, sc *syncContext, res *Result, keep map[string]bool) error {
	categories, err := s.store.GetAllCategories(ctx)
	if err != nil {
		return err
	}
	for _, cat := range categories {
		if keep[cat.Code] {
			continue
		}
		if err := s.cascadeDeactivateCategory(ctx, sc, res, cat); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) deactivateMissingItems(ctx context.Context, sc *syncContext, res *Result, keep map[string]bool) error {
	items, err := s.store.GetAllItems(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if keep[item.Code] {
			continue
		}
		if err := s.cascadeDeactivateItemRow(ctx, sc, res, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) deactivateMissingQuestions(ctx context.Context, sc *syncContext, res *Result, keep map[string]bool) error {
	questions, err := s.store.GetAllQuestions(ctx)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if keep[q.Code] {
			continue
		}
		if err := s.cascadeDeactivateQuestionRow(ctx, sc, res, q); err != nil {
			return err
		}
	}
	return nil
}

// deactivateMissingOptions sweeps stored options absent from the
// configuration. A choice question left with no active options at all
// can never be answered again, so it is cascade-deactivated along with
// its follow-ups.
func (s *Syncer) deactivateMissingOptions(ctx context.Context, sc *syncContext, res *Result, keep map[string]bool) error {
	options, err := s.store.GetAllOptions(ctx)
	if err != nil {
		return err
	}

	touched := make(map[int64]bool)
	for _, opt := range options {
		if keep[opt.Code] {
			continue
		}
		touched[opt.QuestionID] = true
		if err := s.cascadeDeactivateOption(ctx, sc, res, opt); err != nil {
			return err
		}
	}

	for questionID := range touched {
		remaining, err := s.store.GetOptionsByQuestion(ctx, questionID)
		if err != nil {
			return err
		}
		active := 0
		for _, opt := range remaining {
			if opt.Status != types.StatusInactive {
				active++
			}
		}
		if active > 0 {
			continue
		}
		q, err := s.store.GetQuestionByID(ctx, questionID)
		if err != nil {
			return err
		}
		if q == nil || q.Status == types.StatusInactive {
			continue
		}
		s.logf("[pass %s] question %s has no active options left", sc.passID, q.Code)
		if err := s.cascadeDeactivateQuestionRow(ctx, sc, res, q); err != nil {
			return err
		}
	}
	return nil
}
