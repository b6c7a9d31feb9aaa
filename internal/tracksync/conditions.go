package tracksync

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/debug"
)

// normalizeCondition turns a raw display-condition into its canonical
// compact JSON text for persistence. Returns nil for an absent condition.
// A value that is not valid JSON is kept verbatim; the validator and the
// cascade code tolerate it by skipping, never by failing.
func normalizeCondition(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s := string(raw)
		return &s
	}
	normalized, err := json.Marshal(parsed)
	if err != nil {
		s := string(raw)
		return &s
	}
	s := string(normalized)
	return &s
}

// conditionsEqual compares two stored display-conditions structurally:
// both sides are parsed and deep-compared, so key order and whitespace
// never register as a structural change. Unparseable values fall back to
// exact text comparison.
func conditionsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	var av, bv interface{}
	if err := json.Unmarshal([]byte(*a), &av); err != nil {
		return *a == *b
	}
	if err := json.Unmarshal([]byte(*b), &bv); err != nil {
		return *a == *b
	}
	return reflect.DeepEqual(av, bv)
}

// conditionOptionCodes extracts the option codes a stored condition
// references. Conditions are flat objects whose string-typed values are
// option codes; anything else yields no codes. The second return is
// false when the condition text is not parseable JSON.
func conditionOptionCodes(condition string) ([]string, bool) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(condition), &parsed); err != nil {
		return nil, false
	}

	var codes []string
	for _, v := range parsed {
		if s, ok := v.(string); ok {
			codes = append(codes, s)
		}
	}
	return codes, true
}

// deactivateQuestionsWithInvalidConditions cascade-deactivates every
// question whose display condition references an option code absent from
// validOptionCodes. Runs against the final post-upsert option set, so
// conditions pointing at options removed by this same configuration
// update are caught.
func (s *Syncer) deactivateQuestionsWithInvalidConditions(ctx context.Context, sc *syncContext, res *Result, validOptionCodes map[string]bool) error {
	questions, err := s.store.GetAllQuestions(ctx)
	if err != nil {
		return err
	}

	for _, q := range questions {
		if q.DisplayCondition == nil {
			continue
		}
		codes, ok := conditionOptionCodes(*q.DisplayCondition)
		if !ok {
			debug.Logf("[pass %s] question %s has unparseable display condition, skipping validation\n", sc.passID, q.Code)
			continue
		}
		for _, code := range codes {
			if !validOptionCodes[code] {
				s.logf("[pass %s] question %s display condition references missing option %s, deactivating",
					sc.passID, q.Code, code)
				if err := s.cascadeDeactivateQuestionRow(ctx, sc, res, q); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}
