// Package trackconfig parses and validates the versioned track
// configuration document at the ingestion boundary, so the sync engine
// operates on typed, structurally validated records.
//
// Structural validation here covers required fields and duplicate codes.
// Enum values are carried as typed strings but deliberately NOT rejected
// at parse time: the sync engine validates them per entity and skips the
// offending entity without failing the whole document.
package trackconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

// Document is the in-memory track configuration. All cross-references
// between definitions are by stable code string, never by row id.
type Document struct {
	Version                   int64         `json:"version"`
	PredefinedTrackCategories []CategoryDef `json:"predefinedTrackCategories"`
	PredefinedTrackItems      []ItemDef     `json:"predefinedTrackItems"`
}

// CategoryDef defines one track category
type CategoryDef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ItemDef defines one track item, owned by a category via CategoryCode
type ItemDef struct {
	Code         string                  `json:"code"`
	Name         string                  `json:"name"`
	CategoryCode string                  `json:"categoryCode"`
	Frequency    types.TrackingFrequency `json:"frequency"`
	Questions    []QuestionDef           `json:"questions,omitempty"`
}

// QuestionDef defines one question under an item. ParentQuestionCode
// links a follow-up question to its parent within the same item.
type QuestionDef struct {
	Code               string                `json:"code"`
	Text               string                `json:"text"`
	Type               types.QuestionType    `json:"type"`
	Subtype            *types.NumericSubtype `json:"subtype,omitempty"`
	Units              *types.Unit           `json:"units,omitempty"`
	MinValue           *float64              `json:"min,omitempty"`
	MaxValue           *float64              `json:"max,omitempty"`
	Precision          *int                  `json:"precision,omitempty"`
	Instructions       string                `json:"instructions,omitempty"`
	Required           bool                  `json:"required,omitempty"`
	SummaryTemplate    string                `json:"summaryTemplate,omitempty"`
	ParentQuestionCode *string               `json:"parentQuestionCode,omitempty"`
	DisplayCondition   json.RawMessage       `json:"displayCondition,omitempty"`
	ResponseOptions    []OptionDef           `json:"responseOptions,omitempty"`
}

// OptionDef defines one response option of a question
type OptionDef struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Parse decodes a configuration document from r and validates its
// structure.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse track configuration: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseFile reads and parses a configuration document from a file
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track configuration: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Validate checks the document's structure: version, required fields,
// and duplicate codes. Enum membership is left to the sync engine.
func (d *Document) Validate() error {
	if d.Version < 1 {
		return fmt.Errorf("configuration version must be >= 1 (got %d)", d.Version)
	}

	catCodes := make(map[string]bool)
	for i, cat := range d.PredefinedTrackCategories {
		if cat.Code == "" {
			return fmt.Errorf("category at index %d has no code", i)
		}
		if cat.Name == "" {
			return fmt.Errorf("category %s has no name", cat.Code)
		}
		if catCodes[cat.Code] {
			return fmt.Errorf("duplicate category code: %s", cat.Code)
		}
		catCodes[cat.Code] = true
	}

	itemCodes := make(map[string]bool)
	questionCodes := make(map[string]bool)
	for i, item := range d.PredefinedTrackItems {
		if item.Code == "" {
			return fmt.Errorf("item at index %d has no code", i)
		}
		if item.Name == "" {
			return fmt.Errorf("item %s has no name", item.Code)
		}
		if item.CategoryCode == "" {
			return fmt.Errorf("item %s has no categoryCode", item.Code)
		}
		if itemCodes[item.Code] {
			return fmt.Errorf("duplicate item code: %s", item.Code)
		}
		itemCodes[item.Code] = true

		for _, q := range item.Questions {
			if q.Code == "" {
				return fmt.Errorf("question under item %s has no code", item.Code)
			}
			if q.Text == "" {
				return fmt.Errorf("question %s has no text", q.Code)
			}
			if questionCodes[q.Code] {
				return fmt.Errorf("duplicate question code: %s", q.Code)
			}
			questionCodes[q.Code] = true

			optCodes := make(map[string]bool)
			for _, opt := range q.ResponseOptions {
				if opt.Code == "" {
					return fmt.Errorf("option under question %s has no code", q.Code)
				}
				if optCodes[opt.Code] {
					return fmt.Errorf("duplicate option code %s under question %s", opt.Code, q.Code)
				}
				optCodes[opt.Code] = true
			}
		}
	}

	return nil
}

// ItemsForCategory returns the item definitions owned by categoryCode,
// in document order.
func (d *Document) ItemsForCategory(categoryCode string) []ItemDef {
	var items []ItemDef
	for _, item := range d.PredefinedTrackItems {
		if item.CategoryCode == categoryCode {
			items = append(items, item)
		}
	}
	return items
}

// CategoryCodes returns the set of all category codes in the document
func (d *Document) CategoryCodes() map[string]bool {
	codes := make(map[string]bool, len(d.PredefinedTrackCategories))
	for _, cat := range d.PredefinedTrackCategories {
		codes[cat.Code] = true
	}
	return codes
}

// ItemCodes returns the set of all item codes in the document
func (d *Document) ItemCodes() map[string]bool {
	codes := make(map[string]bool, len(d.PredefinedTrackItems))
	for _, item := range d.PredefinedTrackItems {
		codes[item.Code] = true
	}
	return codes
}

// QuestionCodes returns the set of all question codes in the document,
// flattened across items.
func (d *Document) QuestionCodes() map[string]bool {
	codes := make(map[string]bool)
	for _, item := range d.PredefinedTrackItems {
		for _, q := range item.Questions {
			codes[q.Code] = true
		}
	}
	return codes
}

// OptionCodes returns the set of all response option codes in the
// document, flattened across questions.
func (d *Document) OptionCodes() map[string]bool {
	codes := make(map[string]bool)
	for _, item := range d.PredefinedTrackItems {
		for _, q := range item.Questions {
			for _, opt := range q.ResponseOptions {
				codes[opt.Code] = true
			}
		}
	}
	return codes
}
