// Package types defines the track configuration entities and their
// closed enum vocabularies.
package types

import (
	"fmt"
	"time"
)

// EntityStatus is the lifecycle state of any track entity. Entities are
// never hard-deleted; removal from the source configuration is expressed
// as a transition to inactive.
type EntityStatus string

const (
	StatusActive   EntityStatus = "active"
	StatusInactive EntityStatus = "inactive"
)

// IsValid checks if the status value is valid
func (s EntityStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}

// TrackingFrequency is how often an item is tracked
type TrackingFrequency string

const (
	FrequencyDaily   TrackingFrequency = "daily"
	FrequencyWeekly  TrackingFrequency = "weekly"
	FrequencyMonthly TrackingFrequency = "monthly"
)

// IsValid checks if the frequency value is valid
func (f TrackingFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// QuestionType categorizes how a question is answered
type QuestionType string

const (
	TypeBoolean     QuestionType = "boolean"
	TypeMultiChoice QuestionType = "multi-choice"
	TypeMultiSelect QuestionType = "multi-select"
	TypeNumeric     QuestionType = "numeric"
	TypeText        QuestionType = "text"
)

// IsValid checks if the question type value is valid
func (t QuestionType) IsValid() bool {
	switch t {
	case TypeBoolean, TypeMultiChoice, TypeMultiSelect, TypeNumeric, TypeText:
		return true
	}
	return false
}

// NumericSubtype refines numeric questions
type NumericSubtype string

const (
	SubtypeInteger NumericSubtype = "integer"
	SubtypeDecimal NumericSubtype = "decimal"
)

// IsValid checks if the numeric subtype value is valid
func (s NumericSubtype) IsValid() bool {
	switch s {
	case SubtypeInteger, SubtypeDecimal:
		return true
	}
	return false
}

// Unit is the fixed measurement-unit vocabulary
type Unit string

const (
	UnitPounds     Unit = "lb"
	UnitMeters     Unit = "m"
	UnitCelsius    Unit = "°C"
	UnitFahrenheit Unit = "°F"
	UnitPercent    Unit = "%"
	UnitMmHg       Unit = "mmHg"
	UnitMgDl       Unit = "mg/dL"
	UnitSteps      Unit = "steps"
	UnitMinutes    Unit = "minute"
	UnitKilograms  Unit = "kg"
	UnitMm         Unit = "mm"
	UnitCm         Unit = "cm"
	UnitHours      Unit = "hour"
	UnitDays       Unit = "day"
	UnitMonths     Unit = "month"
	UnitYears      Unit = "year"
)

// IsValid checks if the unit value is valid
func (u Unit) IsValid() bool {
	switch u {
	case UnitPounds, UnitMeters, UnitCelsius, UnitFahrenheit, UnitPercent,
		UnitMmHg, UnitMgDl, UnitSteps, UnitMinutes, UnitKilograms,
		UnitMm, UnitCm, UnitHours, UnitDays, UnitMonths, UnitYears:
		return true
	}
	return false
}

// Category groups track items. Identified externally by Code, internally
// by the store-assigned ID.
type Category struct {
	ID        int64        `json:"id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Status    EntityStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Validate checks if the category has valid field values
func (c *Category) Validate() error {
	if c.Code == "" {
		return fmt.Errorf("category code is required")
	}
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("invalid category status: %s", c.Status)
	}
	return nil
}

// Item is a trackable concern within a category
type Item struct {
	ID         int64             `json:"id"`
	Code       string            `json:"code"`
	CategoryID int64             `json:"category_id"`
	Name       string            `json:"name"`
	Frequency  TrackingFrequency `json:"frequency"`
	Status     EntityStatus      `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Validate checks if the item has valid field values
func (i *Item) Validate() error {
	if i.Code == "" {
		return fmt.Errorf("item code is required")
	}
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if i.CategoryID == 0 {
		return fmt.Errorf("item category_id is required")
	}
	if !i.Frequency.IsValid() {
		return fmt.Errorf("invalid tracking frequency: %s", i.Frequency)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid item status: %s", i.Status)
	}
	return nil
}

// Question is a single prompt under an item.
//
// Type, Text, ParentQuestionID and DisplayCondition are the question's
// structural identity: recorded responses are interpreted against them,
// so the sync engine never mutates them on an existing row. The remaining
// optional fields are presentational and may be hot-patched.
type Question struct {
	ID               int64           `json:"id"`
	Code             string          `json:"code"`
	ItemID           int64           `json:"item_id"`
	Text             string          `json:"text"`
	Type             QuestionType    `json:"type"`
	Subtype          *NumericSubtype `json:"subtype,omitempty"`
	Units            *Unit           `json:"units,omitempty"`
	MinValue         *float64        `json:"min_value,omitempty"`
	MaxValue         *float64        `json:"max_value,omitempty"`
	Precision        *int            `json:"precision,omitempty"`
	Instructions     string          `json:"instructions,omitempty"`
	Required         bool            `json:"required"`
	SummaryTemplate  string          `json:"summary_template,omitempty"`
	ParentQuestionID *int64          `json:"parent_question_id,omitempty"`
	DisplayCondition *string         `json:"display_condition,omitempty"`
	Status           EntityStatus    `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Validate checks if the question has valid field values
func (q *Question) Validate() error {
	if q.Code == "" {
		return fmt.Errorf("question code is required")
	}
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if q.ItemID == 0 {
		return fmt.Errorf("question item_id is required")
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("invalid question type: %s", q.Type)
	}
	if q.Subtype != nil && !q.Subtype.IsValid() {
		return fmt.Errorf("invalid numeric subtype: %s", *q.Subtype)
	}
	if q.Units != nil && !q.Units.IsValid() {
		return fmt.Errorf("invalid units: %s", *q.Units)
	}
	if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
		return fmt.Errorf("min_value %v exceeds max_value %v", *q.MinValue, *q.MaxValue)
	}
	if q.Precision != nil && *q.Precision < 0 {
		return fmt.Errorf("precision cannot be negative")
	}
	if !q.Status.IsValid() {
		return fmt.Errorf("invalid question status: %s", q.Status)
	}
	return nil
}

// ResponseOption is one selectable answer for a multi-choice or
// multi-select question. Keyed by (QuestionID, Code).
type ResponseOption struct {
	ID         int64        `json:"id"`
	QuestionID int64        `json:"question_id"`
	Code       string       `json:"code"`
	Text       string       `json:"text"`
	Status     EntityStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Validate checks if the option has valid field values
func (o *ResponseOption) Validate() error {
	if o.Code == "" {
		return fmt.Errorf("option code is required")
	}
	if o.QuestionID == 0 {
		return fmt.Errorf("option question_id is required")
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("invalid option status: %s", o.Status)
	}
	return nil
}

// ModuleVersion records the last configuration version committed for a
// config domain ("track"). One row per module, upserted at the end of a
// successful sync pass.
type ModuleVersion struct {
	Module       string    `json:"module"`
	Version      int64     `json:"version"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// Statistics provides aggregate counts over the persisted configuration
type Statistics struct {
	ActiveCategories   int `json:"active_categories"`
	InactiveCategories int `json:"inactive_categories"`
	ActiveItems        int `json:"active_items"`
	InactiveItems      int `json:"inactive_items"`
	ActiveQuestions    int `json:"active_questions"`
	InactiveQuestions  int `json:"inactive_questions"`
	ActiveOptions      int `json:"active_options"`
	InactiveOptions    int `json:"inactive_options"`
}
