package types

import "testing"

func TestEntityStatusIsValid(t *testing.T) {
	tests := []struct {
		status EntityStatus
		want   bool
	}{
		{StatusActive, true},
		{StatusInactive, true},
		{EntityStatus("deleted"), false},
		{EntityStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.want {
			t.Errorf("EntityStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTrackingFrequencyIsValid(t *testing.T) {
	tests := []struct {
		freq TrackingFrequency
		want bool
	}{
		{FrequencyDaily, true},
		{FrequencyWeekly, true},
		{FrequencyMonthly, true},
		{TrackingFrequency("yearly"), false},
		{TrackingFrequency(""), false},
	}

	for _, tt := range tests {
		if got := tt.freq.IsValid(); got != tt.want {
			t.Errorf("TrackingFrequency(%q).IsValid() = %v, want %v", tt.freq, got, tt.want)
		}
	}
}

func TestQuestionTypeIsValid(t *testing.T) {
	valid := []QuestionType{TypeBoolean, TypeMultiChoice, TypeMultiSelect, TypeNumeric, TypeText}
	for _, qt := range valid {
		if !qt.IsValid() {
			t.Errorf("QuestionType(%q).IsValid() = false, want true", qt)
		}
	}
	if QuestionType("not-a-real-type").IsValid() {
		t.Error("invalid question type accepted")
	}
}

func TestUnitIsValid(t *testing.T) {
	valid := []Unit{
		UnitPounds, UnitMeters, UnitCelsius, UnitFahrenheit, UnitPercent,
		UnitMmHg, UnitMgDl, UnitSteps, UnitMinutes, UnitKilograms,
		UnitMm, UnitCm, UnitHours, UnitDays, UnitMonths, UnitYears,
	}
	for _, u := range valid {
		if !u.IsValid() {
			t.Errorf("Unit(%q).IsValid() = false, want true", u)
		}
	}
	if Unit("furlong").IsValid() {
		t.Error("invalid unit accepted")
	}
}

func TestCategoryValidate(t *testing.T) {
	tests := []struct {
		name     string
		category *Category
		wantErr  bool
	}{
		{
			name:     "valid category",
			category: &Category{Code: "vitals", Name: "Vitals", Status: StatusActive},
			wantErr:  false,
		},
		{
			name:     "missing code",
			category: &Category{Name: "Vitals", Status: StatusActive},
			wantErr:  true,
		},
		{
			name:     "missing name",
			category: &Category{Code: "vitals", Status: StatusActive},
			wantErr:  true,
		},
		{
			name:     "bad status",
			category: &Category{Code: "vitals", Name: "Vitals", Status: "gone"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    *Item
		wantErr bool
	}{
		{
			name:    "valid item",
			item:    &Item{Code: "weight", Name: "Weight", CategoryID: 1, Frequency: FrequencyDaily, Status: StatusActive},
			wantErr: false,
		},
		{
			name:    "invalid frequency",
			item:    &Item{Code: "weight", Name: "Weight", CategoryID: 1, Frequency: "hourly", Status: StatusActive},
			wantErr: true,
		},
		{
			name:    "missing category",
			item:    &Item{Code: "weight", Name: "Weight", Frequency: FrequencyDaily, Status: StatusActive},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuestionValidate(t *testing.T) {
	subInt := SubtypeInteger
	badSub := NumericSubtype("fractional")
	kg := UnitKilograms
	lo, hi := 10.0, 5.0

	tests := []struct {
		name     string
		question *Question
		wantErr  bool
	}{
		{
			name:     "valid numeric question",
			question: &Question{Code: "q1", Text: "Weight?", ItemID: 1, Type: TypeNumeric, Subtype: &subInt, Units: &kg, Status: StatusActive},
			wantErr:  false,
		},
		{
			name:     "invalid type",
			question: &Question{Code: "q1", Text: "Weight?", ItemID: 1, Type: "slider", Status: StatusActive},
			wantErr:  true,
		},
		{
			name:     "invalid subtype",
			question: &Question{Code: "q1", Text: "Weight?", ItemID: 1, Type: TypeNumeric, Subtype: &badSub, Status: StatusActive},
			wantErr:  true,
		},
		{
			name:     "min greater than max",
			question: &Question{Code: "q1", Text: "Weight?", ItemID: 1, Type: TypeNumeric, MinValue: &lo, MaxValue: &hi, Status: StatusActive},
			wantErr:  true,
		},
		{
			name:     "missing text",
			question: &Question{Code: "q1", ItemID: 1, Type: TypeBoolean, Status: StatusActive},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
