package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FieldCandidate is a single candidate value for a field during coordination.
// Candidates are replaced, never mutated in place; the coordinator owns the
// only map holding them and it lives for one document.
type FieldCandidate struct {
	Field      string      `json:"field"`
	Value      string      `json:"value"`
	Confidence float64     `json:"confidence"`
	Source     SourceLevel `json:"source"`
}

// ParsingResult is the coordinator's output for one document: the final
// field map plus everything a consumer needs to judge it. Absent fields mean
// "blank", not failure, unless Errors is non-empty.
type ParsingResult struct {
	Fields      map[string]string           `json:"fields"`
	Confidence  float64                     `json:"confidence"`
	Warnings    []string                    `json:"warnings"`
	Errors      []string                    `json:"errors"`
	Sources     map[string]SourceLevel      `json:"sources"`
	Confidences map[string]float64          `json:"confidences"`
	Checks      map[string]ValidationStatus `json:"checks"`
}

// NewParsingResult returns an empty result with all maps allocated.
func NewParsingResult() *ParsingResult {
	return &ParsingResult{
		Fields:      make(map[string]string),
		Sources:     make(map[string]SourceLevel),
		Confidences: make(map[string]float64),
		Checks:      make(map[string]ValidationStatus),
	}
}

// AddWarning appends an ordered warning.
func (r *ParsingResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddError appends an ordered error.
func (r *ParsingResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// FieldPassed reports whether a field is usable by downstream consumers:
// either it was never checked (non-identifier fields) or its check did not
// fail hard.
func (r *ParsingResult) FieldPassed(key string) bool {
	st, ok := r.Checks[key]
	if !ok {
		return true
	}
	return !st.IsError()
}

// Party holds one side of a claim, built incrementally: extraction fills
// candidates, recovery fills gaps, validation annotates correctness. After
// reconciliation it is treated as immutable.
type Party struct {
	Name       string      `json:"name"`
	NameShort  string      `json:"name_short"`
	INN        string      `json:"inn"`
	KPP        string      `json:"kpp"`
	OGRN       string      `json:"ogrn"`
	Address    string      `json:"address"`
	Region     string      `json:"region"`
	Class      EntityClass `json:"entity_class"`
	BirthDate  string      `json:"birth_date,omitempty"`
	BirthPlace string      `json:"birth_place,omitempty"`
}

// ParseRecord is a persisted parse outcome.
type ParseRecord struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Status     ParseStatus     `db:"status" json:"status"`
	Fields     json.RawMessage `db:"fields" json:"fields"`
	Confidence float64         `db:"confidence" json:"confidence"`
	Warnings   json.RawMessage `db:"warnings" json:"warnings"`
	Errors     json.RawMessage `db:"errors" json:"errors"`
	Sources    json.RawMessage `db:"sources" json:"sources"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
