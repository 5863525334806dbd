package validator

import (
	"pretenz/internal/domain"
)

// Report aggregates the outcomes of every rule run against one party, plus
// cross-field consistency warnings. It owns no references into the party.
type Report struct {
	IsValid       bool
	Results       []Result
	Warnings      []string
	Summary       Summary
	FieldStatuses map[string]domain.ValidationStatus
}

// Summary holds aggregate counts of rule results.
type Summary struct {
	Total    int
	Passed   int
	Errors   int
	Warnings int
}

// Engine runs registered rules against a party snapshot.
type Engine struct {
	registry *Registry
}

// NewEngine creates a validation engine over a rule registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// ValidateParty runs every registered rule and aggregates results. The party
// is valid iff no error-severity rule failed; warning-severity failures are
// collected but never block validity. Failed-rule messages are appended to
// Warnings in rule-registration order.
func (e *Engine) ValidateParty(p *domain.Party) *Report {
	report := &Report{
		IsValid:       true,
		FieldStatuses: make(map[string]domain.ValidationStatus),
	}

	for _, v := range e.registry.All() {
		for _, res := range v.Validate(p) {
			report.Results = append(report.Results, res)
			report.Summary.Total++
			if res.Passed {
				report.Summary.Passed++
				if _, seen := report.FieldStatuses[res.FieldPath]; !seen {
					report.FieldStatuses[res.FieldPath] = domain.StatusValid
				}
				continue
			}

			report.Warnings = append(report.Warnings, res.Message)
			if v.Severity() == domain.SeverityError {
				report.Summary.Errors++
				report.IsValid = false
			} else {
				report.Summary.Warnings++
			}

			status := res.Status
			if status == "" {
				status = domain.StatusInvalid
			}
			// Hard failures win over earlier statuses for the same field.
			if prev, seen := report.FieldStatuses[res.FieldPath]; !seen || !prev.IsError() {
				report.FieldStatuses[res.FieldPath] = status
			}
		}
	}

	return report
}
