package validator

import (
	"pretenz/internal/domain"
)

// Result is the outcome of running one rule against one field.
type Result struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
	Status        domain.ValidationStatus
}

// Validator is the interface for a single built-in validation rule over a
// party snapshot. Rules are pure: they never mutate the party.
type Validator interface {
	Validate(p *domain.Party) []Result
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
}
