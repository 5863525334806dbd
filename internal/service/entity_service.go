package service

import (
	"pretenz/internal/domain"
	"pretenz/internal/recovery"
)

// ValidateEntityInput is the DTO for a standalone entity validation request.
type ValidateEntityInput struct {
	Name    string `json:"name"`
	INN     string `json:"inn"`
	KPP     string `json:"kpp"`
	OGRN    string `json:"ogrn"`
	Address string `json:"address"`
}

// RuleOutcome is one rule result in an entity validation response.
type RuleOutcome struct {
	Field   string `json:"field"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// EntityValidation is the response body for an entity validation request:
// the recovered party plus everything the rule engine found.
type EntityValidation struct {
	IsValid    bool                               `json:"is_valid"`
	Class      domain.EntityClass                 `json:"entity_class"`
	Party      domain.Party                       `json:"party"`
	Checks     map[string]domain.ValidationStatus `json:"checks"`
	Rules      []RuleOutcome                      `json:"rules"`
	Warnings   []string                           `json:"warnings"`
	Confidence float64                            `json:"confidence"`
}

// EntityService validates and repairs a single party outside of a document.
type EntityService interface {
	Validate(input ValidateEntityInput) EntityValidation
}

type entityService struct {
	recovery *recovery.Engine
}

// NewEntityService creates a new EntityService implementation.
func NewEntityService(rec *recovery.Engine) EntityService {
	return &entityService{recovery: rec}
}

func (s *entityService) Validate(input ValidateEntityInput) EntityValidation {
	outcome := s.recovery.ValidateAndRecover(domain.Party{
		Name:    input.Name,
		INN:     input.INN,
		KPP:     input.KPP,
		OGRN:    input.OGRN,
		Address: input.Address,
	})

	rules := make([]RuleOutcome, 0, len(outcome.Report.Results))
	for _, res := range outcome.Report.Results {
		rules = append(rules, RuleOutcome{
			Field:   res.FieldPath,
			Passed:  res.Passed,
			Message: res.Message,
		})
	}

	warnings := outcome.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return EntityValidation{
		IsValid:    outcome.IsValid,
		Class:      outcome.Class,
		Party:      outcome.Party,
		Checks:     outcome.Report.FieldStatuses,
		Rules:      rules,
		Warnings:   warnings,
		Confidence: outcome.Confidence,
	}
}
