// Package entity provides the built-in validation rules for claim parties:
// required-field checks, identifier format and checksum checks, and
// cross-field consistency between independently inferred entity classes.
package entity

import (
	"fmt"

	"pretenz/internal/domain"
	"pretenz/internal/identifier"
	"pretenz/internal/validator"
)

// partyRule implements validator.Validator for a single rule over a Party.
type partyRule struct {
	ruleKey  string
	ruleName string
	ruleType domain.ValidationRuleType
	severity domain.ValidationSeverity
	validate func(*domain.Party) []validator.Result
}

func (r *partyRule) RuleKey() string                      { return r.ruleKey }
func (r *partyRule) RuleName() string                     { return r.ruleName }
func (r *partyRule) RuleType() domain.ValidationRuleType  { return r.ruleType }
func (r *partyRule) Severity() domain.ValidationSeverity  { return r.severity }
func (r *partyRule) Validate(p *domain.Party) []validator.Result {
	return r.validate(p)
}

func pass(field, msg string) []validator.Result {
	return []validator.Result{{Passed: true, FieldPath: field, Message: msg, Status: domain.StatusValid}}
}

func outcomeResult(field string, out identifier.Outcome) []validator.Result {
	return []validator.Result{{
		Passed:      out.IsValid(),
		FieldPath:   field,
		ActualValue: out.Value,
		Message:     out.Message,
		Status:      out.Status,
	}}
}

// RequiredRules returns the required-field rules.
func RequiredRules() []validator.Validator {
	return []validator.Validator{
		&partyRule{
			ruleKey: "req.party.inn", ruleName: "Required: INN",
			ruleType: domain.RuleRequired, severity: domain.SeverityError,
			validate: func(p *domain.Party) []validator.Result {
				if identifier.CleanDigits(p.INN) == "" {
					return []validator.Result{{
						Passed: false, FieldPath: "inn",
						ExpectedValue: "non-empty value",
						Message:       "Required: INN: INN is missing",
						Status:        domain.StatusNotProvided,
					}}
				}
				return pass("inn", "Required: INN: INN is present")
			},
		},
		&partyRule{
			ruleKey: "req.party.kpp", ruleName: "Required: KPP for Legal Entity",
			ruleType: domain.RuleRequired, severity: domain.SeverityError,
			validate: func(p *domain.Party) []validator.Result {
				class := identifier.InferEntityClass(p.INN, p.OGRN)
				if class == domain.ClassLegalEntity && identifier.CleanDigits(p.KPP) == "" {
					return []validator.Result{{
						Passed: false, FieldPath: "kpp",
						ExpectedValue: "9-digit KPP",
						Message:       "Required: KPP for Legal Entity: KPP is mandatory for legal entities",
						Status:        domain.StatusNotProvided,
					}}
				}
				return pass("kpp", "Required: KPP for Legal Entity: satisfied")
			},
		},
	}
}

// ChecksumRules returns the identifier checksum rules.
func ChecksumRules() []validator.Validator {
	return []validator.Validator{
		&partyRule{
			ruleKey: "chk.party.inn", ruleName: "Checksum: INN",
			ruleType: domain.RuleChecksum, severity: domain.SeverityError,
			validate: func(p *domain.Party) []validator.Result {
				if p.INN == "" {
					return pass("inn", "Checksum: INN: field is empty, skipping")
				}
				return outcomeResult("inn", identifier.ValidateINN(p.INN))
			},
		},
		&partyRule{
			ruleKey: "chk.party.ogrn", ruleName: "Checksum: OGRN",
			ruleType: domain.RuleChecksum, severity: domain.SeverityError,
			validate: func(p *domain.Party) []validator.Result {
				if p.OGRN == "" {
					return pass("ogrn", "Checksum: OGRN: field is empty, skipping")
				}
				// The class implied by the INN is the reference point, so a
				// registration number of the other class is rejected here and
				// additionally reported by the cross-field rule.
				innClass := identifier.InferEntityClass(p.INN, "")
				return outcomeResult("ogrn", identifier.ValidateOGRN(p.OGRN, innClass))
			},
		},
	}
}

// FormatRules returns the pure format rules.
func FormatRules() []validator.Validator {
	return []validator.Validator{
		&partyRule{
			ruleKey: "fmt.party.kpp", ruleName: "Format: KPP",
			ruleType: domain.RuleFormat, severity: domain.SeverityError,
			validate: func(p *domain.Party) []validator.Result {
				if p.KPP == "" {
					return pass("kpp", "Format: KPP: field is empty, skipping")
				}
				class := identifier.InferEntityClass(p.INN, p.OGRN)
				if class == domain.ClassIndividual {
					// Presence on an individual is a cross-field warning,
					// not a format error.
					return pass("kpp", "Format: KPP: individual, handled by cross-field rule")
				}
				return outcomeResult("kpp", identifier.ValidateKPP(p.KPP, class))
			},
		},
	}
}

// CrossFieldRules returns the consistency rules between identifiers.
func CrossFieldRules() []validator.Validator {
	return []validator.Validator{
		&partyRule{
			ruleKey: "xf.party.class_consistency", ruleName: "Cross-field: Entity Class Consistency",
			ruleType: domain.RuleCrossField, severity: domain.SeverityWarning,
			validate: func(p *domain.Party) []validator.Result {
				innClass := identifier.InferEntityClass(p.INN, "")
				ogrnClass := identifier.InferEntityClass("", p.OGRN)
				if innClass == domain.ClassUnknown || ogrnClass == domain.ClassUnknown {
					return pass("entity_class", "Cross-field: Entity Class Consistency: one class unknown, skipping")
				}
				if innClass == ogrnClass {
					return pass("entity_class", "Cross-field: Entity Class Consistency: identifiers agree")
				}
				return []validator.Result{{
					Passed:        false,
					FieldPath:     "entity_class",
					ExpectedValue: string(innClass),
					ActualValue:   string(ogrnClass),
					Message: fmt.Sprintf(
						"Cross-field: Entity Class Consistency: INN implies %s but OGRN implies %s",
						innClass, ogrnClass),
					Status: domain.StatusInvalid,
				}}
			},
		},
		&partyRule{
			ruleKey: "xf.party.kpp_individual", ruleName: "Cross-field: KPP on Individual",
			ruleType: domain.RuleCrossField, severity: domain.SeverityWarning,
			validate: func(p *domain.Party) []validator.Result {
				class := identifier.InferEntityClass(p.INN, p.OGRN)
				if class != domain.ClassIndividual || identifier.CleanDigits(p.KPP) == "" {
					return pass("kpp", "Cross-field: KPP on Individual: not applicable")
				}
				return []validator.Result{{
					Passed:      false,
					FieldPath:   "kpp",
					ActualValue: p.KPP,
					Message:     "Cross-field: KPP on Individual: individual entrepreneurs must not have a KPP",
					Status:      domain.StatusInvalid,
				}}
			},
		},
	}
}

// NewRegistry builds a registry with every built-in party rule registered in
// report order: required, checksum, format, cross-field.
func NewRegistry() *validator.Registry {
	reg := validator.NewRegistry()
	for _, r := range RequiredRules() {
		reg.Register(r)
	}
	for _, r := range ChecksumRules() {
		reg.Register(r)
	}
	for _, r := range FormatRules() {
		reg.Register(r)
	}
	for _, r := range CrossFieldRules() {
		reg.Register(r)
	}
	return reg
}
