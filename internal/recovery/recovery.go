// Package recovery fills derivable gaps in a partially extracted party and
// normalizes its display fields. It never invents tax or registration
// numbers: everything it produces is derived from fields already present.
package recovery

import (
	"fmt"
	"log"

	"pretenz/internal/domain"
	"pretenz/internal/identifier"
	"pretenz/internal/validator"
)

// ClassPrecedence selects which identifier wins when the INN and OGRN imply
// different entity classes.
type ClassPrecedence string

const (
	PreferINN  ClassPrecedence = "inn"
	PreferOGRN ClassPrecedence = "ogrn"
)

// Policy holds the tunable decisions of the recovery engine.
type Policy struct {
	ClassPrecedence ClassPrecedence
}

// DefaultPolicy prefers the INN-derived class, the more reliable signal.
func DefaultPolicy() Policy {
	return Policy{ClassPrecedence: PreferINN}
}

// Recovered is the output of one recovery pass over a party.
type Recovered struct {
	Party      domain.Party
	Recovered  []string
	Warnings   []string
	Confidence float64
}

// Outcome is the combined result of validation plus recovery.
type Outcome struct {
	IsValid    bool
	Class      domain.EntityClass
	Party      domain.Party
	Report     *validator.Report
	Warnings   []string
	Confidence float64
}

// Engine derives missing party fields and composes with the rule engine.
type Engine struct {
	validator *validator.Engine
	policy    Policy
}

// NewEngine creates a recovery engine over a validation engine.
func NewEngine(v *validator.Engine, policy Policy) *Engine {
	if policy.ClassPrecedence == "" {
		policy.ClassPrecedence = PreferINN
	}
	return &Engine{validator: v, policy: policy}
}

// DetermineEntityClass resolves the party's class from whatever is available,
// in policy order: the preferred identifier, then the other one, then name
// markers as a last resort.
func (e *Engine) DetermineEntityClass(inn, ogrn, name string) domain.EntityClass {
	first, second := inn, ""
	firstIsINN := true
	if e.policy.ClassPrecedence == PreferOGRN {
		first, firstIsINN = ogrn, false
	}

	if class := classFromIdentifier(first, firstIsINN); class != domain.ClassUnknown {
		return class
	}
	if e.policy.ClassPrecedence == PreferOGRN {
		second = inn
	} else {
		second = ogrn
	}
	if class := classFromIdentifier(second, !firstIsINN); class != domain.ClassUnknown {
		return class
	}

	if name != "" {
		if isIndividualName(name) {
			return domain.ClassIndividual
		}
		if isLegalEntityName(name) {
			return domain.ClassLegalEntity
		}
	}
	return domain.ClassUnknown
}

func classFromIdentifier(value string, isINN bool) domain.EntityClass {
	if value == "" {
		return domain.ClassUnknown
	}
	if isINN {
		return identifier.InferEntityClass(value, "")
	}
	return identifier.InferEntityClass("", value)
}

// RecoverMissingFields runs one recovery pass: resolve the entity class,
// reconcile the KPP against it, normalize the name, derive the short name,
// and extract a region from the address when none is set. Confidence starts
// at 1.0 and is reduced for each gap recovery could not close.
func (e *Engine) RecoverMissingFields(p domain.Party) Recovered {
	out := Recovered{Party: p, Confidence: 1.0}

	class := e.DetermineEntityClass(p.INN, p.OGRN, p.Name)
	out.Party.Class = class
	log.Printf("recovery.Engine: resolved entity class %s", class)

	switch class {
	case domain.ClassIndividual:
		if identifier.CleanDigits(p.KPP) != "" {
			out.Warnings = append(out.Warnings,
				"individual entrepreneurs are not assigned a KPP, dropping the field")
			out.Party.KPP = ""
			log.Printf("recovery.Engine: dropped KPP for individual")
		}
	case domain.ClassLegalEntity:
		if identifier.CleanDigits(p.KPP) == "" {
			out.Warnings = append(out.Warnings,
				"KPP is missing but mandatory for legal entities")
			out.Confidence *= 0.7
		}
	}

	if p.Name != "" {
		formatted := FormatName(p.Name, class)
		if formatted != p.Name {
			out.Party.Name = formatted
			out.Recovered = append(out.Recovered, "name")
			log.Printf("recovery.Engine: formatted name %q -> %q", p.Name, formatted)
		}

		short, fellBack := ShortName(formatted, class)
		if fellBack {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"could not derive a short name from %q, using the full name", formatted))
		}
		if short != p.NameShort {
			out.Party.NameShort = short
			out.Recovered = append(out.Recovered, "name_short")
		}
	}

	if p.Region == "" && p.Address != "" {
		if region := ExtractRegion(p.Address); region != "" {
			out.Party.Region = region
			out.Recovered = append(out.Recovered, "region")
		}
	}

	return out
}

// ValidateAndRecover is the composed entry point: validate every present
// identifier, then run recovery, and aggregate warnings from both passes in
// order. The result is valid iff no error-severity rule failed.
func (e *Engine) ValidateAndRecover(p domain.Party) Outcome {
	report := e.validator.ValidateParty(&p)
	rec := e.RecoverMissingFields(p)

	warnings := make([]string, 0, len(report.Warnings)+len(rec.Warnings))
	warnings = append(warnings, report.Warnings...)
	warnings = append(warnings, rec.Warnings...)

	log.Printf("recovery.Engine: validate and recover done, valid=%t, warnings=%d",
		report.IsValid, len(warnings))

	return Outcome{
		IsValid:    report.IsValid,
		Class:      rec.Party.Class,
		Party:      rec.Party,
		Report:     report,
		Warnings:   warnings,
		Confidence: rec.Confidence,
	}
}
