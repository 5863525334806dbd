// Package parser runs the multi-level extraction pipeline over claim
// documents and reconciles its output with the legacy pipeline's field map.
package parser

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pretenz/internal/domain"
	"pretenz/internal/identifier"
	"pretenz/internal/port"
	"pretenz/internal/recovery"
	"pretenz/internal/validator"
)

// Coordinator runs four ordered levels over one document: direct extraction,
// contextual refinement, validation, recovery. It holds no per-document
// state; one Coordinator can serve concurrent documents.
type Coordinator struct {
	source    port.ExtractionSource
	validator *validator.Engine
	recovery  *recovery.Engine
}

// NewCoordinator creates a Coordinator over an extraction source, a
// validation engine, and a recovery engine.
func NewCoordinator(source port.ExtractionSource, v *validator.Engine, rec *recovery.Engine) *Coordinator {
	return &Coordinator{source: source, validator: v, recovery: rec}
}

// Parse runs the four levels and folds the surviving candidates into a
// ParsingResult. The aggregate confidence is the mean of the per-field
// confidences; fields never produced are excluded, not counted as zero.
func (c *Coordinator) Parse(ctx context.Context, text string) (*domain.ParsingResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	result := domain.NewParsingResult()
	candidates := make(map[string]domain.FieldCandidate)

	if err := c.levelDirect(ctx, text, candidates); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	c.levelContextual(text, candidates, result)
	c.levelValidation(candidates, result)
	c.levelRecovery(candidates, result)
	c.finalCheck(candidates, result)

	var sum float64
	for key, cand := range candidates {
		result.Fields[key] = cand.Value
		result.Sources[key] = cand.Source
		result.Confidences[key] = cand.Confidence
		sum += cand.Confidence
	}
	if len(candidates) > 0 {
		result.Confidence = sum / float64(len(candidates))
	}

	log.Printf("parser.Coordinator: parse done, fields=%d confidence=%.2f warnings=%d errors=%d",
		len(result.Fields), result.Confidence, len(result.Warnings), len(result.Errors))
	return result, nil
}

// levelDirect ingests candidates verbatim from the extraction source.
// Confidence is the source's own score, defaulting to 1.0.
func (c *Coordinator) levelDirect(ctx context.Context, text string, candidates map[string]domain.FieldCandidate) error {
	out, err := c.source.Extract(ctx, port.ExtractInput{Text: text})
	if err != nil {
		return err
	}
	for key, value := range out.Fields {
		if strings.TrimSpace(value) == "" {
			continue
		}
		conf := 1.0
		if v, ok := out.Confidences[key]; ok && v > 0 && v <= 1 {
			conf = v
		}
		candidates[key] = domain.FieldCandidate{
			Field:      key,
			Value:      value,
			Confidence: conf,
			Source:     domain.SourceDirect,
		}
	}
	log.Printf("parser.Coordinator: level 1 (direct) extracted %d fields via %s", len(candidates), out.ModelUsed)
	return nil
}

// levelValidation runs the rule engine per party and downgrades candidates
// that failed. INVALID_FORMAT is the only status allowed to blank a field
// that was already set.
func (c *Coordinator) levelValidation(candidates map[string]domain.FieldCandidate, result *domain.ParsingResult) {
	for _, role := range domain.Roles() {
		if !hasRole(candidates, role) {
			continue
		}
		party := partyFromCandidates(role, candidates)
		if party.INN == "" {
			result.AddWarning(fmt.Sprintf("%s INN not found", role))
			continue
		}

		report := c.validator.ValidateParty(&party)
		for _, suffix := range []string{domain.FieldINN, domain.FieldKPP, domain.FieldOGRN} {
			status, ok := report.FieldStatuses[suffix]
			if !ok {
				continue
			}
			key := role.Key(suffix)
			result.Checks[key] = status

			cand, present := candidates[key]
			if !present {
				continue
			}
			if status == domain.StatusInvalidFormat {
				delete(candidates, key)
				result.AddWarning(fmt.Sprintf("%s %s has invalid format, value dropped", role, suffix))
				continue
			}
			if status.IsError() {
				cand.Confidence /= 2
				cand.Source = domain.SourceValidated
				candidates[key] = cand
			}
		}
		for _, w := range report.Warnings {
			result.AddWarning(fmt.Sprintf("%s: %s", role, w))
		}

		if class := identifier.InferEntityClass(party.INN, party.OGRN); class != domain.ClassUnknown {
			key := role.Key(domain.FieldEntityClass)
			if _, ok := candidates[key]; !ok {
				candidates[key] = domain.FieldCandidate{
					Field:      key,
					Value:      string(class),
					Confidence: candidates[role.Key(domain.FieldINN)].Confidence,
					Source:     domain.SourceValidated,
				}
			}
		}
	}
}

// levelRecovery fills fields still absent and normalizes display fields.
// Recovered fields carry the recovery confidence; normalizing an existing
// field keeps its confidence, since the derivation is deterministic.
func (c *Coordinator) levelRecovery(candidates map[string]domain.FieldCandidate, result *domain.ParsingResult) {
	for _, role := range domain.Roles() {
		if !hasRole(candidates, role) {
			continue
		}
		party := partyFromCandidates(role, candidates)
		rec := c.recovery.RecoverMissingFields(party)

		conf := rec.Confidence
		if conf < 0.7 {
			conf = 0.7
		}

		apply := func(suffix, value string, overwrite bool) {
			if value == "" {
				return
			}
			key := role.Key(suffix)
			if cur, ok := candidates[key]; ok {
				if !overwrite || cur.Value == value {
					return
				}
				candidates[key] = domain.FieldCandidate{
					Field:      key,
					Value:      value,
					Confidence: cur.Confidence,
					Source:     domain.SourceRecovered,
				}
				return
			}
			candidates[key] = domain.FieldCandidate{
				Field:      key,
				Value:      value,
				Confidence: conf,
				Source:     domain.SourceRecovered,
			}
		}

		apply(domain.FieldName, rec.Party.Name, true)
		apply(domain.FieldNameShort, rec.Party.NameShort, false)
		apply(domain.FieldRegion, rec.Party.Region, false)
		if rec.Party.Class != domain.ClassUnknown {
			apply(domain.FieldEntityClass, string(rec.Party.Class), false)
		}

		for _, w := range rec.Warnings {
			result.AddWarning(fmt.Sprintf("%s: %s", role, w))
		}
	}
}

// finalCheck reports structurally required fields that never materialized.
func (c *Coordinator) finalCheck(candidates map[string]domain.FieldCandidate, result *domain.ParsingResult) {
	var missing []string
	for _, key := range domain.RequiredFields() {
		if _, ok := candidates[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		result.AddError("missing required fields: " + strings.Join(missing, ", "))
	}
	if _, ok := candidates[domain.FieldDebt]; !ok {
		result.AddWarning("debt amount not found")
	}
}

func hasRole(candidates map[string]domain.FieldCandidate, role domain.PartyRole) bool {
	prefix := string(role) + "_"
	for key := range candidates {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func partyFromCandidates(role domain.PartyRole, candidates map[string]domain.FieldCandidate) domain.Party {
	get := func(suffix string) string {
		return candidates[role.Key(suffix)].Value
	}
	return domain.Party{
		Name:      get(domain.FieldName),
		NameShort: get(domain.FieldNameShort),
		INN:       get(domain.FieldINN),
		KPP:       get(domain.FieldKPP),
		OGRN:      get(domain.FieldOGRN),
		Address:   get(domain.FieldAddress),
		Region:    get(domain.FieldRegion),
		Class:     domain.EntityClass(get(domain.FieldEntityClass)),
	}
}
