package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pretenz/internal/domain"
	"pretenz/internal/parser"
	"pretenz/mocks"
)

func enhancedWith(field, value string, confidence float64) *domain.ParsingResult {
	r := domain.NewParsingResult()
	r.Fields[field] = value
	r.Confidences[field] = confidence
	r.Sources[field] = domain.SourceDirect
	return r
}

func TestReconciler_EnhancedWinsAboveThreshold(t *testing.T) {
	legacy := map[string]string{"defendant_name": "ООО Вектор"}
	enhanced := enhancedWith("defendant_name", "ООО «Вектор»", 0.9)

	merged := parser.NewReconciler(0.6).Merge(legacy, enhanced)

	assert.Equal(t, "ООО «Вектор»", merged.Fields["defendant_name"])
	assert.Equal(t, domain.SourceDirect, merged.Sources["defendant_name"])
}

func TestReconciler_LegacyWinsBelowThreshold(t *testing.T) {
	legacy := map[string]string{"defendant_name": "ООО Вектор"}
	enhanced := enhancedWith("defendant_name", "ООО «Вектор»", 0.3)

	merged := parser.NewReconciler(0.6).Merge(legacy, enhanced)

	assert.Equal(t, "ООО Вектор", merged.Fields["defendant_name"])
	assert.Equal(t, domain.SourceLegacy, merged.Sources["defendant_name"])
}

func TestReconciler_LegacyWinsWhenValidationFailed(t *testing.T) {
	legacy := map[string]string{"defendant_inn": "7736207543"}
	enhanced := enhancedWith("defendant_inn", "7736207544", 0.9)
	enhanced.Checks["defendant_inn"] = domain.StatusInvalidChecksum

	merged := parser.NewReconciler(0.6).Merge(legacy, enhanced)

	assert.Equal(t, "7736207543", merged.Fields["defendant_inn"])
}

func TestReconciler_SingleSourceFieldsKept(t *testing.T) {
	legacy := map[string]string{"postal_block": "РПО 12345678901234"}
	enhanced := enhancedWith("defendant_kpp", "770901001", 0.4)

	merged := parser.NewReconciler(0.6).Merge(legacy, enhanced)

	assert.Equal(t, "РПО 12345678901234", merged.Fields["postal_block"])
	// Nothing to fall back to, so the enhanced value stays despite the
	// low confidence.
	assert.Equal(t, "770901001", merged.Fields["defendant_kpp"])
}

func TestReconciler_MissingRequiredReportedOnce(t *testing.T) {
	merged := parser.NewReconciler(0.6).Merge(nil, domain.NewParsingResult())

	require.Len(t, merged.Errors, 1)
	for _, key := range domain.RequiredFields() {
		assert.Equal(t, 1, strings.Count(merged.Errors[0], key))
	}
}

func TestReconciler_LegacyFillsCoordinatorGap(t *testing.T) {
	// The coordinator flagged missing required fields, but the legacy map
	// supplies every one of them; the stale error must not survive the merge.
	enhanced := domain.NewParsingResult()
	enhanced.AddError("missing required fields: defendant_inn, defendant_name, plaintiff_inn, plaintiff_name")

	legacy := map[string]string{
		"defendant_inn":  "7736207543",
		"defendant_name": "ООО «Вектор»",
		"plaintiff_inn":  "526317984689",
		"plaintiff_name": "ИП Иванов Иван Иванович",
	}

	merged := parser.NewReconciler(0.6).Merge(legacy, enhanced)
	assert.Empty(t, merged.Errors)
}

func TestIntegratedParser_MergesBothPipelines(t *testing.T) {
	legacy := &mocks.MockLegacyParser{}
	legacy.On("Parse", mock.Anything, mock.Anything).Return(map[string]string{
		"postal_block":   "РПО 12345678901234",
		"defendant_name": "ООО Вектор",
	}, nil)

	source := sourceReturning(map[string]string{
		"defendant_inn":  "7736207543",
		"defendant_kpp":  "770901001",
		"defendant_name": "ООО «Вектор»",
		"plaintiff_inn":  "526317984689",
		"plaintiff_name": "ИП Иванов Иван Иванович",
	})

	p := parser.NewIntegratedParser(legacy, newCoordinator(source), parser.NewReconciler(0.6))
	result, err := p.Parse(context.Background(), claimText)
	require.NoError(t, err)

	assert.Equal(t, "РПО 12345678901234", result.Fields["postal_block"])
	assert.Equal(t, "ООО «Вектор»", result.Fields["defendant_name"])
	assert.Empty(t, result.Errors)
}

func TestIntegratedParser_LegacyOnlyWhenCoordinatorFails(t *testing.T) {
	legacy := &mocks.MockLegacyParser{}
	legacy.On("Parse", mock.Anything, mock.Anything).Return(map[string]string{
		"defendant_inn":  "7736207543",
		"defendant_name": "ООО Вектор",
		"plaintiff_inn":  "526317984689",
		"plaintiff_name": "ИП Иванов Иван Иванович",
	}, nil)

	source := &mocks.MockExtractionSource{}
	source.On("Extract", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	p := parser.NewIntegratedParser(legacy, newCoordinator(source), parser.NewReconciler(0.6))
	result, err := p.Parse(context.Background(), claimText)
	require.NoError(t, err)

	assert.Equal(t, "ООО Вектор", result.Fields["defendant_name"])
	assert.Empty(t, result.Errors)
}

func TestIntegratedParser_BothPipelinesFailed(t *testing.T) {
	legacy := &mocks.MockLegacyParser{}
	legacy.On("Parse", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	source := &mocks.MockExtractionSource{}
	source.On("Extract", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	p := parser.NewIntegratedParser(legacy, newCoordinator(source), parser.NewReconciler(0.6))
	_, err := p.Parse(context.Background(), claimText)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
