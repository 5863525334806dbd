package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pretenz/internal/domain"
	"pretenz/internal/parser"
	"pretenz/internal/port"
	"pretenz/internal/recovery"
	"pretenz/internal/service"
	"pretenz/internal/validator"
	"pretenz/internal/validator/entity"
	"pretenz/mocks"
)

const claimText = `Обществу с ограниченной ответственностью «Вектор»
ИНН 7736207543 КПП 770901001

от ИП Иванова
ИНН 526317984689

ПРЕТЕНЗИЯ

Стоимость услуг по договору составила 150 000 рублей.`

func newParseService(source port.ExtractionSource, repo port.ParseRecordRepository) service.ParseService {
	v := validator.NewEngine(entity.NewRegistry())
	rec := recovery.NewEngine(v, recovery.DefaultPolicy())
	coordinator := parser.NewCoordinator(source, v, rec)
	integrated := parser.NewIntegratedParser(nil, coordinator, parser.NewReconciler(0.6))
	return service.NewParseService(integrated, repo)
}

func fullSource() *mocks.MockExtractionSource {
	fields := map[string]string{
		"defendant_inn":  "7736207543",
		"defendant_kpp":  "770901001",
		"defendant_name": "ООО «Вектор»",
		"plaintiff_inn":  "526317984689",
		"plaintiff_name": "ИП Иванов Иван Иванович",
		"debt":           "150 000",
	}
	confidences := make(map[string]float64, len(fields))
	for k := range fields {
		confidences[k] = 1.0
	}
	source := &mocks.MockExtractionSource{}
	source.On("Extract", mock.Anything, mock.Anything).
		Return(&port.ExtractOutput{Fields: fields, Confidences: confidences}, nil)
	return source
}

func TestParseService_PersistsCompletedRecord(t *testing.T) {
	repo := &mocks.MockParseRecordRepository{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ParseRecord")).Return(nil)

	svc := newParseService(fullSource(), repo)
	record, err := svc.Parse(context.Background(), claimText)
	require.NoError(t, err)

	assert.Equal(t, domain.ParseStatusCompleted, record.Status)
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Greater(t, record.Confidence, 0.9)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(record.Fields, &fields))
	assert.Equal(t, "7736207543", fields["defendant_inn"])
	assert.Equal(t, "Иванов И.И.", fields["plaintiff_name_short"])

	assert.Equal(t, json.RawMessage("[]"), record.Errors)
	repo.AssertExpectations(t)
}

func TestParseService_InvalidStatusOnMissingRequired(t *testing.T) {
	source := &mocks.MockExtractionSource{}
	source.On("Extract", mock.Anything, mock.Anything).
		Return(&port.ExtractOutput{Fields: map[string]string{
			"defendant_inn":  "7736207543",
			"defendant_name": "ООО «Вектор»",
		}}, nil)

	repo := &mocks.MockParseRecordRepository{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ParseRecord")).Return(nil)

	svc := newParseService(source, repo)
	record, err := svc.Parse(context.Background(), "ПРЕТЕНЗИЯ")
	require.NoError(t, err)

	assert.Equal(t, domain.ParseStatusInvalid, record.Status)

	var errs []string
	require.NoError(t, json.Unmarshal(record.Errors, &errs))
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "plaintiff_inn")
}

func TestParseService_RepoErrorPropagates(t *testing.T) {
	repo := &mocks.MockParseRecordRepository{}
	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := newParseService(fullSource(), repo)
	_, err := svc.Parse(context.Background(), claimText)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestParseService_ListClampsLimit(t *testing.T) {
	repo := &mocks.MockParseRecordRepository{}
	repo.On("List", mock.Anything, 20, 0).Return([]domain.ParseRecord{}, nil)

	svc := newParseService(fullSource(), repo)
	_, err := svc.List(context.Background(), 0, -5)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
