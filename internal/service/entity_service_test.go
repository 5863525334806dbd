package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pretenz/internal/domain"
	"pretenz/internal/recovery"
	"pretenz/internal/service"
	"pretenz/internal/validator"
	"pretenz/internal/validator/entity"
)

func newEntityService() service.EntityService {
	v := validator.NewEngine(entity.NewRegistry())
	return service.NewEntityService(recovery.NewEngine(v, recovery.DefaultPolicy()))
}

func TestEntityService_ValidLegalEntity(t *testing.T) {
	out := newEntityService().Validate(service.ValidateEntityInput{
		Name: "Общество с ограниченной ответственностью «Вектор»",
		INN:  "7736207543",
		KPP:  "770901001",
		OGRN: "1027700229193",
	})

	assert.True(t, out.IsValid)
	assert.Equal(t, domain.ClassLegalEntity, out.Class)
	assert.Equal(t, "ООО «Вектор»", out.Party.NameShort)
	assert.Empty(t, out.Warnings)
	assert.NotEmpty(t, out.Rules)
}

func TestEntityService_IndividualKPPDropped(t *testing.T) {
	out := newEntityService().Validate(service.ValidateEntityInput{
		Name: "ИП Иванов Иван Иванович",
		INN:  "526317984689",
		KPP:  "770901001",
	})

	assert.True(t, out.IsValid)
	assert.Equal(t, domain.ClassIndividual, out.Class)
	assert.Empty(t, out.Party.KPP)
	assert.NotEmpty(t, out.Warnings)
}

func TestEntityService_MissingKPPInvalid(t *testing.T) {
	out := newEntityService().Validate(service.ValidateEntityInput{
		Name: "ООО «Вектор»",
		INN:  "7736207543",
	})

	assert.False(t, out.IsValid)
	assert.InDelta(t, 0.7, out.Confidence, 1e-9)
}
