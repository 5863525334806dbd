package recovery_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pretenz/internal/domain"
	"pretenz/internal/recovery"
	"pretenz/internal/validator"
	"pretenz/internal/validator/entity"
)

func newEngine() *recovery.Engine {
	v := validator.NewEngine(entity.NewRegistry())
	return recovery.NewEngine(v, recovery.DefaultPolicy())
}

func TestDetermineEntityClass(t *testing.T) {
	e := newEngine()

	cases := []struct {
		name  string
		inn   string
		ogrn  string
		pname string
		want  domain.EntityClass
	}{
		{"inn_legal_entity", "7736207543", "", "", domain.ClassLegalEntity},
		{"inn_individual", "526317984689", "", "", domain.ClassIndividual},
		{"ogrn_fallback", "", "1027700229193", "", domain.ClassLegalEntity},
		{"inn_beats_ogrn", "7736207543", "304500116000157", "", domain.ClassLegalEntity},
		{"name_marker_ip", "", "", "ИП Иванов Иван Иванович", domain.ClassIndividual},
		{"name_marker_spelled_out", "", "", "Индивидуальный предприниматель Иванов И.И.", domain.ClassIndividual},
		{"name_marker_ooo", "", "", "ООО «Ромашка»", domain.ClassLegalEntity},
		{"name_marker_full_form", "", "", "Общество с ограниченной ответственностью «Ромашка»", domain.ClassLegalEntity},
		{"nothing", "", "", "Ромашка", domain.ClassUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.DetermineEntityClass(tc.inn, tc.ogrn, tc.pname))
		})
	}
}

func TestDetermineEntityClass_OGRNPrecedence(t *testing.T) {
	v := validator.NewEngine(entity.NewRegistry())
	e := recovery.NewEngine(v, recovery.Policy{ClassPrecedence: recovery.PreferOGRN})

	got := e.DetermineEntityClass("7736207543", "304500116000157", "")
	assert.Equal(t, domain.ClassIndividual, got)
}

func TestRecoverMissingFields_DropsKPPForIndividual(t *testing.T) {
	out := newEngine().RecoverMissingFields(domain.Party{
		Name: "ИП Иванов Иван Иванович",
		INN:  "526317984689",
		KPP:  "770901001",
	})

	assert.Empty(t, out.Party.KPP)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "KPP")
	assert.Equal(t, domain.ClassIndividual, out.Party.Class)
	assert.Equal(t, 1.0, out.Confidence)
}

func TestRecoverMissingFields_WarnsMissingKPPForLegalEntity(t *testing.T) {
	out := newEngine().RecoverMissingFields(domain.Party{
		Name: "ООО «Ромашка»",
		INN:  "7736207543",
	})

	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "mandatory")
	assert.InDelta(t, 0.7, out.Confidence, 1e-9)
}

func TestRecoverMissingFields_DerivesShortNameAndRegion(t *testing.T) {
	out := newEngine().RecoverMissingFields(domain.Party{
		Name:    `Общество с ограниченной ответственностью "Ромашка"`,
		INN:     "7736207543",
		KPP:     "770901001",
		Address: "123456, Московская область, г. Подольск, ул. Ленина, д. 1",
	})

	assert.Equal(t, "Общество с ограниченной ответственностью «Ромашка»", out.Party.Name)
	assert.Equal(t, "ООО «Ромашка»", out.Party.NameShort)
	assert.Equal(t, "Московская область", out.Party.Region)
	assert.ElementsMatch(t, []string{"name", "name_short", "region"}, out.Recovered)
}

func TestRecoverMissingFields_Idempotent(t *testing.T) {
	e := newEngine()

	inputs := []domain.Party{
		{Name: "ООО «Ромашка»", INN: "7736207543", KPP: "770901001",
			Address: "г. Москва, ул. Тверская, д. 1"},
		{Name: `Общество с ограниченной ответственностью "Ромашка"`, INN: "7736207543"},
		{Name: "ИП Иванов Иван Иванович", INN: "526317984689", KPP: "770901001"},
		{Name: "ИП Иванов", INN: "526317984689"},
		{Name: "Ромашка"},
	}

	for _, p := range inputs {
		once := e.RecoverMissingFields(p)
		twice := e.RecoverMissingFields(once.Party)
		assert.Equal(t, once.Party, twice.Party, "fields must reach a fixed point: %+v", p)
		assert.LessOrEqual(t, len(twice.Warnings), len(once.Warnings))
	}
}

func TestRecoverMissingFields_StableInputUnchanged(t *testing.T) {
	// An already normalized party passes through untouched, with the same
	// warnings on every run.
	p := domain.Party{
		Name:      "ООО «Ромашка»",
		NameShort: "ООО «Ромашка»",
		INN:       "7736207543",
		Region:    "Москва",
		Address:   "г. Москва, ул. Тверская, д. 1",
	}
	e := newEngine()

	once := e.RecoverMissingFields(p)
	twice := e.RecoverMissingFields(once.Party)

	assert.Empty(t, once.Recovered)
	assert.Equal(t, once.Party, twice.Party)
	assert.Equal(t, len(once.Warnings), len(twice.Warnings))
}

func TestValidateAndRecover_MissingKPPInvalidatesLegalEntity(t *testing.T) {
	out := newEngine().ValidateAndRecover(domain.Party{
		Name: "ООО «Ромашка»",
		INN:  "7736207543",
		OGRN: "1027700229193",
	})

	assert.False(t, out.IsValid)
	assert.Equal(t, domain.ClassLegalEntity, out.Class)
	assert.Contains(t, strings.Join(out.Warnings, "\n"), "mandatory")
}

func TestValidateAndRecover_ClassMismatchWarnsBothClasses(t *testing.T) {
	out := newEngine().ValidateAndRecover(domain.Party{
		Name: "ООО «Ромашка»",
		INN:  "7736207543",
		KPP:  "770901001",
		OGRN: "304500116000157",
	})

	assert.False(t, out.IsValid)
	all := strings.Join(out.Warnings, "\n")
	assert.Contains(t, all, string(domain.ClassLegalEntity))
	assert.Contains(t, all, string(domain.ClassIndividual))
}

func TestValidateAndRecover_ValidIndividual(t *testing.T) {
	out := newEngine().ValidateAndRecover(domain.Party{
		Name: "ИП Иванов Иван Иванович",
		INN:  "526317984689",
		OGRN: "304500116000157",
	})

	assert.True(t, out.IsValid)
	assert.Equal(t, domain.ClassIndividual, out.Class)
	assert.Equal(t, "Иванов И.И.", out.Party.NameShort)
	assert.Empty(t, out.Warnings)
}
