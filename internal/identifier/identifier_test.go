package identifier_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pretenz/internal/domain"
	"pretenz/internal/identifier"
)

func TestValidateINN_LegalEntity(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out := identifier.ValidateINN("7736207543")
		assert.Equal(t, domain.StatusValid, out.Status)
		assert.Equal(t, domain.ClassLegalEntity, out.Class)
		assert.Equal(t, "7736207543", out.Value)
	})

	t.Run("bad_checksum", func(t *testing.T) {
		out := identifier.ValidateINN("7736207544")
		assert.Equal(t, domain.StatusInvalidChecksum, out.Status)
		assert.Equal(t, domain.ClassLegalEntity, out.Class)
		assert.NotEmpty(t, out.Message)
	})

	t.Run("whitespace_cleaned", func(t *testing.T) {
		out := identifier.ValidateINN(" 7736 207543 ")
		assert.Equal(t, domain.StatusValid, out.Status)
		assert.Equal(t, "7736207543", out.Value)
	})
}

func TestValidateINN_Individual(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out := identifier.ValidateINN("526317984689")
		assert.Equal(t, domain.StatusValid, out.Status)
		assert.Equal(t, domain.ClassIndividual, out.Class)
	})

	t.Run("first_check_digit_wrong", func(t *testing.T) {
		out := identifier.ValidateINN("526317984679")
		assert.Equal(t, domain.StatusInvalidChecksum, out.Status)
	})

	t.Run("second_check_digit_wrong", func(t *testing.T) {
		out := identifier.ValidateINN("526317984688")
		assert.Equal(t, domain.StatusInvalidChecksum, out.Status)
	})
}

func TestValidateINN_Format(t *testing.T) {
	cases := []struct {
		name string
		inn  string
	}{
		{"too_short", "123456789"},
		{"eleven_digits", "12345678901"},
		{"too_long", "1234567890123"},
		{"letters_only", "abcdefghij"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := identifier.ValidateINN(tc.inn)
			assert.Equal(t, domain.StatusInvalidFormat, out.Status)
			assert.Equal(t, domain.ClassUnknown, out.Class)
		})
	}

	t.Run("not_provided", func(t *testing.T) {
		out := identifier.ValidateINN("")
		assert.Equal(t, domain.StatusNotProvided, out.Status)
	})
}

// The 10-digit check digit is sum(d[i]*w[i]) % 11 % 10 over the first nine
// digits. Sweep every possible final digit for a fixed body: exactly one
// must validate.
func TestValidateINN_ChecksumExhaustive(t *testing.T) {
	bodies := []string{"773620754", "526317984", "000000000", "999999999", "123456789"}
	weights := []int{2, 4, 10, 3, 5, 9, 4, 6, 8}

	for _, body := range bodies {
		body := body
		t.Run(body, func(t *testing.T) {
			sum := 0
			for i, w := range weights {
				sum += int(body[i]-'0') * w
			}
			want := sum % 11 % 10

			validCount := 0
			for d := 0; d <= 9; d++ {
				out := identifier.ValidateINN(fmt.Sprintf("%s%d", body, d))
				if d == want {
					assert.Equal(t, domain.StatusValid, out.Status)
					validCount++
				} else {
					assert.Equal(t, domain.StatusInvalidChecksum, out.Status)
				}
			}
			require.Equal(t, 1, validCount)
		})
	}
}

func TestValidateOGRN(t *testing.T) {
	t.Run("valid_legal_entity", func(t *testing.T) {
		out := identifier.ValidateOGRN("1027700229193", domain.ClassUnknown)
		assert.Equal(t, domain.StatusValid, out.Status)
		assert.Equal(t, domain.ClassLegalEntity, out.Class)
		assert.Equal(t, "ogrn", out.Field)
	})

	t.Run("valid_individual", func(t *testing.T) {
		out := identifier.ValidateOGRN("304500116000157", domain.ClassUnknown)
		assert.Equal(t, domain.StatusValid, out.Status)
		assert.Equal(t, domain.ClassIndividual, out.Class)
		assert.Equal(t, "ogrnip", out.Field)
	})

	t.Run("bad_check_digit_13", func(t *testing.T) {
		out := identifier.ValidateOGRN("1027700229194", domain.ClassUnknown)
		assert.Equal(t, domain.StatusInvalidChecksum, out.Status)
	})

	t.Run("bad_check_digit_15", func(t *testing.T) {
		out := identifier.ValidateOGRN("304500116000158", domain.ClassUnknown)
		assert.Equal(t, domain.StatusInvalidChecksum, out.Status)
	})

	t.Run("class_mismatch", func(t *testing.T) {
		out := identifier.ValidateOGRN("304500116000157", domain.ClassLegalEntity)
		assert.Equal(t, domain.StatusInvalid, out.Status)
		assert.Equal(t, domain.ClassIndividual, out.Class)
	})

	t.Run("wrong_length", func(t *testing.T) {
		out := identifier.ValidateOGRN("12345678901234", domain.ClassUnknown)
		assert.Equal(t, domain.StatusInvalidFormat, out.Status)
	})

	t.Run("not_provided", func(t *testing.T) {
		out := identifier.ValidateOGRN("", domain.ClassLegalEntity)
		assert.Equal(t, domain.StatusNotProvided, out.Status)
	})
}

func TestValidateKPP(t *testing.T) {
	t.Run("valid_for_legal_entity", func(t *testing.T) {
		out := identifier.ValidateKPP("770901001", domain.ClassLegalEntity)
		assert.Equal(t, domain.StatusValid, out.Status)
		assert.Equal(t, "770901001", out.Value)
	})

	t.Run("missing_for_legal_entity", func(t *testing.T) {
		out := identifier.ValidateKPP("", domain.ClassLegalEntity)
		assert.Equal(t, domain.StatusNotProvided, out.Status)
		assert.Contains(t, out.Message, "mandatory")
	})

	t.Run("present_for_individual", func(t *testing.T) {
		out := identifier.ValidateKPP("770901001", domain.ClassIndividual)
		assert.Equal(t, domain.StatusInvalid, out.Status)
	})

	t.Run("absent_for_individual", func(t *testing.T) {
		out := identifier.ValidateKPP("", domain.ClassIndividual)
		assert.Equal(t, domain.StatusValid, out.Status)
	})

	t.Run("wrong_length", func(t *testing.T) {
		out := identifier.ValidateKPP("12345", domain.ClassLegalEntity)
		assert.Equal(t, domain.StatusInvalidFormat, out.Status)
	})
}

func TestInferEntityClass(t *testing.T) {
	cases := []struct {
		name string
		inn  string
		ogrn string
		want domain.EntityClass
	}{
		{"inn_10", "7736207543", "", domain.ClassLegalEntity},
		{"inn_12", "526317984689", "", domain.ClassIndividual},
		{"ogrn_13", "", "1027700229193", domain.ClassLegalEntity},
		{"ogrn_15", "", "304500116000157", domain.ClassIndividual},
		{"inn_wins_over_ogrn", "7736207543", "304500116000157", domain.ClassLegalEntity},
		{"bad_inn_falls_back_to_ogrn", "123", "1027700229193", domain.ClassLegalEntity},
		{"nothing", "", "", domain.ClassUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, identifier.InferEntityClass(tc.inn, tc.ogrn))
		})
	}
}
