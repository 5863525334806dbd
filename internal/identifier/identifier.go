// Package identifier validates Russian legal-entity identifiers (INN, KPP,
// OGRN/OGRNIP) against the Federal Tax Service checksum algorithms and infers
// the entity class from identifier lengths. All functions are pure and never
// fail on malformed input: every path returns a typed Outcome.
package identifier

import (
	"fmt"
	"regexp"
	"strconv"

	"pretenz/internal/domain"
)

// Outcome is the result of validating a single identifier.
type Outcome struct {
	Field   string
	Status  domain.ValidationStatus
	Value   string
	Message string
	Class   domain.EntityClass
}

// IsValid reports whether the identifier passed validation.
func (o Outcome) IsValid() bool {
	return o.Status == domain.StatusValid
}

var nonDigitRe = regexp.MustCompile(`[^\d]`)

// CleanDigits strips everything except digits. Extracted values arrive with
// spaces, dashes and label remnants attached.
func CleanDigits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// Weight sets for the INN check digits.
var (
	innCoeffs10 = []int{2, 4, 10, 3, 5, 9, 4, 6, 8}
	innCoeffs11 = []int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
	innCoeffs12 = []int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
)

func weightedCheckDigit(digits string, coeffs []int) int {
	sum := 0
	for i, c := range coeffs {
		sum += int(digits[i]-'0') * c
	}
	return sum % 11 % 10
}

// ValidateINN validates a taxpayer identifier: 10 digits for a legal entity
// (one check digit), 12 for an individual (two check digits).
func ValidateINN(inn string) Outcome {
	if inn == "" {
		return Outcome{
			Field:   "inn",
			Status:  domain.StatusNotProvided,
			Message: "INN is not provided",
			Class:   domain.ClassUnknown,
		}
	}

	clean := CleanDigits(inn)
	var class domain.EntityClass
	switch len(clean) {
	case 10:
		class = domain.ClassLegalEntity
	case 12:
		class = domain.ClassIndividual
	default:
		return Outcome{
			Field:   "inn",
			Status:  domain.StatusInvalidFormat,
			Value:   inn,
			Message: fmt.Sprintf("INN must contain 10 or 12 digits (got %d)", len(clean)),
			Class:   domain.ClassUnknown,
		}
	}

	if !innChecksumOK(clean) {
		return Outcome{
			Field:   "inn",
			Status:  domain.StatusInvalidChecksum,
			Value:   clean,
			Message: "INN failed the checksum verification",
			Class:   class,
		}
	}

	return Outcome{Field: "inn", Status: domain.StatusValid, Value: clean, Class: class}
}

func innChecksumOK(inn string) bool {
	switch len(inn) {
	case 10:
		return weightedCheckDigit(inn, innCoeffs10) == int(inn[9]-'0')
	case 12:
		check1 := weightedCheckDigit(inn, innCoeffs11) == int(inn[10]-'0')
		check2 := weightedCheckDigit(inn, innCoeffs12) == int(inn[11]-'0')
		return check1 && check2
	}
	return false
}

// ValidateOGRN validates a registration number: 13 digits for a legal entity
// (OGRN, mod 11), 15 for an individual entrepreneur (OGRNIP, mod 13). When
// the caller already knows the entity class, a length mismatch against that
// class is reported as INVALID.
func ValidateOGRN(ogrn string, class domain.EntityClass) Outcome {
	if ogrn == "" {
		return Outcome{
			Field:   "ogrn",
			Status:  domain.StatusNotProvided,
			Message: "OGRN is not provided",
			Class:   domain.ClassUnknown,
		}
	}

	clean := CleanDigits(ogrn)
	var detected domain.EntityClass
	field := "ogrn"
	switch len(clean) {
	case 13:
		detected = domain.ClassLegalEntity
	case 15:
		detected = domain.ClassIndividual
		field = "ogrnip"
	default:
		return Outcome{
			Field:   "ogrn",
			Status:  domain.StatusInvalidFormat,
			Value:   ogrn,
			Message: fmt.Sprintf("OGRN must contain 13 digits, OGRNIP 15 digits (got %d)", len(clean)),
			Class:   domain.ClassUnknown,
		}
	}

	if class != "" && class != domain.ClassUnknown && class != detected {
		return Outcome{
			Field:   field,
			Status:  domain.StatusInvalid,
			Value:   clean,
			Message: fmt.Sprintf("%s implies %s but the party is %s", field, detected, class),
			Class:   detected,
		}
	}

	if !ogrnChecksumOK(clean) {
		return Outcome{
			Field:   field,
			Status:  domain.StatusInvalidChecksum,
			Value:   clean,
			Message: fmt.Sprintf("%s failed the check-digit verification", field),
			Class:   detected,
		}
	}

	return Outcome{Field: field, Status: domain.StatusValid, Value: clean, Class: detected}
}

func ogrnChecksumOK(ogrn string) bool {
	var body string
	var mod int64
	switch len(ogrn) {
	case 13:
		body, mod = ogrn[:12], 11
	case 15:
		body, mod = ogrn[:14], 13
	default:
		return false
	}
	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return false
	}
	check := int(ogrn[len(ogrn)-1] - '0')
	return int(n%mod%10) == check
}

// ValidateKPP validates the tax-registration reason code: 9 digits, required
// for legal entities and forbidden for individuals. Only the format is
// checked; KPP carries no checksum.
func ValidateKPP(kpp string, class domain.EntityClass) Outcome {
	if class == domain.ClassIndividual {
		if CleanDigits(kpp) != "" {
			return Outcome{
				Field:   "kpp",
				Status:  domain.StatusInvalid,
				Value:   kpp,
				Message: "individual entrepreneurs must not have a KPP",
			}
		}
		return Outcome{
			Field:   "kpp",
			Status:  domain.StatusValid,
			Message: "KPP is not required for individual entrepreneurs",
		}
	}

	if kpp == "" {
		msg := "KPP is not provided"
		if class == domain.ClassLegalEntity {
			msg = "KPP is mandatory for legal entities"
		}
		return Outcome{Field: "kpp", Status: domain.StatusNotProvided, Message: msg}
	}

	clean := CleanDigits(kpp)
	if len(clean) != 9 {
		return Outcome{
			Field:   "kpp",
			Status:  domain.StatusInvalidFormat,
			Value:   kpp,
			Message: fmt.Sprintf("KPP must contain 9 digits (got %d)", len(clean)),
		}
	}

	return Outcome{Field: "kpp", Status: domain.StatusValid, Value: clean}
}

// InferEntityClass derives the entity class from identifier lengths. INN
// takes priority over OGRN; callers decide how to reconcile a disagreement.
func InferEntityClass(inn, ogrn string) domain.EntityClass {
	switch len(CleanDigits(inn)) {
	case 10:
		return domain.ClassLegalEntity
	case 12:
		return domain.ClassIndividual
	}
	switch len(CleanDigits(ogrn)) {
	case 13:
		return domain.ClassLegalEntity
	case 15:
		return domain.ClassIndividual
	}
	return domain.ClassUnknown
}
