package domain

// EntityClass is the party category inferred from identifier lengths.
// It is always derived, never stored independently of its source identifier.
type EntityClass string

const (
	ClassLegalEntity EntityClass = "legal_entity"
	ClassIndividual  EntityClass = "individual"
	ClassUnknown     EntityClass = "unknown"
)

// ValidationStatus is the outcome of validating a single identifier.
type ValidationStatus string

const (
	StatusValid           ValidationStatus = "valid"
	StatusInvalid         ValidationStatus = "invalid"
	StatusNotProvided     ValidationStatus = "not_provided"
	StatusInvalidFormat   ValidationStatus = "invalid_format"
	StatusInvalidChecksum ValidationStatus = "invalid_checksum"
)

// IsError reports whether the status represents a hard validation failure
// on a provided value. NOT_PROVIDED is never an error by itself.
func (s ValidationStatus) IsError() bool {
	return s == StatusInvalid || s == StatusInvalidFormat || s == StatusInvalidChecksum
}

// ValidationSeverity classifies how a failed rule affects overall validity.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationRuleType groups rules by what they check.
type ValidationRuleType string

const (
	RuleRequired   ValidationRuleType = "required"
	RuleFormat     ValidationRuleType = "format"
	RuleChecksum   ValidationRuleType = "checksum"
	RuleCrossField ValidationRuleType = "cross_field"
)

// SourceLevel records which extraction level produced a field value.
type SourceLevel string

const (
	SourceDirect     SourceLevel = "direct"
	SourceContextual SourceLevel = "contextual"
	SourceValidated  SourceLevel = "validated"
	SourceRecovered  SourceLevel = "recovered"
	SourceLegacy     SourceLevel = "legacy"
)

// ParseStatus is the lifecycle of a stored parse record.
type ParseStatus string

const (
	ParseStatusCompleted ParseStatus = "completed"
	ParseStatusInvalid   ParseStatus = "invalid"
)
