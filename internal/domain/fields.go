package domain

// PartyRole names the two sides of a claim document. Field keys are built as
// "<role>_<suffix>" and are shared verbatim with the template-rendering
// collaborator, which binds them by name. Never rename them.
type PartyRole string

const (
	RolePlaintiff PartyRole = "plaintiff"
	RoleDefendant PartyRole = "defendant"
)

// Field key suffixes for party-scoped fields.
const (
	FieldINN         = "inn"
	FieldKPP         = "kpp"
	FieldOGRN        = "ogrn"
	FieldName        = "name"
	FieldNameShort   = "name_short"
	FieldAddress     = "address"
	FieldRegion      = "region"
	FieldEntityClass = "entity_type"
)

// Document-scoped field keys.
const (
	FieldDebt = "debt"
)

// Key builds the stable field-map key for a party-scoped field,
// e.g. Key(RolePlaintiff, FieldINN) == "plaintiff_inn".
func (r PartyRole) Key(suffix string) string {
	return string(r) + "_" + suffix
}

// Roles lists both party roles in document order.
func Roles() []PartyRole {
	return []PartyRole{RoleDefendant, RolePlaintiff}
}

// RequiredFields are the keys a completed parse must carry; absence of any
// of them is reported as an error, not a warning.
func RequiredFields() []string {
	return []string{
		RoleDefendant.Key(FieldINN),
		RoleDefendant.Key(FieldName),
		RolePlaintiff.Key(FieldINN),
		RolePlaintiff.Key(FieldName),
	}
}
