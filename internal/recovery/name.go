package recovery

import (
	"regexp"
	"strings"
	"unicode"

	"pretenz/internal/domain"
)

var (
	straightQuotesRe = regexp.MustCompile(`"([^"]+)"`)
	legalShortRe     = regexp.MustCompile(`(?i)(ООО|ЗАО|ПАО|ОАО|АО)\s*[«"]([^»"]+)[»"]`)
	individualLeadRe = regexp.MustCompile(`(?i)^(ИП|И\.П\.|И\. П\.|Индивидуальный предприниматель)\s*`)
)

// Checked in order; the short acronyms stay out of this list on purpose,
// they are matched by legalShortRe together with the quoted name segment.
var legalFormReplacements = []struct {
	full  string
	short string
}{
	{"Общество с ограниченной ответственностью", "ООО"},
	{"Закрытое акционерное общество", "ЗАО"},
	{"Публичное акционерное общество", "ПАО"},
	{"Открытое акционерное общество", "ОАО"},
	{"Акционерное общество", "АО"},
}

// FormatName normalizes a party name for its entity class. Legal entity
// names get straight double quotes converted to guillemets; individual names
// get the spelled-out "Индивидуальный предприниматель" lead collapsed to ИП.
func FormatName(name string, class domain.EntityClass) string {
	name = strings.TrimSpace(name)

	switch class {
	case domain.ClassIndividual:
		lower := strings.ToLower(name)
		const spelled = "индивидуальный предприниматель"
		if strings.HasPrefix(lower, spelled) {
			name = "ИП" + name[len(spelled):]
		}
		return strings.TrimSpace(name)
	case domain.ClassLegalEntity:
		return straightQuotesRe.ReplaceAllString(name, "«$1»")
	}
	return name
}

// ShortName derives the display short form of a name. Legal entities render
// as the abbreviated legal form with the distinguishing segment in
// guillemets; individuals render as surname plus initials. The second return
// is true when an individual name had too few tokens for initials and the
// full name was used instead.
func ShortName(name string, class domain.EntityClass) (string, bool) {
	switch class {
	case domain.ClassIndividual:
		return individualShortName(name)
	case domain.ClassLegalEntity:
		return legalShortName(name), false
	}
	return name, false
}

func individualShortName(name string) (string, bool) {
	bare := strings.TrimSpace(individualLeadRe.ReplaceAllString(name, ""))
	parts := strings.Fields(bare)
	if len(parts) < 2 {
		return bare, true
	}

	// Surname plus at most two initials: "Иванов И.И."
	initials := parts[1:]
	if len(initials) > 2 {
		initials = initials[:2]
	}
	var b strings.Builder
	b.WriteString(parts[0])
	b.WriteByte(' ')
	for _, p := range initials {
		b.WriteRune(unicode.ToUpper([]rune(p)[0]))
		b.WriteByte('.')
	}
	return b.String(), false
}

func isIndividualName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, prefix := range []string{"ип ", "и.п. ", "и. п. "} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.Contains(lower, "индивидуальный предприниматель")
}

func isLegalEntityName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, marker := range []string{"ооо ", "ооо«", "зао ", "пао ", "оао ", "ао "} {
		if strings.HasPrefix(lower, marker) {
			return true
		}
	}
	for _, r := range legalFormReplacements {
		if strings.Contains(lower, strings.ToLower(r.full)) {
			return true
		}
	}
	return false
}

func legalShortName(name string) string {
	if m := legalShortRe.FindStringSubmatch(name); m != nil {
		return strings.ToUpper(m[1]) + " «" + m[2] + "»"
	}

	for _, r := range legalFormReplacements {
		if !strings.Contains(name, r.full) {
			continue
		}
		rest := strings.TrimSpace(strings.Replace(name, r.full, "", 1))
		if !strings.Contains(rest, "«") {
			rest = "«" + rest + "»"
		}
		return r.short + " " + rest
	}
	return name
}
