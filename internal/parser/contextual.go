package parser

import (
	"regexp"
	"strings"

	"pretenz/internal/domain"
	"pretenz/internal/extract"
)

var (
	headerMarkerRe = regexp.MustCompile(`(?i)(ТРЕБОВАНИЕ|ПРЕТЕНЗИЯ)`)
	postalLineRe   = regexp.MustCompile(`^\d{6}`)
)

// levelContextual resolves field ownership from the document header. Claim
// headers address the defendant in the dative ("Обществу ...") and introduce
// the plaintiff with "от ...", so section markers decide which party a line's
// requisites belong to. Only fields the direct pass left unset are touched;
// contextual candidates carry confidence 0.9.
func (c *Coordinator) levelContextual(text string, candidates map[string]domain.FieldCandidate, result *domain.ParsingResult) {
	loc := headerMarkerRe.FindStringIndex(text)
	if loc == nil {
		result.AddWarning("claim header marker (ТРЕБОВАНИЕ/ПРЕТЕНЗИЯ) not found")
		return
	}

	var role domain.PartyRole
	haveRole := false
	for _, line := range strings.Split(text[:loc[0]], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Обществу"),
			strings.HasPrefix(line, "Индивидуальному предпринимателю"):
			role, haveRole = domain.RoleDefendant, true
		case strings.HasPrefix(line, "от"):
			role, haveRole = domain.RolePlaintiff, true
		}
		if !haveRole {
			continue
		}

		c.extractFromLine(role, line, candidates)
	}
}

func (c *Coordinator) extractFromLine(role domain.PartyRole, line string, candidates map[string]domain.FieldCandidate) {
	set := func(suffix, value string) {
		if value == "" {
			return
		}
		key := role.Key(suffix)
		if _, ok := candidates[key]; ok {
			return
		}
		candidates[key] = domain.FieldCandidate{
			Field:      key,
			Value:      value,
			Confidence: 0.9,
			Source:     domain.SourceContextual,
		}
	}

	set(domain.FieldINN, extract.FirstINN(line))
	set(domain.FieldKPP, extract.FirstKPP(line))
	set(domain.FieldOGRN, extract.FirstOGRN(line))

	// A line opening with a postal code and carrying no requisite labels is
	// the party's address.
	if postalLineRe.MatchString(line) &&
		!strings.Contains(line, "ИНН") && !strings.Contains(line, "КПП") && !strings.Contains(line, "ОГРН") {
		set(domain.FieldAddress, line)
	}
}
