package recovery

import (
	"regexp"
	"strings"
)

// Region patterns are tried in order; the first hit wins. Oblast and krai
// keep their qualifier in the result, republics keep only the proper name.
var regionPatterns = []struct {
	re        *regexp.Regexp
	nameGroup bool
}{
	{regexp.MustCompile(`([А-Я][а-я\-]+(?:\s+[А-Я][а-я\-]+)?)\s+област[ьи]`), false},
	{regexp.MustCompile(`([А-Я][а-я\-]+(?:\s+[А-Я][а-я\-]+)?)\s+кра[йя]`), false},
	{regexp.MustCompile(`Республика\s+([А-Я][а-я\-]+(?:\s+[А-Я][а-я\-]+)?)`), true},
	{regexp.MustCompile(`г\.\s*(Москва|Санкт-Петербург)`), false},
}

// ExtractRegion returns the first administrative-region token found in a
// free-text address, or "" when none is recognizable. Absence of a region is
// not an error, the field is optional metadata.
func ExtractRegion(address string) string {
	if address == "" {
		return ""
	}

	for _, p := range regionPatterns {
		m := p.re.FindStringSubmatch(address)
		if m == nil {
			continue
		}
		if p.nameGroup {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}

	// Keyword fallback for the two federal cities.
	if strings.Contains(address, "Москва") {
		return "Москва"
	}
	if strings.Contains(address, "Санкт-Петербург") || strings.Contains(address, "С-Петербург") {
		return "Санкт-Петербург"
	}
	return ""
}
