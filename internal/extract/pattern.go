package extract

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"pretenz/internal/domain"
	"pretenz/internal/port"
)

// Labeled-requisite patterns. Each list is tried in order per occurrence;
// claim headers list the defendant block before the plaintiff block, so
// occurrences map onto roles in document order.
var (
	innPatterns = []*regexp.Regexp{
		regexp.MustCompile(`ИНН\s*[:\s]*(\d{10,12})`),
		regexp.MustCompile(`инн\s+(\d{10,12})`),
	}
	kppPatterns = []*regexp.Regexp{
		regexp.MustCompile(`КПП\s*[:\s]*(\d{9})`),
		regexp.MustCompile(`кпп\s+(\d{9})`),
	}
	ogrnPatterns = []*regexp.Regexp{
		regexp.MustCompile(`ОГРН(?:ИП)?\s*[:\s]*(\d{13,15})`),
		regexp.MustCompile(`огрн\s+(\d{13,15})`),
	}
	addressPattern = regexp.MustCompile(`(\d{6},\s*[^,\n]+(?:,[^,\n]+){2,})`)

	legalNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:Обществу|Общество)\s+с\s+ограниченной\s+ответственностью\s*[«"]([^»"]+)[»"]`),
		regexp.MustCompile(`ООО\s*[«"]([^»"]+)[»"]`),
	}
	individualNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:ИП|Индивидуальный\s+предприниматель)\s+([А-ЯЁ][а-яё]+(?:\s+[А-ЯЁ][а-яё]+){1,2})`),
		regexp.MustCompile(`Индивидуальному\s+предпринимателю\s+([А-ЯЁ][а-яё]+(?:\s+[А-ЯЁ][а-яё]+){1,2})`),
	}

	debtPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Стоимость услуг по договор[^0-9]*составила\s*([0-9\s,]+)\s*рубл`),
		regexp.MustCompile(`(?i)размер задолженности[^0-9]*составляет\s*([0-9\s,]+)\s*рубл`),
		regexp.MustCompile(`(?i)задолженность[^0-9]*в размере\s*([0-9\s,]+)\s*рубл`),
	}
)

// PatternSource extracts labeled requisites straight from the document text.
// It is the first, cheapest source in the fallback chain and needs no
// network. It implements port.ExtractionSource.
type PatternSource struct{}

// NewPatternSource creates a pattern-based extraction source.
func NewPatternSource() *PatternSource {
	return &PatternSource{}
}

func (s *PatternSource) Extract(_ context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	fields := make(map[string]string)

	assignByRole(fields, domain.FieldINN, collectMatches(input.Text, innPatterns))
	assignByRole(fields, domain.FieldKPP, collectMatches(input.Text, kppPatterns))
	assignByRole(fields, domain.FieldOGRN, collectMatches(input.Text, ogrnPatterns))
	assignByRole(fields, domain.FieldAddress, collectMatches(input.Text, []*regexp.Regexp{addressPattern}))
	assignByRole(fields, domain.FieldName, collectNames(input.Text))

	if debt := extractDebt(input.Text); debt != "" {
		fields[domain.FieldDebt] = debt
	}

	confidences := make(map[string]float64, len(fields))
	for k := range fields {
		confidences[k] = 1.0
	}

	return &port.ExtractOutput{
		Fields:      fields,
		Confidences: confidences,
		ModelUsed:   "pattern",
	}, nil
}

// FirstINN returns the first labeled INN capture in the text, or "".
func FirstINN(text string) string { return firstCapture(text, innPatterns) }

// FirstKPP returns the first labeled KPP capture in the text, or "".
func FirstKPP(text string) string { return firstCapture(text, kppPatterns) }

// FirstOGRN returns the first labeled OGRN/OGRNIP capture in the text, or "".
func FirstOGRN(text string) string { return firstCapture(text, ogrnPatterns) }

func firstCapture(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

type match struct {
	pos   int
	value string
}

// collectMatches returns every capture of the given patterns, ordered by
// position in the text, with duplicates removed.
func collectMatches(text string, patterns []*regexp.Regexp) []match {
	var matches []match
	seen := make(map[string]bool)
	for _, re := range patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			value := strings.TrimSpace(text[loc[2]:loc[3]])
			if value == "" || seen[value] {
				continue
			}
			seen[value] = true
			matches = append(matches, match{pos: loc[0], value: value})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	return matches
}

// collectNames gathers organization and entrepreneur names in document order,
// rebuilding the canonical display form from the captured segment.
func collectNames(text string) []match {
	var matches []match
	seen := make(map[string]bool)

	for _, re := range legalNamePatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			name := "ООО «" + strings.TrimSpace(text[loc[2]:loc[3]]) + "»"
			if seen[name] {
				continue
			}
			seen[name] = true
			matches = append(matches, match{pos: loc[0], value: name})
		}
	}
	for _, re := range individualNamePatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			name := "ИП " + strings.TrimSpace(text[loc[2]:loc[3]])
			if seen[name] {
				continue
			}
			seen[name] = true
			matches = append(matches, match{pos: loc[0], value: name})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	return matches
}

// assignByRole hands the nth occurrence to the nth role in document order.
// A single occurrence goes to the defendant; the contextual pass resolves
// ownership when the header layout says otherwise.
func assignByRole(fields map[string]string, suffix string, matches []match) {
	roles := domain.Roles()
	for i, m := range matches {
		if i >= len(roles) {
			break
		}
		fields[roles[i].Key(suffix)] = m.value
	}
}

// extractDebt finds the claimed amount and normalizes it to a whole-ruble
// figure with space-separated thousands, e.g. "150 000".
func extractDebt(text string) string {
	for _, re := range debtPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "")
		raw = strings.ReplaceAll(raw, ",", ".")
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return formatAmount(amount)
	}
	return ""
}

func formatAmount(amount float64) string {
	digits := strconv.FormatInt(int64(math.Round(amount)), 10)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ")
	if neg {
		out = "-" + out
	}
	return out
}
