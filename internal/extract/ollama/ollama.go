// Package ollama implements field extraction through a local Ollama instance
// running an instruction-tuned model. The model is asked for strict JSON; its
// answer is still treated as untrusted and sanitized field by field.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"pretenz/internal/config"
	"pretenz/internal/domain"
	"pretenz/internal/extract"
	"pretenz/internal/port"
)

const generatePath = "/api/generate"

func init() {
	extract.RegisterProvider("ollama", func(cfg *config.ExtractProviderConfig) (port.ExtractionSource, error) {
		return NewSource(cfg), nil
	})
}

// Source implements port.ExtractionSource using the Ollama generate API.
type Source struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewSource creates an Ollama-based extraction source from a provider config.
func NewSource(cfg *config.ExtractProviderConfig) *Source {
	model := cfg.Model
	if model == "" {
		model = "qwen2.5:7b-instruct"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Source{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (s *Source) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	reqBody := generateRequest{
		Model:  s.model,
		Prompt: buildPrompt(input.Text),
		Stream: false,
		Format: "json",
		Options: map[string]any{
			"temperature": 0,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+generatePath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extract.NewRateLimitError("ollama", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	fields, err := parseAnswer(gen.Response)
	if err != nil {
		return nil, err
	}

	confidences := make(map[string]float64, len(fields))
	for k := range fields {
		confidences[k] = 1.0
	}

	return &port.ExtractOutput{
		Fields:      fields,
		Confidences: confidences,
		ModelUsed:   s.model,
	}, nil
}

func buildPrompt(text string) string {
	var keys []string
	for _, role := range domain.Roles() {
		for _, suffix := range []string{domain.FieldName, domain.FieldINN, domain.FieldKPP, domain.FieldOGRN, domain.FieldAddress} {
			keys = append(keys, `"`+role.Key(suffix)+`": "string|null"`)
		}
	}
	keys = append(keys, `"`+domain.FieldDebt+`": "string|null"`)

	return "Ты извлекаешь реквизиты из претензии.\n" +
		"Верни ТОЛЬКО JSON без комментариев.\n" +
		"Если значения нет, укажи null.\n" +
		"\n" +
		"ВАЖНЫЕ ПРАВИЛА:\n" +
		"- ИНН: 10 или 12 цифр (только цифры, без пробелов)\n" +
		"- КПП: ровно 9 цифр\n" +
		"- ОГРН: 13 цифр (ООО) или 15 цифр (ИП)\n" +
		"- debt: сумма в рублях (цифры, можно с пробелами)\n" +
		"\n" +
		"Истец (plaintiff) - тот, кто направляет претензию.\n" +
		"Ответчик (defendant) - тот, кому направлена претензия.\n" +
		"\n" +
		"Схема: {" + strings.Join(keys, ", ") + "}\n" +
		"\n" +
		"Текст претензии:\n" + text + "\n" +
		"\n" +
		"Верни JSON:\n"
}

var (
	fenceOpenRe = regexp.MustCompile("^```[a-zA-Z]*")
	jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseAnswer decodes the model's JSON answer, tolerating markdown fences and
// surrounding prose, then sanitizes every field.
func parseAnswer(answer string) (map[string]string, error) {
	cleaned := strings.TrimSpace(answer)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(fenceOpenRe.ReplaceAllString(cleaned, ""))
		cleaned = strings.TrimSpace(strings.TrimRight(cleaned, "`"))
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		block := jsonBlockRe.FindString(cleaned)
		if block == "" {
			return nil, fmt.Errorf("no JSON object in model answer: %s", truncate(cleaned, 200))
		}
		if err := json.Unmarshal([]byte(block), &raw); err != nil {
			return nil, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, truncate(cleaned, 200))
		}
	}

	fields := make(map[string]string)
	for key, value := range raw {
		text := cleanString(value)
		if text == "" {
			continue
		}
		switch {
		case strings.HasSuffix(key, "_"+domain.FieldINN):
			text = cleanDigits(text, 10, 12)
		case strings.HasSuffix(key, "_"+domain.FieldKPP):
			text = cleanDigits(text, 9)
		case strings.HasSuffix(key, "_"+domain.FieldOGRN):
			text = cleanDigits(text, 13, 15)
		}
		if text != "" {
			fields[key] = text
		}
	}
	return fields, nil
}

func cleanString(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "none", "не указано":
		return ""
	}
	return s
}

// cleanDigits strips everything but digits and rejects values whose digit
// count is not one of the allowed lengths.
func cleanDigits(value string, allowedLengths ...int) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	for _, l := range allowedLengths {
		if len(digits) == l {
			return digits
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
