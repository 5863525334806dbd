package port

import "context"

// ExtractInput carries one claim document's plain text.
type ExtractInput struct {
	Text string
}

// ExtractOutput is the candidate field map produced by an extraction source.
// Values are untrusted until the coordinator has validated them.
type ExtractOutput struct {
	Fields      map[string]string
	Confidences map[string]float64
	ModelUsed   string
}

// ExtractionSource abstracts direct field extraction from raw document text.
type ExtractionSource interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
