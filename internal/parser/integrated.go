package parser

import (
	"context"
	"log"

	"pretenz/internal/domain"
	"pretenz/internal/port"
)

// IntegratedParser runs the legacy pipeline and the coordinator over the
// same document and reconciles their results. Either side may fail without
// sinking the parse as long as the other produced something.
type IntegratedParser struct {
	legacy      port.LegacyParser
	coordinator *Coordinator
	reconciler  *Reconciler
}

// NewIntegratedParser creates an IntegratedParser. legacy may be nil when no
// legacy pipeline is wired in; the coordinator result then passes through
// the reconciler unopposed.
func NewIntegratedParser(legacy port.LegacyParser, c *Coordinator, r *Reconciler) *IntegratedParser {
	return &IntegratedParser{legacy: legacy, coordinator: c, reconciler: r}
}

// Parse returns the merged field map for one document.
func (p *IntegratedParser) Parse(ctx context.Context, text string) (*domain.ParsingResult, error) {
	legacyFields := p.safeLegacy(ctx, text)

	enhanced, err := p.coordinator.Parse(ctx, text)
	if err != nil {
		if len(legacyFields) == 0 {
			return nil, err
		}
		log.Printf("parser.IntegratedParser: coordinator failed, falling back to legacy fields: %v", err)
		enhanced = nil
	}

	return p.reconciler.Merge(legacyFields, enhanced), nil
}

func (p *IntegratedParser) safeLegacy(ctx context.Context, text string) map[string]string {
	if p.legacy == nil {
		return nil
	}
	fields, err := p.legacy.Parse(ctx, text)
	if err != nil {
		log.Printf("parser.IntegratedParser: legacy parser failed: %v", err)
		return nil
	}
	return fields
}
