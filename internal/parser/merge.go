package parser

import (
	"fmt"
	"log"
	"strings"

	"pretenz/internal/domain"
)

const defaultMergeThreshold = 0.6

// Reconciler merges the legacy pipeline's field map with the coordinator's
// result. The merge is field-level: the enhanced value wins when its
// confidence clears the threshold and the field passed validation, otherwise
// the legacy value stands.
type Reconciler struct {
	threshold float64
}

// NewReconciler creates a Reconciler. A non-positive threshold falls back to
// the default of 0.6.
func NewReconciler(threshold float64) *Reconciler {
	if threshold <= 0 {
		threshold = defaultMergeThreshold
	}
	return &Reconciler{threshold: threshold}
}

// Merge produces the final field map. Fields only one pipeline produced are
// kept as-is; required fields missing from both are reported exactly once.
func (r *Reconciler) Merge(legacy map[string]string, enhanced *domain.ParsingResult) *domain.ParsingResult {
	merged := domain.NewParsingResult()

	for key, value := range legacy {
		if strings.TrimSpace(value) == "" {
			continue
		}
		merged.Fields[key] = value
		merged.Sources[key] = domain.SourceLegacy
	}

	if enhanced != nil {
		for key, value := range enhanced.Fields {
			if strings.TrimSpace(value) == "" {
				continue
			}
			conf := enhanced.Confidences[key]
			if _, inLegacy := merged.Fields[key]; inLegacy {
				if conf < r.threshold || !enhanced.FieldPassed(key) {
					log.Printf("parser.Reconciler: keeping legacy value for %s (confidence %.2f)", key, conf)
					continue
				}
			}
			merged.Fields[key] = value
			merged.Sources[key] = enhanced.Sources[key]
			merged.Confidences[key] = conf
		}

		for key, status := range enhanced.Checks {
			merged.Checks[key] = status
		}
		merged.Warnings = append(merged.Warnings, enhanced.Warnings...)
		// The coordinator's missing-fields error is recomputed below against
		// the merged map; the legacy side may have filled the gap.
		for _, e := range enhanced.Errors {
			if strings.HasPrefix(e, "missing required fields:") {
				continue
			}
			merged.Errors = append(merged.Errors, e)
		}
	}

	var missing []string
	for _, key := range domain.RequiredFields() {
		if _, ok := merged.Fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		merged.AddError(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}

	var sum float64
	for _, conf := range merged.Confidences {
		sum += conf
	}
	if len(merged.Confidences) > 0 {
		merged.Confidence = sum / float64(len(merged.Confidences))
	}

	return merged
}
