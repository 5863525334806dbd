package port

import "context"

// LegacyParser is the older extraction pipeline. Its output is merged
// field by field with the coordinator's result.
type LegacyParser interface {
	Parse(ctx context.Context, text string) (map[string]string, error)
}
