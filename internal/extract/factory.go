package extract

import (
	"fmt"

	"pretenz/internal/config"
	"pretenz/internal/port"
)

// ProviderFactory is a function that creates an ExtractionSource from a provider config.
type ProviderFactory func(cfg *config.ExtractProviderConfig) (port.ExtractionSource, error)

// registry of extraction provider factories, populated by init() in each
// provider package or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewSource creates an ExtractionSource from a provider config using the registered factory.
func NewSource(cfg *config.ExtractProviderConfig) (port.ExtractionSource, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
