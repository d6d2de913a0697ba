package rate

import (
	"errors"
	"fmt"
	"ratehub/internal/adapters"
	"strings"
)

var ErrUnknownSource = errors.New("unknown rate source")

// SourceRegistry keeps rate sources in precedence order: when two sources quote
// the same pair, the later one wins.
type SourceRegistry struct {
	sources []adapters.RateSource
}

// Select returns every source for an empty name, otherwise the one source whose
// name matches case-insensitively.
func (r *SourceRegistry) Select(name string) ([]adapters.RateSource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		out := make([]adapters.RateSource, len(r.sources))
		copy(out, r.sources)
		return out, nil
	}
	for _, src := range r.sources {
		if strings.EqualFold(src.Name(), name) {
			return []adapters.RateSource{src}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

func (r *SourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for _, src := range r.sources {
		names = append(names, src.Name())
	}
	return names
}

func NewSourceRegistry(sources ...adapters.RateSource) *SourceRegistry {
	return &SourceRegistry{sources: sources}
}
