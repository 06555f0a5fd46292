package pongo

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-webtempl/pkg/metrics"
	"github.com/goliatone/go-webtempl/pkg/templ"
)

// FilterFunc is a template filter expressed without pongo2 types.
type FilterFunc func(input any, param any) (any, error)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	extension  string
	filters    map[string]FilterFunc
	globalData map[string]any
	sanitizer  *bluemonday.Policy
	metrics    *metrics.Collector
	logger     *log.Logger
}

// WithExtension overrides the default template extension. A leading dot is
// accepted and ignored.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(ext) == "" {
			return
		}
		cfg.extension = templ.NormalizeExtension(ext)
	}
}

// WithFilters registers filters when the engine loads. Names already known
// to pongo2 are left untouched.
func WithFilters(filters map[string]FilterFunc) Option {
	return func(cfg *config) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]FilterFunc, len(filters))
		}
		for name, fn := range filters {
			cfg.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobals seeds values visible to every template. Per-render data wins
// on key collisions.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithSanitizer passes rendered output through an HTML policy before the
// trailing end-of-line is trimmed.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		cfg.sanitizer = policy
	}
}

// WithMetrics records render and compile counts.
func WithMetrics(c *metrics.Collector) Option {
	return func(cfg *config) {
		cfg.metrics = c
	}
}

// WithLogger overrides the host logger for this engine.
func WithLogger(l *log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}
