package templ

import (
	"context"

	"github.com/goliatone/go-webtempl/pkg/future"
	"github.com/goliatone/go-webtempl/pkg/settings"
)

// DefaultExtension is appended to template paths that lack one.
const DefaultExtension = "templ"

// Engine renders named templates asynchronously.
type Engine interface {
	// Render resolves path, loads or reuses the compiled template and
	// evaluates it against data.
	Render(ctx context.Context, data map[string]any, path string) *future.Future[string]
}

// Mode selects whether compiled templates are cached.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

// CachingEnabled reports whether renders in this mode may reuse compiled
// templates.
func (m Mode) CachingEnabled() bool {
	return m != Development
}

// CurrentMode reads the environment property. Only the exact value
// "development" disables caching; anything else, including unset or padded
// values, is production.
func CurrentMode() Mode {
	if settings.Get(settings.EnvironmentKey) == string(Development) {
		return Development
	}
	return Production
}
