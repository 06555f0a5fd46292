package pongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-webtempl/pkg/future"
	"github.com/goliatone/go-webtempl/pkg/host"
	"github.com/goliatone/go-webtempl/pkg/metrics"
	"github.com/goliatone/go-webtempl/pkg/templ"
)

const setName = "webtempl"

// Engine renders pongo2 templates loaded through a host.
type Engine struct {
	host      *host.Host
	ext       string
	globals   pongo2.Context
	set       *pongo2.TemplateSet
	cache     *templ.RenderCache[*pongo2.Template]
	sanitizer *bluemonday.Policy
	metrics   *metrics.Collector
	logger    *log.Logger
}

// Ensure Engine implements the templ.Engine interface.
var _ templ.Engine = (*Engine)(nil)

// New constructs an engine using templ.DefaultExtension unless an option
// overrides it.
func New(h *host.Host, options ...Option) (*Engine, error) {
	if h == nil {
		return nil, errors.New("pongo: host is required")
	}

	cfg := &config{
		extension: templ.DefaultExtension,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	for name, fn := range cfg.filters {
		if name == "" || fn == nil || pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, adaptFilter(fn)); err != nil {
			return nil, fmt.Errorf("pongo: register filter %q: %w", name, err)
		}
	}

	globals := make(pongo2.Context, len(cfg.globalData))
	globals.Update(cfg.globalData)

	logger := cfg.logger
	if logger == nil {
		logger = h.Logger()
	}

	engine := &Engine{
		host:      h,
		ext:       cfg.extension,
		globals:   globals,
		cache:     templ.NewRenderCache[*pongo2.Template](),
		sanitizer: cfg.sanitizer,
		metrics:   cfg.metrics,
		logger:    logger.WithPrefix("pongo"),
	}
	engine.set = engine.newSet()

	return engine, nil
}

// NewWithExtension constructs an engine whose templates use ext instead of
// the default extension.
func NewWithExtension(h *host.Host, ext string, options ...Option) (*Engine, error) {
	return New(h, append(options, WithExtension(ext))...)
}

// Extension returns the configured extension without a leading dot.
func (e *Engine) Extension() string {
	return e.ext
}

// Cache exposes the compiled template cache.
func (e *Engine) Cache() *templ.RenderCache[*pongo2.Template] {
	return e.cache
}

// Render resolves path, loads or reuses the compiled template and evaluates
// it against data on a host worker. The returned future fails with
// *templ.NotFoundError, *templ.CompileError or *templ.EvaluationError.
func (e *Engine) Render(ctx context.Context, data map[string]any, path string) *future.Future[string] {
	key := templ.ResolvePath(path, e.ext)
	return host.Execute(ctx, e.host, func(ctx context.Context) (string, error) {
		return e.render(ctx, key, data)
	})
}

// RenderString compiles and evaluates inline template source. Inline
// templates are never cached.
func (e *Engine) RenderString(ctx context.Context, source string, data map[string]any) *future.Future[string] {
	return host.Execute(ctx, e.host, func(ctx context.Context) (string, error) {
		tmpl, err := e.set.FromString(source)
		if err != nil {
			return "", &templ.CompileError{Path: "<string>", Err: err}
		}
		return e.evaluate("<string>", tmpl, data)
	})
}

func (e *Engine) render(ctx context.Context, key string, data map[string]any) (out string, err error) {
	start := time.Now()
	mode := templ.CurrentMode()
	cacheState := metrics.CacheBypass

	defer func() {
		e.metrics.ObserveRender(ctx, statusOf(err), cacheState, time.Since(start))
	}()

	tmpl, hit, err := e.cache.Get(key, mode, func() (*pongo2.Template, error) {
		return e.compile(ctx, key, mode)
	})
	if mode.CachingEnabled() {
		cacheState = metrics.CacheMiss
		if hit {
			cacheState = metrics.CacheHit
		}
	}
	if err != nil {
		e.logger.Debug("render failed", "template", key, "mode", mode, "err", err)
		return "", err
	}
	e.logger.Debug("rendering", "template", key, "mode", mode, "cache", cacheState)

	return e.evaluate(key, tmpl, data)
}

func (e *Engine) compile(ctx context.Context, key string, mode templ.Mode) (*pongo2.Template, error) {
	src, err := e.host.Load(key)
	if err != nil {
		var lookup *host.LookupError
		if errors.As(err, &lookup) {
			return nil, &templ.NotFoundError{Path: key, Roots: lookup.Searched}
		}
		return nil, err
	}

	// A throwaway set keeps pongo2 from retaining included templates
	// between development renders.
	set := e.set
	if !mode.CachingEnabled() {
		set = e.newSet()
	}

	tmpl, err := set.FromBytes(src.Data)
	if err != nil {
		return nil, &templ.CompileError{Path: key, Err: err}
	}

	e.metrics.ObserveCompile(ctx, key)
	e.logger.Debug("compiled template", "template", key, "root", src.Root)
	return tmpl, nil
}

func (e *Engine) evaluate(key string, tmpl *pongo2.Template, data map[string]any) (string, error) {
	rendered, err := execute(key, tmpl, viewContext(data))
	if err != nil {
		return "", err
	}

	if e.sanitizer != nil {
		rendered = e.sanitizer.Sanitize(rendered)
	}
	return templ.TrimRightEol(rendered), nil
}

// execute runs the template, turning runtime panics raised by expressions
// (integer division by zero, nil dereferences in called funcs) into
// evaluation errors carrying the panic message.
func execute(key string, tmpl *pongo2.Template, data pongo2.Context) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &templ.EvaluationError{Path: key, Err: panicError(r)}
		}
	}()

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(data, &buf); err != nil {
		return "", &templ.EvaluationError{Path: key, Err: err}
	}
	return buf.String(), nil
}

func (e *Engine) newSet() *pongo2.TemplateSet {
	set := pongo2.NewSet(setName, &hostLoader{host: e.host})
	set.Globals = make(pongo2.Context, len(e.globals))
	set.Globals.Update(e.globals)
	return set
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

func statusOf(err error) string {
	var (
		compileErr *templ.CompileError
		evalErr    *templ.EvaluationError
	)
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, templ.ErrNotFound):
		return metrics.StatusNotFound
	case errors.As(err, &compileErr):
		return metrics.StatusCompile
	case errors.As(err, &evalErr):
		return metrics.StatusEvaluate
	default:
		return metrics.StatusFailed
	}
}
