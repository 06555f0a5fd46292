// Package handler serves templates over HTTP. The request path selects the
// template and the request itself is exposed to the template as `context`.
package handler

import (
	"errors"
	"path"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-webtempl/pkg/templ"
)

const (
	DefaultTemplateDirectory = "templates"
	DefaultContentType       = "text/html; charset=utf-8"
	DefaultIndexTemplate     = "index"
)

// DataFunc contributes extra template data for a request.
type DataFunc func(c *fiber.Ctx) map[string]any

// Option configures a TemplateHandler.
type Option func(*TemplateHandler)

// WithTemplateDirectory sets the directory prefix joined with the request
// path.
func WithTemplateDirectory(dir string) Option {
	return func(h *TemplateHandler) {
		h.directory = strings.TrimSpace(dir)
	}
}

// WithContentType sets the response content type.
func WithContentType(contentType string) Option {
	return func(h *TemplateHandler) {
		if ct := strings.TrimSpace(contentType); ct != "" {
			h.contentType = ct
		}
	}
}

// WithIndexTemplate names the template rendered for paths ending in "/".
func WithIndexTemplate(name string) Option {
	return func(h *TemplateHandler) {
		if name = strings.TrimSpace(name); name != "" {
			h.indexTemplate = name
		}
	}
}

// WithData merges data produced per request into the template data.
func WithData(fn DataFunc) Option {
	return func(h *TemplateHandler) {
		h.data = fn
	}
}

// TemplateHandler renders the template named by the request path.
type TemplateHandler struct {
	engine        templ.Engine
	directory     string
	contentType   string
	indexTemplate string
	data          DataFunc
}

// New creates a handler bound to engine.
func New(engine templ.Engine, options ...Option) *TemplateHandler {
	h := &TemplateHandler{
		engine:        engine,
		directory:     DefaultTemplateDirectory,
		contentType:   DefaultContentType,
		indexTemplate: DefaultIndexTemplate,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// Handle is the fiber handler.
func (h *TemplateHandler) Handle(c *fiber.Ctx) error {
	requestPath := c.Path()

	name := requestPath
	if strings.HasSuffix(name, "/") {
		name += h.indexTemplate
	}
	templatePath := strings.TrimPrefix(path.Clean("/"+name), "/")
	if h.directory != "" {
		templatePath = path.Join(h.directory, templatePath)
	}

	data := map[string]any{}
	if h.data != nil {
		for k, v := range h.data(c) {
			data[k] = v
		}
	}
	data["context"] = map[string]any{
		"path":   requestPath,
		"method": c.Method(),
		"params": c.AllParams(),
		"query":  c.Queries(),
	}

	out, err := h.engine.Render(c.UserContext(), data, templatePath).Await(c.UserContext())
	if err != nil {
		if errors.Is(err, templ.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, h.contentType)
	return c.SendString(out)
}

// Register mounts the handler for GET requests under prefix.
func (h *TemplateHandler) Register(router fiber.Router, prefix string) {
	router.Get(strings.TrimSuffix(prefix, "/")+"/*", h.Handle)
}
