package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/render"
	rendertemplate "github.com/goliatone/go-spidrform/pkg/render/template"
	gotemplate "github.com/goliatone/go-spidrform/pkg/render/template/gotemplate"
)

// DefaultAssetPrefix is where the page expects the stylesheet and scripts.
const DefaultAssetPrefix = "/assets/"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assetPrefix      string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssetPrefix sets the URL prefix for the stylesheet and scripts.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed == "" {
			return
		}
		if !strings.HasSuffix(trimmed, "/") {
			trimmed += "/"
		}
		cfg.assetPrefix = trimmed
	}
}

// WithDefaultStyles inlines the bundled stylesheet instead of linking it.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	assetPrefix  string
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		assetPrefix: DefaultAssetPrefix,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		assetPrefix:  cfg.assetPrefix,
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the full page for form with the values, PIN view and
// acknowledgment carried by opts.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	if len(form.Fields) == 0 {
		return nil, fmt.Errorf("vanilla renderer: form %q has no fields", form.ID)
	}
	if opts.Theme == nil {
		opts.Theme = DefaultTheme()
	}

	result, err := r.templates.RenderTemplate("templates/page.tmpl", map[string]any{
		"page": r.buildView(form, opts),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
