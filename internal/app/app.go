// Package app wires configuration into the form, the renderers, the
// submission handler and the HTTP server for the two commands.
package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/goliatone/go-spidrform/internal/config"
	"github.com/goliatone/go-spidrform/internal/server"
	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/openapi"
	"github.com/goliatone/go-spidrform/pkg/render"
	"github.com/goliatone/go-spidrform/pkg/renderers/tui"
	"github.com/goliatone/go-spidrform/pkg/renderers/vanilla"
	"github.com/goliatone/go-spidrform/pkg/submit"
)

// Renderer names registered by Renderers.
const (
	RendererHTML     = "vanilla"
	RendererTerminal = "tui"
)

// LoadForm returns the built-in form, or the one described by the configured
// OpenAPI document.
func LoadForm(ctx context.Context, cfg config.Config) (model.FormModel, error) {
	if cfg.SchemaPath == "" {
		return openapi.Interest(ctx)
	}
	form, err := openapi.ParseFile(ctx, cfg.SchemaPath, model.InterestFormID)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("load form: %w", err)
	}
	return form, nil
}

// RenderDefaults maps the presentation settings onto render options.
func RenderDefaults(cfg config.Config) render.RenderOptions {
	return render.RenderOptions{
		Title:       cfg.Title,
		HeadingHTML: cfg.HeadingHTML,
		MaskChar:    cfg.Mask(),
		Theme:       cfg.Theme(vanilla.DefaultTheme()),
		Background:  cfg.RenderBackground(),
	}
}

// NewSubmitter builds the submission handler writing diagnostics to logger.
func NewSubmitter(cfg config.Config, logger *log.Logger) *submit.Handler {
	return submit.New(
		submit.WithLogger(logger),
		submit.WithAcknowledgment(cfg.Acknowledgment),
	)
}

// Renderers registers the HTML renderer and, when tuiOpts is non-nil, the
// terminal renderer.
func Renderers(cfg config.Config, tuiOpts []tui.Option) (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New(vanilla.WithAssetPrefix(cfg.AssetPrefix))
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	if tuiOpts != nil {
		format, ok := tui.ParseOutputFormat(cfg.Output)
		if !ok {
			return nil, fmt.Errorf("unsupported output format %q", cfg.Output)
		}
		terminal, err := tui.New(append([]tui.Option{tui.WithOutputFormat(format)}, tuiOpts...)...)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(terminal); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// NewServer assembles the HTTP server. Submissions and access lines both go
// to logger.
func NewServer(ctx context.Context, cfg config.Config, logger *log.Logger) (*server.Server, error) {
	form, err := LoadForm(ctx, cfg)
	if err != nil {
		return nil, err
	}
	registry, err := Renderers(cfg, nil)
	if err != nil {
		return nil, err
	}
	html, err := registry.Get(RendererHTML)
	if err != nil {
		return nil, err
	}
	return server.New(
		server.WithAddr(cfg.HTTPAddr),
		server.WithForm(form),
		server.WithRenderer(html),
		server.WithSubmitter(NewSubmitter(cfg, logger)),
		server.WithLogger(logger),
		server.WithRenderDefaults(RenderDefaults(cfg)),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
}

// RunServer serves until ctx ends.
func RunServer(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	srv, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// RunTerminal runs one terminal session and writes the serialized state to
// out.
func RunTerminal(ctx context.Context, cfg config.Config, logger *log.Logger, out io.Writer, tuiOpts ...tui.Option) error {
	form, err := LoadForm(ctx, cfg)
	if err != nil {
		return err
	}
	opts := append([]tui.Option{tui.WithSubmitter(NewSubmitter(cfg, logger))}, tuiOpts...)
	registry, err := Renderers(cfg, opts)
	if err != nil {
		return err
	}
	terminal, err := registry.Get(RendererTerminal)
	if err != nil {
		return err
	}

	payload, err := terminal.Render(ctx, form, RenderDefaults(cfg))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, string(payload)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
