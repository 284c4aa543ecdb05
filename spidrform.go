// Package spidrform renders the Spidr interest form. The root package offers
// shortcuts over pkg/openapi and pkg/renderers/vanilla for callers that just
// want the page.
package spidrform

import (
	"context"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/openapi"
	"github.com/goliatone/go-spidrform/pkg/render"
	"github.com/goliatone/go-spidrform/pkg/renderers/vanilla"
)

// RenderOptions describes per-request data renderers use to draw the form.
type RenderOptions = render.RenderOptions

// FormState is the record of the six field values.
type FormState = model.FormState

// Form returns the interest form parsed from the embedded OpenAPI document.
func Form(ctx context.Context) (model.FormModel, error) {
	return openapi.Interest(ctx)
}

// GenerateHTML renders the interest form page with the vanilla renderer.
func GenerateHTML(ctx context.Context, opts RenderOptions, options ...vanilla.Option) ([]byte, error) {
	form, err := Form(ctx)
	if err != nil {
		return nil, err
	}
	return GenerateHTMLFromForm(ctx, form, opts, options...)
}

// GenerateHTMLFromForm renders a pre-built form model, bypassing the
// OpenAPI stage.
func GenerateHTMLFromForm(ctx context.Context, form model.FormModel, opts RenderOptions, options ...vanilla.Option) ([]byte, error) {
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, form, opts)
}
