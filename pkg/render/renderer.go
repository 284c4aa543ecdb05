package render

import (
	"context"

	"github.com/goliatone/go-spidrform/pkg/model"
)

// Renderer converts a FormModel plus the current form state into a byte
// representation (an HTML page, a serialized terminal session, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
