package template

import (
	"io"
)

// TemplateRenderer renders named template files or inline template content.
// The rendered text is returned and also copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
