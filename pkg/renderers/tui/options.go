package tui

import (
	"context"
	"io"

	"github.com/fatih/color"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/submit"
)

// OutputFormat controls how the submitted FormState is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto an OutputFormat. Unknown values
// report false.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw), true
	case "":
		return OutputFormatJSON, true
	default:
		return "", false
	}
}

// Theme captures the message prefixes printed ahead of renderer output.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
	PINPrefix    string
}

// DefaultTheme colors the prefixes with fatih/color. Colors are dropped
// automatically when stdout is not a terminal.
func DefaultTheme() Theme {
	return Theme{
		PromptPrefix: color.New(color.FgMagenta, color.Bold).Sprint("🕸️ "),
		InfoPrefix:   color.New(color.FgGreen).Sprint("✔ "),
		ErrorPrefix:  color.New(color.FgRed).Sprint("✘ "),
		PINPrefix:    color.New(color.FgHiMagenta).Sprint("PIN: "),
	}
}

// Submitter receives the FormState when the user picks Submit.
type Submitter interface {
	OnSubmit(ctx context.Context, state model.FormState) (submit.Receipt, error)
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput redirects messages printed by the default survey driver.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitter routes Submit through s instead of a stderr submit.Handler.
func WithSubmitter(s Submitter) Option {
	return func(r *Renderer) {
		if s != nil {
			r.submitter = s
		}
	}
}

// WithConfirmSubmit asks for confirmation before submitting.
func WithConfirmSubmit() Option {
	return func(r *Renderer) {
		r.confirmSubmit = true
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
