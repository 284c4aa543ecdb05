package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-spidrform/pkg/binder"
	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/pin"
	"github.com/goliatone/go-spidrform/pkg/render"
	"github.com/goliatone/go-spidrform/pkg/submit"
)

// Menu entries shown once every field has a value.
const (
	menuRevealPIN = "Reveal PIN"
	menuHidePIN   = "Hide PIN"
	menuEditPIN   = "Edit PIN"
	menuSubmit    = "Submit"
)

// Renderer implements render.Renderer for terminal-driven sessions. Render
// prompts every field, lets the user toggle and re-enter the PIN, then hands
// the FormState to the Submitter and returns it serialized.
type Renderer struct {
	driver        PromptDriver
	out           io.Writer
	outputFormat  OutputFormat
	submitter     Submitter
	confirmSubmit bool
	theme         Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// stderr diagnostics).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.submitter == nil {
		r.submitter = submit.New()
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

type session struct {
	form       model.FormModel
	binder     *binder.Binder
	visibility pin.Visibility
	mask       rune
	pinField   *model.Field
}

// Render runs the interactive session and returns the submitted state.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if len(form.Fields) == 0 {
		return nil, fmt.Errorf("tui: form %q has no fields", form.ID)
	}

	s := &session{
		form:       form,
		binder:     binder.New(form, binder.WithInitialState(opts.State)),
		visibility: opts.PinVisibility,
		mask:       opts.Mask(),
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = form.Title
	}
	if title != "" {
		if err := r.driver.Info(ctx, r.theme.PromptPrefix+title); err != nil {
			return nil, err
		}
	}

	for _, field := range form.Fields {
		if field.IsPIN() {
			if s.pinField == nil {
				pinField := field
				s.pinField = &pinField
			}
			continue
		}
		if err := r.promptField(ctx, s, field); err != nil {
			return nil, err
		}
	}

	if s.pinField != nil {
		if err := r.promptPIN(ctx, s); err != nil {
			return nil, err
		}
	}

	if err := r.menu(ctx, s); err != nil {
		return nil, err
	}

	state := s.binder.State()
	if r.submitter == nil {
		return nil, ErrNoSubmitter
	}
	receipt, err := r.submitter.OnSubmit(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("tui: submit: %w", err)
	}
	if err := r.driver.Info(ctx, r.theme.InfoPrefix+receipt.Message); err != nil {
		return nil, err
	}

	return r.serialize(state)
}

func (r *Renderer) promptField(ctx context.Context, s *session, field model.Field) error {
	validate, err := fieldValidator(field, nil)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	label := displayLabel(field)

	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   s.binder.State().Value(field.Name),
			Help:      displayHelp(field),
			Validator: validate,
		})
		if err != nil {
			return err
		}
		if err := validate(response); err != nil {
			if err := r.invalid(ctx, label, err); err != nil {
				return err
			}
			continue
		}
		return s.binder.OnFieldChange(field.Name, response)
	}
}

// promptPIN reads the PIN with a masked prompt while hidden and a plain one
// while visible. Constraints apply to the formatted value, as on the page.
func (r *Renderer) promptPIN(ctx context.Context, s *session) error {
	field := *s.pinField
	validate, err := fieldValidator(field, pin.Format)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	label := displayLabel(field)

	for {
		cfg := InputConfig{
			Message:   label,
			Help:      displayHelp(field),
			Validator: validate,
		}
		var response string
		if s.visibility.IsVisible() {
			cfg.Default = pin.Format(s.binder.State().Value(field.Name))
			response, err = r.driver.Input(ctx, cfg)
		} else {
			response, err = r.driver.Password(ctx, cfg)
		}
		if err != nil {
			return err
		}
		if err := validate(response); err != nil {
			if err := r.invalid(ctx, label, err); err != nil {
				return err
			}
			continue
		}
		if err := s.binder.OnFieldChange(field.Name, response); err != nil {
			return err
		}
		return r.showPIN(ctx, s)
	}
}

func (r *Renderer) showPIN(ctx context.Context, s *session) error {
	digits := s.binder.State().Value(s.pinField.Name)
	return r.driver.Info(ctx, r.theme.PINPrefix+s.visibility.Display(digits, s.mask))
}

// menu loops until the user picks Submit. Toggling only changes how the PIN
// is displayed; the stored digits stay as they are.
func (r *Renderer) menu(ctx context.Context, s *session) error {
	for {
		options := []string{menuSubmit}
		if s.pinField != nil {
			toggle := menuRevealPIN
			if s.visibility.IsVisible() {
				toggle = menuHidePIN
			}
			options = []string{toggle, menuEditPIN, menuSubmit}
		}

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      "Next step",
			Options:      options,
			DefaultIndex: len(options) - 1,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return fmt.Errorf("%w: %d", ErrUnknownChoice, idx)
		}

		switch options[idx] {
		case menuRevealPIN, menuHidePIN:
			s.visibility = s.visibility.Toggle()
			if err := r.showPIN(ctx, s); err != nil {
				return err
			}
		case menuEditPIN:
			if err := r.promptPIN(ctx, s); err != nil {
				return err
			}
		case menuSubmit:
			if !r.confirmSubmit {
				return nil
			}
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit the form?", Default: true})
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}
}

func (r *Renderer) invalid(ctx context.Context, label string, cause error) error {
	return r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, label, cause))
}

func (r *Renderer) serialize(state model.FormState) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(state)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(state)), nil
	default:
		return json.Marshal(state)
	}
}

// fieldValidator combines the HTML constraints of field with its keystroke
// filter. normalize, when set, rewrites the answer before the constraints
// run.
func fieldValidator(field model.Field, normalize func(string) string) (func(string) error, error) {
	constraints, err := render.ConstraintsFor(field)
	if err != nil {
		return nil, err
	}
	return func(value string) error {
		if field.KeyFilter == model.KeyFilterDigits && value != pin.Digits(value) {
			return errors.New("only digits are accepted")
		}
		if normalize != nil {
			value = normalize(value)
		}
		return constraints.Check(value)
	}, nil
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

func displayHelp(field model.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	if field.Pattern != "" {
		return "Format: " + field.Pattern
	}
	return ""
}

func flattenForm(state model.FormState) string {
	values := url.Values{}
	for _, kv := range state.Values() {
		values.Set(kv.Key, kv.Value)
	}
	return values.Encode()
}

func prettyPrint(state model.FormState) string {
	var b strings.Builder
	for _, kv := range state.Values() {
		fmt.Fprintf(&b, "%s=%s\n", kv.Key, kv.Value)
	}
	return b.String()
}
