package vanilla

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/pin"
	"github.com/goliatone/go-spidrform/pkg/render"
)

// Toggle glyphs follow the PIN state: an open eye while revealed.
const (
	toggleIconVisible = "👁️"
	toggleIconHidden  = "🙈"
)

type pageView struct {
	Title       string         `json:"title"`
	HeadingHTML string         `json:"headingHtml,omitempty"`
	Method      string         `json:"method"`
	Action      string         `json:"action"`
	Endpoint    string         `json:"endpoint"`
	Mask        string         `json:"mask"`
	Fields      []fieldView    `json:"fields"`
	PIN         *pinView       `json:"pin,omitempty"`
	Hidden      []hiddenView   `json:"hidden,omitempty"`
	Ack         string         `json:"ack,omitempty"`
	Stylesheet  string         `json:"stylesheet,omitempty"`
	InlineCSS   string         `json:"inlineCss,omitempty"`
	ThemeName   string         `json:"themeName,omitempty"`
	ThemeStyle  string         `json:"themeStyle,omitempty"`
	Scripts     []string       `json:"scripts,omitempty"`
	Background  backgroundView `json:"background"`
}

type fieldView struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Required  bool   `json:"required"`
	Pattern   string `json:"pattern,omitempty"`
	MaxLength string `json:"maxLength,omitempty"`
	InputMode string `json:"inputMode,omitempty"`
	KeyFilter string `json:"keyFilter,omitempty"`
}

type pinView struct {
	fieldView
	Digits      string `json:"digits"`
	Visible     bool   `json:"visible"`
	Visibility  string `json:"visibility"`
	ToggleLabel string `json:"toggleLabel"`
	ToggleIcon  string `json:"toggleIcon"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type backgroundView struct {
	Enabled bool   `json:"enabled"`
	JSON    string `json:"json,omitempty"`
}

// PinVisibilityField carries the toggle state across no-script round trips.
const PinVisibilityField = "pinVisibility"

func (r *Renderer) buildView(form model.FormModel, opts render.RenderOptions) pageView {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = form.Title
	}
	action := opts.Action
	if action == "" {
		action = form.Endpoint
	}
	method := strings.ToUpper(strings.TrimSpace(form.Method))
	if method == "" {
		method = "POST"
	}

	view := pageView{
		Title:       title,
		HeadingHTML: SanitizeHeading(opts.HeadingHTML),
		Method:      method,
		Action:      action,
		Endpoint:    form.Endpoint,
		Mask:        string(opts.Mask()),
		Ack:         strings.TrimSpace(opts.Acknowledgment),
		Scripts:     r.scripts(opts.Background),
		Background:  buildBackground(opts.Background),
	}
	if r.inlineStyles {
		view.InlineCSS = defaultStylesheet()
	} else {
		view.Stylesheet = r.assetURL(StylesheetName)
	}
	if opts.Theme != nil {
		view.ThemeName = opts.Theme.Theme
		view.ThemeStyle = cssVarsStyle(opts.Theme.CSSVars)
	}

	for _, field := range form.Fields {
		fv := buildField(field, opts.State)
		if field.IsPIN() {
			if view.PIN != nil {
				continue
			}
			view.PIN = buildPIN(fv, opts.PinVisibility)
			continue
		}
		view.Fields = append(view.Fields, fv)
	}

	var extra []render.HiddenField
	if view.PIN != nil {
		extra = append(extra, render.HiddenField{Name: PinVisibilityField, Value: opts.PinVisibility.String()})
	}
	for _, field := range render.SortedHiddenFields(opts.HiddenFields, extra...) {
		view.Hidden = append(view.Hidden, hiddenView{Name: field.Name, Value: field.Value})
	}
	return view
}

func buildField(field model.Field, state model.FormState) fieldView {
	fieldType := string(field.Type)
	if fieldType == "" {
		fieldType = string(model.FieldTypeText)
	}
	fv := fieldView{
		Name:      field.Name,
		ID:        field.Name,
		Label:     field.Label,
		Type:      fieldType,
		Value:     state.Value(field.Name),
		Required:  field.Required,
		Pattern:   field.Pattern,
		InputMode: field.InputMode,
		KeyFilter: field.KeyFilter,
	}
	if fv.Label == "" {
		fv.Label = model.DefaultLabeler(field.Name)
	}
	if field.MaxLength > 0 {
		fv.MaxLength = strconv.Itoa(field.MaxLength)
	}
	return fv
}

func buildPIN(fv fieldView, visibility pin.Visibility) *pinView {
	view := &pinView{
		fieldView:  fv,
		Digits:     pin.Digits(fv.Value),
		Visible:    visibility.IsVisible(),
		Visibility: visibility.String(),
	}
	// Templates format or mask Digits themselves.
	view.Value = ""
	if view.Visible {
		view.ToggleLabel = "Hide PIN"
		view.ToggleIcon = toggleIconVisible
	} else {
		view.ToggleLabel = "Show PIN"
		view.ToggleIcon = toggleIconHidden
	}
	return view
}

func buildBackground(bg render.Background) backgroundView {
	if bg.Disabled {
		return backgroundView{}
	}
	payload, err := json.Marshal(bg.WithDefaults())
	if err != nil {
		return backgroundView{}
	}
	return backgroundView{Enabled: true, JSON: string(payload)}
}

func (r *Renderer) scripts(bg render.Background) []string {
	var scripts []string
	if !bg.Disabled {
		scripts = append(scripts, r.assetURL(ParticlesScriptName))
	}
	return append(scripts, r.assetURL(RuntimeScriptName))
}

func (r *Renderer) assetURL(name string) string {
	return r.assetPrefix + name
}

// DefaultTheme returns the dark palette with the purple accent.
func DefaultTheme() *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   "spidr",
		Variant: "dark",
		Tokens: map[string]string{
			"background": "#0d0d0d",
			"surface":    "#111111",
			"accent":     "#a855f7",
		},
		CSSVars: map[string]string{
			"--sf-bg":      "#0d0d0d",
			"--sf-surface": "#111111",
			"--sf-border":  "#7e22ce",
			"--sf-accent":  "#a855f7",
			"--sf-text":    "#ffffff",
			"--sf-muted":   "#9ca3af",
		},
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") && safeCSSValue(vars[key]) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// safeCSSValue rejects values that could close the declaration or the
// surrounding style element.
func safeCSSValue(value string) bool {
	return value != "" && !strings.ContainsAny(value, ";{}<>")
}
