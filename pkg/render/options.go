package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/pin"
)

// RenderOptions describe per-request data renderers use to draw the form
// without touching the field table.
type RenderOptions struct {
	// State holds the values bound to the controls.
	State model.FormState
	// PinVisibility selects the revealed or masked PIN view.
	PinVisibility pin.Visibility
	// MaskChar replaces PIN digits while hidden. Zero means pin.DefaultMask.
	MaskChar rune
	// Acknowledgment is shown once after a successful submission.
	Acknowledgment string
	// Action is the URL the no-script fallback posts the form to. Empty means
	// the form model endpoint.
	Action string
	// Title overrides the form model title.
	Title string
	// HeadingHTML replaces the plain title with sanitized inline markup.
	HeadingHTML string
	// HiddenFields are emitted as hidden inputs next to the controls.
	HiddenFields map[string]string
	// Theme carries palette tokens and CSS variables resolved via go-theme.
	Theme *theme.RendererConfig
	// Background configures the decorative particle animation.
	Background Background
}

// Mask returns the effective mask character.
func (o RenderOptions) Mask() rune {
	if o.MaskChar == 0 {
		return pin.DefaultMask
	}
	return o.MaskChar
}

// Background mirrors the particle animation settings. It is purely
// cosmetic; nothing in it reaches FormState.
type Background struct {
	Disabled     bool    `json:"disabled" yaml:"disabled"`
	Count        int     `json:"count" yaml:"count"`
	Color        string  `json:"color" yaml:"color"`
	LinkDistance float64 `json:"linkDistance" yaml:"linkDistance"`
	LinkOpacity  float64 `json:"linkOpacity" yaml:"linkOpacity"`
	LinkWidth    float64 `json:"linkWidth" yaml:"linkWidth"`
	Speed        float64 `json:"speed" yaml:"speed"`
	Opacity      float64 `json:"opacity" yaml:"opacity"`
	SizeMin      float64 `json:"sizeMin" yaml:"sizeMin"`
	SizeMax      float64 `json:"sizeMax" yaml:"sizeMax"`
	GrabDistance float64 `json:"grabDistance" yaml:"grabDistance"`
	GrabOpacity  float64 `json:"grabOpacity" yaml:"grabOpacity"`
	FPSLimit     int     `json:"fpsLimit" yaml:"fpsLimit"`
}

// DefaultBackground returns the stock particle settings.
func DefaultBackground() Background {
	return Background{
		Count:        80,
		Color:        "#ffffff",
		LinkDistance: 140,
		LinkOpacity:  0.2,
		LinkWidth:    0.7,
		Speed:        0.6,
		Opacity:      0.3,
		SizeMin:      1,
		SizeMax:      2.5,
		GrabDistance: 200,
		GrabOpacity:  0.4,
		FPSLimit:     60,
	}
}

// WithDefaults fills zero settings from DefaultBackground.
func (b Background) WithDefaults() Background {
	def := DefaultBackground()
	if b.Count <= 0 {
		b.Count = def.Count
	}
	if b.Color == "" {
		b.Color = def.Color
	}
	if b.LinkDistance <= 0 {
		b.LinkDistance = def.LinkDistance
	}
	if b.LinkOpacity <= 0 {
		b.LinkOpacity = def.LinkOpacity
	}
	if b.LinkWidth <= 0 {
		b.LinkWidth = def.LinkWidth
	}
	if b.Speed <= 0 {
		b.Speed = def.Speed
	}
	if b.Opacity <= 0 {
		b.Opacity = def.Opacity
	}
	if b.SizeMin <= 0 {
		b.SizeMin = def.SizeMin
	}
	if b.SizeMax < b.SizeMin {
		b.SizeMax = max(def.SizeMax, b.SizeMin)
	}
	if b.GrabDistance <= 0 {
		b.GrabDistance = def.GrabDistance
	}
	if b.GrabOpacity <= 0 {
		b.GrabOpacity = def.GrabOpacity
	}
	if b.FPSLimit <= 0 {
		b.FPSLimit = def.FPSLimit
	}
	return b
}
