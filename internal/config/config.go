// Package config resolves command settings from, in increasing precedence,
// built-in defaults, SPIDRFORM_* environment variables, an optional YAML
// file and command-line flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-spidrform/pkg/pin"
	"github.com/goliatone/go-spidrform/pkg/render"
)

const (
	defaultHTTPAddr    = "localhost:8080"
	defaultAssetPrefix = "/assets/"
	defaultRateLimit   = 5
	defaultRateBurst   = 10
	defaultOutput      = "json"
)

// ErrInvalidMask is returned when the mask is not exactly one character, or
// is a digit or the PIN separator.
var ErrInvalidMask = errors.New("config: mask must be a single non-digit character other than the separator")

// Config holds the resolved settings shared by the server and the terminal
// command.
type Config struct {
	HTTPAddr       string
	SchemaPath     string
	ConfigPath     string
	Title          string
	HeadingHTML    string
	MaskChar       string
	Acknowledgment string
	AssetPrefix    string
	RateLimit      float64
	RateBurst      int
	Output         string
	NoBackground   bool
	Palette        map[string]string
	Background     render.Background
}

type envConfig struct {
	HTTPAddr       string  `env:"SPIDRFORM_HTTP_ADDR" envDefault:"localhost:8080"`
	SchemaPath     string  `env:"SPIDRFORM_SCHEMA"`
	ConfigPath     string  `env:"SPIDRFORM_CONFIG"`
	Title          string  `env:"SPIDRFORM_TITLE"`
	HeadingHTML    string  `env:"SPIDRFORM_HEADING_HTML"`
	MaskChar       string  `env:"SPIDRFORM_MASK_CHAR" envDefault:"#"`
	Acknowledgment string  `env:"SPIDRFORM_ACK"`
	AssetPrefix    string  `env:"SPIDRFORM_ASSET_PREFIX" envDefault:"/assets/"`
	RateLimit      float64 `env:"SPIDRFORM_RATE_LIMIT" envDefault:"5"`
	RateBurst      int     `env:"SPIDRFORM_RATE_BURST" envDefault:"10"`
	Output         string  `env:"SPIDRFORM_OUTPUT" envDefault:"json"`
	NoBackground   bool    `env:"SPIDRFORM_NO_BACKGROUND"`
}

type fileConfig struct {
	HTTPAddr       string             `yaml:"httpAddr"`
	Schema         string             `yaml:"schema"`
	Title          string             `yaml:"title"`
	HeadingHTML    string             `yaml:"headingHtml"`
	MaskChar       string             `yaml:"maskChar"`
	Acknowledgment string             `yaml:"acknowledgment"`
	AssetPrefix    string             `yaml:"assetPrefix"`
	RateLimit      *float64           `yaml:"rateLimit"`
	RateBurst      *int               `yaml:"rateBurst"`
	Output         string             `yaml:"output"`
	Palette        map[string]string  `yaml:"palette"`
	Background     *render.Background `yaml:"background"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		HTTPAddr:    defaultHTTPAddr,
		MaskChar:    string(pin.DefaultMask),
		AssetPrefix: defaultAssetPrefix,
		RateLimit:   defaultRateLimit,
		RateBurst:   defaultRateBurst,
		Output:      defaultOutput,
		Background:  render.DefaultBackground(),
	}
}

// ParseConfig resolves a Config for the command owning fs. Environment
// variables are read from the process.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.applyEnv(ec)

	flags := cfg
	fs.StringVar(&flags.HTTPAddr, "http-addr", flags.HTTPAddr, "HTTP listen address")
	fs.StringVar(&flags.SchemaPath, "schema", flags.SchemaPath, "OpenAPI document describing the form (defaults to the built-in form)")
	fs.StringVar(&flags.ConfigPath, "config", flags.ConfigPath, "YAML settings file")
	fs.StringVar(&flags.Title, "title", flags.Title, "Override the form title")
	fs.StringVar(&flags.MaskChar, "mask", flags.MaskChar, "Character that replaces hidden PIN digits")
	fs.StringVar(&flags.Acknowledgment, "ack", flags.Acknowledgment, "Message shown after a submission")
	fs.StringVar(&flags.AssetPrefix, "asset-prefix", flags.AssetPrefix, "URL prefix for the page stylesheet and scripts")
	fs.Float64Var(&flags.RateLimit, "rate", flags.RateLimit, "Submissions per second allowed per client (0 disables limiting)")
	fs.IntVar(&flags.RateBurst, "burst", flags.RateBurst, "Submission burst allowed per client")
	fs.StringVar(&flags.Output, "output", flags.Output, "Terminal output format: json, form or pretty")
	fs.BoolVar(&flags.NoBackground, "no-background", flags.NoBackground, "Disable the particle background")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.ConfigPath = flags.ConfigPath
	if cfg.ConfigPath != "" {
		file, err := loadFile(cfg.ConfigPath)
		if err != nil {
			return Config{}, err
		}
		cfg.applyFile(file)
	}

	fs.Visit(func(f *flag.Flag) {
		cfg.applyFlag(f.Name, flags)
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile reads a YAML settings file. Unknown keys are rejected so typos
// surface instead of being ignored.
func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (fileConfig, error) {
	var out fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	return out, nil
}

// Validate checks settings that would otherwise fail later at render time.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.MaskChar) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidMask, c.MaskChar)
	}
	if r := c.Mask(); r == pin.Separator || (r >= '0' && r <= '9') {
		return fmt.Errorf("%w: %q", ErrInvalidMask, c.MaskChar)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: rate must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("config: burst must be at least 1, got %d", c.RateBurst)
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: http address is required")
	}
	return nil
}

// Mask returns the PIN mask character.
func (c Config) Mask() rune {
	r, size := utf8.DecodeRuneInString(c.MaskChar)
	if size == 0 || r == utf8.RuneError {
		return pin.DefaultMask
	}
	return r
}

// RenderBackground returns the particle settings the page should use.
func (c Config) RenderBackground() render.Background {
	bg := c.Background.WithDefaults()
	if c.NoBackground {
		bg.Disabled = true
	}
	return bg
}

// Theme merges the configured palette over base. base is not modified.
func (c Config) Theme(base *theme.RendererConfig) *theme.RendererConfig {
	out := &theme.RendererConfig{}
	if base != nil {
		*out = *base
	}
	if len(c.Palette) == 0 {
		return out
	}
	vars := make(map[string]string, len(out.CSSVars)+len(c.Palette))
	for key, value := range out.CSSVars {
		vars[key] = value
	}
	for key, value := range c.Palette {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !strings.HasPrefix(key, "--") {
			key = "--sf-" + key
		}
		vars[key] = strings.TrimSpace(value)
	}
	out.CSSVars = vars
	return out
}

func (c *Config) applyEnv(ec envConfig) {
	c.HTTPAddr = ec.HTTPAddr
	c.SchemaPath = ec.SchemaPath
	c.ConfigPath = ec.ConfigPath
	c.Title = ec.Title
	c.HeadingHTML = ec.HeadingHTML
	c.MaskChar = ec.MaskChar
	c.Acknowledgment = ec.Acknowledgment
	c.AssetPrefix = ec.AssetPrefix
	c.RateLimit = ec.RateLimit
	c.RateBurst = ec.RateBurst
	c.Output = ec.Output
	c.NoBackground = ec.NoBackground
}

func (c *Config) applyFile(f fileConfig) {
	setString(&c.HTTPAddr, f.HTTPAddr)
	setString(&c.SchemaPath, f.Schema)
	setString(&c.Title, f.Title)
	setString(&c.HeadingHTML, f.HeadingHTML)
	setString(&c.MaskChar, f.MaskChar)
	setString(&c.Acknowledgment, f.Acknowledgment)
	setString(&c.AssetPrefix, f.AssetPrefix)
	setString(&c.Output, f.Output)
	if f.RateLimit != nil {
		c.RateLimit = *f.RateLimit
	}
	if f.RateBurst != nil {
		c.RateBurst = *f.RateBurst
	}
	if len(f.Palette) > 0 {
		c.Palette = f.Palette
	}
	if f.Background != nil {
		c.Background = *f.Background
	}
}

func (c *Config) applyFlag(name string, flags Config) {
	switch name {
	case "http-addr":
		c.HTTPAddr = flags.HTTPAddr
	case "schema":
		c.SchemaPath = flags.SchemaPath
	case "title":
		c.Title = flags.Title
	case "mask":
		c.MaskChar = flags.MaskChar
	case "ack":
		c.Acknowledgment = flags.Acknowledgment
	case "asset-prefix":
		c.AssetPrefix = flags.AssetPrefix
	case "rate":
		c.RateLimit = flags.RateLimit
	case "burst":
		c.RateBurst = flags.RateBurst
	case "output":
		c.Output = flags.Output
	case "no-background":
		c.NoBackground = flags.NoBackground
	}
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}
