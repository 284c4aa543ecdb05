package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-spidrform/pkg/render"
)

var themeFixture = theme.RendererConfig{
	Theme: "spidr",
	CSSVars: map[string]string{
		"--sf-bg":   "#0d0d0d",
		"--sf-text": "#ffffff",
	},
}

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("spidrform", flag.ContinueOnError)
	return ParseConfig(fs, args)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spidrform.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Mask() != '#' {
		t.Fatalf("Mask() = %q, want '#'", cfg.Mask())
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("SPIDRFORM_HTTP_ADDR", "0.0.0.0:9000")
	t.Setenv("SPIDRFORM_MASK_CHAR", "•")
	t.Setenv("SPIDRFORM_RATE_LIMIT", "2.5")
	t.Setenv("SPIDRFORM_NO_BACKGROUND", "true")

	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Mask() != '•' {
		t.Fatalf("Mask() = %q", cfg.Mask())
	}
	if cfg.RateLimit != 2.5 {
		t.Fatalf("RateLimit = %v", cfg.RateLimit)
	}
	if !cfg.RenderBackground().Disabled {
		t.Fatalf("expected background disabled")
	}
}

func TestParseConfigEnvError(t *testing.T) {
	t.Setenv("SPIDRFORM_RATE_BURST", "lots")

	if _, err := parse(t); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseConfigPrecedence(t *testing.T) {
	t.Setenv("SPIDRFORM_TITLE", "From env")
	t.Setenv("SPIDRFORM_ACK", "Env ack")
	path := writeFile(t, `
title: From file
maskChar: "*"
rateLimit: 1
palette:
  accent: "#22c55e"
background:
  count: 40
`)

	cfg, err := parse(t, "-config", path, "-mask", "x")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Title != "From file" {
		t.Fatalf("Title = %q, want file value over env", cfg.Title)
	}
	if cfg.Acknowledgment != "Env ack" {
		t.Fatalf("Acknowledgment = %q, want env value kept", cfg.Acknowledgment)
	}
	if cfg.MaskChar != "x" {
		t.Fatalf("MaskChar = %q, want flag value over file", cfg.MaskChar)
	}
	if cfg.RateLimit != 1 {
		t.Fatalf("RateLimit = %v", cfg.RateLimit)
	}

	bg := cfg.RenderBackground()
	want := render.DefaultBackground()
	want.Count = 40
	if diff := cmp.Diff(want, bg); diff != "" {
		t.Fatalf("background mismatch (-want +got):\n%s", diff)
	}

	th := cfg.Theme(nil)
	if th.CSSVars["--sf-accent"] != "#22c55e" {
		t.Fatalf("palette not applied: %v", th.CSSVars)
	}
}

func TestParseConfigFileErrors(t *testing.T) {
	if _, err := parse(t, "-config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}

	path := writeFile(t, "titel: typo\n")
	if _, err := parse(t, "-config", path); err == nil {
		t.Fatal("expected unknown key error")
	}

	empty := writeFile(t, "")
	if _, err := parse(t, "-config", empty); err != nil {
		t.Fatalf("empty file should be accepted: %v", err)
	}
}

func TestParseConfigValidation(t *testing.T) {
	for _, mask := range []string{"##", "", "-", "0", "7"} {
		if _, err := parse(t, "-mask", mask); !errors.Is(err, ErrInvalidMask) {
			t.Fatalf("mask %q: expected ErrInvalidMask, got %v", mask, err)
		}
	}
	if _, err := parse(t, "-mask", "•"); err != nil {
		t.Fatalf("mask bullet: %v", err)
	}
	if _, err := parse(t, "-rate", "-1"); err == nil {
		t.Fatal("expected negative rate error")
	}
	if _, err := parse(t, "-rate", "3", "-burst", "0"); err == nil {
		t.Fatal("expected burst error")
	}
	if _, err := parse(t, "-rate", "0", "-burst", "0"); err != nil {
		t.Fatalf("burst is irrelevant without limiting: %v", err)
	}
}

func TestThemeKeepsBase(t *testing.T) {
	cfg := Default()
	cfg.Palette = map[string]string{"--sf-bg": "#000000", "muted": "#cccccc"}

	base := &themeFixture
	got := cfg.Theme(base)
	if got.CSSVars["--sf-bg"] != "#000000" || got.CSSVars["--sf-muted"] != "#cccccc" {
		t.Fatalf("unexpected vars %v", got.CSSVars)
	}
	if got.CSSVars["--sf-text"] != "#ffffff" {
		t.Fatalf("expected base vars kept, got %v", got.CSSVars)
	}
	if base.CSSVars["--sf-bg"] != "#0d0d0d" {
		t.Fatalf("base was modified: %v", base.CSSVars)
	}
	if got.Theme != "spidr" {
		t.Fatalf("Theme = %q", got.Theme)
	}
}
