// Package testsupport holds helpers shared by the package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// MustParseHTML parses rendered markup into a goquery document.
func MustParseHTML(t *testing.T, markup []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// MustAttr returns the attribute of the single element matched by selector.
func MustAttr(t *testing.T, doc *goquery.Document, selector, attr string) string {
	t.Helper()

	sel := doc.Find(selector)
	if sel.Length() != 1 {
		t.Fatalf("selector %q matched %d elements, want 1", selector, sel.Length())
	}
	value, ok := sel.Attr(attr)
	if !ok {
		t.Fatalf("selector %q is missing attribute %q", selector, attr)
	}
	return value
}

// NewLogger returns a logger without flags writing into the returned buffer,
// so tests can assert exact diagnostic lines.
func NewLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

// Lines splits logger output into trimmed non-empty lines.
func Lines(buf *bytes.Buffer) []string {
	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
