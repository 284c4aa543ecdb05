package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-spidrform/pkg/model"
)

// Constraint failures mirror the browser's constraint-validation states.
var (
	ErrValueMissing    = errors.New("value is required")
	ErrTooLong         = errors.New("value is too long")
	ErrPatternMismatch = errors.New("value does not match the requested format")
)

var patternCache sync.Map

// Constraints evaluates the HTML constraint attributes of a field (required,
// maxlength, pattern) the way a browser does before allowing submission.
// Renderers without a browser, such as the terminal prompts, use it to keep
// the same contract.
type Constraints struct {
	Required  bool
	MaxLength int
	Pattern   *regexp.Regexp
}

// ConstraintsFor compiles the constraints of field. HTML patterns match the
// whole value, so the expression is anchored before compiling.
func ConstraintsFor(field model.Field) (Constraints, error) {
	c := Constraints{
		Required:  field.Required,
		MaxLength: field.MaxLength,
	}
	if field.Pattern == "" {
		return c, nil
	}
	re, err := compilePattern(field.Pattern)
	if err != nil {
		return Constraints{}, fmt.Errorf("render: field %q pattern: %w", field.Name, err)
	}
	c.Pattern = re
	return c, nil
}

// Check validates value. Empty optional values pass regardless of pattern,
// as in the browser.
func (c Constraints) Check(value string) error {
	if value == "" {
		if c.Required {
			return ErrValueMissing
		}
		return nil
	}
	if c.MaxLength > 0 && utf8.RuneCountInString(value) > c.MaxLength {
		return fmt.Errorf("%w (max %d characters)", ErrTooLong, c.MaxLength)
	}
	if c.Pattern != nil && !c.Pattern.MatchString(value) {
		return ErrPatternMismatch
	}
	return nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(anchorPattern(pattern))
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}

func anchorPattern(pattern string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$")
	return "^(?:" + trimmed + ")$"
}
