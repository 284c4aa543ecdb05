// Package pin formats and masks the 16-digit Spidr PIN and tracks whether it
// is currently revealed.
package pin

import "strings"

const (
	// MaxDigits is the number of digits a PIN stores.
	MaxDigits = 16
	// GroupSize is the number of digits between separators.
	GroupSize = 4
	// Separator joins digit groups in the formatted representation.
	Separator = '-'
	// DefaultMask replaces each digit when the PIN is hidden.
	DefaultMask = '#'
)

// Digits keeps the ASCII decimal digits of raw, truncated to MaxDigits.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(min(len(raw), MaxDigits))
	for i := 0; i < len(raw) && b.Len() < MaxDigits; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Format groups the digits of s into chunks of GroupSize joined by
// Separator: "1234567890123456" becomes "1234-5678-9012-3456". Non-digits are
// dropped first, so Format is total over arbitrary input.
func Format(s string) string {
	digits := Digits(s)
	if len(digits) <= GroupSize {
		return digits
	}

	var b strings.Builder
	b.Grow(len(digits) + len(digits)/GroupSize)
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%GroupSize == 0 {
			b.WriteByte(Separator)
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// Mask applies Format and then replaces every digit with mask, keeping the
// separator positions. A zero mask falls back to DefaultMask.
func Mask(s string, mask rune) string {
	if mask == 0 {
		mask = DefaultMask
	}
	formatted := Format(s)

	var b strings.Builder
	b.Grow(len(formatted))
	for _, r := range formatted {
		if r == Separator {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(mask)
	}
	return b.String()
}

// Unformat strips separators from a formatted PIN.
func Unformat(formatted string) string {
	return strings.ReplaceAll(formatted, string(Separator), "")
}

// Complete reports whether digits holds a full PIN.
func Complete(digits string) bool {
	return len(digits) == MaxDigits && Digits(digits) == digits
}
