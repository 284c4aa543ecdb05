package pin

import "strings"

// Visibility is the reveal state of the PIN field. The zero value is Hidden.
type Visibility uint8

const (
	Hidden Visibility = iota
	Visible
)

// Toggle flips Hidden and Visible. It is the only transition.
func (v Visibility) Toggle() Visibility {
	if v == Visible {
		return Hidden
	}
	return Visible
}

// IsVisible reports whether the PIN is revealed.
func (v Visibility) IsVisible() bool {
	return v == Visible
}

// Display renders digits the way the field shows them in this state.
func (v Visibility) Display(digits string, mask rune) string {
	if v == Visible {
		return Format(digits)
	}
	return Mask(digits, mask)
}

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// ParseVisibility reads the String form. Anything unrecognised is Hidden.
func ParseVisibility(raw string) Visibility {
	if strings.EqualFold(strings.TrimSpace(raw), "visible") {
		return Visible
	}
	return Hidden
}
