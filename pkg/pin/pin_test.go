package pin

import (
	"strings"
	"testing"
)

func TestDigits(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "mixed", raw: "abc1234xyz5678", want: "12345678"},
		{name: "formatted", raw: "1234-5678-9012-3456", want: "1234567890123456"},
		{name: "truncates", raw: "12345678901234567890", want: "1234567890123456"},
		{name: "non ascii digits", raw: "١٢٣4", want: "4"},
		{name: "no digits", raw: "abcd-efgh", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Digits(tc.raw); got != tc.want {
				t.Fatalf("Digits(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"1":                "1",
		"1234":             "1234",
		"12345":            "1234-5",
		"12345678":         "1234-5678",
		"123456789":        "1234-5678-9",
		"1234567890123456": "1234-5678-9012-3456",
		"abc1234xyz5678":   "1234-5678",
	}
	for input, want := range cases {
		if got := Format(input); got != want {
			t.Fatalf("Format(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormat_HyphenCountAndRoundTrip(t *testing.T) {
	const source = "1234567890123456"
	for n := 0; n <= len(source); n++ {
		d := source[:n]
		formatted := Format(d)

		wantHyphens := 0
		if n > GroupSize {
			wantHyphens = (n+GroupSize-1)/GroupSize - 1
		}
		if got := strings.Count(formatted, "-"); got != wantHyphens {
			t.Fatalf("Format(%q) has %d hyphens, want %d", d, got, wantHyphens)
		}
		if strings.HasSuffix(formatted, "-") {
			t.Fatalf("Format(%q) = %q has a trailing hyphen", d, formatted)
		}
		for i, r := range formatted {
			if r == '-' && (i+1)%(GroupSize+1) != 0 {
				t.Fatalf("Format(%q) = %q has a hyphen at %d", d, formatted, i)
			}
		}
		if got := Unformat(formatted); got != d {
			t.Fatalf("Unformat(Format(%q)) = %q", d, got)
		}
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"12":                  "##",
		"abc1234xyz5678":      "####-####",
		"1234-5678-9012-3456": "####-####-####-####",
	}
	for input, want := range cases {
		if got := Mask(input, DefaultMask); got != want {
			t.Fatalf("Mask(%q) = %q, want %q", input, got, want)
		}
	}
	if got := Mask("123456", 0); got != "####-##" {
		t.Fatalf("zero mask should fall back to default, got %q", got)
	}
	if got := Mask("123456", '*'); got != "****-**" {
		t.Fatalf("custom mask = %q", got)
	}
}

func TestMask_MatchesFormatShape(t *testing.T) {
	const source = "9876543210987654"
	for n := 0; n <= len(source); n++ {
		d := source[:n]
		formatted := Format(d)
		masked := Mask(d, DefaultMask)
		if len(masked) != len(formatted) {
			t.Fatalf("length mismatch for %q: %q vs %q", d, masked, formatted)
		}
		for i := range formatted {
			switch {
			case formatted[i] == '-' && masked[i] != '-':
				t.Fatalf("hyphen moved for %q: %q", d, masked)
			case formatted[i] != '-' && masked[i] != byte(DefaultMask):
				t.Fatalf("digit leaked for %q: %q", d, masked)
			}
		}
	}
}

func TestComplete(t *testing.T) {
	if !Complete("1234567890123456") {
		t.Fatalf("expected 16 digits to be complete")
	}
	if Complete("123456789012345") || Complete("1234-5678-9012-3456") {
		t.Fatalf("expected short or formatted input to be incomplete")
	}
}
