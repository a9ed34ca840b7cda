package common

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
		err  bool
	}{
		{"#080808", color.NRGBA{R: 8, G: 8, B: 8, A: 255}, false},
		{"00f2ff", color.NRGBA{R: 0, G: 0xf2, B: 0xff, A: 255}, false},
		{"#ff000080", color.NRGBA{R: 255, A: 0x80}, false},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"white", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"#12", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseHexColor(c.in)
			if c.err {
				if err == nil {
					t.Fatalf("expected error for %q", c.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestColorOrFallsBack(t *testing.T) {
	def := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	if got := ColorOr("", def); got != def {
		t.Fatalf("expected default for empty input, got %v", got)
	}
	if got := ColorOr("nope", def); got != def {
		t.Fatalf("expected default for malformed input, got %v", got)
	}
}
