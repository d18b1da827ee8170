package filter

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseDefaultChain(t *testing.T) {
	text := "brightness(100%) contrast(100%) saturate(100%) grayscale(0%) sepia(0%) hue-rotate(0deg) blur(0px)"

	c, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 7 {
		t.Fatalf("Len = %d, want 7", c.Len())
	}

	wantNames := []string{"brightness", "contrast", "saturate", "grayscale", "sepia", "hue-rotate", "blur"}
	for i, fn := range c.Functions() {
		if fn.Name != wantNames[i] {
			t.Errorf("function %d = %q, want %q", i, fn.Name, wantNames[i])
		}
	}
	if c.String() != text {
		t.Errorf("String() = %q, want %q", c.String(), text)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "none", "NONE"} {
		c, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if c.Len() != 0 || c.String() != "none" {
			t.Errorf("Parse(%q) = %q, want empty chain", text, c.String())
		}
	}
}

func TestParseArguments(t *testing.T) {
	tests := []struct {
		text string
		want Function
	}{
		{"brightness(1.5)", Function{"brightness", 1.5, ""}},
		{"Contrast( 80% )", Function{"contrast", 80, "%"}},
		{"hue-rotate(0.5turn)", Function{"hue-rotate", 0.5, "turn"}},
		{"hue-rotate(0)", Function{"hue-rotate", 0, ""}},
		{"blur(2.5px)", Function{"blur", 2.5, "px"}},
		{"blur(0)", Function{"blur", 0, ""}},
		{"sepia()", Function{"sepia", 0, ""}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := c.Functions()[0]; got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{"brightness", ErrSyntax},
		{"brightness(100%", ErrSyntax},
		{"(100%)", ErrSyntax},
		{"brightness(1)contrast(1)", ErrSyntax},
		{"invert(100%)", ErrUnknownFunction},
		{"opacity(50%)", ErrUnknownFunction},
		{"brightness(-1)", ErrInvalidArgument},
		{"brightness(50px)", ErrInvalidArgument},
		{"brightness(abc)", ErrInvalidArgument},
		{"hue-rotate(90)", ErrInvalidArgument},
		{"blur(2)", ErrInvalidArgument},
		{"blur(-1px)", ErrInvalidArgument},
		{"blur(5%)", ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) err = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestChainApplyOrderMatters(t *testing.T) {
	// brightness then contrast clamps in between, so order changes the result
	a, _ := Parse("brightness(200%) contrast(50%)")
	b, _ := Parse("contrast(50%) brightness(200%)")

	pa := createTestPixmap(1, 1, gray(200))
	pb := createTestPixmap(1, 1, gray(200))
	a.Apply(pa, nil)
	b.Apply(pb, nil)

	ra, _, _, _ := pa.RGBA(0, 0)
	rb, _, _, _ := pb.RGBA(0, 0)

	// a: min(400,255)=255 -> (255-127.5)*0.5+127.5 = 191
	// b: (200-127.5)*0.5+127.5 = 163.75 -> *2 = 255
	if ra != 191 || rb != 255 {
		t.Errorf("got a=%d b=%d, want a=191 b=255", ra, rb)
	}
}

func TestChainApplyNeutralIsLossless(t *testing.T) {
	c, err := Parse("brightness(100%) contrast(100%) saturate(100%) grayscale(0%) sepia(0%) hue-rotate(0deg) blur(0px)")
	if err != nil {
		t.Fatal(err)
	}
	p := createTestPixmap(4, 4, color.NRGBA{R: 12, G: 200, B: 99, A: 255})
	want := p.Clone()

	c.Apply(p, nil)

	for i, v := range want.Data() {
		if p.Data()[i] != v {
			t.Fatalf("neutral chain changed byte %d: %d -> %d", i, v, p.Data()[i])
		}
	}
}

func TestAmountDefaultsWhenOmitted(t *testing.T) {
	// sepia() means sepia(1)
	c, err := Parse("sepia()")
	if err != nil {
		t.Fatal(err)
	}
	p := createTestPixmap(1, 1, gray(255))
	c.Apply(p, nil)
	if !pixelNear(p, 0, 0, [4]uint8{255, 255, 239, 255}, 1) {
		r, g, b, _ := p.RGBA(0, 0)
		t.Errorf("sepia() on white = (%d,%d,%d)", r, g, b)
	}
}
