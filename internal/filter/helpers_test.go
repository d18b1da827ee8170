package filter

import (
	"image/color"

	"github.com/gogpu/ggedit/internal/image"
)

// Test helper functions shared across filter tests.

// createTestPixmap creates a pixmap filled with the given straight-alpha color.
func createTestPixmap(w, h int, c color.NRGBA) *image.Pixmap {
	p, err := image.NewPixmap(w, h)
	if err != nil {
		panic(err)
	}
	for y := range h {
		for x := range w {
			p.SetNRGBA(x, y, c)
		}
	}
	return p
}

// gray returns an opaque gray of the given level.
func gray(v uint8) color.NRGBA {
	return color.NRGBA{R: v, G: v, B: v, A: 255}
}

// pixelNear compares a premultiplied pixel against expected components.
func pixelNear(p *image.Pixmap, x, y int, want [4]uint8, tolerance int) bool {
	r, g, b, a := p.RGBA(x, y)
	got := [4]uint8{r, g, b, a}
	for i := range got {
		d := int(got[i]) - int(want[i])
		if d < -tolerance || d > tolerance {
			return false
		}
	}
	return true
}

// absf32 returns the absolute value of a float32.
func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
