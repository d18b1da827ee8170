package filter

import (
	"image/color"
	"testing"

	"github.com/gogpu/ggedit/internal/image"
	"github.com/gogpu/ggedit/internal/parallel"
)

func TestIdentityMatrix(t *testing.T) {
	f := IdentityMatrix()
	if !f.IsIdentity() {
		t.Fatal("IdentityMatrix().IsIdentity() = false")
	}
	if !Brightness(1).IsIdentity() || !Contrast(1).IsIdentity() {
		t.Error("brightness(1) and contrast(1) should be exact identities")
	}
	if Brightness(1.5).IsIdentity() {
		t.Error("brightness(1.5) reported as identity")
	}
}

func TestColorMatrixApplyNilPixmaps(t *testing.T) {
	f := Brightness(2)
	p := createTestPixmap(2, 2, gray(10))

	// Should not panic
	f.Apply(nil, nil, nil)
	f.Apply(p, nil, nil)
	f.Apply(nil, p, nil)
}

func TestColorMatrixIdentityCopies(t *testing.T) {
	src := createTestPixmap(3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 200})
	dst := createTestPixmap(3, 3, gray(0))

	IdentityMatrix().Apply(src, dst, nil)

	for i, v := range src.Data() {
		if dst.Data()[i] != v {
			t.Fatalf("byte %d = %d, want %d", i, dst.Data()[i], v)
		}
	}
}

func TestBrightness(t *testing.T) {
	tests := []struct {
		amount float64
		input  uint8
		want   uint8
	}{
		{0, 255, 0},
		{1, 128, 128},
		{2, 64, 128},
		{0.5, 255, 128},
		{2, 200, 255}, // clamped
	}

	for _, tt := range tests {
		p := createTestPixmap(1, 1, gray(tt.input))
		Brightness(tt.amount).Apply(p, p, nil)

		if !pixelNear(p, 0, 0, [4]uint8{tt.want, tt.want, tt.want, 255}, 1) {
			r, _, _, _ := p.RGBA(0, 0)
			t.Errorf("Brightness(%v) on %d: R = %d, want ~%d", tt.amount, tt.input, r, tt.want)
		}
	}
}

func TestContrast(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		input  uint8
		want   uint8
	}{
		{"unchanged", 1, 77, 77},
		{"flat low", 0, 0, 128},
		{"flat high", 0, 255, 128},
		{"high contrast clamps", 2, 200, 255},
		{"high contrast dark", 2, 64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestPixmap(1, 1, gray(tt.input))
			Contrast(tt.amount).Apply(p, p, nil)

			if !pixelNear(p, 0, 0, [4]uint8{tt.want, tt.want, tt.want, 255}, 1) {
				r, _, _, _ := p.RGBA(0, 0)
				t.Errorf("Contrast(%v) on %d: R = %d, want ~%d", tt.amount, tt.input, r, tt.want)
			}
		})
	}
}

func TestSaturateZeroIsGray(t *testing.T) {
	p := createTestPixmap(1, 1, color.NRGBA{R: 255, A: 255})
	Saturate(0).Apply(p, p, nil)

	r, g, b, _ := p.RGBA(0, 0)
	if r != g || g != b {
		t.Errorf("saturate(0) should give equal channels: (%d, %d, %d)", r, g, b)
	}
	// 0.213 * 255
	if r < 53 || r > 56 {
		t.Errorf("saturate(0) red luminance = %d, want ~54", r)
	}
}

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   [4]uint8
	}{
		{"none", 0, [4]uint8{255, 0, 0, 255}},
		{"full", 1, [4]uint8{54, 54, 54, 255}},
		{"clamped above one", 3, [4]uint8{54, 54, 54, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestPixmap(1, 1, color.NRGBA{R: 255, A: 255})
			Grayscale(tt.amount).Apply(p, p, nil)
			if !pixelNear(p, 0, 0, tt.want, 1) {
				r, g, b, a := p.RGBA(0, 0)
				t.Errorf("Grayscale(%v) = (%d,%d,%d,%d), want %v", tt.amount, r, g, b, a, tt.want)
			}
		})
	}
}

func TestSepiaFull(t *testing.T) {
	p := createTestPixmap(1, 1, gray(255))
	Sepia(1).Apply(p, p, nil)

	// White row sums: 1.351, 1.203, 0.937
	if !pixelNear(p, 0, 0, [4]uint8{255, 255, 239, 255}, 1) {
		r, g, b, a := p.RGBA(0, 0)
		t.Errorf("Sepia(1) on white = (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestHueRotate(t *testing.T) {
	t.Run("zero is near identity", func(t *testing.T) {
		p := createTestPixmap(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		HueRotate(0).Apply(p, p, nil)
		if !pixelNear(p, 0, 0, [4]uint8{200, 100, 50, 255}, 1) {
			r, g, b, _ := p.RGBA(0, 0)
			t.Errorf("HueRotate(0) = (%d,%d,%d)", r, g, b)
		}
	})

	t.Run("full turn matches zero", func(t *testing.T) {
		a := HueRotate(0)
		b := HueRotate(360)
		for i := range a.Matrix {
			if absf32(a.Matrix[i]-b.Matrix[i]) > 1e-5 {
				t.Fatalf("Matrix[%d]: %v vs %v", i, a.Matrix[i], b.Matrix[i])
			}
		}
	})

	t.Run("gray is invariant", func(t *testing.T) {
		p := createTestPixmap(1, 1, gray(128))
		HueRotate(137).Apply(p, p, nil)
		if !pixelNear(p, 0, 0, [4]uint8{128, 128, 128, 255}, 1) {
			r, g, b, _ := p.RGBA(0, 0)
			t.Errorf("HueRotate(137) on gray = (%d,%d,%d)", r, g, b)
		}
	})
}

func TestColorMatrixPreservesPremultiplication(t *testing.T) {
	// 50% transparent white, premultiplied (128,128,128,128)
	p := createTestPixmap(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	Brightness(0.5).Apply(p, p, nil)

	r, g, b, a := p.RGBA(0, 0)
	if a != 128 {
		t.Errorf("alpha = %d, want 128", a)
	}
	if r > a || g > a || b > a {
		t.Errorf("premultiplied color exceeds alpha: (%d,%d,%d,%d)", r, g, b, a)
	}
	if r < 63 || r > 65 {
		t.Errorf("R = %d, want ~64", r)
	}
}

func TestColorMatrixParallelMatchesSerial(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	src, _ := image.NewPixmap(64, 97)
	for y := range 97 {
		for x := range 64 {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 2), B: uint8(x + y), A: 255})
		}
	}
	serial := src.Clone()
	par := src.Clone()

	HueRotate(45).Apply(serial, serial, nil)
	HueRotate(45).Apply(par, par, pool)

	for i, v := range serial.Data() {
		if par.Data()[i] != v {
			t.Fatalf("byte %d: parallel %d, serial %d", i, par.Data()[i], v)
		}
	}
}
