package filter

import (
	"math"

	"github.com/gogpu/ggedit/internal/image"
	"github.com/gogpu/ggedit/internal/parallel"
)

// ColorMatrix is a 4x5 color transformation applied to straight-alpha RGBA:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Color values are in [0, 255] during the transformation; the fifth column
// is an offset in the same range.
type ColorMatrix struct {
	// Matrix is the 4x5 transformation matrix in row-major order.
	Matrix [20]float32
}

// Luminance weights used by the Filter Effects shorthand functions.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// IdentityMatrix passes pixels through unchanged.
func IdentityMatrix() *ColorMatrix {
	return &ColorMatrix{
		Matrix: [20]float32{
			1, 0, 0, 0, 0,
			0, 1, 0, 0, 0,
			0, 0, 1, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Brightness scales every color channel by amount.
// 0 = black, 1 = unchanged, 2 = twice as bright.
func Brightness(amount float64) *ColorMatrix {
	f := float32(amount)
	return &ColorMatrix{
		Matrix: [20]float32{
			f, 0, 0, 0, 0,
			0, f, 0, 0, 0,
			0, 0, f, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Contrast scales each channel around mid-gray: (c - 127.5) * amount + 127.5.
// 0 = flat gray, 1 = unchanged.
func Contrast(amount float64) *ColorMatrix {
	f := float32(amount)
	offset := 127.5 * (1 - f)
	return &ColorMatrix{
		Matrix: [20]float32{
			f, 0, 0, 0, offset,
			0, f, 0, 0, offset,
			0, 0, f, 0, offset,
			0, 0, 0, 1, 0,
		},
	}
}

// Saturate blends between luminance (0) and the original color (1).
// Values above 1 oversaturate.
func Saturate(amount float64) *ColorMatrix {
	s := float32(amount)
	return &ColorMatrix{
		Matrix: [20]float32{
			0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
			0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
			0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Grayscale converts toward luminance by amount, clamped to [0, 1].
func Grayscale(amount float64) *ColorMatrix {
	inv := float32(1 - clamp01(amount))
	return &ColorMatrix{
		Matrix: [20]float32{
			lumR + (1-lumR)*inv, lumG - lumG*inv, lumB - lumB*inv, 0, 0,
			lumR - lumR*inv, lumG + (1-lumG)*inv, lumB - lumB*inv, 0, 0,
			lumR - lumR*inv, lumG - lumG*inv, lumB + (1-lumB)*inv, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Sepia tones the image by amount, clamped to [0, 1].
func Sepia(amount float64) *ColorMatrix {
	inv := float32(1 - clamp01(amount))
	return &ColorMatrix{
		Matrix: [20]float32{
			0.393 + 0.607*inv, 0.769 - 0.769*inv, 0.189 - 0.189*inv, 0, 0,
			0.349 - 0.349*inv, 0.686 + 0.314*inv, 0.168 - 0.168*inv, 0, 0,
			0.272 - 0.272*inv, 0.534 - 0.534*inv, 0.131 + 0.869*inv, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// HueRotate rotates hue by the given angle in degrees.
func HueRotate(degrees float64) *ColorMatrix {
	rad := degrees * math.Pi / 180
	c := float32(math.Cos(rad))
	s := float32(math.Sin(rad))

	return &ColorMatrix{
		Matrix: [20]float32{
			0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928, 0, 0,
			0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283, 0, 0,
			0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// IsIdentity reports whether the matrix leaves every pixel unchanged.
func (f *ColorMatrix) IsIdentity() bool {
	return f.Matrix == IdentityMatrix().Matrix
}

// Apply transforms src into dst. src and dst may be the same pixmap; they
// must have equal dimensions.
func (f *ColorMatrix) Apply(src, dst *image.Pixmap, pool *parallel.WorkerPool) {
	if src == nil || dst == nil {
		return
	}
	if f.IsIdentity() {
		if src != dst {
			copy(dst.Data(), src.Data())
		}
		return
	}
	pool.ForRows(src.Height(), func(y0, y1 int) {
		f.applyRows(src, dst, y0, y1)
	})
}

func (f *ColorMatrix) applyRows(src, dst *image.Pixmap, y0, y1 int) {
	srcData := src.Data()
	dstData := dst.Data()
	stride := src.Stride()
	m := &f.Matrix

	for i := y0 * stride; i < y1*stride; i += 4 {
		pr := float32(srcData[i+0])
		pg := float32(srcData[i+1])
		pb := float32(srcData[i+2])
		a := float32(srcData[i+3])

		// The matrix coefficients assume straight-alpha color values.
		var r, g, b float32
		if a > 0 {
			r = pr * 255 / a
			g = pg * 255 / a
			b = pb * 255 / a
		}

		newR := clampf(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4])
		newG := clampf(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9])
		newB := clampf(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14])
		newA := clampf(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19])

		// Re-premultiply for storage.
		k := newA / 255
		dstData[i+0] = clampUint8(newR * k)
		dstData[i+1] = clampUint8(newG * k)
		dstData[i+2] = clampUint8(newB * k)
		dstData[i+3] = clampUint8(newA)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// clampf clamps a channel value to [0, 255] without rounding.
func clampf(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// clampUint8 clamps a float32 to [0, 255] and converts to uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
