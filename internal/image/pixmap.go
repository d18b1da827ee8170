// Package image provides the pixel surface and raster codecs used by the
// export pipeline.
//
// A Pixmap stores 8-bit RGBA with premultiplied alpha in a contiguous,
// tightly packed slice, which is the layout the blur and color matrix
// passes in internal/filter read and write directly.
package image

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ErrInvalidDimensions is returned when width or height is non-positive.
var ErrInvalidDimensions = errors.New("image: invalid dimensions")

// Pixmap is a premultiplied RGBA8 pixel surface.
//
// Thread safety: concurrent reads are safe. Writers to disjoint rows may run
// concurrently; anything else needs external synchronization.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA premultiplied, 4 bytes per pixel, stride = width*4
}

// NewPixmap creates a transparent pixmap with the given dimensions.
func NewPixmap(width, height int) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}, nil
}

// FromStdImage copies any image.Image into a new pixmap at its native size.
// The origin of the source bounds maps to (0, 0).
func FromStdImage(img image.Image) (*Pixmap, error) {
	b := img.Bounds()
	pm, err := NewPixmap(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path: already premultiplied RGBA with a packed stride.
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == pm.width*4 {
		copy(pm.data, rgba.Pix)
		return pm, nil
	}

	dst := &image.RGBA{Pix: pm.data, Stride: pm.width * 4, Rect: image.Rect(0, 0, pm.width, pm.height)}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return pm, nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int { return p.width * 4 }

// Data returns the raw premultiplied RGBA bytes.
func (p *Pixmap) Data() []uint8 { return p.data }

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// RGBA returns the premultiplied components of a pixel.
// Out-of-bounds coordinates return transparent black.
func (p *Pixmap) RGBA(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// SetNRGBA stores a straight-alpha color, premultiplying it.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetNRGBA(x, y int, c color.NRGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	pc := color.RGBAModel.Convert(c).(color.RGBA)
	p.data[i+0] = pc.R
	p.data[i+1] = pc.G
	p.data[i+2] = pc.B
	p.data[i+3] = pc.A
}

// ToStdImage returns an *image.RGBA sharing a copy of the pixel data.
func (p *Pixmap) ToStdImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	r, g, b, a := p.RGBA(x, y)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
