package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	// Registered decoders for the upload boundary.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when no registered decoder recognises the data.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Decode decodes an image from r, auto-detecting the format, and returns it
// as a pixmap at its native size together with the format name.
func Decode(r io.Reader) (*Pixmap, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("image: decode: %w", err)
	}
	pm, err := FromStdImage(img)
	if err != nil {
		return nil, "", fmt.Errorf("image: decode %s: %w", format, err)
	}
	return pm, format, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (*Pixmap, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Extension returns the canonical file extension for a format name reported
// by Decode, or ".img" when the format is unknown.
func Extension(format string) string {
	switch format {
	case "png":
		return ".png"
	case "jpeg":
		return ".jpg"
	case "gif":
		return ".gif"
	case "bmp":
		return ".bmp"
	case "tiff":
		return ".tiff"
	case "webp":
		return ".webp"
	default:
		return ".img"
	}
}

// EncodePNG encodes the pixmap as PNG to the given writer.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, p.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeToBytes encodes the pixmap to PNG format and returns the bytes.
func (p *Pixmap) EncodeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
