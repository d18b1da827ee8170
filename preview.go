package ggedit

// Handle is an opaque reference to stored image bytes, such as
// "uploads/<uuid>.jpg". The empty Handle means no image.
type Handle string

// IsZero reports whether h refers to no image.
func (h Handle) IsZero() bool { return h == "" }

// Preview is the display instruction for the live preview: show Source with
// the CSS filter value Filter applied.
type Preview struct {
	Source Handle
	Filter string
}

// RenderPreview pairs a source image with a compiled transform. It reports
// false when there is no source image, in which case there is nothing to
// show.
func RenderPreview(src Handle, t Transform) (Preview, bool) {
	if src.IsZero() {
		return Preview{}, false
	}
	return Preview{Source: src, Filter: t.String()}, true
}
