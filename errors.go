package ggedit

import "errors"

// Sentinel errors. Operations wrap them with context; match with errors.Is.
var (
	// ErrIndexOutOfRange is returned when a filter or gallery index is
	// outside the valid range.
	ErrIndexOutOfRange = errors.New("ggedit: index out of range")

	// ErrInvalidValue is returned for NaN or infinite filter values.
	ErrInvalidValue = errors.New("ggedit: invalid filter value")

	// ErrImageDecode is returned when a source image cannot be decoded.
	ErrImageDecode = errors.New("ggedit: image decode failed")

	// ErrExportTimeout is returned when loading the source for an export is
	// canceled or exceeds its deadline.
	ErrExportTimeout = errors.New("ggedit: export timed out")

	// ErrNoOp reports a request that was ignored, such as opening the viewer
	// on an empty gallery.
	ErrNoOp = errors.New("ggedit: no-op")

	// ErrNoSource is returned when an export is requested before any image
	// has been uploaded.
	ErrNoSource = errors.New("ggedit: no source image")
)
