// Package ggedit is the core of a small image editor: seven adjustable
// filters, a live preview description and a pixel-exact PNG export.
//
// # Overview
//
// A user loads a raster image, adjusts brightness, contrast, saturation,
// grayscale, sepia, hue rotation and blur, previews the combined effect,
// exports the result and browses earlier exports in a gallery viewer.
//
// # Quick Start
//
//	import "github.com/gogpu/ggedit"
//
//	s := ggedit.NewSession(ggedit.WithDownloader(ggedit.DirDownloader{Dir: "out"}))
//
//	f, _ := os.Open("photo.jpg")
//	defer f.Close()
//	if _, err := s.Upload(ctx, "photo.jpg", f); err != nil {
//	    return err
//	}
//
//	i, _ := ggedit.LookupKind("brightness")
//	_ = s.SetFilter(i, 150)
//
//	entry, err := s.Export(ctx) // writes out/edited_image.png
//
// # Filter model
//
// The filter catalog ([Defaults]) is fixed. A [State] holds one value per
// filter, always inside the filter's range. [Compile] turns a State into a
// [Transform] whose String form is a CSS filter value such as
//
//	brightness(150%) contrast(100%) saturate(100%) grayscale(0%) sepia(0%) hue-rotate(0deg) blur(0px)
//
// That string is the only thing the preview and the export share: the
// export pipeline parses it back and applies it with CSS Filter Effects
// semantics, so what is exported is what was previewed.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Session, State, Transform, Exporter, Gallery, Viewer
//   - Internal: filter (parse and apply), image (pixmap, codecs),
//     parallel (row bands), blob (handle storage), history (SQLite gallery),
//     metrics (Prometheus), config (viper)
//   - Command: cmd/ggedit
//
// # Concurrency
//
// Session serializes mutations. Exports run on a snapshot taken when they
// start, so later edits never leak into an export in flight.
package ggedit

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
