// Package filter bakes CSS-style filter chains into pixels.
//
// A chain is parsed from the same text that is used as a live preview style
// (for example "brightness(150%) blur(2px)") and applied function by function
// to a premultiplied RGBA pixmap:
//   - brightness, contrast, saturate, grayscale, sepia, hue-rotate are 4x5
//     color matrices evaluated in straight-alpha space
//   - blur is a separable Gaussian with sigma equal to the pixel radius
//
// Each function's output is clamped to [0, 255] before the next one runs,
// matching how browsers evaluate a filter list.
//
// Passes split the image into row bands and run them on an optional
// parallel.WorkerPool.
package filter
