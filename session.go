package ggedit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/gogpu/ggedit/internal/blob"
	"github.com/gogpu/ggedit/internal/image"
)

// ExportResult is delivered by StartExport when the export finishes.
type ExportResult struct {
	Entry Entry
	Err   error
}

// Session is the editor's application state: the loaded source image, the
// filter state and selection, the gallery and the viewer.
//
// All mutations are serialized. Preview subscribers are called
// synchronously, in commit order, after each mutation that changes the
// preview. They may read the Session but must not mutate it.
type Session struct {
	// notifyMu is held by a mutator from its start until its subscribers
	// have returned; mu guards the fields below. Lock order: notifyMu, mu.
	notifyMu sync.Mutex
	mu       sync.Mutex

	opts     options
	exporter *Exporter

	state    State
	selected int
	source   Handle

	viewer        Viewer
	galleryShown  bool
	subscribers   map[int]func(Preview)
	nextSubscribe int
}

// NewSession creates a session with default filter values and no source
// image.
func NewSession(opts ...Option) *Session {
	o := buildOptions(opts)
	return &Session{
		opts:        o,
		exporter:    &Exporter{opts: o},
		state:       NewState(),
		subscribers: make(map[int]func(Preview)),
	}
}

// Exporter returns the session's export pipeline.
func (s *Session) Exporter() *Exporter { return s.exporter }

// Upload reads and validates an image, stores it and makes it the source
// image. When upload recording is enabled the image is also appended to the
// gallery without an edited counterpart.
//
// If r cannot be decoded Upload returns ErrImageDecode and the previous
// source stays in place. name is informational.
func (s *Session) Upload(ctx context.Context, name string, r io.Reader) (Handle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		s.opts.metrics.Upload(false)
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pm, format, err := image.DecodeBytes(data)
	if err != nil {
		s.opts.metrics.Upload(false)
		return "", fmt.Errorf("%w: upload %s: %w", ErrImageDecode, name, err)
	}

	key := "uploads/" + s.opts.newID() + image.Extension(format)
	_, err = s.opts.store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
		ContentType: "image/" + format,
		Metadata:    map[string]string{"filename": name},
	})
	if err != nil {
		s.opts.metrics.Upload(false)
		return "", fmt.Errorf("upload %s: store: %w", name, err)
	}
	h := Handle(key)

	if s.opts.recordUploads {
		if err := s.opts.gallery.Append(ctx, Entry{Original: h}); err != nil {
			s.opts.metrics.Upload(false)
			_ = s.opts.store.Delete(context.WithoutCancel(ctx), key)
			return "", fmt.Errorf("upload %s: record in gallery: %w", name, err)
		}
		s.opts.observeGallery(ctx)
	}
	if c := s.opts.sources; c != nil {
		c.Set(h, pm)
	}
	s.opts.metrics.Upload(true)
	Logger().Info("ggedit: image uploaded",
		"name", name,
		"handle", key,
		"format", format,
		"size", fmt.Sprintf("%dx%d", pm.Width(), pm.Height()),
		"bytes", humanize.Bytes(uint64(len(data))),
	)

	s.lockForCommit()
	s.source = h
	s.syncViewerLocked(ctx)
	s.commitLocked()
	return h, nil
}

// Source returns the current source image handle.
func (s *Session) Source() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Select makes filter i the target of SetValue. Selection does not change
// the compiled transform.
func (s *Session) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= s.state.Len() {
		return fmt.Errorf("select filter %d: %w", i, ErrIndexOutOfRange)
	}
	s.selected = i
	return nil
}

// Selected returns the index of the selected filter.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetValue sets the selected filter's value.
func (s *Session) SetValue(v float64) error {
	s.lockForCommit()
	return s.setLocked(s.selected, v)
}

// SetFilter sets filter i's value without changing the selection.
func (s *Session) SetFilter(i int, v float64) error {
	s.lockForCommit()
	return s.setLocked(i, v)
}

// setLocked is called with both locks held and releases them.
func (s *Session) setLocked(i int, v float64) error {
	next, err := s.state.SetValue(i, v)
	if err != nil {
		s.mu.Unlock()
		s.notifyMu.Unlock()
		return err
	}
	s.state = next
	s.commitLocked()
	return nil
}

// Reset restores every filter to its default.
func (s *Session) Reset() {
	s.lockForCommit()
	s.state = s.state.Reset()
	s.commitLocked()
}

// State returns the current filter state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transform returns the compiled current state.
func (s *Session) Transform() Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Compile(s.state)
}

// Preview returns the current preview, or false when no image is loaded.
func (s *Session) Preview() (Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RenderPreview(s.source, Compile(s.state))
}

// Subscribe registers fn to receive the new preview after every change.
// The returned function removes the subscription.
func (s *Session) Subscribe(fn func(Preview)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubscribe
	s.nextSubscribe++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// lockForCommit takes the locks a mutation needs, in order.
func (s *Session) lockForCommit() {
	s.notifyMu.Lock()
	s.mu.Lock()
}

// commitLocked is called with both locks held after a mutation. It releases
// s.mu, pushes the new preview to subscribers and then releases notifyMu, so
// notifications keep commit order while subscribers can still read.
func (s *Session) commitLocked() {
	p, ok := RenderPreview(s.source, Compile(s.state))
	subs := make([]func(Preview), 0, len(s.subscribers))
	for i := 0; i < s.nextSubscribe; i++ {
		if fn, found := s.subscribers[i]; found {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	if !ok {
		return
	}
	s.opts.metrics.Preview()
	for _, fn := range subs {
		notify(fn, p)
	}
}

func notify(fn func(Preview), p Preview) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("ggedit: preview subscriber panicked", "panic", r)
		}
	}()
	fn(p)
}

// snapshot captures what an export needs under the lock.
func (s *Session) snapshot() (Handle, Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, Compile(s.state)
}

func (s *Session) exportContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.exportTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.exportTimeout)
	}
	return context.WithCancel(ctx)
}

// Export exports the current source with the current filters and waits for
// the result. Filter changes made while the export runs do not affect it.
func (s *Session) Export(ctx context.Context) (Entry, error) {
	r := <-s.StartExport(ctx)
	return r.Entry, r.Err
}

// StartExport snapshots the source and filters before returning, then
// exports in the background. The channel receives exactly one result.
func (s *Session) StartExport(ctx context.Context) <-chan ExportResult {
	src, t := s.snapshot()
	out := make(chan ExportResult, 1)
	if src.IsZero() {
		out <- ExportResult{Err: ErrNoSource}
		return out
	}
	ctx, cancel := s.exportContext(ctx)
	go func() {
		defer cancel()
		entry, err := s.exporter.Export(ctx, src, t)
		if err == nil {
			s.mu.Lock()
			s.syncViewerLocked(ctx)
			s.mu.Unlock()
		}
		out <- ExportResult{Entry: entry, Err: err}
	}()
	return out
}

// Gallery returns a copy of the gallery entries.
func (s *Session) Gallery(ctx context.Context) ([]Entry, error) {
	return s.opts.gallery.All(ctx)
}

// GalleryVisible reports whether the gallery grid is shown.
func (s *Session) GalleryVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.galleryShown
}

// ToggleGallery shows or hides the gallery grid and returns the new state.
func (s *Session) ToggleGallery() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.galleryShown = !s.galleryShown
	return s.galleryShown
}

// OpenEntry opens the viewer on gallery entry i and hides the gallery grid.
func (s *Session) OpenEntry(ctx context.Context, i int) error {
	entries, err := s.opts.gallery.All(ctx)
	if err != nil {
		return fmt.Errorf("open entry %d: %w", i, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.viewer.Open(entries, i); err != nil {
		return err
	}
	s.galleryShown = false
	return nil
}

// CloseViewer closes the viewer. In-flight exports are unaffected.
func (s *Session) CloseViewer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer.Close()
}

// NextEntry advances the viewer, wrapping around.
func (s *Session) NextEntry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer.Next()
}

// PreviousEntry moves the viewer back, wrapping around.
func (s *Session) PreviousEntry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer.Previous()
}

// Viewer returns a copy of the viewer state.
func (s *Session) Viewer() Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.viewer
	v.entries = append([]Entry(nil), s.viewer.entries...)
	return v
}

// syncViewerLocked refreshes an open viewer after the gallery grew.
func (s *Session) syncViewerLocked(ctx context.Context) {
	if !s.viewer.IsOpen() {
		return
	}
	entries, err := s.opts.gallery.All(context.WithoutCancel(ctx))
	if err != nil {
		Logger().Warn("ggedit: refresh viewer", "err", err)
		return
	}
	s.viewer.Sync(entries)
}
