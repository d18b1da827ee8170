package ggedit

import "fmt"

// Viewer is the lightbox state machine: Closed, or Open at an index into a
// list of gallery entries. The zero value is a closed viewer.
//
// Viewer is not safe for concurrent use; Session guards its own.
type Viewer struct {
	entries   []Entry
	index     int
	open      bool
	displayed Entry
}

// Open opens the viewer on entries[index]. It returns ErrNoOp and stays
// closed when entries is empty, and ErrIndexOutOfRange for a bad index.
func (v *Viewer) Open(entries []Entry, index int) error {
	if len(entries) == 0 {
		return fmt.Errorf("open viewer: empty gallery: %w", ErrNoOp)
	}
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("open viewer at %d of %d: %w", index, len(entries), ErrIndexOutOfRange)
	}
	v.entries = append(v.entries[:0:0], entries...)
	v.index = index
	v.open = true
	v.displayed = v.entries[index]
	return nil
}

// Close closes the viewer. Closing a closed viewer does nothing.
func (v *Viewer) Close() {
	v.open = false
	v.entries = nil
	v.index = 0
	v.displayed = Entry{}
}

// Next advances to the following entry, wrapping from the last to the first.
func (v *Viewer) Next() { v.step(1) }

// Previous moves to the preceding entry, wrapping from the first to the last.
func (v *Viewer) Previous() { v.step(-1) }

func (v *Viewer) step(delta int) {
	n := len(v.entries)
	if !v.open || n == 0 {
		return
	}
	v.index = ((v.index+delta)%n + n) % n
	v.displayed = v.entries[v.index]
}

// Sync replaces the entry list, e.g. after the gallery grew while the viewer
// was open. The index is kept when still valid, otherwise clamped to the
// last entry; an empty list closes the viewer.
func (v *Viewer) Sync(entries []Entry) {
	if !v.open {
		return
	}
	if len(entries) == 0 {
		v.Close()
		return
	}
	v.entries = append(v.entries[:0:0], entries...)
	if v.index >= len(v.entries) {
		v.index = len(v.entries) - 1
	}
	v.displayed = v.entries[v.index]
}

// IsOpen reports whether the viewer is open.
func (v Viewer) IsOpen() bool { return v.open }

// Index returns the current index; it is meaningful only while open.
func (v Viewer) Index() int { return v.index }

// Len returns the number of entries being browsed.
func (v Viewer) Len() int { return len(v.entries) }

// Displayed returns the entry being shown and whether the viewer is open.
func (v Viewer) Displayed() (Entry, bool) {
	if !v.open {
		return Entry{}, false
	}
	return v.displayed, true
}

// DisplayHandle returns the image to show: the edited image if the entry has
// one, otherwise its original. It is zero while closed.
func (v Viewer) DisplayHandle() Handle {
	e, ok := v.Displayed()
	if !ok {
		return ""
	}
	return e.Display()
}
