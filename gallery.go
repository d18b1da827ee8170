package ggedit

import (
	"context"
	"sync"
	"time"
)

// Entry is one gallery record: an original image and, when the entry came
// from an export, the edited result.
type Entry struct {
	Original  Handle
	Edited    Handle // zero when the entry records a bare upload
	CreatedAt time.Time
}

// Display returns the handle a viewer should show: the edited image when
// present, otherwise the original.
func (e Entry) Display() Handle {
	if !e.Edited.IsZero() {
		return e.Edited
	}
	return e.Original
}

// Gallery is an append-only, insertion-ordered list of entries.
type Gallery interface {
	Append(ctx context.Context, e Entry) error
	All(ctx context.Context) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}

// MemoryGallery is a Gallery held in process memory. It is safe for
// concurrent use and its methods never fail.
type MemoryGallery struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryGallery returns an empty gallery.
func NewMemoryGallery() *MemoryGallery { return &MemoryGallery{} }

// Append adds e at the end.
func (g *MemoryGallery) Append(_ context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	g.mu.Lock()
	g.entries = append(g.entries, e)
	g.mu.Unlock()
	return nil
}

// All returns a copy of the entries in insertion order.
func (g *MemoryGallery) All(context.Context) ([]Entry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out, nil
}

// Count returns the number of entries.
func (g *MemoryGallery) Count(context.Context) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries), nil
}
