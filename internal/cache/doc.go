// Package cache provides a small generic LRU cache.
//
// The export pipeline keeps recently decoded source images here, keyed by
// handle. Handles are create-only, so a cached entry never goes stale.
//
//	c := cache.New[string, *image.Pixmap](8)
//	c.Set("uploads/a.png", pm)
//	pm, ok := c.Get("uploads/a.png")
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
