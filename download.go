package ggedit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultExportName is the file name every export is delivered under.
const DefaultExportName = "edited_image.png"

// Downloader delivers exported bytes to the user under a file name.
// Delivering the same name twice overwrites the earlier file.
type Downloader interface {
	Deliver(ctx context.Context, name string, data []byte) error
}

// DirDownloader writes deliveries into a directory.
type DirDownloader struct {
	Dir string
}

// Deliver writes data to Dir/name through a temp file and a rename, so a
// reader never sees a partial image.
func (d DirDownloader) Deliver(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("download: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, filepath.Base(name))); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	return nil
}

// DownloaderFunc adapts a function to the Downloader interface.
type DownloaderFunc func(ctx context.Context, name string, data []byte) error

// Deliver calls f.
func (f DownloaderFunc) Deliver(ctx context.Context, name string, data []byte) error {
	return f(ctx, name, data)
}
