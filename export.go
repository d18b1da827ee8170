package ggedit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/gogpu/ggedit/internal/blob"
	"github.com/gogpu/ggedit/internal/cache"
	"github.com/gogpu/ggedit/internal/filter"
	"github.com/gogpu/ggedit/internal/image"
	"github.com/gogpu/ggedit/internal/metrics"
)

// Result is a baked export.
type Result struct {
	Width  int
	Height int
	Filter string // the filter value that was applied
	PNG    []byte
}

// Size returns the encoded size in bytes.
func (r *Result) Size() int { return len(r.PNG) }

// Exporter bakes a transform into a source image and publishes the result:
// stored as a blob, delivered through the Downloader and recorded in the
// Gallery.
type Exporter struct {
	opts options
}

// NewExporter creates an Exporter. See Option for defaults.
func NewExporter(opts ...Option) *Exporter {
	return &Exporter{opts: buildOptions(opts)}
}

// Gallery returns the gallery exports are appended to.
func (e *Exporter) Gallery() Gallery { return e.opts.gallery }

// Store returns the blob store handles resolve against.
func (e *Exporter) Store() blob.Store { return e.opts.store }

// Bake loads src, applies t at the image's native size and encodes the
// result as PNG. It has no side effects.
//
// Cancellation or deadline of ctx while loading yields ErrExportTimeout; an
// undecodable source yields ErrImageDecode.
func (e *Exporter) Bake(ctx context.Context, src Handle, t Transform) (*Result, error) {
	if src.IsZero() {
		return nil, ErrNoSource
	}
	snap := t.Clone()
	text := snap.String()

	pm, err := e.loadSource(ctx, src)
	if err != nil {
		return nil, err
	}

	chain, err := filter.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("export: filter %q: %w", text, err)
	}
	if err := matchChain(chain.Functions(), snap.Operations()); err != nil {
		return nil, fmt.Errorf("export: filter %q: %w", text, err)
	}
	chain.Apply(pm, e.opts.pool)

	png, err := pm.EncodeToBytes()
	if err != nil {
		return nil, fmt.Errorf("export: encode: %w", err)
	}
	return &Result{Width: pm.Width(), Height: pm.Height(), Filter: text, PNG: png}, nil
}

// matchChain checks that the parsed chain is the transform that was rendered,
// so the pixels baked are the ones the preview showed.
func matchChain(fns []filter.Function, ops []Operation) error {
	if len(fns) != len(ops) {
		return fmt.Errorf("parsed %d functions, want %d", len(fns), len(ops))
	}
	for i, fn := range fns {
		op := ops[i]
		if fn.Name != op.Name || fn.Value != op.Argument || fn.Unit != op.Unit {
			return fmt.Errorf("function %d parsed as %s, want %s", i, fn, op)
		}
	}
	return nil
}

// DecodeCacheStats reports decode cache activity. ok is false when the
// cache is disabled.
func (e *Exporter) DecodeCacheStats() (stats cache.Stats, ok bool) {
	if e.opts.sources == nil {
		return cache.Stats{}, false
	}
	return e.opts.sources.Stats(), true
}

// loadSource returns a private, decoded copy of src. Decoded sources are
// kept in the decode cache when one is configured.
func (e *Exporter) loadSource(ctx context.Context, src Handle) (*image.Pixmap, error) {
	if c := e.opts.sources; c != nil {
		if pm, ok := c.Get(src); ok {
			Logger().Debug("ggedit: decode cache hit", "source", src)
			return pm.Clone(), nil
		}
	}

	data, err := blob.ReadAll(ctx, e.opts.store, string(src))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: load %s: %w", ErrExportTimeout, src, ctxErr)
		}
		return nil, fmt.Errorf("export: load %s: %w", src, err)
	}

	pm, _, err := image.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageDecode, src, err)
	}
	if c := e.opts.sources; c != nil {
		c.Set(src, pm.Clone())
	}
	return pm, nil
}

// Export bakes t into src, stores the PNG under a new "exports/" handle,
// delivers it as the export file and appends {src, edited} to the gallery.
//
// Export is all-or-nothing up to delivery: if any earlier step fails nothing
// is delivered, nothing is appended and the stored blob is removed. A gallery
// append that fails after delivery is the one exception: the user already
// has the file, so the stored blob is kept, no entry is recorded and the
// error is returned.
func (e *Exporter) Export(ctx context.Context, src Handle, t Transform) (Entry, error) {
	start := time.Now()
	entry, size, err := e.export(ctx, src, t)
	e.opts.metrics.Export(exportOutcome(err), time.Since(start), size)
	return entry, err
}

func (e *Exporter) export(ctx context.Context, src Handle, t Transform) (Entry, int, error) {
	res, err := e.Bake(ctx, src, t)
	if err != nil {
		return Entry{}, 0, err
	}
	log := Logger()

	key := "exports/" + e.opts.newID() + ".png"
	_, err = e.opts.store.Put(ctx, key, bytes.NewReader(res.PNG), blob.PutOptions{
		ContentType: "image/png",
		Metadata:    map[string]string{"source": string(src), "filter": res.Filter},
	})
	if err != nil {
		return Entry{}, 0, e.wrapCtx(ctx, fmt.Errorf("export: store %s: %w", key, err))
	}

	if err := e.opts.downloader.Deliver(ctx, e.opts.exportName, res.PNG); err != nil {
		e.rollback(ctx, key)
		return Entry{}, 0, e.wrapCtx(ctx, fmt.Errorf("export: deliver %s: %w", e.opts.exportName, err))
	}

	entry := Entry{Original: src, Edited: Handle(key), CreatedAt: time.Now().UTC()}
	if err := e.opts.gallery.Append(ctx, entry); err != nil {
		// The file is already with the user; keep the blob it came from.
		return Entry{}, 0, fmt.Errorf("export: record in gallery: %w", err)
	}
	e.opts.observeGallery(ctx)

	log.Info("ggedit: export complete",
		"source", src,
		"edited", key,
		"size", fmt.Sprintf("%dx%d", res.Width, res.Height),
		"bytes", humanize.Bytes(uint64(res.Size())),
	)
	return entry, res.Size(), nil
}

func (e *Exporter) rollback(ctx context.Context, key string) {
	if err := e.opts.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		Logger().Warn("ggedit: export rollback failed", "key", key, "err", err)
	}
}

func (e *Exporter) wrapCtx(ctx context.Context, err error) error {
	if ctx.Err() != nil && !errors.Is(err, ErrExportTimeout) {
		return fmt.Errorf("%w: %w", ErrExportTimeout, err)
	}
	return err
}

func exportOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrExportTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, ErrImageDecode):
		return metrics.OutcomeDecode
	case errors.Is(err, blob.ErrNotFound), errors.Is(err, blob.ErrExists):
		return metrics.OutcomeStore
	default:
		return metrics.OutcomeFailed
	}
}

func newHandleID() string { return uuid.NewString() }
