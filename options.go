package ggedit

import (
	"context"
	"time"

	"github.com/gogpu/ggedit/internal/blob"
	"github.com/gogpu/ggedit/internal/cache"
	"github.com/gogpu/ggedit/internal/image"
	"github.com/gogpu/ggedit/internal/metrics"
	"github.com/gogpu/ggedit/internal/parallel"
)

// Option configures an Exporter or a Session during creation.
//
// Example:
//
//	// Everything in memory, exports written to ./out
//	s := ggedit.NewSession(ggedit.WithDownloader(ggedit.DirDownloader{Dir: "out"}))
//
//	// Shared blob store and persistent history
//	s := ggedit.NewSession(
//	    ggedit.WithBlobStore(store),
//	    ggedit.WithGallery(history),
//	    ggedit.WithExportTimeout(10*time.Second),
//	)
type Option func(*options)

type options struct {
	store         blob.Store
	gallery       Gallery
	downloader    Downloader
	pool          *parallel.WorkerPool
	metrics       *metrics.Recorder
	exportName    string
	exportTimeout time.Duration
	recordUploads bool
	sources       *cache.Cache[Handle, *image.Pixmap]
	newID         func() string
}

func defaultOptions() options {
	return options{
		exportName:    DefaultExportName,
		recordUploads: true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = blob.NewMemory()
	}
	if o.gallery == nil {
		o.gallery = NewMemoryGallery()
	}
	if o.downloader == nil {
		o.downloader = DirDownloader{Dir: "."}
	}
	if o.newID == nil {
		o.newID = newHandleID
	}
	return o
}

// WithBlobStore sets where uploaded and exported images are stored.
// The default is an in-memory store.
func WithBlobStore(s blob.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithGallery sets the gallery exports are recorded in.
// The default is a MemoryGallery.
func WithGallery(g Gallery) Option {
	return func(o *options) {
		o.gallery = g
	}
}

// WithDownloader sets how exported bytes reach the user.
// The default writes into the current directory.
func WithDownloader(d Downloader) Option {
	return func(o *options) {
		o.downloader = d
	}
}

// WithWorkerPool runs filter passes on p. Without a pool they run on the
// calling goroutine. The caller keeps ownership of p and must close it.
func WithWorkerPool(p *parallel.WorkerPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithMetrics records uploads and exports on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithExportName overrides the delivered file name.
func WithExportName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.exportName = name
		}
	}
}

// WithExportTimeout bounds each Session export. Zero means no limit beyond
// the caller's context.
func WithExportTimeout(d time.Duration) Option {
	return func(o *options) {
		o.exportTimeout = d
	}
}

// WithRecordUploads controls whether uploads are added to the gallery as
// entries without an edited image. Enabled by default.
func WithRecordUploads(record bool) Option {
	return func(o *options) {
		o.recordUploads = record
	}
}

// WithDecodeCache keeps up to n decoded source images in memory so repeated
// exports of the same upload skip loading and decoding. n <= 0 disables it.
func WithDecodeCache(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.sources = nil
			return
		}
		o.sources = cache.New[Handle, *image.Pixmap](n)
	}
}

// observeGallery publishes the gallery size when metrics are enabled.
func (o *options) observeGallery(ctx context.Context) {
	if o.metrics == nil {
		return
	}
	n, err := o.gallery.Count(ctx)
	if err != nil {
		Logger().Warn("ggedit: count gallery", "err", err)
		return
	}
	o.metrics.GallerySize(n)
}
