// Package metrics records editor activity as Prometheus metrics.
//
// A Recorder owns its registry so tests and multiple sessions never collide
// on the default global one. CLI runs can flush the registry to a node
// exporter textfile with WriteTextfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcomes used as label values.
const (
	OutcomeOK      = "ok"
	OutcomeDecode  = "decode_error"
	OutcomeTimeout = "timeout"
	OutcomeStore   = "store_error"
	OutcomeFailed  = "failed"
)

// Recorder holds the editor's collectors.
type Recorder struct {
	reg *prometheus.Registry

	uploads        *prometheus.CounterVec
	exports        *prometheus.CounterVec
	exportDuration prometheus.Histogram
	exportBytes    prometheus.Histogram
	previews       prometheus.Counter
	galleryEntries prometheus.Gauge
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggedit_uploads_total",
			Help: "Uploaded source images by result.",
		}, []string{"result"}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggedit_exports_total",
			Help: "Export attempts by outcome.",
		}, []string{"outcome"}),
		exportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ggedit_export_duration_seconds",
			Help:    "Wall time of export attempts.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		exportBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ggedit_export_bytes",
			Help:    "Size of encoded export payloads.",
			Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
		}),
		previews: f.NewCounter(prometheus.CounterOpts{
			Name: "ggedit_preview_renders_total",
			Help: "Preview render requests that produced a preview.",
		}),
		galleryEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "ggedit_gallery_entries",
			Help: "Entries currently in the gallery.",
		}),
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Upload counts an upload attempt.
func (r *Recorder) Upload(ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	r.uploads.WithLabelValues(result).Inc()
}

// Export counts an export attempt and its duration. size is ignored unless
// outcome is OutcomeOK.
func (r *Recorder) Export(outcome string, d time.Duration, size int) {
	if r == nil {
		return
	}
	r.exports.WithLabelValues(outcome).Inc()
	r.exportDuration.Observe(d.Seconds())
	if outcome == OutcomeOK {
		r.exportBytes.Observe(float64(size))
	}
}

// Preview counts a rendered preview.
func (r *Recorder) Preview() {
	if r == nil {
		return
	}
	r.previews.Inc()
}

// GallerySize records the current gallery length.
func (r *Recorder) GallerySize(n int) {
	if r == nil {
		return
	}
	r.galleryEntries.Set(float64(n))
}

// WriteTextfile writes the registry in text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
