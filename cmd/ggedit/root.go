package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/internal/blob"
	"github.com/gogpu/ggedit/internal/config"
	"github.com/gogpu/ggedit/internal/history"
	"github.com/gogpu/ggedit/internal/metrics"
	"github.com/gogpu/ggedit/internal/parallel"
)

// app is the per-invocation wiring built from configuration.
type app struct {
	cfg     *config.Config
	session *ggedit.Session
	gallery ggedit.Gallery
	metrics *metrics.Recorder
	pool    *parallel.WorkerPool
	closers []func() error
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func newApp(ctx context.Context, cfg *config.Config, cmd *cobra.Command) (*app, error) {
	ggedit.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	store, err := blob.Open(ctx, blob.Config{
		Driver: blob.Driver(cfg.BlobDriver),
		Dir:    cfg.BlobDir,
		S3: blob.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		},
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, metrics: metrics.New()}

	if cfg.HistoryPath != "" {
		h, err := history.Open(ctx, cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		a.gallery = h
		a.closers = append(a.closers, h.Close)
	} else {
		a.gallery = ggedit.NewMemoryGallery()
	}

	a.pool = parallel.NewWorkerPool(cfg.Workers)
	a.closers = append(a.closers, func() error { a.pool.Close(); return nil })

	a.session = ggedit.NewSession(
		ggedit.WithBlobStore(store),
		ggedit.WithGallery(a.gallery),
		ggedit.WithDownloader(ggedit.DirDownloader{Dir: cfg.DownloadDir}),
		ggedit.WithWorkerPool(a.pool),
		ggedit.WithDecodeCache(cfg.DecodeCache),
		ggedit.WithMetrics(a.metrics),
		ggedit.WithExportTimeout(cfg.ExportTimeout),
		ggedit.WithRecordUploads(cfg.RecordUploads),
	)
	ggedit.Logger().Debug("ggedit: configured",
		"blob_driver", store.Driver(),
		"history", cfg.HistoryPath,
		"workers", a.pool.Workers(),
	)
	return a, nil
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "ggedit",
		Short:         "Adjust and export images with CSS-style filters",
		Long:          `ggedit applies brightness, contrast, saturation, grayscale, sepia, hue rotation and blur to images and keeps a gallery of exports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (GGEDIT_* environment variables override it)")

	// withApp wires configuration, storage and the session before run.
	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.LoadConfig(ctx, cfgFile)
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg, cmd)
			if err != nil {
				return err
			}
			defer func() {
				if st, ok := a.session.Exporter().DecodeCacheStats(); ok {
					ggedit.Logger().Debug("ggedit: decode cache",
						"entries", st.Len,
						"hits", st.Hits,
						"misses", st.Misses,
						"evictions", st.Evictions,
					)
				}
				if werr := a.metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil && err == nil {
					err = fmt.Errorf("write metrics: %w", werr)
				}
				if cerr := a.close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return run(cmd, a, args)
		}
	}

	rootCmd.AddCommand(filtersCmd())
	rootCmd.AddCommand(compileCmd())
	rootCmd.AddCommand(exportCmd(withApp))
	rootCmd.AddCommand(galleryCmd(withApp))
	rootCmd.AddCommand(viewCmd(withApp))
	return rootCmd
}
