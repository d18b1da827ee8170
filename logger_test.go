package ggedit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/gogpu/ggedit/internal/blob"
)

// captureHandler keeps every record it receives.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

// find returns the first record with msg and its attributes.
func (h *captureHandler) find(msg string) (slog.Level, map[string]string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		attrs := make(map[string]string)
		r.Attrs(func(a slog.Attr) bool {
			attrs[a.Key] = a.Value.String()
			return true
		})
		return r.Level, attrs, true
	}
	return 0, nil, false
}

// captureLogs installs a capturing logger for the duration of the test.
func captureLogs(t *testing.T) *captureHandler {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	h := &captureHandler{}
	SetLogger(slog.New(h))
	return h
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	ctx := context.Background()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(ctx, level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(nopHandler); !ok {
		t.Error("WithAttrs() did not return a nopHandler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("WithGroup() did not return a nopHandler")
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	SetLogger(nil)

	Compile(NewState())
	if l := Logger(); l == nil || l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should install a disabled logger")
	}
	if buf.Len() != 0 {
		t.Errorf("replaced logger still received output: %q", buf.String())
	}
}

func TestLogCompileAtDebug(t *testing.T) {
	h := captureLogs(t)
	Compile(NewState())

	level, attrs, ok := h.find("ggedit: compiled transform")
	if !ok {
		t.Fatal("no compile record")
	}
	if level != slog.LevelDebug {
		t.Errorf("level = %v, want DEBUG", level)
	}
	if attrs["filter"] != defaultFilter {
		t.Errorf("filter = %q, want %q", attrs["filter"], defaultFilter)
	}
}

func TestLogUploadAndExportAtInfo(t *testing.T) {
	h := captureLogs(t)
	ctx := context.Background()
	s := NewSession(WithDownloader(&deliveries{}), withIDs(sequentialIDs()))

	if _, err := s.Upload(ctx, "a.png", bytes.NewReader(encodeTestPNG(t, 4, 3))); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Export(ctx); err != nil {
		t.Fatal(err)
	}

	level, attrs, ok := h.find("ggedit: image uploaded")
	if !ok || level != slog.LevelInfo {
		t.Fatalf("upload record = %v, %v", level, ok)
	}
	if attrs["handle"] != "uploads/id-0.png" || attrs["size"] != "4x3" {
		t.Errorf("upload attrs = %v", attrs)
	}

	level, attrs, ok = h.find("ggedit: export complete")
	if !ok || level != slog.LevelInfo {
		t.Fatalf("export record = %v, %v", level, ok)
	}
	if attrs["source"] != "uploads/id-0.png" || attrs["edited"] != "exports/id-1.png" {
		t.Errorf("export attrs = %v", attrs)
	}
}

func TestLogSubscriberPanicAtWarn(t *testing.T) {
	h := captureLogs(t)
	s := NewSession(WithDownloader(&deliveries{}))
	if _, err := s.Upload(context.Background(), "a.png", bytes.NewReader(encodeTestPNG(t, 2, 2))); err != nil {
		t.Fatal(err)
	}
	defer s.Subscribe(func(Preview) { panic("render failed") })()

	if err := s.SetFilter(0, 120); err != nil {
		t.Fatal(err)
	}

	level, attrs, ok := h.find("ggedit: preview subscriber panicked")
	if !ok || level != slog.LevelWarn {
		t.Fatalf("panic record = %v, %v", level, ok)
	}
	if attrs["panic"] != "render failed" {
		t.Errorf("panic = %q", attrs["panic"])
	}
}

// stickyStore refuses deletes.
type stickyStore struct{ *blob.Memory }

func (stickyStore) Delete(context.Context, string) error { return errors.New("read-only") }

func TestLogRollbackFailureAtWarn(t *testing.T) {
	h := captureLogs(t)
	ctx := context.Background()
	store := stickyStore{blob.NewMemory()}
	src := putBlob(t, store, "uploads/a.png", encodeTestPNG(t, 2, 2))

	ex := NewExporter(WithBlobStore(store), WithDownloader(&deliveries{err: errors.New("disk full")}),
		withIDs(sequentialIDs()))
	if _, err := ex.Export(ctx, src, Compile(NewState())); err == nil {
		t.Fatal("export succeeded with a failing downloader")
	}

	level, attrs, ok := h.find("ggedit: export rollback failed")
	if !ok || level != slog.LevelWarn {
		t.Fatalf("rollback record = %v, %v", level, ok)
	}
	if attrs["key"] != "exports/id-0.png" {
		t.Errorf("key = %q", attrs["key"])
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("concurrent read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkLoggerDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("message", "key", "value")
	}
}
