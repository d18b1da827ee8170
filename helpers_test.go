package ggedit

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggedit/internal/blob"
)

// encodeTestPNG returns an opaque w x h PNG with a deterministic gradient.
func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x + y) * 7 % 256),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// deliveries records Downloader calls.
type deliveries struct {
	mu    sync.Mutex
	names []string
	data  [][]byte
	err   error
}

func (d *deliveries) Deliver(_ context.Context, name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.names = append(d.names, name)
	d.data = append(d.data, append([]byte(nil), data...))
	return nil
}

func (d *deliveries) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.names)
}

func (d *deliveries) last() (string, []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.names) == 0 {
		return "", nil
	}
	return d.names[len(d.names)-1], d.data[len(d.data)-1]
}

// gatedStore blocks Get until gate is closed or ctx is done.
type gatedStore struct {
	*blob.Memory
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func newGatedStore() *gatedStore {
	return &gatedStore{Memory: blob.NewMemory(), gate: make(chan struct{}), entered: make(chan struct{})}
}

func (s *gatedStore) Get(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	s.once.Do(func() { close(s.entered) })
	select {
	case <-ctx.Done():
		return blob.Info{}, nil, ctx.Err()
	case <-s.gate:
	}
	return s.Memory.Get(ctx, key)
}

// putBlob stores data under key in s.
func putBlob(t *testing.T, s blob.Store, key string, data []byte) Handle {
	t.Helper()
	_, err := s.Put(context.Background(), key, bytes.NewReader(data), blob.PutOptions{})
	require.NoError(t, err)
	return Handle(key)
}

// sequentialIDs returns an id generator producing "id-0", "id-1", ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := "id-" + strconv.Itoa(n)
		n++
		return id
	}
}

func withIDs(next func() string) Option {
	return func(o *options) {
		o.newID = next
	}
}
