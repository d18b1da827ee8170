package filter

import (
	"sync"

	"github.com/gogpu/ggedit/internal/image"
	"github.com/gogpu/ggedit/internal/parallel"
)

// Blur applies separable Gaussian blur. Sigma is the standard deviation in
// pixels, which is what a CSS blur(<length>) argument means.
//
// The horizontal and vertical passes run independently, giving
// O(w*h*sigma) work instead of O(w*h*sigma²). Samples outside the image are
// clamped to the nearest edge pixel. A browser canvas samples transparent
// black there instead, so blurred exports keep opaque borders where a
// canvas blur would fade them out.
type Blur struct {
	Sigma float64
}

// NewBlur creates a blur filter with the given standard deviation.
func NewBlur(sigma float64) *Blur {
	return &Blur{Sigma: sigma}
}

// Apply blurs src into dst. src and dst may be the same pixmap; they must
// have equal dimensions. Premultiplied channels are convolved directly, so
// transparent pixels do not bleed color.
func (f *Blur) Apply(src, dst *image.Pixmap, pool *parallel.WorkerPool) {
	if src == nil || dst == nil {
		return
	}
	if f.Sigma <= 0 {
		if src != dst {
			copy(dst.Data(), src.Data())
		}
		return
	}

	width, height := src.Width(), src.Height()
	temp := getTempBuffer(width, height)
	defer putTempBuffer(temp)

	kernel := CachedGaussianKernel(f.Sigma)

	// Pass 1: horizontal (src -> temp). Every band must finish before the
	// vertical pass reads neighbouring rows.
	pool.ForRows(height, func(y0, y1 int) {
		blurHorizontal(src, temp, y0, y1, kernel)
	})

	// Pass 2: vertical (temp -> dst)
	pool.ForRows(height, func(y0, y1 int) {
		blurVertical(temp, dst, y0, y1, kernel)
	})
}

// blurHorizontal convolves rows [y0, y1) of src into temp.
func blurHorizontal(src *image.Pixmap, temp []float32, y0, y1 int, kernel []float32) {
	kernelSize := len(kernel)
	halfKernel := kernelSize / 2
	width := src.Width()
	srcData := src.Data()

	for y := y0; y < y1; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			var r, g, b, a float32

			for k := 0; k < kernelSize; k++ {
				kx := x + k - halfKernel
				if kx < 0 {
					kx = 0
				} else if kx >= width {
					kx = width - 1
				}

				srcIdx := (row + kx) * 4
				weight := kernel[k]

				r += float32(srcData[srcIdx+0]) * weight
				g += float32(srcData[srcIdx+1]) * weight
				b += float32(srcData[srcIdx+2]) * weight
				a += float32(srcData[srcIdx+3]) * weight
			}

			tempIdx := (row + x) * 4
			temp[tempIdx+0] = r
			temp[tempIdx+1] = g
			temp[tempIdx+2] = b
			temp[tempIdx+3] = a
		}
	}
}

// blurVertical convolves columns of temp into rows [y0, y1) of dst.
func blurVertical(temp []float32, dst *image.Pixmap, y0, y1 int, kernel []float32) {
	kernelSize := len(kernel)
	halfKernel := kernelSize / 2
	width, height := dst.Width(), dst.Height()
	dstData := dst.Data()

	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32

			for k := 0; k < kernelSize; k++ {
				ky := y + k - halfKernel
				if ky < 0 {
					ky = 0
				} else if ky >= height {
					ky = height - 1
				}

				tempIdx := (ky*width + x) * 4
				weight := kernel[k]

				r += temp[tempIdx+0] * weight
				g += temp[tempIdx+1] * weight
				b += temp[tempIdx+2] * weight
				a += temp[tempIdx+3] * weight
			}

			dstIdx := (y*width + x) * 4
			dstData[dstIdx+3] = clampUint8(a)
			// Keep premultiplied color <= alpha after rounding.
			dstData[dstIdx+0] = min(clampUint8(r), dstData[dstIdx+3])
			dstData[dstIdx+1] = min(clampUint8(g), dstData[dstIdx+3])
			dstData[dstIdx+2] = min(clampUint8(b), dstData[dstIdx+3])
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

// tempBufferPool recycles intermediate buffers between exports.
var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 1024*1024*4)}
	},
}

// getTempBuffer returns a buffer with at least width*height*4 elements.
// Every element is overwritten by the horizontal pass, so no clearing is needed.
func getTempBuffer(width, height int) []float32 {
	size := width * height * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}
	return wrapper.data[:size]
}

// putTempBuffer returns a buffer to the pool. Buffers above 64MB are dropped.
func putTempBuffer(buf []float32) {
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}
