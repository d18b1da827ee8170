package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for sigma.
//
// The kernel has 2*ceil(3*sigma)+1 taps, covering 99.7% of the distribution.
// For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := KernelHalfSize(sigma)
	size := halfSize*2 + 1
	kernel := make([]float32, size)

	// The 1/(σ√(2π)) factor cancels out in the normalization below.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	invSum := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= invSum
	}
	return kernel
}

// KernelHalfSize returns the number of taps on each side of the center.
func KernelHalfSize(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}

// kernelCache caches kernels keyed by sigma quantized to 0.01 pixels.
// Slider-driven exports reuse a handful of values, so the cache stays small.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[int][]float32),
		maxLen: maxLen,
	}
}

func (c *kernelCache) get(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))

	c.mu.RLock()
	kernel, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return kernel
	}

	kernel = GaussianKernel(float64(key) / 100)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Evict half; map order is random enough for this workload.
		n := 0
		for k := range c.cache {
			delete(c.cache, k)
			n++
			if n >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedGaussianKernel returns a shared, read-only kernel for sigma.
func CachedGaussianKernel(sigma float64) []float32 {
	return defaultKernelCache.get(sigma)
}
