package filter

import (
	"math"
	"testing"
)

func TestGaussianKernelZeroSigma(t *testing.T) {
	for _, sigma := range []float64{0, -3} {
		k := GaussianKernel(sigma)
		if len(k) != 1 || k[0] != 1.0 {
			t.Errorf("GaussianKernel(%v) = %v, want [1]", sigma, k)
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 2.5, 5, 20} {
		k := GaussianKernel(sigma)
		var sum float64
		for _, v := range k {
			sum += float64(v)
		}
		if math.Abs(sum-1.0) > 1e-5 {
			t.Errorf("GaussianKernel(%v) sum = %v, want 1.0", sigma, sum)
		}
	}
}

func TestGaussianKernelSymmetricPeak(t *testing.T) {
	k := GaussianKernel(3)
	n := len(k)
	for i := 0; i < n/2; i++ {
		if math.Abs(float64(k[i]-k[n-1-i])) > 1e-7 {
			t.Errorf("kernel not symmetric at %d: %v vs %v", i, k[i], k[n-1-i])
		}
		if k[i] > k[n/2] {
			t.Errorf("kernel[%d] = %v exceeds center %v", i, k[i], k[n/2])
		}
	}
}

func TestGaussianKernelSize(t *testing.T) {
	tests := []struct {
		sigma float64
		want  int
	}{
		{1, 7},
		{2, 13},
		{2.1, 15},
		{20, 121},
	}
	for _, tt := range tests {
		if got := len(GaussianKernel(tt.sigma)); got != tt.want {
			t.Errorf("len(GaussianKernel(%v)) = %d, want %d", tt.sigma, got, tt.want)
		}
		if got := KernelHalfSize(tt.sigma)*2 + 1; got != tt.want {
			t.Errorf("KernelHalfSize(%v)*2+1 = %d, want %d", tt.sigma, got, tt.want)
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	k1 := CachedGaussianKernel(4)
	k2 := CachedGaussianKernel(4)
	if &k1[0] != &k2[0] {
		t.Error("expected the same cached slice for equal sigma")
	}
	if len(CachedGaussianKernel(1)) == len(k1) {
		t.Error("different sigma should produce a different kernel")
	}
}

func TestKernelCacheEviction(t *testing.T) {
	c := newKernelCache(4)
	for i := 1; i <= 10; i++ {
		c.get(float64(i))
	}
	if len(c.cache) > 4 {
		t.Errorf("cache size = %d, want <= 4", len(c.cache))
	}
}

func BenchmarkGaussianKernel(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GaussianKernel(10)
	}
}
