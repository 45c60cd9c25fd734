package filter

import (
	"math"

	internalfilter "github.com/gogpu/hdrgrade/internal/filter"
)

// Bilateral applies edge-preserving noise reduction. Radius is clamped to
// [1,5] per §4.5.1; the inner loop is hard-coded to ±5 with an
// early-continue on |dx|>radius or |dy|>radius, matching the GPU shader's
// fixed unroll so the CPU path visits the exact same sample set.
type Bilateral struct {
	Radius   int
	Strength float64 // 0-100, blend factor between input and filtered result
}

// NewBilateral returns a Bilateral filter with radius clamped to [1,5].
func NewBilateral(radius int, strength float64) Bilateral {
	return Bilateral{Radius: clampInt(radius, 1, 5), Strength: clampFloat(strength, 0, 100)}
}

// Apply runs the filter over src and writes into dst, which must be the
// same dimensions as src (dst may alias src's backing Frame only if the
// caller double-buffers externally; Apply itself never aliases reads and
// writes to the same pixel within one pass).
func (b Bilateral) Apply(src, dst *Frame) {
	sigmaSpatial := float64(b.Radius) / 2
	if sigmaSpatial <= 0 {
		sigmaSpatial = 0.5
	}
	// The spatial term is separable: exp(-(dx²+dy²)/2σ²) factors into the
	// product of two 1D Gaussian profiles, so the cached 1D kernel below
	// stands in for the 2D weight directly. Apply normalizes by weightSum
	// at the end, so the kernel's own normalization constant cancels out.
	spatialKernel := internalfilter.CachedGaussianKernel(sigmaSpatial)
	spatialCenter := internalfilter.KernelCenter(len(spatialKernel))
	sigmaRange := 0.1 // luma-difference sigma, fixed per the shader's reference constant
	blend := b.Strength / 100

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			center := src.At(x, y)
			centerLuma := luma709(center)

			var sum [3]float64
			var alphaSum float64
			var weightSum float64
			for dy := -5; dy <= 5; dy++ {
				if abs(dy) > b.Radius {
					continue
				}
				for dx := -5; dx <= 5; dx++ {
					if abs(dx) > b.Radius {
						continue
					}
					s := src.At(x+dx, y+dy)
					sLuma := luma709(s)
					spatial := float64(spatialKernel[spatialCenter+dx]) * float64(spatialKernel[spatialCenter+dy])
					rangeW := gaussianWeight((sLuma-centerLuma)*(sLuma-centerLuma), sigmaRange)
					w := spatial * rangeW
					sum[0] += s[0] * w
					sum[1] += s[1] * w
					sum[2] += s[2] * w
					alphaSum += s[3] * w
					weightSum += w
				}
			}
			if weightSum == 0 {
				dst.Set(x, y, center)
				continue
			}
			filtered := [4]float64{sum[0] / weightSum, sum[1] / weightSum, sum[2] / weightSum, alphaSum / weightSum}
			out := [4]float64{}
			for i := 0; i < 3; i++ {
				out[i] = center[i]*(1-blend) + filtered[i]*blend
			}
			out[3] = center[3] // alpha passes through unfiltered, preserved exactly
			dst.Set(x, y, out)
		}
	}
}

func gaussianWeight(distSq, sigma float64) float64 {
	return math.Exp(-distSq / (2 * sigma * sigma))
}

func luma709(c [4]float64) float64 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
