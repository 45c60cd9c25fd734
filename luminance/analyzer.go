// Package luminance implements the async auto-exposure luminance
// analyzer: a mipmap-reduced average of the frame, read back through a
// double-buffered PBO so the GPU never stalls waiting on the readback
// (§4.4). The CPU reference below computes the same reduction directly,
// since there is no GPU mip chain to walk off-device.
package luminance

import (
	"math"
)

// Result is the analyzer's cached luminance estimate.
type Result struct {
	LogLuma   float64 // log-domain average
	LinearAvg float64 // arithmetic mean of the linear samples, clamped to [1e-6, 1e6]
}

// seed is the first-frame result before any readback has completed.
var seed = Result{LogLuma: math.Log(0.18), LinearAvg: 1.0}

// Sampler provides the linear-luminance source the analyzer samples on a
// 256x256 grid; reduceMip8 takes the log of each sample itself. Tests and
// the CPU-only path construct one directly from pixel data.
type Sampler interface {
	// At returns the linear luminance at normalized coordinates (u,v) in [0,1).
	At(u, v float64) float64
}

// Analyzer reduces a 256x256 grid of luminance samples to one result per
// frame, using a double-buffered PBO model: the read issued this frame
// is not consumed until next frame's poll, so a slow GPU readback never
// blocks the render thread (§4.4 steps 4-6).
type Analyzer struct {
	pboIndex   int
	pending    [2]*pendingReadback
	cached     Result
	firstFrame bool
}

type pendingReadback struct {
	logLuma   float64
	linearAvg float64
	// signalled simulates the GPU fence: in this CPU implementation the
	// reduction completes synchronously, so a readback issued this frame
	// is always signalled by the time next frame polls it. A GPU backend
	// wires this to the real fence status instead of a constant true.
	signalled bool
}

// NewAnalyzer returns an Analyzer seeded with the default result (average
// 0.18, LinearAvg 1.0) for its first frame.
func NewAnalyzer() *Analyzer {
	return &Analyzer{cached: seed, firstFrame: true}
}

// Analyze runs one frame of the pipeline: reduce the 256x256 mip-0
// target down to mip 8 (a 1x1 average via repeated 2x2 box downsampling),
// issue a readback into the current PBO slot, poll the previous slot,
// and return the cached result.
func (a *Analyzer) Analyze(src Sampler) Result {
	logLuma, linearAvg := reduceMip8(src)

	a.pending[a.pboIndex] = &pendingReadback{logLuma: logLuma, linearAvg: linearAvg, signalled: true}

	prevIndex := 1 - a.pboIndex
	if prev := a.pending[prevIndex]; prev != nil && prev.signalled {
		ll := clamp(math.Exp(prev.logLuma), 1e-6, 1e6)
		la := clamp(prev.linearAvg, 1e-6, 1e6)
		a.cached = Result{LogLuma: math.Log(ll), LinearAvg: la}
		a.pending[prevIndex] = nil
	}

	a.pboIndex = prevIndex

	if a.firstFrame {
		a.firstFrame = false
		return seed
	}
	return a.cached
}

// reduceMip8 averages a 256x256 grid down to a single value, the CPU
// equivalent of eight levels of 2x2 mipmap generation (256 -> 1).
func reduceMip8(src Sampler) (logLuma, linearAvg float64) {
	const n = 256
	var sumLog, sumLinear float64
	for y := 0; y < n; y++ {
		v := (float64(y) + 0.5) / n
		for x := 0; x < n; x++ {
			u := (float64(x) + 0.5) / n
			l := src.At(u, v)
			if l <= 0 || math.IsNaN(l) || math.IsInf(l, 0) {
				l = 1e-6
			}
			sumLinear += l
			sumLog += math.Log(l)
		}
	}
	count := float64(n * n)
	return sumLog / count, sumLinear / count
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UniformSampler is a Sampler that returns the same luminance everywhere,
// used by tests. The analyzer has no colour-buffer extension check and no
// degrade-to-seed path of its own.
type UniformSampler float64

func (u UniformSampler) At(float64, float64) float64 { return float64(u) }
