// Package transition implements the playlist transition renderer: two
// reallocate-on-resize render targets and a fullscreen-quad blend
// between them (§4.5.5).
package transition

import "github.com/gogpu/hdrgrade/filter"

// Renderer owns the two frames a transition blends between. It is
// allocated once and reused across transitions; resize (called by FrameA
// and FrameB) reallocates both
// targets only when the requested dimensions differ from the current
// ones, mirroring the GPU FBO reuse the teacher's surface registry does
// for backend handles.
type Renderer struct {
	width, height int
	a, b          *filter.Frame
	disposed      bool
}

// NewRenderer returns an empty Renderer; its targets are allocated on
// first call to FrameA/FrameB.
func NewRenderer() *Renderer { return &Renderer{} }

// FrameA returns the outgoing-frame target, reallocated if the requested
// size differs from the current allocation.
func (r *Renderer) FrameA(w, h int) *filter.Frame {
	r.resize(w, h)
	return r.a
}

// FrameB returns the incoming-frame target, reallocated if the requested
// size differs from the current allocation.
func (r *Renderer) FrameB(w, h int) *filter.Frame {
	r.resize(w, h)
	return r.b
}

func (r *Renderer) resize(w, h int) {
	if w == r.width && h == r.height && r.a != nil && r.b != nil {
		return
	}
	r.width, r.height = w, h
	r.a = filter.NewFrame(w, h)
	r.b = filter.NewFrame(w, h)
}

// Type selects the blend used between FrameA and FrameB.
type Type int

const (
	Crossfade Type = iota
	Dissolve
	WipeLeft
	WipeRight
	WipeUp
	WipeDown
)

// Blend composites FrameA and FrameB at progress (clamped to [0,1]) into
// dst, which must match the renderer's current dimensions.
func (r *Renderer) Blend(kind Type, progress float64, dst *filter.Frame) {
	progress = clamp01(progress)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			ca := r.a.At(x, y)
			cb := r.b.At(x, y)
			dst.Set(x, y, blendPixel(kind, progress, x, y, r.width, r.height, ca, cb))
		}
	}
}

func blendPixel(kind Type, progress float64, x, y, w, h int, a, b [4]float64) [4]float64 {
	switch kind {
	case Crossfade:
		return lerp4(a, b, progress)
	case Dissolve:
		// Ordered-threshold dissolve: each pixel snaps fully to B once
		// progress passes its dither threshold, avoiding a uniform
		// cross-fade look.
		threshold := ditherThreshold(x, y)
		if progress >= threshold {
			return b
		}
		return a
	case WipeLeft:
		if float64(x) < progress*float64(w) {
			return b
		}
		return a
	case WipeRight:
		if float64(w-1-x) < progress*float64(w) {
			return b
		}
		return a
	case WipeUp:
		if float64(y) < progress*float64(h) {
			return b
		}
		return a
	case WipeDown:
		if float64(h-1-y) < progress*float64(h) {
			return b
		}
		return a
	default:
		return lerp4(a, b, progress)
	}
}

func ditherThreshold(x, y int) float64 {
	bayer4 := [4][4]int{
		{0, 8, 2, 10},
		{12, 4, 14, 6},
		{3, 11, 1, 9},
		{15, 7, 13, 5},
	}
	return float64(bayer4[y&3][x&3]) / 16
}

func lerp4(a, b [4]float64, t float64) [4]float64 {
	var out [4]float64
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Dispose releases both render targets. Idempotent.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.a = nil
	r.b = nil
	r.disposed = true
}
