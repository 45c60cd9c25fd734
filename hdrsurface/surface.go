// Package hdrsurface implements the HDR blit path used when the main
// renderer produces floating-point output but the host's display surface
// only accepts sRGB: a fixed priority-ordered fallback ladder of surface
// configurations, each attempted against a fresh handle since surface
// context creation is sticky (§4.6).
package hdrsurface

import "github.com/gogpu/hdrgrade"

// ColorSpace names the surface colour space an attempt requests.
type ColorSpace int

const (
	ColorSpaceLinearSRGB ColorSpace = iota
	ColorSpaceRec2100HLG
)

// PixelFormatKey selects between the current and legacy pixel-format
// string a host's surface API accepts — some hosts only recognize the
// legacy key for a given colour space.
type PixelFormatKey int

const (
	PixelFormatCurrent PixelFormatKey = iota
	PixelFormatLegacy
)

// Attempt is one rung of the fallback ladder.
type Attempt struct {
	ColorSpace ColorSpace
	FormatKey  PixelFormatKey
	Float16    bool
}

// ladder is the fixed 4-attempt priority order from §4.6. It is a
// package-level constant specifically because the order is part of the
// host-observable contract, not a tunable.
var ladder = []Attempt{
	{ColorSpace: ColorSpaceLinearSRGB, FormatKey: PixelFormatCurrent, Float16: true},
	{ColorSpace: ColorSpaceLinearSRGB, FormatKey: PixelFormatLegacy, Float16: true},
	{ColorSpace: ColorSpaceRec2100HLG, FormatKey: PixelFormatCurrent, Float16: true},
	{ColorSpace: ColorSpaceRec2100HLG, FormatKey: PixelFormatLegacy, Float16: true},
}

// HandleFactory creates a fresh, uninitialized surface handle for one
// attempt. The host supplies this because surface creation is a
// host/DOM-level operation hdrgrade never performs itself.
type HandleFactory func(Attempt) (Handle, error)

// Handle is a host-owned surface context capable of accepting HDR blits.
type Handle interface {
	Resize(width, height int)
	UploadFrame(pixels []float32, width, height int) error
	Replace() // swaps this handle in as the host's visible surface
	Destroy()
}

// Open tries every rung of the ladder in order with a fresh handle per
// attempt, returning the first surface that creates successfully. The
// winning handle has already called Replace() to take over from the
// host's original surface.
func Open(newHandle HandleFactory) (Handle, Attempt, error) {
	for _, attempt := range ladder {
		h, err := newHandle(attempt)
		if err != nil {
			continue
		}
		h.Replace()
		return h, attempt, nil
	}
	return nil, Attempt{}, hdrgrade.ErrNoSurfaceBackendAvailable
}

// Upload resizes surf to the frame's dimensions and copies pixel rows
// with a vertical flip, since the GPU readback delivers rows
// bottom-to-top while Handle.UploadFrame expects top-to-bottom.
func Upload(surf Handle, pixels []float32, width, height int) error {
	surf.Resize(width, height)
	flipped := make([]float32, len(pixels))
	stride := width * 4
	for y := 0; y < height; y++ {
		srcRow := pixels[(height-1-y)*stride : (height-y)*stride]
		copy(flipped[y*stride:(y+1)*stride], srcRow)
	}
	return surf.UploadFrame(flipped, width, height)
}
