// Package color provides the scalar transfer-function conversions the
// grading pipeline's CPU reference path uses to move between encoded
// (sRGB, HLG, PQ) and scene-linear light.
package color

import "math"

// SRGBToLinear converts an sRGB component to linear (EOTF - Electro-Optical Transfer Function).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
// Input and output are in range [0,1].
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// LinearToSRGB converts a linear component to sRGB (OETF - Opto-Electronic Transfer Function).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
// Input and output are in range [0,1].
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*float32(math.Pow(float64(l), 1.0/2.4)) - 0.055
}

// HLG inverse OETF constants (ITU-R BT.2100).
const (
	hlgA = 0.17883277
	hlgB = 1 - 4*hlgA
	hlgC = 0.55991073 // 0.5 - a*ln(4a)
)

// HLGToLinear applies the Hybrid Log-Gamma inverse OETF followed by the
// reference OOTF with system gamma 1.2, mapping a scene-referred HLG
// signal in [0,1] to display-linear light. ootfGain scales the result to
// the display's peak luminance relative to the HLG reference white.
func HLGToLinear(v float32, ootfGain float64) float32 {
	x := float64(v)
	var scene float64
	if x <= 0.5 {
		scene = (x * x) / 3
	} else {
		scene = (math.Exp((x-hlgC)/hlgA) + hlgB) / 12
	}
	return float32(math.Pow(scene, 1.2) * ootfGain)
}

// LinearToHLG is the forward HLG OETF (undoing the OOTF gain applied by
// HLGToLinear), used for round-tripping and for encoding graded output
// back to an HLG-carried signal.
func LinearToHLG(v float32, ootfGain float64) float32 {
	scene := math.Pow(float64(v)/ootfGain, 1/1.2)
	var x float64
	if scene <= 1.0/12.0 {
		x = math.Sqrt(3 * scene)
	} else {
		x = hlgA*math.Log(12*scene-hlgB) + hlgC
	}
	return float32(x)
}

// PQ (SMPTE ST 2084) inverse EOTF constants.
const (
	pqM1 = 2610.0 / 16384.0
	pqM2 = 2523.0 / 4096.0 * 128.0
	pqC1 = 3424.0 / 4096.0
	pqC2 = 2413.0 / 4096.0 * 32.0
	pqC3 = 2392.0 / 4096.0 * 32.0
)

// PQToLinear applies the SMPTE ST 2084 inverse EOTF, returning a
// display-linear value normalized so that PQ code value 1.0 (10000 nits)
// maps to 10000 / sdrWhiteNits, i.e. SDR reference white (100 nits) lands
// at 1.0 when sdrWhiteNits is 100.
func PQToLinear(v float32, sdrWhiteNits float64) float32 {
	x := float64(v)
	if x < 0 {
		x = 0
	}
	num := math.Max(math.Pow(x, 1/pqM2)-pqC1, 0)
	den := pqC2 - pqC3*math.Pow(x, 1/pqM2)
	nits := math.Pow(num/den, 1/pqM1) * 10000
	return float32(nits / sdrWhiteNits)
}

// LinearToPQ is the forward SMPTE ST 2084 EOTF⁻¹, the inverse of
// PQToLinear for the same sdrWhiteNits reference.
func LinearToPQ(v float32, sdrWhiteNits float64) float32 {
	nits := float64(v) * sdrWhiteNits
	y := nits / 10000
	num := pqC1 + pqC2*math.Pow(y, pqM1)
	den := 1 + pqC3*math.Pow(y, pqM1)
	return float32(math.Pow(num/den, pqM2))
}
