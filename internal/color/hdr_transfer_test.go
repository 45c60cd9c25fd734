package color

import "testing"

func floatNear(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= epsilon
}

// TestHLGRoundTrip checks that linear -> HLG -> linear preserves values
// within the pipeline's numeric-safety tolerance across the scene-linear
// operating range.
func TestHLGRoundTrip(t *testing.T) {
	for _, v := range []float32{0.0, 0.01, 0.1, 0.18, 0.5, 0.9, 1.0} {
		encoded := LinearToHLG(v, 1)
		decoded := HLGToLinear(encoded, 1)
		if !floatNear(decoded, v, 1e-5) {
			t.Errorf("HLG round trip for %v: got %v", v, decoded)
		}
	}
}

// TestPQRoundTrip checks the same property for the SMPTE ST 2084 curve.
func TestPQRoundTrip(t *testing.T) {
	for _, v := range []float32{0.0, 0.01, 0.1, 0.5, 1.0, 2.0} {
		encoded := LinearToPQ(v, 100)
		decoded := PQToLinear(encoded, 100)
		if !floatNear(decoded, v, 1e-5) {
			t.Errorf("PQ round trip for %v: got %v", v, decoded)
		}
	}
}
