package pipeline

import (
	"math"
	"testing"

	"github.com/gogpu/hdrgrade"
)

func defaultParams() [4]float64 { return [4]float64{1, 1, 0.22, 0.4} }

func TestToneMapOperatorsAreDistinct(t *testing.T) {
	const x = 0.6
	agx := toneMapAgX(x)
	gt := toneMapGT(x, defaultParams())
	aces := toneMapOperator(hdrgrade.ToneMapACES, x, [4]float64{})

	if agx == gt {
		t.Errorf("AgX and GT produced the same value %v for x=%v, want distinct curves", agx, x)
	}
	if agx == aces {
		t.Errorf("AgX and ACES produced the same value %v for x=%v, want distinct curves", agx, x)
	}
	if gt == aces {
		t.Errorf("GT and ACES produced the same value %v for x=%v, want distinct curves", gt, x)
	}
}

func TestToneMapACESHillDiffersFromNarkowiczACES(t *testing.T) {
	r := [3]float64{0.4, 0.6, 0.8}
	hill := toneMapACESHill(r)

	var narkowicz [3]float64
	for i := range r {
		narkowicz[i] = toneMapOperator(hdrgrade.ToneMapACES, r[i], [4]float64{})
	}

	if hill == narkowicz {
		t.Errorf("ToneMapACESHill should not alias the Narkowicz ToneMapACES curve, both gave %v", hill)
	}
}

func TestToneMapAgXClampsToUnitRange(t *testing.T) {
	for _, x := range []float64{0, 0.01, 1, 10, 1000} {
		v := toneMapAgX(x)
		if v < 0 || v > 1 {
			t.Errorf("toneMapAgX(%v) = %v, want within [0,1]", x, v)
		}
	}
}

func TestToneMapGTMonotonicNearBlack(t *testing.T) {
	a := toneMapGT(0.01, defaultParams())
	b := toneMapGT(0.1, defaultParams())
	c := toneMapGT(0.5, defaultParams())
	if !(a < b && b < c) {
		t.Errorf("GT curve should be monotonic increasing near black, got %v, %v, %v", a, b, c)
	}
}

func TestToneMapPBRNeutralPreservesBlack(t *testing.T) {
	c := [3]float64{0, 0, 0}
	out := toneMapPBRNeutral(c)
	for i := range c {
		if diff := out[i] - c[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("black should pass through unchanged, got %v want %v", out, c)
		}
	}
}

func TestToneMapPBRNeutralBelowKneeOnlyAppliesToeLift(t *testing.T) {
	// min(c) = 0.2 >= 0.08, so the toe offset is the fixed 0.04; the
	// resulting peak (0.36) stays under startCompression (0.76), so the
	// highlight-compression branch never runs and the output is exactly
	// the toe-shifted input.
	c := [3]float64{0.3, 0.4, 0.2}
	want := [3]float64{0.26, 0.36, 0.16}
	out := toneMapPBRNeutral(c)
	for i := range want {
		if diff := out[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("component %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestToneMapPBRNeutralCompressesHighlights(t *testing.T) {
	c := [3]float64{2.0, 1.8, 1.5}
	out := toneMapPBRNeutral(c)
	for i := range out {
		if out[i] >= c[i] {
			t.Errorf("highlights above the compression knee should be pulled down, component %d: got %v from %v", i, out[i], c[i])
		}
	}
}

func TestStep16ToneMappingRoutesVectorOperators(t *testing.T) {
	rs := hdrgrade.DefaultRenderState()
	rs.ToneMapping.Operator = hdrgrade.ToneMapPBRNeutral
	rs.ToneMapping.HDRHeadroom = 1

	in := [4]float64{0.3, 0.4, 0.2, 1}
	out := step16ToneMapping(rs, in)

	direct := toneMapPBRNeutral(rgb(in))
	for i := 0; i < 3; i++ {
		if diff := out[i] - direct[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("step16ToneMapping should match toneMapPBRNeutral directly at headroom=1, got %v want %v", out, direct)
		}
	}
}

func TestApplyPrimaryMatrixIdentityWhenSameGamut(t *testing.T) {
	c := [4]float64{0.3, 0.5, 0.7, 1}
	out := applyPrimaryMatrix(hdrgrade.PrimariesRec709, hdrgrade.PrimariesRec709, c)
	if out != c {
		t.Errorf("same-gamut conversion should be identity, got %v want %v", out, c)
	}
}

func TestApplyPrimaryMatrixRoundTrip(t *testing.T) {
	c := [4]float64{0.25, 0.55, 0.85, 1}
	toP3 := applyPrimaryMatrix(hdrgrade.PrimariesRec709, hdrgrade.PrimariesP3D65, c)
	back := applyPrimaryMatrix(hdrgrade.PrimariesP3D65, hdrgrade.PrimariesRec709, toP3)

	for i := 0; i < 3; i++ {
		if math.Abs(back[i]-c[i]) > 1e-3 {
			t.Errorf("Rec709->P3->Rec709 round trip should recover the original within 1e-3, component %d: got %v want %v", i, back[i], c[i])
		}
	}
}

func TestApplyPrimaryMatrixChangesNonGreyColours(t *testing.T) {
	c := [4]float64{0.9, 0.1, 0.1, 1}
	out := applyPrimaryMatrix(hdrgrade.PrimariesRec709, hdrgrade.PrimariesRec2020, c)
	if out == c {
		t.Error("converting a saturated colour between distinct gamuts should change its components")
	}
}
