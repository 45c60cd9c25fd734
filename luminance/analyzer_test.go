package luminance

import (
	"math"
	"testing"
)

func TestAnalyzeFirstFrameReturnsSeed(t *testing.T) {
	a := NewAnalyzer()
	got := a.Analyze(UniformSampler(0.9))
	if got != seed {
		t.Errorf("first frame = %+v, want seed %+v", got, seed)
	}
}

func TestAnalyzeSecondFrameReflectsFirstFramesReduction(t *testing.T) {
	a := NewAnalyzer()
	a.Analyze(UniformSampler(0.5))
	got := a.Analyze(UniformSampler(0.5))

	wantLinear := 0.5
	if diff := got.LinearAvg - wantLinear; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("second frame LinearAvg = %v, want ~%v (one-frame latency, §4.4)", got.LinearAvg, wantLinear)
	}
	wantLog := math.Log(wantLinear)
	if diff := got.LogLuma - wantLog; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("second frame LogLuma = %v, want ~%v", got.LogLuma, wantLog)
	}
}

func TestAnalyzeClampsExtremeLuminance(t *testing.T) {
	a := NewAnalyzer()
	a.Analyze(UniformSampler(1e12))
	got := a.Analyze(UniformSampler(1e12))
	if got.LinearAvg > 1e6 {
		t.Errorf("LinearAvg = %v, want clamped to <= 1e6", got.LinearAvg)
	}
}

func TestAnalyzeTreatsNonPositiveSamplesAsFloor(t *testing.T) {
	a := NewAnalyzer()
	a.Analyze(UniformSampler(0))
	got := a.Analyze(UniformSampler(0))
	if got.LinearAvg <= 0 {
		t.Errorf("LinearAvg = %v, want a small positive floor instead of zero", got.LinearAvg)
	}
}

func TestAnalyzeOneFrameLatencyBetweenDistinctValues(t *testing.T) {
	a := NewAnalyzer()
	_ = a.Analyze(UniformSampler(0.2)) // frame 0: returns seed
	r1 := a.Analyze(UniformSampler(0.8))
	r2 := a.Analyze(UniformSampler(0.8))

	if diff := r1.LinearAvg - 0.2; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("frame 1 should still reflect frame 0's 0.2 reduction (double-buffered PBO lag), got %v", r1.LinearAvg)
	}
	if diff := r2.LinearAvg - 0.8; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("frame 2 should catch up to frame 1's 0.8 reduction, got %v", r2.LinearAvg)
	}
}

type quadrantSampler struct{}

func (quadrantSampler) At(u, v float64) float64 {
	if u < 0.5 {
		return 0.1
	}
	return 1.0
}

func TestAnalyzeAveragesAcrossSamples(t *testing.T) {
	a := NewAnalyzer()
	a.Analyze(quadrantSampler{})
	got := a.Analyze(quadrantSampler{})

	want := (0.1 + 1.0) / 2
	if diff := got.LinearAvg - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("LinearAvg = %v, want average of the two halves ~%v", got.LinearAvg, want)
	}
}
