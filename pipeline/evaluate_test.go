package pipeline

import (
	"testing"

	"github.com/gogpu/hdrgrade"
)

func u8(v float64) float64 { return v / 255 }

func approxEqual8(t *testing.T, got, want float64, label string) {
	t.Helper()
	gotByte := got * 255
	if gotByte < want-1 || gotByte > want+1 {
		t.Errorf("%s: got %.2f, want %.2f (±1)", label, gotByte, want)
	}
}

func TestEvaluateColorInversion(t *testing.T) {
	rs := hdrgrade.DefaultRenderState()
	rs.ColorInversion = true

	out := Evaluate(rs, Pixel{Color: [4]float64{u8(200), u8(100), u8(50), 1}})

	approxEqual8(t, out[0], 55, "R")
	approxEqual8(t, out[1], 155, "G")
	approxEqual8(t, out[2], 205, "B")
	approxEqual8(t, out[3], 255, "A")
}

func TestEvaluateChannelIsolationGreen(t *testing.T) {
	rs := hdrgrade.DefaultRenderState()
	rs.ChannelMode = hdrgrade.ChannelG

	out := Evaluate(rs, Pixel{Color: [4]float64{u8(200), u8(100), u8(50), 1}})

	approxEqual8(t, out[0], 100, "R")
	approxEqual8(t, out[1], 100, "G")
	approxEqual8(t, out[2], 100, "B")
}

func TestEvaluateFalseColorConstantRed(t *testing.T) {
	rs := hdrgrade.DefaultRenderState()
	lut := make([]byte, 256*3)
	for i := 0; i < 256; i++ {
		lut[i*3] = 200 // constant red
	}
	rs.FalseColor = hdrgrade.FalseColorState{Enabled: true, LUT: lut}

	out := Evaluate(rs, Pixel{Color: [4]float64{u8(10), u8(20), u8(30), 1}})

	if out[1] != 0 || out[2] != 0 {
		t.Errorf("expected green and blue to be zero under false colour, got g=%v b=%v", out[1], out[2])
	}
	if out[0] == 0 {
		t.Error("expected a non-zero red channel from the false colour LUT")
	}
}

func TestEvaluateDefaultStateIsIdentity(t *testing.T) {
	rs := hdrgrade.DefaultRenderState()
	in := [4]float64{0.3, 0.6, 0.9, 1}

	out := Evaluate(rs, Pixel{Color: in})

	for i := 0; i < 4; i++ {
		if diff := out[i] - in[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("component %d: got %v, want %v (default state must be identity)", i, out[i], in[i])
		}
	}
}

func TestEvaluateLUT3DIdentityPassthroughWhenAbsent(t *testing.T) {
	rs := hdrgrade.DefaultRenderState()
	out := Evaluate(rs, Pixel{Color: [4]float64{0.4, 0.5, 0.6, 1}})
	if out[0] != 0.4 || out[1] != 0.5 || out[2] != 0.6 {
		t.Errorf("expected passthrough with no 3D LUT bound, got %v", out)
	}
}
