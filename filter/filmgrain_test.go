package filter

import "testing"

func TestLookupStockCaseInsensitive(t *testing.T) {
	_, ok := LookupStock("Kodak-Portra-400")
	if !ok {
		t.Fatal("LookupStock should match case-insensitively")
	}
	s, ok := LookupStock("KODAK-PORTRA-400")
	if !ok || s.Name != "kodak-portra-400" {
		t.Errorf("LookupStock(upper) = %+v, %v", s, ok)
	}
}

func TestFilmEmulationFullDesaturationMatchesLuma(t *testing.T) {
	src := NewFrame(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, [4]float64{float64(x) / 4, float64(y) / 4, 0.5, 1})
		}
	}
	stock, _ := LookupStock("kodak-tri-x-400")
	fe := FilmEmulation{Stock: stock, Intensity: 100, HasGrainOverride: true, GrainIntensity: 0, FrameSeed: 1}
	dst := NewFrame(4, 4)
	fe.Apply(src, dst)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := dst.At(x, y)
			if diff := c[0] - c[1]; diff > 1.0/255 || diff < -1.0/255 {
				t.Errorf("full desaturation should leave R≈G, got R=%v G=%v at (%d,%d)", c[0], c[1], x, y)
			}
			if diff := c[1] - c[2]; diff > 1.0/255 || diff < -1.0/255 {
				t.Errorf("full desaturation should leave G≈B, got G=%v B=%v at (%d,%d)", c[1], c[2], x, y)
			}
		}
	}
}

func TestLookupStockUnknownFails(t *testing.T) {
	if _, ok := LookupStock("not-a-real-stock"); ok {
		t.Error("LookupStock should fail for an unregistered name")
	}
}

func TestFilmEmulationZeroIntensityPreservesColour(t *testing.T) {
	src := NewFrame(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, [4]float64{0.6, 0.3, 0.1, 1})
		}
	}
	stock, _ := LookupStock("kodak-tri-x-400")
	fe := FilmEmulation{Stock: stock, Intensity: 0, HasGrainOverride: true, GrainIntensity: 0, FrameSeed: 1}
	dst := NewFrame(4, 4)
	fe.Apply(src, dst)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := dst.At(x, y)
			want := src.At(x, y)
			for i := 0; i < 3; i++ {
				if diff := c[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
					t.Fatalf("intensity=0 with no grain should preserve colour, got %v want %v", c, want)
				}
			}
		}
	}
}

func TestFilmEmulationDeterministicGrain(t *testing.T) {
	src := NewFrame(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, [4]float64{0.5, 0.5, 0.5, 1})
		}
	}
	stock, _ := LookupStock("kodak-tri-x-400")
	fe := FilmEmulation{Stock: stock, Intensity: 50, FrameSeed: 42}

	dst1 := NewFrame(10, 10)
	fe.Apply(src, dst1)
	dst2 := NewFrame(10, 10)
	fe.Apply(src, dst2)

	for i := range dst1.Pix {
		if dst1.Pix[i] != dst2.Pix[i] {
			t.Fatalf("same seed should reproduce bit-identical grain, differs at index %d", i)
		}
	}
}

func TestFilmEmulationDifferentSeedChangesOutput(t *testing.T) {
	src := NewFrame(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, [4]float64{0.5, 0.5, 0.5, 1})
		}
	}
	stock, _ := LookupStock("kodak-tri-x-400")

	feA := FilmEmulation{Stock: stock, Intensity: 50, FrameSeed: 1}
	dstA := NewFrame(10, 10)
	feA.Apply(src, dstA)

	feB := FilmEmulation{Stock: stock, Intensity: 50, FrameSeed: 2}
	dstB := NewFrame(10, 10)
	feB.Apply(src, dstB)

	same := true
	for i := range dstA.Pix {
		if dstA.Pix[i] != dstB.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should change at least one output value")
	}
}

func TestFilmEmulationPreservesAlpha(t *testing.T) {
	src := NewFrame(2, 2)
	src.Set(0, 0, [4]float64{0.2, 0.2, 0.2, 0.5})
	stock, _ := LookupStock("fuji-velvia-50")
	fe := FilmEmulation{Stock: stock, Intensity: 100, FrameSeed: 7}
	dst := NewFrame(2, 2)
	fe.Apply(src, dst)

	if got := dst.At(0, 0)[3]; got != 0.5 {
		t.Errorf("alpha = %v, want passthrough 0.5", got)
	}
}

func TestFilmEmulationGrainOverride(t *testing.T) {
	stock, _ := LookupStock("cinestill-800t")
	fe := FilmEmulation{Stock: stock, Intensity: 0, GrainIntensity: 0, HasGrainOverride: true, FrameSeed: 1}
	src := NewFrame(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, [4]float64{0.5, 0.5, 0.5, 1})
		}
	}
	dst := NewFrame(4, 4)
	fe.Apply(src, dst)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := dst.At(x, y)
			for i := 0; i < 3; i++ {
				if diff := c[i] - 0.5; diff > 1e-9 || diff < -1e-9 {
					t.Fatalf("grain override to 0 should suppress grain, got %v", c)
				}
			}
		}
	}
}
