package filter

import (
	"math/rand/v2"

	"golang.org/x/text/cases"
)

// Stock is a named film emulation record: a colour transform (expressed
// as a 3x3 desaturation/tint matrix, the common case for classic stock
// looks) plus grain parameters.
type Stock struct {
	Name           string
	Matrix         [3][3]float64
	GrainIntensity float64 // 0-100, stock's characteristic grain strength at intensity=100
}

var stockRegistry = map[string]Stock{}

var foldCase = cases.Fold()

func init() {
	register(Stock{
		Name:           "kodak-tri-x-400",
		Matrix:         desaturateMatrix(1.0), // classic black-and-white stock: full desaturation
		GrainIntensity: 35,
	})
	register(Stock{
		Name:           "kodak-portra-400",
		Matrix:         desaturateMatrix(0.08),
		GrainIntensity: 12,
	})
	register(Stock{
		Name:           "fuji-velvia-50",
		Matrix:         desaturateMatrix(-0.1), // negative: oversaturate
		GrainIntensity: 6,
	})
	register(Stock{
		Name:           "cinestill-800t",
		Matrix:         desaturateMatrix(0.05),
		GrainIntensity: 22,
	})
}

func register(s Stock) { stockRegistry[foldCase.String(s.Name)] = s }

// LookupStock resolves a stock by name, case-insensitively (§4.5.3).
func LookupStock(name string) (Stock, bool) {
	s, ok := stockRegistry[foldCase.String(name)]
	return s, ok
}

func desaturateMatrix(amount float64) [3][3]float64 {
	// Lerp between identity and a Rec.709 luma-replication matrix.
	l := [3]float64{0.2126, 0.7152, 0.0722}
	var m [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			identity := 0.0
			if r == c {
				identity = 1
			}
			m[r][c] = identity*(1-amount) + l[c]*amount
		}
	}
	return m
}

func applyMatrix(m [3][3]float64, c [3]float64) [3]float64 {
	var out [3]float64
	for r := 0; r < 3; r++ {
		out[r] = m[r][0]*c[0] + m[r][1]*c[1] + m[r][2]*c[2]
	}
	return out
}

// FilmEmulation applies a named stock's colour transform, then adds
// deterministic luminance-modulated grain (§4.5.3).
type FilmEmulation struct {
	Stock            Stock
	Intensity        float64 // 0-100, lerp between original and stock-transformed image
	GrainIntensity   float64 // 0-100, overrides Stock.GrainIntensity when HasGrainOverride
	HasGrainOverride bool
	FrameSeed        uint64
}

// Apply writes the emulated frame into dst.
func (fe FilmEmulation) Apply(src, dst *Frame) {
	intensity := clampFloat(fe.Intensity, 0, 100) / 100
	grainAmount := fe.Stock.GrainIntensity
	if fe.HasGrainOverride {
		grainAmount = fe.GrainIntensity
	}
	grainAmount = clampFloat(grainAmount, 0, 100) / 100

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			c := src.At(x, y)
			transformed := applyMatrix(fe.Stock.Matrix, [3]float64{c[0], c[1], c[2]})
			graded := [3]float64{}
			for i := 0; i < 3; i++ {
				graded[i] = c[i]*(1-intensity) + transformed[i]*intensity
			}

			if grainAmount > 0 {
				l := luma709([4]float64{graded[0], graded[1], graded[2], 0})
				// Quadratic falloff peaking at L=0.5, zero at L=0 and L=1.
				envelope := 1 - 4*(l-0.5)*(l-0.5)
				if envelope < 0 {
					envelope = 0
				}
				noise := grainSample(fe.FrameSeed, x, y)
				for i := 0; i < 3; i++ {
					graded[i] += noise * envelope * grainAmount * 0.2
				}
			}
			dst.Set(x, y, [4]float64{graded[0], graded[1], graded[2], c[3]})
		}
	}
}

// grainSample returns a deterministic zero-mean noise value in [-1,1] for
// (frameSeed, x, y), used so that identical (stock, intensity, grainSeed)
// inputs reproduce bit-identical grain (testable property 5) while a
// different seed changes at least one output byte (testable property 6).
func grainSample(frameSeed uint64, x, y int) float64 {
	seed1 := frameSeed
	seed2 := uint64(x)<<32 | uint64(uint32(y))
	src := rand.NewPCG(seed1, seed2)
	r := rand.New(src)
	return r.Float64()*2 - 1
}
