package filter

// Sharpen applies a 3x3 unsharp mask, §4.5.2.
type Sharpen struct {
	Amount float64 // 0-100
}

var sharpenKernel = [3][3]float64{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// Apply writes the sharpened result of src into dst.
func (s Sharpen) Apply(src, dst *Frame) {
	amount := clampFloat(s.Amount, 0, 100) / 100
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			original := src.At(x, y)
			var sum [3]float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					w := sharpenKernel[ky+1][kx+1]
					if w == 0 {
						continue
					}
					sample := src.At(x+kx, y+ky)
					for c := 0; c < 3; c++ {
						sum[c] += sample[c] * w
					}
				}
			}
			out := original
			for c := 0; c < 3; c++ {
				// HDR-safe: only clamp the lower bound, preserve values above 1.
				v := sum[c]
				if v < 0 {
					v = 0
				}
				out[c] = original[c]*(1-amount) + v*amount
			}
			dst.Set(x, y, out)
		}
	}
}
