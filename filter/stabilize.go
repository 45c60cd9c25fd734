package filter

import (
	"math"
	"sort"
)

// MotionVector is one block's estimated displacement and match quality.
type MotionVector struct {
	DX, DY  float64
	MeanSAD float64
}

// EstimateMotion implements §4.5.4 step 1: downsample both frames,
// partition into blocks, discard low-variance blocks, and exhaustively
// search each remaining block within radius for its best SAD match.
func EstimateMotion(reference, current *Frame) []MotionVector {
	const targetShort = 256
	const blockSizeFull = 16
	const searchRadiusFull = 32
	const varianceThreshold = 0.0004 // luma variance, normalized [0,1] scale

	scale := 1.0
	short := reference.Width
	if reference.Height < short {
		short = reference.Height
	}
	if short > 0 {
		scale = float64(targetShort) / float64(short)
	}
	if scale > 1 {
		scale = 1
	}

	refSmall := downsampleNearest(reference, scale)
	curSmall := downsampleNearest(current, scale)

	blockSize := maxInt(2, int(float64(blockSizeFull)*scale))
	radius := maxInt(1, int(float64(searchRadiusFull)*scale))

	var out []MotionVector
	for by := 0; by+blockSize <= refSmall.Height; by += blockSize {
		for bx := 0; bx+blockSize <= refSmall.Width; bx += blockSize {
			if blockLumaVariance(refSmall, bx, by, blockSize) < varianceThreshold {
				continue
			}
			dx, dy, sad := searchBlock(refSmall, curSmall, bx, by, blockSize, radius)
			out = append(out, MotionVector{
				DX:      dx / scale,
				DY:      dy / scale,
				MeanSAD: sad,
			})
		}
	}
	return out
}

func downsampleNearest(f *Frame, scale float64) *Frame {
	if scale >= 1 {
		return f
	}
	w := maxInt(1, int(float64(f.Width)*scale))
	h := maxInt(1, int(float64(f.Height)*scale))
	out := NewFrame(w, h)
	for y := 0; y < h; y++ {
		sy := int(float64(y) / scale)
		for x := 0; x < w; x++ {
			sx := int(float64(x) / scale)
			out.Set(x, y, f.At(sx, sy))
		}
	}
	return out
}

func blockLumaVariance(f *Frame, bx, by, size int) float64 {
	var sum, sumSq float64
	n := 0
	for y := by; y < by+size; y++ {
		for x := bx; x < bx+size; x++ {
			l := luma709(f.At(x, y))
			sum += l
			sumSq += l * l
			n++
		}
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

// searchBlock performs an exhaustive SAD search; out-of-frame samples in
// the current frame contribute 255 (on the 0-255 luma scale, i.e. 1.0
// here) as specified.
func searchBlock(ref, cur *Frame, bx, by, size, radius int) (dx, dy, meanSAD float64) {
	bestSAD := math.Inf(1)
	var bestDX, bestDY int
	for oy := -radius; oy <= radius; oy++ {
		for ox := -radius; ox <= radius; ox++ {
			sad := 0.0
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					refL := luma709(ref.At(bx+x, by+y))
					cx, cy := bx+x+ox, by+y+oy
					var curL float64
					if cx < 0 || cy < 0 || cx >= cur.Width || cy >= cur.Height {
						curL = 1.0
					} else {
						curL = luma709(cur.At(cx, cy))
					}
					sad += math.Abs(refL - curL)
				}
			}
			if sad < bestSAD {
				bestSAD = sad
				bestDX, bestDY = ox, oy
			}
		}
	}
	n := float64(size * size)
	return float64(bestDX), float64(bestDY), bestSAD / n
}

// AggregateMotion implements §4.5.4 steps 2-4: MAD-based outlier
// rejection, median aggregation, and a confidence score.
func AggregateMotion(vectors []MotionVector) (dx, dy, confidence float64) {
	if len(vectors) == 0 {
		return 0, 0, 0
	}
	dxs := make([]float64, len(vectors))
	dys := make([]float64, len(vectors))
	sads := make([]float64, len(vectors))
	for i, v := range vectors {
		dxs[i], dys[i], sads[i] = v.DX, v.DY, v.MeanSAD
	}

	dxs = rejectOutliers(dxs)
	dys = rejectOutliers(dys)
	if len(dxs) == 0 || len(dys) == 0 {
		return 0, 0, 0
	}

	dx = median(dxs)
	dy = median(dys)
	medSAD := median(sads)
	confidence = math.Max(0, 1-medSAD/40)
	return dx, dy, confidence
}

func rejectOutliers(values []float64) []float64 {
	m := median(values)
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - m)
	}
	mad := median(devs)
	if mad == 0 {
		return values
	}
	var out []float64
	for _, v := range values {
		if math.Abs(v-m) <= 2.5*mad {
			out = append(out, v)
		}
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// SmoothPath implements §4.5.4 step 5: build the cumulative motion path,
// smooth it with a one-pass EMA, and derive per-frame corrections.
// strength=0 yields all-zero corrections; higher strength flattens the
// path more aggressively.
func SmoothPath(raw []MotionVector, strength float64) []MotionVector {
	alpha := math.Max(0.01, 1-math.Min(0.99, strength/100))

	corrections := make([]MotionVector, len(raw))
	if len(raw) == 0 {
		return corrections
	}
	if strength == 0 {
		return corrections // zero-valued
	}

	var px, py float64
	var sx, sy float64
	for i, v := range raw {
		px += v.DX
		py += v.DY
		if i == 0 {
			sx, sy = px, py
		} else {
			sx = alpha*px + (1-alpha)*sx
			sy = alpha*py + (1-alpha)*sy
		}
		corrections[i] = MotionVector{DX: sx - px, DY: sy - py}
	}
	return corrections
}

// ApplyShift bilinearly shifts src by (dx, dy) into dst, filling
// out-of-bounds samples with black and optionally blackening cropAmount
// pixels at each border (§4.5.4 step 6).
func ApplyShift(src, dst *Frame, dx, dy float64, cropAmount int) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if cropAmount > 0 && (x < cropAmount || y < cropAmount || x >= src.Width-cropAmount || y >= src.Height-cropAmount) {
				dst.Set(x, y, [4]float64{0, 0, 0, 1})
				continue
			}
			sx := float64(x) + dx
			sy := float64(y) + dy
			if sx < 0 || sy < 0 || sx > float64(src.Width-1) || sy > float64(src.Height-1) {
				dst.Set(x, y, [4]float64{0, 0, 0, 1})
				continue
			}
			dst.Set(x, y, bilinearSample(src, sx, sy))
		}
	}
}

func bilinearSample(f *Frame, x, y float64) [4]float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := f.At(x0, y0)
	c10 := f.At(x0+1, y0)
	c01 := f.At(x0, y0+1)
	c11 := f.At(x0+1, y0+1)

	var out [4]float64
	for i := 0; i < 4; i++ {
		top := c00[i]*(1-fx) + c10[i]*fx
		bot := c01[i]*(1-fx) + c11[i]*fx
		out[i] = top*(1-fy) + bot*fy
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
