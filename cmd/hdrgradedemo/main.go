// Command hdrgradedemo renders a still image through the hdrgrade colour
// pipeline end to end: it loads (or synthesizes) a frame, applies a
// RenderState through StateManager, evaluates the 28-step grading
// pipeline per pixel, optionally runs the bilateral/sharpen/film-grain
// filters, and writes the result back out as a PNG.
//
// It has no GPU backend: grading runs through pipeline.Evaluate, the
// CPU reference implementation of the fragment shader in pipeline/fragment.wgsl.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/hdrgrade"
	"github.com/gogpu/hdrgrade/filter"
	"github.com/gogpu/hdrgrade/gpu"
	"github.com/gogpu/hdrgrade/pipeline"
	"github.com/gogpu/hdrgrade/render"
)

func main() {
	var (
		input      = flag.String("input", "", "input PNG (if empty, a synthetic gradient test frame is generated)")
		output     = flag.String("output", "graded.png", "output PNG path")
		width      = flag.Int("width", 960, "frame width (synthetic input, or resize target)")
		height     = flag.Int("height", 540, "frame height (synthetic input, or resize target)")
		exposure   = flag.Float64("exposure", 0, "exposure adjustment in stops")
		saturation = flag.Float64("saturation", 1, "global saturation multiplier")
		toneMap    = flag.String("tonemap", "reinhard", "tone-map operator: none|reinhard|filmic|aces|aceshill|agx|pbrneutral|gt")
		invert     = flag.Bool("invert", false, "invert colours")
		filmStock  = flag.String("film", "", "film emulation stock name (e.g. kodak-portra-400); empty disables")
		bilateral  = flag.Int("bilateral", 0, "bilateral noise-reduction radius in pixels; 0 disables")
		sharpen    = flag.Float64("sharpen", 0, "unsharp-mask amount 0-100; 0 disables")
		useGPU     = flag.Bool("gpu", true, "bind a GPU device and validate the pipeline's WGSL shaders before grading")
	)
	flag.Parse()

	hdrgrade.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	log := hdrgrade.Logger()

	if *useGPU {
		bindGPU(log)
	}

	src, err := loadFrame(*input, *width, *height)
	if err != nil {
		log.Error("failed to load input frame", "err", err)
		os.Exit(1)
	}

	rs := buildRenderState(*exposure, *saturation, *toneMap, *invert)

	sm := hdrgrade.NewStateManager()
	sm.ApplyRenderState(rs)
	log.Info("render state applied", "pendingChanges", sm.HasPendingStateChanges())

	graded := gradeFrame(src, sm.State())

	if *bilateral > 0 {
		nr := filter.NewBilateral(*bilateral, 1)
		out := filter.NewFrame(graded.Width, graded.Height)
		nr.Apply(graded, out)
		graded = out
		log.Info("applied bilateral noise reduction", "radius", *bilateral)
	}

	if *sharpen > 0 {
		sh := filter.Sharpen{Amount: *sharpen}
		out := filter.NewFrame(graded.Width, graded.Height)
		sh.Apply(graded, out)
		graded = out
		log.Info("applied sharpen", "amount", *sharpen)
	}

	if *filmStock != "" {
		stock, ok := filter.LookupStock(*filmStock)
		if !ok {
			log.Warn("unknown film stock, skipping emulation", "stock", *filmStock)
		} else {
			fe := filter.FilmEmulation{Stock: stock, Intensity: 100, FrameSeed: 1}
			out := filter.NewFrame(graded.Width, graded.Height)
			fe.Apply(graded, out)
			graded = out
			log.Info("applied film emulation", "stock", stock.Name)
		}
	}

	if err := saveFrame(*output, graded); err != nil {
		log.Error("failed to save output frame", "err", err)
		os.Exit(1)
	}
	log.Info("wrote graded frame", "path", *output, "width", graded.Width, "height", graded.Height)
}

// bindGPU exercises the device-binding/shader-validation step a host
// embedding hdrgrade would normally drive with its own gpucontext device.
// This demo has no real GPU backend, so it stands in render.NullDeviceHandle
// as the host-supplied handle: Manager.Init still validates the pipeline's
// WGSL sources against naga, it just never dispatches any GPU work. Grading
// itself always runs through the CPU reference path below regardless of
// whether binding succeeds.
func bindGPU(log *slog.Logger) {
	mgr := gpu.NewManager()
	if err := mgr.Init(render.NullDeviceHandle{}); err != nil {
		log.Warn("gpu device binding failed, continuing with CPU-only grading", "err", err)
		return
	}
	log.Info("gpu device bound", "ready", mgr.Ready())
}

// loadFrame decodes path as a PNG, or synthesizes a gradient test frame
// of the requested size when path is empty. A decoded image that does
// not match width/height is resized with a high-quality Catmull-Rom
// filter, matching the scale-to-canvas step a real renderer performs
// before grading.
func loadFrame(path string, width, height int) (*filter.Frame, error) {
	if path == "" {
		return syntheticGradient(width, height), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		resized := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	return frameFromImage(img, width, height), nil
}

func frameFromImage(img image.Image, width, height int) *filter.Frame {
	fr := filter.NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// image.Color.RGBA() is alpha-premultiplied; the pipeline
			// expects straight alpha, so convert through color.NRGBA64.
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			fr.Set(x, y, [4]float64{
				float64(c.R) / 65535,
				float64(c.G) / 65535,
				float64(c.B) / 65535,
				float64(c.A) / 65535,
			})
		}
	}
	return fr
}

// syntheticGradient builds a diagonal colour ramp, analogous to the
// teacher demo's gradient background, for use when no input file is given.
func syntheticGradient(width, height int) *filter.Frame {
	fr := filter.NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tx := float64(x) / float64(width)
			ty := float64(y) / float64(height)
			fr.Set(x, y, [4]float64{
				0.1 + tx*0.8,
				0.1 + ty*0.8,
				0.2 + (1-tx)*0.6,
				1,
			})
		}
	}
	return fr
}

func buildRenderState(exposure, saturation float64, toneMap string, invert bool) hdrgrade.RenderState {
	rs := hdrgrade.DefaultRenderState()
	rs.Color.Exposure = exposure
	rs.Color.Saturation = saturation
	rs.ColorInversion = invert
	rs.ToneMapping.Operator = parseToneMapOperator(toneMap)
	return rs
}

func parseToneMapOperator(name string) hdrgrade.ToneMapOperator {
	switch name {
	case "reinhard":
		return hdrgrade.ToneMapReinhard
	case "filmic":
		return hdrgrade.ToneMapFilmic
	case "aces":
		return hdrgrade.ToneMapACES
	case "aceshill":
		return hdrgrade.ToneMapACESHill
	case "agx":
		return hdrgrade.ToneMapAgX
	case "pbrneutral":
		return hdrgrade.ToneMapPBRNeutral
	case "gt":
		return hdrgrade.ToneMapGT
	default:
		return hdrgrade.ToneMapOff
	}
}

// gradeFrame evaluates the grading pipeline over every pixel of src,
// using src itself as the clarity/sharpen neighbour sampler since those
// steps read from the pre-grade input by design (§4.2).
func gradeFrame(src *filter.Frame, rs hdrgrade.RenderState) *filter.Frame {
	out := filter.NewFrame(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			px := pipeline.Pixel{
				Color:     src.At(x, y),
				X:         x,
				Y:         y,
				Width:     src.Width,
				Height:    src.Height,
				FrameTime: 0,
				Sample: func(dx, dy int) [4]float64 {
					return src.At(x+dx, y+dy)
				},
			}
			out.Set(x, y, pipeline.Evaluate(rs, px))
		}
	}
	return out
}

func saveFrame(path string, fr *filter.Frame) error {
	img := image.NewRGBA(image.Rect(0, 0, fr.Width, fr.Height))
	for y := 0; y < fr.Height; y++ {
		for x := 0; x < fr.Width; x++ {
			c := fr.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: to8(c[0]),
				G: to8(c[1]),
				B: to8(c[2]),
				A: to8(c[3]),
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func to8(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = v * 255
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
