package hdrgrade

// RenderState is an immutable value snapshot of everything the core needs
// to draw one frame. The host constructs a RenderState and passes it to
// StateManager.ApplyRenderState; the core never mutates it and never
// retains a reference to host-owned slices beyond what is documented on
// LUT3D, Curves, FalseColor and InlineLUT (the core takes ownership of
// those buffers until the next Set call or Dispose, per the move-on-set
// contract described in DESIGN.md).
//
// Every call to ApplyRenderState overwrites all fields in the cache:
// there is no partial update and no "keep previous value" behavior for
// an absent optional field — absence means "reset to default".
type RenderState struct {
	Color              ColorAdjustments
	ColorInversion     bool
	ToneMapping        ToneMappingState
	Background         BackgroundState
	CDL                CDLState
	Curves             CurvesState
	Wheels             ColorWheelsState
	FalseColor         FalseColorState
	Zebra              ZebraState
	ChannelMode        ChannelMode
	LUT3D              LUT3DState
	Display            DisplayState
	HighlightsShadows  HighlightsShadowsState
	Vibrance           VibranceState
	Clarity            float64
	Sharpen            float64
	HSLQualifier       HSLQualifierState
	GamutMapping       GamutMappingState
	Linearize          LinearizeState
	ChannelSwizzle     [4]SwizzleChannel
	PremultMode        PremultMode
	OutOfRange         OutOfRangeMode
	Dither             DitherState
	InputPrimaries     ColorPrimaries
	OutputPrimaries    ColorPrimaries
	InlineLUT          InlineLUTState
	Transition         *TransitionState
	InputTransfer      TransferCode
}

// ColorAdjustments groups the primary tonal controls (§4.2 steps 2-6).
type ColorAdjustments struct {
	Exposure        float64
	ExposureRGB     *[3]float64 // nil broadcasts Exposure to all channels
	Gamma           float64
	GammaRGB        *[3]float64
	Saturation      float64
	Contrast        float64
	ContrastRGB     *[3]float64
	Brightness      float64
	Temperature     float64
	Tint            float64
	ScaleRGB        [3]float64
	OffsetRGB       [3]float64
}

// ToneMapOperator selects the HDR-to-display tone-mapping curve (§6.3).
type ToneMapOperator int

const (
	ToneMapOff ToneMapOperator = iota
	ToneMapReinhard
	ToneMapFilmic
	ToneMapACES
	ToneMapAgX
	ToneMapPBRNeutral
	ToneMapGT
	ToneMapACESHill
)

// ToneMappingState carries the active operator and its parameters.
// Params is interpreted per-operator: Reinhard uses Params[0] as the
// white point; filmic/ACES variants leave Params unused (fixed curves).
type ToneMappingState struct {
	Operator     ToneMapOperator
	Params       [4]float64
	HDRHeadroom  float64 // >1 for scene-referred HDR content; 1.0 for SDR
}

// BackgroundMode selects the checkerboard/solid pattern behind transparent
// pixels (§6.3).
type BackgroundMode int

const (
	BackgroundNone BackgroundMode = iota
	BackgroundSolid
	BackgroundChecker
	BackgroundCrosshatch
)

// BackgroundState describes the pattern composited behind the image.
type BackgroundState struct {
	Mode        BackgroundMode
	ColorA      [4]float64
	ColorB      [4]float64
	CheckerSize float64
}

// CDLState is a Colour Decision List primary: (slope, offset, power, sat).
type CDLState struct {
	Slope         [3]float64
	Offset        [3]float64
	Power         [3]float64
	Saturation    float64
	WorkingSpace  int
}

// CurvesState carries a packed 256x1 RGBA 1D LUT: R/G/B channels hold the
// per-channel curve, the alpha channel holds the master curve.
type CurvesState struct {
	LUT []byte // len 256*4, nil disables
}

// Wheel is one lift/gamma/gain/master colour-wheel control.
type Wheel struct {
	RGB        [3]float64
	Luminance  float64
}

// ColorWheelsState groups the four grading wheels (§4.2 step 11).
type ColorWheelsState struct {
	Lift   Wheel
	Gamma  Wheel
	Gain   Wheel
	Master Wheel
}

// FalseColorState replaces the graded image with a luma-indexed palette.
type FalseColorState struct {
	Enabled bool
	LUT     []byte // len 256*3 (RGB), indexed by clamped luma
}

// ZebraState draws animated diagonal stripes over exposure extremes.
type ZebraState struct {
	Enabled       bool
	HighThreshold float64
	LowThreshold  float64
}

// ChannelMode isolates a single channel or shows luminance (§6.3).
type ChannelMode int

const (
	ChannelRGB ChannelMode = iota
	ChannelR
	ChannelG
	ChannelB
	ChannelA
	ChannelLuminance
)

// LUT3DState is a cube LUT: Data holds Size^3 RGB float32 triples in
// row-major (r fastest) order. Equality against the cached value compares
// Intensity, Size, and the *identity* of Data (slice header), not byte
// content — this is a deliberate §4.1 equality rule, not an oversight.
type LUT3DState struct {
	Data      []float32
	Size      int
	Intensity float64
}

// DisplayTransfer selects the output electro-optical transfer function.
type DisplayTransfer int

const (
	DisplayTransferLinear DisplayTransfer = iota
	DisplayTransferSRGB
	DisplayTransferRec709
	DisplayTransferGamma22
	DisplayTransferGamma24
	DisplayTransferCustomGamma
)

// DisplayState configures the final transfer-function and brightness stage.
type DisplayState struct {
	Transfer    DisplayTransfer
	Gamma       float64
	Brightness  float64
	CustomGamma float64
}

// HighlightsShadowsState rescales whites/blacks and lifts/darkens the
// extremes of the tonal range (§4.2 step 7).
type HighlightsShadowsState struct {
	Highlights float64
	Shadows    float64
	Whites     float64
	Blacks     float64
}

// VibranceState is a non-linear saturation boost with optional skin-tone
// protection (§4.2 step 8).
type VibranceState struct {
	Amount           float64
	ProtectSkinTones bool
}

// HSLQualifierState is a secondary-grading matte selector.
type HSLQualifierState struct {
	Enabled      bool
	Hue          float64
	HueWidth     float64
	Saturation   float64
	SatWidth     float64
	Luminance    float64
	LumWidth     float64
	Softness     float64
	Invert       bool
	PreviewMatte bool
	HueShift     float64
	SatScale     float64
	LumScale     float64
}

// GamutMappingState compresses out-of-gamut colours back into range.
type GamutMappingState struct {
	Enabled bool
	Mode    int
}

// LogType selects a camera log-to-linear decode curve.
type LogType int

const (
	LogNone LogType = iota
	LogSLog3
	LogVLog
	LogLogC
	LogCanonLog3
)

// LinearizeState decodes a camera log or gamma-encoded signal to linear
// light before the rest of the pipeline runs (§4.2 step 0.5).
type LinearizeState struct {
	LogType        LogType
	Gamma          float64
	SRGBToLinear   bool
	Rec709ToLinear bool
	AlphaType      int
}

// SwizzleChannel names a source channel or a constant for channel
// remapping; 0-3 select R/G/B/A, 4 is a constant 0, 5 is a constant 1.
type SwizzleChannel int

const (
	SwizzleR SwizzleChannel = iota
	SwizzleG
	SwizzleB
	SwizzleA
	SwizzleZero
	SwizzleOne
)

// IdentitySwizzle is [R,G,B,A] — the StateManager treats it as "no
// conversion" for both shader semantics and dirty-flag purposes.
var IdentitySwizzle = [4]SwizzleChannel{SwizzleR, SwizzleG, SwizzleB, SwizzleA}

// PremultMode selects alpha premultiplication handling.
type PremultMode int

const (
	PremultNone PremultMode = iota
	PremultPremultiply
	PremultUnpremultiply
)

// OutOfRangeMode selects the out-of-gamut visualization aid.
type OutOfRangeMode int

const (
	OutOfRangeOff OutOfRangeMode = iota
	OutOfRangeLow
	OutOfRangeHigh
)

// DitherMode selects the dither pattern applied before quantization.
type DitherMode int

const (
	DitherNone DitherMode = iota
	DitherOrdered
	DitherBlueNoise
)

// DitherState configures bit-depth quantization (§4.2 step 27).
type DitherState struct {
	Mode         DitherMode
	QuantizeBits int // 0 = disabled, else clamp(2,16)
}

// ColorPrimaries names a working or display gamut.
type ColorPrimaries int

const (
	PrimariesRec709 ColorPrimaries = iota
	PrimariesP3D65
	PrimariesRec2020
	PrimariesAdobeRGB
)

// InlineLUTState is a small inline 1D LUT attached directly to the colour
// adjustments (distinct from CurvesState, which is a dedicated grading
// stage). Channels is 1 (luma) or 3 (per-channel).
type InlineLUTState struct {
	Data     []byte
	Size     int
	Channels int
}

// TransferCode names the input electro-optical transfer function
// (§6.3 "Input transfer").
type TransferCode int

const (
	TransferLinearSRGB TransferCode = iota
	TransferHLG
	TransferPQ
)

// TransitionType selects the blend used by TransitionRenderer.
type TransitionType int

const (
	TransitionCrossfade TransitionType = iota
	TransitionDissolve
	TransitionWipeLeft
	TransitionWipeRight
	TransitionWipeUp
	TransitionWipeDown
)

// TransitionState describes an in-progress playlist transition.
type TransitionState struct {
	Type           TransitionType
	DurationFrames int
	Progress       float64
}

// DefaultRenderState returns the identity RenderState: a frame rendered
// with every field at its default produces byte-identical output to the
// unmodified input (modulo explicit clamps to a valid colour range).
func DefaultRenderState() RenderState {
	return RenderState{
		Color: ColorAdjustments{
			Gamma:      1,
			Saturation: 1,
			Contrast:   1,
			ScaleRGB:   [3]float64{1, 1, 1},
		},
		ToneMapping: ToneMappingState{
			Operator:    ToneMapOff,
			HDRHeadroom: 1,
		},
		Background: BackgroundState{Mode: BackgroundNone},
		CDL: CDLState{
			Slope:      [3]float64{1, 1, 1},
			Power:      [3]float64{1, 1, 1},
			Saturation: 1,
		},
		Wheels: ColorWheelsState{
			Lift:   Wheel{},
			Gamma:  Wheel{RGB: [3]float64{1, 1, 1}, Luminance: 1},
			Gain:   Wheel{RGB: [3]float64{1, 1, 1}, Luminance: 1},
			Master: Wheel{RGB: [3]float64{1, 1, 1}, Luminance: 1},
		},
		ChannelMode: ChannelRGB,
		LUT3D:       LUT3DState{Intensity: 1},
		Display: DisplayState{
			Transfer:    DisplayTransferLinear,
			Gamma:       1,
			Brightness:  1,
			CustomGamma: 2.2,
		},
		ChannelSwizzle:  IdentitySwizzle,
		InputPrimaries:  PrimariesRec709,
		OutputPrimaries: PrimariesRec709,
		InputTransfer:   TransferLinearSRGB,
	}
}
