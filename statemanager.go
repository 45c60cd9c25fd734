package hdrgrade

import (
	"bytes"

	"github.com/gogpu/hdrgrade/texture"
	"github.com/gogpu/hdrgrade/uniform"
)

// StateManager converts a declarative RenderState into a minimal,
// ordered set of uniform-group updates (§4.1). It exclusively owns the
// dirty flags, the cached uniform values, and the texture snapshots; the
// FragmentPipeline and filters own their own GPU resources.
//
// StateManager is not safe for concurrent use — per §5, all state
// mutation happens on the single render thread.
type StateManager struct {
	cached   RenderState
	dirty    dirtySet
	textures *texture.Cache
}

// NewStateManager returns a StateManager seeded with DefaultRenderState
// and every texture snapshot clean.
func NewStateManager() *StateManager {
	return &StateManager{
		cached:   DefaultRenderState(),
		textures: texture.NewCache(),
	}
}

// HasPendingStateChanges reports whether any dirty flag is set.
func (m *StateManager) HasPendingStateChanges() bool {
	return !m.dirty.isEmpty()
}

// MarkAllDirty sets every flag, used on context loss or before the first
// frame.
func (m *StateManager) MarkAllDirty() {
	m.dirty.markAll()
	m.textures.MarkDirty(texture.Curves)
	m.textures.MarkDirty(texture.FalseColor)
	m.textures.MarkDirty(texture.LUT3D)
}

// ApplyRenderState compares rs against the cached snapshot field group by
// field group, marking the owning DirtyFlag wherever a group differs,
// then replaces the cache with rs in full — absent optional fields reset
// to their defaults rather than preserving the previous value (§3.2).
func (m *StateManager) ApplyRenderState(rs RenderState) {
	rs = sanitizeRenderState(rs)
	prev := m.cached

	if !colorAdjustmentsEqual(prev.Color, rs.Color) {
		m.dirty.mark(DirtyColor)
	}
	if prev.ToneMapping != rs.ToneMapping {
		m.dirty.mark(DirtyToneMapping)
	}
	if prev.ColorInversion != rs.ColorInversion {
		m.dirty.mark(DirtyInversion)
	}
	if prev.Background != rs.Background {
		m.dirty.mark(DirtyBackground)
	}
	if prev.CDL != rs.CDL {
		m.dirty.mark(DirtyCDL)
	}
	if !bytes.Equal(prev.Curves.LUT, rs.Curves.LUT) {
		m.dirty.mark(DirtyCurves)
		m.textures.Set(texture.Curves, rs.Curves.LUT, texture.Metadata{})
	}
	if prev.Wheels != rs.Wheels {
		m.dirty.mark(DirtyWheels)
	}
	if prev.FalseColor.Enabled != rs.FalseColor.Enabled || !bytes.Equal(prev.FalseColor.LUT, rs.FalseColor.LUT) {
		m.dirty.mark(DirtyFalseColor)
		m.textures.Set(texture.FalseColor, rs.FalseColor.LUT, texture.Metadata{})
	}
	if prev.Zebra != rs.Zebra {
		m.dirty.mark(DirtyZebra)
	}
	if prev.ChannelMode != rs.ChannelMode {
		m.dirty.mark(DirtyChannelMode)
	}
	if !lut3DEqual(prev.LUT3D, rs.LUT3D) {
		m.dirty.mark(DirtyLUT3D)
		m.textures.Set(texture.LUT3D, rs.LUT3D.Data, texture.Metadata{
			CubeSize: rs.LUT3D.Size, Intensity: rs.LUT3D.Intensity, HasIntensity: true,
		})
	}
	if prev.Display != rs.Display {
		m.dirty.mark(DirtyDisplay)
	}
	if prev.HighlightsShadows != rs.HighlightsShadows {
		m.dirty.mark(DirtyHighlightsShadows)
	}
	if prev.Vibrance != rs.Vibrance {
		m.dirty.mark(DirtyVibrance)
	}
	if prev.Clarity != rs.Clarity {
		m.dirty.mark(DirtyClarity)
	}
	if prev.Sharpen != rs.Sharpen {
		m.dirty.mark(DirtySharpen)
	}
	if prev.HSLQualifier != rs.HSLQualifier {
		m.dirty.mark(DirtyHSL)
	}
	if prev.GamutMapping != rs.GamutMapping {
		m.dirty.mark(DirtyGamutMapping)
	}
	if prev.Linearize != rs.Linearize {
		m.dirty.mark(DirtyLinearize)
	}
	if !inlineLUTEqual(prev.InlineLUT, rs.InlineLUT) {
		m.dirty.mark(DirtyInlineLUT)
	}
	if prev.OutOfRange != rs.OutOfRange {
		m.dirty.mark(DirtyOutOfRange)
	}
	if prev.ChannelSwizzle != rs.ChannelSwizzle {
		m.dirty.mark(DirtyChannelSwizzle)
	}
	if prev.PremultMode != rs.PremultMode {
		m.dirty.mark(DirtyPremult)
	}
	if prev.Dither != rs.Dither {
		m.dirty.mark(DirtyDither)
	}
	if prev.InputPrimaries != rs.InputPrimaries || prev.OutputPrimaries != rs.OutputPrimaries {
		m.dirty.mark(DirtyColorPrimaries)
	}

	m.cached = rs
}

// State returns the currently cached RenderState.
func (m *StateManager) State() RenderState { return m.cached }

// --- per-field setters (§4.1) ---

// SetColorInversion validates and sets the colour-inversion flag.
func (m *StateManager) SetColorInversion(enabled bool) {
	if m.cached.ColorInversion == enabled {
		return
	}
	m.cached.ColorInversion = enabled
	m.dirty.mark(DirtyInversion)
}

// SetLUT3D sets the 3D LUT. Passing data=nil disables the 3D LUT stage
// while still recording intensity, so a subsequent ApplyRenderState call
// with the same (nil, intensity) pair leaves DirtyLUT3D clean — this is
// the steady-state guard testable property 2 depends on.
func (m *StateManager) SetLUT3D(data []float32, size int, intensity float64) error {
	if data != nil && len(data) != size*size*size*3 {
		return ErrInvalidCubeSize
	}
	next := LUT3DState{Data: data, Size: size, Intensity: sanitize(intensity, 1)}
	if lut3DEqual(m.cached.LUT3D, next) {
		return nil
	}
	m.cached.LUT3D = next
	m.dirty.mark(DirtyLUT3D)
	m.textures.Set(texture.LUT3D, data, texture.Metadata{CubeSize: size, Intensity: next.Intensity, HasIntensity: true})
	return nil
}

// SetCurves sets the 256x1 RGBA curves LUT (nil disables).
func (m *StateManager) SetCurves(lut []byte) {
	if bytes.Equal(m.cached.Curves.LUT, lut) {
		return
	}
	m.cached.Curves.LUT = lut
	m.dirty.mark(DirtyCurves)
	m.textures.Set(texture.Curves, lut, texture.Metadata{})
}

// SetFalseColor enables/disables false colour and sets its palette LUT.
func (m *StateManager) SetFalseColor(enabled bool, lut []byte) {
	if m.cached.FalseColor.Enabled == enabled && bytes.Equal(m.cached.FalseColor.LUT, lut) {
		return
	}
	m.cached.FalseColor = FalseColorState{Enabled: enabled, LUT: lut}
	m.dirty.mark(DirtyFalseColor)
	m.textures.Set(texture.FalseColor, lut, texture.Metadata{})
}

// SetGamutMapping validates and sets the gamut-mapping stage.
func (m *StateManager) SetGamutMapping(s GamutMappingState) {
	if m.cached.GamutMapping == s {
		return
	}
	m.cached.GamutMapping = s
	m.dirty.mark(DirtyGamutMapping)
}

// SetLinearize validates and sets the log-decode stage.
func (m *StateManager) SetLinearize(s LinearizeState) {
	s.Gamma = sanitizeGamma(s.Gamma)
	if m.cached.Linearize == s {
		return
	}
	m.cached.Linearize = s
	m.dirty.mark(DirtyLinearize)
}

// SetOutOfRange validates and sets the out-of-range visualization mode.
// Absent (zero-value) input defaults to OutOfRangeOff.
func (m *StateManager) SetOutOfRange(mode OutOfRangeMode) {
	if mode < OutOfRangeOff || mode > OutOfRangeHigh {
		mode = OutOfRangeOff
	}
	if m.cached.OutOfRange == mode {
		return
	}
	m.cached.OutOfRange = mode
	m.dirty.mark(DirtyOutOfRange)
}

// SetPremultMode validates and sets the alpha premultiplication mode.
func (m *StateManager) SetPremultMode(mode PremultMode) {
	mode = validatePremultMode(mode)
	if m.cached.PremultMode == mode {
		return
	}
	m.cached.PremultMode = mode
	m.dirty.mark(DirtyPremult)
}

// SetDitherMode validates and sets the dither pattern.
func (m *StateManager) SetDitherMode(mode DitherMode) {
	mode = validateDitherMode(mode)
	if m.cached.Dither.Mode == mode {
		return
	}
	m.cached.Dither.Mode = mode
	m.dirty.mark(DirtyDither)
}

// SetQuantizeBits validates and sets the per-channel quantization depth.
func (m *StateManager) SetQuantizeBits(bits float64) {
	b := validateQuantizeBits(bits)
	if m.cached.Dither.QuantizeBits == b {
		return
	}
	m.cached.Dither.QuantizeBits = b
	m.dirty.mark(DirtyDither)
}

// SetChannelSwizzle validates and sets the RGBA channel remap. The
// identity swizzle [0,1,2,3] is treated as "no conversion" (§4.1) — it
// still triggers a dirty mark when it differs from the cached value, but
// reapplying the same identity on a steady-state frame marks nothing.
func (m *StateManager) SetChannelSwizzle(s [4]SwizzleChannel) {
	for i, c := range s {
		if c < SwizzleR || c > SwizzleOne {
			s[i] = IdentitySwizzle[i]
		}
	}
	if m.cached.ChannelSwizzle == s {
		return
	}
	m.cached.ChannelSwizzle = s
	m.dirty.mark(DirtyChannelSwizzle)
}

// SetColorPrimaries validates and sets the input/output gamut pair.
func (m *StateManager) SetColorPrimaries(input, output ColorPrimaries) {
	if input < PrimariesRec709 || input > PrimariesAdobeRGB {
		input = PrimariesRec709
	}
	if output < PrimariesRec709 || output > PrimariesAdobeRGB {
		output = PrimariesRec709
	}
	if m.cached.InputPrimaries == input && m.cached.OutputPrimaries == output {
		return
	}
	m.cached.InputPrimaries = input
	m.cached.OutputPrimaries = output
	m.dirty.mark(DirtyColorPrimaries)
}

// TextureBinder is the host callback surface for lazily uploading the
// three texture snapshots (curves, false colour, 3D LUT) ApplyUniforms
// observes as dirty (§6.2).
type TextureBinder interface {
	BindCurvesLUTTexture(data []byte)
	BindFalseColorLUTTexture(data []byte)
	BindLUT3DTexture(data []float32, size int)
}

// ApplyUniforms writes every dirty flag's uniforms to shader in the fixed
// order defined by orderedDirtyFlags, requesting texture binds through
// binder as needed, then clears the flag. It is the caller's
// responsibility to ensure shader.IsReady() before calling this.
func (m *StateManager) ApplyUniforms(shader *uniform.Program, binder TextureBinder) {
	for _, flag := range orderedDirtyFlags {
		if !m.dirty.has(flag) {
			continue
		}
		m.writeGroup(shader, binder, flag)
		m.dirty.clear(flag)
	}
}

func (m *StateManager) writeGroup(shader *uniform.Program, binder TextureBinder, flag DirtyFlag) {
	rs := m.cached
	switch flag {
	case DirtyColor:
		writeColorUniforms(shader, rs.Color)
	case DirtyToneMapping:
		shader.Write("toneMapOperator", uniform.IScalar(int32(rs.ToneMapping.Operator)))
		shader.Write("toneMapParams", uniform.Vec(append([]float32(nil), f32(rs.ToneMapping.Params[:])...)))
		shader.Write("hdrHeadroom", uniform.Scalar(float32(rs.ToneMapping.HDRHeadroom)))
	case DirtyInversion:
		shader.Write("colorInversion", uniform.IScalar(boolToInt(rs.ColorInversion)))
	case DirtyBackground:
		shader.Write("backgroundMode", uniform.IScalar(int32(rs.Background.Mode)))
		shader.Write("backgroundColorA", uniform.Vec(f32(rs.Background.ColorA[:])))
		shader.Write("backgroundColorB", uniform.Vec(f32(rs.Background.ColorB[:])))
		shader.Write("backgroundCheckerSize", uniform.Scalar(float32(rs.Background.CheckerSize)))
	case DirtyCDL:
		shader.Write("cdlSlope", uniform.Vec(f32(rs.CDL.Slope[:])))
		shader.Write("cdlOffset", uniform.Vec(f32(rs.CDL.Offset[:])))
		shader.Write("cdlPower", uniform.Vec(f32(rs.CDL.Power[:])))
		shader.Write("cdlSaturation", uniform.Scalar(float32(rs.CDL.Saturation)))
		shader.Write("cdlWorkingSpace", uniform.IScalar(int32(rs.CDL.WorkingSpace)))
	case DirtyCurves:
		snap := m.textures.Get(texture.Curves)
		shader.Write("curvesEnabled", uniform.IScalar(boolToInt(rs.Curves.LUT != nil)))
		if snap.Dirty {
			binder.BindCurvesLUTTexture(rs.Curves.LUT)
			m.textures.Clean(texture.Curves)
		}
	case DirtyWheels:
		writeWheelUniforms(shader, rs.Wheels)
	case DirtyFalseColor:
		shader.Write("falseColorEnabled", uniform.IScalar(boolToInt(rs.FalseColor.Enabled)))
		snap := m.textures.Get(texture.FalseColor)
		if snap.Dirty {
			binder.BindFalseColorLUTTexture(rs.FalseColor.LUT)
			m.textures.Clean(texture.FalseColor)
		}
	case DirtyZebra:
		shader.Write("zebraEnabled", uniform.IScalar(boolToInt(rs.Zebra.Enabled)))
		shader.Write("zebraHighThreshold", uniform.Scalar(float32(rs.Zebra.HighThreshold)))
		shader.Write("zebraLowThreshold", uniform.Scalar(float32(rs.Zebra.LowThreshold)))
	case DirtyChannelMode:
		shader.Write("channelMode", uniform.IScalar(int32(rs.ChannelMode)))
	case DirtyLUT3D:
		shader.Write("lut3DIntensity", uniform.Scalar(float32(rs.LUT3D.Intensity)))
		shader.Write("lut3DSize", uniform.IScalar(int32(rs.LUT3D.Size)))
		snap := m.textures.Get(texture.LUT3D)
		if snap.Dirty {
			binder.BindLUT3DTexture(rs.LUT3D.Data, rs.LUT3D.Size)
			m.textures.Clean(texture.LUT3D)
		}
	case DirtyDisplay:
		shader.Write("displayTransfer", uniform.IScalar(int32(rs.Display.Transfer)))
		shader.Write("displayGamma", uniform.Scalar(float32(rs.Display.Gamma)))
		shader.Write("displayBrightness", uniform.Scalar(float32(rs.Display.Brightness)))
		shader.Write("displayCustomGamma", uniform.Scalar(float32(rs.Display.CustomGamma)))
	case DirtyHighlightsShadows:
		shader.Write("highlights", uniform.Scalar(float32(rs.HighlightsShadows.Highlights)))
		shader.Write("shadows", uniform.Scalar(float32(rs.HighlightsShadows.Shadows)))
		shader.Write("whites", uniform.Scalar(float32(rs.HighlightsShadows.Whites)))
		shader.Write("blacks", uniform.Scalar(float32(rs.HighlightsShadows.Blacks)))
	case DirtyVibrance:
		shader.Write("vibrance", uniform.Scalar(float32(rs.Vibrance.Amount)))
		shader.Write("vibranceProtectSkin", uniform.IScalar(boolToInt(rs.Vibrance.ProtectSkinTones)))
	case DirtyClarity:
		shader.Write("clarity", uniform.Scalar(float32(rs.Clarity)))
	case DirtySharpen:
		shader.Write("sharpen", uniform.Scalar(float32(rs.Sharpen)))
	case DirtyHSL:
		writeHSLUniforms(shader, rs.HSLQualifier)
	case DirtyGamutMapping:
		shader.Write("gamutMappingEnabled", uniform.IScalar(boolToInt(rs.GamutMapping.Enabled)))
		shader.Write("gamutMappingMode", uniform.IScalar(int32(rs.GamutMapping.Mode)))
	case DirtyLinearize:
		shader.Write("logType", uniform.IScalar(int32(rs.Linearize.LogType)))
		shader.Write("linearizeGamma", uniform.Scalar(float32(rs.Linearize.Gamma)))
		shader.Write("srgbToLinear", uniform.IScalar(boolToInt(rs.Linearize.SRGBToLinear)))
		shader.Write("rec709ToLinear", uniform.IScalar(boolToInt(rs.Linearize.Rec709ToLinear)))
		shader.Write("alphaType", uniform.IScalar(int32(rs.Linearize.AlphaType)))
	case DirtyInlineLUT:
		shader.Write("inlineLUTEnabled", uniform.IScalar(boolToInt(rs.InlineLUT.Data != nil)))
		shader.Write("inlineLUTChannels", uniform.IScalar(int32(rs.InlineLUT.Channels)))
	case DirtyOutOfRange:
		shader.Write("outOfRange", uniform.IScalar(int32(rs.OutOfRange)))
	case DirtyChannelSwizzle:
		sw := [4]int32{int32(rs.ChannelSwizzle[0]), int32(rs.ChannelSwizzle[1]), int32(rs.ChannelSwizzle[2]), int32(rs.ChannelSwizzle[3])}
		shader.Write("channelSwizzle", uniform.IVec(sw[:]))
	case DirtyPremult:
		shader.Write("premultMode", uniform.IScalar(int32(rs.PremultMode)))
	case DirtyDither:
		shader.Write("ditherMode", uniform.IScalar(int32(rs.Dither.Mode)))
		shader.Write("quantizeBits", uniform.IScalar(int32(rs.Dither.QuantizeBits)))
	case DirtyColorPrimaries:
		shader.Write("inputPrimaries", uniform.IScalar(int32(rs.InputPrimaries)))
		shader.Write("outputPrimaries", uniform.IScalar(int32(rs.OutputPrimaries)))
	}
}

func writeColorUniforms(shader *uniform.Program, c ColorAdjustments) {
	exposure := broadcastOrSanitize(c.Exposure, c.ExposureRGB, 0)
	gamma := broadcastOrSanitize(c.Gamma, c.GammaRGB, 1)
	contrast := broadcastOrSanitize(c.Contrast, c.ContrastRGB, 1)
	gammaRGB := sanitizeRGB(gamma, 1)
	scaleRGB := sanitizeRGB(c.ScaleRGB, 1)
	offsetRGB := sanitizeRGB(c.OffsetRGB, 0)

	shader.Write("exposureRGB", uniform.Vec(f32(exposure[:])))
	shader.Write("gammaRGB", uniform.Vec(f32(gammaRGB[:])))
	shader.Write("saturation", uniform.Scalar(float32(sanitize(c.Saturation, 1))))
	shader.Write("contrastRGB", uniform.Vec(f32(contrast[:])))
	shader.Write("brightness", uniform.Scalar(float32(sanitize(c.Brightness, 0))))
	shader.Write("temperature", uniform.Scalar(float32(sanitize(c.Temperature, 0))))
	shader.Write("tint", uniform.Scalar(float32(sanitize(c.Tint, 0))))
	shader.Write("scaleRGB", uniform.Vec(f32(scaleRGB[:])))
	shader.Write("offsetRGB", uniform.Vec(f32(offsetRGB[:])))
}

func writeWheelUniforms(shader *uniform.Program, w ColorWheelsState) {
	write := func(name string, wheel Wheel) {
		shader.Write(name+"RGB", uniform.Vec(f32(wheel.RGB[:])))
		shader.Write(name+"Luminance", uniform.Scalar(float32(wheel.Luminance)))
	}
	write("wheelLift", w.Lift)
	write("wheelGamma", w.Gamma)
	write("wheelGain", w.Gain)
	write("wheelMaster", w.Master)
}

func writeHSLUniforms(shader *uniform.Program, h HSLQualifierState) {
	shader.Write("hslEnabled", uniform.IScalar(boolToInt(h.Enabled)))
	shader.Write("hslHue", uniform.Scalar(float32(h.Hue)))
	shader.Write("hslHueWidth", uniform.Scalar(float32(h.HueWidth)))
	shader.Write("hslSaturation", uniform.Scalar(float32(h.Saturation)))
	shader.Write("hslSatWidth", uniform.Scalar(float32(h.SatWidth)))
	shader.Write("hslLuminance", uniform.Scalar(float32(h.Luminance)))
	shader.Write("hslLumWidth", uniform.Scalar(float32(h.LumWidth)))
	shader.Write("hslSoftness", uniform.Scalar(float32(h.Softness)))
	shader.Write("hslInvert", uniform.IScalar(boolToInt(h.Invert)))
	shader.Write("hslPreviewMatte", uniform.IScalar(boolToInt(h.PreviewMatte)))
	shader.Write("hslHueShift", uniform.Scalar(float32(h.HueShift)))
	shader.Write("hslSatScale", uniform.Scalar(float32(h.SatScale)))
	shader.Write("hslLumScale", uniform.Scalar(float32(h.LumScale)))
}

func f32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// --- equality & sanitization helpers ---

func colorAdjustmentsEqual(a, b ColorAdjustments) bool {
	if a.Exposure != b.Exposure || a.Gamma != b.Gamma || a.Saturation != b.Saturation ||
		a.Contrast != b.Contrast || a.Brightness != b.Brightness || a.Temperature != b.Temperature ||
		a.Tint != b.Tint || a.ScaleRGB != b.ScaleRGB || a.OffsetRGB != b.OffsetRGB {
		return false
	}
	return ptrRGBEqual(a.ExposureRGB, b.ExposureRGB) &&
		ptrRGBEqual(a.GammaRGB, b.GammaRGB) &&
		ptrRGBEqual(a.ContrastRGB, b.ContrastRGB)
}

func ptrRGBEqual(a, b *[3]float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// lut3DEqual implements the §4.1 equality contract for 3D LUTs:
// intensity, size, and *slice identity* of Data (not byte content).
func lut3DEqual(a, b LUT3DState) bool {
	if a.Intensity != b.Intensity || a.Size != b.Size {
		return false
	}
	return sameSlice(a.Data, b.Data)
}

func sameSlice(a, b []float32) bool {
	if a == nil && b == nil {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

func inlineLUTEqual(a, b InlineLUTState) bool {
	return a.Size == b.Size && a.Channels == b.Channels && bytes.Equal(a.Data, b.Data)
}

// sanitizeRenderState applies §4.1's clamp/sanitize rules to the fields
// that carry validation contracts, before the sanitized value is ever
// compared against the cache or stored.
func sanitizeRenderState(rs RenderState) RenderState {
	rs.Color.Gamma = sanitizeGamma(rs.Color.Gamma)
	if rs.Color.GammaRGB != nil {
		g := sanitizeRGB(*rs.Color.GammaRGB, 1)
		g[0], g[1], g[2] = sanitizeGamma(g[0]), sanitizeGamma(g[1]), sanitizeGamma(g[2])
		rs.Color.GammaRGB = &g
	}
	rs.Color.ScaleRGB = sanitizeRGB(rs.Color.ScaleRGB, 1)
	rs.Color.OffsetRGB = sanitizeRGB(rs.Color.OffsetRGB, 0)
	rs.Color.Exposure = sanitize(rs.Color.Exposure, 0)
	rs.Color.Contrast = sanitize(rs.Color.Contrast, 1)

	rs.PremultMode = validatePremultMode(rs.PremultMode)
	rs.Dither.Mode = validateDitherMode(rs.Dither.Mode)
	rs.Dither.QuantizeBits = validateQuantizeBits(float64(rs.Dither.QuantizeBits))
	rs.Linearize.Gamma = sanitizeGamma(rs.Linearize.Gamma)

	for i, c := range rs.ChannelSwizzle {
		if c < SwizzleR || c > SwizzleOne {
			rs.ChannelSwizzle[i] = IdentitySwizzle[i]
		}
	}
	if rs.InputPrimaries < PrimariesRec709 || rs.InputPrimaries > PrimariesAdobeRGB {
		rs.InputPrimaries = PrimariesRec709
	}
	if rs.OutputPrimaries < PrimariesRec709 || rs.OutputPrimaries > PrimariesAdobeRGB {
		rs.OutputPrimaries = PrimariesRec709
	}
	return rs
}
