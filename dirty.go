package hdrgrade

// DirtyFlag names one group of uniforms that must be re-uploaded before
// the next draw. The set is closed: adding a uniform to the fragment
// pipeline requires a corresponding flag here (§3.1).
type DirtyFlag uint32

const (
	DirtyColor DirtyFlag = 1 << iota
	DirtyToneMapping
	DirtyInversion
	DirtyBackground
	DirtyCDL
	DirtyCurves
	DirtyWheels
	DirtyFalseColor
	DirtyZebra
	DirtyChannelMode
	DirtyLUT3D
	DirtyDisplay
	DirtyHighlightsShadows
	DirtyVibrance
	DirtyClarity
	DirtySharpen
	DirtyHSL
	DirtyGamutMapping
	DirtyLinearize
	DirtyInlineLUT
	DirtyOutOfRange
	DirtyChannelSwizzle
	DirtyPremult
	DirtyDither
	DirtyColorPrimaries
)

// orderedDirtyFlags fixes the order in which StateManager.ApplyUniforms
// visits dirty groups. Identical inputs must always produce an identical
// GPU command stream, so this order is part of the wire contract and must
// not be reordered casually.
var orderedDirtyFlags = []DirtyFlag{
	DirtyColor,
	DirtyToneMapping,
	DirtyInversion,
	DirtyBackground,
	DirtyCDL,
	DirtyCurves,
	DirtyWheels,
	DirtyFalseColor,
	DirtyZebra,
	DirtyChannelMode,
	DirtyLUT3D,
	DirtyDisplay,
	DirtyHighlightsShadows,
	DirtyVibrance,
	DirtyClarity,
	DirtySharpen,
	DirtyHSL,
	DirtyGamutMapping,
	DirtyLinearize,
	DirtyInlineLUT,
	DirtyOutOfRange,
	DirtyChannelSwizzle,
	DirtyPremult,
	DirtyDither,
	DirtyColorPrimaries,
}

// allDirtyFlags is the union of every flag, used by MarkAllDirty.
var allDirtyFlags DirtyFlag

func init() {
	for _, f := range orderedDirtyFlags {
		allDirtyFlags |= f
	}
}

// String returns the uniform-group name, matching the shader naming
// contract in §6.4.
func (f DirtyFlag) String() string {
	switch f {
	case DirtyColor:
		return "color"
	case DirtyToneMapping:
		return "toneMapping"
	case DirtyInversion:
		return "inversion"
	case DirtyBackground:
		return "background"
	case DirtyCDL:
		return "cdl"
	case DirtyCurves:
		return "curves"
	case DirtyWheels:
		return "wheels"
	case DirtyFalseColor:
		return "falseColor"
	case DirtyZebra:
		return "zebra"
	case DirtyChannelMode:
		return "channelMode"
	case DirtyLUT3D:
		return "lut3D"
	case DirtyDisplay:
		return "display"
	case DirtyHighlightsShadows:
		return "highlightsShadows"
	case DirtyVibrance:
		return "vibrance"
	case DirtyClarity:
		return "clarity"
	case DirtySharpen:
		return "sharpen"
	case DirtyHSL:
		return "hsl"
	case DirtyGamutMapping:
		return "gamutMapping"
	case DirtyLinearize:
		return "linearize"
	case DirtyInlineLUT:
		return "inlineLUT"
	case DirtyOutOfRange:
		return "outOfRange"
	case DirtyChannelSwizzle:
		return "channelSwizzle"
	case DirtyPremult:
		return "premult"
	case DirtyDither:
		return "dither"
	case DirtyColorPrimaries:
		return "colorPrimaries"
	default:
		return "unknown"
	}
}

// dirtySet is a monotone accumulator of pending DirtyFlags: setters and
// ApplyRenderState add bits, ApplyUniforms drains them (§3.2).
type dirtySet struct {
	bits DirtyFlag
}

func (d *dirtySet) mark(f DirtyFlag)     { d.bits |= f }
func (d *dirtySet) has(f DirtyFlag) bool { return d.bits&f != 0 }
func (d *dirtySet) clear(f DirtyFlag)    { d.bits &^= f }
func (d *dirtySet) isEmpty() bool        { return d.bits == 0 }
func (d *dirtySet) markAll()             { d.bits = allDirtyFlags }
