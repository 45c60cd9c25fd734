// Package texture holds the lazy GPU-texture handles the state manager
// tracks on the host's behalf: curves, false-colour, 3D LUT and film
// emulation textures. None of these types touch a GPU API directly —
// they are plain data plus a dirty bit; the caller decides when to
// upload and calls Clean to acknowledge it. StateManager drives the first
// three; nothing in this module uses the film emulation slot.
package texture

// Kind identifies which of the four texture snapshots a Cache slot holds.
type Kind int

const (
	Curves Kind = iota
	FalseColor
	LUT3D
	Film
)

func (k Kind) String() string {
	switch k {
	case Curves:
		return "curves"
	case FalseColor:
		return "falseColor"
	case LUT3D:
		return "lut3D"
	case Film:
		return "film"
	default:
		return "unknown"
	}
}

// Metadata carries the shape information a texture upload needs beyond
// raw bytes: cube size for 3D LUTs, channel count for inline LUTs, and
// so on. Kind-specific fields are zero when not applicable.
type Metadata struct {
	CubeSize     int
	Channels     int
	Intensity    float64
	HasIntensity bool
}

// Snapshot is a lazy handle carrying {dirty, data, metadata} for one
// texture kind (§3.1). The invariant is: when Dirty is false, the
// GPU-resident texture already reflects Data.
type Snapshot struct {
	Dirty    bool
	Data     any // []byte, []float32, or nil
	Metadata Metadata
}

// Cache holds one Snapshot per Kind and is owned exclusively by the
// StateManager that created it.
type Cache struct {
	slots [4]Snapshot
}

// NewCache returns a Cache with all four slots clean and empty.
func NewCache() *Cache {
	return &Cache{}
}

// Set stores new texture data for kind and marks it dirty.
func (c *Cache) Set(kind Kind, data any, meta Metadata) {
	c.slots[kind] = Snapshot{Dirty: true, Data: data, Metadata: meta}
}

// Get returns the current snapshot for kind.
func (c *Cache) Get(kind Kind) Snapshot {
	return c.slots[kind]
}

// MarkDirty flags kind's texture for re-upload without changing its data,
// used by MarkAllDirty on context loss or first frame.
func (c *Cache) MarkDirty(kind Kind) {
	c.slots[kind].Dirty = true
}

// Clean acknowledges that kind's texture has been uploaded and now
// matches Data. Callers invoke this after binding the texture in
// response to a dirty flag observed during ApplyUniforms.
func (c *Cache) Clean(kind Kind) {
	c.slots[kind].Dirty = false
}
