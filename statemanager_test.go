package hdrgrade

import (
	"testing"

	"github.com/gogpu/hdrgrade/texture"
)

func TestApplyRenderStateTwiceEmptiesDirtySet(t *testing.T) {
	m := NewStateManager()
	rs := DefaultRenderState()
	rs.Color.Exposure = 0.5

	m.ApplyRenderState(rs)
	if !m.HasPendingStateChanges() {
		t.Fatal("first ApplyRenderState with a changed field should mark something dirty")
	}
	m.dirty = dirtySet{} // simulate ApplyUniforms having drained the set

	m.ApplyRenderState(rs)
	if m.HasPendingStateChanges() {
		t.Fatal("applying an identical RenderState a second time must leave the dirty set empty")
	}
}

func TestSetLUT3DNilIntensitySteadyState(t *testing.T) {
	m := NewStateManager()

	if err := m.SetLUT3D(nil, 0, 1); err != nil {
		t.Fatalf("SetLUT3D(nil, 0, 1) error = %v", err)
	}
	m.dirty = dirtySet{}

	// Re-applying the same (nil, intensity) pair must not re-dirty LUT3D:
	// DefaultRenderState already has LUT3D.Intensity == 1 and Data == nil.
	if err := m.SetLUT3D(nil, 0, 1); err != nil {
		t.Fatalf("SetLUT3D(nil, 0, 1) error = %v", err)
	}
	if m.dirty.has(DirtyLUT3D) {
		t.Error("reapplying the identical nil LUT3D state must not mark DirtyLUT3D")
	}
}

func TestHasPendingStateChangesReflectsDirtySet(t *testing.T) {
	m := NewStateManager()
	if m.HasPendingStateChanges() {
		t.Fatal("freshly constructed StateManager should have no pending changes")
	}
	m.SetColorInversion(true)
	if !m.HasPendingStateChanges() {
		t.Fatal("expected pending changes after SetColorInversion")
	}
	m.dirty.clear(DirtyInversion)
	if m.HasPendingStateChanges() {
		t.Fatal("expected no pending changes once the only dirty flag is cleared")
	}
}

func TestIdentityChannelSwizzleIsNoOp(t *testing.T) {
	m := NewStateManager()
	m.SetChannelSwizzle(IdentitySwizzle)
	if m.dirty.has(DirtyChannelSwizzle) {
		t.Error("setting the already-cached identity swizzle must not mark DirtyChannelSwizzle")
	}
}

func TestSetLUT3DRejectsMismatchedLength(t *testing.T) {
	m := NewStateManager()
	err := m.SetLUT3D(make([]float32, 10), 3, 1)
	if err != ErrInvalidCubeSize {
		t.Fatalf("expected ErrInvalidCubeSize, got %v", err)
	}
}

func TestSetQuantizeBitsClampsAndMarksDirty(t *testing.T) {
	m := NewStateManager()
	m.SetQuantizeBits(1)
	if m.cached.Dither.QuantizeBits != 2 {
		t.Errorf("QuantizeBits = %d, want 2", m.cached.Dither.QuantizeBits)
	}
	if !m.dirty.has(DirtyDither) {
		t.Error("expected DirtyDither to be marked")
	}
}

func TestSetPremultModeClampsOutOfRange(t *testing.T) {
	m := NewStateManager()
	m.SetPremultMode(PremultMode(99))
	if m.cached.PremultMode != PremultNone {
		t.Errorf("out-of-range PremultMode should clamp to PremultNone, got %v", m.cached.PremultMode)
	}
}

func TestApplyRenderStateMarksCurvesAndUpdatesTextureCache(t *testing.T) {
	m := NewStateManager()
	rs := DefaultRenderState()
	rs.Curves.LUT = make([]byte, 256*4)
	rs.Curves.LUT[3] = 255

	m.ApplyRenderState(rs)
	if !m.dirty.has(DirtyCurves) {
		t.Fatal("expected DirtyCurves to be marked")
	}
	if !m.textures.Get(texture.Curves).Dirty {
		t.Error("expected the curves texture snapshot to be marked dirty")
	}
}

func TestMarkAllDirtySetsEveryFlag(t *testing.T) {
	m := NewStateManager()
	m.MarkAllDirty()
	for _, f := range orderedDirtyFlags {
		if !m.dirty.has(f) {
			t.Errorf("MarkAllDirty did not set %v", f)
		}
	}
}
