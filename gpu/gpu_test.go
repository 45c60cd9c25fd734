package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/hdrgrade/render"
)

// TestManagerNotReadyBeforeInit verifies a fresh Manager reports not
// ready and holds no device.
func TestManagerNotReadyBeforeInit(t *testing.T) {
	m := NewManager()
	if m.Ready() {
		t.Error("Ready() should be false before Init")
	}
	if m.Device() != nil {
		t.Error("Device() should be nil before Init")
	}
}

// TestManagerInitRejectsNilDevice verifies Init returns ErrNilDevice for
// a nil device handle rather than silently binding it.
func TestManagerInitRejectsNilDevice(t *testing.T) {
	m := NewManager()
	err := m.Init(nil)
	if !errors.Is(err, ErrNilDevice) {
		t.Fatalf("Init(nil) = %v, want ErrNilDevice", err)
	}
	if m.Ready() {
		t.Error("Ready() should remain false after a rejected Init")
	}
}

// TestManagerInitBindsDevice verifies a successful Init validates the
// pipeline shaders and stores the provided device.
func TestManagerInitBindsDevice(t *testing.T) {
	m := NewManager()
	dev := render.NullDeviceHandle{}

	if err := m.Init(dev); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !m.Ready() {
		t.Error("Ready() should be true after successful Init")
	}
	if m.Device() != dev {
		t.Error("Device() did not return the bound handle")
	}
}

// TestManagerInitIsIdempotent verifies a second Init call is a no-op and
// does not replace the already-bound device.
func TestManagerInitIsIdempotent(t *testing.T) {
	m := NewManager()
	first := render.NullDeviceHandle{}
	if err := m.Init(first); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	if err := m.Init(nil); err != nil {
		t.Fatalf("second Init (no-op) returned error: %v", err)
	}
	if !m.Ready() {
		t.Error("Ready() should still be true after the no-op second Init")
	}
}

// TestManagerCloseClearsState verifies Close releases the device
// reference and resets readiness, and that Close is idempotent.
func TestManagerCloseClearsState(t *testing.T) {
	m := NewManager()
	if err := m.Init(render.NullDeviceHandle{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	m.Close()
	if m.Ready() {
		t.Error("Ready() should be false after Close")
	}
	if m.Device() != nil {
		t.Error("Device() should be nil after Close")
	}
	m.Close() // idempotent
}
