// Package gpu binds a host-supplied GPU device to the colour-grading
// pipeline. It owns no device of its own: the host creates and destroys
// the device (typically shared with the rest of its rendering stack) and
// hands it to Manager.Init, mirroring the "gg RECEIVES the device from
// the host" contract render.DeviceHandle documents.
//
// Binding a device also validates the pipeline's WGSL shaders once
// against naga. If validation fails, acceleration is left disabled and
// callers should fall back to pipeline.Evaluate for CPU-side grading.
package gpu

import (
	"errors"
	"sync"

	"github.com/gogpu/hdrgrade"
	"github.com/gogpu/hdrgrade/pipeline"
	"github.com/gogpu/hdrgrade/render"
)

// ErrNilDevice is returned by Init when called with a nil device handle.
var ErrNilDevice = errors.New("gpu: device handle is nil")

// Manager owns a shared GPU device handle plus the validation state of
// the colour-grading pipeline's shaders compiled against it. It is safe
// for concurrent use, matching the mutex-guarded lifecycle of the
// backends hdrgrade shares devices with.
type Manager struct {
	mu          sync.RWMutex
	device      render.DeviceHandle
	validated   bool
	initialized bool
}

// NewManager returns an unbound Manager. Call Init before Device/Ready
// report anything useful.
func NewManager() *Manager {
	return &Manager{}
}

// Init binds device as the shared GPU device and validates the pipeline
// package's vertex and fragment WGSL sources against it. Calling Init on
// an already-initialized Manager is a no-op.
func (m *Manager) Init(device render.DeviceHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if device == nil {
		return ErrNilDevice
	}

	if err := pipeline.Validate(); err != nil {
		hdrgrade.Logger().Warn("pipeline shader validation failed, acceleration disabled", "err", err)
		return err
	}

	m.device = device
	m.validated = true
	m.initialized = true
	hdrgrade.Logger().Info("gpu: pipeline shaders validated against shared device")
	return nil
}

// Device returns the bound device, or nil if Init has not succeeded.
func (m *Manager) Device() render.DeviceHandle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.device
}

// Ready reports whether the pipeline shaders validated successfully
// against the bound device. Callers should treat a false Ready as "fall
// back to CPU evaluation" rather than an error condition.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validated
}

// Close releases the Manager's reference to the shared device without
// destroying it; device ownership and teardown remain the host's
// responsibility. Safe to call on an unbound or already-closed Manager.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.device = nil
	m.validated = false
	m.initialized = false
}
