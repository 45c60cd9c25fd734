package uniform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Backend is the minimal GPU surface a Program needs: compile shader
// stages, link a program, read back the resulting uniform/attribute
// locations, and issue the actual typed writes. A host wires this to
// whatever GPU API it has (WebGPU via gogpu/wgpu, GL, Vulkan); hdrgrade
// never talks to a GPU API directly.
type Backend interface {
	CompileShader(source string, stage Stage) (ShaderHandle, error)
	LinkProgram(vs, fs ShaderHandle) (ProgramHandle, error)
	DeleteShader(h ShaderHandle)
	DeleteProgram(p ProgramHandle)

	UniformLocation(p ProgramHandle, name string) (Location, bool)
	AttributeLocation(p ProgramHandle, name string) (Location, bool)

	WriteScalar(p ProgramHandle, loc Location, v float32)
	WriteIScalar(p ProgramHandle, loc Location, v int32)
	WriteVec(p ProgramHandle, loc Location, v []float32)
	WriteIVec(p ProgramHandle, loc Location, v []int32)
	WriteMat3(p ProgramHandle, loc Location, m []float32)
	WriteMat4(p ProgramHandle, loc Location, m []float32)
}

// ParallelBackend is implemented by backends that support the
// KHR_parallel_shader_compile-style extension: compilation is kicked off
// without blocking, and completion is discovered by polling.
type ParallelBackend interface {
	Backend
	ShaderCompleted(h ShaderHandle) bool
	ProgramLinked(p ProgramHandle) bool
	ShaderInfoLog(h ShaderHandle) (string, bool) // ok=false: compiled clean
	ProgramInfoLog(p ProgramHandle) (string, bool)
}

// Stage names a shader stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

// ShaderHandle, ProgramHandle and Location are opaque backend-assigned
// identifiers. A zero ShaderHandle or ProgramHandle means "invalid"; for
// Location, InvalidLocation (-1) does.
type ShaderHandle uint64
type ProgramHandle uint64
type Location int32

const InvalidLocation Location = -1

// compileState is the cooperative-polling state machine §9 calls for in
// place of promise/async-await control flow: {compiling, ready, failed}.
type compileState int

const (
	stateCompiling compileState = iota
	stateReady
	stateFailed
)

// Program owns a compiled GPU program, its uniform/attribute location
// caches, and two preallocated matrix buffers reused across every upload
// so that per-frame uniform writes never allocate.
type Program struct {
	backend Backend
	handle  ProgramHandle

	uniformLocs   map[string]Location
	attributeLocs map[string]Location

	mat3Buf [9]float32
	mat4Buf [16]float32

	mu    sync.Mutex
	state compileState
	err   error

	// set only in parallel-compile mode, needed by isReady's polling and
	// by the guaranteed-release block on failure.
	parallel   ParallelBackend
	vsHandle   ShaderHandle
	fsHandle   ShaderHandle
	validated  bool
}

// NewProgram compiles and links vsSrc/fsSrc synchronously and returns a
// ready-to-use Program, or an error wrapping ErrCompile or ErrLink. On
// failure the shaders compiled so far are deleted before returning.
func NewProgram(backend Backend, vsSrc, fsSrc string) (*Program, error) {
	vs, err := backend.CompileShader(vsSrc, StageVertex)
	if err != nil {
		return nil, fmt.Errorf("uniform: vertex shader: %w", errCompile(err))
	}
	fs, err := backend.CompileShader(fsSrc, StageFragment)
	if err != nil {
		backend.DeleteShader(vs)
		return nil, fmt.Errorf("uniform: fragment shader: %w", errCompile(err))
	}
	prog, err := backend.LinkProgram(vs, fs)
	if err != nil {
		backend.DeleteShader(vs)
		backend.DeleteShader(fs)
		return nil, fmt.Errorf("uniform: link: %w", errLink(err))
	}
	return &Program{
		backend:       backend,
		handle:        prog,
		uniformLocs:   make(map[string]Location),
		attributeLocs: make(map[string]Location),
		state:         stateReady,
		validated:     true,
	}, nil
}

// NewProgramParallel issues compile+link commands through a
// ParallelBackend but does not wait for or validate completion: the
// constructor returns an error only when a CompileShader or LinkProgram
// call itself fails. Call IsReady before uploading uniforms or
// issuing a draw with this program; the first frame that needs it should
// be dropped while IsReady is false.
func NewProgramParallel(backend ParallelBackend, vsSrc, fsSrc string) (*Program, error) {
	vs, err := backend.CompileShader(vsSrc, StageVertex)
	if err != nil {
		return nil, fmt.Errorf("uniform: vertex shader: %w", errCompile(err))
	}
	fs, err := backend.CompileShader(fsSrc, StageFragment)
	if err != nil {
		backend.DeleteShader(vs)
		return nil, fmt.Errorf("uniform: fragment shader: %w", errCompile(err))
	}
	prog, err := backend.LinkProgram(vs, fs)
	if err != nil {
		backend.DeleteShader(vs)
		backend.DeleteShader(fs)
		return nil, fmt.Errorf("uniform: link: %w", errLink(err))
	}
	return &Program{
		backend:       backend,
		handle:        prog,
		uniformLocs:   make(map[string]Location),
		attributeLocs: make(map[string]Location),
		state:         stateCompiling,
		parallel:      backend,
		vsHandle:      vs,
		fsHandle:      fs,
	}, nil
}

// IsReady polls the parallel-compile completion tokens on both shaders
// and the program. It returns true immediately for synchronously
// constructed programs. Once all three report complete, status is
// validated exactly once; a validation failure is recorded and returned
// via Err, and the attached shaders are released.
func (p *Program) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateCompiling {
		return p.state == stateReady
	}

	if !p.parallel.ShaderCompleted(p.vsHandle) || !p.parallel.ShaderCompleted(p.fsHandle) {
		return false
	}
	if !p.parallel.ProgramLinked(p.handle) {
		return false
	}

	p.validateLocked()
	return p.state == stateReady
}

// validateLocked checks compile/link logs exactly once and transitions
// the state machine to ready or failed. Caller must hold p.mu.
func (p *Program) validateLocked() {
	if p.validated {
		return
	}
	p.validated = true

	if log, bad := p.parallel.ShaderInfoLog(p.vsHandle); bad {
		p.fail(fmt.Errorf("uniform: vertex shader: %w: %s", ErrCompile, log))
		return
	}
	if log, bad := p.parallel.ShaderInfoLog(p.fsHandle); bad {
		p.fail(fmt.Errorf("uniform: fragment shader: %w: %s", ErrCompile, log))
		return
	}
	if log, bad := p.parallel.ProgramInfoLog(p.handle); bad {
		p.fail(fmt.Errorf("uniform: link: %w: %s", ErrLink, log))
		return
	}

	p.parallel.DeleteShader(p.vsHandle)
	p.parallel.DeleteShader(p.fsHandle)
	p.state = stateReady
}

// fail transitions to the failed state and releases both shaders in a
// guaranteed-release block. Caller must hold p.mu.
func (p *Program) fail(err error) {
	defer func() {
		p.parallel.DeleteShader(p.vsHandle)
		p.parallel.DeleteShader(p.fsHandle)
		p.parallel.DeleteProgram(p.handle)
	}()
	p.state = stateFailed
	p.err = err
}

// Err returns the terminal compile/link error, if any. It is nil while
// compiling and after a successful ready transition.
func (p *Program) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// WaitForCompilation polls IsReady on a short timer until it returns
// true, ctx is cancelled, or a compile error is recorded.
func (p *Program) WaitForCompilation(ctx context.Context) error {
	if p.IsReady() {
		return p.Err()
	}
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.IsReady() {
				return p.Err()
			}
		}
	}
}

// Write dispatches a uniform write by Value.Kind. Writes while the
// program is not ready are no-ops, mirroring the "draws must not be
// issued while IsReady is false" rule for the whole frame. A location
// cache miss also becomes a silent no-op, never a panic or error.
func (p *Program) Write(name string, v Value) {
	if !p.IsReady() {
		return
	}
	loc, ok := p.uniformLoc(name)
	if !ok {
		return
	}
	switch v.kind {
	case KindScalar:
		p.backend.WriteScalar(p.handle, loc, v.scalarF)
	case KindIScalar:
		p.backend.WriteIScalar(p.handle, loc, v.scalarI)
	case KindVec:
		p.backend.WriteVec(p.handle, loc, v.vecF)
	case KindIVec:
		p.backend.WriteIVec(p.handle, loc, v.vecI)
	case KindMat3:
		copy(p.mat3Buf[:], v.mat)
		p.backend.WriteMat3(p.handle, loc, p.mat3Buf[:])
	case KindMat4:
		copy(p.mat4Buf[:], v.mat)
		p.backend.WriteMat4(p.handle, loc, p.mat4Buf[:])
	}
}

// Mat3Buffer exposes the preallocated 3x3 reuse buffer so callers (and
// tests) can confirm the same backing array is reused across frames.
func (p *Program) Mat3Buffer() *[9]float32 { return &p.mat3Buf }

// Mat4Buffer exposes the preallocated 4x4 reuse buffer.
func (p *Program) Mat4Buffer() *[16]float32 { return &p.mat4Buf }

func (p *Program) uniformLoc(name string) (Location, bool) {
	if loc, ok := p.uniformLocs[name]; ok {
		return loc, loc != InvalidLocation
	}
	loc, ok := p.backend.UniformLocation(p.handle, name)
	if !ok {
		loc = InvalidLocation
	}
	p.uniformLocs[name] = loc
	return loc, ok
}

// AttributeLocation memoizes and returns an attribute location, or
// InvalidLocation (-1) on a miss.
func (p *Program) AttributeLocation(name string) Location {
	if loc, ok := p.attributeLocs[name]; ok {
		return loc
	}
	loc, ok := p.backend.AttributeLocation(p.handle, name)
	if !ok {
		loc = InvalidLocation
	}
	p.attributeLocs[name] = loc
	return loc
}

// Dispose releases the GPU program. It is idempotent and safe to call on
// a program still compiling in parallel mode.
func (p *Program) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return
	}
	if p.state == stateCompiling {
		p.parallel.DeleteShader(p.vsHandle)
		p.parallel.DeleteShader(p.fsHandle)
	}
	p.backend.DeleteProgram(p.handle)
	p.handle = 0
}

// Sentinel wrapped errors used to classify compile/link failures without
// depending on the hdrgrade package (avoiding an import cycle: hdrgrade
// imports uniform, not the reverse).
var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("shader link failed")
)

func errCompile(cause error) error { return fmt.Errorf("%w: %v", ErrCompile, cause) }
func errLink(cause error) error    { return fmt.Errorf("%w: %v", ErrLink, cause) }
