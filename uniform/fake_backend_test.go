package uniform

import "fmt"

// fakeBackend is an in-memory Backend/ParallelBackend double used across
// the test suite. It records every write's kind and value so tests can
// assert on the exact values the Program dispatched; locations are not
// recorded.
type fakeBackend struct {
	nextHandle   uint64
	nextProgram  uint64
	shaderFail   map[ShaderHandle]string
	linkFail     map[ProgramHandle]string
	compiledSet  map[ShaderHandle]bool
	linkedSet    map[ProgramHandle]bool
	locations    map[string]Location
	nextLoc      int32
	deletedShd   map[ShaderHandle]bool
	deletedProg  map[ProgramHandle]bool

	writes []write
}

type write struct {
	name string
	kind Kind
	f    float32
	i    int32
	vecF []float32
	vecI []int32
	mat  []float32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		shaderFail:  map[ShaderHandle]string{},
		linkFail:    map[ProgramHandle]string{},
		compiledSet: map[ShaderHandle]bool{},
		linkedSet:   map[ProgramHandle]bool{},
		locations:   map[string]Location{},
		deletedShd:  map[ShaderHandle]bool{},
		deletedProg: map[ProgramHandle]bool{},
	}
}

func (b *fakeBackend) CompileShader(source string, stage Stage) (ShaderHandle, error) {
	b.nextHandle++
	h := ShaderHandle(b.nextHandle)
	if source == "fail" {
		return 0, fmt.Errorf("bad source")
	}
	return h, nil
}

func (b *fakeBackend) LinkProgram(vs, fs ShaderHandle) (ProgramHandle, error) {
	b.nextProgram++
	return ProgramHandle(b.nextProgram), nil
}

func (b *fakeBackend) DeleteShader(h ShaderHandle)   { b.deletedShd[h] = true }
func (b *fakeBackend) DeleteProgram(p ProgramHandle) { b.deletedProg[p] = true }

func (b *fakeBackend) UniformLocation(p ProgramHandle, name string) (Location, bool) {
	if loc, ok := b.locations[name]; ok {
		return loc, true
	}
	if name == "missing" {
		return InvalidLocation, false
	}
	loc := Location(b.nextLoc)
	b.nextLoc++
	b.locations[name] = loc
	return loc, true
}

func (b *fakeBackend) AttributeLocation(p ProgramHandle, name string) (Location, bool) {
	return b.UniformLocation(p, name)
}

func (b *fakeBackend) WriteScalar(p ProgramHandle, loc Location, v float32) {
	b.writes = append(b.writes, write{kind: KindScalar, f: v})
}
func (b *fakeBackend) WriteIScalar(p ProgramHandle, loc Location, v int32) {
	b.writes = append(b.writes, write{kind: KindIScalar, i: v})
}
func (b *fakeBackend) WriteVec(p ProgramHandle, loc Location, v []float32) {
	b.writes = append(b.writes, write{kind: KindVec, vecF: v})
}
func (b *fakeBackend) WriteIVec(p ProgramHandle, loc Location, v []int32) {
	b.writes = append(b.writes, write{kind: KindIVec, vecI: v})
}
func (b *fakeBackend) WriteMat3(p ProgramHandle, loc Location, m []float32) {
	b.writes = append(b.writes, write{kind: KindMat3, mat: m})
}
func (b *fakeBackend) WriteMat4(p ProgramHandle, loc Location, m []float32) {
	b.writes = append(b.writes, write{kind: KindMat4, mat: m})
}

// Parallel extension surface.

func (b *fakeBackend) ShaderCompleted(h ShaderHandle) bool { return b.compiledSet[h] }
func (b *fakeBackend) ProgramLinked(p ProgramHandle) bool  { return b.linkedSet[p] }

func (b *fakeBackend) ShaderInfoLog(h ShaderHandle) (string, bool) {
	log, bad := b.shaderFail[h]
	return log, bad
}

func (b *fakeBackend) ProgramInfoLog(p ProgramHandle) (string, bool) {
	log, bad := b.linkFail[p]
	return log, bad
}
