package uniform

import (
	"context"
	"testing"
	"time"
)

func TestNewProgramSynchronousSuccess(t *testing.T) {
	b := newFakeBackend()
	p, err := NewProgram(b, "vs", "fs")
	if err != nil {
		t.Fatalf("NewProgram() error = %v", err)
	}
	if !p.IsReady() {
		t.Fatal("synchronous program should be immediately ready")
	}
}

func TestNewProgramCompileFailureDeletesShaders(t *testing.T) {
	b := newFakeBackend()
	_, err := NewProgram(b, "fail", "fs")
	if err == nil {
		t.Fatal("expected compile error")
	}

	_, err = NewProgram(b, "vs", "fail")
	if err == nil {
		t.Fatal("expected fragment compile error")
	}
	if len(b.deletedShd) != 1 {
		t.Errorf("expected the compiled vertex shader to be deleted, deleted = %v", b.deletedShd)
	}
}

func TestWriteScalarAndVecPassThrough(t *testing.T) {
	b := newFakeBackend()
	p, _ := NewProgram(b, "vs", "fs")

	p.Write("exposure", Scalar(1.5))
	vec := []float32{1, 2, 3}
	p.Write("scale", Vec(vec))

	if len(b.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(b.writes))
	}
	if b.writes[0].f != 1.5 {
		t.Errorf("scalar write = %v, want 1.5", b.writes[0].f)
	}
	if &b.writes[1].vecF[0] != &vec[0] {
		t.Fatal("vec write did not pass the caller's backing array through")
	}
}

func TestWriteUnknownLocationIsNoOp(t *testing.T) {
	b := newFakeBackend()
	p, _ := NewProgram(b, "vs", "fs")

	p.Write("missing", Scalar(1))
	if len(b.writes) != 0 {
		t.Errorf("expected no writes for missing uniform, got %d", len(b.writes))
	}
}

func TestMatrixBufferReused(t *testing.T) {
	b := newFakeBackend()
	p, _ := NewProgram(b, "vs", "fs")

	buf4 := p.Mat4Buffer()
	p.Write("mvp", Mat4(make([]float32, 16)))
	p.Write("mvp", Mat4(make([]float32, 16)))

	if len(b.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(b.writes))
	}
	// Both writes must have gone through the same preallocated buffer.
	if &b.writes[0].mat[0] != &buf4[0] || &b.writes[1].mat[0] != &buf4[0] {
		t.Error("Mat4 write did not reuse the preallocated buffer instance")
	}
}

func TestParallelCompileNotReadyUntilPolled(t *testing.T) {
	b := newFakeBackend()
	p, err := NewProgramParallel(b, "vs", "fs")
	if err != nil {
		t.Fatalf("NewProgramParallel() error = %v", err)
	}
	if p.IsReady() {
		t.Fatal("program should not be ready before shaders/link complete")
	}

	// Uploads before ready must be no-ops.
	p.Write("exposure", Scalar(1))
	if len(b.writes) != 0 {
		t.Error("write before IsReady should be a no-op")
	}

	b.compiledSet[p.vsHandle] = true
	if p.IsReady() {
		t.Fatal("should still be waiting on the fragment shader")
	}

	b.compiledSet[p.fsHandle] = true
	b.linkedSet[p.handle] = true

	if !p.IsReady() {
		t.Fatal("expected ready once all three tokens are signalled")
	}

	p.Write("exposure", Scalar(2))
	if len(b.writes) != 1 {
		t.Error("write after ready should dispatch")
	}
}

func TestParallelCompileFailurePropagates(t *testing.T) {
	b := newFakeBackend()
	p, err := NewProgramParallel(b, "vs", "fs")
	if err != nil {
		t.Fatalf("NewProgramParallel() error = %v", err)
	}
	b.compiledSet[p.vsHandle] = true
	b.compiledSet[p.fsHandle] = true
	b.linkedSet[p.handle] = true
	b.shaderFail[p.fsHandle] = "syntax error"

	if p.IsReady() {
		t.Fatal("should not be ready when fragment shader failed")
	}
	if p.Err() == nil {
		t.Fatal("expected a recorded compile error")
	}
	if !b.deletedShd[p.vsHandle] || !b.deletedShd[p.fsHandle] || !b.deletedProg[p.handle] {
		t.Error("expected guaranteed-release of shaders and program on failure")
	}
}

func TestWaitForCompilationResolves(t *testing.T) {
	b := newFakeBackend()
	p, _ := NewProgramParallel(b, "vs", "fs")

	go func() {
		time.Sleep(5 * time.Millisecond)
		b.compiledSet[p.vsHandle] = true
		b.compiledSet[p.fsHandle] = true
		b.linkedSet[p.handle] = true
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.WaitForCompilation(ctx); err != nil {
		t.Fatalf("WaitForCompilation() error = %v", err)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	b := newFakeBackend()
	p, _ := NewProgram(b, "vs", "fs")
	handle := p.handle
	p.Dispose()
	p.Dispose()
	if !b.deletedProg[handle] {
		t.Error("expected program to be deleted exactly once")
	}
}
