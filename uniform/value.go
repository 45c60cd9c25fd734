// Package uniform implements the typed, allocation-free uniform upload
// contract described in spec §4.3 and §9: a closed sum type for uniform
// values, dispatched by variant rather than by runtime inspection of
// element types, plus the Program wrapper that owns a GPU program's
// compiled handle, its location caches, and its two preallocated matrix
// buffers.
package uniform

// Kind identifies which variant of Value is populated.
type Kind int

const (
	KindScalar Kind = iota
	KindIScalar
	KindVec
	KindIVec
	KindMat3
	KindMat4
)

// Value is the closed UniformValue sum type: Scalar | VecN | MatN | IVecN.
// Callers build one with the constructors below; Program.Write dispatches
// on Kind, never by inspecting the runtime type of a generic value.
type Value struct {
	kind    Kind
	scalarF float32
	scalarI int32
	vecF    []float32 // length 1-4, stored by reference (no copy)
	vecI    []int32   // length 1-4, stored by reference (no copy)
	mat     []float32 // length 9 or 16; copied into the Program-owned buffer
}

// Scalar wraps a single float uniform.
func Scalar(f float32) Value { return Value{kind: KindScalar, scalarF: f} }

// IScalar wraps a single int uniform.
func IScalar(i int32) Value { return Value{kind: KindIScalar, scalarI: i} }

// Vec wraps a float vector of length 1-4. The slice is stored by
// reference: the caller's backing array is passed straight through to the
// GPU call with no intermediate copy, matching §4.3's "pass the caller's
// array directly" contract for already-typed data.
func Vec(v []float32) Value {
	if len(v) == 0 || len(v) > 4 {
		panic("uniform: Vec requires length 1-4")
	}
	return Value{kind: KindVec, vecF: v}
}

// IVec wraps an int vector of length 1-4.
func IVec(v []int32) Value {
	if len(v) == 0 || len(v) > 4 {
		panic("uniform: IVec requires length 1-4")
	}
	return Value{kind: KindIVec, vecI: v}
}

// Mat3 wraps a 3x3 matrix (9 elements, row-major).
func Mat3(m []float32) Value {
	if len(m) != 9 {
		panic("uniform: Mat3 requires 9 elements")
	}
	return Value{kind: KindMat3, mat: m}
}

// Mat4 wraps a 4x4 matrix (16 elements, row-major).
func Mat4(m []float32) Value {
	if len(m) != 16 {
		panic("uniform: Mat4 requires 16 elements")
	}
	return Value{kind: KindMat4, mat: m}
}

// Kind returns the value's variant.
func (v Value) Kind() Kind { return v.kind }
