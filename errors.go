package hdrgrade

import "errors"

// Sentinel errors for the fixed failure modes described in spec §7.
// Per-frame conditions are not errors and are not logged: the luminance
// analyzer, for one, replaces non-finite or non-positive samples with a
// 1e-6 floor. Only construction failures that leave the pipeline unusable
// are surfaced as errors.
var (
	// ErrShaderCompileFailed names a fragment or vertex shader compile
	// failure. Nothing in this module returns it: package uniform reports
	// compile failures with errors wrapping uniform.ErrCompile.
	ErrShaderCompileFailed = errors.New("hdrgrade: shader compile failed")

	// ErrShaderLinkFailed names a program link failure. Nothing in this
	// module returns it: package uniform reports link failures with errors
	// wrapping uniform.ErrLink.
	ErrShaderLinkFailed = errors.New("hdrgrade: shader link failed")

	// ErrNoSurfaceBackendAvailable is returned by hdrsurface.Open when
	// every entry in the priority fallback ladder refused to create a
	// context on the current host.
	ErrNoSurfaceBackendAvailable = errors.New("hdrgrade: no HDR surface backend available")

	// ErrFloatColorBufferUnsupported names a missing floating-point colour
	// buffer extension. Nothing in this module returns it: the luminance
	// analyzer performs no extension check.
	ErrFloatColorBufferUnsupported = errors.New("hdrgrade: floating-point colour buffer extension unavailable")

	// ErrInvalidCubeSize is returned when a 3D LUT's data length does not
	// match Size^3 RGB triples.
	ErrInvalidCubeSize = errors.New("hdrgrade: 3D LUT data length does not match size^3")
)
