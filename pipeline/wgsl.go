// Package pipeline implements the single-pass colour-grading fragment
// program: the WGSL source that runs on the GPU, and a float64 CPU
// evaluator that computes the full 28-step transform for testing,
// headless review, and hosts without a GPU. The WGSL program computes a
// subset of those steps (see the header of fragment.wgsl).
package pipeline

import _ "embed"

// fragmentSource is the WGSL fragment shader for the fixed 28-step
// pipeline. Uniform names match the contract StateManager writes
// through: every uniform here except frameTime is written by a case of
// StateManager.writeGroup in statemanager.go.
//
//go:embed fragment.wgsl
var fragmentSource string

// vertexSource is the passthrough fullscreen-triangle vertex shader.
//
//go:embed vertex.wgsl
var vertexSource string

// FragmentSource returns the embedded WGSL fragment program.
func FragmentSource() string { return fragmentSource }

// VertexSource returns the embedded WGSL vertex program.
func VertexSource() string { return vertexSource }
