// Package filter provides the low-level numeric kernels the grading
// pipeline's image filters build on.
//
//   - GaussianKernel: normalized 1D Gaussian kernel generation, shared by
//     the bilateral noise-reduction filter's spatial weighting.
package filter
