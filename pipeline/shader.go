package pipeline

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/hdrgrade/uniform"
)

// Validate parses and lowers the embedded WGSL sources through naga,
// catching a malformed shader at startup instead of at first draw. Hosts
// that only need the CPU evaluator (headless review, unit tests) are not
// required to call this.
func Validate() error {
	for name, src := range map[string]string{"vertex": vertexSource, "fragment": fragmentSource} {
		ast, err := naga.Parse(src)
		if err != nil {
			return fmt.Errorf("pipeline: %s shader: parse: %w", name, err)
		}
		if _, err := naga.Lower(ast); err != nil {
			return fmt.Errorf("pipeline: %s shader: lower: %w", name, err)
		}
	}
	return nil
}

// NewProgram compiles the fragment pipeline against backend synchronously.
func NewProgram(backend uniform.Backend) (*uniform.Program, error) {
	return uniform.NewProgram(backend, vertexSource, fragmentSource)
}

// NewProgramParallel compiles the fragment pipeline without blocking;
// callers must poll Program.IsReady before the first draw using it.
func NewProgramParallel(backend uniform.ParallelBackend) (*uniform.Program, error) {
	return uniform.NewProgramParallel(backend, vertexSource, fragmentSource)
}
