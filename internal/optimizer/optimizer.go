// Package optimizer rewrites a checked L+ syntax tree into an equivalent,
// cheaper one before code generation.
//
// Each optimization is a Pass. The Optimizer runs its passes in order and
// repeats the whole sequence until the tree stops shrinking or the
// iteration limit is hit.
package optimizer

import (
	"fmt"
	"io"

	"github.com/hassan/lpc/internal/parser/ast"
)

// Pass is one tree rewrite.
type Pass interface {
	// Name returns a human-readable name for this pass.
	Name() string

	// Run rewrites prog in place.
	Run(prog *ast.Program) error
}

// Optimizer coordinates the execution of optimization passes.
type Optimizer struct {
	passes []Pass

	// maxIterations bounds the number of times the pass sequence runs.
	maxIterations int

	// verbose receives a trace of each pass run; nil disables it.
	verbose io.Writer
}

// NewOptimizer creates an optimizer running constant folding.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		passes:        []Pass{&ConstantFoldingPass{}},
		maxIterations: 10,
	}
}

// AddPass appends a pass to the sequence.
func (o *Optimizer) AddPass(pass Pass) {
	o.passes = append(o.passes, pass)
}

// SetVerbose sends a trace of the run to w. A nil w turns tracing off.
func (o *Optimizer) SetVerbose(w io.Writer) {
	o.verbose = w
}

// SetMaxIterations sets the maximum number of times the pass sequence runs.
// Values below 1 are treated as 1.
func (o *Optimizer) SetMaxIterations(max int) {
	if max < 1 {
		max = 1
	}
	o.maxIterations = max
}

// Optimize runs the passes over prog until a fixed point is reached.
//
// Every pass here only ever replaces a subtree with a smaller one, so the
// node count is used to detect that nothing changed.
func (o *Optimizer) Optimize(prog *ast.Program) (*Stats, error) {
	stats := NewStats()
	before := ast.Count(prog)
	size := before

	for i := 0; i < o.maxIterations; i++ {
		stats.Iterations++
		for _, pass := range o.passes {
			o.tracef("  Running %s...\n", pass.Name())
			if err := pass.Run(prog); err != nil {
				return stats, fmt.Errorf("pass %s failed: %w", pass.Name(), err)
			}
			stats.PassExecutions[pass.Name()]++
		}

		after := ast.Count(prog)
		if after == size {
			break
		}
		size = after
	}

	stats.NodesRemoved = before - size
	for _, pass := range o.passes {
		if f, ok := pass.(interface{ Folded() int }); ok {
			stats.ConstantsFolded += f.Folded()
		}
	}
	o.tracef("%s", stats)
	return stats, nil
}

func (o *Optimizer) tracef(format string, args ...interface{}) {
	if o.verbose != nil {
		fmt.Fprintf(o.verbose, format, args...)
	}
}

// Stats describes what one Optimize call did.
type Stats struct {
	// NodesRemoved is how much smaller the tree got.
	NodesRemoved int

	// ConstantsFolded is the number of expressions replaced by a literal.
	ConstantsFolded int

	// Iterations is how many times the pass sequence ran.
	Iterations int

	// PassExecutions counts runs per pass name.
	PassExecutions map[string]int
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{PassExecutions: make(map[string]int)}
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	return fmt.Sprintf("Optimization Stats:\n"+
		"  Nodes removed: %d\n"+
		"  Constants folded: %d\n"+
		"  Iterations: %d\n",
		s.NodesRemoved,
		s.ConstantsFolded,
		s.Iterations)
}
