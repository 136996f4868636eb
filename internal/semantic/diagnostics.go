package semantic

import (
	"fmt"
	"strings"
)

// Diagnostic is one semantic error in the user's program.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line[%d]: %s", d.Line, d.Message)
}

// Diagnostics is everything one analysis run found, in traversal order.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// Err returns ds as an error, or nil if there are no diagnostics.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}
