// Package symtab implements the two symbol tables the compiler keeps while
// walking a program: the ScopeStack for variables and the FunctionRegistry
// for function signatures.
//
// The scope stack is one flat ordered list. Scope and function boundaries are
// marker entries in the same list as the variables, so pushing and popping a
// block is just appending a marker and truncating back to it. The same list
// hands out local variable slots: each function marker counts the locals
// declared under it, starting from 0.
package symtab

import (
	"strconv"

	"github.com/hassan/lpc/internal/semantic/types"
)

// EntryKind distinguishes variables from the two kinds of markers.
type EntryKind int

const (
	// EntryVariable is a declared variable or parameter.
	EntryVariable EntryKind = iota

	// EntryScope marks the start of a block.
	EntryScope

	// EntryFunction marks the start of a function. It carries the function's
	// name and return type and begins a new slot numbering domain.
	EntryFunction
)

// String returns a human-readable representation of the entry kind.
func (k EntryKind) String() string {
	switch k {
	case EntryVariable:
		return "variable"
	case EntryScope:
		return "scope"
	case EntryFunction:
		return "function"
	default:
		return "unknown"
	}
}

// GlobalSlot is the slot of a variable declared outside any function.
// Globals live in static fields, not in a method frame.
const GlobalSlot = -1

// NoSlot is returned by SlotOf for a name that is not on the stack.
const NoSlot = -2

// GlobalFunction is the name CurrentFunctionName reports outside functions.
const GlobalFunction = "__GLOBAL__"

// Entry is one element of the scope stack.
type Entry struct {
	Kind EntryKind

	// Name is the variable or function name; empty for scope markers.
	Name string

	// Type is the variable type, or the return type of a function marker.
	Type types.SurfaceType

	// Slot is the local slot of a variable, GlobalSlot for a global.
	// On a function marker it is the next free slot of that function.
	Slot int
}

// String renders the entry for debugging, e.g. "variable x: int @2".
func (e Entry) String() string {
	switch e.Kind {
	case EntryVariable:
		return "variable " + e.Name + ": " + e.Type.String() + " @" + strconv.Itoa(e.Slot)
	case EntryFunction:
		return "function " + e.Name + ": " + e.Type.String()
	default:
		return e.Kind.String()
	}
}
