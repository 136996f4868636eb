// Package types implements the L+ type lattice.
//
// Two related enumerations live here:
//   - SurfaceType is a type as written in source: bool, int, float, string, void.
//   - Category is the finer classification the checker assigns to expressions.
//     It adds the pseudo-categories CatArith (the class of arithmetic operators),
//     CatVar, CatCall and CatUnknown.
//
// CatUnknown means "a previous error already made this type undeterminable".
// Checks that see it are vacuously satisfied so one mistake yields one
// diagnostic. The code generator must never observe it.
//
// The only implicit conversion is widening int to float.
package types

import "errors"

// ErrInternal is wrapped by every error that signals a compiler defect rather
// than a problem in the program being compiled.
var ErrInternal = errors.New("internal compiler error")

// SurfaceType is the declared type of a variable, parameter or function.
type SurfaceType int

const (
	Bool SurfaceType = iota
	Int
	Float
	String
	Void
)

// String returns the source spelling of the type.
func (t SurfaceType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Void:
		return "void"
	default:
		return "<invalid>"
	}
}

var surfaceNames = map[string]SurfaceType{
	"bool":   Bool,
	"int":    Int,
	"float":  Float,
	"string": String,
	"void":   Void,
}

// LookupSurface maps a type keyword to its SurfaceType.
func LookupSurface(name string) (SurfaceType, bool) {
	t, ok := surfaceNames[name]
	return t, ok
}

// Category is the evaluation category of an expression.
type Category int

const (
	CatBool Category = iota
	CatArith
	CatInt
	CatFloat
	CatString
	CatVar
	CatCall
	CatVoid
	CatUnknown
)

func (c Category) String() string {
	switch c {
	case CatBool:
		return "bool"
	case CatArith:
		return "arithmetic"
	case CatInt:
		return "int"
	case CatFloat:
		return "float"
	case CatString:
		return "string"
	case CatVar:
		return "variable"
	case CatCall:
		return "call"
	case CatVoid:
		return "void"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of the category are int or float.
func (c Category) IsNumeric() bool {
	return c == CatInt || c == CatFloat
}

// IsValue reports whether the category describes an actual runtime value,
// i.e. it is neither void nor unknown.
func (c Category) IsValue() bool {
	switch c {
	case CatBool, CatInt, CatFloat, CatString:
		return true
	default:
		return false
	}
}

// FromSurface converts a surface type to its evaluation category.
// The mapping is one to one; void maps to CatVoid.
func FromSurface(t SurfaceType) Category {
	switch t {
	case Bool:
		return CatBool
	case Int:
		return CatInt
	case Float:
		return CatFloat
	case String:
		return CatString
	case Void:
		return CatVoid
	default:
		return CatUnknown
	}
}

// Assignable reports whether a value of category value may be stored into a
// target of surface type target. The same rule governs initializers,
// assignments, return values and call arguments.
//
//	target bool/int/string: exact match
//	target float:           float or int (int widens)
//	target void:            nothing
func Assignable(target SurfaceType, value Category) bool {
	switch target {
	case Bool:
		return value == CatBool
	case Int:
		return value == CatInt
	case String:
		return value == CatString
	case Float:
		return value == CatFloat || value == CatInt
	default:
		return false
	}
}

// Widens reports whether storing value into target needs an explicit i2f.
func Widens(target SurfaceType, value Category) bool {
	return target == Float && value == CatInt
}
