package symtab

import "github.com/hassan/lpc/internal/semantic/types"

// Signature is a registered function's type plus its running local count.
type Signature struct {
	Name       string
	ReturnType types.SurfaceType
	Params     []types.SurfaceType

	// Locals counts parameters and local variables declared so far. It
	// sizes the generated method frame.
	Locals int
}

// FunctionRegistry maps function names to signatures for one compilation.
// It is filled by the semantic pass and then read by the code generator; it
// is never cleared between the two.
type FunctionRegistry struct {
	funcs map[string]*Signature
	order []string
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: make(map[string]*Signature)}
}

// Declare registers a function. It returns false, leaving the existing
// entry untouched, if the name is already taken.
func (r *FunctionRegistry) Declare(name string, returnType types.SurfaceType, params []types.SurfaceType) bool {
	if _, exists := r.funcs[name]; exists {
		return false
	}
	ps := make([]types.SurfaceType, len(params))
	copy(ps, params)
	r.funcs[name] = &Signature{Name: name, ReturnType: returnType, Params: ps}
	r.order = append(r.order, name)
	return true
}

// Lookup returns the signature registered under name.
func (r *FunctionRegistry) Lookup(name string) (*Signature, bool) {
	sig, ok := r.funcs[name]
	return sig, ok
}

// Names lists registered functions in declaration order.
func (r *FunctionRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered functions.
func (r *FunctionRegistry) Len() int {
	return len(r.order)
}

// IsDeclared reports whether name is registered.
func (r *FunctionRegistry) IsDeclared(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// ReturnTypeOf returns the category of name's return type, or CatUnknown.
func (r *FunctionRegistry) ReturnTypeOf(name string) types.Category {
	if sig, ok := r.funcs[name]; ok {
		return types.FromSurface(sig.ReturnType)
	}
	return types.CatUnknown
}

// ParamCount returns the number of parameters of name, or -1 if absent.
func (r *FunctionRegistry) ParamCount(name string) int {
	if sig, ok := r.funcs[name]; ok {
		return len(sig.Params)
	}
	return -1
}

// ParamTypeAt returns the category of the i-th (0-based) parameter, or
// CatUnknown when the function or the position does not exist.
func (r *FunctionRegistry) ParamTypeAt(name string, i int) types.Category {
	sig, ok := r.funcs[name]
	if !ok || i < 0 || i >= len(sig.Params) {
		return types.CatUnknown
	}
	return types.FromSurface(sig.Params[i])
}

// ArgumentMatches reports whether an argument of category supplied may be
// passed as the i-th parameter of name. Int widens to a float parameter.
func (r *FunctionRegistry) ArgumentMatches(name string, i int, supplied types.Category) bool {
	sig, ok := r.funcs[name]
	if !ok || i < 0 || i >= len(sig.Params) {
		return false
	}
	return types.Assignable(sig.Params[i], supplied)
}

// IncrementLocalCount bumps name's local counter. Unknown names are ignored.
func (r *FunctionRegistry) IncrementLocalCount(name string) {
	if sig, ok := r.funcs[name]; ok {
		sig.Locals++
	}
}

// LocalCount returns name's local counter, or -1 if absent.
func (r *FunctionRegistry) LocalCount(name string) int {
	if sig, ok := r.funcs[name]; ok {
		return sig.Locals
	}
	return -1
}
