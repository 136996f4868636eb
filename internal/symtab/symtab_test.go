package symtab

import (
	"testing"

	"github.com/hassan/lpc/internal/semantic/types"
	"github.com/nalgeon/be"
)

// Test Entry

func TestEntry_String(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{Kind: EntryVariable, Name: "x", Type: types.Int, Slot: 2}, "variable x: int @2"},
		{Entry{Kind: EntryVariable, Name: "g", Type: types.String, Slot: GlobalSlot}, "variable g: string @-1"},
		{Entry{Kind: EntryFunction, Name: "f", Type: types.Float}, "function f: float"},
		{Entry{Kind: EntryScope}, "scope"},
	}

	for _, tt := range tests {
		be.Equal(t, tt.entry.String(), tt.want)
	}
}

// Test ScopeStack

func TestScopeStack_GlobalSlots(t *testing.T) {
	s := NewScopeStack()
	be.Equal(t, s.Declare(types.Int, "a"), GlobalSlot)
	be.Equal(t, s.Declare(types.Float, "b"), GlobalSlot)
	be.Equal(t, s.SlotOf("a"), GlobalSlot)
	be.Equal(t, s.CurrentFunctionName(), GlobalFunction)

	_, inFunc := s.CurrentFunctionReturnType()
	be.True(t, !inFunc)
}

func TestScopeStack_LocalSlotsNeverReused(t *testing.T) {
	s := NewScopeStack()
	s.Declare(types.Int, "g")

	s.OpenFunction(types.Int, "f")
	be.Equal(t, s.Declare(types.Int, "p0"), 0)
	be.Equal(t, s.Declare(types.Float, "p1"), 1)

	s.OpenScope()
	be.Equal(t, s.Declare(types.Int, "a"), 2)

	s.OpenScope()
	be.Equal(t, s.Declare(types.Int, "b"), 3)
	s.CloseScope()

	s.OpenScope()
	// b's block is gone but its slot stays taken.
	be.Equal(t, s.Declare(types.Int, "c"), 4)
	s.CloseScope()

	be.Equal(t, s.Declare(types.String, "d"), 5)
	s.CloseScope()
	s.CloseFunction()

	be.Equal(t, s.Len(), 1)
	be.Equal(t, s.SlotOf("g"), GlobalSlot)
}

func TestScopeStack_SlotAfterScopeMarker(t *testing.T) {
	s := NewScopeStack()
	s.OpenFunction(types.Void, "main")
	s.OpenScope()
	be.Equal(t, s.Declare(types.Int, "x"), 0)
	s.OpenScope()
	s.OpenScope()
	be.Equal(t, s.Declare(types.Int, "y"), 1)
	be.Equal(t, s.CurrentFunctionName(), "main")

	ret, ok := s.CurrentFunctionReturnType()
	be.True(t, ok)
	be.Equal(t, ret, types.Void)
}

func TestScopeStack_Shadowing(t *testing.T) {
	s := NewScopeStack()
	s.OpenFunction(types.Void, "f")
	s.OpenScope()
	s.Declare(types.Int, "x")
	be.Equal(t, s.TypeOf("x"), types.CatInt)

	s.OpenScope()
	s.Declare(types.Float, "x")
	be.Equal(t, s.TypeOf("x"), types.CatFloat)
	be.Equal(t, s.SlotOf("x"), 1)
	s.CloseScope()

	be.Equal(t, s.TypeOf("x"), types.CatInt)
	be.Equal(t, s.SlotOf("x"), 0)
}

func TestScopeStack_DuplicateDeclare(t *testing.T) {
	s := NewScopeStack()
	s.OpenFunction(types.Void, "f")
	s.Declare(types.Int, "x")
	s.Declare(types.String, "x")

	be.Equal(t, s.TypeOf("x"), types.CatString)
	be.Equal(t, s.SlotOf("x"), 1)
	be.Equal(t, s.Len(), 3)
}

func TestScopeStack_DeclaredLookups(t *testing.T) {
	s := NewScopeStack()
	s.Declare(types.Int, "g")
	s.OpenFunction(types.Void, "f")
	s.Declare(types.Int, "p")
	s.OpenScope()
	s.Declare(types.Int, "x")

	be.True(t, s.IsDeclaredInCurrentScope("x"))
	be.True(t, !s.IsDeclaredInCurrentScope("p"))
	be.True(t, !s.IsDeclaredInCurrentScope("g"))

	// The whole-stack search crosses every marker.
	be.True(t, s.IsDeclaredAnywhere("p"))
	be.True(t, s.IsDeclaredAnywhere("g"))
	be.True(t, !s.IsDeclaredAnywhere("nope"))

	s.OpenScope()
	be.True(t, !s.IsDeclaredInCurrentScope("x"))
}

func TestScopeStack_ParamShadowsGlobal(t *testing.T) {
	s := NewScopeStack()
	s.Declare(types.Int, "a")
	be.True(t, s.IsDeclaredInCurrentScope("a"))

	s.OpenFunction(types.Int, "f")
	be.True(t, !s.IsDeclaredInCurrentScope("a"))

	s.Declare(types.Float, "a")
	be.True(t, s.IsDeclaredInCurrentScope("a"))
	be.Equal(t, s.TypeOf("a"), types.CatFloat)
	be.Equal(t, s.SlotOf("a"), 0)
}

func TestScopeStack_MissingName(t *testing.T) {
	s := NewScopeStack()
	be.Equal(t, s.TypeOf("x"), types.CatUnknown)
	be.Equal(t, s.SlotOf("x"), NoSlot)

	_, ok := s.SurfaceTypeOf("x")
	be.True(t, !ok)
}

func TestScopeStack_CloseOnEmpty(t *testing.T) {
	s := NewScopeStack()
	s.CloseScope()
	s.CloseFunction()
	be.Equal(t, s.Len(), 0)
}

func TestScopeStack_CloseFunctionPopsNestedScopes(t *testing.T) {
	s := NewScopeStack()
	s.Declare(types.Bool, "flag")
	s.OpenFunction(types.Int, "f")
	s.OpenScope()
	s.Declare(types.Int, "x")
	s.OpenScope()
	s.CloseFunction()

	be.Equal(t, s.Len(), 1)
	be.Equal(t, s.Entries()[0].Name, "flag")
	be.Equal(t, s.CurrentFunctionName(), GlobalFunction)
}

func TestScopeStack_Reset(t *testing.T) {
	s := NewScopeStack()
	s.OpenFunction(types.Int, "f")
	s.Declare(types.Int, "x")
	s.Reset()
	be.Equal(t, s.Len(), 0)
	be.True(t, !s.IsDeclaredAnywhere("x"))
}

// Test FunctionRegistry

func TestFunctionRegistry_Declare(t *testing.T) {
	r := NewFunctionRegistry()
	be.True(t, r.Declare("f", types.Int, []types.SurfaceType{types.Int, types.Float}))
	be.True(t, !r.Declare("f", types.Void, nil))

	// The failed redeclaration must not overwrite the first signature.
	be.Equal(t, r.ReturnTypeOf("f"), types.CatInt)
	be.Equal(t, r.ParamCount("f"), 2)
	be.Equal(t, r.Len(), 1)
}

func TestFunctionRegistry_Queries(t *testing.T) {
	r := NewFunctionRegistry()
	r.Declare("f", types.Float, []types.SurfaceType{types.Int, types.Float})
	r.Declare("g", types.Void, nil)

	be.True(t, r.IsDeclared("f"))
	be.True(t, !r.IsDeclared("h"))
	be.Equal(t, r.Names(), []string{"f", "g"})

	be.Equal(t, r.ReturnTypeOf("g"), types.CatVoid)
	be.Equal(t, r.ReturnTypeOf("h"), types.CatUnknown)

	be.Equal(t, r.ParamCount("g"), 0)
	be.Equal(t, r.ParamCount("h"), -1)

	be.Equal(t, r.ParamTypeAt("f", 0), types.CatInt)
	be.Equal(t, r.ParamTypeAt("f", 1), types.CatFloat)
	be.Equal(t, r.ParamTypeAt("f", 2), types.CatUnknown)
	be.Equal(t, r.ParamTypeAt("f", -1), types.CatUnknown)
	be.Equal(t, r.ParamTypeAt("h", 0), types.CatUnknown)
}

func TestFunctionRegistry_ArgumentMatches(t *testing.T) {
	r := NewFunctionRegistry()
	r.Declare("f", types.Void, []types.SurfaceType{types.Int, types.Float, types.String})

	be.True(t, r.ArgumentMatches("f", 0, types.CatInt))
	be.True(t, !r.ArgumentMatches("f", 0, types.CatFloat))
	be.True(t, r.ArgumentMatches("f", 1, types.CatInt))
	be.True(t, r.ArgumentMatches("f", 1, types.CatFloat))
	be.True(t, r.ArgumentMatches("f", 2, types.CatString))
	be.True(t, !r.ArgumentMatches("f", 3, types.CatInt))
	be.True(t, !r.ArgumentMatches("nope", 0, types.CatInt))
}

func TestFunctionRegistry_LocalCount(t *testing.T) {
	r := NewFunctionRegistry()
	r.Declare("f", types.Void, []types.SurfaceType{types.Int})

	be.Equal(t, r.LocalCount("f"), 0)
	r.IncrementLocalCount("f")
	r.IncrementLocalCount("f")
	be.Equal(t, r.LocalCount("f"), 2)

	r.IncrementLocalCount("missing")
	be.Equal(t, r.LocalCount("missing"), -1)

	sig, ok := r.Lookup("f")
	be.True(t, ok)
	be.Equal(t, sig.Locals, 2)
}
