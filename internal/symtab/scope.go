package symtab

import "github.com/hassan/lpc/internal/semantic/types"

// ScopeStack tracks declared variables together with block and function
// boundaries.
//
// EXAMPLE:
//
//	int g;                  // [var g @-1]
//	int f(int a) {          // [var g @-1, fn f, var a @0, scope]
//	    int b;              // [... scope, var b @1]
//	    { float c; }        // [... var b @1, scope, var c @2]
//	    string d;           // [... var b @1, var d @3]
//	}
//
// Slots are handed out in declaration order within a function and are never
// reused: a block that closes does not give its slots back, so d above gets
// slot 3, not 2. Lookups walk from the top, so the innermost declaration of a
// name wins.
// The zero value is an empty stack ready to use.
type ScopeStack struct {
	entries []Entry
}

// NewScopeStack returns an empty stack.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{}
}

// Reset empties the stack.
func (s *ScopeStack) Reset() {
	s.entries = s.entries[:0]
}

// Len returns the number of entries, markers included.
func (s *ScopeStack) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the stack, bottom first.
func (s *ScopeStack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// OpenFunction pushes a function marker. Locals declared after it are
// numbered from 0.
func (s *ScopeStack) OpenFunction(returnType types.SurfaceType, name string) {
	s.entries = append(s.entries, Entry{Kind: EntryFunction, Name: name, Type: returnType})
}

// OpenScope pushes a block marker. Slot numbering continues across it.
func (s *ScopeStack) OpenScope() {
	s.entries = append(s.entries, Entry{Kind: EntryScope})
}

// Declare pushes a variable and returns the slot it was given.
//
// No duplicate check is done; callers use IsDeclaredInCurrentScope first.
// Declaring a name twice pushes two entries and the newer one shadows.
func (s *ScopeStack) Declare(t types.SurfaceType, name string) int {
	slot := GlobalSlot
	if fi := s.functionIndex(); fi >= 0 {
		slot = s.entries[fi].Slot
		s.entries[fi].Slot++
	}
	s.entries = append(s.entries, Entry{Kind: EntryVariable, Name: name, Type: t, Slot: slot})
	return slot
}

// functionIndex returns the index of the nearest function marker, or -1.
func (s *ScopeStack) functionIndex() int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Kind == EntryFunction {
			return i
		}
	}
	return -1
}

// CloseScope pops entries through the nearest block marker.
// Closing an empty stack does nothing.
func (s *ScopeStack) CloseScope() {
	s.popThrough(EntryScope)
}

// CloseFunction pops entries through the nearest function marker.
func (s *ScopeStack) CloseFunction() {
	s.popThrough(EntryFunction)
}

func (s *ScopeStack) popThrough(kind EntryKind) {
	for len(s.entries) > 0 {
		top := s.entries[len(s.entries)-1]
		s.entries = s.entries[:len(s.entries)-1]
		if top.Kind == kind {
			return
		}
	}
}

// lookup returns the innermost variable entry named name.
func (s *ScopeStack) lookup(name string) (Entry, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if e := s.entries[i]; e.Kind == EntryVariable && e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// IsDeclaredAnywhere reports whether name is declared at any depth. Block
// and function markers do not stop the search.
func (s *ScopeStack) IsDeclaredAnywhere(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

// IsDeclaredInCurrentScope reports whether name is declared above the
// topmost block or function marker. Parameters may therefore shadow globals.
func (s *ScopeStack) IsDeclaredInCurrentScope(name string) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.Kind == EntryScope || e.Kind == EntryFunction {
			return false
		}
		if e.Kind == EntryVariable && e.Name == name {
			return true
		}
	}
	return false
}

// TypeOf returns the category of the innermost variable named name, or
// CatUnknown if there is none.
func (s *ScopeStack) TypeOf(name string) types.Category {
	if e, ok := s.lookup(name); ok {
		return types.FromSurface(e.Type)
	}
	return types.CatUnknown
}

// SurfaceTypeOf is TypeOf without the conversion to a category.
func (s *ScopeStack) SurfaceTypeOf(name string) (types.SurfaceType, bool) {
	e, ok := s.lookup(name)
	return e.Type, ok
}

// SlotOf returns the slot of the innermost variable named name: GlobalSlot
// for globals, NoSlot if the name is not declared.
func (s *ScopeStack) SlotOf(name string) int {
	if e, ok := s.lookup(name); ok {
		return e.Slot
	}
	return NoSlot
}

func (s *ScopeStack) currentFunction() (Entry, bool) {
	if fi := s.functionIndex(); fi >= 0 {
		return s.entries[fi], true
	}
	return Entry{}, false
}

// CurrentFunctionReturnType returns the declared return type of the
// enclosing function. The second result is false at global scope.
func (s *ScopeStack) CurrentFunctionReturnType() (types.SurfaceType, bool) {
	e, ok := s.currentFunction()
	return e.Type, ok
}

// CurrentFunctionName returns the enclosing function's name, or
// GlobalFunction at global scope.
func (s *ScopeStack) CurrentFunctionName() string {
	if e, ok := s.currentFunction(); ok {
		return e.Name
	}
	return GlobalFunction
}
