package types

import "fmt"

// Descriptor returns the JVM field descriptor for a category:
// I, Z, F, Ljava/lang/String; or V.
func (c Category) Descriptor() (string, error) {
	switch c {
	case CatInt:
		return "I", nil
	case CatBool:
		return "Z", nil
	case CatFloat:
		return "F", nil
	case CatString:
		return "Ljava/lang/String;", nil
	case CatVoid:
		return "V", nil
	default:
		return "", fmt.Errorf("no descriptor for category %s: %w", c, ErrInternal)
	}
}

// Descriptor returns the JVM descriptor of the surface type.
func (t SurfaceType) Descriptor() (string, error) {
	return FromSurface(t).Descriptor()
}

// InstructionPrefix returns the letter that selects the typed variant of a
// load, store or return instruction: i for int and bool, f for float, a for
// string references.
func (c Category) InstructionPrefix() (string, error) {
	switch c {
	case CatInt, CatBool:
		return "i", nil
	case CatFloat:
		return "f", nil
	case CatString:
		return "a", nil
	default:
		return "", fmt.Errorf("no instruction family for category %s: %w", c, ErrInternal)
	}
}
