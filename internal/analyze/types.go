package analyze

import (
	"go/types"
	"slices"

	"config-binder/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "net/url"
	Name    string // e.g., "URL"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IsZero reports whether the ID is unset.
func (t TypeID) IsZero() bool {
	return t.PkgPath == "" && t.Name == ""
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindNamed              // named non-struct type (e.g. time.Duration, type Level string)
	TypeKindStruct             // named or unnamed struct type
	TypeKindInterface          // interface type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindNamed:
		return "named"
	case TypeKindStruct:
		return "struct"
	case TypeKindInterface:
		return "interface"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a type requested by a consumption site.
type TypeInfo struct {
	ID         TypeID     // Set for basic and named types
	Kind       TypeKind   // Kind of type
	Elem       *TypeInfo  // For pointers and slices, the element type
	Underlying *TypeInfo  // For named types over a basic type, that basic type
	Factories  []FuncInfo // Package-level functions returning this type
	GoType     types.Type // The original go/types.Type (nil for hand-built types)
}

// FuncInfo describes a package-level function that produces a value of a type.
type FuncInfo struct {
	PkgPath string
	Name    string
	Params  []*TypeInfo
	// ReturnsPointer is true when the function returns *T rather than T.
	ReturnsPointer bool
	// ReturnsError is true when the function's last result is error.
	ReturnsError bool
}

// String returns pkg.Name for diagnostics.
func (f FuncInfo) String() string {
	return TypeID{PkgPath: f.PkgPath, Name: f.Name}.String()
}

// AcceptsOnly reports whether the function takes exactly one parameter identical to t.
func (f FuncInfo) AcceptsOnly(t *TypeInfo) bool {
	return len(f.Params) == 1 && Identical(f.Params[0], t)
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// String renders the type with full package paths, e.g. "[]*net/url.URL".
func (t *TypeInfo) String() string {
	return t.Qualified(func(pkgPath string) string { return pkgPath })
}

// Qualified renders the type using qualify to turn package paths into prefixes.
// A qualifier returning "" omits the prefix (same-package references).
func (t *TypeInfo) Qualified(qualify func(pkgPath string) string) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindPointer:
		return "*" + t.Elem.Qualified(qualify)
	case TypeKindSlice:
		return "[]" + t.Elem.Qualified(qualify)
	}

	if t.IsNamed() {
		if t.ID.PkgPath == "" {
			return t.ID.Name
		}

		if prefix := qualify(t.ID.PkgPath); prefix != "" {
			return prefix + "." + t.ID.Name
		}

		return t.ID.Name
	}

	if t.GoType != nil {
		return t.GoType.String()
	}

	return t.Kind.String()
}

// Deref strips one level of pointer.
func (t *TypeInfo) Deref() *TypeInfo {
	if t != nil && t.Kind == TypeKindPointer && t.Elem != nil {
		return t.Elem
	}

	return t
}

// Constructors returns the New<T> factories (single-argument or not).
func (t *TypeInfo) Constructors() []FuncInfo {
	var out []FuncInfo

	for _, f := range t.Factories {
		if f.Name == "New"+t.ID.Name || (f.Name == "New" && common.PkgAlias(t.ID.PkgPath) == t.ID.Name) {
			out = append(out, f)
		}
	}

	return out
}

// Factory returns the factory with the given name, if any.
func (t *TypeInfo) Factory(name string) (FuncInfo, bool) {
	idx := slices.IndexFunc(t.Factories, func(f FuncInfo) bool { return f.Name == name })
	if idx < 0 {
		return FuncInfo{}, false
	}

	return t.Factories[idx], true
}

// Identical reports whether a and b denote the same type.
func Identical(a, b *TypeInfo) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.GoType != nil && b.GoType != nil {
		return types.Identical(a.GoType, b.GoType)
	}

	return a.String() == b.String()
}

// Basic type names the engine knows how to parse without a factory.
var numericBasics = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true,
	"byte": true, "rune": true,
}

// IsString reports whether t is the predeclared string type.
func (t *TypeInfo) IsString() bool {
	return t != nil && t.Kind == TypeKindBasic && t.ID.Name == "string"
}

// IsBool reports whether t is the predeclared bool type.
func (t *TypeInfo) IsBool() bool {
	return t != nil && t.Kind == TypeKindBasic && t.ID.Name == "bool"
}

// IsNumeric reports whether t is a predeclared integer or float type.
func (t *TypeInfo) IsNumeric() bool {
	return t != nil && t.Kind == TypeKindBasic && numericBasics[t.ID.Name]
}

// Basic returns a TypeInfo for a predeclared type.
func Basic(name string) *TypeInfo {
	return &TypeInfo{ID: TypeID{Name: name}, Kind: TypeKindBasic}
}

// String returns the predeclared string type.
func String() *TypeInfo {
	return Basic("string")
}

// StringSlice returns []string.
func StringSlice() *TypeInfo {
	return SliceOf(String())
}

// Named returns a named type without capabilities.
func Named(pkgPath, name string) *TypeInfo {
	return &TypeInfo{ID: TypeID{PkgPath: pkgPath, Name: name}, Kind: TypeKindNamed}
}

// PointerTo returns *elem.
func PointerTo(elem *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: TypeKindPointer, Elem: elem}
}

// SliceOf returns []elem.
func SliceOf(elem *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: TypeKindSlice, Elem: elem}
}
