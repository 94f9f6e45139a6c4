package analyze

import (
	"go/types"
)

// Extractor converts go/types types into TypeInfo, probing each named type's
// package scope for factory functions.
type Extractor struct {
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		typeCache: make(map[types.Type]*TypeInfo),
	}
}

// TypeOf returns the TypeInfo for t.
func (e *Extractor) TypeOf(t types.Type) *TypeInfo {
	if cached, ok := e.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{GoType: t}

	// Pre-cache to handle recursive types (we'll fill in details)
	e.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Alias:
		resolved := e.TypeOf(types.Unalias(tt))
		*info = *resolved

	case *types.Named:
		e.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic
		info.ID = TypeID{Name: tt.Name()}

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.Elem = e.TypeOf(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.Elem = e.TypeOf(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct

	case *types.Interface:
		info.Kind = TypeKindInterface

	default:
		// Maps, channels, funcs etc. cannot be bound from strings
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type and collects its factories.
func (e *Extractor) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()

	info.ID = TypeID{Name: obj.Name()}
	if obj.Pkg() != nil {
		info.ID.PkgPath = obj.Pkg().Path()
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
	case *types.Interface:
		info.Kind = TypeKindInterface
	case *types.Basic:
		info.Kind = TypeKindNamed
		info.Underlying = e.TypeOf(ut)
	default:
		info.Kind = TypeKindNamed
	}

	if obj.Pkg() != nil {
		info.Factories = e.factories(obj.Pkg(), named)
	}
}

// factories lists exported package-level functions returning named or *named,
// optionally followed by an error.
func (e *Extractor) factories(pkg *types.Package, named *types.Named) []FuncInfo {
	var out []FuncInfo

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}

		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Recv() != nil || sig.Variadic() || sig.TypeParams().Len() > 0 {
			continue
		}

		returnsPtr, returnsErr, ok := producesType(sig.Results(), named)
		if !ok {
			continue
		}

		info := FuncInfo{
			PkgPath:        pkg.Path(),
			Name:           name,
			ReturnsPointer: returnsPtr,
			ReturnsError:   returnsErr,
		}

		for i := 0; i < sig.Params().Len(); i++ {
			info.Params = append(info.Params, e.TypeOf(sig.Params().At(i).Type()))
		}

		out = append(out, info)
	}

	return out
}

// producesType matches result lists (T), (*T), (T, error) and (*T, error).
func producesType(results *types.Tuple, named *types.Named) (bool, bool, bool) {
	n := results.Len()
	if n == 0 || n > 2 {
		return false, false, false
	}

	returnsErr := false
	if n == 2 {
		if !isErrorType(results.At(1).Type()) {
			return false, false, false
		}

		returnsErr = true
	}

	first := results.At(0).Type()
	if types.Identical(first, named) {
		return false, returnsErr, true
	}

	if ptr, ok := first.(*types.Pointer); ok && types.Identical(ptr.Elem(), named) {
		return true, returnsErr, true
	}

	return false, false, false
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
