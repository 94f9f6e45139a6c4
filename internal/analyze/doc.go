// Package analyze provides the type model shared by the binding engine.
//
// Types are extracted from golang.org/x/tools/go/packages results (go/types)
// or built by hand in tests. Besides structure, a TypeInfo records the
// capabilities the conversion resolver probes for: package-level factory
// functions returning the type, and whether a plain Go conversion from its
// underlying basic type is available.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: kind (basic/named/pointer/slice/...), element and underlying types
//   - FuncInfo: a factory or constructor candidate
package analyze
