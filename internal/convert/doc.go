// Package convert resolves how a raw configuration value (a string, or a
// list of strings for multi-valued sources) becomes a requested Go type.
//
// Resolution walks an ordered chain of TypeCapabilityProbe values and keeps
// the first match:
//
//  1. direct: identical types, or a predeclared numeric/bool type parsed with strconv
//  2. static factory: Parse<T>, ValueOf<T>, Parse or ValueOf taking the source type
//  3. from string: <T>FromString or FromString, for string sources only
//  4. constructor: the single New<T> taking the source type, or a Go
//     conversion from the type's underlying basic type
//
// Slice targets are resolved element by element against a []string source.
package convert
