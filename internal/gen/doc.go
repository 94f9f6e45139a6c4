// Package gen renders binding plans into Go provider modules.
//
// Generation uses text/template + go/format. Each plan becomes one provider
// type with an accessor per representation:
//   - the raw value is fetched from the binder's source
//   - a missing value takes the default, yields nil, or fails with MissingError
//   - the resolved conversion runs (strconv parser, factory call, Go
//     conversion, or a per-element loop)
//
// A shared support file declares the error types and the capability
// interfaces (ParameterStore, CommandLine) the providers depend on.
package gen
