// Package plan provides the resolution pipeline that produces the final
// BindingPlan consumed by code generation.
//
// Resolution pipeline:
//  1. Discover consumption sites reachable from the root component
//  2. Keep the sites read by the active binder
//  3. Aggregate: evaluate templated names, canonicalize keys, merge sites
//     sharing a key and report conflicting requiredness or defaults
//  4. Validate structure (positions and aliases, command line only)
//  5. Resolve a conversion for every representation
//  6. Emit the plan together with ordered diagnostics
package plan
