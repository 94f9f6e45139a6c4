// Package diagnostic provides structured errors, warnings and informational
// notes produced while resolving bindings.
//
// Diagnostics are returned alongside the binding plan in the order they were
// raised. The hosting tool decides what to do with them: any error fails the
// build, warnings and infos are only reported.
//
// Key capabilities:
//   - Severity and stable codes for every failure class
//   - Source locations pointing at the declaring method, field or parameter
//   - "Did you mean" suggestions
package diagnostic
