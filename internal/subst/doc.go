// Package subst evaluates the substitution templates allowed inside binding
// names.
//
// Supported forms:
//
//	${name}               name looked up in the default namespace
//	${ns.name}            name looked up in namespace ns
//	${ns.name:-fallback}  fallback used when the lookup misses; it may
//	                      itself contain ${...} references
//
// The namespace is the text before the first dot and must be one of the
// supplied namespaces. Templates are parsed fully before evaluation so
// malformed references are reported even inside unused fallbacks.
// Evaluation is a single left-to-right pass with no caching between calls.
package subst
