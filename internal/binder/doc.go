// Package binder describes the source binders: which qualifier kinds each
// backing source accepts, which namespace unqualified template references
// read from, and which structural rules apply to its bindings.
package binder
