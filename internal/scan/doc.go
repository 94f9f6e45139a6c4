// Package scan loads Go packages and reads their binder declarations into a
// discover.Graph.
//
// Declarations are doc-comment directives:
//
//	//binder:component           interface whose methods are accessors
//	//binder:modules A pkg.B     modules installed by a component
//	//binder:module              struct whose exported methods are providers
//	//binder:include A           modules included by a module
//	//binder:inject              struct built by the container; also marks
//	                             injection methods
//	//binder:<source> ...        qualifier for an accessor, or with param=
//	                             for a function parameter
//
// Struct fields carry qualifiers in tags: `binder:"env,name=PORT"`.
// Embedded fields of an injectable struct are its supertypes and the
// package-level New<T> function is its constructor.
package scan
