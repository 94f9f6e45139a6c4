// Package discover walks a declaration graph and yields every consumption
// site: each place that asks for a bound value.
//
// The graph is reached through the Declarations capability (components,
// provider modules and injectable types); internal/scan implements it over
// Go packages and Graph implements it in memory. Traversal covers component
// accessors, provider-method parameters of transitively included modules,
// and constructor parameters, fields and injection-method parameters of
// every injectable type reachable from those, supertypes included.
//
// Each type is visited once, so dependency cycles between injectables are
// harmless. A supertype chain that leads back to itself cannot be generated
// and is reported as an error.
package discover
