package plan

import (
	"maps"
	"slices"

	"config-binder/internal/analyze"
	"config-binder/internal/binding"
	"config-binder/internal/convert"
	"config-binder/internal/diagnostic"
)

// Definition is the merged view of every site sharing a binding key.
type Definition struct {
	Key binding.Key
	// Nullable is false when any site requires the value or a default exists.
	Nullable bool
	Default  *string
	// RequestedTypes is the set of target types, sorted by name.
	RequestedTypes []*analyze.TypeInfo
	// Varargs marks a positional that collects the remaining arguments.
	Varargs bool
	Sites   []diagnostic.Location
}

// HasDefault reports whether the definition carries a default value.
func (d *Definition) HasDefault() bool {
	return d.Default != nil
}

// Representation is one generated provider entry: a definition requested as
// one concrete type.
type Representation struct {
	Key      binding.RepresentationKey
	Type     *analyze.TypeInfo
	Nullable bool
	Default  *string
	Varargs  bool
}

// BindingPlan is the resolved, validated model handed to an emitter.
// It is immutable once built.
type BindingPlan struct {
	root            analyze.TypeID
	binder          string
	definitions     []Definition
	representations []Representation
	conversions     map[binding.RepresentationKey]convert.Expression
}

func newBindingPlan(
	root analyze.TypeID,
	binderName string,
	defs []Definition,
	reps []Representation,
	conversions map[binding.RepresentationKey]convert.Expression,
) *BindingPlan {
	slices.SortFunc(defs, func(a, b Definition) int { return a.Key.Compare(b.Key) })
	slices.SortFunc(reps, func(a, b Representation) int { return a.Key.Compare(b.Key) })

	return &BindingPlan{
		root:            root,
		binder:          binderName,
		definitions:     defs,
		representations: reps,
		conversions:     conversions,
	}
}

// Root returns the component the plan was built for.
func (p *BindingPlan) Root() analyze.TypeID { return p.root }

// Binder returns the name of the binder that produced the plan.
func (p *BindingPlan) Binder() string { return p.binder }

// Definitions returns the definitions sorted by key.
func (p *BindingPlan) Definitions() []Definition {
	return slices.Clone(p.definitions)
}

// Representations returns the representations sorted by representation key.
func (p *BindingPlan) Representations() []Representation {
	return slices.Clone(p.representations)
}

// Definition returns the definition for key.
func (p *BindingPlan) Definition(key binding.Key) (Definition, bool) {
	i, found := slices.BinarySearchFunc(p.definitions, key, func(d Definition, k binding.Key) int {
		return d.Key.Compare(k)
	})
	if !found {
		return Definition{}, false
	}

	return p.definitions[i], true
}

// Conversion returns the conversion of a representation.
func (p *BindingPlan) Conversion(key binding.RepresentationKey) (convert.Expression, bool) {
	expr, ok := p.conversions[key]
	return expr, ok
}

// Conversions returns a copy of every resolved conversion.
func (p *BindingPlan) Conversions() map[binding.RepresentationKey]convert.Expression {
	return maps.Clone(p.conversions)
}

// IsEmpty reports whether the plan binds nothing.
func (p *BindingPlan) IsEmpty() bool {
	return len(p.definitions) == 0
}
