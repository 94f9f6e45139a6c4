package convert

import (
	"slices"

	"config-binder/internal/analyze"
)

// Resolver picks a conversion for each requested type.
type Resolver struct {
	probes []TypeCapabilityProbe
}

// NewResolver creates a Resolver with the default probe chain.
func NewResolver() *Resolver {
	return &Resolver{probes: DefaultProbes()}
}

// WithProbes returns a copy of r with extra probes appended after the
// existing ones.
func (r *Resolver) WithProbes(extra ...TypeCapabilityProbe) *Resolver {
	return &Resolver{probes: append(slices.Clone(r.probes), extra...)}
}

// Probes returns the probe chain in priority order.
func (r *Resolver) Probes() []TypeCapabilityProbe {
	return slices.Clone(r.probes)
}

// Resolve returns the first matching conversion from source to target.
// Pointer targets resolve against their element; the Expression keeps the
// original target.
func (r *Resolver) Resolve(target, source *analyze.TypeInfo) (Expression, error) {
	if target == nil || source == nil {
		return Expression{}, &ConversionError{Target: target, Source: source}
	}

	inner := target.Deref()

	for _, p := range r.probes {
		if expr, ok := p.Probe(inner, source); ok {
			expr.Target = target
			expr.Source = source

			return expr, nil
		}
	}

	if inner.Kind == analyze.TypeKindSlice && source.Kind == analyze.TypeKindSlice {
		elem, err := r.Resolve(inner.Elem, source.Elem)
		if err != nil {
			return Expression{}, &ConversionError{Target: target, Source: source}
		}

		return Expression{
			Strategy:    elem.Strategy,
			Form:        FormElementwise,
			Target:      target,
			Source:      source,
			Elem:        &elem,
			Explanation: "per element",
		}, nil
	}

	return Expression{}, &ConversionError{Target: target, Source: source}
}
