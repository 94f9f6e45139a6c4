package plan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"config-binder/internal/analyze"
	"config-binder/internal/binder"
	"config-binder/internal/binding"
	"config-binder/internal/common"
	"config-binder/internal/diagnostic"
	"config-binder/internal/discover"
	"config-binder/internal/match"
	"config-binder/internal/subst"
)

// keyedSite is a site whose qualifier has been canonicalized.
type keyedSite struct {
	discover.Site
	key binding.Key
}

// Aggregate canonicalizes sites for binder b and merges those sharing a key.
// Sites whose name template or qualifier is invalid are reported and dropped.
// Conflicts between merged sites are warnings; Aggregate never fails outright.
func Aggregate(
	sites []discover.Site,
	b binder.Binder,
	ev *subst.Evaluator,
) ([]Definition, []Representation, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	if ev == nil {
		ev = subst.NewEvaluator(nil, b.DefaultNamespace)
	}

	var (
		order  []binding.Key
		groups = make(map[binding.Key][]keyedSite)
	)

	for _, site := range sites {
		q, ok := evaluateName(site, ev, &diags)
		if !ok {
			continue
		}

		key, err := binding.Canonicalize(q, b.Kinds...)
		if err != nil {
			code := diagnostic.CodeInvalidQualifier

			var keyErr *binding.KeyError
			if errors.As(err, &keyErr) {
				code = keyErr.Code()
			}

			diags.AddError(code, fmt.Sprintf("%s %s.%s: %v", site.Origin, site.Owner.Name, site.Member, err),
				"", site.Loc())

			continue
		}

		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}

		site.Qualifier = q
		groups[key] = append(groups[key], keyedSite{Site: site, key: key})
	}

	defs := make([]Definition, 0, len(order))
	for _, key := range order {
		defs = append(defs, merge(key, groups[key], &diags))
	}

	slices.SortFunc(defs, func(a, b Definition) int { return a.Key.Compare(b.Key) })

	return defs, representations(defs), diags
}

// evaluateName evaluates a templated name of a Named qualifier.
func evaluateName(site discover.Site, ev *subst.Evaluator, diags *diagnostic.Diagnostics) (binding.Qualifier, bool) {
	var named binding.Named

	switch q := site.Qualifier.(type) {
	case binding.Named:
		named = q
	case *binding.Named:
		if q == nil {
			return nil, true
		}

		named = *q
	default:
		return site.Qualifier, true
	}

	if !subst.IsTemplate(named.Name) {
		return named, true
	}

	resolved, err := ev.Evaluate(named.Name)
	if err == nil {
		named.Name = resolved
		return named, true
	}

	key := string(named.From) + ":" + named.Name

	var (
		syntaxErr     *subst.SyntaxError
		unresolvedErr *subst.UnresolvedReferenceError
	)

	switch {
	case errors.As(err, &syntaxErr):
		diags.AddError(diagnostic.CodeTemplateSyntax, err.Error(), key, site.Loc())
	case errors.As(err, &unresolvedErr):
		candidates := common.SortedKeys(ev.Namespaces[unresolvedErr.Namespace])
		diags.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityError,
			Code:        diagnostic.CodeTemplateUnresolved,
			Message:     err.Error(),
			Key:         key,
			Location:    site.Loc(),
			Suggestions: match.Suggest(unresolvedErr.Name, candidates),
		})
	default:
		diags.AddError(diagnostic.CodeTemplateSyntax, err.Error(), key, site.Loc())
	}

	return nil, false
}

// merge folds every site of one key into a Definition.
func merge(key binding.Key, sites []keyedSite, diags *diagnostic.Diagnostics) Definition {
	def := Definition{Key: key, Nullable: true}
	keyStr := key.String()

	var (
		nullableSites []keyedSite
		required      bool
		withDefault   int
	)

	for _, s := range sites {
		def.Sites = append(def.Sites, s.Location)

		if s.Nullable {
			nullableSites = append(nullableSites, s)
		} else {
			required = true
		}

		if p, ok := s.Qualifier.(binding.Positional); ok && p.Varargs {
			def.Varargs = true
		}

		v := s.DefaultValue()
		if v == nil {
			continue
		}

		withDefault++

		switch {
		case def.Default == nil:
			def.Default = common.Ptr(*v)
		case *def.Default != *v:
			diags.AddWarning(diagnostic.CodeConflictingDefault,
				fmt.Sprintf("default %q ignored, %q was declared first", *v, *def.Default), keyStr, s.Loc())
		}
	}

	for _, s := range sites {
		def.addType(s.Type)
	}

	if required {
		def.Nullable = false

		if len(nullableSites) > 0 {
			diags.AddWarning(diagnostic.CodeConflictingRequiredness,
				fmt.Sprintf("%d of %d sites are optional, binding is required", len(nullableSites), len(sites)),
				keyStr, nil)

			for _, s := range nullableSites {
				diags.AddWarning(diagnostic.CodeTreatedAsRequired,
					fmt.Sprintf("optional %s %s.%s treated as required", s.Origin, s.Owner.Name, s.Member),
					keyStr, s.Loc())
			}
		}
	}

	if def.Default != nil {
		def.Nullable = false

		if withDefault < len(sites) {
			diags.AddWarning(diagnostic.CodeConflictingDefault,
				fmt.Sprintf("%d of %d sites declare a default", withDefault, len(sites)), keyStr, nil)

			for _, s := range sites {
				if s.DefaultValue() == nil {
					diags.AddInfo(diagnostic.CodeDefaultApplied,
						fmt.Sprintf("default %q applied to %s %s.%s", *def.Default, s.Origin, s.Owner.Name, s.Member),
						keyStr, s.Loc())
				}
			}
		}
	}

	return def
}

// addType adds t to the requested type set, keeping it sorted.
func (d *Definition) addType(t *analyze.TypeInfo) {
	if t == nil {
		return
	}

	name := t.String()

	i, found := slices.BinarySearchFunc(d.RequestedTypes, name, func(e *analyze.TypeInfo, n string) int {
		return strings.Compare(e.String(), n)
	})
	if found {
		return
	}

	d.RequestedTypes = slices.Insert(d.RequestedTypes, i, t)
}

// representations expands each definition into one entry per requested type.
func representations(defs []Definition) []Representation {
	var reps []Representation

	for _, d := range defs {
		for _, t := range d.RequestedTypes {
			reps = append(reps, Representation{
				Key:      binding.NewRepresentationKey(d.Key, t, d.Default),
				Type:     t,
				Nullable: d.Nullable,
				Default:  d.Default,
				Varargs:  d.Varargs,
			})
		}
	}

	slices.SortFunc(reps, func(a, b Representation) int { return a.Key.Compare(b.Key) })

	return reps
}
