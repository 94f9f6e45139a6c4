package plan

import (
	"fmt"
	"slices"
	"strings"

	"config-binder/internal/binding"
	"config-binder/internal/diagnostic"
)

// ValidatePositions checks the positional definitions of a command line:
// positions must be contiguous from zero, nothing may follow a varargs
// positional, and no required positional may follow an optional one.
func ValidatePositions(defs []Definition) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	var positional []Definition

	for _, d := range defs {
		if d.Key.Kind == binding.KindPositional {
			positional = append(positional, d)
		}
	}

	if len(positional) == 0 {
		return diags
	}

	slices.SortFunc(positional, func(a, b Definition) int { return a.Key.Compare(b.Key) })

	if gaps := missingPositions(positional); len(gaps) > 0 {
		diags.AddError(diagnostic.CodeMissingPositions,
			"positional arguments missing at "+strings.Join(gaps, ", "), "", nil)
	}

	var varargs []Definition

	for _, d := range positional {
		if d.Varargs {
			varargs = append(varargs, d)
		}
	}

	if len(varargs) > 1 {
		diags.AddError(diagnostic.CodeExtraPositions,
			"more than one varargs positional: "+joinPositions(varargs), "", nil)
	}

	if len(varargs) > 0 {
		last := varargs[0].Key.Position

		var after []Definition

		for _, d := range positional {
			if d.Key.Position > last && !d.Varargs {
				after = append(after, d)
			}
		}

		if len(after) > 0 {
			diags.AddError(diagnostic.CodeExtraPositions,
				fmt.Sprintf("positions %s follow varargs position #%d", joinPositions(after), last), "", nil)
		}
	}

	var firstOptional *Definition

	for i := range positional {
		d := &positional[i]

		if d.Nullable || d.HasDefault() {
			if firstOptional == nil {
				firstOptional = d
			}

			continue
		}

		if firstOptional != nil {
			diags.AddError(diagnostic.CodeRequiredAfterOptional,
				fmt.Sprintf("required position #%d follows optional position #%d",
					d.Key.Position, firstOptional.Key.Position),
				d.Key.String(), firstLocation(d))
		}
	}

	return diags
}

// missingPositions returns the gaps in [0, max] as "#n" or "#a-#b" ranges.
// positional must be sorted.
func missingPositions(positional []Definition) []string {
	var (
		gaps []string
		next uint32
	)

	for _, d := range positional {
		pos := d.Key.Position

		switch {
		case pos == next:
		case pos == next+1:
			gaps = append(gaps, fmt.Sprintf("#%d", next))
		case pos > next:
			gaps = append(gaps, fmt.Sprintf("#%d-#%d", next, pos-1))
		default:
			continue
		}

		next = pos + 1
	}

	return gaps
}

func joinPositions(defs []Definition) string {
	parts := make([]string, 0, len(defs))
	for _, d := range defs {
		parts = append(parts, fmt.Sprintf("#%d", d.Key.Position))
	}

	return strings.Join(parts, ", ")
}

func firstLocation(d *Definition) *diagnostic.Location {
	if len(d.Sites) == 0 {
		return nil
	}

	loc := d.Sites[0]

	return &loc
}

// ValidateAliases checks that every short and long command-line name,
// positive or negative, belongs to exactly one binding key.
func ValidateAliases(defs []Definition) diagnostic.Diagnostics {
	var (
		diags  diagnostic.Diagnostics
		order  []string
		owners = make(map[string][]binding.Key)
		first  = make(map[string]*Definition)
	)

	for i := range defs {
		d := &defs[i]

		for _, alias := range d.Key.Aliases() {
			if _, seen := owners[alias]; !seen {
				order = append(order, alias)
				first[alias] = d
			}

			owners[alias] = append(owners[alias], d.Key)
		}
	}

	for _, alias := range order {
		keys := owners[alias]
		if len(keys) < 2 {
			continue
		}

		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}

		msg := fmt.Sprintf("%s is claimed by %s", alias, strings.Join(names, " and "))
		if slices.Equal(slices.Compact(slices.Clone(keys)), keys[:1]) {
			msg = fmt.Sprintf("%s is used more than once by %s", alias, names[0])
		}

		diags.AddError(diagnostic.CodeConflictingAlias, msg, keys[0].String(), firstLocation(first[alias]))
	}

	return diags
}
