package binder

import (
	"fmt"
	"slices"
	"strings"

	"config-binder/internal/analyze"
	"config-binder/internal/binding"
)

// Namespace names available to binding-name templates.
const (
	NamespaceEnvironment      = "environment"
	NamespaceEnv              = "env"
	NamespaceSystemProperties = "system-properties"
	NamespaceSys              = "sys"
)

// Binder is a front end for one backing source.
type Binder struct {
	Name   string
	Source binding.Source
	// Kinds are the qualifier kinds this binder accepts.
	Kinds []binding.Kind
	// DefaultNamespace is consulted for ${name} references.
	DefaultNamespace string
	// Positional enables the contiguous-positions rule.
	Positional bool
	// Aliases enables the unique-alias rule.
	Aliases bool
	// MultiValue means slice targets receive a list of raw strings.
	MultiValue bool
}

var (
	// Environment reads process environment variables.
	Environment = Binder{
		Name:             "env",
		Source:           binding.SourceEnvironment,
		Kinds:            []binding.Kind{binding.KindNamed},
		DefaultNamespace: NamespaceEnvironment,
	}

	// SystemProperties reads a properties map supplied by the application.
	SystemProperties = Binder{
		Name:             "sysprop",
		Source:           binding.SourceSystemProperty,
		Kinds:            []binding.Kind{binding.KindNamed},
		DefaultNamespace: NamespaceSystemProperties,
	}

	// ParameterStore reads from a remote parameter store.
	ParameterStore = Binder{
		Name:             "param",
		Source:           binding.SourceParameterStore,
		Kinds:            []binding.Kind{binding.KindNamed},
		DefaultNamespace: NamespaceEnvironment,
	}

	// CommandLine reads positional arguments, flags and named options.
	CommandLine = Binder{
		Name:             "cli",
		Source:           binding.SourceCommandLine,
		Kinds:            []binding.Kind{binding.KindNamed, binding.KindPositional, binding.KindFlag},
		DefaultNamespace: NamespaceSystemProperties,
		Positional:       true,
		Aliases:          true,
		MultiValue:       true,
	}
)

// All returns the built-in binders in a stable order.
func All() []Binder {
	return []Binder{Environment, SystemProperties, ParameterStore, CommandLine}
}

// Lookup returns the built-in binder with the given name.
func Lookup(name string) (Binder, error) {
	for _, b := range All() {
		if b.Name == name {
			return b, nil
		}
	}

	return Binder{}, fmt.Errorf("unknown binder %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Names returns the names of the built-in binders.
func Names() []string {
	var out []string
	for _, b := range All() {
		out = append(out, b.Name)
	}

	return out
}

// Accepts reports whether the binder takes qualifiers of kind k.
func (b Binder) Accepts(k binding.Kind) bool {
	return slices.Contains(b.Kinds, k)
}

// RawType returns the type of the raw value handed to a conversion for a
// binding of type target: []string for slice targets of multi-valued
// binders, string otherwise.
func (b Binder) RawType(target *analyze.TypeInfo) *analyze.TypeInfo {
	if b.MultiValue && target != nil && target.Deref().Kind == analyze.TypeKindSlice {
		return analyze.StringSlice()
	}

	return analyze.String()
}
