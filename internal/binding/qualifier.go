package binding

import (
	"config-binder/internal/common"
)

// Source identifies the backing store a binding is read from.
type Source string

const (
	SourceEnvironment    Source = "env"
	SourceSystemProperty Source = "sysprop"
	SourceParameterStore Source = "param"
	SourceCommandLine    Source = "cli"
)

// IsValid returns true if the source is a recognized value.
func (s Source) IsValid() bool {
	switch s {
	case SourceEnvironment, SourceSystemProperty, SourceParameterStore, SourceCommandLine:
		return true
	default:
		return false
	}
}

// Kind is the shape of a qualifier.
type Kind int

const (
	KindNamed Kind = iota
	KindPositional
	KindFlag
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindPositional:
		return "positional"
	case KindFlag:
		return "flag"
	default:
		return common.UnknownStr
	}
}

// Qualifier is the structured metadata identifying which binding a site wants.
// Implementations: Named, Positional, Flag.
type Qualifier interface {
	Kind() Kind
	Source() Source
	// DefaultValue returns the declared default, or nil.
	DefaultValue() *string
	isQualifier()
}

// Named addresses a binding by name. Name may contain ${...} substitutions.
type Named struct {
	From    Source
	Name    string
	Default *string
}

// Positional addresses a command-line positional argument.
type Positional struct {
	Position uint32
	Default  *string
	// Varargs marks a multi-value positional that consumes the remaining arguments.
	Varargs bool
}

// Flag addresses a command-line flag or option.
// Short forms hold the raw declared text; Canonicalize checks they are a single rune.
type Flag struct {
	Short         *string
	Long          *string
	NegativeShort *string
	NegativeLong  *string
	// Default is "true"/"false" for flags or any text for options.
	// A declared default of "none" is parsed as absent.
	Default *string
}

func (Named) Kind() Kind      { return KindNamed }
func (Positional) Kind() Kind { return KindPositional }
func (Flag) Kind() Kind       { return KindFlag }

func (q Named) Source() Source    { return q.From }
func (Positional) Source() Source { return SourceCommandLine }
func (Flag) Source() Source       { return SourceCommandLine }

func (q Named) DefaultValue() *string      { return q.Default }
func (q Positional) DefaultValue() *string { return q.Default }
func (q Flag) DefaultValue() *string       { return q.Default }

func (Named) isQualifier()      {}
func (Positional) isQualifier() {}
func (Flag) isQualifier()       {}
