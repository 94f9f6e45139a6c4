package binding

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"config-binder/internal/diagnostic"
)

// Sentinel errors for malformed qualifiers. KeyError wraps exactly one of them.
var (
	ErrMissingQualifier = errors.New("missing qualifier")
	ErrInvalidShortName = errors.New("invalid short name")
	ErrInvalidLongName  = errors.New("invalid long name")
	ErrEmptyDisjunction = errors.New("no identifying field set")
)

// KeyError reports why a qualifier could not be canonicalized.
type KeyError struct {
	Err    error
	Detail string
}

func (e *KeyError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}

	return e.Err.Error() + ": " + e.Detail
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// Code maps the error onto its diagnostic code.
func (e *KeyError) Code() diagnostic.Code {
	switch {
	case errors.Is(e.Err, ErrMissingQualifier):
		return diagnostic.CodeMissingQualifier
	case errors.Is(e.Err, ErrInvalidShortName):
		return diagnostic.CodeInvalidShortName
	case errors.Is(e.Err, ErrInvalidLongName):
		return diagnostic.CodeInvalidLongName
	case errors.Is(e.Err, ErrEmptyDisjunction):
		return diagnostic.CodeEmptyDisjunction
	default:
		return diagnostic.CodeInvalidQualifier
	}
}

// Canonicalize validates q and derives its Key.
// accepted lists the qualifier kinds the active binder understands; an empty
// list accepts every kind. Named qualifiers must already have their name
// template evaluated.
func Canonicalize(q Qualifier, accepted ...Kind) (Key, error) {
	if q == nil {
		return Key{}, &KeyError{Err: ErrMissingQualifier}
	}

	if len(accepted) > 0 && !slices.Contains(accepted, q.Kind()) {
		return Key{}, &KeyError{
			Err:    ErrMissingQualifier,
			Detail: fmt.Sprintf("binder does not accept %s qualifiers", q.Kind()),
		}
	}

	switch q := q.(type) {
	case Named:
		return canonicalNamed(q)
	case *Named:
		return canonicalNamed(*q)
	case Positional:
		return Key{Source: SourceCommandLine, Kind: KindPositional, Position: q.Position}, nil
	case *Positional:
		return Key{Source: SourceCommandLine, Kind: KindPositional, Position: q.Position}, nil
	case Flag:
		return canonicalFlag(q)
	case *Flag:
		return canonicalFlag(*q)
	default:
		return Key{}, &KeyError{Err: ErrMissingQualifier, Detail: fmt.Sprintf("unsupported qualifier %T", q)}
	}
}

func canonicalNamed(q Named) (Key, error) {
	if q.Name == "" {
		return Key{}, &KeyError{Err: ErrEmptyDisjunction, Detail: "name is empty"}
	}

	// Command-line options are addressed as --name.
	if q.From == SourceCommandLine && !IsValidLongName(q.Name) {
		return Key{}, &KeyError{Err: ErrInvalidLongName, Detail: fmt.Sprintf("%q", q.Name)}
	}

	return Key{Source: q.From, Kind: KindNamed, Name: q.Name}, nil
}

func canonicalFlag(q Flag) (Key, error) {
	if q.Short == nil && q.Long == nil && q.NegativeShort == nil && q.NegativeLong == nil {
		return Key{}, &KeyError{Err: ErrEmptyDisjunction, Detail: "flag needs a short or long form"}
	}

	key := Key{Source: SourceCommandLine, Kind: KindFlag}

	for _, s := range []struct {
		raw *string
		dst *string
	}{{q.Short, &key.Short}, {q.NegativeShort, &key.NegativeShort}} {
		if s.raw == nil {
			continue
		}

		if !IsValidShortName(*s.raw) {
			return Key{}, &KeyError{Err: ErrInvalidShortName, Detail: fmt.Sprintf("%q", *s.raw)}
		}

		*s.dst = *s.raw
	}

	for _, l := range []struct {
		raw *string
		dst *string
	}{{q.Long, &key.Long}, {q.NegativeLong, &key.NegativeLong}} {
		if l.raw == nil {
			continue
		}

		if !IsValidLongName(*l.raw) {
			return Key{}, &KeyError{Err: ErrInvalidLongName, Detail: fmt.Sprintf("%q", *l.raw)}
		}

		*l.dst = *l.raw
	}

	return key, nil
}

// IsValidShortName reports whether s is a single character in [A-Za-z0-9].
func IsValidShortName(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}

	return isAlnum(rune(s[0]))
}

// IsValidLongName reports whether s is non-empty and matches [-A-Za-z0-9_]*.
func IsValidLongName(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isAlnum(r) && r != '-' && r != '_' {
			return false
		}
	}

	return true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
