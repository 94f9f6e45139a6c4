package binding

import (
	"cmp"
	"fmt"
	"strings"

	"config-binder/internal/analyze"
)

// Key is the canonical, type-erased identity of a binding.
// Keys are comparable; equal keys denote the same logical binding.
// Absent short/long forms are stored as "".
type Key struct {
	Source        Source
	Kind          Kind
	Name          string
	Position      uint32
	Short         string
	Long          string
	NegativeShort string
	NegativeLong  string
}

// String returns a compact, human-readable form such as "env:HOST",
// "cli:#0" or "cli:-v|--verbose|!--quiet".
func (k Key) String() string {
	switch k.Kind {
	case KindNamed:
		return string(k.Source) + ":" + k.Name
	case KindPositional:
		return fmt.Sprintf("%s:#%d", k.Source, k.Position)
	case KindFlag:
		var parts []string
		if k.Short != "" {
			parts = append(parts, "-"+k.Short)
		}

		if k.Long != "" {
			parts = append(parts, "--"+k.Long)
		}

		if k.NegativeShort != "" {
			parts = append(parts, "!-"+k.NegativeShort)
		}

		if k.NegativeLong != "" {
			parts = append(parts, "!--"+k.NegativeLong)
		}

		return string(k.Source) + ":" + strings.Join(parts, "|")
	default:
		return string(k.Source) + ":?"
	}
}

// Compare orders keys by source, kind, name, position, then the flag forms.
func (k Key) Compare(other Key) int {
	return cmp.Or(
		cmp.Compare(k.Source, other.Source),
		cmp.Compare(k.Kind, other.Kind),
		cmp.Compare(k.Name, other.Name),
		cmp.Compare(k.Position, other.Position),
		cmp.Compare(k.Long, other.Long),
		cmp.Compare(k.Short, other.Short),
		cmp.Compare(k.NegativeLong, other.NegativeLong),
		cmp.Compare(k.NegativeShort, other.NegativeShort),
	)
}

// Aliases returns every short and long form the key claims on the command line.
// Named keys claim their name as a long form.
func (k Key) Aliases() []string {
	var out []string

	switch k.Kind {
	case KindNamed:
		out = append(out, "--"+k.Name)
	case KindFlag:
		for _, s := range []string{k.Short, k.NegativeShort} {
			if s != "" {
				out = append(out, "-"+s)
			}
		}

		for _, l := range []string{k.Long, k.NegativeLong} {
			if l != "" {
				out = append(out, "--"+l)
			}
		}
	}

	return out
}

// RepresentationKey is a binding key plus the requested type and default.
// It is the unit of deduplication for generated provider entries.
type RepresentationKey struct {
	Key        Key
	Type       string
	Default    string
	HasDefault bool
}

// NewRepresentationKey builds the representation key of key requested as t.
func NewRepresentationKey(key Key, t *analyze.TypeInfo, def *string) RepresentationKey {
	rk := RepresentationKey{Key: key, Type: t.String()}
	if def != nil {
		rk.Default = *def
		rk.HasDefault = true
	}

	return rk
}

// String returns e.g. "env:PORT as int (default 8080)".
func (r RepresentationKey) String() string {
	s := r.Key.String() + " as " + r.Type
	if r.HasDefault {
		s += fmt.Sprintf(" (default %q)", r.Default)
	}

	return s
}

// Compare orders representation keys by key, type, then default.
func (r RepresentationKey) Compare(other RepresentationKey) int {
	return cmp.Or(
		r.Key.Compare(other.Key),
		cmp.Compare(r.Type, other.Type),
		compareBool(r.HasDefault, other.HasDefault),
		cmp.Compare(r.Default, other.Default),
	)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
