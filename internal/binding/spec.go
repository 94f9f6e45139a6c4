package binding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// DirectivePrefix starts a qualifier directive in a doc comment.
const DirectivePrefix = "binder:"

// TagKey is the struct tag key carrying a qualifier.
const TagKey = "binder"

// noneDefault is the explicit "no default" spelling for flags.
const noneDefault = "none"

// Spec is a parsed qualifier declaration.
type Spec struct {
	// Param names the function parameter a directive qualifies ("" for
	// accessor methods and struct fields).
	Param string
	// Optional marks the site as allowed to be absent.
	Optional  bool
	Qualifier Qualifier
}

// ParseDirective parses the text following "//binder:", e.g.
//
//	env name=PORT default=8080
//	cli param=verbose short=v long=verbose default=false
func ParseDirective(text string) (Spec, error) {
	tokens, err := tokenize(text, ' ')
	if err != nil {
		return Spec{}, err
	}

	return parseTokens(tokens)
}

// ParseTag parses a struct tag value, e.g. `env,name=PORT,optional`.
func ParseTag(tag string) (Spec, error) {
	tokens, err := tokenize(tag, ',')
	if err != nil {
		return Spec{}, err
	}

	return parseTokens(tokens)
}

func parseTokens(tokens []string) (Spec, error) {
	if len(tokens) == 0 {
		return Spec{}, errors.New("empty qualifier")
	}

	source := Source(tokens[0])
	if !source.IsValid() {
		return Spec{}, fmt.Errorf("unknown binding source %q", tokens[0])
	}

	attrs := make(map[string]*string)
	spec := Spec{}
	varargs := false

	for _, tok := range tokens[1:] {
		name, value, hasValue := strings.Cut(tok, "=")

		switch name {
		case "optional", "varargs":
			if hasValue {
				return Spec{}, fmt.Errorf("%s takes no value", name)
			}

			if name == "optional" {
				spec.Optional = true
			} else {
				varargs = true
			}
		case "name", "default", "position", "short", "long", "negshort", "neglong", "param":
			if !hasValue {
				return Spec{}, fmt.Errorf("%s needs a value", name)
			}

			if _, dup := attrs[name]; dup {
				return Spec{}, fmt.Errorf("duplicate attribute %s", name)
			}

			v, err := unquote(value)
			if err != nil {
				return Spec{}, fmt.Errorf("attribute %s: %w", name, err)
			}

			attrs[name] = &v
		default:
			return Spec{}, fmt.Errorf("unknown attribute %q", name)
		}
	}

	if p := attrs["param"]; p != nil {
		spec.Param = *p
	}

	q, err := buildQualifier(source, attrs, varargs)
	if err != nil {
		return Spec{}, err
	}

	spec.Qualifier = q

	return spec, nil
}

func buildQualifier(source Source, attrs map[string]*string, varargs bool) (Qualifier, error) {
	def := attrs["default"]
	hasFlagForm := attrs["short"] != nil || attrs["long"] != nil ||
		attrs["negshort"] != nil || attrs["neglong"] != nil

	if source != SourceCommandLine {
		if hasFlagForm || attrs["position"] != nil || varargs {
			return nil, fmt.Errorf("%s qualifiers only take name and default", source)
		}

		name := attrs["name"]
		if name == nil {
			return nil, fmt.Errorf("%s qualifier needs a name", source)
		}

		return Named{From: source, Name: *name, Default: def}, nil
	}

	switch {
	case attrs["position"] != nil:
		if hasFlagForm || attrs["name"] != nil {
			return nil, errors.New("positional qualifiers cannot have a name or flag forms")
		}

		pos, err := parsePosition(*attrs["position"])
		if err != nil {
			return nil, err
		}

		return Positional{Position: pos, Default: def, Varargs: varargs}, nil

	case attrs["name"] != nil:
		if hasFlagForm || varargs {
			return nil, errors.New("named options cannot have flag forms or varargs")
		}

		return Named{From: SourceCommandLine, Name: *attrs["name"], Default: def}, nil

	default:
		if varargs {
			return nil, errors.New("varargs is only valid on positional qualifiers")
		}

		if def != nil && *def == noneDefault {
			def = nil
		}

		return Flag{
			Short:         attrs["short"],
			Long:          attrs["long"],
			NegativeShort: attrs["negshort"],
			NegativeLong:  attrs["neglong"],
			Default:       def,
		}, nil
	}
}

func parsePosition(raw string) (uint32, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", raw, err)
	}

	pos, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", raw, err)
	}

	return pos, nil
}

// tokenize splits s on sep, keeping "double quoted" values intact.
func tokenize(s string, sep rune) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		escaped bool
	)

	flush := func() {
		if tok := strings.TrimSpace(current.String()); tok != "" {
			tokens = append(tokens, tok)
		}

		current.Reset()
	}

	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case !inQuote && (r == sep || (sep == ' ' && r == '\t')):
			flush()
			continue
		}

		current.WriteRune(r)
	}

	if inQuote {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}

	flush()

	return tokens, nil
}

func unquote(v string) (string, error) {
	if strings.HasPrefix(v, `"`) {
		return strconv.Unquote(v)
	}

	return v, nil
}
