package subst

import (
	"strings"
)

// Namespaces maps a namespace name to its lookup table.
type Namespaces map[string]map[string]string

// Template is a parsed substitution template.
type Template struct {
	expr  string
	nodes []node
}

type node interface {
	isNode()
}

type literal string

type reference struct {
	raw      string // text between ${ and :- or }
	offset   int
	fallback []node
	hasFall  bool
}

func (literal) isNode()    {}
func (*reference) isNode() {}

// Parse parses expr into a Template.
func Parse(expr string) (*Template, error) {
	p := &parser{expr: expr}

	nodes, err := p.parseSeq(false)
	if err != nil {
		return nil, err
	}

	return &Template{expr: expr, nodes: nodes}, nil
}

// IsTemplate reports whether expr contains a substitution.
func IsTemplate(expr string) bool {
	return strings.Contains(expr, "${")
}

// String returns the source text.
func (t *Template) String() string {
	return t.expr
}

type parser struct {
	expr string
	pos  int
}

// parseSeq parses literals and references until the end of input, or until
// an unmatched '}' when inFallback is set (the brace is left unconsumed).
func (p *parser) parseSeq(inFallback bool) ([]node, error) {
	var (
		nodes []node
		lit   strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			nodes = append(nodes, literal(lit.String()))
			lit.Reset()
		}
	}

	for p.pos < len(p.expr) {
		c := p.expr[p.pos]

		if inFallback && c == '}' {
			break
		}

		if c == '$' && p.pos+1 < len(p.expr) && p.expr[p.pos+1] == '{' {
			flush()

			ref, err := p.parseReference()
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, ref)

			continue
		}

		lit.WriteByte(c)
		p.pos++
	}

	flush()

	return nodes, nil
}

func (p *parser) parseReference() (*reference, error) {
	start := p.pos
	p.pos += 2 // ${

	ref := &reference{offset: start}

	nameStart := p.pos
	for {
		if p.pos >= len(p.expr) {
			return nil, p.errorf(start, "unterminated ${")
		}

		if p.expr[p.pos] == '}' {
			ref.raw = p.expr[nameStart:p.pos]
			p.pos++

			break
		}

		if strings.HasPrefix(p.expr[p.pos:], ":-") {
			ref.raw = p.expr[nameStart:p.pos]
			p.pos += 2

			fallback, err := p.parseSeq(true)
			if err != nil {
				return nil, err
			}

			if p.pos >= len(p.expr) {
				return nil, p.errorf(start, "unterminated ${")
			}

			p.pos++ // closing }
			ref.fallback = fallback
			ref.hasFall = true

			break
		}

		if strings.HasPrefix(p.expr[p.pos:], "${") {
			return nil, p.errorf(p.pos, "nested reference in a name")
		}

		p.pos++
	}

	if strings.TrimSpace(ref.raw) == "" {
		return nil, p.errorf(start, "empty reference")
	}

	return ref, nil
}

func (p *parser) errorf(offset int, reason string) *SyntaxError {
	return &SyntaxError{Expr: p.expr, Offset: offset, Reason: reason}
}
