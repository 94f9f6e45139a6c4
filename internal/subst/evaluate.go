package subst

import (
	"strings"
)

// Evaluator evaluates templates against a fixed set of namespaces.
type Evaluator struct {
	Namespaces Namespaces
	// Default is the namespace consulted by ${name}. Empty means ${name}
	// without a namespace is a syntax error.
	Default string
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(namespaces Namespaces, defaultNS string) *Evaluator {
	return &Evaluator{Namespaces: namespaces, Default: defaultNS}
}

// Evaluate parses and evaluates expr in one call.
func Evaluate(expr string, namespaces Namespaces, defaultNS string) (string, error) {
	return NewEvaluator(namespaces, defaultNS).Evaluate(expr)
}

// Evaluate parses and evaluates expr.
func (e *Evaluator) Evaluate(expr string) (string, error) {
	tmpl, err := Parse(expr)
	if err != nil {
		return "", err
	}

	return e.Execute(tmpl)
}

// Execute evaluates a parsed template.
func (e *Evaluator) Execute(t *Template) (string, error) {
	if err := e.check(t.expr, t.nodes); err != nil {
		return "", err
	}

	var out strings.Builder
	if err := e.eval(t.nodes, &out); err != nil {
		return "", err
	}

	return out.String(), nil
}

// References lists the (namespace, name) pairs a template refers to,
// fallbacks included, in source order.
func (e *Evaluator) References(t *Template) ([][2]string, error) {
	if err := e.check(t.expr, t.nodes); err != nil {
		return nil, err
	}

	var refs [][2]string

	var walk func(nodes []node)
	walk = func(nodes []node) {
		for _, n := range nodes {
			if ref, ok := n.(*reference); ok {
				ns, name, _ := e.split(ref.raw)
				refs = append(refs, [2]string{ns, name})
				walk(ref.fallback)
			}
		}
	}
	walk(t.nodes)

	return refs, nil
}

// check validates namespace prefixes across the whole tree.
func (e *Evaluator) check(expr string, nodes []node) error {
	for _, n := range nodes {
		ref, ok := n.(*reference)
		if !ok {
			continue
		}

		if _, _, reason := e.split(ref.raw); reason != "" {
			return &SyntaxError{Expr: expr, Offset: ref.offset, Reason: reason}
		}

		if err := e.check(expr, ref.fallback); err != nil {
			return err
		}
	}

	return nil
}

// split resolves "ns.name" or "name" into a namespace and a name.
func (e *Evaluator) split(raw string) (string, string, string) {
	ns, name, dotted := strings.Cut(raw, ".")
	if !dotted {
		if e.Default == "" {
			return "", "", "reference " + raw + " has no namespace and there is no default"
		}

		return e.Default, raw, ""
	}

	if _, known := e.Namespaces[ns]; !known {
		return "", "", "unknown namespace " + ns
	}

	if name == "" {
		return "", "", "empty name in namespace " + ns
	}

	return ns, name, ""
}

func (e *Evaluator) eval(nodes []node, out *strings.Builder) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case literal:
			out.WriteString(string(n))

		case *reference:
			ns, name, _ := e.split(n.raw)

			if value, ok := e.Namespaces[ns][name]; ok {
				out.WriteString(value)
				continue
			}

			if !n.hasFall {
				return &UnresolvedReferenceError{Namespace: ns, Name: name}
			}

			if err := e.eval(n.fallback, out); err != nil {
				return err
			}
		}
	}

	return nil
}
