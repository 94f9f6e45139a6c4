package subst

import "fmt"

// SyntaxError reports a malformed template.
type SyntaxError struct {
	Expr   string
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template %q: offset %d: %s", e.Expr, e.Offset, e.Reason)
}

// UnresolvedReferenceError reports a reference with no value and no fallback.
type UnresolvedReferenceError struct {
	Namespace string
	Name      string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %s.%s", e.Namespace, e.Name)
}
