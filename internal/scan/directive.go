package scan

import (
	"go/ast"
	"go/token"
	"strings"

	"config-binder/internal/analyze"
	"config-binder/internal/binding"
)

// Structural directive verbs.
const (
	verbComponent = "component"
	verbModules   = "modules"
	verbModule    = "module"
	verbInclude   = "include"
	verbInject    = "inject"
)

// directive is one //binder: line.
type directive struct {
	Verb string
	Args string
	Pos  token.Pos
}

// isQualifier reports whether the directive names a binding source.
func (d directive) isQualifier() bool {
	return binding.Source(d.Verb).IsValid()
}

// text returns the directive without the prefix, as ParseDirective expects.
func (d directive) text() string {
	if d.Args == "" {
		return d.Verb
	}

	return d.Verb + " " + d.Args
}

// parseDirectives extracts //binder: directives from a comment group.
func parseDirectives(doc *ast.CommentGroup) []directive {
	if doc == nil {
		return nil
	}

	var out []directive

	for _, c := range doc.List {
		text := strings.TrimPrefix(c.Text, "//")
		if !strings.HasPrefix(text, binding.DirectivePrefix) {
			continue
		}

		text = strings.TrimSpace(strings.TrimPrefix(text, binding.DirectivePrefix))
		verb, args, _ := strings.Cut(text, " ")

		out = append(out, directive{Verb: verb, Args: strings.TrimSpace(args), Pos: c.Pos()})
	}

	return out
}

func hasDirective(dirs []directive, verb string) bool {
	for _, d := range dirs {
		if d.Verb == verb {
			return true
		}
	}

	return false
}

// typeRefs resolves the space-separated type names of all directives with
// verb. Unqualified names refer to pkgPath; "path/to/pkg.Name" is absolute.
func typeRefs(dirs []directive, verb, pkgPath string) []analyze.TypeID {
	var ids []analyze.TypeID

	for _, d := range dirs {
		if d.Verb != verb {
			continue
		}

		for _, ref := range strings.Fields(d.Args) {
			ids = append(ids, typeRef(ref, pkgPath))
		}
	}

	return ids
}

func typeRef(ref, pkgPath string) analyze.TypeID {
	if i := strings.LastIndex(ref, "."); i > 0 {
		return analyze.TypeID{PkgPath: ref[:i], Name: ref[i+1:]}
	}

	return analyze.TypeID{PkgPath: pkgPath, Name: ref}
}
