package gen

import (
	"fmt"
	"go/token"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"config-binder/internal/analyze"
	"config-binder/internal/binding"
	"config-binder/internal/common"
)

// exportedName joins the alphanumeric words of s into an exported Go
// identifier, e.g. "DATABASE_URL" -> "DatabaseUrl", "/prod/upstream" -> "ProdUpstream".
func exportedName(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	// A Caser is stateful and must not be shared.
	title := cases.Title(language.Und)

	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}

	name := b.String()
	if name == "" {
		return "Value"
	}

	if r := []rune(name)[0]; !unicode.IsLetter(r) || !unicode.IsUpper(r) {
		name = "X" + name
	}

	return name
}

// snakeName turns a Go identifier into a file name stem, e.g. "HTTPConfig" -> "http_config".
func snakeName(s string) string {
	runes := []rune(s)

	var b strings.Builder

	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// keyName derives the accessor name of a binding key.
func keyName(k binding.Key) string {
	switch k.Kind {
	case binding.KindPositional:
		return "Arg" + strconv.FormatUint(uint64(k.Position), 10)
	case binding.KindFlag:
		for _, s := range []string{k.Long, k.Short, k.NegativeLong, k.NegativeShort} {
			if s != "" {
				return exportedName(s)
			}
		}

		return "Flag"
	default:
		return exportedName(k.Name)
	}
}

// accessorNames assigns a unique method name to every representation key.
// Keys requested as several types get the type appended; remaining clashes,
// including clashes with Check and the reserved provider fields, are
// numbered in order.
func accessorNames(keys []binding.RepresentationKey, types []*analyze.TypeInfo, reserved ...string) []string {
	perKey := make(map[binding.Key]int)
	for _, k := range keys {
		perKey[k.Key]++
	}

	names := make([]string, len(keys))
	used := map[string]bool{"Check": true}

	for _, r := range reserved {
		used[r] = true
	}

	for i, k := range keys {
		name := keyName(k.Key)
		if perKey[k.Key] > 1 {
			name += "As" + typeWord(types[i])
		}

		candidate := name
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s%d", name, n)
		}

		used[candidate] = true
		names[i] = candidate
	}

	return names
}

func typeWord(t *analyze.TypeInfo) string {
	switch t.Kind {
	case analyze.TypeKindPointer:
		return typeWord(t.Elem)
	case analyze.TypeKindSlice:
		return typeWord(t.Elem) + "List"
	}

	return exportedName(t.ID.Name)
}

// reservedIdents are names the generated bodies declare; package aliases
// must not shadow them.
var reservedIdents = map[string]bool{
	"p": true, "v": true, "err": true, "ctx": true, "raw": true, "ok": true, "errs": true,
}

type importSpec struct {
	Alias string
	Path  string
}

// importSet allocates one alias per imported package path.
type importSet struct {
	// self is the import path of the generated package; its types are unqualified.
	self    string
	byPath  map[string]string
	byAlias map[string]string
}

// stdImports are the packages generated bodies reference by name.
var stdImports = []string{"context", "errors", "fmt", "os", "strconv"}

func newImportSet(self string) *importSet {
	s := &importSet{self: self, byPath: make(map[string]string), byAlias: make(map[string]string)}
	for _, p := range stdImports {
		s.byAlias[p] = p
	}

	return s
}

// add registers pkgPath and returns the alias to reference it with.
func (s *importSet) add(pkgPath string) string {
	if pkgPath == "" || pkgPath == s.self {
		return ""
	}

	if alias, ok := s.byPath[pkgPath]; ok {
		return alias
	}

	if s.byAlias[pkgPath] == pkgPath {
		s.byPath[pkgPath] = pkgPath
		return pkgPath
	}

	base := sanitizeAlias(common.PkgAlias(pkgPath))

	alias := base
	for n := 2; s.byAlias[alias] != "" || reservedIdents[alias] || token.IsKeyword(alias); n++ {
		alias = base + strconv.Itoa(n)
	}

	s.byPath[pkgPath] = alias
	s.byAlias[alias] = pkgPath

	return alias
}

// typeName renders t for use in generated code, importing what it needs.
func (s *importSet) typeName(t *analyze.TypeInfo) string {
	return t.Qualified(s.add)
}

// funcName renders a package-level function reference.
func (s *importSet) funcName(f *analyze.FuncInfo) string {
	if alias := s.add(f.PkgPath); alias != "" {
		return alias + "." + f.Name
	}

	return f.Name
}

// specs returns the imports sorted by path. The alias is only spelled out
// when it differs from the package's last path element.
func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.byPath))

	for path, alias := range s.byPath {
		spec := importSpec{Path: path}
		if alias != common.PkgAlias(path) {
			spec.Alias = alias
		}

		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

func sanitizeAlias(s string) string {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "pkg" + out
	}

	return out
}
