package scan

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"maps"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"config-binder/internal/analyze"
	"config-binder/internal/binding"
	"config-binder/internal/common"
	"config-binder/internal/diagnostic"
	"config-binder/internal/discover"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Result is the outcome of a scan.
type Result struct {
	Graph *discover.Graph
	// Components lists the components in declaration order.
	Components []analyze.TypeID
	// Packages maps loaded package paths to their names.
	Packages map[string]string
	// Dirs lists the source directories of the loaded packages, sorted.
	Dirs []string
	// Diagnostics reports malformed directives. They never stop the scan.
	Diagnostics diagnostic.Diagnostics
}

// Loader reads binder declarations from Go packages.
type Loader struct {
	dir       string
	logger    *zap.Logger
	extractor *analyze.Extractor
}

// NewLoader creates a Loader resolving patterns relative to dir.
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		dir:       dir,
		logger:    logger,
		extractor: analyze.NewExtractor(),
	}
}

// Load loads the packages matching patterns and collects their declarations.
func (l *Loader) Load(patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var loadErrs []string

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	}

	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(loadErrs, "\n  "))
	}

	res := &Result{
		Graph:    discover.NewGraph(),
		Packages: make(map[string]string),
	}

	dirs := make(map[string]bool)

	for _, pkg := range pkgs {
		res.Packages[pkg.PkgPath] = pkg.Name

		for _, f := range pkg.GoFiles {
			dirs[filepath.Dir(f)] = true
		}

		p := &pkgScanner{loader: l, pkg: pkg, res: res}
		p.scan()

		l.logger.Debug("scanned package",
			zap.String("package", pkg.PkgPath),
			zap.Int("components", len(res.Components)))
	}

	res.Dirs = slices.Sorted(maps.Keys(dirs))

	return res, nil
}

// pkgScanner collects the declarations of one package.
type pkgScanner struct {
	loader *Loader
	pkg    *packages.Package
	res    *Result

	injectables map[string]*discover.Injectable
	modules     map[string]*discover.Module
}

func (p *pkgScanner) scan() {
	p.injectables = make(map[string]*discover.Injectable)
	p.modules = make(map[string]*discover.Module)

	// Types first so methods and constructors can find their owners.
	for _, file := range p.pkg.Syntax {
		for _, decl := range file.Decls {
			if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.TYPE {
				p.typeDecl(gd)
			}
		}
	}

	for _, file := range p.pkg.Syntax {
		for _, decl := range file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok {
				p.funcDecl(fn)
			}
		}
	}
}

func (p *pkgScanner) typeDecl(gd *ast.GenDecl) {
	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		doc := ts.Doc
		if doc == nil && len(gd.Specs) == 1 {
			doc = gd.Doc
		}

		dirs := parseDirectives(doc)
		if len(dirs) == 0 {
			continue
		}

		id := analyze.TypeID{PkgPath: p.pkg.PkgPath, Name: ts.Name.Name}

		switch {
		case hasDirective(dirs, verbComponent):
			p.component(id, ts, dirs)
		case hasDirective(dirs, verbModule):
			mod := &discover.Module{ID: id, Includes: typeRefs(dirs, verbInclude, p.pkg.PkgPath)}
			p.modules[id.Name] = mod
			p.res.Graph.AddModule(mod)
		case hasDirective(dirs, verbInject):
			p.injectable(id, ts)
		default:
			p.errorf(dirs[0].Pos, "", "directive %q is not valid on a type", dirs[0].Verb)
		}
	}
}

func (p *pkgScanner) component(id analyze.TypeID, ts *ast.TypeSpec, dirs []directive) {
	iface, ok := ts.Type.(*ast.InterfaceType)
	if !ok {
		p.errorf(ts.Pos(), id.Name, "component %s must be an interface", id.Name)
		return
	}

	comp := &discover.Component{ID: id, Modules: typeRefs(dirs, verbModules, p.pkg.PkgPath)}

	for _, field := range iface.Methods.List {
		if len(field.Names) == 0 {
			continue
		}

		name := field.Names[0]

		fn, ok := p.pkg.TypesInfo.Defs[name].(*types.Func)
		if !ok {
			continue
		}

		sig := fn.Type().(*types.Signature)
		if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			p.errorf(name.Pos(), id.Name+"."+name.Name, "accessor %s must take no arguments and return one value", name.Name)
			continue
		}

		member := discover.Member{
			Name:     name.Name,
			Type:     p.loader.extractor.TypeOf(sig.Results().At(0).Type()),
			Location: p.location(name.Pos(), id.Name+"."+name.Name),
		}

		for _, d := range parseDirectives(field.Doc) {
			if !d.isQualifier() {
				continue
			}

			spec, ok := p.parseSpec(d, member.Location.Symbol)
			if !ok {
				continue
			}

			if member.Qualifier != nil {
				p.errorf(d.Pos, member.Location.Symbol, "accessor %s has more than one qualifier", name.Name)
				continue
			}

			member.Qualifier = spec.Qualifier
			member.Nullable = spec.Optional
		}

		comp.Accessors = append(comp.Accessors, member)
	}

	p.res.Graph.AddComponent(comp)
	p.res.Components = append(p.res.Components, id)
}

func (p *pkgScanner) injectable(id analyze.TypeID, ts *ast.TypeSpec) {
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		p.errorf(ts.Pos(), id.Name, "injectable %s must be a struct", id.Name)
		return
	}

	inj := &discover.Injectable{ID: id}

	for _, field := range st.Fields.List {
		ftype := p.loader.extractor.TypeOf(p.pkg.TypesInfo.TypeOf(field.Type))

		if len(field.Names) == 0 {
			if super := ftype.Deref(); super.IsNamed() {
				inj.Supertypes = append(inj.Supertypes, super.ID)
			}

			continue
		}

		for _, name := range field.Names {
			symbol := id.Name + "." + name.Name
			member := discover.Member{
				Name:     name.Name,
				Type:     ftype,
				Location: p.location(name.Pos(), symbol),
			}

			if field.Tag != nil {
				if tag, ok := fieldTag(field.Tag.Value); ok {
					spec, err := binding.ParseTag(tag)
					if err != nil {
						p.errorf(field.Tag.Pos(), symbol, "%v", err)
					} else {
						member.Qualifier = spec.Qualifier
						member.Nullable = spec.Optional
					}
				}
			}

			inj.Fields = append(inj.Fields, member)
		}
	}

	p.injectables[id.Name] = inj
	p.res.Graph.AddInjectable(inj)
}

func (p *pkgScanner) funcDecl(fn *ast.FuncDecl) {
	obj, ok := p.pkg.TypesInfo.Defs[fn.Name].(*types.Func)
	if !ok {
		return
	}

	sig := obj.Type().(*types.Signature)
	dirs := parseDirectives(fn.Doc)

	if fn.Recv == nil {
		// New<T> is the constructor of injectable T.
		inj, ok := p.injectables[strings.TrimPrefix(fn.Name.Name, "New")]
		if ok && strings.HasPrefix(fn.Name.Name, "New") {
			inj.Constructor = p.params(fn.Name.Name, sig, dirs)
		}

		return
	}

	recv := receiverName(fn.Recv)

	if mod, ok := p.modules[recv]; ok && fn.Name.IsExported() {
		mod.Providers = append(mod.Providers, discover.Method{
			Name:   fn.Name.Name,
			Params: p.params(recv+"."+fn.Name.Name, sig, dirs),
		})

		return
	}

	if inj, ok := p.injectables[recv]; ok && hasDirective(dirs, verbInject) {
		inj.Methods = append(inj.Methods, discover.Method{
			Name:   fn.Name.Name,
			Params: p.params(recv+"."+fn.Name.Name, sig, dirs),
		})
	}
}

// params builds members for a function's parameters, applying the
// qualifier directives that name them with param=.
func (p *pkgScanner) params(symbol string, sig *types.Signature, dirs []directive) []discover.Member {
	specs := make(map[string]binding.Spec)

	for _, d := range dirs {
		if !d.isQualifier() {
			continue
		}

		spec, ok := p.parseSpec(d, symbol)
		if !ok {
			continue
		}

		if spec.Param == "" {
			p.errorf(d.Pos, symbol, "qualifier on a function needs param=")
			continue
		}

		if _, dup := specs[spec.Param]; dup {
			p.errorf(d.Pos, symbol, "parameter %s has more than one qualifier", spec.Param)
			continue
		}

		specs[spec.Param] = spec
	}

	members := make([]discover.Member, 0, sig.Params().Len())

	for i := range sig.Params().Len() {
		v := sig.Params().At(i)

		member := discover.Member{
			Name:     v.Name(),
			Type:     p.loader.extractor.TypeOf(v.Type()),
			Location: p.location(v.Pos(), symbol+"("+v.Name()+")"),
		}

		if spec, ok := specs[v.Name()]; ok {
			member.Qualifier = spec.Qualifier
			member.Nullable = spec.Optional

			delete(specs, v.Name())
		}

		members = append(members, member)
	}

	for _, name := range common.SortedKeys(specs) {
		p.errorf(token.NoPos, symbol, "qualifier names unknown parameter %q", name)
	}

	return members
}

func (p *pkgScanner) parseSpec(d directive, symbol string) (binding.Spec, bool) {
	spec, err := binding.ParseDirective(d.text())
	if err != nil {
		p.errorf(d.Pos, symbol, "%v", err)
		return binding.Spec{}, false
	}

	return spec, true
}

func (p *pkgScanner) location(pos token.Pos, symbol string) diagnostic.Location {
	loc := diagnostic.Location{Symbol: symbol}

	if pos.IsValid() {
		position := p.pkg.Fset.Position(pos)
		loc.File = position.Filename
		loc.Line = position.Line
		loc.Column = position.Column
	}

	return loc
}

func (p *pkgScanner) errorf(pos token.Pos, symbol, format string, args ...any) {
	loc := p.location(pos, symbol)
	p.res.Diagnostics.AddError(diagnostic.CodeInvalidQualifier, fmt.Sprintf(format, args...), "", &loc)
}

// fieldTag extracts the binder tag from a struct tag literal.
func fieldTag(lit string) (string, bool) {
	raw, err := strconv.Unquote(lit)
	if err != nil {
		return "", false
	}

	return reflect.StructTag(raw).Lookup(binding.TagKey)
}

func receiverName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}

	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	// Generic receivers are not declarations.
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}

	return ""
}
