package gen

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"config-binder/internal/analyze"
	"config-binder/internal/binding"
	"config-binder/internal/convert"
	"config-binder/internal/plan"
)

// value is a rendered Go expression and whether it yields a pointer.
type value struct {
	expr string
	ptr  bool
}

// body accumulates the statements of one accessor.
type body struct {
	imports *importSet
	key     string
	lines   []string
	tmp     int
}

func (b *body) emit(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *body) fresh(prefix string) string {
	b.tmp++
	return prefix + strconv.Itoa(b.tmp)
}

// failConversion returns a ConversionError when err is set. in is the raw
// string being converted, or "" for list inputs.
func (b *body) failConversion(in string) {
	b.emit("if err != nil {")

	if in == "" {
		b.emit("return v, &ConversionError{Key: %q, Err: err}", b.key)
	} else {
		b.emit("return v, &ConversionError{Key: %q, Value: %s, Err: err}", b.key, in)
	}

	b.emit("}")
}

// resultType is the accessor's declared type. Nullable scalars are returned
// as pointers; pointers and slices already have a nil value.
func resultType(rep plan.Representation) *analyze.TypeInfo {
	t := rep.Type
	if !rep.Nullable || t.Kind == analyze.TypeKindPointer || t.Kind == analyze.TypeKindSlice {
		return t
	}

	return analyze.PointerTo(t)
}

// renderAccessor writes the statements that fetch, default and convert one
// representation into the named result v.
func renderAccessor(imports *importSet, source binding.Source, rep plan.Representation, expr convert.Expression) ([]string, error) {
	b := &body{imports: imports, key: rep.Key.Key.String()}

	list := expr.Source != nil && expr.Source.Kind == analyze.TypeKindSlice
	if err := b.fetch(source, rep.Key.Key, list, rep.Varargs); err != nil {
		return nil, err
	}

	b.emit("if !ok {")

	switch {
	case rep.Default != nil && list:
		b.emit("raw = []string{%q}", *rep.Default)
	case rep.Default != nil:
		b.emit("raw = %q", *rep.Default)
	case rep.Nullable:
		b.emit("return v, nil")
	default:
		b.emit("return v, &MissingError{Key: %q}", b.key)
	}

	b.emit("}")

	val := b.convert(expr, "raw")
	b.assign("v", val, resultType(rep).Kind == analyze.TypeKindPointer)
	b.emit("return v, nil")

	return b.lines, nil
}

// fetch declares raw and ok for the key.
func (b *body) fetch(source binding.Source, key binding.Key, list, varargs bool) error {
	switch source {
	case binding.SourceEnvironment:
		b.imports.add("os")
		b.emit("raw, ok := os.LookupEnv(%q)", key.Name)
	case binding.SourceSystemProperty:
		b.emit("raw, ok := p.Properties[%q]", key.Name)
	case binding.SourceParameterStore:
		b.imports.add("errors")
		b.imports.add("fmt")
		b.emit("raw, err := p.Store.Fetch(ctx, %q)", key.Name)
		b.emit("ok := err == nil")
		b.emit("if err != nil && !errors.Is(err, ErrParameterNotFound) {")
		b.emit("return v, fmt.Errorf(\"fetching %%s: %%w\", %q, err)", key.Name)
		b.emit("}")
	case binding.SourceCommandLine:
		return b.fetchCommandLine(key, list, varargs)
	default:
		return fmt.Errorf("unsupported source %q", source)
	}

	return nil
}

func (b *body) fetchCommandLine(key binding.Key, list, varargs bool) error {
	var single string

	switch key.Kind {
	case binding.KindPositional:
		pos, err := safecast.Conv[int](key.Position)
		if err != nil {
			return fmt.Errorf("position of %s: %w", key, err)
		}

		if list && varargs {
			b.emit("raw := p.Args.Rest(%d)", pos)
			b.emit("ok := len(raw) > 0")

			return nil
		}

		single = fmt.Sprintf("p.Args.Positional(%d)", pos)
	case binding.KindFlag:
		single = fmt.Sprintf("p.Args.Flag(%s, %s)",
			stringSlice(key.Short, key.Long), stringSlice(key.NegativeShort, key.NegativeLong))
	default:
		if list {
			b.emit("raw := p.Args.Options(%q)", "--"+key.Name)
			b.emit("ok := len(raw) > 0")

			return nil
		}

		single = fmt.Sprintf("p.Args.Option(%q)", "--"+key.Name)
	}

	if !list {
		b.emit("raw, ok := %s", single)
		return nil
	}

	one := b.fresh("s")
	b.emit("%s, ok := %s", one, single)
	b.emit("var raw []string")
	b.emit("if ok {")
	b.emit("raw = []string{%s}", one)
	b.emit("}")

	return nil
}

// stringSlice renders the command-line spellings of a short and long form.
func stringSlice(short, long string) string {
	var parts []string
	if short != "" {
		parts = append(parts, strconv.Quote("-"+short))
	}

	if long != "" {
		parts = append(parts, strconv.Quote("--"+long))
	}

	if len(parts) == 0 {
		return "nil"
	}

	return "[]string{" + strings.Join(parts, ", ") + "}"
}

// convert renders e applied to the expression in.
func (b *body) convert(e convert.Expression, in string) value {
	switch e.Form {
	case convert.FormBuiltin:
		return b.builtin(e.Builtin, in)
	case convert.FormCall:
		return b.call(e, in)
	case convert.FormConvert:
		arg := in
		if e.Elem != nil {
			arg = b.convert(*e.Elem, in).expr
		}

		return value{expr: fmt.Sprintf("%s(%s)", b.imports.typeName(e.Target.Deref()), arg)}
	case convert.FormElementwise:
		return b.elementwise(e, in)
	default:
		return value{expr: in}
	}
}

func (b *body) builtin(bi *convert.Builtin, in string) value {
	b.imports.add("strconv")

	switch bi.Func {
	case "ParseBool":
		out := b.fresh("b")
		b.emit("%s, err := strconv.ParseBool(%s)", out, in)
		b.failConversion(in)

		return value{expr: out}
	case "ParseFloat":
		out := b.fresh("f")
		b.emit("%s, err := strconv.ParseFloat(%s, %d)", out, in, bi.BitSize)
		b.failConversion(in)

		if bi.Type == "float64" {
			return value{expr: out}
		}

		return value{expr: fmt.Sprintf("%s(%s)", bi.Type, out)}
	default:
		out := b.fresh("n")
		b.emit("%s, err := strconv.%s(%s, 10, %d)", out, bi.Func, in, bi.BitSize)
		b.failConversion(in)

		if bi.Type == "int64" || bi.Type == "uint64" {
			return value{expr: out}
		}

		return value{expr: fmt.Sprintf("%s(%s)", bi.Type, out)}
	}
}

func (b *body) call(e convert.Expression, in string) value {
	f := e.Func
	out := b.fresh("x")

	if f.ReturnsError {
		b.emit("%s, err := %s(%s)", out, b.imports.funcName(f), in)

		if e.Source != nil && e.Source.Kind == analyze.TypeKindSlice {
			b.failConversion("")
		} else {
			b.failConversion(in)
		}
	} else {
		b.emit("%s := %s(%s)", out, b.imports.funcName(f), in)
	}

	return value{expr: out, ptr: f.ReturnsPointer}
}

func (b *body) elementwise(e convert.Expression, in string) value {
	target := e.Target.Deref()
	out := b.fresh("list")
	elem := b.fresh("s")

	b.emit("%s := make(%s, 0, len(%s))", out, b.imports.typeName(target), in)
	b.emit("for _, %s := range %s {", elem, in)

	val := b.convert(*e.Elem, elem)
	item := b.fresh("item")
	b.emit("var %s %s", item, b.imports.typeName(target.Elem))
	b.assign(item, val, target.Elem.Kind == analyze.TypeKindPointer)
	b.emit("%s = append(%s, %s)", out, out, item)
	b.emit("}")

	return value{expr: out}
}

// assign stores val into dst, taking its address or dereferencing it to
// match the destination.
func (b *body) assign(dst string, val value, wantPtr bool) {
	switch {
	case wantPtr == val.ptr:
		b.emit("%s = %s", dst, val.expr)
	case wantPtr:
		tmp := b.fresh("x")
		b.emit("%s := %s", tmp, val.expr)
		b.emit("%s = &%s", dst, tmp)
	default:
		b.emit("if %s == nil {", val.expr)
		b.emit("return v, &ConversionError{Key: %q, Err: errNilValue}", b.key)
		b.emit("}")
		b.emit("%s = *%s", dst, val.expr)
	}
}
