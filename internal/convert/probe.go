package convert

import (
	"config-binder/internal/analyze"
)

// TypeCapabilityProbe checks whether a target type offers one kind of
// conversion from a source type.
type TypeCapabilityProbe interface {
	Strategy() Strategy
	// Probe returns the conversion and true on a match. target is already
	// dereferenced; the resolver fills in Target and Source.
	Probe(target, source *analyze.TypeInfo) (Expression, bool)
}

// DefaultProbes returns the built-in probes in priority order.
func DefaultProbes() []TypeCapabilityProbe {
	return []TypeCapabilityProbe{
		DirectProbe{},
		StaticFactoryProbe{},
		FromStringProbe{},
		ConstructorProbe{},
	}
}

var builtins = map[string]Builtin{
	"bool":    {Func: "ParseBool", Type: "bool"},
	"int":     {Func: "ParseInt", Type: "int"},
	"int8":    {Func: "ParseInt", BitSize: 8, Type: "int8"},
	"int16":   {Func: "ParseInt", BitSize: 16, Type: "int16"},
	"int32":   {Func: "ParseInt", BitSize: 32, Type: "int32"},
	"rune":    {Func: "ParseInt", BitSize: 32, Type: "rune"},
	"int64":   {Func: "ParseInt", BitSize: 64, Type: "int64"},
	"uint":    {Func: "ParseUint", Type: "uint"},
	"uint8":   {Func: "ParseUint", BitSize: 8, Type: "uint8"},
	"byte":    {Func: "ParseUint", BitSize: 8, Type: "byte"},
	"uint16":  {Func: "ParseUint", BitSize: 16, Type: "uint16"},
	"uint32":  {Func: "ParseUint", BitSize: 32, Type: "uint32"},
	"uint64":  {Func: "ParseUint", BitSize: 64, Type: "uint64"},
	"float32": {Func: "ParseFloat", BitSize: 32, Type: "float32"},
	"float64": {Func: "ParseFloat", BitSize: 64, Type: "float64"},
}

// BuiltinFor returns the strconv parser for a predeclared numeric or bool type.
func BuiltinFor(t *analyze.TypeInfo) (Builtin, bool) {
	if !t.IsNumeric() && !t.IsBool() {
		return Builtin{}, false
	}

	b, ok := builtins[t.ID.Name]

	return b, ok
}

// DirectProbe matches identical types and predeclared numeric/bool targets
// parsed from a string.
type DirectProbe struct{}

func (DirectProbe) Strategy() Strategy { return StrategyDirect }

func (DirectProbe) Probe(target, source *analyze.TypeInfo) (Expression, bool) {
	if analyze.Identical(target, source) {
		return Expression{Strategy: StrategyDirect, Form: FormIdentity, Explanation: "identical types"}, true
	}

	if !source.IsString() {
		return Expression{}, false
	}

	if b, ok := BuiltinFor(target); ok {
		return Expression{Strategy: StrategyDirect, Form: FormBuiltin, Builtin: &b, Explanation: "builtin parser"}, true
	}

	return Expression{}, false
}

// StaticFactoryProbe matches Parse<T>, ValueOf<T>, Parse and ValueOf, in
// that order.
type StaticFactoryProbe struct{}

func (StaticFactoryProbe) Strategy() Strategy { return StrategyStaticFactory }

func (StaticFactoryProbe) Probe(target, source *analyze.TypeInfo) (Expression, bool) {
	if !target.IsNamed() {
		return Expression{}, false
	}

	name := target.ID.Name

	return callFactory(target, source, StrategyStaticFactory,
		"Parse"+name, "ValueOf"+name, "Parse", "ValueOf")
}

// FromStringProbe matches <T>FromString and FromString for string sources.
type FromStringProbe struct{}

func (FromStringProbe) Strategy() Strategy { return StrategyFromString }

func (FromStringProbe) Probe(target, source *analyze.TypeInfo) (Expression, bool) {
	if !target.IsNamed() || !source.IsString() {
		return Expression{}, false
	}

	return callFactory(target, source, StrategyFromString, target.ID.Name+"FromString", "FromString")
}

// ConstructorProbe matches the single New<T> constructor taking the source
// type. A type without New<T> constructors is built by a Go conversion from
// its underlying basic type.
type ConstructorProbe struct{}

func (ConstructorProbe) Strategy() Strategy { return StrategyConstructor }

func (ConstructorProbe) Probe(target, source *analyze.TypeInfo) (Expression, bool) {
	if !target.IsNamed() {
		return Expression{}, false
	}

	if ctors := target.Constructors(); len(ctors) > 0 {
		var match *analyze.FuncInfo

		for i := range ctors {
			if !ctors[i].AcceptsOnly(source) {
				continue
			}

			if match != nil {
				return Expression{}, false
			}

			match = &ctors[i]
		}

		if match == nil {
			return Expression{}, false
		}

		return Expression{Strategy: StrategyConstructor, Form: FormCall, Func: match, Explanation: "constructor"}, true
	}

	under := target.Underlying
	if under == nil {
		return Expression{}, false
	}

	if analyze.Identical(under, source) {
		return Expression{Strategy: StrategyConstructor, Form: FormConvert, Explanation: "conversion"}, true
	}

	if b, ok := BuiltinFor(under); ok && source.IsString() {
		inner := Expression{
			Strategy: StrategyDirect,
			Form:     FormBuiltin,
			Target:   under,
			Source:   source,
			Builtin:  &b,
		}

		return Expression{Strategy: StrategyConstructor, Form: FormConvert, Elem: &inner, Explanation: "parsed conversion"}, true
	}

	return Expression{}, false
}

func callFactory(target, source *analyze.TypeInfo, strategy Strategy, names ...string) (Expression, bool) {
	for _, name := range names {
		f, ok := target.Factory(name)
		if !ok || !f.AcceptsOnly(source) {
			continue
		}

		return Expression{Strategy: strategy, Form: FormCall, Func: &f, Explanation: name}, true
	}

	return Expression{}, false
}
