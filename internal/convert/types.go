package convert

import (
	"fmt"

	"config-binder/internal/analyze"
	"config-binder/internal/common"
)

// Strategy identifies the probe that produced an Expression.
type Strategy int

const (
	// StrategyDirect - identity or a built-in strconv parser.
	StrategyDirect Strategy = iota
	// StrategyStaticFactory - Parse/ValueOf style factory.
	StrategyStaticFactory
	// StrategyFromString - FromString style factory.
	StrategyFromString
	// StrategyConstructor - single-argument New<T> or Go conversion.
	StrategyConstructor
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyStaticFactory:
		return "static_factory"
	case StrategyFromString:
		return "from_string"
	case StrategyConstructor:
		return "constructor"
	default:
		return common.UnknownStr
	}
}

// Form is the shape of the code an emitter writes for an Expression.
type Form int

const (
	// FormIdentity - the raw value is used as-is.
	FormIdentity Form = iota
	// FormBuiltin - Builtin parses the raw value.
	FormBuiltin
	// FormCall - Func is called with the raw value.
	FormCall
	// FormConvert - Go conversion T(x); x is the raw value or the result of Elem.
	FormConvert
	// FormElementwise - Elem is applied to every element of the raw list.
	FormElementwise
)

// String returns a human-readable representation of the Form.
func (f Form) String() string {
	switch f {
	case FormIdentity:
		return "identity"
	case FormBuiltin:
		return "builtin"
	case FormCall:
		return "call"
	case FormConvert:
		return "convert"
	case FormElementwise:
		return "elementwise"
	default:
		return common.UnknownStr
	}
}

// Builtin names a strconv parser for a predeclared type.
type Builtin struct {
	// Func is the strconv function, e.g. "ParseInt".
	Func string
	// BitSize is passed to ParseInt/ParseUint/ParseFloat. Zero means int/uint.
	BitSize int
	// Type is the predeclared type the parser result is converted to.
	Type string
}

// Expression turns a raw value of type Source into a value of type Target.
type Expression struct {
	Strategy Strategy
	Form     Form
	Target   *analyze.TypeInfo
	Source   *analyze.TypeInfo
	// Func is set for FormCall.
	Func *analyze.FuncInfo
	// Builtin is set for FormBuiltin.
	Builtin *Builtin
	// Elem is the per-element expression for FormElementwise and the inner
	// expression for FormConvert over a parsed value.
	Elem *Expression
	// Nullable makes generated code yield nil for an absent raw value
	// without running the conversion.
	Nullable bool
	// Explanation is a short note for plan dumps.
	Explanation string
}

// String renders the expression for diagnostics and plan dumps.
func (e Expression) String() string {
	switch e.Form {
	case FormIdentity:
		return "identity"
	case FormBuiltin:
		return "strconv." + e.Builtin.Func
	case FormCall:
		return e.Func.String()
	case FormConvert:
		if e.Elem != nil {
			return e.Target.Deref().String() + "(" + e.Elem.String() + ")"
		}

		return e.Target.Deref().String() + "(" + e.Source.String() + ")"
	case FormElementwise:
		return "each(" + e.Elem.String() + ")"
	default:
		return common.UnknownStr
	}
}

// ConversionError reports that no probe could convert Source into Target.
type ConversionError struct {
	Target *analyze.TypeInfo
	Source *analyze.TypeInfo
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no conversion strategy from %s to %s", e.Source, e.Target)
}
