package diagnostic

// Code is a stable diagnostic identifier.
type Code string

// Key canonicalization.
const (
	CodeMissingQualifier Code = "missing_qualifier"
	CodeInvalidShortName Code = "invalid_short_name"
	CodeInvalidLongName  Code = "invalid_long_name"
	CodeEmptyDisjunction Code = "empty_disjunction"
	CodeInvalidQualifier Code = "invalid_qualifier"
)

// Template evaluation.
const (
	CodeTemplateSyntax     Code = "template_syntax"
	CodeTemplateUnresolved Code = "template_unresolved"
)

// Consistency conflicts, downgraded to the stricter reading.
const (
	CodeConflictingRequiredness Code = "conflicting_requiredness"
	CodeTreatedAsRequired       Code = "treated_as_required"
	CodeConflictingDefault      Code = "conflicting_default"
	CodeDefaultApplied          Code = "default_applied"
)

// Structural errors, fatal for the whole graph.
const (
	CodeMissingPositions      Code = "missing_positions"
	CodeExtraPositions        Code = "extra_positions"
	CodeRequiredAfterOptional Code = "required_after_optional"
	CodeConflictingAlias      Code = "conflicting_alias"
)

// Discovery and conversion.
const (
	CodeUnknownRoot     Code = "unknown_root"
	CodeUnknownModule   Code = "unknown_module"
	CodeInjectableCycle Code = "injectable_cycle"
	CodeNoStrategy      Code = "no_strategy"
)

// IsStructural reports whether the code makes the generated module ill-formed.
func (c Code) IsStructural() bool {
	switch c {
	case CodeMissingPositions, CodeExtraPositions, CodeRequiredAfterOptional, CodeConflictingAlias:
		return true
	default:
		return false
	}
}
