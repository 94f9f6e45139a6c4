package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"config-binder/internal/common"
)

// Diagnostics is an append-only, ordered list of diagnostics.
type Diagnostics struct {
	Items []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a stable identifier for this kind of diagnostic.
	Code Code
	// Message is the human-readable description.
	Message string
	// Key identifies the binding this relates to (if any).
	Key string
	// Location points at the declaration this relates to (if any).
	Location *Location
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Location is a position in the consumer declarations.
type Location struct {
	File   string
	Line   int
	Column int
	// Symbol names the declaring member, e.g. "app.Config.Port".
	Symbol string
}

// String formats the location as file:line:col (symbol).
func (l Location) String() string {
	var b strings.Builder

	if l.File != "" {
		b.WriteString(l.File)

		if l.Line > 0 {
			fmt.Fprintf(&b, ":%d", l.Line)

			if l.Column > 0 {
				fmt.Fprintf(&b, ":%d", l.Column)
			}
		}
	}

	if l.Symbol != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}

		fmt.Fprintf(&b, "(%s)", l.Symbol)
	}

	return b.String()
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.Items = append(d.Items, diag)
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code Code, message, key string, loc *Location) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Key: key, Location: loc})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code Code, message, key string, loc *Location) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Key: key, Location: loc})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code Code, message, key string, loc *Location) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Key: key, Location: loc})
}

// Merge appends all diagnostics of other, preserving order.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Items = append(d.Items, other.Items...)
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.Items)
}

// Errors returns the error diagnostics in order.
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(SeverityError)
}

// Warnings returns the warning diagnostics in order.
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(SeverityWarning)
}

// Infos returns the info diagnostics in order.
func (d *Diagnostics) Infos() []Diagnostic {
	return d.filter(SeverityInfo)
}

// WithCode returns the diagnostics carrying the given code.
func (d *Diagnostics) WithCode(code Code) []Diagnostic {
	var out []Diagnostic

	for _, item := range d.Items {
		if item.Code == code {
			out = append(out, item)
		}
	}

	return out
}

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, item := range d.Items {
		if item.Severity == sev {
			out = append(out, item)
		}
	}

	return out
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.Items {
		if item.Severity == SeverityError {
			return true
		}
	}

	return false
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors() {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Location != nil {
		if loc := d.Location.String(); loc != "" {
			prefix = append(prefix, loc)
		}
	}

	if d.Key != "" {
		prefix = append(prefix, "["+d.Key+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
