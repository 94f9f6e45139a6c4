package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"config-binder/internal/diagnostic"
)

// printer renders diagnostics and status lines, coloured by severity.
type printer struct {
	out     io.Writer
	errorC  *color.Color
	warnC   *color.Color
	infoC   *color.Color
	headerC *color.Color
	dimC    *color.Color
}

// newPrinter creates a printer. mode is auto, on or off; auto colours only
// when tty is true.
func newPrinter(out io.Writer, mode string, tty bool) (*printer, error) {
	var enabled bool

	switch mode {
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "auto":
		enabled = tty
	default:
		return nil, fmt.Errorf("unknown color mode %q (want auto, on or off)", mode)
	}

	p := &printer{
		out:     out,
		errorC:  color.New(color.FgRed, color.Bold),
		warnC:   color.New(color.FgYellow, color.Bold),
		infoC:   color.New(color.FgCyan),
		headerC: color.New(color.Bold),
		dimC:    color.New(color.Faint),
	}

	for _, c := range []*color.Color{p.errorC, p.warnC, p.infoC, p.headerC, p.dimC} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p, nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (p *printer) severity(s diagnostic.Severity) *color.Color {
	switch s {
	case diagnostic.SeverityError:
		return p.errorC
	case diagnostic.SeverityWarning:
		return p.warnC
	default:
		return p.infoC
	}
}

// diagnostics prints a titled block, one diagnostic per entry:
//
//	error[missing_positions] cli:#1: message
//	  --> config.go:12:2 (app.Args.Target)
//	  = did you mean: HOST, PORT
func (p *printer) diagnostics(title string, diags diagnostic.Diagnostics) {
	p.headerC.Fprintf(p.out, "%s\n", title)

	for _, d := range diags.Items {
		label := d.Severity.String()
		if d.Code != "" {
			label += "[" + string(d.Code) + "]"
		}

		line := p.severity(d.Severity).Sprint(label)
		if d.Key != "" {
			line += " " + d.Key
		}

		fmt.Fprintf(p.out, "%s: %s\n", line, d.Message)

		if d.Location != nil {
			if loc := d.Location.String(); loc != "" {
				p.dimC.Fprintf(p.out, "  --> %s\n", loc)
			}
		}

		if len(d.Suggestions) > 0 {
			fmt.Fprintf(p.out, "  = did you mean: %s\n", strings.Join(d.Suggestions, ", "))
		}
	}
}

// status prints a single result line, e.g. "ok  example.com/app.Config (env)".
func (p *printer) status(ok bool, format string, args ...any) {
	mark := p.errorC.Sprint("FAIL")
	if ok {
		mark = p.infoC.Sprint("ok  ")
	}

	fmt.Fprintf(p.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}
