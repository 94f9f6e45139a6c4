package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"config-binder/internal/analyze"
	"config-binder/internal/binder"
	"config-binder/internal/binding"
	"config-binder/internal/plan"
)

// SupportFilename is the file holding the types shared by every provider.
const SupportFilename = "binder_support.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// PackagePath is the import path of the generated package. Types from
	// that package are referenced unqualified. Optional.
	PackagePath string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// GenerateComments adds the binding key and conversion to accessor docs.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "bindings",
		OutputDir:        "./bindings",
		GenerateComments: true,
	}
}

// Generator renders provider modules from binding plans.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "config_env.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Unit is one plan to render.
type Unit struct {
	Plan *plan.BindingPlan
	// Filename overrides the default "<root>_<binder>.go".
	Filename string
}

// Generate renders one provider file per unit plus the shared support file.
// All units land in the same package.
func (g *Generator) Generate(units []Unit) ([]GeneratedFile, error) {
	files := make([]GeneratedFile, 0, len(units)+1)
	support := supportData{PackageName: g.config.PackageName}

	roots := make(map[string]int)
	for _, u := range units {
		roots[u.Plan.Root().Name]++
	}

	for _, u := range units {
		b, err := binder.Lookup(u.Plan.Binder())
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", u.Plan.Root(), err)
		}

		switch b.Source {
		case binding.SourceParameterStore:
			support.ParameterStore = true
		case binding.SourceCommandLine:
			support.CommandLine = true
		}

		typeName := u.Plan.Root().Name + "Provider"
		if roots[u.Plan.Root().Name] > 1 {
			typeName = u.Plan.Root().Name + exportedName(b.Name) + "Provider"
		}

		filename := u.Filename
		if filename == "" {
			filename = snakeName(u.Plan.Root().Name) + "_" + b.Name + ".go"
		}

		file, err := g.generateProvider(u.Plan, b, typeName, filename)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", u.Plan.Root(), err)
		}

		files = append(files, *file)
	}

	file, err := g.render(supportTemplate, SupportFilename, support)
	if err != nil {
		return nil, fmt.Errorf("generating support file: %w", err)
	}

	return append(files, *file), nil
}

type providerData struct {
	PackageName string
	Imports     []importSpec
	TypeName    string
	Root        string
	Binder      string
	Fields      []fieldData
	Accessors   []accessorData
}

type fieldData struct {
	Doc  string
	Name string
	Type string
}

type accessorData struct {
	Name string
	Doc  []string
	Type string
	Body []string
}

type supportData struct {
	PackageName    string
	ParameterStore bool
	CommandLine    bool
}

func (g *Generator) generateProvider(p *plan.BindingPlan, b binder.Binder, typeName, filename string) (*GeneratedFile, error) {
	imports := newImportSet(g.config.PackagePath)
	imports.add("context")
	imports.add("errors")

	data := providerData{
		PackageName: g.config.PackageName,
		TypeName:    typeName,
		Root:        p.Root().String(),
		Binder:      b.Name,
	}

	switch b.Source {
	case binding.SourceSystemProperty:
		data.Fields = append(data.Fields, fieldData{Doc: "Properties holds the system properties.", Name: "Properties", Type: "map[string]string"})
	case binding.SourceParameterStore:
		data.Fields = append(data.Fields, fieldData{Doc: "Store fetches parameters by name.", Name: "Store", Type: "ParameterStore"})
	case binding.SourceCommandLine:
		data.Fields = append(data.Fields, fieldData{Doc: "Args holds the parsed command line.", Name: "Args", Type: "CommandLine"})
	}

	reps := p.Representations()
	keys := make([]binding.RepresentationKey, len(reps))

	for i, rep := range reps {
		keys[i] = rep.Key
	}

	fields := make([]string, len(data.Fields))
	for i, f := range data.Fields {
		fields[i] = f.Name
	}

	names := accessorNames(keys, typesOf(reps), fields...)

	for i, rep := range reps {
		expr, ok := p.Conversion(rep.Key)
		if !ok {
			return nil, fmt.Errorf("no conversion for %s", rep.Key)
		}

		lines, err := renderAccessor(imports, b.Source, rep, expr)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rep.Key, err)
		}

		acc := accessorData{
			Name: names[i],
			Type: imports.typeName(resultType(rep)),
			Body: lines,
		}

		acc.Doc = append(acc.Doc, fmt.Sprintf("%s returns %s.", acc.Name, rep.Key.Key))
		if g.config.GenerateComments {
			acc.Doc = append(acc.Doc, fmt.Sprintf("Binding: %s, conversion: %s (%s).", rep.Key, expr, expr.Strategy))
		}

		if rep.Nullable {
			acc.Doc = append(acc.Doc, "The result is nil when the value is absent.")
		}

		data.Accessors = append(data.Accessors, acc)
	}

	data.Imports = imports.specs()

	return g.render(providerTemplate, filename, data)
}

func typesOf(reps []plan.Representation) []*analyze.TypeInfo {
	out := make([]*analyze.TypeInfo, len(reps))
	for i := range reps {
		out[i] = reps[i].Type
	}

	return out
}

func (g *Generator) render(tmpl *template.Template, filename string, data any) (*GeneratedFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: keep the unformatted code next to the output for debugging.
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes())
		}

		return nil, fmt.Errorf("formatting %s: %w", filename, err)
	}

	return &GeneratedFile{Filename: filename, Content: formatted}, nil
}

var providerTemplate = template.Must(template.New("provider").Parse(`// Code generated by config-binder. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})

// {{.TypeName}} resolves the {{.Binder}} bindings of {{.Root}}.
type {{.TypeName}} struct {
{{- range .Fields}}
	// {{.Doc}}
	{{.Name}} {{.Type}}
{{- end}}
}
{{range .Accessors}}
{{range .Doc}}// {{.}}
{{end -}}
func (p *{{$.TypeName}}) {{.Name}}(ctx context.Context) (v {{.Type}}, err error) {
{{- range .Body}}
	{{.}}
{{- end}}
}
{{end}}
// Check resolves every binding and returns the joined errors.
func (p *{{.TypeName}}) Check(ctx context.Context) error {
	var errs []error
{{range .Accessors}}
	if _, err := p.{{.Name}}(ctx); err != nil {
		errs = append(errs, err)
	}
{{end}}
	return errors.Join(errs...)
}
`))

var supportTemplate = template.Must(template.New("support").Parse(`// Code generated by config-binder. DO NOT EDIT.

package {{.PackageName}}

import (
{{- if .ParameterStore}}
	"context"
{{- end}}
	"errors"
	"fmt"
)

var errNilValue = errors.New("conversion returned nil")

// MissingError reports a required binding without a value.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return "missing required binding " + e.Key
}

// ConversionError reports a raw value that could not be converted.
type ConversionError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s value %q: %v", e.Key, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
{{if .ParameterStore}}
// ErrParameterNotFound is returned by a ParameterStore for unknown names.
var ErrParameterNotFound = errors.New("parameter not found")

// ParameterStore fetches parameters by name.
type ParameterStore interface {
	Fetch(ctx context.Context, name string) (string, error)
}
{{end}}
{{- if .CommandLine}}
// CommandLine is a parsed command line.
type CommandLine interface {
	// Positional returns the argument at index i.
	Positional(i int) (string, bool)
	// Rest returns the arguments from index i on.
	Rest(i int) []string
	// Flag returns "true" when one of on was given last, "false" when one
	// of off was, and false when neither was given.
	Flag(on, off []string) (string, bool)
	// Option returns the last value of a named option.
	Option(name string) (string, bool)
	// Options returns every value of a named option.
	Options(name string) []string
}
{{end}}`))
