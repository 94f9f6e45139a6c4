package plan

import (
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"config-binder/internal/binding"
)

// Document is the serialized form of a BindingPlan for external emitters.
type Document struct {
	Version         string              `yaml:"version" msgpack:"version"`
	Root            string              `yaml:"root" msgpack:"root"`
	Binder          string              `yaml:"binder" msgpack:"binder"`
	Definitions     []DefinitionDoc     `yaml:"definitions" msgpack:"definitions"`
	Representations []RepresentationDoc `yaml:"representations" msgpack:"representations"`
}

// KeyDoc is a serialized binding key. Unset forms are omitted.
type KeyDoc struct {
	Source        string  `yaml:"source" msgpack:"source"`
	Kind          string  `yaml:"kind" msgpack:"kind"`
	Name          string  `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Position      *uint32 `yaml:"position,omitempty" msgpack:"position,omitempty"`
	Short         string  `yaml:"short,omitempty" msgpack:"short,omitempty"`
	Long          string  `yaml:"long,omitempty" msgpack:"long,omitempty"`
	NegativeShort string  `yaml:"negshort,omitempty" msgpack:"negshort,omitempty"`
	NegativeLong  string  `yaml:"neglong,omitempty" msgpack:"neglong,omitempty"`
}

// DefinitionDoc is a serialized Definition.
type DefinitionDoc struct {
	Key      KeyDoc   `yaml:"key" msgpack:"key"`
	Nullable bool     `yaml:"nullable" msgpack:"nullable"`
	Default  *string  `yaml:"default,omitempty" msgpack:"default,omitempty"`
	Varargs  bool     `yaml:"varargs,omitempty" msgpack:"varargs,omitempty"`
	Types    []string `yaml:"types" msgpack:"types"`
	Sites    []string `yaml:"sites,omitempty" msgpack:"sites,omitempty"`
}

// RepresentationDoc is a serialized Representation with its conversion.
type RepresentationDoc struct {
	Key         string  `yaml:"key" msgpack:"key"`
	Type        string  `yaml:"type" msgpack:"type"`
	Nullable    bool    `yaml:"nullable" msgpack:"nullable"`
	Default     *string `yaml:"default,omitempty" msgpack:"default,omitempty"`
	Strategy    string  `yaml:"strategy" msgpack:"strategy"`
	Form        string  `yaml:"form" msgpack:"form"`
	Conversion  string  `yaml:"conversion" msgpack:"conversion"`
	Explanation string  `yaml:"explanation,omitempty" msgpack:"explanation,omitempty"`
}

// documentVersion is bumped when Document changes incompatibly.
const documentVersion = "1"

// Export converts a plan into its serialized form.
func Export(p *BindingPlan) *Document {
	doc := &Document{
		Version:         documentVersion,
		Root:            p.root.String(),
		Binder:          p.binder,
		Definitions:     []DefinitionDoc{},
		Representations: []RepresentationDoc{},
	}

	for _, d := range p.definitions {
		dd := DefinitionDoc{
			Key:      exportKey(d.Key),
			Nullable: d.Nullable,
			Default:  d.Default,
			Varargs:  d.Varargs,
			Types:    make([]string, 0, len(d.RequestedTypes)),
		}

		for _, t := range d.RequestedTypes {
			dd.Types = append(dd.Types, t.String())
		}

		for _, loc := range d.Sites {
			if s := loc.String(); s != "" {
				dd.Sites = append(dd.Sites, s)
			}
		}

		doc.Definitions = append(doc.Definitions, dd)
	}

	for _, r := range p.representations {
		expr := p.conversions[r.Key]
		doc.Representations = append(doc.Representations, RepresentationDoc{
			Key:         r.Key.Key.String(),
			Type:        r.Type.String(),
			Nullable:    r.Nullable,
			Default:     r.Default,
			Strategy:    expr.Strategy.String(),
			Form:        expr.Form.String(),
			Conversion:  expr.String(),
			Explanation: expr.Explanation,
		})
	}

	return doc
}

func exportKey(k binding.Key) KeyDoc {
	kd := KeyDoc{
		Source:        string(k.Source),
		Kind:          k.Kind.String(),
		Name:          k.Name,
		Short:         k.Short,
		Long:          k.Long,
		NegativeShort: k.NegativeShort,
		NegativeLong:  k.NegativeLong,
	}

	if k.Kind == binding.KindPositional {
		pos := k.Position
		kd.Position = &pos
	}

	return kd
}

// ExportYAML serializes the plan as YAML.
func ExportYAML(p *BindingPlan) ([]byte, error) {
	return yaml.Marshal(Export(p))
}

// ExportMsgpack serializes the plan as msgpack.
func ExportMsgpack(p *BindingPlan) ([]byte, error) {
	return msgpack.Marshal(Export(p))
}

// ImportMsgpack reads a document written by ExportMsgpack.
func ImportMsgpack(data []byte) (*Document, error) {
	var doc Document
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported plan version %q", doc.Version)
	}

	return &doc, nil
}

// FormatSummary formats a plan document as human-readable text.
func FormatSummary(doc *Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== %s (%s) ===\n", doc.Root, doc.Binder)
	fmt.Fprintf(&sb, "Definitions: %d, Representations: %d\n", len(doc.Definitions), len(doc.Representations))

	for _, r := range doc.Representations {
		marker := "required"
		if r.Nullable {
			marker = "optional"
		}

		line := fmt.Sprintf("  %s as %s [%s] via %s", r.Key, r.Type, marker, r.Conversion)
		if r.Default != nil {
			line += fmt.Sprintf(" (default %q)", *r.Default)
		}

		sb.WriteString(line + "\n")
	}

	return sb.String()
}
