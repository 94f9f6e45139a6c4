package config

import (
	"strings"

	"config-binder/internal/analyze"
)

// CurrentVersion is the configuration format version.
const CurrentVersion = "1"

// File is the configuration file.
type File struct {
	Version string `yaml:"version" toml:"version" validate:"omitempty,eq=1"`
	// Dir is the directory packages are loaded from, relative to the file.
	Dir      string   `yaml:"dir,omitempty" toml:"dir" validate:"omitempty"`
	Packages []string `yaml:"packages" toml:"packages" validate:"required,min=1,dive,required"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output" toml:"output" validate:"required"`
	// Package is the package name of the generated files.
	Package    string                       `yaml:"package" toml:"package" validate:"required,goident"`
	Components []Component                  `yaml:"components" toml:"components" validate:"required,min=1,dive"`
	Properties map[string]string            `yaml:"properties,omitempty" toml:"properties"`
	Namespaces map[string]map[string]string `yaml:"namespaces,omitempty" toml:"namespaces" validate:"dive,keys,required,excludesall=.,endkeys"`
}

// Component selects a root component and the binder it is generated for.
type Component struct {
	// Root is the fully qualified type, e.g. "example.com/app.Config".
	Root   string `yaml:"root" toml:"root" validate:"required,qualifiedtype"`
	Binder string `yaml:"binder" toml:"binder" validate:"required,oneof=env sysprop param cli"`
	// File overrides the generated file name.
	File string `yaml:"file,omitempty" toml:"file" validate:"omitempty,endswith=.go"`
}

// RootID returns the component root as a TypeID.
func (c Component) RootID() analyze.TypeID {
	i := strings.LastIndex(c.Root, ".")
	if i <= 0 {
		return analyze.TypeID{Name: c.Root}
	}

	return analyze.TypeID{PkgPath: c.Root[:i], Name: c.Root[i+1:]}
}
