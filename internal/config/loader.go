package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultNames are the file names looked up when no path is given.
var DefaultNames = []string{"config-binder.yaml", "config-binder.yml", "config-binder.toml"}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
}

// Find returns the first default config file present in dir.
func Find(dir string) (string, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found in %s (looked for %s)", dir, strings.Join(DefaultNames, ", "))
}

// LoadFile loads, parses and validates a config file. A relative Dir or
// Output is resolved against the file's directory.
func LoadFile(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	if !filepath.IsAbs(f.Dir) {
		f.Dir = filepath.Join(base, f.Dir)
	}

	if !filepath.IsAbs(f.Output) {
		f.Output = filepath.Join(base, f.Output)
	}

	return f, nil
}

// Parse parses and validates config data.
func Parse(data []byte, format Format) (*File, error) {
	var f File

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config keys: %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	applyDefaults(&f)

	if err := Validate(&f); err != nil {
		return nil, err
	}

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to path as YAML.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// Example returns a starter configuration for pkgPath.
func Example(pkgPath, root string) *File {
	return &File{
		Version:  CurrentVersion,
		Packages: []string{pkgPath},
		Output:   "./bindings",
		Package:  "bindings",
		Components: []Component{
			{Root: pkgPath + "." + root, Binder: "env"},
		},
	}
}
