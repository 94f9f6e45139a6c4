package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"config-binder/internal/analyze"
	"config-binder/internal/binding"
)

func TestExportedName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HOST", "Host"},
		{"DATABASE_URL", "DatabaseUrl"},
		{"/prod/upstream", "ProdUpstream"},
		{"log.level", "LogLevel"},
		{"9", "X9"},
		{"--", "Value"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, exportedName(tt.in))
		})
	}
}

func TestSnakeName(t *testing.T) {
	assert.Equal(t, "config", snakeName("Config"))
	assert.Equal(t, "server_config", snakeName("ServerConfig"))
	assert.Equal(t, "http_config", snakeName("HTTPConfig"))
	assert.Equal(t, "args", snakeName("Args"))
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "Arg3", keyName(binding.Key{Kind: binding.KindPositional, Position: 3}))
	assert.Equal(t, "Verbose", keyName(binding.Key{Kind: binding.KindFlag, Short: "v", Long: "verbose"}))
	assert.Equal(t, "V", keyName(binding.Key{Kind: binding.KindFlag, Short: "v"}))
	assert.Equal(t, "Quiet", keyName(binding.Key{Kind: binding.KindFlag, NegativeLong: "quiet"}))
	assert.Equal(t, "Port", keyName(binding.Key{Kind: binding.KindNamed, Name: "PORT"}))
}

func TestAccessorNames(t *testing.T) {
	port := binding.Key{Source: binding.SourceEnvironment, Name: "PORT"}
	check := binding.Key{Source: binding.SourceEnvironment, Name: "CHECK"}

	keys := []binding.RepresentationKey{
		{Key: check, Type: "string"},
		{Key: port, Type: "int"},
		{Key: port, Type: "string"},
		{Key: port, Type: "string", Default: "80", HasDefault: true},
	}
	types := []*analyze.TypeInfo{analyze.String(), analyze.Basic("int"), analyze.String(), analyze.String()}

	assert.Equal(t, []string{"Check2", "PortAsInt", "PortAsString", "PortAsString2"}, accessorNames(keys, types))

	props := binding.Key{Source: binding.SourceSystemProperty, Name: "properties"}
	assert.Equal(t, []string{"Properties2"},
		accessorNames([]binding.RepresentationKey{{Key: props, Type: "string"}}, []*analyze.TypeInfo{analyze.String()}, "Properties"))
}

func TestImportSet(t *testing.T) {
	s := newImportSet("example.com/out")

	assert.Equal(t, "", s.add("example.com/out"))
	assert.Equal(t, "", s.add(""))
	assert.Equal(t, "app", s.add("example.com/app"))
	assert.Equal(t, "app2", s.add("example.org/app"))
	assert.Equal(t, "errors2", s.add("example.com/errors"))
	assert.Equal(t, "yamlv3", s.add("gopkg.in/yaml.v3"))
	assert.Equal(t, "ok2", s.add("example.com/ok"))
	assert.Equal(t, "errors", s.add("errors"))
	assert.Equal(t, "app", s.add("example.com/app"))

	assert.Equal(t, []importSpec{
		{Path: "errors"},
		{Path: "example.com/app"},
		{Path: "example.com/errors", Alias: "errors2"},
		{Path: "example.com/ok", Alias: "ok2"},
		{Path: "example.org/app", Alias: "app2"},
		{Path: "gopkg.in/yaml.v3", Alias: "yamlv3"},
	}, s.specs())

	assert.Equal(t, "[]*app.Level", s.typeName(analyze.SliceOf(analyze.PointerTo(analyze.Named("example.com/app", "Level")))))
}
