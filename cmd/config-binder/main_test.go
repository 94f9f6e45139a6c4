package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-binder/internal/analyze"
	"config-binder/internal/binder"
	"config-binder/internal/binding"
	"config-binder/internal/config"
	"config-binder/internal/diagnostic"
	"config-binder/internal/discover"
	"config-binder/internal/plan"
	"config-binder/internal/subst"
)

func TestNewPrinter_Modes(t *testing.T) {
	for _, mode := range []string{"auto", "on", "off"} {
		_, err := newPrinter(&bytes.Buffer{}, mode, false)
		assert.NoError(t, err, mode)
	}

	_, err := newPrinter(&bytes.Buffer{}, "sometimes", false)
	assert.ErrorContains(t, err, `unknown color mode "sometimes"`)
}

func TestPrinter_Diagnostics(t *testing.T) {
	var buf bytes.Buffer

	p, err := newPrinter(&buf, "off", true)
	require.NoError(t, err)

	var diags diagnostic.Diagnostics
	diags.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        diagnostic.CodeTemplateUnresolved,
		Message:     "unresolved reference env.STAGEE",
		Key:         "param:/${env.STAGEE}/db",
		Location:    &diagnostic.Location{File: "config.go", Line: 12, Column: 2, Symbol: "app.Config.DB"},
		Suggestions: []string{"STAGE"},
	})
	diags.AddWarning(diagnostic.CodeConflictingDefault, "conflicting defaults", "env:PORT", nil)

	p.diagnostics("example.com/app.Config (param)", diags)

	assert.Equal(t, `example.com/app.Config (param)
error[template_unresolved] param:/${env.STAGEE}/db: unresolved reference env.STAGEE
  --> config.go:12:2 (app.Config.DB)
  = did you mean: STAGE
warning[conflicting_default] env:PORT: conflicting defaults
`, buf.String())

	buf.Reset()
	p.status(true, "%s", "bindings/config_env.go")
	p.status(false, "%s", "example.com/app.Args (cli)")
	assert.Equal(t, "ok   bindings/config_env.go\nFAIL example.com/app.Args (cli)\n", buf.String())
}

func TestBuildNamespaces(t *testing.T) {
	t.Setenv("STAGE", "prod")

	cfg := &config.File{
		Properties: map[string]string{"region": "eu", "zone": "a"},
		Namespaces: map[string]map[string]string{"team": {"name": "core"}},
	}

	ns, err := buildNamespaces(cfg, []string{"zone=b"})
	require.NoError(t, err)

	assert.Equal(t, "prod", ns[binder.NamespaceEnv]["STAGE"])
	assert.Equal(t, "eu", ns[binder.NamespaceSystemProperties]["region"])
	assert.Equal(t, "b", ns[binder.NamespaceSys]["zone"])
	assert.Equal(t, "core", ns["team"]["name"])
	assert.Equal(t, "a", cfg.Properties["zone"], "config properties are not modified")

	_, err = buildNamespaces(cfg, []string{"novalue"})
	assert.Error(t, err)
}

func TestWithSuggestions(t *testing.T) {
	ns := subst.Namespaces{binder.NamespaceEnv: {"STAGE": "prod", "PATH": "/bin"}}

	_, err := subst.Evaluate("${env.STAGEE}", ns, "")
	require.Error(t, err)

	err = withSuggestions(err, ns)
	assert.ErrorContains(t, err, "did you mean STAGE?")

	var unresolved *subst.UnresolvedReferenceError
	assert.ErrorAs(t, err, &unresolved)
}

func TestEncodePlan(t *testing.T) {
	root := analyze.TypeID{PkgPath: "example.com/app", Name: "Config"}

	g := discover.NewGraph()
	g.AddComponent(&discover.Component{ID: root, Accessors: []discover.Member{{
		Name: "Port", Type: analyze.Basic("int"),
		Qualifier: binding.Named{From: binding.SourceEnvironment, Name: "PORT"},
	}}})

	p, diags := plan.NewBuilder(g, binder.Environment).Build(root)
	require.NotNil(t, p, diags.Error())

	text, ext, err := encodePlan(p, "text")
	require.NoError(t, err)
	assert.Equal(t, "txt", ext)
	assert.Contains(t, string(text), "env:PORT as int [required] via strconv.ParseInt")

	data, ext, err := encodePlan(p, "msgpack")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", ext)

	doc, err := plan.ImportMsgpack(data)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app.Config", doc.Root)

	_, _, err = encodePlan(p, "json")
	assert.ErrorContains(t, err, `unknown format "json"`)
}
