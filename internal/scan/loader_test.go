package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-binder/internal/analyze"
	"config-binder/internal/binder"
	"config-binder/internal/binding"
	"config-binder/internal/convert"
	"config-binder/internal/diagnostic"
	"config-binder/internal/discover"
	"config-binder/internal/plan"
	"config-binder/internal/subst"
)

const serverPkg = "config-binder/examples/server"

func loadServer(t *testing.T) *Result {
	t.Helper()

	res, err := NewLoader("", nil).Load(serverPkg)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Error())

	return res
}

func id(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: serverPkg, Name: name}
}

func TestLoad_Component(t *testing.T) {
	res := loadServer(t)

	assert.Equal(t, []analyze.TypeID{id("Config")}, res.Components)
	assert.Equal(t, "server", res.Packages[serverPkg])
	require.Len(t, res.Dirs, 1)
	assert.Equal(t, "server", filepath.Base(res.Dirs[0]))

	comp, ok := res.Graph.Component(id("Config"))
	require.True(t, ok)
	assert.Equal(t, []analyze.TypeID{id("DatabaseModule")}, comp.Modules)
	require.Len(t, comp.Accessors, 5)

	host := comp.Accessors[0]
	assert.Equal(t, "Host", host.Name)
	assert.Equal(t, binding.Named{From: binding.SourceEnvironment, Name: "HOST", Default: strPtr("localhost")}, host.Qualifier)
	assert.Equal(t, "config.go", filepath.Base(host.Location.File))
	assert.Equal(t, "Config.Host", host.Location.Symbol)

	level := comp.Accessors[2]
	assert.True(t, level.Nullable)
	assert.Equal(t, id("Level"), level.Type.ID)

	server := comp.Accessors[4]
	assert.Nil(t, server.Qualifier)
	assert.Equal(t, analyze.TypeKindPointer, server.Type.Kind)
}

func TestLoad_ModulesAndInjectables(t *testing.T) {
	res := loadServer(t)

	db, ok := res.Graph.Module(id("DatabaseModule"))
	require.True(t, ok)
	assert.Equal(t, []analyze.TypeID{id("PoolModule")}, db.Includes)
	require.Len(t, db.Providers, 1)
	require.Len(t, db.Providers[0].Params, 2)
	assert.Equal(t, "url", db.Providers[0].Params[0].Name)
	assert.NotNil(t, db.Providers[0].Params[1].Qualifier)

	srv, ok := res.Graph.Injectable(id("Server"))
	require.True(t, ok, spew.Sdump(res.Graph.Injectables))
	assert.Equal(t, []analyze.TypeID{id("Base")}, srv.Supertypes)
	require.Len(t, srv.Constructor, 1)
	assert.Equal(t, "addr", srv.Constructor[0].Name)
	require.Len(t, srv.Methods, 1)
	assert.Equal(t, "SetSecret", srv.Methods[0].Name)

	var tagged []string
	for _, f := range srv.Fields {
		if f.Qualifier != nil {
			tagged = append(tagged, f.Name)
		}
	}

	assert.Equal(t, []string{"ReadTimeout", "Upstream"}, tagged)
}

func TestLoad_DiscoverAndBuild(t *testing.T) {
	res := loadServer(t)

	sites, diags := discover.NewDiscoverer(res.Graph).Discover(id("Config"))
	require.False(t, diags.HasErrors())
	assert.Len(t, sites, 12, spew.Sdump(sites))

	ev := subst.NewEvaluator(subst.Namespaces{
		binder.NamespaceEnv:         {"STAGE": "prod"},
		binder.NamespaceEnvironment: {"STAGE": "prod"},
	}, binder.NamespaceEnvironment)

	p, diags := plan.NewBuilder(res.Graph, binder.Environment, plan.WithEvaluator(ev)).Build(id("Config"))
	require.NotNil(t, p, diags.Error())
	assert.False(t, diags.HasErrors(), diags.Error())

	strategies := make(map[string]convert.Strategy)
	for _, r := range p.Representations() {
		expr, _ := p.Conversion(r.Key)
		strategies[r.Key.Key.Name] = expr.Strategy
	}

	assert.Equal(t, convert.StrategyStaticFactory, strategies["LOG_LEVEL"])
	assert.Equal(t, convert.StrategyStaticFactory, strategies["READ_TIMEOUT"])
	assert.Equal(t, convert.StrategyDirect, strategies["POOL_SIZE"])

	params, diags := plan.NewBuilder(res.Graph, binder.ParameterStore, plan.WithEvaluator(ev)).Build(id("Config"))
	require.NotNil(t, params, diags.Error())

	names := make(map[string]convert.Strategy)
	for _, r := range params.Representations() {
		expr, _ := params.Conversion(r.Key)
		names[r.Key.Key.Name] = expr.Strategy
	}

	assert.Equal(t, map[string]convert.Strategy{
		"/prod/upstream": convert.StrategyConstructor,
		"/shared/secret": convert.StrategyDirect,
	}, names)
}

func TestLoad_CommandLine(t *testing.T) {
	res, err := NewLoader("", nil).Load("config-binder/examples/cli")
	require.NoError(t, err)

	root := analyze.TypeID{PkgPath: "config-binder/examples/cli", Name: "Args"}

	p, diags := plan.NewBuilder(res.Graph, binder.CommandLine).Build(root)
	require.NotNil(t, p, diags.Error())
	assert.False(t, diags.HasErrors(), diags.Error())
	assert.Len(t, p.Definitions(), 5)
}

const malformedSource = `package broken

//binder:component
type Config interface {
	//binder:env name=PORT bogus=1
	Port() int

	//binder:env name=HOST
	//binder:env name=ADDR
	Host() string

	Server() *Server
}

//binder:inject
type Server struct {
	Timeout string ` + "`binder:\"env,nme=TIMEOUT\"`" + `
}

//binder:module
type Mod struct{}

//binder:env param=zeta name=Z
//binder:env param=alpha name=A
//binder:env param=v name=V
//binder:env param=v name=W
func (Mod) Provide(v string) int { return 0 }
`

func writeModule(t *testing.T, src string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/broken\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.go"), []byte(src), 0o644))

	return dir
}

func TestLoad_MalformedQualifiers(t *testing.T) {
	res, err := NewLoader(writeModule(t, malformedSource), nil).Load("./...")
	require.NoError(t, err)

	errs := res.Diagnostics.Errors()

	var msgs []string
	for _, d := range errs {
		assert.Equal(t, diagnostic.CodeInvalidQualifier, d.Code)
		msgs = append(msgs, d.Message)
	}

	require.Len(t, msgs, 6, strings.Join(msgs, "\n"))
	assert.Contains(t, msgs[0], `unknown attribute "bogus"`)
	assert.Contains(t, msgs[1], "accessor Host has more than one qualifier")
	assert.Contains(t, msgs[2], `unknown attribute "nme"`)
	assert.Contains(t, msgs[3], "parameter v has more than one qualifier")
	assert.Contains(t, msgs[4], `unknown parameter "alpha"`)
	assert.Contains(t, msgs[5], `unknown parameter "zeta"`)

	comp, ok := res.Graph.Component(analyze.TypeID{PkgPath: "example.com/broken", Name: "Config"})
	require.True(t, ok)
	require.Len(t, comp.Accessors, 3)
	assert.Nil(t, comp.Accessors[0].Qualifier)
	assert.Equal(t, binding.Named{From: binding.SourceEnvironment, Name: "HOST"}, comp.Accessors[1].Qualifier)
}

func strPtr(s string) *string { return &s }
