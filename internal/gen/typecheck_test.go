package gen

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"config-binder/internal/analyze"
	"config-binder/internal/binder"
	"config-binder/internal/binding"
	"config-binder/internal/discover"
	"config-binder/internal/plan"
	"config-binder/internal/scan"
	"config-binder/internal/subst"
)

// typeCheck writes files into a package inside this module, so generated
// code can import the example packages, and type-checks it.
func typeCheck(t *testing.T, files []GeneratedFile) {
	t.Helper()

	dir, err := os.MkdirTemp(".", "typecheck")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	require.NoError(t, WriteFiles(files, dir))

	pkgs, err := packages.Load(&packages.Config{Mode: scan.LoadMode, Dir: dir}, ".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	var errs []string
	for _, e := range pkgs[0].Errors {
		errs = append(errs, e.Error())
	}

	assert.Empty(t, errs)
}

func buildExamplePlans(t *testing.T, pkgPath string, binders ...binder.Binder) []Unit {
	t.Helper()

	res, err := scan.NewLoader("", nil).Load(pkgPath)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Error())
	require.NotEmpty(t, res.Components)

	ns, err := binder.Namespaces([]string{"STAGE=prod"}, nil, nil)
	require.NoError(t, err)

	units := make([]Unit, 0, len(binders))

	for _, b := range binders {
		p, diags := plan.NewBuilder(res.Graph, b,
			plan.WithEvaluator(subst.NewEvaluator(ns, b.DefaultNamespace)),
		).Build(res.Components[0])
		require.NotNil(t, p, diags.Error())
		require.False(t, diags.HasErrors(), diags.Error())

		units = append(units, Unit{Plan: p})
	}

	return units
}

func TestGenerate_ExamplesTypeCheck(t *testing.T) {
	units := buildExamplePlans(t, "config-binder/examples/server",
		binder.Environment, binder.ParameterStore, binder.SystemProperties)
	units = append(units, buildExamplePlans(t, "config-binder/examples/cli", binder.CommandLine)...)

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(units)
	require.NoError(t, err)
	require.Len(t, files, 5)

	typeCheck(t, files)
}

func TestGenerate_KeysNamedLikeProviderFields(t *testing.T) {
	str := analyze.String()

	props := buildPlan(t, binder.SystemProperties, discover.Member{Name: "Props", Type: str,
		Qualifier: binding.Named{From: binding.SourceSystemProperty, Name: "properties"}})
	store := buildPlan(t, binder.ParameterStore, discover.Member{Name: "Store", Type: str,
		Qualifier: binding.Named{From: binding.SourceParameterStore, Name: "store"}})
	args := buildPlan(t, binder.CommandLine, discover.Member{Name: "Args", Type: str, Nullable: true,
		Qualifier: binding.Named{From: binding.SourceCommandLine, Name: "args"}})

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate([]Unit{{Plan: props}, {Plan: store}, {Plan: args}})
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Contains(t, string(files[0].Content), "func (p *ConfigSyspropProvider) Properties2(ctx context.Context)")
	assert.Contains(t, string(files[1].Content), "func (p *ConfigParamProvider) Store2(ctx context.Context)")
	assert.Contains(t, string(files[2].Content), "func (p *ConfigCliProvider) Args2(ctx context.Context)")

	typeCheck(t, files)
}
