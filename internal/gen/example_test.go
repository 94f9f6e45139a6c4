package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-binder/internal/binder"
	"config-binder/internal/plan"
	"config-binder/internal/scan"
	"config-binder/internal/subst"
)

func TestGenerate_ServerExample(t *testing.T) {
	res, err := scan.NewLoader("", nil).Load("config-binder/examples/server")
	require.NoError(t, err)
	require.NotEmpty(t, res.Components)

	ns, err := binder.Namespaces([]string{"STAGE=prod"}, nil, nil)
	require.NoError(t, err)

	var units []Unit

	for _, b := range []binder.Binder{binder.Environment, binder.ParameterStore, binder.SystemProperties} {
		p, diags := plan.NewBuilder(res.Graph, b,
			plan.WithEvaluator(subst.NewEvaluator(ns, b.DefaultNamespace)),
		).Build(res.Components[0])
		require.NotNil(t, p, diags.Error())

		units = append(units, Unit{Plan: p})
	}

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(units)
	require.NoError(t, err)
	require.Len(t, files, 4)

	env := string(files[0].Content)
	assert.Equal(t, "config_env.go", files[0].Filename)
	assert.Contains(t, env, "type ConfigEnvProvider struct")
	assert.Contains(t, env, `"config-binder/examples/server"`)
	assert.Contains(t, env, "x1, err := time.ParseDuration(raw)")
	assert.Contains(t, env, "x1, err := server.ParseLevel(raw)")
	assert.Contains(t, env, `raw = "5s"`)

	param := string(files[1].Content)
	assert.Contains(t, param, `p.Store.Fetch(ctx, "/prod/upstream")`)
	assert.Contains(t, param, "x1, err := server.NewEndpoint(raw)")

	sysprop := string(files[2].Content)
	assert.Contains(t, sysprop, "server.Region(raw)")

	assert.Contains(t, string(files[3].Content), "type ParameterStore interface")
}
