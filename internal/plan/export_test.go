package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"config-binder/internal/analyze"
	"config-binder/internal/binder"
	"config-binder/internal/binding"
	"config-binder/internal/common"
)

func samplePlan(t *testing.T) *BindingPlan {
	t.Helper()

	g := graphWith(
		accessor("Input", analyze.String(), binding.Positional{Position: 0}, false),
		accessor("Verbose", analyze.Basic("bool"), binding.Flag{Short: common.Ptr("v"), Long: common.Ptr("verbose"), Default: common.Ptr("false")}, false),
	)

	p, diags := NewBuilder(g, binder.CommandLine).Build(rootID)
	require.NotNil(t, p, diags.Error())

	return p
}

func TestExportYAML(t *testing.T) {
	data, err := ExportYAML(samplePlan(t))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "root: example.com/app.Config")
	assert.Contains(t, out, "binder: cli")
	assert.Contains(t, out, "position: 0")
	assert.Contains(t, out, "long: verbose")
	assert.Contains(t, out, "conversion: strconv.ParseBool")
	assert.Contains(t, out, `default: "false"`)
}

func TestExportMsgpackRoundTrip(t *testing.T) {
	p := samplePlan(t)

	data, err := ExportMsgpack(p)
	require.NoError(t, err)

	doc, err := ImportMsgpack(data)
	require.NoError(t, err)
	assert.Equal(t, Export(p), doc)

	require.Len(t, doc.Definitions, 2)
	require.NotNil(t, doc.Definitions[0].Key.Position)
	assert.Equal(t, uint32(0), *doc.Definitions[0].Key.Position)
}

func TestImportMsgpack_Errors(t *testing.T) {
	_, err := ImportMsgpack([]byte{0xc1})
	assert.Error(t, err)

	_, err = ImportMsgpack(mustMsgpack(t, &Document{Version: "99"}))
	assert.ErrorContains(t, err, "unsupported plan version")
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(Export(samplePlan(t)))

	assert.Contains(t, out, "=== example.com/app.Config (cli) ===")
	assert.Contains(t, out, "Definitions: 2, Representations: 2")
	assert.Contains(t, out, `cli:-v|--verbose as bool [required] via strconv.ParseBool (default "false")`)
}

func mustMsgpack(t *testing.T, v any) []byte {
	t.Helper()

	data, err := msgpack.Marshal(v)
	require.NoError(t, err)

	return data
}
