package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective_Named(t *testing.T) {
	spec, err := ParseDirective(`env name=GREETING default="hello world" optional`)
	require.NoError(t, err)

	assert.True(t, spec.Optional)
	assert.Empty(t, spec.Param)
	assert.Equal(t, Named{From: SourceEnvironment, Name: "GREETING", Default: str("hello world")}, spec.Qualifier)
}

func TestParseDirective_ParamTarget(t *testing.T) {
	spec, err := ParseDirective("sysprop param=home name=user.home")
	require.NoError(t, err)

	assert.Equal(t, "home", spec.Param)
	assert.Equal(t, Named{From: SourceSystemProperty, Name: "user.home"}, spec.Qualifier)
}

func TestParseDirective_TemplateName(t *testing.T) {
	spec, err := ParseDirective("param name=/app/${environment.STAGE}/db-url")
	require.NoError(t, err)

	q, ok := spec.Qualifier.(Named)
	require.True(t, ok)
	assert.Equal(t, "/app/${environment.STAGE}/db-url", q.Name)
}

func TestParseTag_CommandLine(t *testing.T) {
	tests := []struct {
		tag  string
		want Qualifier
	}{
		{"cli,position=0", Positional{Position: 0}},
		{"cli,position=2,varargs", Positional{Position: 2, Varargs: true}},
		{"cli,name=output,default=out.txt", Named{From: SourceCommandLine, Name: "output", Default: str("out.txt")}},
		{"cli,short=v,long=verbose,neglong=quiet,default=true", Flag{
			Short: str("v"), Long: str("verbose"), NegativeLong: str("quiet"), Default: str("true"),
		}},
		{"cli,long=color,default=none", Flag{Long: str("color")}},
		{"cli", Flag{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			spec, err := ParseTag(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Qualifier)
		})
	}
}

func TestParseTag_Errors(t *testing.T) {
	tests := []string{
		"",
		"vault,name=x",
		"env",
		"env,name=A,position=1",
		"cli,position=-1",
		"cli,position=abc",
		"cli,position=1,long=x",
		"cli,long=x,varargs",
		"env,name=A,name=B",
		"env,name=A,colour=red",
		"env,name",
		`env,name="unterminated`,
		"env,name=A,optional=yes",
	}

	for _, tag := range tests {
		t.Run(tag, func(t *testing.T) {
			_, err := ParseTag(tag)
			assert.Error(t, err)
		})
	}
}

func TestTokenize_Quotes(t *testing.T) {
	tokens, err := tokenize(`env name=A default="a, \"b\"" optional`, ' ')
	require.NoError(t, err)
	assert.Equal(t, []string{"env", "name=A", `default="a, \"b\""`, "optional"}, tokens)

	tokens, err = tokenize(`env,name=A,default="x,y"`, ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"env", "name=A", `default="x,y"`}, tokens)
}
