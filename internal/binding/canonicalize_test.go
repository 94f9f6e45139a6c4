package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-binder/internal/analyze"
	"config-binder/internal/diagnostic"
)

func str(s string) *string { return &s }

func TestCanonicalize_NamedEquality(t *testing.T) {
	a, err := Canonicalize(Named{From: SourceEnvironment, Name: "FOO"})
	require.NoError(t, err)

	b, err := Canonicalize(Named{From: SourceEnvironment, Name: "FOO", Default: str("x")})
	require.NoError(t, err)

	c, err := Canonicalize(Named{From: SourceEnvironment, Name: "foo"})
	require.NoError(t, err)

	d, err := Canonicalize(Named{From: SourceSystemProperty, Name: "FOO"})
	require.NoError(t, err)

	assert.Equal(t, a, b, "defaults are not part of the key")
	assert.NotEqual(t, a, c, "names are case-sensitive")
	assert.NotEqual(t, a, d, "sources are part of the key")
}

func TestCanonicalize_TypeNeverAffectsKey(t *testing.T) {
	key, err := Canonicalize(Named{From: SourceEnvironment, Name: "FOO"})
	require.NoError(t, err)

	asString := NewRepresentationKey(key, analyze.String(), nil)
	asInt := NewRepresentationKey(key, analyze.Basic("int"), nil)

	assert.Equal(t, asString.Key, asInt.Key)
	assert.NotEqual(t, asString, asInt)
}

func TestCanonicalize_FlagEquality(t *testing.T) {
	a, err := Canonicalize(Flag{Short: str("v"), Long: str("verbose")})
	require.NoError(t, err)

	b, err := Canonicalize(Flag{Short: str("v"), Long: str("verbose"), Default: str("true")})
	require.NoError(t, err)

	c, err := Canonicalize(Flag{Short: str("v")})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "cli:-v|--verbose", a.String())
}

func TestCanonicalize_Positional(t *testing.T) {
	a, err := Canonicalize(Positional{Position: 2})
	require.NoError(t, err)

	b, err := Canonicalize(&Positional{Position: 2, Varargs: true})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "cli:#2", a.String())
}

func TestCanonicalize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		q        Qualifier
		accepted []Kind
		want     error
		code     diagnostic.Code
	}{
		{"nil qualifier", nil, nil, ErrMissingQualifier, diagnostic.CodeMissingQualifier},
		{"kind not accepted", Positional{}, []Kind{KindNamed}, ErrMissingQualifier, diagnostic.CodeMissingQualifier},
		{"short too long", Flag{Short: str("vv")}, nil, ErrInvalidShortName, diagnostic.CodeInvalidShortName},
		{"short punctuation", Flag{NegativeShort: str("-")}, nil, ErrInvalidShortName, diagnostic.CodeInvalidShortName},
		{"long empty", Flag{Long: str("")}, nil, ErrInvalidLongName, diagnostic.CodeInvalidLongName},
		{"long charset", Flag{Long: str("dry run")}, nil, ErrInvalidLongName, diagnostic.CodeInvalidLongName},
		{"named option charset", Named{From: SourceCommandLine, Name: "out.file"}, nil, ErrInvalidLongName, diagnostic.CodeInvalidLongName},
		{"no flag forms", Flag{Default: str("true")}, nil, ErrEmptyDisjunction, diagnostic.CodeEmptyDisjunction},
		{"empty name", Named{From: SourceEnvironment}, nil, ErrEmptyDisjunction, diagnostic.CodeEmptyDisjunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Canonicalize(tt.q, tt.accepted...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var keyErr *KeyError
			require.True(t, errors.As(err, &keyErr))
			assert.Equal(t, tt.code, keyErr.Code())
		})
	}
}

func TestCanonicalize_EnvNamesAllowAnyCharset(t *testing.T) {
	key, err := Canonicalize(Named{From: SourceSystemProperty, Name: "user.home"})
	require.NoError(t, err)
	assert.Equal(t, "sysprop:user.home", key.String())
}

func TestKey_Compare(t *testing.T) {
	env := Key{Source: SourceEnvironment, Kind: KindNamed, Name: "A"}
	envB := Key{Source: SourceEnvironment, Kind: KindNamed, Name: "B"}
	pos0 := Key{Source: SourceCommandLine, Kind: KindPositional, Position: 0}
	pos1 := Key{Source: SourceCommandLine, Kind: KindPositional, Position: 1}

	assert.Negative(t, env.Compare(envB))
	assert.Negative(t, pos0.Compare(pos1))
	assert.Positive(t, env.Compare(pos0), "sources order before names")
	assert.Zero(t, env.Compare(env))
}

func TestKey_Aliases(t *testing.T) {
	key := Key{Source: SourceCommandLine, Kind: KindFlag, Short: "v", Long: "verbose", NegativeLong: "quiet"}
	assert.Equal(t, []string{"-v", "--verbose", "--quiet"}, key.Aliases())

	named := Key{Source: SourceCommandLine, Kind: KindNamed, Name: "output"}
	assert.Equal(t, []string{"--output"}, named.Aliases())
}
