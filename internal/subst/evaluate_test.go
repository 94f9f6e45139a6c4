package subst

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_RoundTrip(t *testing.T) {
	got, err := Evaluate("${ns.X}", Namespaces{"ns": {"X": "v"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	got, err = Evaluate("${ns.X:-d}", Namespaces{"ns": {}}, "")
	require.NoError(t, err)
	assert.Equal(t, "d", got)

	_, err = Evaluate("${ns.X}", Namespaces{"ns": {}}, "")
	var unresolved *UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "ns", unresolved.Namespace)
	assert.Equal(t, "X", unresolved.Name)
}

func TestEvaluate_EmbeddedReference(t *testing.T) {
	got, err := Evaluate("FOO_${env.QUUX}", Namespaces{"env": {"QUUX": "BAR"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "FOO_BAR", got)

	_, err = Evaluate("FOO_${env.QUUX}", Namespaces{"env": {}}, "")
	var unresolved *UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, &UnresolvedReferenceError{Namespace: "env", Name: "QUUX"}, unresolved)
}

func TestEvaluate_DefaultNamespace(t *testing.T) {
	ns := Namespaces{"environment": {"STAGE": "prod"}}

	got, err := Evaluate("/app/${STAGE}/url", ns, "environment")
	require.NoError(t, err)
	assert.Equal(t, "/app/prod/url", got)

	_, err = Evaluate("${STAGE}", ns, "")
	var syntax *SyntaxError
	require.True(t, errors.As(err, &syntax), "no default namespace")
}

func TestEvaluate_DottedNamesKeepRemainder(t *testing.T) {
	ns := Namespaces{"system-properties": {"user.home": "/home/me"}}

	got, err := Evaluate("${system-properties.user.home}/.cfg", ns, "")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/.cfg", got)
}

func TestEvaluate_NestedFallback(t *testing.T) {
	ns := Namespaces{
		"environment":       {"REGION": "eu"},
		"system-properties": {},
	}

	got, err := Evaluate("${system-properties.region:-${environment.REGION}}-db", ns, "")
	require.NoError(t, err)
	assert.Equal(t, "eu-db", got)

	got, err = Evaluate("${system-properties.region:-${environment.ZONE:-zone-${environment.REGION}}}", ns, "")
	require.NoError(t, err)
	assert.Equal(t, "zone-eu", got)

	got, err = Evaluate("${environment.REGION:-${environment.MISSING}}", ns, "")
	require.NoError(t, err, "fallbacks are only evaluated when the lookup misses")
	assert.Equal(t, "eu", got)
}

func TestEvaluate_FallbackMayBeEmpty(t *testing.T) {
	got, err := Evaluate("a${env.X:-}b", Namespaces{"env": {}}, "")
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}

func TestEvaluate_LiteralDollar(t *testing.T) {
	got, err := Evaluate("cost$5 $", Namespaces{}, "")
	require.NoError(t, err)
	assert.Equal(t, "cost$5 $", got)
}

func TestEvaluate_SyntaxErrors(t *testing.T) {
	ns := Namespaces{"env": {"A": "1"}}

	tests := []struct {
		expr   string
		offset int
	}{
		{"${env.A", 0},
		{"x${env.A:-fallback", 1},
		{"${}", 0},
		{"${ }", 0},
		{"${vault.A}", 0},
		{"${env.}", 0},
		{"${env.${env.A}}", 6},
		{"${env.A:-${nope.B}}", 9},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Evaluate(tt.expr, ns, "")

			var syntax *SyntaxError
			require.True(t, errors.As(err, &syntax), "got %v", err)
			assert.Equal(t, tt.offset, syntax.Offset)
		})
	}
}

func TestEvaluator_References(t *testing.T) {
	ev := NewEvaluator(Namespaces{"env": {}, "sys": {}}, "env")

	tmpl, err := Parse("${A}-${sys.b:-${env.C}}")
	require.NoError(t, err)

	refs, err := ev.References(tmpl)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"env", "A"}, {"sys", "b"}, {"env", "C"}}, refs)
}

func TestEvaluate_NoCachingBetweenCalls(t *testing.T) {
	ns := Namespaces{"env": {"A": "1"}}
	ev := NewEvaluator(ns, "")

	first, err := ev.Evaluate("${env.A}")
	require.NoError(t, err)

	ns["env"]["A"] = "2"

	second, err := ev.Evaluate("${env.A}")
	require.NoError(t, err)

	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)
}

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("a${b}"))
	assert.False(t, IsTemplate("$b"))
}

func TestEvaluate_LoneDollarIsLiteral(t *testing.T) {
	got, err := Evaluate("price$5/$${env.X}", Namespaces{"env": {"X": "v"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "price$5/$v", got)

	assert.False(t, IsTemplate("cost $5"))
}
