package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-binder/internal/binding"
	"config-binder/internal/common"
	"config-binder/internal/diagnostic"
)

func positional(pos uint32, nullable bool, varargs bool) Definition {
	return Definition{
		Key:      binding.Key{Source: binding.SourceCommandLine, Kind: binding.KindPositional, Position: pos},
		Nullable: nullable,
		Varargs:  varargs,
	}
}

func flagDef(short, long string) Definition {
	return Definition{Key: binding.Key{Source: binding.SourceCommandLine, Kind: binding.KindFlag, Short: short, Long: long}}
}

func TestValidatePositions_Contiguous(t *testing.T) {
	diags := ValidatePositions([]Definition{
		positional(0, false, false),
		positional(1, false, false),
		positional(2, true, true),
	})
	assert.Empty(t, diags.Items)
}

func TestValidatePositions_Gap(t *testing.T) {
	diags := ValidatePositions([]Definition{
		positional(3, false, false),
		positional(0, false, false),
		positional(1, false, false),
	})

	missing := diags.WithCode(diagnostic.CodeMissingPositions)
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0].Message, "#2")
	assert.NotContains(t, missing[0].Message, "#1")
	assert.Len(t, diags.Items, 1)
}

func TestValidatePositions_GapRanges(t *testing.T) {
	diags := ValidatePositions([]Definition{positional(2, false, false), positional(6, false, false)})

	missing := diags.WithCode(diagnostic.CodeMissingPositions)
	require.Len(t, missing, 1)
	assert.Equal(t, "positional arguments missing at #0-#1, #3-#5", missing[0].Message)
}

func TestValidatePositions_AfterVarargs(t *testing.T) {
	diags := ValidatePositions([]Definition{
		positional(0, false, true),
		positional(1, false, false),
	})

	extra := diags.WithCode(diagnostic.CodeExtraPositions)
	require.Len(t, extra, 1)
	assert.Contains(t, extra[0].Message, "#1")
}

func TestValidatePositions_MultipleVarargs(t *testing.T) {
	diags := ValidatePositions([]Definition{
		positional(0, false, true),
		positional(1, false, true),
	})

	extra := diags.WithCode(diagnostic.CodeExtraPositions)
	require.Len(t, extra, 1)
	assert.Contains(t, extra[0].Message, "more than one varargs")
}

func TestValidatePositions_RequiredAfterOptional(t *testing.T) {
	withDefault := positional(0, false, false)
	withDefault.Default = common.Ptr("x")

	diags := ValidatePositions([]Definition{
		withDefault,
		positional(1, false, false),
		positional(2, true, false),
	})

	errs := diags.WithCode(diagnostic.CodeRequiredAfterOptional)
	require.Len(t, errs, 1)
	assert.Equal(t, "cli:#1", errs[0].Key)
}

func TestValidatePositions_IgnoresOtherKinds(t *testing.T) {
	diags := ValidatePositions([]Definition{flagDef("v", "")})
	assert.Empty(t, diags.Items)
}

func TestValidateAliases(t *testing.T) {
	diags := ValidateAliases([]Definition{
		flagDef("v", "verbose"),
		flagDef("q", "quiet"),
	})
	assert.Empty(t, diags.Items)

	diags = ValidateAliases([]Definition{
		flagDef("v", "verbose"),
		flagDef("v", "version"),
	})

	conflicts := diags.WithCode(diagnostic.CodeConflictingAlias)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "-v is claimed by cli:-v|--verbose and cli:-v|--version", conflicts[0].Message)
}

func TestValidateAliases_NamedAgainstFlag(t *testing.T) {
	named := Definition{Key: binding.Key{Source: binding.SourceCommandLine, Kind: binding.KindNamed, Name: "output"}}

	diags := ValidateAliases([]Definition{named, flagDef("o", "output")})
	require.Len(t, diags.WithCode(diagnostic.CodeConflictingAlias), 1)
}

func TestValidateAliases_SameKeyTwice(t *testing.T) {
	def := Definition{Key: binding.Key{
		Source: binding.SourceCommandLine, Kind: binding.KindFlag, Long: "color", NegativeLong: "color",
	}}

	diags := ValidateAliases([]Definition{def})

	conflicts := diags.WithCode(diagnostic.CodeConflictingAlias)
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0].Message, "used more than once")
}
