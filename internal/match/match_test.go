package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"ABC", "abc", 3},
		{"héllo", "hello", 1},
		{"DATABASE_URL", "DATABASE_URI", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 0.001)
	assert.InDelta(t, 1.0-3.0/7.0, Similarity("kitten", "sitting"), 0.001)
}

func TestNormalizeName(t *testing.T) {
	for _, in := range []string{"DATABASE_URL", "database.url", "database-url", "DatabaseUrl", "database url"} {
		assert.Equal(t, "databaseurl", NormalizeName(in), in)
	}
}

func TestTokenizeName(t *testing.T) {
	assert.Equal(t, []string{"db", "url", "max", "conns"}, TokenizeName("dbURL_max-conns"))
	assert.Equal(t, []string{"url", "path"}, TokenizeName("URLPath"))
	assert.Equal(t, []string{"user", "home"}, TokenizeName("user.home"))
	assert.Nil(t, TokenizeName(""))
}

func TestSuggest(t *testing.T) {
	candidates := []string{"DATABASE_URL", "DATABASE_USER", "HOME", "database.url", "PATH"}

	got := Suggest("DATABSE_URL", candidates)
	assert.Equal(t, []string{"DATABASE_URL", "database.url", "DATABASE_USER"}, got)

	assert.Empty(t, Suggest("XYZZY", candidates))
	assert.Empty(t, Suggest("HOME", []string{"HOME"}), "exact name is not its own suggestion")
}
