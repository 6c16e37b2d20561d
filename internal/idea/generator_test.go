// ABOUTME: Tests for the deterministic idea generator against golden reports.
// ABOUTME: Covers determinism, case sensitivity, table coverage, and the empty concept.

package idea

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name+".golden"))
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_Golden(t *testing.T) {
	tests := []struct {
		concept string
		golden  string
	}{
		{"fitness", "fitness"},
		{"", "empty"},
		{"Coffee", "Coffee_title"},
		{"coffee", "coffee_lower"},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			assert.Equal(t, readGolden(t, tt.golden), Generate(tt.concept))
		})
	}
}

func TestGenerate_FitnessSelection(t *testing.T) {
	sel := Select("fitness")
	assert.Equal(t, Selection{Name: 6, Problem: 0, Solution: 0, Tech: 0, Revenue: 0}, sel)

	i := Build("fitness")
	assert.Equal(t, "FitnessFlow", i.Name)
	assert.Equal(t, "People struggle to find quality fitness products and services", i.Problem)
	assert.Equal(t, "React/Next.js, Python/FastAPI, PostgreSQL, Redis, AI/ML, Computer Vision, IoT sensors", i.TechStack)

	report := i.Render()
	assert.True(t, strings.HasPrefix(report, "🚀 **STARTUP IDEA: FITNESSFLOW**\n"))
	assert.True(t, strings.HasSuffix(report, "Ready to disrupt the fitness industry! 🎉"))
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, c := range []string{"fitness", "coffee", "  Coffee Shop ", "日本茶", ""} {
		assert.Equal(t, Generate(c), Generate(c), "concept %q", c)
	}
}

func TestGenerate_CaseSensitiveHash(t *testing.T) {
	upper := Build("Coffee")
	lower := Build("coffee")

	// Normalized forms agree, selections do not.
	assert.Equal(t, upper.Lower, lower.Lower)
	assert.Equal(t, upper.Title, lower.Title)
	assert.Equal(t, 2, upper.Selection.Problem)
	assert.Equal(t, 0, lower.Selection.Problem)
	assert.NotEqual(t, upper.Problem, lower.Problem)
	assert.NotEqual(t, Generate("Coffee"), Generate("coffee"))
}

func TestGenerate_EmptyConcept(t *testing.T) {
	i := Build("")
	assert.Equal(t, "Flow", i.Name)
	assert.Equal(t, "", i.Lower)
	assert.Equal(t, "", i.Title)

	report := Generate("")
	assert.True(t, strings.HasPrefix(report, "🚀 **STARTUP IDEA: FLOW**"))
	assert.Contains(t, report, "Revolutionizing  through AI and community")
}

func TestGenerate_WhitespaceTrimmedButHashedRaw(t *testing.T) {
	i := Build("  Coffee Shop ")
	assert.Equal(t, "coffee shop", i.Lower)
	assert.Equal(t, "Coffee Shop", i.Title)
	assert.Equal(t, Selection{Name: 5, Problem: 3, Solution: 3, Tech: 3, Revenue: 3}, i.Selection)
	assert.Equal(t, "Coffee ShopSync", i.Name)
}

func TestSelect_KnownIndexes(t *testing.T) {
	tests := []struct {
		concept string
		name    int
		rest    int
	}{
		{"fitness", 6, 0},
		{"coffee", 2, 0},
		{"Coffee", 2, 2},
		{"", 6, 0},
		{"books", 3, 3},
	}

	for _, tt := range tests {
		sel := Select(tt.concept)
		assert.Equal(t, tt.name, sel.Name, "name index for %q", tt.concept)
		for _, tbl := range Tables[1:] {
			assert.Equal(t, tt.rest, sel.Index(tbl), "%s index for %q", tbl, tt.concept)
		}
	}
}

func TestSelect_TableCoverage(t *testing.T) {
	seen := make(map[Table]map[int]bool, len(Tables))
	for _, tbl := range Tables {
		seen[tbl] = make(map[int]bool)
	}

	inputs := make(map[string]struct{})
	for i := 0; len(inputs) < 1000; i++ {
		inputs[fmt.Sprintf("%s-%d", faker.Word(), i)] = struct{}{}
	}

	for concept := range inputs {
		sel := Select(concept)
		for _, tbl := range Tables {
			idx := sel.Index(tbl)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, TableLen(tbl))
			seen[tbl][idx] = true
		}
	}

	for _, tbl := range Tables {
		assert.Len(t, seen[tbl], TableLen(tbl), "every %s entry should be reachable", tbl)
	}
}

func TestSelection_UnknownTable(t *testing.T) {
	assert.Equal(t, -1, Selection{}.Index(Table("bogus")))
	assert.Equal(t, 0, TableLen(Table("bogus")))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"coffee", "Coffee"},
		{"COFFEE SHOP", "Coffee Shop"},
		{"e-commerce", "E-Commerce"},
		{"3d printing", "3D Printing"},
		{"it's", "It'S"},
		{"", ""},
		{"élan vital", "Élan Vital"},
		{"ßtraße", "Sstraße"},
		{"ﬁsh market", "Fish Market"},
		{"ªb", "ªb"},
		{"aİb", "Ai̇b"},
		{"ΟΔΟΣ ΟΔΟΣ", "Οδος Οδος"},
		{"ǅemal", "ǅemal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titleCase(tt.in), "titleCase(%q)", tt.in)
	}
}

func TestLowerCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coffee", "coffee"},
		{"İstanbul", "i̇stanbul"},
		{"ΟΔΟΣ", "οδος"},
		{"ΟΔΟΣ.", "οδος."},
		{"Σ", "σ"},
		{"AΣB", "aσb"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, lowerCase(tt.in), "lowerCase(%q)", tt.in)
	}
}
