package casestudy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalog(t *testing.T) {
	cat := Builtin()
	require.Equal(t, 5, cat.Len())
	require.Equal(t, "Math Word Problem", cat.Names()[0])

	c, ok := cat.Get("Math Word Problem")
	require.True(t, ok)
	require.Equal(t, []int{50, 110, 200}, c.SuggestedBudgets())
}

func TestTierForPicksLargestFittingBudget(t *testing.T) {
	c, _ := Builtin().Get("Math Word Problem")

	level, tier := c.TierFor(110)
	require.Equal(t, 110, level)
	require.Equal(t, 95, tier.Tokens)

	// Between tiers: round down.
	level, _ = c.TierFor(199)
	require.Equal(t, 110, level)

	// Above every tier: top tier.
	level, _ = c.TierFor(5000)
	require.Equal(t, 200, level)

	// Below every tier: lowest tier still answers.
	level, _ = c.TierFor(10)
	require.Equal(t, 50, level)
}

func TestByPromptMatchesExactText(t *testing.T) {
	cat := Builtin()

	c, ok := cat.ByPrompt("Explain a computer 'firewall' using an analogy.")
	require.True(t, ok)
	require.Equal(t, "Analogy Generation", c.Name)

	_, ok = cat.ByPrompt("something nobody asked")
	require.False(t, ok)
}

func TestLoadCatalogFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.yaml")
	catalogYAML := `
- name: Tiny Case
  description: A one-liner.
  prompt: Say hi.
  budgets:
    25:
      response: hi
      tokens: 2
      answer: hi
    75:
      response: hello there, friend
      tokens: 5
      answer: hello
`

	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	c, ok := cat.Get("Tiny Case")
	require.True(t, ok)
	require.Equal(t, []int{25, 75}, c.SuggestedBudgets())
}

func TestLoadCatalogRejectsBadEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: ""
  prompt: p
`), 0o644))

	_, err := LoadCatalog(path)
	require.Error(t, err)
}
