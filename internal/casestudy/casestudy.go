// Package casestudy holds the catalog of pre-defined example prompts the
// demo offers for quick selection. Each case carries canned responses at
// several token-budget tiers so the budget effect is visible even offline.
package casestudy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tier is one canned response recorded at a specific budget level.
type Tier struct {
	Response string `yaml:"response"`
	Tokens   int    `yaml:"tokens"`
	Answer   string `yaml:"answer"`
}

// CaseStudy is a named example prompt with budget-tiered canned output.
// Immutable after catalog construction.
type CaseStudy struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Prompt      string       `yaml:"prompt"`
	Budgets     map[int]Tier `yaml:"budgets"`
}

// SuggestedBudgets returns the recorded budget levels in ascending order.
func (c CaseStudy) SuggestedBudgets() []int {
	out := make([]int, 0, len(c.Budgets))
	for b := range c.Budgets {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// TierFor picks the largest recorded tier whose budget does not exceed
// the requested one. Requests under every tier get the lowest tier, so a
// tiny budget still produces the terse variant rather than nothing.
func (c CaseStudy) TierFor(budget int) (int, Tier) {
	levels := c.SuggestedBudgets()
	if len(levels) == 0 {
		return 0, Tier{}
	}

	chosen := levels[0]
	for _, lvl := range levels {
		if lvl <= budget {
			chosen = lvl
		}
	}
	return chosen, c.Budgets[chosen]
}

// Catalog is an ordered, read-only set of case studies.
type Catalog struct {
	order []string
	cases map[string]CaseStudy
}

// NewCatalog builds a catalog preserving the given order.
func NewCatalog(cases []CaseStudy) *Catalog {
	cat := &Catalog{cases: make(map[string]CaseStudy, len(cases))}
	for _, c := range cases {
		if _, exists := cat.cases[c.Name]; exists {
			continue
		}
		cat.order = append(cat.order, c.Name)
		cat.cases[c.Name] = c
	}
	return cat
}

// Names returns case names in catalog order.
func (cat *Catalog) Names() []string {
	out := make([]string, len(cat.order))
	copy(out, cat.order)
	return out
}

// Get looks a case up by name.
func (cat *Catalog) Get(name string) (CaseStudy, bool) {
	c, ok := cat.cases[name]
	return c, ok
}

// ByPrompt resolves a case from its exact prompt text. Used by the
// simulator provider, which only sees the outgoing prompt.
func (cat *Catalog) ByPrompt(prompt string) (CaseStudy, bool) {
	prompt = strings.TrimSpace(prompt)
	for _, name := range cat.order {
		if strings.TrimSpace(cat.cases[name].Prompt) == prompt {
			return cat.cases[name], true
		}
	}
	return CaseStudy{}, false
}

// Len reports the number of cases.
func (cat *Catalog) Len() int {
	return len(cat.order)
}

// LoadCatalog parses a YAML catalog file (a list of case studies),
// replacing the builtin one.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var cases []CaseStudy
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for _, c := range cases {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("catalog entry with empty name")
		}
		if strings.TrimSpace(c.Prompt) == "" {
			return nil, fmt.Errorf("case %q has empty prompt", c.Name)
		}
		for budget := range c.Budgets {
			if budget <= 0 {
				return nil, fmt.Errorf("case %q has non-positive budget tier %d", c.Name, budget)
			}
		}
	}

	return NewCatalog(cases), nil
}
