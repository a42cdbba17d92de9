package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	require.NotEmpty(t, rules)

	amazonIdx, subscriptionsIdx := -1, -1
	for i, rule := range rules {
		assert.True(t, models.IsValidCategory(rule.Category),
			"default rule %d names unknown category %q", i, rule.Category)
		assert.NotEmpty(t, rule.Keywords)
		switch rule.Category {
		case models.CategoryAmazon:
			amazonIdx = i
		case models.CategorySubscriptions:
			subscriptionsIdx = i
		}
	}

	// Amazon Prime must land in amazon, so the amazon rule has to come first.
	require.GreaterOrEqual(t, amazonIdx, 0)
	require.GreaterOrEqual(t, subscriptionsIdx, 0)
	assert.Less(t, amazonIdx, subscriptionsIdx)
}

func TestRuleStoreLoad(t *testing.T) {
	tempDir := t.TempDir()
	rulesFile := filepath.Join(tempDir, "rules.yaml")
	rulesYAML := `rules:
  - category: engineering
    keywords:
      - github
      - gitlab
  - category: food
    keywords:
      - pizza
`
	require.NoError(t, os.WriteFile(rulesFile, []byte(rulesYAML), 0600))

	s := NewRuleStore(logging.NewMockLogger())
	require.NoError(t, s.Load(rulesFile))

	rules := s.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, models.CategoryEngineering, rules[0].Category)
	assert.Equal(t, []string{"github", "gitlab"}, rules[0].Keywords)
	assert.Equal(t, models.CategoryFood, rules[1].Category)
}

func TestRuleStoreLoad_RejectsUnknownCategory(t *testing.T) {
	tempDir := t.TempDir()
	rulesFile := filepath.Join(tempDir, "rules.yaml")
	rulesYAML := `rules:
  - category: shopping
    keywords:
      - mall
`
	require.NoError(t, os.WriteFile(rulesFile, []byte(rulesYAML), 0600))

	s := NewRuleStore(logging.NewMockLogger())
	err := s.Load(rulesFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shopping")

	// A failed load leaves the previous rule set in place.
	assert.Equal(t, DefaultRules(), s.Rules())
}

func TestRuleStoreLoad_RejectsMalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	rulesFile := filepath.Join(tempDir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("rules: [unclosed"), 0600))

	s := NewRuleStore(logging.NewMockLogger())
	assert.Error(t, s.Load(rulesFile))
}

func TestRuleStoreSaveLoadRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	rulesFile := filepath.Join(tempDir, "saved", "rules.yaml")

	s := NewRuleStore(logging.NewMockLogger())
	require.NoError(t, s.Save(rulesFile))

	loaded := NewRuleStore(logging.NewMockLogger())
	require.NoError(t, loaded.Load(rulesFile))
	assert.Equal(t, s.Rules(), loaded.Rules())
}

func TestFindRulesFile(t *testing.T) {
	tempDir := t.TempDir()
	explicit := filepath.Join(tempDir, "my-rules.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("rules: []\n"), 0600))

	path, err := FindRulesFile(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	_, err = FindRulesFile(filepath.Join(tempDir, "absent.yaml"))
	assert.Error(t, err)
}

func TestRulesAreCopied(t *testing.T) {
	s := NewRuleStore(logging.NewMockLogger())
	rules := s.Rules()
	rules[0].Category = models.CategoryOther

	assert.NotEqual(t, models.CategoryOther, s.Rules()[0].Category,
		"mutating a returned slice must not touch the store")
}
