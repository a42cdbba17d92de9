package categorizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
	"fjacquet/ledger-csv/internal/store"
)

type fakeAI struct {
	category string
	err      error
	calls    int
}

func (f *fakeAI) SuggestCategory(ctx context.Context, description string) (string, error) {
	f.calls++
	return f.category, f.err
}

func newTestCategorizer(ai AIClient) *Categorizer {
	return New(store.NewRuleStore(logging.NewMockLogger()), models.CategoryOther, ai, logging.NewMockLogger())
}

func TestCategorize_FirstMatchWins(t *testing.T) {
	ruleStore := store.NewRuleStore(logging.NewMockLogger())
	c := New(ruleStore, models.CategoryOther, nil, logging.NewMockLogger())
	ctx := context.Background()

	// "Amazon Prime" matches both the amazon and subscriptions rules; the
	// amazon rule is listed first, so it wins.
	assert.Equal(t, models.CategoryAmazon, c.Categorize(ctx, "Amazon Prime"))
	assert.Equal(t, models.CategorySubscriptions, c.Categorize(ctx, "Netflix monthly"))
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	c := newTestCategorizer(nil)
	ctx := context.Background()

	assert.Equal(t, models.CategoryAmazon, c.Categorize(ctx, "AMAZON MARKETPLACE"))
	assert.Equal(t, models.CategoryFood, c.Categorize(ctx, "STARBUCKS #1234"))
}

func TestCategorize_Totality(t *testing.T) {
	c := newTestCategorizer(nil)
	ctx := context.Background()

	descriptions := []string{
		"Amazon Prime",
		"Payroll Deposit",
		"completely unknown merchant 9941",
		"",
	}
	for _, desc := range descriptions {
		category := c.Categorize(ctx, desc)
		assert.True(t, models.IsValidCategory(category),
			"description %q produced category %q outside the closed set", desc, category)
	}
}

func TestCategorize_UnmatchedFallsBack(t *testing.T) {
	c := newTestCategorizer(nil)
	assert.Equal(t, models.CategoryOther, c.Categorize(context.Background(), "mystery merchant"))
}

func TestCategorize_AIOnlyForUnmatched(t *testing.T) {
	ai := &fakeAI{category: models.CategoryTravel}
	c := newTestCategorizer(ai)
	ctx := context.Background()

	assert.Equal(t, models.CategoryAmazon, c.Categorize(ctx, "Amazon Prime"))
	assert.Equal(t, 0, ai.calls, "rule matches must not consult the AI")

	assert.Equal(t, models.CategoryTravel, c.Categorize(ctx, "mystery merchant"))
	assert.Equal(t, 1, ai.calls)
}

func TestCategorize_AIErrorsFallBack(t *testing.T) {
	ai := &fakeAI{err: errors.New("quota exceeded")}
	c := newTestCategorizer(ai)

	assert.Equal(t, models.CategoryOther, c.Categorize(context.Background(), "mystery merchant"))
}

func TestCategorize_AIClampedToClosedSet(t *testing.T) {
	ai := &fakeAI{category: "cryptocurrency"}
	c := newTestCategorizer(ai)

	assert.Equal(t, models.CategoryOther, c.Categorize(context.Background(), "mystery merchant"))
}

func TestCategorizeAll_RecomputesUntrustedCategories(t *testing.T) {
	c := newTestCategorizer(nil)
	transactions := []models.Transaction{
		{Description: "Amazon Prime", Category: "Shopping"},
		{Description: "mystery merchant"},
	}

	c.CategorizeAll(context.Background(), transactions)

	assert.Equal(t, models.CategoryAmazon, transactions[0].Category)
	assert.Equal(t, models.CategoryOther, transactions[1].Category)
}

func TestCategorizeFile(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "normalized_checkings.csv")
	csvData := `date,description,category,deposit,withdrawal,balance,account_name
2026-01-31,Amazon Prime,,,148.32,42156.78,checkings
2026-01-15,Payroll Deposit,,5000.00,,42305.10,checkings
`
	require.NoError(t, os.WriteFile(file, []byte(csvData), 0600))

	c := newTestCategorizer(nil)
	require.NoError(t, c.CategorizeFile(context.Background(), file, file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], ",amazon,")
	assert.Contains(t, lines[2], ",income,")
}

func TestCategorizeFile_EmptyDataset(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "normalized_checkings.csv")
	require.NoError(t, os.WriteFile(file,
		[]byte("date,description,category,deposit,withdrawal,balance,account_name\n"), 0600))

	c := newTestCategorizer(nil)
	assert.Error(t, c.CategorizeFile(context.Background(), file, file))
}

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
		wantErr  bool
	}{
		{name: "structured", response: "Category: travel", expected: "travel"},
		{name: "bracketed", response: "Category: [health]", expected: "health"},
		{name: "mixed case", response: "Category: Amazon", expected: "amazon"},
		{name: "freeform mention", response: "This looks like a food purchase.", expected: "food"},
		{name: "unknown category", response: "Category: groceries", wantErr: true},
		{name: "no category at all", response: "I cannot tell.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := extractCategory(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, category)
		})
	}
}
