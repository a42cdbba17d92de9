// Package categorizer assigns a spending category to every transaction.
//
// Categorization is rule driven: an ordered list of keyword rules is applied
// first to last and the first rule with a matching keyword wins. Transactions
// no rule matches optionally go through an AI fallback, and finally land in
// the catch-all category, so the stage is total over the closed category set.
package categorizer

import (
	"context"
	"strings"

	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
	"fjacquet/ledger-csv/internal/pipelineerror"
	"fjacquet/ledger-csv/internal/store"
)

// AIClient suggests a category for a transaction description when the rule
// set has no answer. Implementations must be safe for concurrent use.
type AIClient interface {
	SuggestCategory(ctx context.Context, description string) (string, error)
}

// Categorizer applies the ordered rule set, then the optional AI fallback,
// then the catch-all category.
type Categorizer struct {
	store    *store.RuleStore
	fallback string
	ai       AIClient
	logger   logging.Logger
}

// New creates a Categorizer. ai may be nil, in which case unmatched
// transactions go straight to the fallback category.
func New(ruleStore *store.RuleStore, fallback string, ai AIClient, logger logging.Logger) *Categorizer {
	if fallback == "" || !models.IsValidCategory(fallback) {
		fallback = models.CategoryOther
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Categorizer{store: ruleStore, fallback: fallback, ai: ai, logger: logger}
}

// Categorize assigns a category to a single transaction description.
// The returned value is always a member of the closed category set.
func (c *Categorizer) Categorize(ctx context.Context, description string) string {
	if category, ok := c.matchRules(description); ok {
		return category
	}

	if c.ai != nil {
		category, err := c.ai.SuggestCategory(ctx, description)
		if err != nil {
			c.logger.WithError(err).Warn("AI categorization failed, using fallback")
		} else if models.IsValidCategory(category) {
			c.logger.Debug("AI categorized transaction",
				logging.Field{Key: logging.FieldCategory, Value: category})
			return category
		} else {
			c.logger.Warn("AI suggested unknown category, using fallback",
				logging.Field{Key: logging.FieldCategory, Value: category})
		}
	}

	return c.fallback
}

// matchRules walks the ordered rule list and returns the first rule whose
// keyword appears in the description, case-insensitively.
func (c *Categorizer) matchRules(description string) (string, bool) {
	lowered := strings.ToLower(description)
	for _, rule := range c.store.Rules() {
		for _, keyword := range rule.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// CategorizeAll assigns a category to every transaction in place. Existing
// category values are untrusted input and are always recomputed.
func (c *Categorizer) CategorizeAll(ctx context.Context, transactions []models.Transaction) {
	counts := make(map[string]int)
	for i := range transactions {
		category := c.Categorize(ctx, transactions[i].Description)
		transactions[i].Category = category
		counts[category]++
	}
	c.logger.Info("Categorized transactions",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "distribution", Value: counts})
}

// CategorizeFile reads a normalized dataset, categorizes every row and
// writes the result back out.
func (c *Categorizer) CategorizeFile(ctx context.Context, inputFile, outputFile string) error {
	c.logger.Info("Categorizing dataset",
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile})

	transactions, err := common.ReadTransactions(inputFile)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		return &pipelineerror.EmptyDatasetError{FilePath: inputFile, Stage: "categorizer"}
	}

	c.CategorizeAll(ctx, transactions)
	return common.WriteTransactions(transactions, outputFile)
}
