// Package store loads and persists the categorization rule set.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
)

// DefaultRulesFile is the rule file name searched for in the usual
// configuration locations.
const DefaultRulesFile = "rules.yaml"

// RuleStore holds the ordered categorization rules. Order is significant:
// the categorizer applies rules first to last and the first match wins.
type RuleStore struct {
	mu     sync.RWMutex
	rules  []models.CategoryRule
	path   string
	logger logging.Logger
}

// NewRuleStore creates a store seeded with the built-in default rules.
func NewRuleStore(logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleStore{rules: DefaultRules(), logger: logger}
}

// FindRulesFile looks for the rule file in the conventional locations:
// an explicit path, the current directory, then $HOME/.ledger-csv.
func FindRulesFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("rules file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	candidates := []string{DefaultRulesFile}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".ledger-csv", DefaultRulesFile))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

// Load reads rules from a YAML file, replacing the current rule set.
// Rules naming a category outside the closed set are rejected.
func (s *RuleStore) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var config models.RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	for i, rule := range config.Rules {
		if !models.IsValidCategory(rule.Category) {
			return fmt.Errorf("rules file %s: rule %d names unknown category %q", path, i+1, rule.Category)
		}
	}

	s.mu.Lock()
	s.rules = config.Rules
	s.path = path
	s.mu.Unlock()

	s.logger.Info("Loaded categorization rules",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(config.Rules)})
	return nil
}

// Save writes the current rule set to the given path.
func (s *RuleStore) Save(path string) error {
	s.mu.RLock()
	config := models.RulesConfig{Rules: s.rules}
	s.mu.RUnlock()

	data, err := yaml.Marshal(&config)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("creating rules directory: %w", err)
	}
	if err := os.WriteFile(path, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("writing rules file %s: %w", path, err)
	}
	return nil
}

// Rules returns a copy of the ordered rule set.
func (s *RuleStore) Rules() []models.CategoryRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CategoryRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// DefaultRules is the built-in ordered rule set used when no rules file is
// present. Specific merchants come before broader buckets so that, for
// example, an Amazon Prime charge lands in amazon rather than subscriptions.
func DefaultRules() []models.CategoryRule {
	return []models.CategoryRule{
		{Category: models.CategoryIncome, Keywords: []string{"payroll", "salary", "direct deposit"}},
		{Category: models.CategoryEngineering, Keywords: []string{"github", "digitalocean", "aws", "jetbrains"}},
		{Category: models.CategoryTrading, Keywords: []string{"interactive brokers", "robinhood", "coinbase", "etrade"}},
		{Category: models.CategoryAmazon, Keywords: []string{"amazon", "amzn"}},
		{Category: models.CategorySubscriptions, Keywords: []string{"netflix", "spotify", "hulu", "subscription"}},
		{Category: models.CategoryFood, Keywords: []string{"restaurant", "grocery", "doordash", "starbucks", "mcdonald"}},
		{Category: models.CategoryBills, Keywords: []string{"electric", "water utility", "comcast", "verizon", "insurance"}},
		{Category: models.CategoryEntertainment, Keywords: []string{"cinema", "theater", "steam", "ticketmaster"}},
		{Category: models.CategoryTransfers, Keywords: []string{"transfer", "zelle", "venmo"}},
		{Category: models.CategoryLoans, Keywords: []string{"loan", "mortgage", "lending"}},
		{Category: models.CategoryTravel, Keywords: []string{"airline", "hotel", "airbnb", "uber", "lyft"}},
		{Category: models.CategoryHealth, Keywords: []string{"pharmacy", "clinic", "dental", "cvs", "walgreens"}},
	}
}
