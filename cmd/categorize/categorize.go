// Package categorize handles the transaction categorization command
package categorize

import (
	"context"

	cmdcommon "fjacquet/ledger-csv/cmd/common"
	"fjacquet/ledger-csv/cmd/root"
	"fjacquet/ledger-csv/internal/categorizer"
	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/store"

	"github.com/spf13/cobra"
)

var (
	accountFlag   string
	rulesFileFlag string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize normalized transactions with ordered keyword rules",
	Long: `Categorize assigns every transaction in the normalized_<account>.csv
files exactly one category from the closed set, applying the ordered
keyword rules first to last with the first match winning. Unmatched
transactions fall back to the catch-all category, after the optional AI
suggestion when enabled.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&accountFlag, "account", "a", "", "Only categorize this account's normalized dataset")
	Cmd.Flags().StringVarP(&rulesFileFlag, "rules", "r", "", "Path to the rules YAML file")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	periodDir := root.SharedFlags.PeriodDir

	accounts := []string{accountFlag}
	if accountFlag == "" {
		var err error
		accounts, err = common.ListNormalizedAccounts(periodDir)
		if err != nil {
			root.Log.Fatalf("Error listing normalized datasets: %v", err)
		}
		if len(accounts) == 0 {
			root.Log.Fatalf("No normalized_<account>.csv files in %s, run normalize first", periodDir)
		}
	}

	ruleStore := store.NewRuleStore(root.Log)
	explicit := rulesFileFlag
	if explicit == "" && root.Cfg.Categorize.RulesFile != store.DefaultRulesFile {
		explicit = root.Cfg.Categorize.RulesFile
	}
	if path, err := store.FindRulesFile(explicit); err == nil {
		if err := ruleStore.Load(path); err != nil {
			root.Log.Fatalf("Error loading rules: %v", err)
		}
	} else if explicit != "" {
		root.Log.Fatalf("Rules file not found: %v", err)
	} else {
		root.Log.Info("No rules file found, using built-in default rules")
	}

	var ai categorizer.AIClient
	if root.Cfg.AI.Enabled {
		ai = categorizer.NewGeminiClient(root.Cfg.AI.APIKey, root.Cfg.AI.Model)
	}
	c := categorizer.New(ruleStore, root.Cfg.Categorize.FallbackCategory, ai, root.Log)

	ctx := context.Background()
	var outputs []string
	for _, account := range accounts {
		file := common.NormalizedFile(periodDir, account)
		if err := c.CategorizeFile(ctx, file, file); err != nil {
			root.Log.Fatalf("Categorizing %s failed: %v", file, err)
		}
		outputs = append(outputs, file)
	}

	passed, err := cmdcommon.Gate(root.Log, outputs...)
	if err != nil {
		root.Log.Fatalf("Validation gate failed to run: %v", err)
	}
	if !passed {
		root.Log.Fatal("Validation gate found blocking defects in categorized output")
	}
	root.Log.Info("Categorization completed successfully!")
}
