package models

// CategoryRule pairs a category with the keywords that select it. Rules are
// kept in an ordered list and matched first-rule-wins, so more specific
// rules must be listed before broader ones.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RulesConfig is the structure of the rules YAML file.
type RulesConfig struct {
	Rules []CategoryRule `yaml:"rules"`
}
