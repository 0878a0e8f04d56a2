package importer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/reconciliation"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
)

// RuleConfig is one keyword rule in the rules YAML file
type RuleConfig struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
	Kind     string `yaml:"kind,omitempty"`
	Priority int    `yaml:"priority,omitempty"`
}

// CategoryConfig groups several keywords under one category
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind,omitempty"`
	Priority int      `yaml:"priority,omitempty"`
	Keywords []string `yaml:"keywords"`
}

// RulesFile is the structure of the categorization rules YAML file.
// Both forms may be mixed in one file.
type RulesFile struct {
	Rules      []RuleConfig     `yaml:"rules"`
	Categories []CategoryConfig `yaml:"categories"`
}

// LoadRules reads a rules YAML file from disk
func LoadRules(path string) ([]domain.CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates rules YAML
func ParseRules(data []byte) ([]domain.CategoryRule, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	var rules []domain.CategoryRule
	for i, rc := range file.Rules {
		kind, err := ruleKind(rc.Kind)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, domain.CategoryRule{
			Keyword:      rc.Keyword,
			CategoryName: rc.Category,
			Kind:         kind,
			Priority:     rc.Priority,
		})
	}
	for _, cc := range file.Categories {
		kind, err := ruleKind(cc.Kind)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", cc.Name, err)
		}
		for _, kw := range cc.Keywords {
			rules = append(rules, domain.CategoryRule{
				Keyword:      kw,
				CategoryName: cc.Name,
				Kind:         kind,
				Priority:     cc.Priority,
			})
		}
	}

	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return rules, nil
}

// ruleKind resolves an optional kind; empty applies the rule to both kinds
func ruleKind(s string) (domain.MovementKind, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return domain.ParseMovementKind(s)
}

// RuleClassifier assigns category names to statement lines by keyword.
// Matching ignores case and accents.
type RuleClassifier struct {
	rules []domain.CategoryRule
}

// NewRuleClassifier orders rules by priority, keeping file order for ties
func NewRuleClassifier(rules []domain.CategoryRule) *RuleClassifier {
	sorted := make([]domain.CategoryRule, 0, len(rules))
	for _, r := range rules {
		r.Keyword = report.Fold(r.Keyword)
		if r.Keyword == "" {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &RuleClassifier{rules: sorted}
}

// Classify returns the category name of the first rule matching the line
func (c *RuleClassifier) Classify(description string, kind domain.MovementKind) (string, bool) {
	folded := report.Fold(description)
	for i := range c.rules {
		r := &c.rules[i]
		if r.Applies(kind) && strings.Contains(folded, r.Keyword) {
			return r.CategoryName, true
		}
	}
	return "", false
}

// Assignment is the outcome of classifying a statement
type Assignment struct {
	Candidates []reconciliation.Candidate
	Classified int
	// Category names produced by rules that the account does not have
	Unknown []string
}

// Assign builds candidates for bankAccountID, resolving rule category names
// against the account's categories
func (c *RuleClassifier) Assign(bankAccountID uuid.UUID, lines []Line, categories []*domain.Category) Assignment {
	byName := make(map[string]uuid.UUID, len(categories))
	for _, cat := range categories {
		byName[report.Fold(cat.Name)] = cat.ID
	}

	var out Assignment
	unknown := make(map[string]bool)
	for _, line := range lines {
		candidate := reconciliation.Candidate{
			Date:          line.Date,
			Description:   line.Description,
			Value:         line.Value,
			Kind:          line.Kind,
			BankAccountID: bankAccountID,
		}

		if name, ok := c.Classify(line.Description, line.Kind); ok {
			if id, found := byName[report.Fold(name)]; found {
				catID := id
				candidate.CategoryID = &catID
				out.Classified++
			} else if !unknown[name] {
				unknown[name] = true
				out.Unknown = append(out.Unknown, name)
			}
		}
		out.Candidates = append(out.Candidates, candidate)
	}
	return out
}
