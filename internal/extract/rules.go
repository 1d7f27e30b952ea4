package extract

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule describes one canonical metric the engine tries to resolve.
type Rule struct {
	// Name is the canonical metric name used as the output key.
	Name string
	// Keywords are case-insensitive substrings matched against table
	// label cells. Defaults to the canonical name.
	Keywords []string
	// Pattern is matched against text-block content during the text pass.
	Pattern *regexp.Regexp
	// ValueGroup is the capture group holding the numeric value.
	ValueGroup int
}

// MatchesLabel reports whether a table label cell refers to this metric.
func (r Rule) MatchesLabel(label string) bool {
	l := strings.ToLower(label)
	for _, kw := range r.Keywords {
		if strings.Contains(l, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// RuleSpec is the serializable form of a Rule, loadable from YAML. The
// canonical metric set is configuration, not code.
type RuleSpec struct {
	Name       string   `yaml:"name"`
	Keywords   []string `yaml:"keywords,omitempty"`
	Pattern    string   `yaml:"pattern"`
	ValueGroup int      `yaml:"value_group,omitempty"`
}

// CompileRules turns rule specs into engine rules.
func CompileRules(specs []RuleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("metric rule without a name")
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("metric rule %q: invalid pattern: %w", s.Name, err)
		}
		group := s.ValueGroup
		if group == 0 {
			group = 1
		}
		if group > re.NumSubexp() {
			return nil, fmt.Errorf("metric rule %q: value group %d exceeds %d capture groups",
				s.Name, group, re.NumSubexp())
		}
		keywords := s.Keywords
		if len(keywords) == 0 {
			keywords = []string{s.Name}
		}
		rules = append(rules, Rule{
			Name:       s.Name,
			Keywords:   keywords,
			Pattern:    re,
			ValueGroup: group,
		})
	}
	return rules, nil
}

// LoadRules reads a YAML rule file. The file holds a list of RuleSpec
// entries under a top-level "metrics" key.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided rules path is expected
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var file struct {
		Metrics []RuleSpec `yaml:"metrics"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(file.Metrics) == 0 {
		return nil, fmt.Errorf("rules file %s defines no metrics", path)
	}
	return CompileRules(file.Metrics)
}

const numberPattern = `([0-9][0-9,]*(?:\.[0-9]+)?)`

// DefaultRuleSpecs returns the built-in canonical metric set.
func DefaultRuleSpecs() []RuleSpec {
	return []RuleSpec{
		{
			Name:    "Revenue",
			Pattern: `(?i)revenue[^0-9$%]*\$?\s*` + numberPattern,
		},
		{
			Name:    "Net Income",
			Pattern: `(?i)net\s+income[^0-9$%]*\$?\s*` + numberPattern,
		},
		{
			Name:     "Diluted EPS",
			Keywords: []string{"Diluted EPS", "Diluted Earnings Per Share"},
			Pattern:  `(?i)diluted\s+(?:EPS|earnings\s+per\s+share)[^0-9]*` + numberPattern,
		},
		{
			Name:     "EPS",
			Keywords: []string{"EPS", "Earnings Per Share"},
			Pattern:  `(?i)(?:earnings\s+per\s+share|\bEPS\b)[^0-9]*` + numberPattern,
		},
		{
			Name: "Operating Margin",
			// The percent sign is a match boundary; the captured value is
			// the bare number.
			Pattern: `(?i)operating\s+margin[^0-9]*` + numberPattern + `\s*%`,
		},
	}
}

// DefaultRules compiles the built-in metric set. The specs are static, so
// compilation cannot fail.
func DefaultRules() []Rule {
	rules, err := CompileRules(DefaultRuleSpecs())
	if err != nil {
		panic(err)
	}
	return rules
}

var valueNumber = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// NormalizeNumber extracts the first numeric token from raw and strips a
// leading currency symbol, thousands commas, and a trailing percent sign.
// "$1,234.56" becomes "1234.56"; "31.15%" becomes "31.15".
func NormalizeNumber(raw string) (string, bool) {
	m := valueNumber.FindString(raw)
	if m == "" {
		return "", false
	}
	return strings.ReplaceAll(m, ",", ""), true
}
