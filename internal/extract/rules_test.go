package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"$1,234.56", "1234.56", true},
		{"31.15%", "31.15", true},
		{"$850.00", "850.00", true},
		{"0.52", "0.52", true},
		{"1,000,000", "1000000", true},
		{"n/a", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Revenue", "Net Income", "Diluted EPS", "EPS", "Operating Margin"}, names)
}

func TestMatchesLabel(t *testing.T) {
	rules := DefaultRules()
	var eps Rule
	for _, r := range rules {
		if r.Name == "EPS" {
			eps = r
		}
	}
	assert.True(t, eps.MatchesLabel("Earnings Per Share (EPS)"))
	assert.True(t, eps.MatchesLabel("Basic eps"))
	assert.False(t, eps.MatchesLabel("Operating Expenses"))
}

func TestCompileRulesErrors(t *testing.T) {
	_, err := CompileRules([]RuleSpec{{Name: "", Pattern: `x`}})
	require.Error(t, err)

	_, err = CompileRules([]RuleSpec{{Name: "Bad", Pattern: `([`}})
	require.Error(t, err)

	_, err = CompileRules([]RuleSpec{{Name: "Grp", Pattern: `x(\d+)`, ValueGroup: 3}})
	require.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	content := `metrics:
  - name: Gross Margin
    pattern: '(?i)gross\s+margin[^0-9]*([0-9][0-9,]*(?:\.[0-9]+)?)\s*%'
  - name: Revenue
    keywords: ["Revenue", "Total Sales"]
    pattern: '(?i)revenue[^0-9$%]*\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Gross Margin", rules[0].Name)
	assert.True(t, rules[1].MatchesLabel("Total Sales FY2023"))
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestMetricSetFirstWinsAndOrder(t *testing.T) {
	m := NewMetricSet()
	assert.True(t, m.Set("Revenue", "100"))
	assert.True(t, m.Set("EPS", "0.52"))
	assert.False(t, m.Set("Revenue", "999"))

	v, _ := m.Get("Revenue")
	assert.Equal(t, "100", v)
	assert.Equal(t, []string{"Revenue", "EPS"}, m.Names())
	assert.Equal(t, 2, m.Len())
}

func TestMetricSetJSONRoundTrip(t *testing.T) {
	m := NewMetricSet()
	m.Set("Revenue", "1234.56")
	m.Set("Net Income", "384.56")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Revenue":"1234.56","Net Income":"384.56"}`, string(data))
	// insertion order preserved in the raw output
	assert.Equal(t, `{"Revenue":"1234.56","Net Income":"384.56"}`, string(data))

	var back MetricSet
	require.NoError(t, json.Unmarshal(data, &back))
	v, ok := back.Get("Net Income")
	require.True(t, ok)
	assert.Equal(t, "384.56", v)
	assert.Equal(t, m.Names(), back.Names())
}
