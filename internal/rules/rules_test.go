package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

const validRules = `
rules:
  - rule_name: household-income
    rule_type: income
    weight: 0.3
    active: true
    conditions:
      currency: GBP
  - rule_name: bureau-score
    rule_type: credit
    weight: 0
    active: false
`

func TestParse_Valid(t *testing.T) {
	rules, err := Parse([]byte(validRules))
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "household-income", rules[0].Name)
	assert.Equal(t, core.RuleTypeIncome, rules[0].Type)
	assert.InDelta(t, 0.3, rules[0].Weight, 1e-9)
	assert.True(t, rules[0].Active)
	assert.Equal(t, "GBP", rules[0].Conditions["currency"])
	assert.False(t, rules[1].Active)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing rules key", "other: 1\n"},
		{"unknown rule type", "rules:\n  - {rule_name: x, rule_type: vibes, weight: 0.1, active: true}\n"},
		{"weight above one", "rules:\n  - {rule_name: x, rule_type: income, weight: 2, active: true}\n"},
		{"missing name", "rules:\n  - {rule_type: income, weight: 0.1, active: true}\n"},
		{"unknown field", "rules:\n  - {rule_name: x, rule_type: income, weight: 0.1, active: true, extra: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_EmptyAndMalformed(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)

	_, err = Parse([]byte("rules: [\n"))
	assert.Error(t, err)
}

func TestFileSource_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRules), 0o600))

	src := NewFileSource(path)
	rules, err := src.Rules(context.Background())
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	updated := "rules:\n  - {rule_name: only, rule_type: education, weight: 0.25, active: true}\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	rules, err = src.Rules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "only", rules[0].Name)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := src.Rules(context.Background())
	assert.Error(t, err)
}

func TestFileSource_ShippedRuleFile(t *testing.T) {
	src := NewFileSource(filepath.Join("..", "..", "config", "underwriting_rules.yaml"))
	rules, err := src.Rules(context.Background())
	require.NoError(t, err)

	_, err = core.NewEngine(rules)
	assert.NoError(t, err)
}

func TestStaticSource_ReturnsCopy(t *testing.T) {
	src := Defaults()
	rules, err := src.Rules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 4)

	rules[0].Active = false
	assert.True(t, src[0].Active)
}

func TestStaticSource_AllInactiveFailsEngine(t *testing.T) {
	src := StaticSource{{Name: "off", Type: core.RuleTypeIncome, Active: false}}
	rules, err := src.Rules(context.Background())
	require.NoError(t, err)

	_, err = core.NewEngine(rules)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
