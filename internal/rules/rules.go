// Package rules loads the underwriting rule set from YAML and serves it to
// the risk engine.
package rules

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

type document struct {
	Rules []core.UnderwritingRule `yaml:"rules"`
}

// Parse decodes a YAML rule set and validates it against the embedded schema.
func Parse(data []byte) ([]core.UnderwritingRule, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parse rules: empty document")
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("invalid rules: %s", strings.Join(errs, "; "))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return doc.Rules, nil
}

// FileSource reads rules from a YAML file and re-reads it when the file's
// modification time changes.
type FileSource struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	rules   []core.UnderwritingRule
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Rules(_ context.Context) ([]core.UnderwritingRule, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rules != nil && info.ModTime().Equal(s.modTime) {
		return clone(s.rules), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	s.rules = rules
	s.modTime = info.ModTime()
	return clone(rules), nil
}

// StaticSource serves a fixed rule set.
type StaticSource []core.UnderwritingRule

func (s StaticSource) Rules(context.Context) ([]core.UnderwritingRule, error) {
	return clone(s), nil
}

// Defaults is the rule set used when no rule file is configured.
func Defaults() StaticSource {
	return StaticSource{
		{Name: "household-income", Type: core.RuleTypeIncome, Weight: core.WeightAffordability, Active: true},
		{Name: "highest-qualification", Type: core.RuleTypeEducation, Weight: core.WeightEducation, Active: true},
		{Name: "employment-stability", Type: core.RuleTypeEmployment, Weight: core.WeightEmployment, Active: true},
		{Name: "profile-completeness", Type: core.RuleTypeSponsor, Weight: core.WeightSponsor, Active: true},
	}
}

func clone(rules []core.UnderwritingRule) []core.UnderwritingRule {
	out := make([]core.UnderwritingRule, len(rules))
	copy(out, rules)
	return out
}
