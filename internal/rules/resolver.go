package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"

	"github.com/davidahmann/monetic/pkg/types"
)

// Resolver merges the default ruleset with per-merchant overrides. Resolved
// rulesets are cached per merchant so batch runs do not reread the same files
// for every case.
type Resolver struct {
	DefaultPath string
	OverrideDir string

	cache *cache.Cache
}

func NewResolver(defaultPath string, overrideDir string) *Resolver {
	return &Resolver{
		DefaultPath: defaultPath,
		OverrideDir: overrideDir,
		cache:       cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Resolve produces the effective ruleset for the case's merchant. A missing
// override file is not an error; the defaults apply unchanged.
func (r *Resolver) Resolve(c types.Case) (RuleSet, error) {
	merchantID := c.Auth.MerchantID
	if cached, ok := r.cache.Get(merchantID); ok {
		return cached.(RuleSet), nil
	}

	base, err := loadMapping(r.DefaultPath)
	if err != nil {
		return RuleSet{}, fmt.Errorf("load default rules: %w", err)
	}

	merged := base
	if overridePath, ok := r.overridePath(merchantID); ok {
		override, err := loadMapping(overridePath)
		if err != nil {
			return RuleSet{}, fmt.Errorf("load merchant override %s: %w", merchantID, err)
		}
		merged = deepMerge(base, override)
	}

	ruleset, err := decodeRuleSet(merged)
	if err != nil {
		return RuleSet{}, err
	}

	r.cache.Set(merchantID, ruleset, cache.DefaultExpiration)
	return ruleset, nil
}

func (r *Resolver) overridePath(merchantID string) (string, bool) {
	if r.OverrideDir == "" || merchantID == "" {
		return "", false
	}
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(r.OverrideDir, merchantID+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Lint loads a rules file on its own, without merging, and reports whether it
// decodes into a valid ruleset.
func Lint(path string) (RuleSet, error) {
	mapping, err := loadMapping(path)
	if err != nil {
		return RuleSet{}, err
	}
	return decodeRuleSet(mapping)
}

func loadMapping(path string) (map[string]any, error) {
	// #nosec G304 -- path comes from operator-configured rules locations.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mapping := map[string]any{}
	if err := yaml.Unmarshal(raw, &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

func decodeRuleSet(merged map[string]any) (RuleSet, error) {
	encoded, err := yaml.Marshal(merged)
	if err != nil {
		return RuleSet{}, err
	}
	var ruleset RuleSet
	if err := yaml.Unmarshal(encoded, &ruleset); err != nil {
		return RuleSet{}, err
	}
	ruleset.Raw = merged
	return ruleset, nil
}
