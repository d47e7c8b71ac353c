package rules

// DefaultExpiryMinutes applies when neither the case nor the ruleset provides
// an expiry window.
const DefaultExpiryMinutes = 60

// RuleSet is the merged configuration governing one case. Raw carries the full
// merged mapping so reserved keys survive the merge even before they have a
// typed field.
type RuleSet struct {
	ExpiryMinutesDefault int      `yaml:"expiry_minutes_default"`
	AllowedReversalTypes []string `yaml:"allowed_reversal_types"`

	Raw map[string]any `yaml:"-"`
}

// TypeAllowed reports whether the ruleset permits the given reversal type. An
// absent allowed_reversal_types list permits everything.
func (r RuleSet) TypeAllowed(reversalType string) bool {
	if len(r.AllowedReversalTypes) == 0 {
		return true
	}
	for _, allowed := range r.AllowedReversalTypes {
		if allowed == reversalType {
			return true
		}
	}
	return false
}

// ExpiryMinutes returns the ruleset expiry default, falling back to the
// built-in window when unset.
func (r RuleSet) ExpiryMinutes() int {
	if r.ExpiryMinutesDefault > 0 {
		return r.ExpiryMinutesDefault
	}
	return DefaultExpiryMinutes
}
