package types

// Reversal modes. ModeNone is the terminal mode for every ineligible decision.
const (
	ModeNone    = "none"
	ModeFull    = "full"
	ModePartial = "partial"
)

// Decision is the immutable outcome of evaluating one case against a ruleset.
// It echoes the identifiers it was derived from so later stages never need the
// original Case.
type Decision struct {
	Eligible         bool         `json:"eligible"`
	Mode             string       `json:"mode"`
	ReversibleAmount float64      `json:"reversible_amount"`
	Actions          []string     `json:"actions"`
	Notes            string       `json:"notes"`
	Meta             DecisionMeta `json:"meta"`
}

type DecisionMeta struct {
	AuthID     string `json:"auth_id"`
	RequestID  string `json:"request_id"`
	MerchantID string `json:"merchant_id"`
	Currency   string `json:"currency"`
}
