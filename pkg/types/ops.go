package types

type OpKind string

const (
	OpReleaseHold    OpKind = "RELEASE_HOLD"
	OpRecordReversal OpKind = "RECORD_REVERSAL"
	OpNotifyMerchant OpKind = "NOTIFY_MERCHANT"
)

// Operation is one discrete ledger instruction derived from a decision. Only
// the fields relevant to the op kind are populated.
type Operation struct {
	Op         OpKind  `json:"op"`
	Amount     float64 `json:"amount,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Ref        string  `json:"ref,omitempty"`
	Auth       string  `json:"auth,omitempty"`
	MerchantID string  `json:"merchant_id,omitempty"`
}
