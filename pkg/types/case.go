package types

// Case is the canonical, format-independent view of a reversal case file.
// Loaders for every supported encoding normalize into this shape; nothing
// downstream inspects the source format.
type Case struct {
	Auth            Authorization   `json:"auth"`
	State           CaptureState    `json:"state"`
	ReversalRequest ReversalRequest `json:"reversal_request"`
}

type Authorization struct {
	AuthID     string  `json:"auth_id"`
	Card       string  `json:"card"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	MerchantID string  `json:"merchant_id"`
	AuthTime   string  `json:"auth_time"`
}

type CaptureState struct {
	CapturedAmount float64 `json:"captured_amount"`
	Voided         bool    `json:"voided"`
	ExpiryMinutes  *int    `json:"expiry_minutes,omitempty"`
}

const (
	ReversalFull    = "full"
	ReversalPartial = "partial"
)

type ReversalRequest struct {
	RequestID   string `json:"request_id"`
	Type        string `json:"type"`
	RequestTime string `json:"request_time"`
	Reason      string `json:"reason"`
}
