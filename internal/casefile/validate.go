package casefile

import "github.com/davidahmann/monetic/pkg/types"

// Validate enforces the canonical case schema after parsing. It reports every
// offending field at once rather than stopping at the first.
func Validate(c types.Case) error {
	fields := []string{}

	if c.Auth.AuthID == "" {
		fields = append(fields, "auth.auth_id")
	}
	if c.Auth.Card == "" {
		fields = append(fields, "auth.card")
	}
	if c.Auth.Amount <= 0 {
		fields = append(fields, "auth.amount")
	}
	if c.Auth.Currency == "" {
		fields = append(fields, "auth.currency")
	}
	if c.Auth.MerchantID == "" {
		fields = append(fields, "auth.merchant_id")
	}
	if c.Auth.AuthTime == "" {
		fields = append(fields, "auth.auth_time")
	}
	if c.State.CapturedAmount < 0 {
		fields = append(fields, "state.captured_amount")
	}
	if c.ReversalRequest.RequestID == "" {
		fields = append(fields, "reversal_request.request_id")
	}
	if c.ReversalRequest.Type != types.ReversalFull && c.ReversalRequest.Type != types.ReversalPartial {
		fields = append(fields, "reversal_request.type")
	}
	if c.ReversalRequest.RequestTime == "" {
		fields = append(fields, "reversal_request.request_time")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
