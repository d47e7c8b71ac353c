package ledger

import "github.com/davidahmann/monetic/pkg/types"

// Plan derives the ordered ledger operations for a decision. Ineligible
// decisions plan nothing; eligible decisions always plan the same three-step
// sequence, because funds must be released before the reversal is recorded,
// and the merchant is notified only after both.
func Plan(decision types.Decision) []types.Operation {
	if !decision.Eligible {
		return []types.Operation{}
	}
	return []types.Operation{
		{
			Op:       types.OpReleaseHold,
			Amount:   decision.ReversibleAmount,
			Currency: decision.Meta.Currency,
		},
		{
			Op:   types.OpRecordReversal,
			Ref:  decision.Meta.RequestID,
			Auth: decision.Meta.AuthID,
		},
		{
			Op:         types.OpNotifyMerchant,
			MerchantID: decision.Meta.MerchantID,
		},
	}
}
