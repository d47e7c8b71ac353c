package eligibility

import (
	"fmt"
	"math"
	"time"

	"github.com/davidahmann/monetic/internal/rules"
	"github.com/davidahmann/monetic/pkg/types"
)

// Case timestamps are Zulu/UTC, e.g. 2025-01-01T00:10:00Z.
const timestampLayout = "2006-01-02T15:04:05Z"

// TimestampError means a case timestamp could not be parsed as UTC ISO-8601.
type TimestampError struct {
	Field string
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("unparseable timestamp %s: %q", e.Field, e.Value)
}

func parseTimestamp(field string, value string) (time.Time, error) {
	ts, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, &TimestampError{Field: field, Value: value}
	}
	return ts.UTC(), nil
}

// Evaluate runs the ordered eligibility checks for one case. Each check either
// terminates with an ineligible decision carrying a specific note or advances
// to the next; the final step selects full or partial mode and the ledger
// actions. The decision echoes the case identifiers so downstream stages never
// look back at the case.
func Evaluate(c types.Case, ruleset rules.RuleSet) (types.Decision, error) {
	authorized := c.Auth.Amount
	captured := c.State.CapturedAmount

	decision := types.Decision{
		Eligible:         false,
		Mode:             types.ModeNone,
		ReversibleAmount: 0,
		Actions:          []string{},
		Meta: types.DecisionMeta{
			AuthID:     c.Auth.AuthID,
			RequestID:  c.ReversalRequest.RequestID,
			MerchantID: c.Auth.MerchantID,
			Currency:   c.Auth.Currency,
		},
	}

	if c.State.Voided {
		decision.Notes = "Authorization already voided."
		return decision, nil
	}

	authTime, err := parseTimestamp("auth.auth_time", c.Auth.AuthTime)
	if err != nil {
		return types.Decision{}, err
	}
	requestTime, err := parseTimestamp("reversal_request.request_time", c.ReversalRequest.RequestTime)
	if err != nil {
		return types.Decision{}, err
	}

	elapsedMinutes := requestTime.Sub(authTime).Minutes()
	expiryMinutes := ruleset.ExpiryMinutes()
	if c.State.ExpiryMinutes != nil && *c.State.ExpiryMinutes > 0 {
		expiryMinutes = *c.State.ExpiryMinutes
	}
	if elapsedMinutes > float64(expiryMinutes) {
		decision.Notes = fmt.Sprintf("Expired window: %.1f min > %d min.", elapsedMinutes, expiryMinutes)
		return decision, nil
	}

	if !ruleset.TypeAllowed(c.ReversalRequest.Type) {
		decision.Notes = fmt.Sprintf("Reversal type %s not allowed for merchant %s.", c.ReversalRequest.Type, c.Auth.MerchantID)
		return decision, nil
	}

	available := math.Max(0, authorized-captured)
	if available <= 0 {
		decision.Notes = fmt.Sprintf("No funds on hold. Captured=%.2f >= Authorized=%.2f.", captured, authorized)
		return decision, nil
	}

	decision.Eligible = true
	decision.ReversibleAmount = math.Round(available*100) / 100
	decision.Actions = []string{
		fmt.Sprintf("Release hold: %.2f %s to card", available, c.Auth.Currency),
		fmt.Sprintf("Record reversal %s linked to %s", c.ReversalRequest.RequestID, c.Auth.AuthID),
		fmt.Sprintf("Notify merchant %s", c.Auth.MerchantID),
	}

	if captured > 0 {
		decision.Mode = types.ModePartial
		decision.Notes = fmt.Sprintf("Captured %.2f, so only %.2f remains reversible.", captured, available)
		return decision, nil
	}

	decision.Mode = types.ModeFull
	decision.Notes = "No capture yet; full amount is on hold."
	return decision, nil
}
