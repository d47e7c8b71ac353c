package report

import (
	"testing"

	"github.com/davidahmann/monetic/pkg/types"
)

func TestDecisionEligible(t *testing.T) {
	d := types.Decision{
		Eligible:         true,
		Mode:             types.ModeFull,
		ReversibleAmount: 75,
		Notes:            "No capture yet; full amount is on hold.",
		Meta:             types.DecisionMeta{Currency: "USD"},
	}
	want := "Reversal eligible (full). Amount 75.00 USD. Notes: No capture yet; full amount is on hold."
	if got := Decision(d); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecisionIneligible(t *testing.T) {
	d := types.Decision{
		Mode:  types.ModeNone,
		Notes: "Authorization already voided.",
	}
	want := "Reversal not eligible (none). Amount 0. Notes: Authorization already voided."
	if got := Decision(d); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecisionEmptyModeDefaultsToNone(t *testing.T) {
	got := Decision(types.Decision{})
	want := "Reversal not eligible (none). Amount 0."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBatchDigest(t *testing.T) {
	s := types.BatchSummary{
		Totals: types.BatchTotals{
			TotalCases:      5,
			EligibleCount:   3,
			IneligibleCount: 1,
			ModeCounts:      map[string]int{types.ModeFull: 2, types.ModePartial: 1, types.ModeNone: 1},
			CurrencyTotals: map[string]types.CurrencyTotal{
				"USD": {ReversibleTotal: 160, Cases: 2},
				"EUR": {ReversibleTotal: 25.5, Cases: 1},
			},
		},
		Errors: []string{"bad.json: parse case file"},
	}
	want := "Processed 5 cases. Eligible: 3 (full 2, partial 1). Ineligible: 1. Errors: 1. " +
		"By currency: EUR: reversible total 25.50 over 1 cases; USD: reversible total 160.00 over 2 cases"
	if got := Batch(s); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBatchDigestNoCurrencies(t *testing.T) {
	s := types.BatchSummary{
		Totals: types.BatchTotals{
			TotalCases: 1, IneligibleCount: 1,
			ModeCounts: map[string]int{types.ModeNone: 1},
		},
	}
	want := "Processed 1 cases. Eligible: 0 (full 0, partial 0). Ineligible: 1."
	if got := Batch(s); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
