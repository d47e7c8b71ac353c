// Package report renders decisions and batch summaries as short plain
// sentences. No templating, no markup: the output is meant for terminals and
// chat hooks.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davidahmann/monetic/pkg/types"
)

// Decision returns a one-line verdict for a single case.
func Decision(d types.Decision) string {
	verdict := "not eligible"
	if d.Eligible {
		verdict = "eligible"
	}

	mode := d.Mode
	if mode == "" {
		mode = types.ModeNone
	}

	amount := "Amount 0."
	if d.ReversibleAmount > 0 {
		amount = fmt.Sprintf("Amount %.2f %s.", d.ReversibleAmount, d.Meta.Currency)
	}

	out := fmt.Sprintf("Reversal %s (%s). %s", verdict, mode, amount)
	if d.Notes != "" {
		out += " Notes: " + d.Notes
	}
	return out
}

// Batch returns a one-line digest of a batch run. Currency totals are listed
// in sorted order so the output is stable.
func Batch(s types.BatchSummary) string {
	t := s.Totals
	bits := []string{
		fmt.Sprintf("Processed %d cases.", t.TotalCases),
		fmt.Sprintf("Eligible: %d (full %d, partial %d).",
			t.EligibleCount, t.ModeCounts[types.ModeFull], t.ModeCounts[types.ModePartial]),
		fmt.Sprintf("Ineligible: %d.", t.IneligibleCount),
	}

	if len(s.Errors) > 0 {
		bits = append(bits, fmt.Sprintf("Errors: %d.", len(s.Errors)))
	}

	if len(t.CurrencyTotals) > 0 {
		currencies := make([]string, 0, len(t.CurrencyTotals))
		for cur := range t.CurrencyTotals {
			currencies = append(currencies, cur)
		}
		sort.Strings(currencies)

		parts := make([]string, 0, len(currencies))
		for _, cur := range currencies {
			entry := t.CurrencyTotals[cur]
			parts = append(parts, fmt.Sprintf("%s: reversible total %.2f over %d cases",
				cur, entry.ReversibleTotal, entry.Cases))
		}
		bits = append(bits, "By currency: "+strings.Join(parts, "; "))
	}

	return strings.Join(bits, " ")
}
