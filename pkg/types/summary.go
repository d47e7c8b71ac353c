package types

// CaseResult is the outcome of one successfully processed case file.
type CaseResult struct {
	CaseFile     string      `json:"case_file"`
	Decision     Decision    `json:"decision"`
	Ops          []Operation `json:"ops"`
	NotifyStatus string      `json:"notify_status,omitempty"`
}

type CurrencyTotal struct {
	ReversibleTotal float64 `json:"reversible_total"`
	Cases           int     `json:"cases"`
}

type BatchTotals struct {
	TotalCases      int                      `json:"total_cases"`
	EligibleCount   int                      `json:"eligible_count"`
	IneligibleCount int                      `json:"ineligible_count"`
	ModeCounts      map[string]int           `json:"mode_counts"`
	CurrencyTotals  map[string]CurrencyTotal `json:"currency_totals"`
}

// BatchSummary aggregates one reconciliation pass over a folder of case files.
type BatchSummary struct {
	BatchID     string       `json:"batch_id"`
	Folder      string       `json:"folder"`
	Totals      BatchTotals  `json:"totals"`
	Processed   []CaseResult `json:"processed"`
	Errors      []string     `json:"errors"`
	GeneratedAt string       `json:"generated_at"`
}
