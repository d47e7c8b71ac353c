package batch

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidahmann/monetic/internal/pipeline"
	"github.com/davidahmann/monetic/pkg/types"
)

// Reconciler drives the single-case pipeline over every case file in a
// folder. One bad file never aborts the scan: its failure is recorded as an
// error string and the scan continues.
type Reconciler struct {
	Pipeline *pipeline.Pipeline

	// ExportDir, when set, receives a best-effort tabular export of the
	// summary. Export failure never affects the returned summary.
	ExportDir string

	now func() time.Time
}

func NewReconciler(p *pipeline.Pipeline, exportDir string) *Reconciler {
	return &Reconciler{Pipeline: p, ExportDir: exportDir, now: time.Now}
}

// Run processes the folder and returns the aggregated summary. It fails only
// when the folder is missing or contains no case files.
func (r *Reconciler) Run(ctx context.Context, folder string) (types.BatchSummary, error) {
	files, err := listCaseFiles(folder)
	if err != nil {
		return types.BatchSummary{}, err
	}
	if len(files) == 0 {
		return types.BatchSummary{}, fmt.Errorf("no case files in %s", folder)
	}

	summary := types.BatchSummary{
		BatchID: uuid.NewString(),
		Folder:  folder,
		Totals: types.BatchTotals{
			ModeCounts: map[string]int{
				types.ModeFull:    0,
				types.ModePartial: 0,
				types.ModeNone:    0,
			},
			CurrencyTotals: map[string]types.CurrencyTotal{},
		},
		Processed: []types.CaseResult{},
		Errors:    []string{},
	}

	for _, name := range files {
		summary.Totals.TotalCases++

		result, err := r.Pipeline.RunCase(ctx, filepath.Join(folder, name))
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		result.CaseFile = name
		summary.Processed = append(summary.Processed, result)
		tally(&summary.Totals, result.Decision)
	}

	roundCurrencyTotals(summary.Totals.CurrencyTotals)
	summary.GeneratedAt = r.now().UTC().Format(time.RFC3339)

	if r.ExportDir != "" {
		if _, err := ExportCSV(summary, r.ExportDir); err != nil {
			log.Printf("batch export failed: %v", err)
		}
	}

	return summary, nil
}

func tally(totals *types.BatchTotals, decision types.Decision) {
	totals.ModeCounts[decision.Mode]++
	if !decision.Eligible {
		totals.IneligibleCount++
		return
	}
	totals.EligibleCount++

	currency := decision.Meta.Currency
	entry := totals.CurrencyTotals[currency]
	entry.ReversibleTotal += decision.ReversibleAmount
	entry.Cases++
	totals.CurrencyTotals[currency] = entry
}

func roundCurrencyTotals(totals map[string]types.CurrencyTotal) {
	for currency, entry := range totals {
		entry.ReversibleTotal = math.Round(entry.ReversibleTotal*100) / 100
		totals[currency] = entry
	}
}

func listCaseFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read case folder: %w", err)
	}

	out := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".xml", ".csv":
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
