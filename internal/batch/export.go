package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidahmann/monetic/pkg/types"
)

var exportHeader = []string{"case_file", "eligible", "mode", "reversible_amount", "currency", "notes"}

// ExportCSV writes the summary as a flat table, one row per processed case
// plus one marker row per error. Returns the written file path.
func ExportCSV(summary types.BatchSummary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("batch_%s.csv", summary.BatchID))
	// #nosec G304 -- path is derived from the operator-provided export dir.
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return "", err
	}

	for _, result := range summary.Processed {
		row := []string{
			result.CaseFile,
			fmt.Sprintf("%t", result.Decision.Eligible),
			result.Decision.Mode,
			fmt.Sprintf("%.2f", result.Decision.ReversibleAmount),
			result.Decision.Meta.Currency,
			result.Decision.Notes,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	for _, errEntry := range summary.Errors {
		name := errEntry
		if i := strings.Index(errEntry, ": "); i >= 0 {
			name = errEntry[:i]
		}
		if err := w.Write([]string{"[ERROR] " + name, "", "", "", "", ""}); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
