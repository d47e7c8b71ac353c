package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/davidahmann/monetic/internal/ledger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndReadBack(t *testing.T) {
	s := openTestStore(t)

	rec := ledger.AuditRecord{
		TS:               "2025-01-01T00:10:00Z",
		AuthID:           "A-100",
		RequestID:        "R-7",
		MerchantID:       "M-9",
		Eligible:         true,
		Mode:             "full",
		ReversibleAmount: 100.00,
		Notes:            "No capture yet; full amount is on hold.",
		OpsJSON:          []byte(`[{"op":"RELEASE_HOLD","amount":100,"currency":"USD"}]`),
	}
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	var (
		eligible int
		mode     string
		amount   float64
		opsJSON  string
	)
	row := s.DB().QueryRow(`SELECT eligible, mode, reversible_amount, ops_json FROM reversal_audit WHERE auth_id = ?`, "A-100")
	if err := row.Scan(&eligible, &mode, &amount, &opsJSON); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if eligible != 1 || mode != "full" || amount != 100.00 {
		t.Fatalf("unexpected row: eligible=%d mode=%s amount=%v", eligible, mode, amount)
	}
	if opsJSON != string(rec.OpsJSON) {
		t.Fatalf("unexpected ops_json: %s", opsJSON)
	}
}

func TestAppendHonorsContextCancellation(t *testing.T) {
	s := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Append(ctx, ledger.AuditRecord{TS: "2025-01-01T00:00:00Z", AuthID: "A-1"})
	if err == nil {
		t.Fatalf("expected error from cancelled context")
	}
}

func TestOpenSQLiteBadPath(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "missing", "nested", "audit.db")); err == nil {
		t.Fatalf("expected error for unreachable database path")
	}
}
