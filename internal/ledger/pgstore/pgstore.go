package pgstore

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/davidahmann/monetic/internal/ledger"
)

// Store is the Postgres audit sink for deployments that already run Postgres;
// it writes the same reversal_audit rows as the SQLite store.
type Store struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ledger.Migrate(db, ledger.DBPostgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Append(ctx context.Context, rec ledger.AuditRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reversal_audit(ts, auth_id, request_id, merchant_id, eligible, mode, reversible_amount, notes, ops_json)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.TS,
		rec.AuthID,
		rec.RequestID,
		rec.MerchantID,
		boolToInt(rec.Eligible),
		rec.Mode,
		rec.ReversibleAmount,
		rec.Notes,
		string(rec.OpsJSON),
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
