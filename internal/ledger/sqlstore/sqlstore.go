package sqlstore

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/davidahmann/monetic/internal/ledger"
)

// Store is the SQLite audit sink. Each Append is a single-row insert, so
// record-level atomicity comes from SQLite itself.
type Store struct {
	db *sql.DB
}

func OpenSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ledger.Migrate(db, ledger.DBSQLite); err != nil {
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
VALUES(?,?,?,?,?,?,?,?,?)`,
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
