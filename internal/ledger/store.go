package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davidahmann/monetic/pkg/types"
)

// Store is the append-only audit sink. Records are self-contained, so
// concurrent appenders from independent pipeline runs are safe as long as each
// append is atomic at the record level.
type Store interface {
	Append(ctx context.Context, rec AuditRecord) error
	Close() error
}

// AuditRecord mirrors the reversal_audit table: one row per evaluated case.
type AuditRecord struct {
	TS               string
	AuthID           string
	RequestID        string
	MerchantID       string
	Eligible         bool
	Mode             string
	ReversibleAmount float64
	Notes            string
	OpsJSON          []byte
}

// NewAuditRecord flattens a decision and its planned operations into a record.
func NewAuditRecord(decision types.Decision, ops []types.Operation, now time.Time) (AuditRecord, error) {
	opsJSON, err := json.Marshal(ops)
	if err != nil {
		return AuditRecord{}, err
	}
	return AuditRecord{
		TS:               now.UTC().Format(time.RFC3339),
		AuthID:           decision.Meta.AuthID,
		RequestID:        decision.Meta.RequestID,
		MerchantID:       decision.Meta.MerchantID,
		Eligible:         decision.Eligible,
		Mode:             decision.Mode,
		ReversibleAmount: decision.ReversibleAmount,
		Notes:            decision.Notes,
		OpsJSON:          opsJSON,
	}, nil
}

// PersistenceError marks a failed audit append. Unlike notification failures,
// it propagates: a single-case pipeline must not report success without a
// durable audit record.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("audit append failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
