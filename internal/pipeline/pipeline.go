package pipeline

import (
	"context"
	"time"

	"github.com/davidahmann/monetic/internal/casefile"
	"github.com/davidahmann/monetic/internal/eligibility"
	"github.com/davidahmann/monetic/internal/ledger"
	"github.com/davidahmann/monetic/internal/rules"
	"github.com/davidahmann/monetic/internal/webhook"
	"github.com/davidahmann/monetic/pkg/types"
)

const defaultAppendTimeout = 5 * time.Second

// Pipeline runs the full single-case chain: load, resolve rules, evaluate,
// plan, audit, notify. The audit append must succeed before the case counts
// as processed; notification is best-effort and only contributes a status.
type Pipeline struct {
	Rules         *rules.Resolver
	Store         ledger.Store
	Notifier      *webhook.Notifier
	AppendTimeout time.Duration

	now func() time.Time
}

func New(resolver *rules.Resolver, store ledger.Store, notifier *webhook.Notifier) *Pipeline {
	return &Pipeline{
		Rules:         resolver,
		Store:         store,
		Notifier:      notifier,
		AppendTimeout: defaultAppendTimeout,
		now:           time.Now,
	}
}

// RunCase processes one case file and returns its result. Any failure before
// the audit append, and the append itself, propagate to the caller.
func (p *Pipeline) RunCase(ctx context.Context, path string) (types.CaseResult, error) {
	c, err := casefile.Load(path)
	if err != nil {
		return types.CaseResult{}, err
	}

	ruleset, err := p.Rules.Resolve(c)
	if err != nil {
		return types.CaseResult{}, err
	}

	decision, err := eligibility.Evaluate(c, ruleset)
	if err != nil {
		return types.CaseResult{}, err
	}

	ops := ledger.Plan(decision)

	rec, err := ledger.NewAuditRecord(decision, ops, p.now())
	if err != nil {
		return types.CaseResult{}, &ledger.PersistenceError{Err: err}
	}

	timeout := p.AppendTimeout
	if timeout <= 0 {
		timeout = defaultAppendTimeout
	}
	appendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Store.Append(appendCtx, rec); err != nil {
		return types.CaseResult{}, &ledger.PersistenceError{Err: err}
	}

	status := p.Notifier.Notify(ctx, decision, ops)

	return types.CaseResult{
		CaseFile:     path,
		Decision:     decision,
		Ops:          ops,
		NotifyStatus: status,
	}, nil
}
