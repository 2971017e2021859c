package domain

import (
	"context"
	"errors"
)

// Service is the reconciliation engine. Each flow walks external documents,
// skips the ones already marked, turns the rest into entities and ledger
// movements, and marks them. Every flow is idempotent and resumable.
type Service interface {
	SyncInvoicesToAnimals(ctx context.Context) (*Report, error)
	SyncInvoicesToLedger(ctx context.Context) (*Report, error)
	SyncDeathsToLedger(ctx context.Context) (*Report, error)
}

// ErrSourceUnavailable aborts a whole batch: the document source itself could
// not be reached, as opposed to a single bad document.
var ErrSourceUnavailable = errors.New("sync_source_unavailable")
