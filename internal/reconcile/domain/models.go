package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Marker sources, one namespace per sync flow.
const (
	SourceInvoiceAnimal = "invoice_animal"
	SourceInvoiceLedger = "invoice_ledger"
	SourceDeathLedger   = "death_ledger"
)

// SyncMarker associates an external document with "already processed" state.
// The unique (source, document_id) pair makes repeated sync runs, concurrent
// ones included, produce at most one ledger effect per document: the first
// writer wins and the loser sees a benign already-synced outcome.
type SyncMarker struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Source     string       `gorm:"type:text;not null;uniqueIndex:ux_sync_markers_source_document,priority:1" json:"source"`
	DocumentID snowflake.ID `gorm:"not null;uniqueIndex:ux_sync_markers_source_document,priority:2" json:"document_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SyncMarker) TableName() string { return "sync_markers" }

// ItemError describes one document the flow could not process.
type ItemError struct {
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

// Report summarises one sync flow run. Per-item failures never abort the
// batch; they accumulate here so operators can fix the data and re-run.
type Report struct {
	RunID     string      `json:"run_id"`
	Flow      string      `json:"flow"`
	Processed int         `json:"processed"`
	Succeeded int         `json:"succeeded"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Errors    []ItemError `json:"errors"`
}
