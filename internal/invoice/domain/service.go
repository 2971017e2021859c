package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type IngestItemRequest struct {
	ProductKind     ProductKind
	Description     string
	TagIdentifier   string
	Breed           string
	WeightKg        *decimal.Decimal
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal
	StorageLocation string
	Certificate     string
	ExpiresOn       *time.Time
}

type IngestInvoiceRequest struct {
	Number    string
	Direction InvoiceDirection
	Supplier  string
	IssuedOn  time.Time
	Items     []IngestItemRequest
}

type Service interface {
	Ingest(ctx context.Context, req IngestInvoiceRequest) (*Invoice, error)
	Get(ctx context.Context, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context) ([]*Invoice, error)
}

// Source abstracts where the sync engine pulls invoices from. The local
// database is the default; a remote upstream can be configured, in which case
// each fetch is timeout-bounded and cancellable so a stalled upstream never
// holds a sync transaction open.
type Source interface {
	FetchInvoices(ctx context.Context) ([]*Invoice, error)
}

var (
	ErrInvalidDirection = errors.New("invalid_invoice_direction")
	ErrInvalidIssuedOn  = errors.New("invalid_invoice_date")
	ErrEmptyInvoice     = errors.New("invoice_without_items")
	ErrNotFound         = errors.New("invoice_not_found")
)
