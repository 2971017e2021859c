package domain

import (
	"context"
	"errors"

	invoicedomain "github.com/agropec/boletim/internal/invoice/domain"
)

type Service interface {
	// CreateLotFromItem materialises an inventory lot from a semen or embryo
	// invoice item. Idempotent on the invoice item: a second call for the
	// same item returns ErrLotExists.
	CreateLotFromItem(ctx context.Context, item invoicedomain.InvoiceItem) (*SemenLot, error)
	List(ctx context.Context) ([]*SemenLot, error)
}

var (
	ErrLotExists       = errors.New("semen_lot_exists")
	ErrUnsupportedKind = errors.New("unsupported_product_kind")
)
