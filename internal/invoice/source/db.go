package source

import (
	"context"

	"github.com/agropec/boletim/internal/invoice/domain"
	"gorm.io/gorm"
)

// dbSource feeds the sync engine from the locally ingested invoices.
type dbSource struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewDBSource(db *gorm.DB, repo domain.Repository) domain.Source {
	return &dbSource{db: db, repo: repo}
}

func (s *dbSource) FetchInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	return s.repo.List(ctx, s.db)
}
