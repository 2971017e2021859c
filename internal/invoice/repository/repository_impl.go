package repository

import (
	"context"

	"github.com/agropec/boletim/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	items, err := r.ListItems(ctx, db, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	err := db.WithContext(ctx).
		Order("issued_on asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	for _, invoice := range invoices {
		items, err := r.ListItems(ctx, db, invoice.ID)
		if err != nil {
			return nil, err
		}
		invoice.Items = items
	}
	return invoices, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
