package service

import (
	"context"
	"strings"

	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Ingest(ctx context.Context, req domain.IngestInvoiceRequest) (*domain.Invoice, error) {
	switch req.Direction {
	case domain.DirectionEntrada, domain.DirectionSaida:
	default:
		return nil, domain.ErrInvalidDirection
	}
	if req.IssuedOn.IsZero() {
		return nil, domain.ErrInvalidIssuedOn
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyInvoice
	}

	now := s.clock.Now()
	invoice := &domain.Invoice{
		ID:        s.genID.Generate(),
		Number:    strings.TrimSpace(req.Number),
		Direction: req.Direction,
		Supplier:  strings.TrimSpace(req.Supplier),
		IssuedOn:  req.IssuedOn.UTC(),
		CreatedAt: now,
	}

	total := decimal.Zero
	for _, item := range req.Items {
		kind := item.ProductKind
		if kind == "" {
			kind = domain.KindOther
		}
		itemTotal := item.Total
		if itemTotal.IsZero() {
			itemTotal = item.UnitPrice.Mul(item.Quantity).Round(2)
		}
		invoice.Items = append(invoice.Items, domain.InvoiceItem{
			ID:              s.genID.Generate(),
			InvoiceID:       invoice.ID,
			ProductKind:     kind,
			Description:     strings.TrimSpace(item.Description),
			TagIdentifier:   strings.TrimSpace(item.TagIdentifier),
			Breed:           strings.TrimSpace(item.Breed),
			WeightKg:        item.WeightKg,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Total:           itemTotal,
			StorageLocation: strings.TrimSpace(item.StorageLocation),
			Certificate:     strings.TrimSpace(item.Certificate),
			ExpiresOn:       item.ExpiresOn,
			CreatedAt:       now,
		})
		total = total.Add(itemTotal)
	}
	invoice.Total = total

	if err := s.repo.Insert(ctx, s.db, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Invoice, error) {
	return s.repo.List(ctx, s.db)
}
