package service

import (
	"context"

	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/inventory/domain"
	invoicedomain "github.com/agropec/boletim/internal/invoice/domain"
	"github.com/agropec/boletim/pkg/db"
	"github.com/bwmarrin/snowflake"
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
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("inventory.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) CreateLotFromItem(ctx context.Context, item invoicedomain.InvoiceItem) (*domain.SemenLot, error) {
	switch item.ProductKind {
	case invoicedomain.KindSemen, invoicedomain.KindEmbryo:
	default:
		return nil, domain.ErrUnsupportedKind
	}

	lot := &domain.SemenLot{
		ID:              s.genID.Generate(),
		InvoiceItemID:   item.ID,
		Bull:            item.Description,
		Doses:           int(item.Quantity.IntPart()),
		UnitPrice:       item.UnitPrice,
		StorageLocation: item.StorageLocation,
		Certificate:     item.Certificate,
		ExpiresOn:       item.ExpiresOn,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(lot).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrLotExists
		}
		return nil, err
	}
	return lot, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.SemenLot, error) {
	var lots []*domain.SemenLot
	err := s.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}
