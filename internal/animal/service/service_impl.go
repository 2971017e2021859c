package service

import (
	"context"
	"strings"

	"github.com/agropec/boletim/internal/animal/domain"
	"github.com/agropec/boletim/internal/clock"
	ledgerdomain "github.com/agropec/boletim/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Ledger ledgerdomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   domain.Repository
	ledger ledgerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("animal.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		ledger: p.Ledger,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAnimalRequest) (*domain.Animal, error) {
	series := strings.ToUpper(strings.TrimSpace(req.Series))
	regNo := strings.TrimSpace(req.RegNo)
	if series == "" {
		return nil, domain.ErrInvalidSeries
	}
	if regNo == "" {
		return nil, domain.ErrInvalidRegNo
	}

	now := s.clock.Now()
	animal := &domain.Animal{
		ID:            s.genID.Generate(),
		Series:        series,
		RegNo:         regNo,
		Sex:           strings.TrimSpace(req.Sex),
		Breed:         strings.TrimSpace(req.Breed),
		Status:        domain.StatusActive,
		TotalCost:     decimal.Zero,
		Supplier:      strings.TrimSpace(req.Supplier),
		PurchasePrice: req.PurchasePrice,
		WeightKg:      req.WeightKg,
		AcquiredOn:    req.AcquiredOn,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if existing, err := s.repo.FindByPair(ctx, s.db, series, regNo); err != nil {
		return nil, err
	} else if len(existing) > 0 {
		s.log.Warn("registering duplicate series/reg_no pair",
			zap.String("series", series),
			zap.String("reg_no", regNo),
			zap.Int("existing", len(existing)),
		)
	}

	if err := s.repo.Insert(ctx, s.db, animal); err != nil {
		return nil, err
	}
	return animal, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Animal, error) {
	animal, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		return nil, domain.ErrNotFound
	}
	return animal, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListAnimalFilter) ([]*domain.Animal, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateAnimalRequest) (*domain.Animal, error) {
	animal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Sex != nil {
		animal.Sex = strings.TrimSpace(*req.Sex)
	}
	if req.Breed != nil {
		animal.Breed = strings.TrimSpace(*req.Breed)
	}
	if req.Supplier != nil {
		animal.Supplier = strings.TrimSpace(*req.Supplier)
	}
	if req.PurchasePrice != nil {
		animal.PurchasePrice = req.PurchasePrice
	}
	if req.WeightKg != nil {
		animal.WeightKg = req.WeightKg
	}
	if req.SaleValue != nil {
		animal.SaleValue = req.SaleValue
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.StatusActive, domain.StatusSold, domain.StatusDead:
			animal.Status = *req.Status
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	animal.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, animal); err != nil {
		return nil, err
	}
	return animal, nil
}

// Delete removes an animal and every dependent record in one transaction:
// the ledger reversal recomputes the touched period summaries, then the
// deaths, costs and the animal row itself go.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	animal, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.RemoveMovementsForAnimalTx(ctx, tx, animal.ID); err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM deaths WHERE animal_id = ?`, animal.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM costs WHERE animal_id = ?`, animal.ID).Error; err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, animal.ID)
	})
}

func (s *Service) FindDuplicatePairs(ctx context.Context) ([]domain.DuplicatePair, error) {
	return s.repo.DuplicatePairs(ctx, s.db)
}
