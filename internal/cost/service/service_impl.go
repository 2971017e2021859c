package service

import (
	"context"
	"strings"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/config"
	"github.com/agropec/boletim/internal/cost/domain"
	"github.com/agropec/boletim/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Animals  animaldomain.Repository
	Matching *config.MatchingConfigHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	animals  animaldomain.Repository
	matching *config.MatchingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("cost.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		animals:  p.Animals,
		matching: p.Matching,
	}
}

func (s *Service) AddCost(ctx context.Context, req domain.AddCostRequest) (*domain.Cost, error) {
	if strings.TrimSpace(req.Type) == "" {
		return nil, domain.ErrInvalidType
	}
	if req.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	animal, err := s.animals.FindByID(ctx, s.db, req.AnimalID)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		return nil, animaldomain.ErrNotFound
	}

	cost := &domain.Cost{
		ID:            s.genID.Generate(),
		AnimalID:      req.AnimalID,
		Type:          strings.TrimSpace(req.Type),
		Subtype:       strings.TrimSpace(req.Subtype),
		Amount:        req.Amount,
		EffectiveDate: req.EffectiveDate,
		Detail:        req.Detail,
		CreatedAt:     s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, cost); err != nil {
			return err
		}
		_, err := s.recomputeTotal(ctx, tx, animal)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cost, nil
}

func (s *Service) RecomputeTotal(ctx context.Context, animalID snowflake.ID) (decimal.Decimal, error) {
	animal, err := s.animals.FindByID(ctx, s.db, animalID)
	if err != nil {
		return decimal.Zero, err
	}
	if animal == nil {
		return decimal.Zero, animaldomain.ErrNotFound
	}
	return s.recomputeTotal(ctx, s.db, animal)
}

func (s *Service) recomputeTotal(ctx context.Context, db *gorm.DB, animal *animaldomain.Animal) (decimal.Decimal, error) {
	total, err := s.repo.SumEffective(ctx, db, animal.ID, clock.Today(s.clock))
	if err != nil {
		return decimal.Zero, err
	}

	epsilon, err := decimal.NewFromString(s.matching.Get().RollupEpsilon)
	if err != nil {
		epsilon = decimal.RequireFromString(config.DefaultMatchingConfig().RollupEpsilon)
	}

	// Skip the write when the cached value is already within epsilon; the
	// rollup runs after every cost-producing event and most runs change
	// nothing.
	if animal.TotalCost.Sub(total).Abs().LessThanOrEqual(epsilon) {
		return total, nil
	}

	animal.TotalCost = total
	animal.UpdatedAt = s.clock.Now()
	if err := s.animals.Update(ctx, db, animal); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Service) ApplyMedicationCost(ctx context.Context, req domain.ApplyMedicationRequest) (*domain.ApplyMedicationResult, error) {
	if req.QtyAdministered.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	med, err := s.findMedication(ctx, req)
	if err != nil {
		return nil, err
	}

	amount := medicationCost(med, req.QtyAdministered, req.PackageQtyOverride)

	cost, err := s.AddCost(ctx, domain.AddCostRequest{
		AnimalID: req.AnimalID,
		Type:     "medicamento",
		Subtype:  med.Name,
		Amount:   amount,
		Detail:   `{"qty_administered":"` + req.QtyAdministered.String() + `"}`,
	})
	if err != nil {
		return nil, err
	}

	animal, err := s.animals.FindByID(ctx, s.db, req.AnimalID)
	if err != nil {
		return nil, err
	}

	return &domain.ApplyMedicationResult{
		Cost:   cost,
		Amount: amount,
		Total:  animal.TotalCost,
	}, nil
}

func (s *Service) findMedication(ctx context.Context, req domain.ApplyMedicationRequest) (*domain.Medication, error) {
	if req.MedicationID != nil {
		med, err := s.repo.FindMedicationByID(ctx, s.db, *req.MedicationID)
		if err != nil {
			return nil, err
		}
		if med == nil {
			return nil, domain.ErrMedicationNotFound
		}
		return med, nil
	}
	if strings.TrimSpace(req.MedicationName) == "" {
		return nil, domain.ErrInvalidMedication
	}
	med, err := s.repo.FindMedicationByName(ctx, s.db, req.MedicationName)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrMedicationNotFound
	}
	return med, nil
}

// medicationCost applies the pricing policy: proportional share of the
// package when the package quantity is known, else the flat per-head price,
// else the full package price. Never silently zero.
func medicationCost(med *domain.Medication, qty decimal.Decimal, packageQtyOverride *decimal.Decimal) decimal.Decimal {
	packageQty := med.PackageQty
	if packageQtyOverride != nil {
		packageQty = packageQtyOverride
	}
	if packageQty != nil && packageQty.IsPositive() {
		return med.PackagePrice.Div(*packageQty).Mul(qty).Round(2)
	}
	if med.FlatPricePerHead != nil {
		return *med.FlatPricePerHead
	}
	return med.PackagePrice
}

func (s *Service) ListForAnimal(ctx context.Context, animalID snowflake.ID) ([]*domain.Cost, error) {
	return s.repo.ListByAnimal(ctx, s.db, animalID)
}

func (s *Service) CreateMedication(ctx context.Context, med *domain.Medication) (*domain.Medication, error) {
	if strings.TrimSpace(med.Name) == "" {
		return nil, domain.ErrInvalidMedication
	}
	med.ID = s.genID.Generate()
	med.Name = strings.TrimSpace(med.Name)
	med.CreatedAt = s.clock.Now()
	if err := s.repo.InsertMedication(ctx, s.db, med); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrMedicationExists
		}
		return nil, err
	}
	return med, nil
}
