package service

import (
	"context"
	"strings"

	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/ledger/domain"
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
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) GetOrCreatePeriod(ctx context.Context, label string) (*domain.Period, error) {
	return s.getOrCreatePeriod(ctx, s.db, label)
}

func (s *Service) getOrCreatePeriod(ctx context.Context, db *gorm.DB, label string) (*domain.Period, error) {
	label = strings.TrimSpace(label)
	if !domain.ValidLabel(label) {
		return nil, domain.ErrInvalidLabel
	}

	period, err := s.repo.FindPeriodByLabel(ctx, db, label)
	if err != nil {
		return nil, err
	}
	if period != nil {
		return period, nil
	}

	now := s.clock.Now()
	fresh := &domain.Period{
		ID:           s.genID.Generate(),
		Label:        label,
		Status:       "open",
		TotalEntrada: decimal.Zero,
		TotalSaida:   decimal.Zero,
		TotalCusto:   decimal.Zero,
		TotalReceita: decimal.Zero,
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// ON CONFLICT DO NOTHING keeps this safe when two callers race on the
	// same new label; whoever loses just reads the winner's row back.
	if err := s.repo.InsertPeriod(ctx, db, fresh); err != nil {
		return nil, err
	}

	period, err = s.repo.FindPeriodByLabel(ctx, db, label)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, domain.ErrPeriodNotFound
	}
	return period, nil
}

func (s *Service) RecordMovement(ctx context.Context, req domain.RecordMovementRequest) (*domain.Movement, error) {
	var movement *domain.Movement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = s.RecordMovementTx(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *Service) RecordMovementTx(ctx context.Context, tx *gorm.DB, req domain.RecordMovementRequest) (*domain.Movement, error) {
	if !domain.ValidLabel(strings.TrimSpace(req.PeriodLabel)) {
		return nil, domain.ErrInvalidLabel
	}
	switch req.Type {
	case domain.TypeEntrada, domain.TypeSaida, domain.TypeCusto, domain.TypeReceita:
	default:
		return nil, domain.ErrInvalidType
	}
	if strings.TrimSpace(req.Subtype) == "" {
		return nil, domain.ErrInvalidSubtype
	}
	if req.MovementDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	period, err := s.getOrCreatePeriod(ctx, tx, strings.TrimSpace(req.PeriodLabel))
	if err != nil {
		return nil, err
	}

	movement := &domain.Movement{
		ID:           s.genID.Generate(),
		PeriodID:     period.ID,
		Type:         req.Type,
		Subtype:      strings.TrimSpace(req.Subtype),
		AnimalID:     req.AnimalID,
		Amount:       req.Amount,
		MovementDate: req.MovementDate.UTC(),
		Description:  strings.TrimSpace(req.Description),
		Notes:        strings.TrimSpace(req.Notes),
		Extra:        req.Extra,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.InsertMovement(ctx, tx, movement); err != nil {
		return nil, err
	}

	if _, err := s.recomputeSummary(ctx, tx, period.ID); err != nil {
		return nil, err
	}

	s.log.Info("movement recorded",
		zap.String("period", req.PeriodLabel),
		zap.String("type", string(movement.Type)),
		zap.String("subtype", movement.Subtype),
		zap.String("amount", movement.Amount.String()),
	)
	return movement, nil
}

func (s *Service) RecomputeSummary(ctx context.Context, periodID snowflake.ID) (domain.Summary, error) {
	var summary domain.Summary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		summary, err = s.recomputeSummary(ctx, tx, periodID)
		return err
	})
	return summary, err
}

func (s *Service) recomputeSummary(ctx context.Context, db *gorm.DB, periodID snowflake.ID) (domain.Summary, error) {
	period, err := s.repo.FindPeriodByID(ctx, db, periodID)
	if err != nil {
		return domain.Summary{}, err
	}
	if period == nil {
		return domain.Summary{}, domain.ErrPeriodNotFound
	}

	totals, err := s.repo.SumByType(ctx, db, periodID)
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		Entrada: decimal.Zero,
		Saida:   decimal.Zero,
		Custo:   decimal.Zero,
		Receita: decimal.Zero,
	}
	for _, row := range totals {
		switch row.Type {
		case domain.TypeEntrada:
			summary.Entrada = row.Total
		case domain.TypeSaida:
			summary.Saida = row.Total
		case domain.TypeCusto:
			summary.Custo = row.Total
		case domain.TypeReceita:
			summary.Receita = row.Total
		}
	}
	summary.Balance = summary.Receita.Add(summary.Entrada).Sub(summary.Saida).Sub(summary.Custo)

	now := s.clock.Now()
	period.TotalEntrada = summary.Entrada
	period.TotalSaida = summary.Saida
	period.TotalCusto = summary.Custo
	period.TotalReceita = summary.Receita
	period.Balance = summary.Balance
	period.RecomputedAt = &now
	period.UpdatedAt = now

	if err := s.repo.UpdatePeriod(ctx, db, period); err != nil {
		return domain.Summary{}, err
	}
	return summary, nil
}

func (s *Service) GetPeriod(ctx context.Context, label string) (*domain.PeriodWithMovements, error) {
	label = strings.TrimSpace(label)
	if !domain.ValidLabel(label) {
		return nil, domain.ErrInvalidLabel
	}

	period, err := s.repo.FindPeriodByLabel(ctx, s.db, label)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, domain.ErrPeriodNotFound
	}

	movements, err := s.repo.ListMovements(ctx, s.db, period.ID)
	if err != nil {
		return nil, err
	}
	return &domain.PeriodWithMovements{Period: period, Movements: movements}, nil
}

func (s *Service) UpdatePeriod(ctx context.Context, label string, req domain.UpdatePeriodRequest) (*domain.Period, error) {
	label = strings.TrimSpace(label)
	if !domain.ValidLabel(label) {
		return nil, domain.ErrInvalidLabel
	}

	period, err := s.repo.FindPeriodByLabel(ctx, s.db, label)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, domain.ErrPeriodNotFound
	}

	if req.Locality != nil {
		period.Locality = strings.TrimSpace(*req.Locality)
	}
	if req.Status != nil {
		period.Status = strings.TrimSpace(*req.Status)
	}
	period.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdatePeriod(ctx, s.db, period); err != nil {
		return nil, err
	}
	return period, nil
}

func (s *Service) RemoveMovementsForAnimal(ctx context.Context, animalID snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.RemoveMovementsForAnimalTx(ctx, tx, animalID)
	})
}

func (s *Service) RemoveMovementsForAnimalTx(ctx context.Context, tx *gorm.DB, animalID snowflake.ID) error {
	periodIDs, err := s.repo.PeriodIDsForAnimal(ctx, tx, animalID)
	if err != nil {
		return err
	}
	if len(periodIDs) == 0 {
		return nil
	}
	if err := s.repo.DeleteMovementsForAnimal(ctx, tx, animalID); err != nil {
		return err
	}
	for _, periodID := range periodIDs {
		if _, err := s.recomputeSummary(ctx, tx, periodID); err != nil {
			return err
		}
	}
	return nil
}
