package repository

import (
	"context"

	"github.com/agropec/boletim/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertPeriod(ctx context.Context, db *gorm.DB, period *domain.Period) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO periods (
			id, label, locality, status,
			total_entrada, total_saida, total_custo, total_receita, balance,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (label) DO NOTHING`,
		period.ID,
		period.Label,
		period.Locality,
		period.Status,
		period.TotalEntrada,
		period.TotalSaida,
		period.TotalCusto,
		period.TotalReceita,
		period.Balance,
		period.CreatedAt,
		period.UpdatedAt,
	).Error
}

func (r *repo) FindPeriodByLabel(ctx context.Context, db *gorm.DB, label string) (*domain.Period, error) {
	var period domain.Period
	err := db.WithContext(ctx).
		Where("label = ?", label).
		Take(&period).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

func (r *repo) FindPeriodByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Period, error) {
	var period domain.Period
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&period).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

func (r *repo) UpdatePeriod(ctx context.Context, db *gorm.DB, period *domain.Period) error {
	return db.WithContext(ctx).Save(period).Error
}

func (r *repo) InsertMovement(ctx context.Context, db *gorm.DB, movement *domain.Movement) error {
	return db.WithContext(ctx).Create(movement).Error
}

func (r *repo) ListMovements(ctx context.Context, db *gorm.DB, periodID snowflake.ID) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	err := db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("movement_date asc, id asc").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repo) SumByType(ctx context.Context, db *gorm.DB, periodID snowflake.ID) ([]domain.TypeTotal, error) {
	var totals []domain.TypeTotal
	err := db.WithContext(ctx).Raw(
		`SELECT type, COALESCE(SUM(amount), 0) AS total
		 FROM movements
		 WHERE period_id = ?
		 GROUP BY type`,
		periodID,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repo) PeriodIDsForAnimal(ctx context.Context, db *gorm.DB, animalID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT period_id FROM movements WHERE animal_id = ?`,
		animalID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) DeleteMovementsForAnimal(ctx context.Context, db *gorm.DB, animalID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM movements WHERE animal_id = ?`, animalID,
	).Error
}
