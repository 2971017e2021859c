package repository

import (
	"context"
	"strings"
	"time"

	"github.com/agropec/boletim/internal/cost/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cost *domain.Cost) error {
	return db.WithContext(ctx).Create(cost).Error
}

func (r *repo) ListByAnimal(ctx context.Context, db *gorm.DB, animalID snowflake.ID) ([]*domain.Cost, error) {
	var costs []*domain.Cost
	err := db.WithContext(ctx).
		Where("animal_id = ?", animalID).
		Order("created_at asc, id asc").
		Find(&costs).Error
	if err != nil {
		return nil, err
	}
	return costs, nil
}

func (r *repo) SumEffective(ctx context.Context, db *gorm.DB, animalID snowflake.ID, asOf time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) AS total
		 FROM costs
		 WHERE animal_id = ?
		   AND (effective_date IS NULL OR effective_date <= ?)`,
		animalID,
		asOf,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *repo) FindMedicationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Medication, error) {
	var med domain.Medication
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&med).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &med, nil
}

func (r *repo) FindMedicationByName(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	var med domain.Medication
	err := db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Take(&med).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &med, nil
}

func (r *repo) InsertMedication(ctx context.Context, db *gorm.DB, med *domain.Medication) error {
	return db.WithContext(ctx).Create(med).Error
}
