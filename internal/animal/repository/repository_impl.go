package repository

import (
	"context"
	"strings"

	"github.com/agropec/boletim/internal/animal/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, animal *domain.Animal) error {
	return db.WithContext(ctx).Create(animal).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Animal, error) {
	var animal domain.Animal
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&animal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &animal, nil
}

func (r *repo) FindByPair(ctx context.Context, db *gorm.DB, series, regNo string) ([]*domain.Animal, error) {
	var animals []*domain.Animal
	err := db.WithContext(ctx).
		Where("LOWER(series) = ? AND LOWER(reg_no) = ?",
			strings.ToLower(strings.TrimSpace(series)),
			strings.ToLower(strings.TrimSpace(regNo)),
		).
		Order("created_at desc, id desc").
		Find(&animals).Error
	if err != nil {
		return nil, err
	}
	return animals, nil
}

func (r *repo) FindBySeries(ctx context.Context, db *gorm.DB, series string) ([]*domain.Animal, error) {
	var animals []*domain.Animal
	err := db.WithContext(ctx).
		Where("LOWER(series) = ?", strings.ToLower(strings.TrimSpace(series))).
		Order("created_at desc, id desc").
		Find(&animals).Error
	if err != nil {
		return nil, err
	}
	return animals, nil
}

func (r *repo) FindByRegNo(ctx context.Context, db *gorm.DB, regNo string) ([]*domain.Animal, error) {
	var animals []*domain.Animal
	err := db.WithContext(ctx).
		Where("LOWER(reg_no) = ?", strings.ToLower(strings.TrimSpace(regNo))).
		Order("created_at desc, id desc").
		Find(&animals).Error
	if err != nil {
		return nil, err
	}
	return animals, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListAnimalFilter) ([]*domain.Animal, error) {
	var animals []*domain.Animal
	stmt := db.WithContext(ctx).Model(&domain.Animal{})
	if filter.Series != "" {
		stmt = stmt.Where("LOWER(series) = ?", strings.ToLower(filter.Series))
	}
	if filter.RegNo != "" {
		stmt = stmt.Where("LOWER(reg_no) = ?", strings.ToLower(filter.RegNo))
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&animals).Error
	if err != nil {
		return nil, err
	}
	return animals, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, animal *domain.Animal) error {
	return db.WithContext(ctx).Save(animal).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM animals WHERE id = ?`, id).Error
}

func (r *repo) DuplicatePairs(ctx context.Context, db *gorm.DB) ([]domain.DuplicatePair, error) {
	var pairs []domain.DuplicatePair
	err := db.WithContext(ctx).Raw(
		`SELECT series, reg_no, COUNT(*) AS count
		 FROM animals
		 WHERE series <> '' AND reg_no <> ''
		 GROUP BY series, reg_no
		 HAVING COUNT(*) > 1`,
	).Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
