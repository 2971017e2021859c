package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, animal *Animal) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Animal, error)
	FindByPair(ctx context.Context, db *gorm.DB, series, regNo string) ([]*Animal, error)
	FindBySeries(ctx context.Context, db *gorm.DB, series string) ([]*Animal, error)
	FindByRegNo(ctx context.Context, db *gorm.DB, regNo string) ([]*Animal, error)
	List(ctx context.Context, db *gorm.DB, filter ListAnimalFilter) ([]*Animal, error)
	Update(ctx context.Context, db *gorm.DB, animal *Animal) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DuplicatePairs(ctx context.Context, db *gorm.DB) ([]DuplicatePair, error)
}
