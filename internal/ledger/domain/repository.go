package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TypeTotal is one row of the per-type aggregate over a period's movements.
type TypeTotal struct {
	Type  MovementType
	Total decimal.Decimal
}

type Repository interface {
	// InsertPeriod inserts the period unless one with the same label already
	// exists; concurrent creators race safely on the label's unique index.
	InsertPeriod(ctx context.Context, db *gorm.DB, period *Period) error
	FindPeriodByLabel(ctx context.Context, db *gorm.DB, label string) (*Period, error)
	FindPeriodByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Period, error)
	UpdatePeriod(ctx context.Context, db *gorm.DB, period *Period) error
	InsertMovement(ctx context.Context, db *gorm.DB, movement *Movement) error
	ListMovements(ctx context.Context, db *gorm.DB, periodID snowflake.ID) ([]*Movement, error)
	SumByType(ctx context.Context, db *gorm.DB, periodID snowflake.ID) ([]TypeTotal, error)
	PeriodIDsForAnimal(ctx context.Context, db *gorm.DB, animalID snowflake.ID) ([]snowflake.ID, error)
	DeleteMovementsForAnimal(ctx context.Context, db *gorm.DB, animalID snowflake.ID) error
}
