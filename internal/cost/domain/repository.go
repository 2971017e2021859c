package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cost *Cost) error
	ListByAnimal(ctx context.Context, db *gorm.DB, animalID snowflake.ID) ([]*Cost, error)
	// SumEffective totals the animal's costs whose effective date is null or
	// on/before asOf.
	SumEffective(ctx context.Context, db *gorm.DB, animalID snowflake.ID, asOf time.Time) (decimal.Decimal, error)
	FindMedicationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Medication, error)
	FindMedicationByName(ctx context.Context, db *gorm.DB, name string) (*Medication, error)
	InsertMedication(ctx context.Context, db *gorm.DB, med *Medication) error
}
