package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateAnimalRequest struct {
	Series        string
	RegNo         string
	Sex           string
	Breed         string
	Supplier      string
	PurchasePrice *decimal.Decimal
	WeightKg      *decimal.Decimal
	AcquiredOn    *time.Time
}

type UpdateAnimalRequest struct {
	Sex           *string
	Breed         *string
	Supplier      *string
	PurchasePrice *decimal.Decimal
	WeightKg      *decimal.Decimal
	SaleValue     *decimal.Decimal
	Status        *AnimalStatus
}

type ListAnimalFilter struct {
	Series string
	RegNo  string
	Status AnimalStatus
}

type Service interface {
	Create(ctx context.Context, req CreateAnimalRequest) (*Animal, error)
	Get(ctx context.Context, id snowflake.ID) (*Animal, error)
	List(ctx context.Context, filter ListAnimalFilter) ([]*Animal, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateAnimalRequest) (*Animal, error)
	// Delete removes the animal together with its costs and ledger movements,
	// recomputing every period summary the movements touched.
	Delete(ctx context.Context, id snowflake.ID) error
	FindDuplicatePairs(ctx context.Context) ([]DuplicatePair, error)
}

var (
	ErrNotFound      = errors.New("animal_not_found")
	ErrInvalidRegNo  = errors.New("invalid_reg_no")
	ErrInvalidSeries = errors.New("invalid_series")
	ErrAlreadyDead   = errors.New("animal_already_dead")
	ErrInvalidStatus = errors.New("invalid_status")
)
