package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type AddCostRequest struct {
	AnimalID      snowflake.ID
	Type          string
	Subtype       string
	Amount        decimal.Decimal
	EffectiveDate *time.Time
	Detail        string
}

type ApplyMedicationRequest struct {
	AnimalID snowflake.ID
	// Either MedicationID or MedicationName selects the medication.
	MedicationID    *snowflake.ID
	MedicationName  string
	QtyAdministered decimal.Decimal
	// PackageQtyOverride takes precedence over the medication's own package
	// quantity when the applied package differs from the catalog one.
	PackageQtyOverride *decimal.Decimal
}

type ApplyMedicationResult struct {
	Cost   *Cost           `json:"cost"`
	Amount decimal.Decimal `json:"amount"`
	Total  decimal.Decimal `json:"total"`
}

type Service interface {
	// AddCost appends a cost line item and recomputes the animal's cached
	// total.
	AddCost(ctx context.Context, req AddCostRequest) (*Cost, error)
	// RecomputeTotal re-derives the animal's cached total cost from its cost
	// rows, excluding entries effective after today. The cached value is only
	// rewritten when it drifts by more than the configured epsilon.
	RecomputeTotal(ctx context.Context, animalID snowflake.ID) (decimal.Decimal, error)
	// ApplyMedicationCost records the proportional cost of an administered
	// medication: (packagePrice / packageQty) × qty, falling back to the flat
	// per-head price and finally to the bare package price.
	ApplyMedicationCost(ctx context.Context, req ApplyMedicationRequest) (*ApplyMedicationResult, error)
	ListForAnimal(ctx context.Context, animalID snowflake.ID) ([]*Cost, error)
	CreateMedication(ctx context.Context, med *Medication) (*Medication, error)
}

var (
	ErrInvalidAmount      = errors.New("invalid_cost_amount")
	ErrInvalidType        = errors.New("invalid_cost_type")
	ErrInvalidQuantity    = errors.New("invalid_quantity_administered")
	ErrMedicationNotFound = errors.New("medication_not_found")
	ErrMedicationExists   = errors.New("medication_exists")
	ErrInvalidMedication  = errors.New("invalid_medication")
)
