package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordMovementRequest struct {
	PeriodLabel  string
	Type         MovementType
	Subtype      string
	AnimalID     *snowflake.ID
	Amount       decimal.Decimal
	MovementDate time.Time
	Description  string
	Notes        string
	Extra        string
}

type UpdatePeriodRequest struct {
	Locality *string
	Status   *string
}

type PeriodWithMovements struct {
	Period    *Period     `json:"period"`
	Movements []*Movement `json:"movements"`
}

type Service interface {
	// GetOrCreatePeriod returns the period for label, creating it with a
	// zeroed summary on first reference. Safe for concurrent callers on the
	// same label.
	GetOrCreatePeriod(ctx context.Context, label string) (*Period, error)
	// RecordMovement persists the movement and recomputes the target period's
	// summary inside a single transaction, so the summary is current when the
	// call returns. Amount sign is intentionally not validated against the
	// type; corrective movements rely on that freedom.
	RecordMovement(ctx context.Context, req RecordMovementRequest) (*Movement, error)
	// RecordMovementTx is RecordMovement participating in the caller's
	// transaction. The sync engine uses it to commit a movement atomically
	// with the document's sync marker.
	RecordMovementTx(ctx context.Context, tx *gorm.DB, req RecordMovementRequest) (*Movement, error)
	RecomputeSummary(ctx context.Context, periodID snowflake.ID) (Summary, error)
	GetPeriod(ctx context.Context, label string) (*PeriodWithMovements, error)
	UpdatePeriod(ctx context.Context, label string, req UpdatePeriodRequest) (*Period, error)
	// RemoveMovementsForAnimal deletes the animal's movements and recomputes
	// every period summary they touched. Used by animal deletion.
	RemoveMovementsForAnimal(ctx context.Context, animalID snowflake.ID) error
	// RemoveMovementsForAnimalTx is RemoveMovementsForAnimal participating in
	// the caller's transaction, so animal deletion can reverse the ledger and
	// drop the animal row atomically.
	RemoveMovementsForAnimalTx(ctx context.Context, tx *gorm.DB, animalID snowflake.ID) error
}

var (
	ErrInvalidLabel   = errors.New("invalid_period_label")
	ErrInvalidType    = errors.New("invalid_movement_type")
	ErrInvalidSubtype = errors.New("invalid_movement_subtype")
	ErrInvalidDate    = errors.New("invalid_movement_date")
	ErrPeriodNotFound = errors.New("period_not_found")
)
