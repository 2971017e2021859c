package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type RegisterDeathRequest struct {
	AnimalID   snowflake.ID
	Cause      string
	OccurredOn time.Time
	// LossValue overrides the animal's cached total cost as the ledgered
	// loss when set at registration time.
	LossValue *decimal.Decimal
}

type Service interface {
	// Register creates the death record and transitions the animal to dead
	// in one transaction. Fails with ErrAlreadyRegistered when a death
	// already exists for the animal.
	Register(ctx context.Context, req RegisterDeathRequest) (*Death, error)
	Get(ctx context.Context, id snowflake.ID) (*Death, error)
	List(ctx context.Context) ([]*Death, error)
}

var (
	ErrAlreadyRegistered = errors.New("death_already_registered")
	ErrInvalidDate       = errors.New("invalid_death_date")
	ErrNotFound          = errors.New("death_not_found")
)
