package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Death records the loss of one animal. At most one per animal, enforced by
// the unique index on animal_id. The corresponding ledger movement is created
// by the reconciliation engine, not here.
type Death struct {
	ID         snowflake.ID     `gorm:"primaryKey" json:"id"`
	AnimalID   snowflake.ID     `gorm:"not null;uniqueIndex:ux_deaths_animal_id" json:"animal_id"`
	Cause      string           `gorm:"type:text;not null" json:"cause"`
	LossValue  *decimal.Decimal `gorm:"type:numeric(14,2)" json:"loss_value,omitempty"`
	OccurredOn time.Time        `gorm:"type:date;not null" json:"occurred_on"`
	CreatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Death) TableName() string { return "deaths" }
