package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Cost is one ledger line item belonging to an animal. Rows are append-only;
// corrections are new entries. A cost with a future effective date (e.g. a
// scheduled exam) exists but does not count toward the cached total yet.
type Cost struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	AnimalID      snowflake.ID    `gorm:"not null;index" json:"animal_id"`
	Type          string          `gorm:"type:text;not null" json:"type"`
	Subtype       string          `gorm:"type:text;not null" json:"subtype"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	EffectiveDate *time.Time      `gorm:"type:date" json:"effective_date,omitempty"`
	Detail        string          `gorm:"type:text;not null" json:"detail"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Cost) TableName() string { return "costs" }

// Medication defines how a product's package translates into a per-animal
// cost when a quantity of it is administered.
type Medication struct {
	ID               snowflake.ID     `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"type:text;not null;uniqueIndex:ux_medications_name" json:"name"`
	PackagePrice     decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"package_price"`
	PackageQty       *decimal.Decimal `gorm:"type:numeric(12,3)" json:"package_qty,omitempty"`
	FlatPricePerHead *decimal.Decimal `gorm:"type:numeric(14,2)" json:"flat_price_per_head,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Medication) TableName() string { return "medications" }
