package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// AnimalStatus tracks the lifecycle of a livestock unit.
type AnimalStatus string

const (
	StatusActive AnimalStatus = "active"
	StatusSold   AnimalStatus = "sold"
	StatusDead   AnimalStatus = "dead"
)

// Animal is a livestock unit. The numeric ID is the only authoritative
// identity; the (series, reg_no) pair is human-assigned and duplicates exist
// in historical data.
type Animal struct {
	ID            snowflake.ID     `gorm:"primaryKey" json:"id"`
	Series        string           `gorm:"type:text;not null;index:ix_animals_series_reg_no,priority:1" json:"series"`
	RegNo         string           `gorm:"type:text;not null;index:ix_animals_series_reg_no,priority:2;index:ix_animals_reg_no" json:"reg_no"`
	Sex           string           `gorm:"type:text;not null" json:"sex"`
	Breed         string           `gorm:"type:text;not null" json:"breed"`
	Status        AnimalStatus     `gorm:"type:text;not null;default:active" json:"status"`
	TotalCost     decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"total_cost"`
	SaleValue     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"sale_value,omitempty"`
	Supplier      string           `gorm:"type:text;not null" json:"supplier"`
	PurchasePrice *decimal.Decimal `gorm:"type:numeric(14,2)" json:"purchase_price,omitempty"`
	WeightKg      *decimal.Decimal `gorm:"type:numeric(10,2)" json:"weight_kg,omitempty"`
	AcquiredOn    *time.Time       `gorm:"type:date" json:"acquired_on,omitempty"`
	CreatedAt     time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Animal) TableName() string { return "animals" }

// DuplicatePair reports a (series, reg_no) pair shared by more than one animal.
type DuplicatePair struct {
	Series string `json:"series"`
	RegNo  string `json:"reg_no"`
	Count  int64  `json:"count"`
}
