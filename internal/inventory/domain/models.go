package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SemenLot is one incoming lot of semen or embryo doses created from an
// invoice line item. Outgoing usage is tracked against the lot itself and is
// intentionally not ledgered as a movement.
type SemenLot struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceItemID   snowflake.ID    `gorm:"not null;uniqueIndex:ux_semen_lots_invoice_item_id" json:"invoice_item_id"`
	Bull            string          `gorm:"type:text;not null" json:"bull"`
	Doses           int             `gorm:"not null" json:"doses"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	StorageLocation string          `gorm:"type:text;not null" json:"storage_location"`
	Certificate     string          `gorm:"type:text;not null" json:"certificate"`
	ExpiresOn       *time.Time      `gorm:"type:date" json:"expires_on,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SemenLot) TableName() string { return "semen_lots" }
