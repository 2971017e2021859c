package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceDirection distinguishes incoming (purchase) from outgoing (sale)
// documents.
type InvoiceDirection string

const (
	DirectionEntrada InvoiceDirection = "entrada"
	DirectionSaida   InvoiceDirection = "saida"
)

// ProductKind tags what an invoice line item carries. Kinds the sync engine
// does not understand are skipped, never errored.
type ProductKind string

const (
	KindLivestock ProductKind = "livestock"
	KindSemen     ProductKind = "semen"
	KindEmbryo    ProductKind = "embryo"
	KindOther     ProductKind = "other"
)

type Invoice struct {
	ID        snowflake.ID     `gorm:"primaryKey" json:"id"`
	Number    string           `gorm:"type:text;not null" json:"number"`
	Direction InvoiceDirection `gorm:"type:text;not null" json:"direction"`
	Supplier  string           `gorm:"type:text;not null" json:"supplier"`
	IssuedOn  time.Time        `gorm:"type:date;not null" json:"issued_on"`
	Total     decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"total"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

type InvoiceItem struct {
	ID            snowflake.ID     `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID     `gorm:"not null;index" json:"invoice_id"`
	ProductKind   ProductKind      `gorm:"type:text;not null;default:other" json:"product_kind"`
	Description   string           `gorm:"type:text;not null" json:"description"`
	TagIdentifier string           `gorm:"type:text;not null" json:"tag_identifier"`
	Breed         string           `gorm:"type:text;not null" json:"breed"`
	WeightKg      *decimal.Decimal `gorm:"type:numeric(10,2)" json:"weight_kg,omitempty"`
	Quantity      decimal.Decimal  `gorm:"type:numeric(12,3);not null" json:"quantity"`
	UnitPrice     decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Total         decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"total"`

	// Semen and embryo items carry lot provenance; livestock items leave it empty.
	StorageLocation string     `gorm:"type:text;not null" json:"storage_location"`
	Certificate     string     `gorm:"type:text;not null" json:"certificate"`
	ExpiresOn       *time.Time `gorm:"type:date" json:"expires_on,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }
