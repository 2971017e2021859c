package domain

import (
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// MovementType classifies a financial event inside a period.
type MovementType string

const (
	TypeEntrada MovementType = "entrada"
	TypeSaida   MovementType = "saida"
	TypeCusto   MovementType = "custo"
	TypeReceita MovementType = "receita"
)

// Movement subtypes used across the application.
const (
	SubtypeNascimento = "nascimento"
	SubtypeCompra     = "compra"
	SubtypeVenda      = "venda"
	SubtypeMorte      = "morte"
)

var labelPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidLabel reports whether label is a strict YYYY-MM period label.
func ValidLabel(label string) bool {
	return labelPattern.MatchString(label)
}

// LabelFor derives the period label from a movement date.
func LabelFor(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Period is one calendar month's accounting container. The total columns and
// balance are a cache over the period's movements, never a source of truth.
type Period struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	Label        string          `gorm:"type:text;not null;uniqueIndex:ux_periods_label" json:"label"`
	Locality     string          `gorm:"type:text;not null" json:"locality"`
	Status       string          `gorm:"type:text;not null;default:open" json:"status"`
	TotalEntrada decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_entrada"`
	TotalSaida   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_saida"`
	TotalCusto   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_custo"`
	TotalReceita decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_receita"`
	Balance      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"balance"`
	RecomputedAt *time.Time      `json:"recomputed_at,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Period) TableName() string { return "periods" }

// Summary is the cached aggregate view of a period.
type Summary struct {
	Entrada decimal.Decimal `json:"entrada"`
	Saida   decimal.Decimal `json:"saida"`
	Custo   decimal.Decimal `json:"custo"`
	Receita decimal.Decimal `json:"receita"`
	Balance decimal.Decimal `json:"balance"`
}

// Movement is a single typed financial event attached to exactly one period.
// Movements are append-only; corrections are recorded as new movements.
type Movement struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	PeriodID     snowflake.ID  `gorm:"not null;index" json:"period_id"`
	Type         MovementType  `gorm:"type:text;not null" json:"type"`
	Subtype      string        `gorm:"type:text;not null" json:"subtype"`
	AnimalID     *snowflake.ID `gorm:"index" json:"animal_id,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	MovementDate time.Time       `gorm:"type:date;not null" json:"movement_date"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Notes        string          `gorm:"type:text;not null" json:"notes"`
	Extra        string          `gorm:"type:text;not null" json:"extra"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Movement) TableName() string { return "movements" }
