package models

import (
	"time"

	"github.com/shopspring/decimal"

	"thaifolio/internal/uuid"

	"gorm.io/gorm"
)

// ValuationPoint is a real-time snapshot of the portfolio's THB value.
// This is immutable time-series data, trimmed to a fixed number of points.
type ValuationPoint struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	RecordedAt     time.Time       `gorm:"not null;index" json:"timestamp"`
	Value          decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"value"`
	InvestmentsTHB decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"investments_thb"`
	CashTHB        decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"cash_thb"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *ValuationPoint) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// DailyValuation is the last valuation recorded on a calendar day.
type DailyValuation struct {
	Date           string          `gorm:"primaryKey;size:10" json:"date"`
	Value          decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"value"`
	InvestmentsTHB decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"investments_thb"`
	CashTHB        decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"cash_thb"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
