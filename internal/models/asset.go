package models

import "time"

// AssetRecord is one persisted ledger asset. Payload holds the full record in
// the export format; the other columns are copies for querying and ordering.
type AssetRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Position  int       `gorm:"not null;index" json:"position"`
	Name      string    `gorm:"not null" json:"name"`
	Symbol    string    `gorm:"index" json:"symbol"`
	Category  string    `gorm:"not null" json:"category"`
	Currency  string    `gorm:"not null" json:"currency"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default "asset_records".
func (AssetRecord) TableName() string { return "assets" }
