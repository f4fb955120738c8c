// Package models defines the GORM rows backing the persistence gateway.
package models

// All lists every model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&AssetRecord{},
		&ValuationPoint{},
		&DailyValuation{},
		&Setting{},
		&ActivityLog{},
	}
}
