// Package storage is the persistence gateway: the asset list, bounded
// valuation history and user settings, stored through GORM.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/ledger"
	"thaifolio/internal/models"
	"thaifolio/internal/pagination"
)

// settingAssetsSaved marks that the asset list has been saved at least once,
// so an empty table can be told apart from a fresh database.
const settingAssetsSaved = "assets_saved"

// Store implements the persistence gateway on a GORM database.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetAssets returns the saved asset list in saved order, or nil if nothing
// has ever been saved.
func (s *Store) GetAssets(ctx context.Context) ([]ledger.Asset, error) {
	var rows []models.AssetRecord
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(rows) == 0 {
		var saved bool
		ok, err := s.GetSetting(ctx, settingAssetsSaved, &saved)
		if err != nil {
			return nil, err
		}
		if !ok || !saved {
			return nil, nil
		}
		return []ledger.Asset{}, nil
	}

	assets := make([]ledger.Asset, 0, len(rows))
	for i := range rows {
		var a ledger.Asset
		if err := json.Unmarshal([]byte(rows[i].Payload), &a); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// SaveAssets replaces the stored list with assets in a single transaction.
func (s *Store) SaveAssets(ctx context.Context, assets []ledger.Asset) error {
	rows := make([]models.AssetRecord, 0, len(assets))
	for i, a := range assets {
		payload, err := json.Marshal(a)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		rows = append(rows, models.AssetRecord{
			ID:       a.ID,
			Position: i,
			Name:     a.Name,
			Symbol:   a.Symbol,
			Category: string(a.Category),
			Currency: string(a.Currency),
			Payload:  string(payload),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.AssetRecord{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
		}
		return saveSetting(tx, settingAssetsSaved, true)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetHistory returns real-time valuation points, oldest first.
func (s *Store) GetHistory(ctx context.Context) ([]models.ValuationPoint, error) {
	var points []models.ValuationPoint
	if err := s.db.WithContext(ctx).Order("recorded_at ASC").Find(&points).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return points, nil
}

// ListHistory returns a page of real-time valuation points, newest first.
func (s *Store) ListHistory(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.ValuationPoint], error) {
	query := s.db.WithContext(ctx).Model(&models.ValuationPoint{})
	result, err := pagination.Find[models.ValuationPoint](query, page, "recorded_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// AppendHistoryPoint stores a real-time valuation point.
func (s *Store) AppendHistoryPoint(ctx context.Context, p models.ValuationPoint) error {
	if p.RecordedAt.IsZero() {
		p.RecordedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TrimHistory keeps only the newest maxPoints real-time points.
func (s *Store) TrimHistory(ctx context.Context, maxPoints int) error {
	db := s.db.WithContext(ctx)
	var keep []string
	if err := db.Model(&models.ValuationPoint{}).Order("recorded_at DESC").Limit(maxPoints).Pluck("id", &keep).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	q := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	if err := q.Delete(&models.ValuationPoint{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetDailyHistory returns daily valuations, oldest first.
func (s *Store) GetDailyHistory(ctx context.Context) ([]models.DailyValuation, error) {
	var days []models.DailyValuation
	if err := s.db.WithContext(ctx).Order("date ASC").Find(&days).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return days, nil
}

// SaveDailyPoint upserts the valuation for p.Date.
func (s *Store) SaveDailyPoint(ctx context.Context, p models.DailyValuation) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "investments_thb", "cash_thb", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TrimDailyHistory keeps only the newest maxPoints days.
func (s *Store) TrimDailyHistory(ctx context.Context, maxPoints int) error {
	db := s.db.WithContext(ctx)
	var keep []string
	if err := db.Model(&models.DailyValuation{}).Order("date DESC").Limit(maxPoints).Pluck("date", &keep).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	q := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	if len(keep) > 0 {
		q = q.Where("date NOT IN ?", keep)
	}
	if err := q.Delete(&models.DailyValuation{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSetting decodes the setting named key into dst. It reports false if the
// setting does not exist.
func (s *Store) GetSetting(ctx context.Context, key string, dst interface{}) (bool, error) {
	var row models.Setting
	err := s.db.WithContext(ctx).Where(&models.Setting{Key: key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := json.Unmarshal([]byte(row.Value), dst); err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// SaveSetting stores value as JSON under key.
func (s *Store) SaveSetting(ctx context.Context, key string, value interface{}) error {
	if err := saveSetting(s.db.WithContext(ctx), key, value); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func saveSetting(db *gorm.DB, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	row := models.Setting{Key: key, Value: string(data), UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
