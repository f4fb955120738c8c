package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/logger"
	"thaifolio/internal/models"
	"thaifolio/internal/pagination"
)

// activityService handles activity log recording.
type activityService struct {
	db *gorm.DB
}

// NewActivityService creates a new ActivityServicer.
func NewActivityService(db *gorm.DB) ActivityServicer {
	return &activityService{db: db}
}

// Log records an applied operation. Errors are logged but never propagate
// to avoid disrupting the ledger operation that already succeeded.
func (s *activityService) Log(ctx context.Context, actor Actor, action string, assetID int64, details map[string]any) {
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Get().Errorw("failed to marshal activity details", "error", err, "action", action)
			detailsJSON = "{}"
		} else {
			detailsJSON = string(data)
		}
	}

	entry := &models.ActivityLog{
		Action:    action,
		AssetID:   assetID,
		IPAddress: actor.IPAddress,
		Details:   detailsJSON,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create activity log entry",
			"error", err,
			"action", action,
			"asset_id", assetID,
		)
	}
}

// List returns activity newest first, optionally filtered by action.
func (s *activityService) List(ctx context.Context, action string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error) {
	query := s.db.WithContext(ctx).Model(&models.ActivityLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	result, err := pagination.Find[models.ActivityLog](query, page, "created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
