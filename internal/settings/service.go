package settings

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cinebook/internal/shared/config"
)

type Service interface {
	Get(ctx context.Context) (*AdminSettings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*AdminSettings, error)
	NotificationSettings(ctx context.Context) (adminEmail string, enabled bool, err error)
}

type service struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewService(db *gorm.DB, cfg *config.Config) Service {
	return &service{db: db, cfg: cfg}
}

func (s *service) Get(ctx context.Context) (*AdminSettings, error) {
	var settings AdminSettings
	err := s.db.WithContext(ctx).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settings = AdminSettings{
		AdminName:           s.cfg.Admin.Username,
		AdminEmail:          s.cfg.Email.AdminEmail,
		NotificationEnabled: true,
	}
	if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}
	return &settings, nil
}

// NotificationSettings feeds the email sender the live admin recipient and
// the on/off switch.
func (s *service) NotificationSettings(ctx context.Context) (string, bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", false, err
	}
	return settings.AdminEmail, settings.NotificationEnabled, nil
}

func (s *service) Update(ctx context.Context, req UpdateSettingsRequest) (*AdminSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.AdminName != nil {
		settings.AdminName = *req.AdminName
	}
	if req.AdminEmail != nil {
		settings.AdminEmail = *req.AdminEmail
	}
	if req.NotificationEnabled != nil {
		settings.NotificationEnabled = *req.NotificationEnabled
	}

	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
