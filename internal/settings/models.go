package settings

import "time"

// AdminSettings is a single row table holding operator preferences. The row
// is created on first read with defaults from the environment.
type AdminSettings struct {
	ID                  uint      `json:"-" gorm:"primaryKey"`
	AdminName           string    `json:"admin_name" gorm:"size:255"`
	AdminEmail          string    `json:"admin_email" gorm:"size:255"`
	NotificationEnabled bool      `json:"notification_enabled" gorm:"default:true"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (AdminSettings) TableName() string {
	return "admin_settings"
}

type UpdateSettingsRequest struct {
	AdminName           *string `json:"admin_name" binding:"omitempty,max=255"`
	AdminEmail          *string `json:"admin_email" binding:"omitempty,email"`
	NotificationEnabled *bool   `json:"notification_enabled"`
}
