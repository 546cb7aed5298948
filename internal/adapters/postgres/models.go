package postgres

import (
	"time"

	"github.com/google/uuid"
)

type accountModel struct {
	AccountID    uuid.UUID `gorm:"column:account_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"column:username"`
	PasswordHash string    `gorm:"column:password_hash"`
	Age          int       `gorm:"column:age"`
	Gender       string    `gorm:"column:gender"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (accountModel) TableName() string { return "accounts" }

type featureClickModel struct {
	ClickID     uuid.UUID `gorm:"column:click_id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID   uuid.UUID `gorm:"column:account_id"`
	FeatureName string    `gorm:"column:feature_name"`
	ClickedAt   time.Time `gorm:"column:clicked_at"`
}

func (featureClickModel) TableName() string { return "feature_clicks" }
