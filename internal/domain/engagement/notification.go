package engagement

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type UserType string

const (
	UserStudent UserType = "student"
	UserShop    UserType = "shop"
)

func ParseUserType(raw string) (UserType, bool) {
	switch UserType(strings.ToLower(strings.TrimSpace(raw))) {
	case UserStudent:
		return UserStudent, true
	case UserShop:
		return UserShop, true
	default:
		return "", false
	}
}

type Notification struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserType  UserType       `gorm:"column:user_type;not null;index:idx_notification_recipient,priority:1" json:"user_type"`
	UserID    int64          `gorm:"column:user_id;not null;index:idx_notification_recipient,priority:2" json:"user_id"`
	Message   string         `gorm:"column:message;not null" json:"message"`
	Data      datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	IsRead    bool           `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
