package catalog

import "time"

type Shop struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:shop_name;not null" json:"shop_name"`
	OwnerName    string    `gorm:"column:owner_name;not null" json:"owner_name"`
	Phone        string    `gorm:"column:phone;not null;uniqueIndex" json:"phone,omitempty"`
	Password     string    `gorm:"column:password;not null" json:"-"`
	Address      string    `gorm:"column:address;not null" json:"address"`
	City         string    `gorm:"column:city;not null;index" json:"city"`
	UPIID        string    `gorm:"column:upi_id" json:"upi_id,omitempty"`
	LogoURL      string    `gorm:"column:logo_url" json:"logo_url,omitempty"`
	BannerURL    string    `gorm:"column:banner_url" json:"banner_url,omitempty"`
	Verified     bool      `gorm:"column:verified;not null;default:false;index" json:"verified"`
	Notification string    `gorm:"column:notification" json:"notification,omitempty"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Shop) TableName() string { return "shops" }

// HasUPI reports whether the shop can receive UPI payments.
func (s *Shop) HasUPI() bool { return s != nil && s.UPIID != "" }
