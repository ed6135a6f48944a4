package accounts

import "time"

type Student struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Phone     string    `gorm:"column:phone;not null;uniqueIndex" json:"phone"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Address   string    `gorm:"column:address" json:"address"`
	Grade     string    `gorm:"column:grade" json:"grade,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Student) TableName() string { return "students" }
