package orders

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusRejected, StatusCancelled:
		return s, true
	default:
		return "", false
	}
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusRejected || s == StatusCancelled
}

// transitions lists, per target status, the statuses it may be entered from.
var transitions = map[Status][]Status{
	StatusConfirmed: {StatusPending},
	StatusDelivered: {StatusConfirmed},
	StatusRejected:  {StatusPending, StatusConfirmed},
	StatusCancelled: {StatusPending},
}

// AllowedFrom returns the source statuses from which to may be entered.
func AllowedFrom(to Status) []Status {
	return transitions[to]
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "cod"
	PaymentUPI PaymentMethod = "upi"
)

func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PaymentCOD:
		return PaymentCOD, true
	case PaymentUPI:
		return PaymentUPI, true
	default:
		return "", false
	}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentPending:
		return PaymentPending, true
	case PaymentPaid:
		return PaymentPaid, true
	default:
		return "", false
	}
}

// Order is one book purchase. Buyer contact, book name and price are snapshots
// taken at creation so later edits or deletions do not rewrite history.
type Order struct {
	ID             int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderCode      string        `gorm:"column:order_id;not null;uniqueIndex" json:"order_id"`
	BookID         *int64        `gorm:"column:book_id;index" json:"book_id"`
	BookName       string        `gorm:"column:book_name;not null" json:"book_name"`
	ShopID         int64         `gorm:"column:shop_id;not null;index" json:"shop_id"`
	StudentID      *int64        `gorm:"column:student_id;index" json:"student_id"`
	StudentName    string        `gorm:"column:student_name;not null" json:"student_name"`
	StudentPhone   string        `gorm:"column:student_phone;not null;index" json:"student_phone"`
	StudentAddress string        `gorm:"column:student_address;not null" json:"student_address"`
	Price          float64       `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Quantity       int           `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Amount         float64       `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	PaymentMethod  PaymentMethod `gorm:"column:payment_method;not null;default:cod" json:"payment_method"`
	PaymentStatus  PaymentStatus `gorm:"column:payment_status;not null;default:pending;index" json:"payment_status"`
	Status         Status        `gorm:"column:status;not null;default:pending;index" json:"status"`
	PaymentLink    string        `gorm:"column:payment_link" json:"payment_link,omitempty"`
	QRCode         string        `gorm:"column:qr_url" json:"qr_url,omitempty"`
	TransactionID  string        `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
