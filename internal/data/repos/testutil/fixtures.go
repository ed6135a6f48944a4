package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"gorm.io/gorm"
)

var phoneSeq atomic.Int64

// Phone returns a unique ten digit phone number.
func Phone() string {
	return fmt.Sprintf("9%09d", phoneSeq.Add(1))
}

func SeedShop(tb testing.TB, ctx context.Context, tx *gorm.DB, verified bool, upi string) *types.Shop {
	tb.Helper()
	s := &types.Shop{
		Name:      "Campus Books",
		OwnerName: "Owner",
		Phone:     Phone(),
		Password:  "pw",
		Address:   "1 Main Road",
		City:      "Pune",
		UPIID:     upi,
		Verified:  verified,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed shop: %v", err)
	}
	return s
}

func SeedBook(tb testing.TB, ctx context.Context, tx *gorm.DB, shopID int64, name string, price float64, stock int) *types.Book {
	tb.Helper()
	b := &types.Book{
		ShopID:    shopID,
		Name:      name,
		Edition:   "2024",
		Subject:   "Physics",
		Grade:     "11",
		Price:     price,
		Condition: types.ConditionNew,
		Stock:     stock,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed book: %v", err)
	}
	return b
}

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Student {
	tb.Helper()
	s := &types.Student{
		Name:     name,
		Phone:    Phone(),
		Password: "pw",
		Address:  "Hostel 4",
		Grade:    "11",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, book *types.Book, student *types.Student, status types.OrderStatus) *types.Order {
	tb.Helper()
	o := &types.Order{
		OrderCode:      fmt.Sprintf("ORD-TEST-%d", phoneSeq.Add(1)),
		BookID:         &book.ID,
		BookName:       book.Name,
		ShopID:         book.ShopID,
		StudentName:    "Buyer",
		StudentPhone:   Phone(),
		StudentAddress: "Hostel 4",
		Price:          book.Price,
		Quantity:       1,
		Amount:         book.Price,
		PaymentMethod:  types.PaymentCOD,
		PaymentStatus:  types.PaymentPending,
		Status:         status,
	}
	if student != nil {
		o.StudentID = &student.ID
		o.StudentName = student.Name
		o.StudentPhone = student.Phone
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}
