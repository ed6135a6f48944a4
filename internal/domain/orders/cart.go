package orders

import "time"

type CartLine struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID int64     `gorm:"column:student_id;not null;uniqueIndex:idx_cart_student_book" json:"student_id"`
	BookID    int64     `gorm:"column:book_id;not null;uniqueIndex:idx_cart_student_book;index" json:"book_id"`
	Quantity  int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	AddedAt   time.Time `gorm:"column:added_at;not null;autoCreateTime" json:"added_at"`
}

func (CartLine) TableName() string { return "cart" }

// CartView is a cart line joined with the book and shop it points at.
type CartView struct {
	CartLine
	BookName  string  `json:"book_name"`
	Price     float64 `json:"price"`
	Condition string  `json:"condition"`
	ShopID    int64   `json:"shop_id"`
	ShopName  string  `json:"shop_name"`
	Stock     int     `json:"stock"`
}

type WishlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID int64     `gorm:"column:student_id;not null;uniqueIndex:idx_wishlist_student_book" json:"student_id"`
	BookID    int64     `gorm:"column:book_id;not null;uniqueIndex:idx_wishlist_student_book;index" json:"book_id"`
	AddedAt   time.Time `gorm:"column:added_at;not null;autoCreateTime" json:"added_at"`
}

func (WishlistItem) TableName() string { return "wishlist" }
