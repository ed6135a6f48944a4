package catalog

import (
	"strings"
	"time"
)

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

func ParseCondition(raw string) (Condition, bool) {
	switch Condition(strings.ToLower(strings.TrimSpace(raw))) {
	case ConditionNew:
		return ConditionNew, true
	case ConditionUsed:
		return ConditionUsed, true
	default:
		return "", false
	}
}

type Book struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ShopID    int64     `gorm:"column:shop_id;not null;index" json:"shop_id"`
	Name      string    `gorm:"column:book_name;not null" json:"book_name"`
	Edition   string    `gorm:"column:edition" json:"edition"`
	Subject   string    `gorm:"column:subject;index" json:"subject"`
	Grade     string    `gorm:"column:grade;index" json:"grade"`
	Price     float64   `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Condition Condition `gorm:"column:condition;not null;default:new" json:"condition"`
	Stock     int       `gorm:"column:stock;not null" json:"stock"`
	CoverURL  string    `gorm:"column:cover_url" json:"cover_url,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Book) TableName() string { return "books" }

// Rating is a mean/count pair computed from reviews on read.
type Rating struct {
	Average float64 `json:"avg_rating"`
	Count   int64   `json:"review_count"`
}

// Listing is a book joined with its shop and rating aggregates.
// ShopPhone stays nil unless the viewer may see it.
type Listing struct {
	Book
	ShopName    string  `json:"shop_name"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	ShopPhone   *string `json:"phone"`
	BookRating  float64 `json:"book_rating"`
	BookReviews int64   `json:"book_reviews"`
	ShopRating  float64 `json:"shop_rating"`
	ShopReviews int64   `json:"shop_reviews"`
}

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
)

type SearchFilter struct {
	Query     string
	ShopID    int64
	Grade     string
	Subject   string
	City      string
	Condition Condition
	PriceMin  *float64
	PriceMax  *float64
	Sort      SortOrder
}
