package domain

import (
	"github.com/yungbote/bookmart-backend/internal/domain/accounts"
	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
	"github.com/yungbote/bookmart-backend/internal/domain/engagement"
	"github.com/yungbote/bookmart-backend/internal/domain/orders"
)

const (
	OrderPending   = orders.StatusPending
	OrderConfirmed = orders.StatusConfirmed
	OrderDelivered = orders.StatusDelivered
	OrderRejected  = orders.StatusRejected
	OrderCancelled = orders.StatusCancelled

	PaymentCOD     = orders.PaymentCOD
	PaymentUPI     = orders.PaymentUPI
	PaymentPending = orders.PaymentPending
	PaymentPaid    = orders.PaymentPaid

	ConditionNew  = catalog.ConditionNew
	ConditionUsed = catalog.ConditionUsed

	SortNone      = catalog.SortNone
	SortPriceAsc  = catalog.SortPriceAsc
	SortPriceDesc = catalog.SortPriceDesc
	SortRating    = catalog.SortRating

	TargetBook      = engagement.TargetBook
	TargetShop      = engagement.TargetShop
	ReviewerStudent = engagement.ReviewerStudent
	ReviewerShop    = engagement.ReviewerShop
	UserStudent     = engagement.UserStudent
	UserShop        = engagement.UserShop
)

type Shop = catalog.Shop
type Book = catalog.Book
type Condition = catalog.Condition
type Listing = catalog.Listing
type Rating = catalog.Rating
type SearchFilter = catalog.SearchFilter
type SortOrder = catalog.SortOrder

type Student = accounts.Student
type Admin = accounts.Admin

type Order = orders.Order
type OrderStatus = orders.Status
type PaymentMethod = orders.PaymentMethod
type PaymentStatus = orders.PaymentStatus
type CartLine = orders.CartLine
type CartView = orders.CartView
type WishlistItem = orders.WishlistItem

type Review = engagement.Review
type ReviewView = engagement.ReviewView
type TargetType = engagement.TargetType
type ReviewerType = engagement.ReviewerType
type Notification = engagement.Notification
type UserType = engagement.UserType

// AllModels lists every persisted type in migration order.
func AllModels() []any {
	return []any{
		&Admin{},
		&Shop{},
		&Student{},
		&Book{},
		&CartLine{},
		&WishlistItem{},
		&Order{},
		&Notification{},
		&Review{},
	}
}
