package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type AdminShop struct {
	ID           int64     `json:"id"`
	ShopName     string    `json:"shop_name"`
	OwnerName    string    `json:"owner_name"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	Verified     bool      `json:"verified"`
	Notification string    `json:"notification"`
	CreatedAt    time.Time `json:"created_at"`
	AvgRating    float64   `json:"avg_rating"`
	ReviewCount  int64     `json:"review_count"`
}

type AdminStudent struct {
	ID          int64  `json:"id"`
	StudentName string `json:"student_name"`
	Phone       string `json:"phone"`
	Grade       string `json:"grade"`
}

type AdminAnalytics struct {
	TotalShops    int64   `json:"total_shops"`
	VerifiedShops int64   `json:"verified_shops"`
	TotalBooks    int64   `json:"total_books"`
	TotalOrders   int64   `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgRating     float64 `json:"avg_rating"`
}

// ExportKind names a CSV export.
type ExportKind string

const (
	ExportShops    ExportKind = "shops"
	ExportStudents ExportKind = "students"
	ExportOrders   ExportKind = "orders"
)

func ParseExportKind(raw string) (ExportKind, bool) {
	switch k := ExportKind(strings.ToLower(strings.TrimSpace(raw))); k {
	case ExportShops, ExportStudents, ExportOrders:
		return k, true
	default:
		return "", false
	}
}

type AdminService interface {
	Shops(ctx context.Context) ([]*AdminShop, error)
	Students(ctx context.Context) ([]*AdminStudent, error)
	Orders(ctx context.Context) ([]*types.Order, error)
	Cities(ctx context.Context) ([]string, error)
	Analytics(ctx context.Context) (*AdminAnalytics, error)

	VerifyShop(ctx context.Context, id int64, verified bool, notification string) error
	// PurgeShop deletes a shop and its listings. Orders survive as history.
	PurgeShop(ctx context.Context, id int64) error
	DeleteStudent(ctx context.Context, id int64) error
	SetPaymentStatus(ctx context.Context, orderID int64, status string) error

	Export(ctx context.Context, kind ExportKind, w io.Writer) error
	// ClearDatabase wipes marketplace data. Admin accounts are kept.
	ClearDatabase(ctx context.Context) error
}

type adminService struct {
	db       *gorm.DB
	log      *logger.Logger
	tx       aggregates.TxRunner
	shops    repos.ShopRepo
	books    repos.BookRepo
	students repos.StudentRepo
	orders   repos.OrderRepo
	cart     repos.CartRepo
	wishlist repos.WishlistRepo
	reviews  repos.ReviewRepo
	notices  repos.NotificationRepo
	orderSvc OrderService
	notes    NotificationService
}

func NewAdminService(
	db *gorm.DB,
	log *logger.Logger,
	shops repos.ShopRepo,
	books repos.BookRepo,
	students repos.StudentRepo,
	orders repos.OrderRepo,
	cart repos.CartRepo,
	wishlist repos.WishlistRepo,
	reviews repos.ReviewRepo,
	notices repos.NotificationRepo,
	orderSvc OrderService,
	notes NotificationService,
) AdminService {
	return &adminService{
		db:       db,
		log:      log.With("service", "AdminService"),
		tx:       aggregates.NewGormTxRunner(db),
		shops:    shops,
		books:    books,
		students: students,
		orders:   orders,
		cart:     cart,
		wishlist: wishlist,
		reviews:  reviews,
		notices:  notices,
		orderSvc: orderSvc,
		notes:    notes,
	}
}

func (s *adminService) Shops(ctx context.Context) ([]*AdminShop, error) {
	const op = "admin.shops"
	dbc := dbctx.Context{Ctx: ctx}
	shops, err := s.shops.List(dbc)
	if err != nil {
		return nil, repoErr(op, err)
	}
	ids := make([]int64, 0, len(shops))
	for _, sh := range shops {
		ids = append(ids, sh.ID)
	}
	ratings, err := s.reviews.Aggregate(dbc, types.TargetShop, ids)
	if err != nil {
		return nil, repoErr(op, err)
	}
	out := make([]*AdminShop, 0, len(shops))
	for _, sh := range shops {
		r := ratings[sh.ID]
		out = append(out, &AdminShop{
			ID:           sh.ID,
			ShopName:     sh.Name,
			OwnerName:    sh.OwnerName,
			Phone:        sh.Phone,
			City:         sh.City,
			Verified:     sh.Verified,
			Notification: sh.Notification,
			CreatedAt:    sh.CreatedAt,
			AvgRating:    r.Average,
			ReviewCount:  r.Count,
		})
	}
	return out, nil
}

func (s *adminService) Students(ctx context.Context) ([]*AdminStudent, error) {
	rows, err := s.students.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, repoErr("admin.students", err)
	}
	out := make([]*AdminStudent, 0, len(rows))
	for _, st := range rows {
		out = append(out, &AdminStudent{ID: st.ID, StudentName: st.Name, Phone: st.Phone, Grade: st.Grade})
	}
	return out, nil
}

func (s *adminService) Orders(ctx context.Context) ([]*types.Order, error) {
	return s.orderSvc.ListAll(ctx)
}

func (s *adminService) Cities(ctx context.Context) ([]string, error) {
	out, err := s.shops.Cities(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, repoErr("admin.cities", err)
	}
	return out, nil
}

func (s *adminService) Analytics(ctx context.Context) (*AdminAnalytics, error) {
	const op = "admin.analytics"
	var out AdminAnalytics
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}

	g.Go(func() error {
		n, err := s.shops.Count(dbc, false)
		out.TotalShops = n
		return err
	})
	g.Go(func() error {
		n, err := s.shops.Count(dbc, true)
		out.VerifiedShops = n
		return err
	})
	g.Go(func() error {
		n, err := s.books.Count(dbc)
		out.TotalBooks = n
		return err
	})
	g.Go(func() error {
		totals, err := s.orders.Totals(dbc, 0, time.Now().Truncate(24*time.Hour))
		out.TotalOrders, out.TotalRevenue = totals.Orders, totals.Revenue
		return err
	})
	g.Go(func() error {
		r, err := s.reviews.Overall(dbc, types.TargetShop)
		out.AvgRating = r.Average
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, repoErr(op, err)
	}
	return &out, nil
}

func (s *adminService) VerifyShop(ctx context.Context, id int64, verified bool, notification string) error {
	const op = "admin.verify_shop"
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		ok, err := s.shops.SetVerified(dbc, id, verified, strings.TrimSpace(notification))
		if err != nil {
			return repoErr(op, err)
		}
		if !ok {
			return notFound(op, "shop")
		}
		if !verified {
			return nil
		}
		return s.notes.Notify(dbc, types.UserShop, id, "Your shop has been approved by admin.", nil)
	})
	if err != nil {
		return repoErr(op, err)
	}
	s.log.Info("Shop verification changed", "shop_id", id, "verified", verified)
	return nil
}

func (s *adminService) PurgeShop(ctx context.Context, id int64) error {
	const op = "admin.purge_shop"
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		shop, err := s.shops.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if shop == nil {
			return notFound(op, "shop")
		}
		bookIDs, err := s.books.IDsByShop(dbc, id)
		if err != nil {
			return err
		}
		if err := s.cart.DeleteByBooks(dbc, bookIDs); err != nil {
			return err
		}
		if err := s.wishlist.DeleteByBooks(dbc, bookIDs); err != nil {
			return err
		}
		if err := s.reviews.DeleteForTargets(dbc, types.TargetBook, bookIDs); err != nil {
			return err
		}
		if err := s.reviews.DeleteForTargets(dbc, types.TargetShop, []int64{id}); err != nil {
			return err
		}
		for _, bookID := range bookIDs {
			if err := s.orders.DetachBook(dbc, bookID); err != nil {
				return err
			}
		}
		if err := s.notices.DeleteFor(dbc, types.UserShop, id); err != nil {
			return err
		}
		if _, err := s.books.DeleteByShop(dbc, id); err != nil {
			return err
		}
		_, err = s.shops.Delete(dbc, id)
		return err
	})
	if err != nil {
		return repoErr(op, err)
	}
	s.log.Warn("Shop purged", "shop_id", id)
	return nil
}

func (s *adminService) DeleteStudent(ctx context.Context, id int64) error {
	const op = "admin.delete_student"
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		st, err := s.students.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if st == nil {
			return notFound(op, "student")
		}
		if err := s.wishlist.DeleteByStudent(dbc, id); err != nil {
			return err
		}
		if _, err := s.cart.Clear(dbc, id); err != nil {
			return err
		}
		if err := s.orders.DetachStudent(dbc, id); err != nil {
			return err
		}
		if err := s.notices.DeleteFor(dbc, types.UserStudent, id); err != nil {
			return err
		}
		_, err = s.students.Delete(dbc, id)
		return err
	})
	if err != nil {
		return repoErr(op, err)
	}
	s.log.Warn("Student deleted", "student_id", id)
	return nil
}

func (s *adminService) SetPaymentStatus(ctx context.Context, orderID int64, status string) error {
	return s.orderSvc.SetPaymentStatus(ctx, orderID, status)
}

func (s *adminService) Export(ctx context.Context, kind ExportKind, w io.Writer) error {
	const op = "admin.export"
	dbc := dbctx.Context{Ctx: ctx}
	cw := csv.NewWriter(w)
	var records [][]string

	switch kind {
	case ExportShops:
		shops, err := s.shops.List(dbc)
		if err != nil {
			return repoErr(op, err)
		}
		records = append(records, []string{"id", "shop_name", "owner_name", "phone", "address", "city", "upi_id", "verified", "created_at"})
		for _, sh := range shops {
			records = append(records, []string{
				itoa(sh.ID), sh.Name, sh.OwnerName, sh.Phone, sh.Address, sh.City, sh.UPIID,
				strconv.FormatBool(sh.Verified), sh.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	case ExportStudents:
		students, err := s.students.List(dbc)
		if err != nil {
			return repoErr(op, err)
		}
		records = append(records, []string{"id", "name", "phone", "address", "grade", "created_at"})
		for _, st := range students {
			records = append(records, []string{
				itoa(st.ID), st.Name, st.Phone, st.Address, st.Grade, st.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	case ExportOrders:
		rows, err := s.orders.ListAll(dbc)
		if err != nil {
			return repoErr(op, err)
		}
		records = append(records, []string{
			"id", "order_id", "book_name", "shop_id", "student_name", "student_phone", "quantity",
			"amount", "payment_method", "payment_status", "status", "transaction_id", "created_at",
		})
		for _, o := range rows {
			records = append(records, []string{
				itoa(o.ID), o.OrderCode, o.BookName, itoa(o.ShopID), o.StudentName, o.StudentPhone,
				strconv.Itoa(o.Quantity), strconv.FormatFloat(o.Amount, 'f', 2, 64),
				string(o.PaymentMethod), string(o.PaymentStatus), string(o.Status), o.TransactionID,
				o.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	default:
		return apperr.Validation(op, "export kind must be shops, students or orders")
	}

	if err := cw.WriteAll(records); err != nil {
		return apperr.Wrap(apperr.CodeInternal, op, err)
	}
	return nil
}

// clearOrder lists child tables before their parents.
var clearOrder = []any{
	&types.CartLine{},
	&types.WishlistItem{},
	&types.Review{},
	&types.Notification{},
	&types.Order{},
	&types.Book{},
	&types.Student{},
	&types.Shop{},
}

func (s *adminService) ClearDatabase(ctx context.Context) error {
	const op = "admin.clear_database"
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		tx := dbc.DB(s.db).Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range clearOrder {
			if err := tx.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return repoErr(op, err)
	}
	s.log.Warn("Database cleared")
	return nil
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
