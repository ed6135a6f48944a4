package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/domain/orders"
	"github.com/yungbote/bookmart-backend/internal/observability"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type CheckoutInput struct {
	StudentID      int64
	StudentAddress string
	PaymentMethod  string
}

type CartService interface {
	Add(ctx context.Context, studentID, bookID int64, quantity int) error
	Get(ctx context.Context, studentID int64) ([]*types.CartView, error)
	Update(ctx context.Context, studentID, bookID int64, quantity int) error
	Remove(ctx context.Context, studentID, bookID int64) error
	Clear(ctx context.Context, studentID int64) error
	// Checkout turns every cart line into an order and empties the cart, all
	// or nothing.
	Checkout(ctx context.Context, in CheckoutInput) ([]Placement, error)
}

type cartService struct {
	db       *gorm.DB
	log      *logger.Logger
	tx       aggregates.TxRunner
	cart     repos.CartRepo
	books    repos.BookRepo
	students repos.StudentRepo
	placer   *orderPlacer
}

func NewCartService(
	db *gorm.DB,
	log *logger.Logger,
	cartRepo repos.CartRepo,
	bookRepo repos.BookRepo,
	shopRepo repos.ShopRepo,
	studentRepo repos.StudentRepo,
	orderRepo repos.OrderRepo,
	catalog CatalogService,
	notes NotificationService,
	codes CodeGenerator,
) CartService {
	if codes == nil {
		codes = DefaultOrderCode
	}
	return &cartService{
		db:       db,
		log:      log.With("service", "CartService"),
		tx:       aggregates.NewGormTxRunner(db),
		cart:     cartRepo,
		books:    bookRepo,
		students: studentRepo,
		placer: &orderPlacer{
			books:   bookRepo,
			shops:   shopRepo,
			orders:  orderRepo,
			catalog: catalog,
			notes:   notes,
			codes:   codes,
		},
	}
}

func (s *cartService) Add(ctx context.Context, studentID, bookID int64, quantity int) error {
	const op = "cart.add"
	if studentID <= 0 || bookID <= 0 {
		return apperr.Validation(op, "student_id and book_id are required")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return apperr.Validation(op, "quantity must be at least 1")
	}
	dbc := dbctx.Context{Ctx: ctx}
	book, err := s.books.GetByID(dbc, bookID)
	if err != nil {
		return repoErr(op, err)
	}
	if book == nil {
		return notFound(op, "book")
	}
	if err := s.cart.Upsert(dbc, studentID, bookID, quantity); err != nil {
		return repoErr(op, err)
	}
	return nil
}

func (s *cartService) Get(ctx context.Context, studentID int64) ([]*types.CartView, error) {
	rows, err := s.cart.List(dbctx.Context{Ctx: ctx}, studentID)
	if err != nil {
		return nil, repoErr("cart.get", err)
	}
	return rows, nil
}

func (s *cartService) Update(ctx context.Context, studentID, bookID int64, quantity int) error {
	const op = "cart.update"
	if quantity < 1 {
		return apperr.Validation(op, "quantity must be at least 1")
	}
	ok, err := s.cart.UpdateQuantity(dbctx.Context{Ctx: ctx}, studentID, bookID, quantity)
	if err != nil {
		return repoErr(op, err)
	}
	if !ok {
		return notFound(op, "cart item")
	}
	return nil
}

func (s *cartService) Remove(ctx context.Context, studentID, bookID int64) error {
	const op = "cart.remove"
	ok, err := s.cart.Remove(dbctx.Context{Ctx: ctx}, studentID, bookID)
	if err != nil {
		return repoErr(op, err)
	}
	if !ok {
		return notFound(op, "cart item")
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, studentID int64) error {
	if _, err := s.cart.Clear(dbctx.Context{Ctx: ctx}, studentID); err != nil {
		return repoErr("cart.clear", err)
	}
	return nil
}

func (s *cartService) Checkout(ctx context.Context, in CheckoutInput) ([]Placement, error) {
	const op = "cart.checkout"
	ctx, span := observability.StartSpan(ctx, "cart.Checkout", attribute.Int64("student_id", in.StudentID))
	defer span.End()

	address := strings.TrimSpace(in.StudentAddress)
	if in.StudentID <= 0 || address == "" {
		return nil, apperr.Validation(op, "student_id and student_address are required")
	}
	method, ok := orders.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, apperr.Validation(op, "payment_method must be cod or upi")
	}

	var out []Placement
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		lines, err := s.cart.Lines(dbc, in.StudentID)
		if err != nil {
			return repoErr(op, err)
		}
		if len(lines) == 0 {
			return apperr.New(apperr.CodeEmptyCart, op, "Cart is empty")
		}
		st, err := s.students.GetByID(dbc, in.StudentID)
		if err != nil {
			return repoErr(op, err)
		}
		if st == nil {
			return notFound(op, "student")
		}
		id := st.ID
		who := buyer{StudentID: &id, Name: st.Name, Phone: st.Phone, Address: address}

		out = make([]Placement, 0, len(lines))
		for _, line := range lines {
			// One stock unit per line; quantity only scales the amount.
			order, err := s.placer.place(dbc, op, line.BookID, line.Quantity, who, method)
			if err != nil {
				return err
			}
			out = append(out, placementOf(order))
		}
		_, err = s.cart.Clear(dbc, in.StudentID)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, repoErr(op, err)
	}
	span.SetAttributes(attribute.Int("orders", len(out)))
	s.log.Info("Checkout completed", "student_id", in.StudentID, "orders", len(out))
	return out, nil
}
