package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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
	"github.com/yungbote/bookmart-backend/internal/platform/payments"
)

// Placement is what a buyer gets back for each order created.
type Placement struct {
	OrderCode   string `json:"order_id"`
	QRURL       string `json:"qr_url"`
	PaymentLink string `json:"payment_link,omitempty"`
	ID          int64  `json:"id"`
}

// OrderInput places a single-copy order. Either StudentID or the name and
// phone pair must identify the buyer.
type OrderInput struct {
	BookID         int64
	StudentID      int64
	StudentName    string
	StudentPhone   string
	StudentAddress string
	PaymentMethod  string
}

type OrderService interface {
	Create(ctx context.Context, in OrderInput) (*Placement, error)
	Cancel(ctx context.Context, id, studentID int64) (*types.Order, error)
	// UpdateStatus moves an order along the shop-side edges. A non-zero shopID
	// must own the order.
	UpdateStatus(ctx context.Context, id, shopID int64, status string) (*types.Order, error)
	MarkPaid(ctx context.Context, id int64) error
	SetTransactionID(ctx context.Context, id int64, transactionID string) error
	SetPaymentStatus(ctx context.Context, id int64, status string) error

	ListByPhone(ctx context.Context, phone string) ([]*types.Order, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*types.Order, error)
	ListByShop(ctx context.Context, shopID int64, status string) ([]*types.Order, error)
	ListAll(ctx context.Context) ([]*types.Order, error)
}

// CodeGenerator returns a fresh human-readable order code.
type CodeGenerator func() string

func DefaultOrderCode() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(suffix))
}

// buyer is the contact snapshot written onto an order.
type buyer struct {
	StudentID *int64
	Name      string
	Phone     string
	Address   string
}

// orderPlacer runs the shared placement sequence for single orders and
// checkout lines. It must be called inside a transaction.
type orderPlacer struct {
	books   repos.BookRepo
	shops   repos.ShopRepo
	orders  repos.OrderRepo
	catalog CatalogService
	notes   NotificationService
	codes   CodeGenerator
}

func (p *orderPlacer) place(dbc dbctx.Context, op string, bookID int64, quantity int, who buyer, method types.PaymentMethod) (*types.Order, error) {
	book, err := p.books.GetByID(dbc, bookID)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if book == nil {
		return nil, notFound(op, "book")
	}
	shop, err := p.shops.GetByID(dbc, book.ShopID)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if shop == nil {
		return nil, notFound(op, "shop")
	}
	if method == types.PaymentUPI && !shop.HasUPI() {
		return nil, apperr.Validation(op, "shop has no UPI handle configured")
	}

	code := p.codes()
	amount := book.Price * float64(quantity)
	order := &types.Order{
		OrderCode:      code,
		BookID:         &book.ID,
		BookName:       book.Name,
		ShopID:         shop.ID,
		StudentID:      who.StudentID,
		StudentName:    who.Name,
		StudentPhone:   who.Phone,
		StudentAddress: who.Address,
		Price:          book.Price,
		Quantity:       quantity,
		Amount:         amount,
		PaymentMethod:  method,
		PaymentStatus:  types.PaymentPending,
		Status:         types.OrderPending,
	}
	if method == types.PaymentUPI {
		order.PaymentLink = payments.UPILink(shop.UPIID, shop.Name, amount, code)
		qr, err := payments.QRDataURL(order.PaymentLink)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, op, err)
		}
		order.QRCode = qr
	}

	if err := p.catalog.TakeStock(dbc, book.ID); err != nil {
		return nil, err
	}
	if err := p.orders.Create(dbc, order); err != nil {
		return nil, repoErr(op, err)
	}
	if err := p.notes.Notify(dbc, types.UserShop, shop.ID, "New order received: "+code, map[string]any{
		"order_id": code,
		"id":       order.ID,
	}); err != nil {
		return nil, err
	}
	return order, nil
}

func placementOf(o *types.Order) Placement {
	return Placement{OrderCode: o.OrderCode, QRURL: o.QRCode, PaymentLink: o.PaymentLink, ID: o.ID}
}

type orderService struct {
	db       *gorm.DB
	log      *logger.Logger
	tx       aggregates.TxRunner
	orders   repos.OrderRepo
	students repos.StudentRepo
	catalog  CatalogService
	notes    NotificationService
	placer   *orderPlacer
}

func NewOrderService(
	db *gorm.DB,
	log *logger.Logger,
	orderRepo repos.OrderRepo,
	bookRepo repos.BookRepo,
	shopRepo repos.ShopRepo,
	studentRepo repos.StudentRepo,
	catalog CatalogService,
	notes NotificationService,
	codes CodeGenerator,
) OrderService {
	if codes == nil {
		codes = DefaultOrderCode
	}
	return &orderService{
		db:       db,
		log:      log.With("service", "OrderService"),
		tx:       aggregates.NewGormTxRunner(db),
		orders:   orderRepo,
		students: studentRepo,
		catalog:  catalog,
		notes:    notes,
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

func (s *orderService) Create(ctx context.Context, in OrderInput) (*Placement, error) {
	const op = "order.create"
	ctx, span := observability.StartSpan(ctx, "order.Create", attribute.Int64("book_id", in.BookID))
	defer span.End()

	method, ok := orders.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, apperr.Validation(op, "payment_method must be cod or upi")
	}
	if in.BookID <= 0 || strings.TrimSpace(in.StudentAddress) == "" {
		return nil, apperr.Validation(op, "book_id and student_address are required")
	}

	var out Placement
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		who, err := s.resolveBuyer(dbc, op, in)
		if err != nil {
			return err
		}
		order, err := s.placer.place(dbc, op, in.BookID, 1, who, method)
		if err != nil {
			return err
		}
		out = placementOf(order)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, repoErr(op, err)
	}
	span.SetAttributes(attribute.String("order_code", out.OrderCode))
	s.log.Info("Order placed", "order_code", out.OrderCode, "book_id", in.BookID, "payment_method", method)
	return &out, nil
}

func (s *orderService) resolveBuyer(dbc dbctx.Context, op string, in OrderInput) (buyer, error) {
	who := buyer{
		Name:    strings.TrimSpace(in.StudentName),
		Phone:   strings.TrimSpace(in.StudentPhone),
		Address: strings.TrimSpace(in.StudentAddress),
	}
	if in.StudentID > 0 {
		st, err := s.students.GetByID(dbc, in.StudentID)
		if err != nil {
			return who, repoErr(op, err)
		}
		if st == nil {
			return who, notFound(op, "student")
		}
		id := st.ID
		who.StudentID = &id
		if who.Name == "" {
			who.Name = st.Name
		}
		if who.Phone == "" {
			who.Phone = st.Phone
		}
	}
	if who.Name == "" || who.Phone == "" {
		return who, apperr.Validation(op, "student_name and student_phone are required")
	}
	return who, nil
}

func (s *orderService) Cancel(ctx context.Context, id, studentID int64) (*types.Order, error) {
	const op = "order.cancel"
	var order *types.Order
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		o, err := s.orders.GetByID(dbc, id)
		if err != nil {
			return repoErr(op, err)
		}
		if o == nil {
			return notFound(op, "order")
		}
		if studentID > 0 && (o.StudentID == nil || *o.StudentID != studentID) {
			return apperr.Unauthorized(op, "order belongs to another student")
		}
		ok, err := s.orders.Transition(dbc, id, orders.AllowedFrom(types.OrderCancelled), map[string]any{
			"status": types.OrderCancelled,
		})
		if err != nil {
			return repoErr(op, err)
		}
		if !ok {
			return apperr.InvalidTransition(op, string(o.Status), string(types.OrderCancelled))
		}
		o.Status = types.OrderCancelled
		order = o
		return s.notes.Notify(dbc, types.UserShop, o.ShopID, fmt.Sprintf("Order %s has been cancelled.", o.OrderCode), map[string]any{
			"order_id": o.OrderCode,
			"status":   types.OrderCancelled,
		})
	})
	if err != nil {
		return nil, repoErr(op, err)
	}
	s.log.Info("Order cancelled", "order_code", order.OrderCode)
	return order, nil
}

var statusMessages = map[types.OrderStatus]string{
	types.OrderConfirmed: "Your order has been confirmed by the shop.",
	types.OrderRejected:  "Your order has been rejected by the shop.",
	types.OrderDelivered: "Your order has been delivered.",
}

func (s *orderService) UpdateStatus(ctx context.Context, id, shopID int64, status string) (*types.Order, error) {
	const op = "order.update_status"
	to, ok := orders.ParseStatus(status)
	if !ok {
		return nil, apperr.Validation(op, "unknown order status")
	}
	ctx, span := observability.StartSpan(ctx, "order.UpdateStatus",
		attribute.Int64("order_id", id),
		attribute.String("to", string(to)),
	)
	defer span.End()

	var order *types.Order
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		o, err := s.orders.GetByID(dbc, id)
		if err != nil {
			return repoErr(op, err)
		}
		if o == nil {
			return notFound(op, "order")
		}
		if shopID > 0 && o.ShopID != shopID {
			return apperr.Unauthorized(op, "order belongs to another shop")
		}
		// Students cancel through their own endpoint.
		if to == types.OrderCancelled || !orders.CanTransition(o.Status, to) {
			return apperr.InvalidTransition(op, string(o.Status), string(to))
		}

		updates := map[string]any{"status": to}
		if to == types.OrderDelivered {
			updates["payment_status"] = types.PaymentPaid
		}
		moved, err := s.orders.Transition(dbc, id, []types.OrderStatus{o.Status}, updates)
		if err != nil {
			return repoErr(op, err)
		}
		if !moved {
			return apperr.InvalidTransition(op, string(o.Status), string(to))
		}
		o.Status = to
		if to == types.OrderDelivered {
			o.PaymentStatus = types.PaymentPaid
		}

		if to == types.OrderRejected && o.BookID != nil {
			if err := s.catalog.RestoreStock(dbc, *o.BookID); err != nil {
				return err
			}
		}
		if o.StudentID != nil {
			if err := s.notes.Notify(dbc, types.UserStudent, *o.StudentID, statusMessages[to], map[string]any{
				"order_id": o.OrderCode,
				"status":   to,
			}); err != nil {
				return err
			}
		}
		order = o
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, repoErr(op, err)
	}
	s.log.Info("Order status updated", "order_code", order.OrderCode, "status", to)
	return order, nil
}

func (s *orderService) MarkPaid(ctx context.Context, id int64) error {
	return s.setPayment(ctx, "order.mark_paid", id, types.PaymentPaid)
}

func (s *orderService) SetPaymentStatus(ctx context.Context, id int64, status string) error {
	const op = "order.set_payment_status"
	ps, ok := orders.ParsePaymentStatus(status)
	if !ok {
		return apperr.Validation(op, "payment status must be pending or paid")
	}
	return s.setPayment(ctx, op, id, ps)
}

func (s *orderService) setPayment(ctx context.Context, op string, id int64, status types.PaymentStatus) error {
	ok, err := s.orders.Update(dbctx.Context{Ctx: ctx}, id, map[string]any{
		"payment_status": status,
		"updated_at":     time.Now().UTC(),
	})
	if err != nil {
		return repoErr(op, err)
	}
	if !ok {
		return notFound(op, "order")
	}
	return nil
}

func (s *orderService) SetTransactionID(ctx context.Context, id int64, transactionID string) error {
	const op = "order.set_transaction"
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return apperr.Validation(op, "transaction_id is required")
	}
	ok, err := s.orders.Update(dbctx.Context{Ctx: ctx}, id, map[string]any{
		"transaction_id": transactionID,
		"updated_at":     time.Now().UTC(),
	})
	if err != nil {
		return repoErr(op, err)
	}
	if !ok {
		return notFound(op, "order")
	}
	return nil
}

func (s *orderService) ListByPhone(ctx context.Context, phone string) ([]*types.Order, error) {
	const op = "order.list_by_phone"
	if strings.TrimSpace(phone) == "" {
		return nil, apperr.Validation(op, "phone is required")
	}
	rows, err := s.orders.ListByPhone(dbctx.Context{Ctx: ctx}, phone)
	if err != nil {
		return nil, repoErr(op, err)
	}
	return rows, nil
}

func (s *orderService) ListByStudent(ctx context.Context, studentID int64) ([]*types.Order, error) {
	rows, err := s.orders.ListByStudent(dbctx.Context{Ctx: ctx}, studentID)
	if err != nil {
		return nil, repoErr("order.list_by_student", err)
	}
	return rows, nil
}

func (s *orderService) ListByShop(ctx context.Context, shopID int64, status string) ([]*types.Order, error) {
	const op = "order.list_by_shop"
	var filter types.OrderStatus
	if strings.TrimSpace(status) != "" {
		st, ok := orders.ParseStatus(status)
		if !ok {
			return nil, apperr.Validation(op, "unknown order status")
		}
		filter = st
	}
	rows, err := s.orders.ListByShop(dbctx.Context{Ctx: ctx}, shopID, filter)
	if err != nil {
		return nil, repoErr(op, err)
	}
	return rows, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]*types.Order, error) {
	rows, err := s.orders.ListAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, repoErr("order.list_all", err)
	}
	return rows, nil
}
