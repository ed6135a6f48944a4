package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/bookmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
)

func TestOrderCreateThenRejectRestoresStock(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Concepts of Physics", 200, 1)
	student := testutil.SeedStudent(t, e.ctx, e.db, "Asha")

	placed, err := e.orderSvc.Create(e.ctx, OrderInput{
		BookID:         book.ID,
		StudentID:      student.ID,
		StudentAddress: "Hostel 4",
		PaymentMethod:  "cod",
	})
	require.NoError(t, err)
	require.NotZero(t, placed.ID)
	require.Empty(t, placed.QRURL)
	require.Equal(t, 0, e.stock(t, book.ID))

	o := e.order(t, placed.ID)
	require.Equal(t, types.OrderPending, o.Status)
	require.Equal(t, types.PaymentPending, o.PaymentStatus)
	require.Equal(t, 200.0, o.Amount)
	require.Equal(t, student.Phone, o.StudentPhone)

	shopNotes := e.notifications(t, types.UserShop, shop.ID)
	require.Len(t, shopNotes, 1)
	require.Equal(t, "New order received: "+placed.OrderCode, shopNotes[0].Message)

	_, err = e.orderSvc.UpdateStatus(e.ctx, placed.ID, shop.ID, "rejected")
	require.NoError(t, err)
	require.Equal(t, 1, e.stock(t, book.ID))
	require.Equal(t, types.OrderRejected, e.order(t, placed.ID).Status)

	studentNotes := e.notifications(t, types.UserStudent, student.ID)
	require.Len(t, studentNotes, 1)
	require.Contains(t, studentNotes[0].Message, "rejected")
}

func TestOrderCreateOutOfStockLeavesNoOrder(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Sold Out", 100, 0)

	_, err := e.orderSvc.Create(e.ctx, OrderInput{
		BookID: book.ID, StudentName: "Ravi", StudentPhone: testutil.Phone(), StudentAddress: "Block C",
	})
	require.True(t, apperr.Is(err, apperr.CodeOutOfStock), "got %v", err)

	all, err := e.orderSvc.ListAll(e.ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	require.Empty(t, e.notifications(t, types.UserShop, shop.ID))
}

func TestOrderCreateValidatesInput(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 3)

	_, err := e.orderSvc.Create(e.ctx, OrderInput{BookID: book.ID, StudentName: "X", StudentPhone: "1"})
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = e.orderSvc.Create(e.ctx, OrderInput{BookID: book.ID, StudentAddress: "A"})
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = e.orderSvc.Create(e.ctx, OrderInput{BookID: book.ID, StudentID: 9999, StudentAddress: "A"})
	require.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = e.orderSvc.Create(e.ctx, OrderInput{BookID: 9999, StudentName: "X", StudentPhone: "1", StudentAddress: "A"})
	require.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = e.orderSvc.Create(e.ctx, OrderInput{BookID: book.ID, StudentName: "X", StudentPhone: "1", StudentAddress: "A", PaymentMethod: "card"})
	require.True(t, apperr.Is(err, apperr.CodeValidation))
	require.Equal(t, 3, e.stock(t, book.ID))
}

func TestOrderUPIRequiresShopHandle(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 2)

	_, err := e.orderSvc.Create(e.ctx, OrderInput{
		BookID: book.ID, StudentName: "X", StudentPhone: testutil.Phone(), StudentAddress: "A", PaymentMethod: "upi",
	})
	require.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
	require.Equal(t, 2, e.stock(t, book.ID))
}

func TestOrderUPIBuildsPaymentLinkAndQR(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "campus@upi")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 150, 2)

	placed, err := e.orderSvc.Create(e.ctx, OrderInput{
		BookID: book.ID, StudentName: "X", StudentPhone: testutil.Phone(), StudentAddress: "A", PaymentMethod: "upi",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(placed.QRURL, "data:image/png;base64,"))
	require.Equal(t, "upi://pay?pa=campus@upi&pn=Campus%20Books&am=150&cu=INR&tn="+placed.OrderCode, placed.PaymentLink)

	o := e.order(t, placed.ID)
	require.Equal(t, types.PaymentUPI, o.PaymentMethod)
	require.Equal(t, placed.QRURL, o.QRCode)
}

func TestOrderConcurrentCreationNeverOversells(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Popular", 100, 3)

	const buyers = 8
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.orderSvc.Create(e.ctx, OrderInput{
				BookID: book.ID, StudentName: "Buyer", StudentPhone: testutil.Phone(), StudentAddress: "A",
			})
		}(i)
	}
	wg.Wait()

	var ok, sold int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.CodeOutOfStock):
			sold++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 3, ok)
	require.Equal(t, buyers-3, sold)
	require.Equal(t, 0, e.stock(t, book.ID))
}

func TestOrderStatusGraph(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	other := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 5)
	student := testutil.SeedStudent(t, e.ctx, e.db, "S")

	pending := testutil.SeedOrder(t, e.ctx, e.db, book, student, types.OrderPending)

	_, err := e.orderSvc.UpdateStatus(e.ctx, pending.ID, shop.ID, "delivered")
	require.True(t, apperr.Is(err, apperr.CodeInvalidTransition), "deliver from pending: %v", err)

	_, err = e.orderSvc.UpdateStatus(e.ctx, pending.ID, shop.ID, "cancelled")
	require.True(t, apperr.Is(err, apperr.CodeInvalidTransition), "shop cancel: %v", err)

	_, err = e.orderSvc.UpdateStatus(e.ctx, pending.ID, other.ID, "confirmed")
	require.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	_, err = e.orderSvc.UpdateStatus(e.ctx, pending.ID, shop.ID, "shipped")
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	o, err := e.orderSvc.UpdateStatus(e.ctx, pending.ID, shop.ID, "confirmed")
	require.NoError(t, err)
	require.Equal(t, types.OrderConfirmed, o.Status)

	o, err = e.orderSvc.UpdateStatus(e.ctx, pending.ID, 0, "delivered")
	require.NoError(t, err)
	require.Equal(t, types.OrderDelivered, o.Status)
	require.Equal(t, types.PaymentPaid, e.order(t, pending.ID).PaymentStatus)

	_, err = e.orderSvc.UpdateStatus(e.ctx, pending.ID, shop.ID, "rejected")
	require.True(t, apperr.Is(err, apperr.CodeInvalidTransition), "terminal source: %v", err)

	msgs := e.notifications(t, types.UserStudent, student.ID)
	require.Len(t, msgs, 2)

	_, err = e.orderSvc.UpdateStatus(e.ctx, 424242, shop.ID, "confirmed")
	require.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestOrderConfirmedRejectRestoresStock(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 2)

	placed, err := e.orderSvc.Create(e.ctx, OrderInput{
		BookID: book.ID, StudentName: "X", StudentPhone: testutil.Phone(), StudentAddress: "A",
	})
	require.NoError(t, err)
	_, err = e.orderSvc.UpdateStatus(e.ctx, placed.ID, shop.ID, "confirmed")
	require.NoError(t, err)
	_, err = e.orderSvc.UpdateStatus(e.ctx, placed.ID, shop.ID, "rejected")
	require.NoError(t, err)
	require.Equal(t, 2, e.stock(t, book.ID))
}

func TestOrderCancelKeepsStockAndNotifiesShop(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 2)
	student := testutil.SeedStudent(t, e.ctx, e.db, "S")
	intruder := testutil.SeedStudent(t, e.ctx, e.db, "I")

	placed, err := e.orderSvc.Create(e.ctx, OrderInput{BookID: book.ID, StudentID: student.ID, StudentAddress: "A"})
	require.NoError(t, err)
	require.Equal(t, 1, e.stock(t, book.ID))

	_, err = e.orderSvc.Cancel(e.ctx, placed.ID, intruder.ID)
	require.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	o, err := e.orderSvc.Cancel(e.ctx, placed.ID, student.ID)
	require.NoError(t, err)
	require.Equal(t, types.OrderCancelled, o.Status)
	require.Equal(t, 1, e.stock(t, book.ID))

	notes := e.notifications(t, types.UserShop, shop.ID)
	require.Equal(t, "Order "+placed.OrderCode+" has been cancelled.", notes[0].Message)

	_, err = e.orderSvc.Cancel(e.ctx, placed.ID, 0)
	require.True(t, apperr.Is(err, apperr.CodeInvalidTransition))
}

func TestOrderCancelOnlyFromPending(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 2)
	o := testutil.SeedOrder(t, e.ctx, e.db, book, nil, types.OrderConfirmed)

	_, err := e.orderSvc.Cancel(e.ctx, o.ID, 0)
	require.True(t, apperr.Is(err, apperr.CodeInvalidTransition))
	require.Equal(t, types.OrderConfirmed, e.order(t, o.ID).Status)
}

func TestOrderPaymentUpdates(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 2)
	o := testutil.SeedOrder(t, e.ctx, e.db, book, nil, types.OrderPending)

	require.NoError(t, e.orderSvc.MarkPaid(e.ctx, o.ID))
	got := e.order(t, o.ID)
	require.Equal(t, types.PaymentPaid, got.PaymentStatus)
	require.Equal(t, types.OrderPending, got.Status)

	require.NoError(t, e.orderSvc.SetTransactionID(e.ctx, o.ID, " UTR123 "))
	require.Equal(t, "UTR123", e.order(t, o.ID).TransactionID)
	require.True(t, apperr.Is(e.orderSvc.SetTransactionID(e.ctx, o.ID, ""), apperr.CodeValidation))

	require.NoError(t, e.admin.SetPaymentStatus(e.ctx, o.ID, "pending"))
	require.Equal(t, types.PaymentPending, e.order(t, o.ID).PaymentStatus)
	require.True(t, apperr.Is(e.admin.SetPaymentStatus(e.ctx, o.ID, "refunded"), apperr.CodeValidation))
	require.True(t, apperr.Is(e.orderSvc.MarkPaid(e.ctx, 99999), apperr.CodeNotFound))
}

func TestOrderListings(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 5)
	student := testutil.SeedStudent(t, e.ctx, e.db, "S")
	testutil.SeedOrder(t, e.ctx, e.db, book, student, types.OrderPending)
	testutil.SeedOrder(t, e.ctx, e.db, book, student, types.OrderDelivered)

	byPhone, err := e.orderSvc.ListByPhone(e.ctx, student.Phone)
	require.NoError(t, err)
	require.Len(t, byPhone, 2)

	_, err = e.orderSvc.ListByPhone(e.ctx, " ")
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	byStudent, err := e.orderSvc.ListByStudent(e.ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, byStudent, 2)

	open, err := e.orderSvc.ListByShop(e.ctx, shop.ID, "")
	require.NoError(t, err)
	require.Len(t, open, 1)

	delivered, err := e.orderSvc.ListByShop(e.ctx, shop.ID, "delivered")
	require.NoError(t, err)
	require.Len(t, delivered, 1)

	_, err = e.orderSvc.ListByShop(e.ctx, shop.ID, "lost")
	require.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestDefaultOrderCodeShape(t *testing.T) {
	code := DefaultOrderCode()
	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	require.Equal(t, "ORD", parts[0])
	require.Len(t, parts[2], 6)
	require.NotEqual(t, code, DefaultOrderCode())
}
