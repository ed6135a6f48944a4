package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type OrderHandler struct {
	orders services.OrderService
	cart   services.CartService
}

func NewOrderHandler(orders services.OrderService, cart services.CartService) *OrderHandler {
	return &OrderHandler{orders: orders, cart: cart}
}

type createOrderRequest struct {
	BookID         int64  `json:"book_id"`
	StudentID      int64  `json:"student_id"`
	StudentName    string `json:"student_name"`
	StudentPhone   string `json:"student_phone" binding:"omitempty,phone"`
	StudentAddress string `json:"student_address"`
	PaymentMethod  string `json:"payment_method"`
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	placed, err := h.orders.Create(c.Request.Context(), services.OrderInput{
		BookID:         req.BookID,
		StudentID:      actingID(c, ctxutil.RoleStudent, req.StudentID),
		StudentName:    req.StudentName,
		StudentPhone:   req.StudentPhone,
		StudentAddress: req.StudentAddress,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, placed)
}

type checkoutRequest struct {
	StudentID      int64  `json:"student_id"`
	StudentAddress string `json:"student_address"`
	PaymentMethod  string `json:"payment_method"`
}

// POST /orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	placed, err := h.cart.Checkout(c.Request.Context(), services.CheckoutInput{
		StudentID:      actingID(c, ctxutil.RoleStudent, req.StudentID),
		StudentAddress: req.StudentAddress,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Checkout successful", "orders": placed})
}

func respondOrders(c *gin.Context, rows []*types.Order, err error) {
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.Order{}
	}
	response.RespondOK(c, rows)
}

// GET /orders?phone=
func (h *OrderHandler) ListByPhone(c *gin.Context) {
	rows, err := h.orders.ListByPhone(c.Request.Context(), c.Query("phone"))
	respondOrders(c, rows, err)
}

// GET /orders/student/:id
func (h *OrderHandler) ListByStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.orders.ListByStudent(c.Request.Context(), actingID(c, ctxutil.RoleStudent, id))
	respondOrders(c, rows, err)
}

// GET /orders/shop/:id?status=
func (h *OrderHandler) ListByShop(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.orders.ListByShop(c.Request.Context(), actingID(c, ctxutil.RoleShop, id), c.Query("status"))
	respondOrders(c, rows, err)
}

type statusRequest struct {
	Status string `json:"status"`
	ShopID int64  `json:"shop_id"`
}

// PUT /orders/:id and PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.orders.UpdateStatus(c.Request.Context(), id, actingID(c, ctxutil.RoleShop, req.ShopID), req.Status)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Status updated", "status": o.Status, "book_id": o.BookID})
}

type cancelRequest struct {
	StudentID int64 `json:"student_id"`
}

// PUT /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req cancelRequest
	// The body is optional for cancellation.
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	if _, err := h.orders.Cancel(c.Request.Context(), id, actingID(c, ctxutil.RoleStudent, req.StudentID)); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Order cancelled")
}

type transactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

// PUT /orders/:id/transaction
func (h *OrderHandler) SetTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transactionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.orders.SetTransactionID(c.Request.Context(), id, req.TransactionID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Transaction ID updated")
}

// PUT /orders/:id/pay
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.MarkPaid(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Payment marked as paid")
}
