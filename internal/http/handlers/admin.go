package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/services"
)

// ConfirmClearHeader must be "yes" for the clear-database route to run.
const ConfirmClearHeader = "X-Confirm-Clear"

type AdminHandler struct {
	auth  services.AuthService
	admin services.AdminService
	now   func() time.Time
}

func NewAdminHandler(auth services.AuthService, admin services.AdminService) *AdminHandler {
	return &AdminHandler{auth: auth, admin: admin, now: time.Now}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.auth.LoginAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Admin logged in", "token": token})
}

// GET /admin/shops
func (h *AdminHandler) Shops(c *gin.Context) {
	rows, err := h.admin.Shops(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*services.AdminShop{}
	}
	response.RespondOK(c, rows)
}

// GET /admin/analytics
func (h *AdminHandler) Analytics(c *gin.Context) {
	a, err := h.admin.Analytics(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, a)
}

type verifyRequest struct {
	Verified     bool   `json:"verified"`
	Notification string `json:"notification"`
}

// PUT /admin/shops/:id/verify
func (h *AdminHandler) VerifyShop(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req verifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.admin.VerifyShop(c.Request.Context(), id, req.Verified, req.Notification); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Shop updated")
}

// DELETE /admin/shops/:id
func (h *AdminHandler) DeleteShop(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.PurgeShop(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Shop and associated books deleted")
}

// GET /admin/students
func (h *AdminHandler) Students(c *gin.Context) {
	rows, err := h.admin.Students(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*services.AdminStudent{}
	}
	response.RespondOK(c, rows)
}

// DELETE /admin/students/:id
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteStudent(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Student deleted")
}

// GET /admin/orders
func (h *AdminHandler) Orders(c *gin.Context) {
	rows, err := h.admin.Orders(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.Order{}
	}
	response.RespondOK(c, rows)
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) SetPaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req paymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.admin.SetPaymentStatus(c.Request.Context(), id, req.PaymentStatus); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Payment status updated")
}

// GET /admin/cities
func (h *AdminHandler) Cities(c *gin.Context) {
	rows, err := h.admin.Cities(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []string{}
	}
	response.RespondOK(c, rows)
}

// GET /admin/export/:kind
func (h *AdminHandler) Export(c *gin.Context) {
	kind, ok := services.ParseExportKind(c.Param("kind"))
	if !ok {
		response.RespondAppError(c, apperr.Validation("admin.export", "kind must be shops, students or orders"))
		return
	}
	// Buffer so a failed query still produces a JSON error instead of a truncated file.
	var buf bytes.Buffer
	if err := h.admin.Export(c.Request.Context(), kind, &buf); err != nil {
		response.RespondAppError(c, err)
		return
	}
	name := fmt.Sprintf("%s_%s.csv", kind, h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// DELETE /admin/clear-database
func (h *AdminHandler) ClearDatabase(c *gin.Context) {
	if !strings.EqualFold(strings.TrimSpace(c.GetHeader(ConfirmClearHeader)), "yes") {
		response.RespondAppError(c, apperr.Validation("admin.clear", ConfirmClearHeader+": yes header required"))
		return
	}
	if err := h.admin.ClearDatabase(c.Request.Context()); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Database cleared")
}
