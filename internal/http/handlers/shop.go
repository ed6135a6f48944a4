package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type ShopHandler struct {
	auth  services.AuthService
	shops services.ShopService
}

func NewShopHandler(auth services.AuthService, shops services.ShopService) *ShopHandler {
	return &ShopHandler{auth: auth, shops: shops}
}

type shopRegisterRequest struct {
	ShopName  string `json:"shop_name"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone" binding:"required,phone"`
	Password  string `json:"password"`
	Address   string `json:"address"`
	City      string `json:"city"`
	UPIID     string `json:"upi_id"`
}

// POST /shops/register
func (h *ShopHandler) Register(c *gin.Context) {
	var req shopRegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	shop, err := h.auth.RegisterShop(c.Request.Context(), services.ShopRegistration{
		ShopName:  req.ShopName,
		OwnerName: req.OwnerName,
		Phone:     req.Phone,
		Password:  req.Password,
		Address:   req.Address,
		City:      req.City,
		UPIID:     req.UPIID,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Registered. Waiting for admin approval.", "shop_id": shop.ID})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /shops/login
func (h *ShopHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.auth.LoginShop(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"shop_id":   sess.Shop.ID,
		"shop_name": sess.Shop.Name,
		"token":     sess.Token,
	})
}

// GET /shops/:id/profile?student_id=
func (h *ShopHandler) Profile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewer, err := viewerFrom(c)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	p, err := h.shops.Profile(c.Request.Context(), id, viewer)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// PUT /shops/:id/profile (multipart, optional "logo" and "banner")
func (h *ShopHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	id = actingID(c, ctxutil.RoleShop, id)
	logo, closeLogo, err := formUpload(c, "logo")
	defer closeLogo()
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	banner, closeBanner, err := formUpload(c, "banner")
	defer closeBanner()
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	p, err := h.shops.UpdateProfile(c.Request.Context(), id, services.ShopProfileInput{
		ShopName:  formString(c, "shop_name"),
		OwnerName: formString(c, "owner_name"),
		Phone:     formString(c, "phone"),
		Address:   formString(c, "address"),
		City:      formString(c, "city"),
		Logo:      logo,
		Banner:    banner,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, p)
}

type upiRequest struct {
	UPIID string `json:"upi_id"`
}

// PUT /shops/:id/upi
func (h *ShopHandler) UpdateUPI(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req upiRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.shops.UpdateUPI(c.Request.Context(), actingID(c, ctxutil.RoleShop, id), req.UPIID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "UPI ID updated")
}

// GET /shops/:id/analytics
func (h *ShopHandler) Analytics(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.shops.Analytics(c.Request.Context(), actingID(c, ctxutil.RoleShop, id))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, a)
}

// GET /shops/:id/rating
func (h *ShopHandler) Rating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.shops.Rating(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, r)
}

// ensureID rejects bodies that omit a required identifier.
func ensureID(c *gin.Context, op, field string, id int64) bool {
	if id <= 0 {
		response.RespondAppError(c, apperr.Validation(op, field+" is required"))
		return false
	}
	return true
}
