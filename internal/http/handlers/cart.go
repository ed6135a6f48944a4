package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type CartHandler struct {
	cart     services.CartService
	wishlist services.WishlistService
}

func NewCartHandler(cart services.CartService, wishlist services.WishlistService) *CartHandler {
	return &CartHandler{cart: cart, wishlist: wishlist}
}

type cartLineRequest struct {
	StudentID int64 `json:"student_id"`
	BookID    int64 `json:"book_id"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) bindLine(c *gin.Context, op string) (cartLineRequest, bool) {
	var req cartLineRequest
	if !bindJSON(c, &req) {
		return req, false
	}
	req.StudentID = actingID(c, ctxutil.RoleStudent, req.StudentID)
	if !ensureID(c, op, "student_id", req.StudentID) || !ensureID(c, op, "book_id", req.BookID) {
		return req, false
	}
	return req, true
}

// POST /cart/add
func (h *CartHandler) Add(c *gin.Context) {
	req, ok := h.bindLine(c, "cart.add")
	if !ok {
		return
	}
	if err := h.cart.Add(c.Request.Context(), req.StudentID, req.BookID, req.Quantity); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Added to cart")
}

// GET /cart/:studentId
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	rows, err := h.cart.Get(c.Request.Context(), actingID(c, ctxutil.RoleStudent, id))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.CartView{}
	}
	response.RespondOK(c, rows)
}

// PUT /cart/update
func (h *CartHandler) Update(c *gin.Context) {
	req, ok := h.bindLine(c, "cart.update")
	if !ok {
		return
	}
	if err := h.cart.Update(c.Request.Context(), req.StudentID, req.BookID, req.Quantity); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Cart updated")
}

// DELETE /cart/remove
func (h *CartHandler) Remove(c *gin.Context) {
	req, ok := h.bindLine(c, "cart.remove")
	if !ok {
		return
	}
	if err := h.cart.Remove(c.Request.Context(), req.StudentID, req.BookID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Removed from cart")
}

// DELETE /cart/clear/:studentId
func (h *CartHandler) Clear(c *gin.Context) {
	id, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	if err := h.cart.Clear(c.Request.Context(), actingID(c, ctxutil.RoleStudent, id)); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Cart cleared")
}

// POST /wishlists
func (h *CartHandler) AddWishlist(c *gin.Context) {
	req, ok := h.bindLine(c, "wishlist.add")
	if !ok {
		return
	}
	if err := h.wishlist.Add(c.Request.Context(), req.StudentID, req.BookID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Added to wishlist")
}

// DELETE /wishlists
func (h *CartHandler) RemoveWishlist(c *gin.Context) {
	req, ok := h.bindLine(c, "wishlist.remove")
	if !ok {
		return
	}
	if err := h.wishlist.Remove(c.Request.Context(), req.StudentID, req.BookID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Removed from wishlist")
}

// GET /wishlists/:studentId
func (h *CartHandler) Wishlist(c *gin.Context) {
	id, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	rows, err := h.wishlist.List(c.Request.Context(), actingID(c, ctxutil.RoleStudent, id))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.Listing{}
	}
	response.RespondOK(c, rows)
}
