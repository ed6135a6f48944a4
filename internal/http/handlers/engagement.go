package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type EngagementHandler struct {
	reviews services.ReviewService
	notes   services.NotificationService
}

func NewEngagementHandler(reviews services.ReviewService, notes services.NotificationService) *EngagementHandler {
	return &EngagementHandler{reviews: reviews, notes: notes}
}

type reviewRequest struct {
	TargetType   string `json:"target_type"`
	TargetID     int64  `json:"target_id"`
	ReviewerType string `json:"reviewer_type"`
	ReviewerID   int64  `json:"reviewer_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

// POST /reviews
func (h *EngagementHandler) AddReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	reviewer := req.ReviewerID
	if p := ctxutil.GetPrincipal(c.Request.Context()); p != nil && string(p.Role) == req.ReviewerType {
		reviewer = p.ID
	}
	rv, err := h.reviews.Add(c.Request.Context(), services.ReviewInput{
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		ReviewerType: req.ReviewerType,
		ReviewerID:   reviewer,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Review added", "id": rv.ID})
}

// GET /reviews/:target_type/:target_id
func (h *EngagementHandler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "target_id")
	if !ok {
		return
	}
	rows, err := h.reviews.List(c.Request.Context(), c.Param("target_type"), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.ReviewView{}
	}
	response.RespondOK(c, rows)
}

// GET /notifications/:user_type/:user_id
func (h *EngagementHandler) ListNotifications(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	rows, err := h.notes.ListFor(c.Request.Context(), c.Param("user_type"), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.Notification{}
	}
	response.RespondOK(c, rows)
}

type notificationRequest struct {
	UserType string `json:"user_type"`
	UserID   int64  `json:"user_id"`
	Message  string `json:"message"`
}

// POST /notifications
func (h *EngagementHandler) CreateNotification(c *gin.Context) {
	var req notificationRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.notes.Create(c.Request.Context(), req.UserType, req.UserID, req.Message)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": n.ID})
}

// PUT /notifications/:id/read
func (h *EngagementHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notes.MarkRead(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Marked as read")
}
