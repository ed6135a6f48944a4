package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/domain/engagement"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type NotificationService interface {
	// Notify appends an unread message. It joins dbc's transaction when present.
	Notify(dbc dbctx.Context, userType types.UserType, userID int64, message string, data map[string]any) error
	Create(ctx context.Context, userType string, userID int64, message string) (*types.Notification, error)
	ListFor(ctx context.Context, userType string, userID int64) ([]*types.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type notificationService struct {
	log  *logger.Logger
	repo repos.NotificationRepo
}

func NewNotificationService(log *logger.Logger, repo repos.NotificationRepo) NotificationService {
	return &notificationService{log: log.With("service", "NotificationService"), repo: repo}
}

func (s *notificationService) Notify(dbc dbctx.Context, userType types.UserType, userID int64, message string, data map[string]any) error {
	const op = "notification.notify"
	n := &types.Notification{UserType: userType, UserID: userID, Message: message}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, op, err)
		}
		n.Data = datatypes.JSON(raw)
	}
	if err := s.repo.Create(dbc, n); err != nil {
		return repoErr(op, err)
	}
	s.log.Debug("Notification queued", "user_type", userType, "user_id", userID, "notification_id", n.ID)
	return nil
}

func (s *notificationService) Create(ctx context.Context, userType string, userID int64, message string) (*types.Notification, error) {
	const op = "notification.create"
	ut, ok := engagement.ParseUserType(userType)
	if !ok {
		return nil, apperr.Validation(op, "invalid user_type")
	}
	message = strings.TrimSpace(message)
	if userID <= 0 || message == "" {
		return nil, apperr.Validation(op, "missing required fields")
	}
	n := &types.Notification{UserType: ut, UserID: userID, Message: message}
	if err := s.repo.Create(dbctx.Context{Ctx: ctx}, n); err != nil {
		return nil, repoErr(op, err)
	}
	return n, nil
}

func (s *notificationService) ListFor(ctx context.Context, userType string, userID int64) ([]*types.Notification, error) {
	const op = "notification.list"
	ut, ok := engagement.ParseUserType(userType)
	if !ok {
		return nil, apperr.Validation(op, "invalid user_type")
	}
	rows, err := s.repo.ListFor(dbctx.Context{Ctx: ctx}, ut, userID)
	if err != nil {
		return nil, repoErr(op, err)
	}
	return rows, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64) error {
	const op = "notification.mark_read"
	ok, err := s.repo.MarkRead(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return repoErr(op, err)
	}
	if !ok {
		return notFound(op, "notification")
	}
	return nil
}
