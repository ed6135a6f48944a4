package engagement

import (
	"gorm.io/gorm"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, n *types.Notification) error
	ListFor(dbc dbctx.Context, userType types.UserType, userID int64) ([]*types.Notification, error)
	MarkRead(dbc dbctx.Context, id int64) (bool, error)
	DeleteFor(dbc dbctx.Context, userType types.UserType, userID int64) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(dbc dbctx.Context, n *types.Notification) error {
	if n == nil {
		return nil
	}
	return dbc.DB(r.db).Create(n).Error
}

func (r *notificationRepo) ListFor(dbc dbctx.Context, userType types.UserType, userID int64) ([]*types.Notification, error) {
	var rows []*types.Notification
	err := dbc.DB(r.db).
		Where("user_type = ? AND user_id = ?", userType, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Model(&types.Notification{}).Where("id = ?", id).Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepo) DeleteFor(dbc dbctx.Context, userType types.UserType, userID int64) error {
	return dbc.DB(r.db).
		Where("user_type = ? AND user_id = ?", userType, userID).
		Delete(&types.Notification{}).Error
}
