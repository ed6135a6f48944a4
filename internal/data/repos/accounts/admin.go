package accounts

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type AdminRepo interface {
	GetByUsername(dbc dbctx.Context, username string) (*types.Admin, error)
	// Upsert creates the admin or replaces its password hash.
	Upsert(dbc dbctx.Context, a *types.Admin) error
}

type adminRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminRepo(db *gorm.DB, baseLog *logger.Logger) AdminRepo {
	return &adminRepo{db: db, log: baseLog.With("repo", "AdminRepo")}
}

func (r *adminRepo) GetByUsername(dbc dbctx.Context, username string) (*types.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	var row types.Admin
	err := dbc.DB(r.db).Where("username = ?", username).Limit(1).Find(&row).Error
	if err != nil || row.ID == 0 {
		return nil, err
	}
	return &row, nil
}

func (r *adminRepo) Upsert(dbc dbctx.Context, a *types.Admin) error {
	if a == nil {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"password"}),
		}).
		Create(a).Error
}
