package accounts

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type StudentRepo interface {
	Create(dbc dbctx.Context, s *types.Student) error
	GetByID(dbc dbctx.Context, id int64) (*types.Student, error)
	GetByPhone(dbc dbctx.Context, phone string) (*types.Student, error)
	List(dbc dbctx.Context) ([]*types.Student, error)
	Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error)
	Delete(dbc dbctx.Context, id int64) (bool, error)
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{db: db, log: baseLog.With("repo", "StudentRepo")}
}

func (r *studentRepo) Create(dbc dbctx.Context, s *types.Student) error {
	if s == nil {
		return nil
	}
	return dbc.DB(r.db).Create(s).Error
}

func (r *studentRepo) GetByID(dbc dbctx.Context, id int64) (*types.Student, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.Student
	err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil || row.ID == 0 {
		return nil, err
	}
	return &row, nil
}

func (r *studentRepo) GetByPhone(dbc dbctx.Context, phone string) (*types.Student, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	var row types.Student
	err := dbc.DB(r.db).Where("phone = ?", phone).Limit(1).Find(&row).Error
	if err != nil || row.ID == 0 {
		return nil, err
	}
	return &row, nil
}

func (r *studentRepo) List(dbc dbctx.Context) ([]*types.Student, error) {
	var rows []*types.Student
	err := dbc.DB(r.db).Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *studentRepo) Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error) {
	if id <= 0 || len(updates) == 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Model(&types.Student{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *studentRepo) Delete(dbc dbctx.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Student{})
	return res.RowsAffected > 0, res.Error
}
