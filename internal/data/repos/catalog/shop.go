package catalog

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type ShopRepo interface {
	Create(dbc dbctx.Context, shop *types.Shop) error
	GetByID(dbc dbctx.Context, id int64) (*types.Shop, error)
	GetByPhone(dbc dbctx.Context, phone string) (*types.Shop, error)
	List(dbc dbctx.Context) ([]*types.Shop, error)
	Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error)
	SetVerified(dbc dbctx.Context, id int64, verified bool, notification string) (bool, error)
	Delete(dbc dbctx.Context, id int64) (bool, error)
	Count(dbc dbctx.Context, verifiedOnly bool) (int64, error)
	Cities(dbc dbctx.Context) ([]string, error)
}

type shopRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShopRepo(db *gorm.DB, baseLog *logger.Logger) ShopRepo {
	return &shopRepo{db: db, log: baseLog.With("repo", "ShopRepo")}
}

func (r *shopRepo) Create(dbc dbctx.Context, shop *types.Shop) error {
	if shop == nil {
		return nil
	}
	return dbc.DB(r.db).Create(shop).Error
}

func (r *shopRepo) GetByID(dbc dbctx.Context, id int64) (*types.Shop, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.Shop
	err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil || row.ID == 0 {
		return nil, err
	}
	return &row, nil
}

func (r *shopRepo) GetByPhone(dbc dbctx.Context, phone string) (*types.Shop, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	var row types.Shop
	err := dbc.DB(r.db).Where("phone = ?", phone).Limit(1).Find(&row).Error
	if err != nil || row.ID == 0 {
		return nil, err
	}
	return &row, nil
}

func (r *shopRepo) List(dbc dbctx.Context) ([]*types.Shop, error) {
	var rows []*types.Shop
	if err := dbc.DB(r.db).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *shopRepo) Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error) {
	if id <= 0 || len(updates) == 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Model(&types.Shop{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *shopRepo) SetVerified(dbc dbctx.Context, id int64, verified bool, notification string) (bool, error) {
	return r.Update(dbc, id, map[string]any{
		"verified":     verified,
		"notification": notification,
	})
}

func (r *shopRepo) Delete(dbc dbctx.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Shop{})
	return res.RowsAffected > 0, res.Error
}

func (r *shopRepo) Count(dbc dbctx.Context, verifiedOnly bool) (int64, error) {
	q := dbc.DB(r.db).Model(&types.Shop{})
	if verifiedOnly {
		q = q.Where("verified = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *shopRepo) Cities(dbc dbctx.Context) ([]string, error) {
	var cities []string
	err := dbc.DB(r.db).Model(&types.Shop{}).
		Where("city <> ''").
		Distinct("city").
		Order("city").
		Pluck("city", &cities).Error
	return cities, err
}
