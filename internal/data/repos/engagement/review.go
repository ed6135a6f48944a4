package engagement

import (
	"gorm.io/gorm"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type ReviewRepo interface {
	Create(dbc dbctx.Context, r *types.Review) error
	Exists(dbc dbctx.Context, target types.TargetType, targetID int64, reviewer types.ReviewerType, reviewerID int64) (bool, error)
	List(dbc dbctx.Context, target types.TargetType, targetID int64) ([]*types.ReviewView, error)
	// Aggregate returns mean and count per target id in one grouped query.
	// Ids without reviews are absent from the map.
	Aggregate(dbc dbctx.Context, target types.TargetType, ids []int64) (map[int64]types.Rating, error)
	Average(dbc dbctx.Context, target types.TargetType, targetID int64) (types.Rating, error)
	// Overall averages every review of the target type.
	Overall(dbc dbctx.Context, target types.TargetType) (types.Rating, error)
	DeleteForTargets(dbc dbctx.Context, target types.TargetType, ids []int64) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) Create(dbc dbctx.Context, rev *types.Review) error {
	if rev == nil {
		return nil
	}
	return dbc.DB(r.db).Create(rev).Error
}

func (r *reviewRepo) Exists(dbc dbctx.Context, target types.TargetType, targetID int64, reviewer types.ReviewerType, reviewerID int64) (bool, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Review{}).
		Where("target_type = ? AND target_id = ? AND reviewer_type = ? AND reviewer_id = ?", target, targetID, reviewer, reviewerID).
		Count(&n).Error
	return n > 0, err
}

func (r *reviewRepo) List(dbc dbctx.Context, target types.TargetType, targetID int64) ([]*types.ReviewView, error) {
	var rows []*types.ReviewView
	err := dbc.DB(r.db).
		Table("reviews").
		Select("reviews.*, COALESCE(students.name, shops.shop_name, '') AS reviewer_name").
		Joins("LEFT JOIN students ON reviews.reviewer_type = ? AND students.id = reviews.reviewer_id", types.ReviewerStudent).
		Joins("LEFT JOIN shops ON reviews.reviewer_type = ? AND shops.id = reviews.reviewer_id", types.ReviewerShop).
		Where("reviews.target_type = ? AND reviews.target_id = ?", target, targetID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&rows).Error
	return rows, err
}

type ratingRow struct {
	TargetID int64
	Average  float64
	Count    int64
}

func (r *reviewRepo) Aggregate(dbc dbctx.Context, target types.TargetType, ids []int64) (map[int64]types.Rating, error) {
	out := make(map[int64]types.Rating, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []ratingRow
	err := dbc.DB(r.db).Model(&types.Review{}).
		Select("target_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("target_type = ? AND target_id IN ?", target, ids).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TargetID] = types.Rating{Average: row.Average, Count: row.Count}
	}
	return out, nil
}

func (r *reviewRepo) Average(dbc dbctx.Context, target types.TargetType, targetID int64) (types.Rating, error) {
	m, err := r.Aggregate(dbc, target, []int64{targetID})
	if err != nil {
		return types.Rating{}, err
	}
	return m[targetID], nil
}

func (r *reviewRepo) Overall(dbc dbctx.Context, target types.TargetType) (types.Rating, error) {
	var row ratingRow
	err := dbc.DB(r.db).Model(&types.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("target_type = ?", target).
		Scan(&row).Error
	return types.Rating{Average: row.Average, Count: row.Count}, err
}

func (r *reviewRepo) DeleteForTargets(dbc dbctx.Context, target types.TargetType, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("target_type = ? AND target_id IN ?", target, ids).
		Delete(&types.Review{}).Error
}
