package orders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type WishlistRepo interface {
	// Add is idempotent; the bool reports whether a new row was written.
	Add(dbc dbctx.Context, studentID, bookID int64) (bool, error)
	Remove(dbc dbctx.Context, studentID, bookID int64) (bool, error)
	BookIDs(dbc dbctx.Context, studentID int64) ([]int64, error)
	DeleteByBooks(dbc dbctx.Context, bookIDs []int64) error
	DeleteByStudent(dbc dbctx.Context, studentID int64) error
}

type wishlistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWishlistRepo(db *gorm.DB, baseLog *logger.Logger) WishlistRepo {
	return &wishlistRepo{db: db, log: baseLog.With("repo", "WishlistRepo")}
}

func (r *wishlistRepo) Add(dbc dbctx.Context, studentID, bookID int64) (bool, error) {
	row := &types.WishlistItem{StudentID: studentID, BookID: bookID}
	res := dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	return res.RowsAffected > 0, res.Error
}

func (r *wishlistRepo) Remove(dbc dbctx.Context, studentID, bookID int64) (bool, error) {
	res := dbc.DB(r.db).Where("student_id = ? AND book_id = ?", studentID, bookID).Delete(&types.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *wishlistRepo) BookIDs(dbc dbctx.Context, studentID int64) ([]int64, error) {
	var ids []int64
	err := dbc.DB(r.db).Model(&types.WishlistItem{}).
		Where("student_id = ?", studentID).
		Order("added_at DESC, id DESC").
		Pluck("book_id", &ids).Error
	return ids, err
}

func (r *wishlistRepo) DeleteByBooks(dbc dbctx.Context, bookIDs []int64) error {
	if len(bookIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("book_id IN ?", bookIDs).Delete(&types.WishlistItem{}).Error
}

func (r *wishlistRepo) DeleteByStudent(dbc dbctx.Context, studentID int64) error {
	return dbc.DB(r.db).Where("student_id = ?", studentID).Delete(&types.WishlistItem{}).Error
}
