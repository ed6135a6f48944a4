package orders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type CartRepo interface {
	// Upsert sets the line's quantity, creating the line when missing.
	Upsert(dbc dbctx.Context, studentID, bookID int64, quantity int) error
	List(dbc dbctx.Context, studentID int64) ([]*types.CartView, error)
	Lines(dbc dbctx.Context, studentID int64) ([]*types.CartLine, error)
	UpdateQuantity(dbc dbctx.Context, studentID, bookID int64, quantity int) (bool, error)
	Remove(dbc dbctx.Context, studentID, bookID int64) (bool, error)
	Clear(dbc dbctx.Context, studentID int64) (int64, error)
	DeleteByBooks(dbc dbctx.Context, bookIDs []int64) error
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	return &cartRepo{db: db, log: baseLog.With("repo", "CartRepo")}
}

func (r *cartRepo) Upsert(dbc dbctx.Context, studentID, bookID int64, quantity int) error {
	row := &types.CartLine{StudentID: studentID, BookID: bookID, Quantity: quantity}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).
		Create(row).Error
}

func (r *cartRepo) List(dbc dbctx.Context, studentID int64) ([]*types.CartView, error) {
	var rows []*types.CartView
	err := dbc.DB(r.db).
		Table("cart").
		Select("cart.*, books.book_name AS book_name, books.price AS price, books.condition AS condition, books.stock AS stock, books.shop_id AS shop_id, shops.shop_name AS shop_name").
		Joins("JOIN books ON books.id = cart.book_id").
		Joins("JOIN shops ON shops.id = books.shop_id").
		Where("cart.student_id = ?", studentID).
		Order("cart.added_at DESC, cart.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *cartRepo) Lines(dbc dbctx.Context, studentID int64) ([]*types.CartLine, error) {
	var rows []*types.CartLine
	err := dbc.DB(r.db).Where("student_id = ?", studentID).Order("id").Find(&rows).Error
	return rows, err
}

func (r *cartRepo) UpdateQuantity(dbc dbctx.Context, studentID, bookID int64, quantity int) (bool, error) {
	res := dbc.DB(r.db).Model(&types.CartLine{}).
		Where("student_id = ? AND book_id = ?", studentID, bookID).
		Update("quantity", quantity)
	return res.RowsAffected > 0, res.Error
}

func (r *cartRepo) Remove(dbc dbctx.Context, studentID, bookID int64) (bool, error) {
	res := dbc.DB(r.db).Where("student_id = ? AND book_id = ?", studentID, bookID).Delete(&types.CartLine{})
	return res.RowsAffected > 0, res.Error
}

func (r *cartRepo) Clear(dbc dbctx.Context, studentID int64) (int64, error) {
	res := dbc.DB(r.db).Where("student_id = ?", studentID).Delete(&types.CartLine{})
	return res.RowsAffected, res.Error
}

func (r *cartRepo) DeleteByBooks(dbc dbctx.Context, bookIDs []int64) error {
	if len(bookIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("book_id IN ?", bookIDs).Delete(&types.CartLine{}).Error
}
