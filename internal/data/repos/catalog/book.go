package catalog

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type BookRepo interface {
	Create(dbc dbctx.Context, book *types.Book) error
	GetByID(dbc dbctx.Context, id int64) (*types.Book, error)
	GetListing(dbc dbctx.Context, id int64) (*types.Listing, error)
	Search(dbc dbctx.Context, f types.SearchFilter) ([]*types.Listing, error)
	ListingsByIDs(dbc dbctx.Context, ids []int64) ([]*types.Listing, error)
	Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error)
	Delete(dbc dbctx.Context, id int64) (bool, error)
	IDsByShop(dbc dbctx.Context, shopID int64) ([]int64, error)
	DeleteByShop(dbc dbctx.Context, shopID int64) (int64, error)
	DecrementStock(dbc dbctx.Context, id int64) (bool, error)
	IncrementStock(dbc dbctx.Context, id int64) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
	DistinctGrades(dbc dbctx.Context) ([]string, error)
	DistinctSubjects(dbc dbctx.Context, grade string) ([]string, error)
}

type bookRepo struct {
	db    *gorm.DB
	guard aggregates.CASGuard
	log   *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return &bookRepo{db: db, guard: aggregates.NewCASGuard(db), log: baseLog.With("repo", "BookRepo")}
}

const listingColumns = "books.*, shops.shop_name AS shop_name, shops.city AS city, shops.address AS address"

func (r *bookRepo) listingQuery(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db).
		Table("books").
		Select(listingColumns).
		Joins("JOIN shops ON shops.id = books.shop_id")
}

func (r *bookRepo) Create(dbc dbctx.Context, book *types.Book) error {
	if book == nil {
		return nil
	}
	return dbc.DB(r.db).Create(book).Error
}

func (r *bookRepo) GetByID(dbc dbctx.Context, id int64) (*types.Book, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.Book
	err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil || row.ID == 0 {
		return nil, err
	}
	return &row, nil
}

func (r *bookRepo) GetListing(dbc dbctx.Context, id int64) (*types.Listing, error) {
	if id <= 0 {
		return nil, nil
	}
	var rows []*types.Listing
	if err := r.listingQuery(dbc).Where("books.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Search returns books of verified shops matching f. Rating order is applied
// by the caller once aggregates are attached.
func (r *bookRepo) Search(dbc dbctx.Context, f types.SearchFilter) ([]*types.Listing, error) {
	q := r.listingQuery(dbc).
		Where("shops.verified = ?", true).
		Where("books.stock >= 0")

	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where("(LOWER(books.book_name) LIKE ? OR LOWER(books.subject) LIKE ? OR LOWER(books.edition) LIKE ?)", like, like, like)
	}
	if f.ShopID > 0 {
		q = q.Where("books.shop_id = ?", f.ShopID)
	}
	if g := strings.TrimSpace(f.Grade); g != "" {
		q = q.Where("books.grade = ?", g)
	}
	if s := strings.TrimSpace(f.Subject); s != "" {
		q = q.Where("LOWER(books.subject) = ?", strings.ToLower(s))
	}
	if c := strings.TrimSpace(f.City); c != "" {
		q = q.Where("LOWER(shops.city) = ?", strings.ToLower(c))
	}
	if f.Condition != "" {
		q = q.Where("books.condition = ?", f.Condition)
	}
	if f.PriceMin != nil {
		q = q.Where("books.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("books.price <= ?", *f.PriceMax)
	}

	switch f.Sort {
	case types.SortPriceAsc:
		q = q.Order("books.price ASC, books.id ASC")
	case types.SortPriceDesc:
		q = q.Order("books.price DESC, books.id ASC")
	default:
		q = q.Order("books.created_at DESC, books.id DESC")
	}

	var rows []*types.Listing
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *bookRepo) ListingsByIDs(dbc dbctx.Context, ids []int64) ([]*types.Listing, error) {
	var rows []*types.Listing
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.listingQuery(dbc).Where("books.id IN ?", ids).Order("books.id").Scan(&rows).Error
	return rows, err
}

func (r *bookRepo) Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error) {
	if id <= 0 || len(updates) == 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Model(&types.Book{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *bookRepo) Delete(dbc dbctx.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Book{})
	return res.RowsAffected > 0, res.Error
}

func (r *bookRepo) IDsByShop(dbc dbctx.Context, shopID int64) ([]int64, error) {
	var ids []int64
	err := dbc.DB(r.db).Model(&types.Book{}).Where("shop_id = ?", shopID).Pluck("id", &ids).Error
	return ids, err
}

func (r *bookRepo) DeleteByShop(dbc dbctx.Context, shopID int64) (int64, error) {
	res := dbc.DB(r.db).Where("shop_id = ?", shopID).Delete(&types.Book{})
	return res.RowsAffected, res.Error
}

// DecrementStock takes one unit only while stock is positive. False means the
// book is sold out or gone.
func (r *bookRepo) DecrementStock(dbc dbctx.Context, id int64) (bool, error) {
	return r.guard.DecrementIfPositive(dbc, "books", "stock", id)
}

func (r *bookRepo) IncrementStock(dbc dbctx.Context, id int64) (bool, error) {
	res := dbc.DB(r.db).Model(&types.Book{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + 1"))
	return res.RowsAffected > 0, res.Error
}

func (r *bookRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Book{}).Count(&n).Error
	return n, err
}

func (r *bookRepo) DistinctGrades(dbc dbctx.Context) ([]string, error) {
	var out []string
	err := dbc.DB(r.db).Model(&types.Book{}).
		Where("grade <> ''").
		Distinct("grade").
		Order("grade").
		Pluck("grade", &out).Error
	return out, err
}

func (r *bookRepo) DistinctSubjects(dbc dbctx.Context, grade string) ([]string, error) {
	q := dbc.DB(r.db).Model(&types.Book{}).Where("subject <> ''")
	if g := strings.TrimSpace(grade); g != "" {
		q = q.Where("grade = ?", g)
	}
	var out []string
	err := q.Distinct("subject").Order("subject").Pluck("subject", &out).Error
	return out, err
}
