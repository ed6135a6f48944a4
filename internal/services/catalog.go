package services

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
	"github.com/yungbote/bookmart-backend/internal/observability"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/storage"
)

// Viewer identifies who is reading a listing. Zero ids mean anonymous.
type Viewer struct {
	StudentID int64
	ShopID    int64
}

// BookInput carries a create or partial update. Nil fields are left alone on
// update.
type BookInput struct {
	ShopID    int64
	Name      *string
	Edition   *string
	Subject   *string
	Grade     *string
	Price     *float64
	Condition *string
	Stock     *int
	Cover     *Upload
}

type CatalogService interface {
	Search(ctx context.Context, f types.SearchFilter) ([]*types.Listing, error)
	GetBook(ctx context.Context, id int64, viewer Viewer) (*types.Listing, error)
	BookRating(ctx context.Context, id int64) (types.Rating, error)

	CreateBook(ctx context.Context, in BookInput) (*types.Book, error)
	UpdateBook(ctx context.Context, id int64, in BookInput) (*types.Book, error)
	DeleteBook(ctx context.Context, id, shopID int64) error

	// TakeStock removes one unit inside dbc's transaction.
	TakeStock(dbc dbctx.Context, bookID int64) error
	RestoreStock(dbc dbctx.Context, bookID int64) error

	Grades(ctx context.Context) ([]string, error)
	Subjects(ctx context.Context, grade string) ([]string, error)
	Cities(ctx context.Context) ([]string, error)
}

type catalogService struct {
	db       *gorm.DB
	log      *logger.Logger
	tx       aggregates.TxRunner
	books    repos.BookRepo
	shops    repos.ShopRepo
	orders   repos.OrderRepo
	reviews  repos.ReviewRepo
	cart     repos.CartRepo
	wishlist repos.WishlistRepo
	images   storage.ImageStore
	taxonomy *catalog.Taxonomy
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	books repos.BookRepo,
	shops repos.ShopRepo,
	orders repos.OrderRepo,
	reviews repos.ReviewRepo,
	cart repos.CartRepo,
	wishlist repos.WishlistRepo,
	images storage.ImageStore,
	taxonomy *catalog.Taxonomy,
) CatalogService {
	return &catalogService{
		db:       db,
		log:      log.With("service", "CatalogService"),
		tx:       aggregates.NewGormTxRunner(db),
		books:    books,
		shops:    shops,
		orders:   orders,
		reviews:  reviews,
		cart:     cart,
		wishlist: wishlist,
		images:   images,
		taxonomy: taxonomy,
	}
}

func (s *catalogService) Search(ctx context.Context, f types.SearchFilter) ([]*types.Listing, error) {
	const op = "catalog.search"
	ctx, span := observability.StartSpan(ctx, "catalog.Search",
		attribute.String("sort", string(f.Sort)),
		attribute.Bool("has_query", strings.TrimSpace(f.Query) != ""),
	)
	defer span.End()

	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.books.Search(dbc, f)
	if err != nil {
		span.RecordError(err)
		return nil, repoErr(op, err)
	}
	if err := s.attachRatings(dbc, rows); err != nil {
		span.RecordError(err)
		return nil, repoErr(op, err)
	}
	if f.Sort == types.SortRating {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].BookRating > rows[j].BookRating })
	}
	span.SetAttributes(attribute.Int("results", len(rows)))
	return rows, nil
}

// attachRatings fills book and shop aggregates with one grouped query per
// target type.
func (s *catalogService) attachRatings(dbc dbctx.Context, rows []*types.Listing) error {
	if len(rows) == 0 {
		return nil
	}
	bookIDs := make([]int64, 0, len(rows))
	shopSeen := map[int64]bool{}
	var shopIDs []int64
	for _, r := range rows {
		bookIDs = append(bookIDs, r.ID)
		if !shopSeen[r.ShopID] {
			shopSeen[r.ShopID] = true
			shopIDs = append(shopIDs, r.ShopID)
		}
	}
	bookRatings, err := s.reviews.Aggregate(dbc, types.TargetBook, bookIDs)
	if err != nil {
		return err
	}
	shopRatings, err := s.reviews.Aggregate(dbc, types.TargetShop, shopIDs)
	if err != nil {
		return err
	}
	for _, r := range rows {
		br := bookRatings[r.ID]
		sr := shopRatings[r.ShopID]
		r.BookRating, r.BookReviews = br.Average, br.Count
		r.ShopRating, r.ShopReviews = sr.Average, sr.Count
		r.ShopPhone = nil
	}
	return nil
}

func (s *catalogService) GetBook(ctx context.Context, id int64, viewer Viewer) (*types.Listing, error) {
	const op = "catalog.get_book"
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.books.GetListing(dbc, id)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if row == nil {
		return nil, notFound(op, "book")
	}
	if err := s.attachRatings(dbc, []*types.Listing{row}); err != nil {
		return nil, repoErr(op, err)
	}

	reveal := viewer.ShopID > 0 && viewer.ShopID == row.ShopID
	if !reveal && viewer.StudentID > 0 {
		reveal, err = s.orders.HasActiveOrderWithShop(dbc, viewer.StudentID, row.ShopID)
		if err != nil {
			return nil, repoErr(op, err)
		}
	}
	if reveal {
		shop, err := s.shops.GetByID(dbc, row.ShopID)
		if err != nil {
			return nil, repoErr(op, err)
		}
		if shop != nil {
			phone := shop.Phone
			row.ShopPhone = &phone
		}
	}
	return row, nil
}

func (s *catalogService) BookRating(ctx context.Context, id int64) (types.Rating, error) {
	r, err := s.reviews.Average(dbctx.Context{Ctx: ctx}, types.TargetBook, id)
	if err != nil {
		return types.Rating{}, repoErr("catalog.book_rating", err)
	}
	return r, nil
}

func (s *catalogService) CreateBook(ctx context.Context, in BookInput) (*types.Book, error) {
	const op = "catalog.create_book"
	if in.ShopID <= 0 {
		return nil, apperr.Validation(op, "shop_id is required")
	}
	name := trimmed(in.Name)
	if name == "" || in.Price == nil {
		return nil, apperr.Validation(op, "book_name and price are required")
	}
	book := &types.Book{
		ShopID:    in.ShopID,
		Name:      name,
		Edition:   trimmed(in.Edition),
		Subject:   trimmed(in.Subject),
		Grade:     trimmed(in.Grade),
		Price:     *in.Price,
		Condition: types.ConditionNew,
		Stock:     1,
	}
	if in.Condition != nil && trimmed(in.Condition) != "" {
		c, ok := catalog.ParseCondition(*in.Condition)
		if !ok {
			return nil, apperr.Validation(op, "condition must be new or used")
		}
		book.Condition = c
	}
	if in.Stock != nil {
		book.Stock = *in.Stock
	}
	if err := validateBook(op, book.Price, book.Stock); err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	shop, err := s.shops.GetByID(dbc, in.ShopID)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if shop == nil {
		return nil, notFound(op, "shop")
	}
	if in.Cover.present() {
		url, err := s.saveImage(ctx, op, storage.CategoryCover, in.Cover)
		if err != nil {
			return nil, err
		}
		book.CoverURL = url
	}
	if err := s.books.Create(dbc, book); err != nil {
		s.discardImage(ctx, book.CoverURL)
		return nil, repoErr(op, err)
	}
	s.log.Info("Book listed", "book_id", book.ID, "shop_id", book.ShopID)
	return book, nil
}

func (s *catalogService) UpdateBook(ctx context.Context, id int64, in BookInput) (*types.Book, error) {
	const op = "catalog.update_book"
	dbc := dbctx.Context{Ctx: ctx}
	book, err := s.ownedBook(dbc, op, id, in.ShopID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return nil, apperr.Validation(op, "book_name cannot be empty")
		}
		updates["book_name"] = name
		book.Name = name
	}
	if in.Edition != nil {
		book.Edition = trimmed(in.Edition)
		updates["edition"] = book.Edition
	}
	if in.Subject != nil {
		book.Subject = trimmed(in.Subject)
		updates["subject"] = book.Subject
	}
	if in.Grade != nil {
		book.Grade = trimmed(in.Grade)
		updates["grade"] = book.Grade
	}
	if in.Price != nil {
		book.Price = *in.Price
		updates["price"] = book.Price
	}
	if in.Stock != nil {
		book.Stock = *in.Stock
		updates["stock"] = book.Stock
	}
	if in.Condition != nil {
		c, ok := catalog.ParseCondition(*in.Condition)
		if !ok {
			return nil, apperr.Validation(op, "condition must be new or used")
		}
		book.Condition = c
		updates["condition"] = c
	}
	if err := validateBook(op, book.Price, book.Stock); err != nil {
		return nil, err
	}

	oldCover := book.CoverURL
	if in.Cover.present() {
		url, err := s.saveImage(ctx, op, storage.CategoryCover, in.Cover)
		if err != nil {
			return nil, err
		}
		book.CoverURL = url
		updates["cover_url"] = url
	}
	if len(updates) == 0 {
		return book, nil
	}
	if _, err := s.books.Update(dbc, id, updates); err != nil {
		if book.CoverURL != oldCover {
			s.discardImage(ctx, book.CoverURL)
		}
		return nil, repoErr(op, err)
	}
	if book.CoverURL != oldCover {
		s.discardImage(ctx, oldCover)
	}
	return book, nil
}

// DeleteBook removes the listing with its cart, wishlist and review rows.
// Orders keep their snapshot and lose the book reference.
func (s *catalogService) DeleteBook(ctx context.Context, id, shopID int64) error {
	const op = "catalog.delete_book"
	var cover string
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		book, err := s.ownedBook(dbc, op, id, shopID)
		if err != nil {
			return err
		}
		cover = book.CoverURL
		ids := []int64{id}
		if err := s.cart.DeleteByBooks(dbc, ids); err != nil {
			return err
		}
		if err := s.wishlist.DeleteByBooks(dbc, ids); err != nil {
			return err
		}
		if err := s.reviews.DeleteForTargets(dbc, types.TargetBook, ids); err != nil {
			return err
		}
		if err := s.orders.DetachBook(dbc, id); err != nil {
			return err
		}
		_, err = s.books.Delete(dbc, id)
		return err
	})
	if err != nil {
		return repoErr(op, err)
	}
	s.discardImage(ctx, cover)
	s.log.Info("Book deleted", "book_id", id, "shop_id", shopID)
	return nil
}

func (s *catalogService) ownedBook(dbc dbctx.Context, op string, id, shopID int64) (*types.Book, error) {
	if shopID <= 0 {
		return nil, apperr.Validation(op, "shop_id is required")
	}
	book, err := s.books.GetByID(dbc, id)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if book == nil {
		return nil, notFound(op, "book")
	}
	if book.ShopID != shopID {
		return nil, apperr.Unauthorized(op, "book belongs to another shop")
	}
	return book, nil
}

func (s *catalogService) TakeStock(dbc dbctx.Context, bookID int64) error {
	const op = "catalog.take_stock"
	ok, err := s.books.DecrementStock(dbc, bookID)
	if err != nil {
		return repoErr(op, err)
	}
	if ok {
		return nil
	}
	book, err := s.books.GetByID(dbc, bookID)
	if err != nil {
		return repoErr(op, err)
	}
	if book == nil {
		return notFound(op, "book")
	}
	return apperr.New(apperr.CodeOutOfStock, op, "Book is out of stock")
}

func (s *catalogService) RestoreStock(dbc dbctx.Context, bookID int64) error {
	if _, err := s.books.IncrementStock(dbc, bookID); err != nil {
		return repoErr("catalog.restore_stock", err)
	}
	return nil
}

func (s *catalogService) Grades(ctx context.Context) ([]string, error) {
	fromDB, err := s.books.DistinctGrades(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, repoErr("catalog.grades", err)
	}
	return mergeUnique(s.taxonomy.GradeNames(), s.taxonomy.Defaults.Grades, fromDB), nil
}

func (s *catalogService) Subjects(ctx context.Context, grade string) ([]string, error) {
	const op = "catalog.subjects"
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return nil, apperr.Validation(op, "grade is required")
	}
	if curated := s.taxonomy.SubjectsFor(grade); len(curated) > 0 {
		return curated, nil
	}
	fromDB, err := s.books.DistinctSubjects(dbctx.Context{Ctx: ctx}, grade)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if len(fromDB) > 0 {
		return fromDB, nil
	}
	return append([]string(nil), s.taxonomy.Defaults.Subjects...), nil
}

func (s *catalogService) Cities(ctx context.Context) ([]string, error) {
	out, err := s.shops.Cities(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, repoErr("catalog.cities", err)
	}
	return out, nil
}

func (s *catalogService) saveImage(ctx context.Context, op string, category storage.Category, up *Upload) (string, error) {
	return saveImage(ctx, s.images, op, category, up)
}

func (s *catalogService) discardImage(ctx context.Context, url string) {
	discardImage(ctx, s.images, s.log, url)
}

func saveImage(ctx context.Context, images storage.ImageStore, op string, category storage.Category, up *Upload) (string, error) {
	if !storage.SupportedImage(up.Filename) {
		return "", apperr.Validation(op, "unsupported image type")
	}
	if images == nil {
		return "", apperr.New(apperr.CodeInternal, op, "image uploads are not configured")
	}
	url, err := images.Save(ctx, category, up.Filename, up.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, op, err)
	}
	return url, nil
}

func discardImage(ctx context.Context, images storage.ImageStore, log *logger.Logger, url string) {
	if images == nil || url == "" {
		return
	}
	if err := images.Delete(ctx, url); err != nil {
		log.Warn("Failed to delete image", "url", url, "error", err)
	}
}

func validateBook(op string, price float64, stock int) error {
	if price <= 0 {
		return apperr.Validation(op, "price must be greater than zero")
	}
	if stock < 0 {
		return apperr.Validation(op, "stock cannot be negative")
	}
	return nil
}

func mergeUnique(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lists {
		for _, v := range l {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
