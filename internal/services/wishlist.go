package services

import (
	"context"

	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type WishlistService interface {
	// Add is idempotent.
	Add(ctx context.Context, studentID, bookID int64) error
	Remove(ctx context.Context, studentID, bookID int64) error
	List(ctx context.Context, studentID int64) ([]*types.Listing, error)
}

type wishlistService struct {
	log      *logger.Logger
	wishlist repos.WishlistRepo
	books    repos.BookRepo
}

func NewWishlistService(log *logger.Logger, wishlist repos.WishlistRepo, books repos.BookRepo) WishlistService {
	return &wishlistService{log: log.With("service", "WishlistService"), wishlist: wishlist, books: books}
}

func (s *wishlistService) Add(ctx context.Context, studentID, bookID int64) error {
	const op = "wishlist.add"
	if studentID <= 0 || bookID <= 0 {
		return apperr.Validation(op, "student_id and book_id are required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	book, err := s.books.GetByID(dbc, bookID)
	if err != nil {
		return repoErr(op, err)
	}
	if book == nil {
		return notFound(op, "book")
	}
	if _, err := s.wishlist.Add(dbc, studentID, bookID); err != nil {
		return repoErr(op, err)
	}
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, studentID, bookID int64) error {
	const op = "wishlist.remove"
	if studentID <= 0 || bookID <= 0 {
		return apperr.Validation(op, "student_id and book_id are required")
	}
	if _, err := s.wishlist.Remove(dbctx.Context{Ctx: ctx}, studentID, bookID); err != nil {
		return repoErr(op, err)
	}
	return nil
}

func (s *wishlistService) List(ctx context.Context, studentID int64) ([]*types.Listing, error) {
	const op = "wishlist.list"
	dbc := dbctx.Context{Ctx: ctx}
	ids, err := s.wishlist.BookIDs(dbc, studentID)
	if err != nil {
		return nil, repoErr(op, err)
	}
	rows, err := s.books.ListingsByIDs(dbc, ids)
	if err != nil {
		return nil, repoErr(op, err)
	}
	return rows, nil
}
