package services

import (
	"context"
	"strings"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/domain/engagement"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type ReviewInput struct {
	TargetType   string
	TargetID     int64
	ReviewerType string
	ReviewerID   int64
	Rating       int
	Comment      string
}

type ReviewService interface {
	Add(ctx context.Context, in ReviewInput) (*types.Review, error)
	List(ctx context.Context, targetType string, targetID int64) ([]*types.ReviewView, error)
	Rating(ctx context.Context, targetType types.TargetType, targetID int64) (types.Rating, error)
}

type reviewService struct {
	log     *logger.Logger
	reviews repos.ReviewRepo
	books   repos.BookRepo
	shops   repos.ShopRepo
}

func NewReviewService(log *logger.Logger, reviews repos.ReviewRepo, books repos.BookRepo, shops repos.ShopRepo) ReviewService {
	return &reviewService{
		log:     log.With("service", "ReviewService"),
		reviews: reviews,
		books:   books,
		shops:   shops,
	}
}

func (s *reviewService) Add(ctx context.Context, in ReviewInput) (*types.Review, error) {
	const op = "review.add"
	target, ok := engagement.ParseTargetType(in.TargetType)
	if !ok {
		return nil, apperr.Validation(op, "target_type must be book or shop")
	}
	reviewer, ok := engagement.ParseReviewerType(in.ReviewerType)
	if !ok {
		return nil, apperr.Validation(op, "reviewer_type must be student or shop")
	}
	if in.TargetID <= 0 || in.ReviewerID <= 0 {
		return nil, apperr.Validation(op, "target_id and reviewer_id are required")
	}
	if in.Rating < engagement.MinRating || in.Rating > engagement.MaxRating {
		return nil, apperr.Validation(op, "rating must be between 1 and 5")
	}

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireTarget(dbc, op, target, in.TargetID); err != nil {
		return nil, err
	}
	exists, err := s.reviews.Exists(dbc, target, in.TargetID, reviewer, in.ReviewerID)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if exists {
		return nil, apperr.New(apperr.CodeDuplicateReview, op, "You have already reviewed this")
	}

	review := &types.Review{
		TargetType:   target,
		TargetID:     in.TargetID,
		ReviewerType: reviewer,
		ReviewerID:   in.ReviewerID,
		Rating:       in.Rating,
		Comment:      strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(dbc, review); err != nil {
		// Lost the race against a concurrent submission.
		if aggregates.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.CodeDuplicateReview, op, "You have already reviewed this")
		}
		return nil, repoErr(op, err)
	}
	s.log.Info("Review added", "target_type", target, "target_id", in.TargetID, "rating", in.Rating)
	return review, nil
}

func (s *reviewService) requireTarget(dbc dbctx.Context, op string, target types.TargetType, id int64) error {
	switch target {
	case types.TargetBook:
		b, err := s.books.GetByID(dbc, id)
		if err != nil {
			return repoErr(op, err)
		}
		if b == nil {
			return notFound(op, "book")
		}
	case types.TargetShop:
		sh, err := s.shops.GetByID(dbc, id)
		if err != nil {
			return repoErr(op, err)
		}
		if sh == nil {
			return notFound(op, "shop")
		}
	}
	return nil
}

func (s *reviewService) List(ctx context.Context, targetType string, targetID int64) ([]*types.ReviewView, error) {
	const op = "review.list"
	target, ok := engagement.ParseTargetType(targetType)
	if !ok {
		return nil, apperr.Validation(op, "target_type must be book or shop")
	}
	rows, err := s.reviews.List(dbctx.Context{Ctx: ctx}, target, targetID)
	if err != nil {
		return nil, repoErr(op, err)
	}
	return rows, nil
}

func (s *reviewService) Rating(ctx context.Context, targetType types.TargetType, targetID int64) (types.Rating, error) {
	r, err := s.reviews.Average(dbctx.Context{Ctx: ctx}, targetType, targetID)
	if err != nil {
		return types.Rating{}, repoErr("review.rating", err)
	}
	return r, nil
}
