package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/bookmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
)

func TestReviewAddRejectsDuplicatesAndBadRatings(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 10, 1)
	student := testutil.SeedStudent(t, e.ctx, e.db, "Meera")

	in := ReviewInput{TargetType: "book", TargetID: book.ID, ReviewerID: student.ID, Rating: 4, Comment: " solid "}
	r, err := e.reviews.Add(e.ctx, in)
	require.NoError(t, err)
	require.Equal(t, "solid", r.Comment)
	require.Equal(t, types.ReviewerStudent, r.ReviewerType)

	_, err = e.reviews.Add(e.ctx, in)
	require.True(t, apperr.Is(err, apperr.CodeDuplicateReview))

	for _, rating := range []int{0, 6, -1} {
		bad := in
		bad.ReviewerID = student.ID + 100
		bad.Rating = rating
		_, err := e.reviews.Add(e.ctx, bad)
		require.True(t, apperr.Is(err, apperr.CodeValidation), "rating %d", rating)
	}

	_, err = e.reviews.Add(e.ctx, ReviewInput{TargetType: "shop", TargetID: 8888, ReviewerID: student.ID, Rating: 3})
	require.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = e.reviews.Add(e.ctx, ReviewInput{TargetType: "author", TargetID: 1, ReviewerID: student.ID, Rating: 3})
	require.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestReviewAverageAndListing(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	a := testutil.SeedStudent(t, e.ctx, e.db, "A")
	b := testutil.SeedStudent(t, e.ctx, e.db, "B")

	empty, err := e.reviews.Rating(e.ctx, types.TargetShop, shop.ID)
	require.NoError(t, err)
	require.Zero(t, empty.Count)
	require.Zero(t, empty.Average)

	for reviewer, rating := range map[int64]int{a.ID: 5, b.ID: 2} {
		_, err := e.reviews.Add(e.ctx, ReviewInput{TargetType: "shop", TargetID: shop.ID, ReviewerID: reviewer, Rating: rating})
		require.NoError(t, err)
	}

	avg, err := e.shopSvc.Rating(e.ctx, shop.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, avg.Count)
	require.InDelta(t, 3.5, avg.Average, 1e-9)

	rows, err := e.reviews.List(e.ctx, "shop", shop.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	names := []string{rows[0].ReviewerName, rows[1].ReviewerName}
	require.ElementsMatch(t, []string{"A", "B"}, names)
}

func TestNotificationsCreateListAndRead(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.notes.Create(e.ctx, "admin", 1, "hi")
	require.True(t, apperr.Is(err, apperr.CodeValidation))
	_, err = e.notes.Create(e.ctx, "student", 1, "  ")
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	first, err := e.notes.Create(e.ctx, "student", 7, "first")
	require.NoError(t, err)
	second, err := e.notes.Create(e.ctx, "student", 7, "second")
	require.NoError(t, err)

	rows, err := e.notes.ListFor(e.ctx, "student", 7)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, second.ID, rows[0].ID)
	require.False(t, rows[0].IsRead)

	require.NoError(t, e.notes.MarkRead(e.ctx, first.ID))
	rows, err = e.notes.ListFor(e.ctx, "student", 7)
	require.NoError(t, err)
	require.True(t, rows[1].IsRead)
	require.True(t, apperr.Is(e.notes.MarkRead(e.ctx, 123456), apperr.CodeNotFound))

	other, err := e.notes.ListFor(e.ctx, "shop", 7)
	require.NoError(t, err)
	require.Empty(t, other)
}
