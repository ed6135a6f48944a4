package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/bookmart-backend/internal/data/repos"
	"github.com/yungbote/bookmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
	"github.com/yungbote/bookmart-backend/internal/platform/storage"
)

func TestCatalogSearchHidesUnverifiedShopsAndPhones(t *testing.T) {
	e := newTestEnv(t)
	verified := testutil.SeedShop(t, e.ctx, e.db, true, "")
	pending := testutil.SeedShop(t, e.ctx, e.db, false, "")
	visible := testutil.SeedBook(t, e.ctx, e.db, verified.ID, "Organic Chemistry", 300, 2)
	testutil.SeedBook(t, e.ctx, e.db, pending.ID, "Organic Chemistry Vol 2", 300, 2)

	rows, err := e.catalog.Search(e.ctx, types.SearchFilter{Query: "organic"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, visible.ID, rows[0].ID)
	require.Equal(t, "Campus Books", rows[0].ShopName)
	require.Nil(t, rows[0].ShopPhone)
}

func TestCatalogSearchRatingSortIsStable(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	low := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Low", 100, 1)
	high := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "High", 100, 1)
	unrated := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Unrated", 100, 1)
	reviewer := testutil.SeedStudent(t, e.ctx, e.db, "R")

	for bookID, rating := range map[int64]int{low.ID: 2, high.ID: 5} {
		_, err := e.reviews.Add(e.ctx, ReviewInput{TargetType: "book", TargetID: bookID, ReviewerID: reviewer.ID, Rating: rating})
		require.NoError(t, err)
	}
	_, err := e.reviews.Add(e.ctx, ReviewInput{TargetType: "shop", TargetID: shop.ID, ReviewerID: reviewer.ID, Rating: 4})
	require.NoError(t, err)

	rows, err := e.catalog.Search(e.ctx, types.SearchFilter{Sort: types.SortRating})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []int64{high.ID, low.ID, unrated.ID}, []int64{rows[0].ID, rows[1].ID, rows[2].ID})
	require.Equal(t, 5.0, rows[0].BookRating)
	require.EqualValues(t, 1, rows[0].BookReviews)
	require.Equal(t, 4.0, rows[2].ShopRating)
	require.EqualValues(t, 1, rows[2].ShopReviews)
}

func TestCatalogSearchFilters(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	cheap := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Cheap", 50, 1)
	dear := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Dear", 500, 1)

	lo, hi := 40.0, 100.0
	rows, err := e.catalog.Search(e.ctx, types.SearchFilter{PriceMin: &lo, PriceMax: &hi, City: "pune"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, cheap.ID, rows[0].ID)

	rows, err = e.catalog.Search(e.ctx, types.SearchFilter{Sort: types.SortPriceDesc, Subject: "physics"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, dear.ID, rows[0].ID)

	rows, err = e.catalog.Search(e.ctx, types.SearchFilter{City: "Mumbai"})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCatalogPhoneRevealFollowsActiveOrders(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 3)
	student := testutil.SeedStudent(t, e.ctx, e.db, "S")
	viewer := Viewer{StudentID: student.ID}

	got, err := e.catalog.GetBook(e.ctx, book.ID, viewer)
	require.NoError(t, err)
	require.Nil(t, got.ShopPhone)

	placed, err := e.orderSvc.Create(e.ctx, OrderInput{BookID: book.ID, StudentID: student.ID, StudentAddress: "A"})
	require.NoError(t, err)

	got, err = e.catalog.GetBook(e.ctx, book.ID, viewer)
	require.NoError(t, err)
	require.NotNil(t, got.ShopPhone)
	require.Equal(t, shop.Phone, *got.ShopPhone)

	profile, err := e.shopSvc.Profile(e.ctx, shop.ID, viewer)
	require.NoError(t, err)
	require.NotNil(t, profile.Phone)

	_, err = e.orderSvc.Cancel(e.ctx, placed.ID, student.ID)
	require.NoError(t, err)

	got, err = e.catalog.GetBook(e.ctx, book.ID, viewer)
	require.NoError(t, err)
	require.Nil(t, got.ShopPhone)

	got, err = e.catalog.GetBook(e.ctx, book.ID, Viewer{ShopID: shop.ID})
	require.NoError(t, err)
	require.NotNil(t, got.ShopPhone)

	_, err = e.catalog.GetBook(e.ctx, 987654, viewer)
	require.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func ptr[T any](v T) *T { return &v }

func TestCatalogCreateBookDefaultsAndValidation(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")

	book, err := e.catalog.CreateBook(e.ctx, BookInput{
		ShopID: shop.ID, Name: ptr(" Algebra "), Price: ptr(120.0), Grade: ptr("10"), Subject: ptr("Math"),
	})
	require.NoError(t, err)
	require.Equal(t, "Algebra", book.Name)
	require.Equal(t, 1, book.Stock)
	require.Equal(t, types.ConditionNew, book.Condition)
	require.Equal(t, 1, e.stock(t, book.ID))

	zero, err := e.catalog.CreateBook(e.ctx, BookInput{ShopID: shop.ID, Name: ptr("Z"), Price: ptr(10.0), Stock: ptr(0)})
	require.NoError(t, err)
	require.Equal(t, 0, e.stock(t, zero.ID))

	cases := []BookInput{
		{ShopID: shop.ID, Name: ptr("A"), Price: ptr(0.0)},
		{ShopID: shop.ID, Name: ptr("A"), Price: ptr(10.0), Stock: ptr(-1)},
		{ShopID: shop.ID, Name: ptr("A"), Price: ptr(10.0), Condition: ptr("torn")},
		{ShopID: shop.ID, Price: ptr(10.0)},
		{Name: ptr("A"), Price: ptr(10.0)},
	}
	for i, in := range cases {
		_, err := e.catalog.CreateBook(e.ctx, in)
		require.True(t, apperr.Is(err, apperr.CodeValidation), "case %d: %v", i, err)
	}

	_, err = e.catalog.CreateBook(e.ctx, BookInput{ShopID: 4242, Name: ptr("A"), Price: ptr(10.0)})
	require.True(t, apperr.Is(err, apperr.CodeNotFound))
}

type memImages struct {
	saved   map[string][]byte
	deleted []string
}

func (m *memImages) Save(_ context.Context, category storage.Category, filename string, r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + string(category) + "/" + filename
	m.saved[url] = body
	return url, nil
}

func (m *memImages) Delete(_ context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

func TestCatalogCoverUploadAndOwnership(t *testing.T) {
	e := newTestEnv(t)
	images := &memImages{saved: map[string][]byte{}}
	e.catalog.(*catalogService).images = images

	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	other := testutil.SeedShop(t, e.ctx, e.db, true, "")

	book, err := e.catalog.CreateBook(e.ctx, BookInput{
		ShopID: shop.ID, Name: ptr("With Cover"), Price: ptr(90.0),
		Cover: &Upload{Filename: "front.png", Body: bytes.NewReader([]byte("png"))},
	})
	require.NoError(t, err)
	require.Equal(t, "/uploads/covers/front.png", book.CoverURL)

	_, err = e.catalog.CreateBook(e.ctx, BookInput{
		ShopID: shop.ID, Name: ptr("Bad"), Price: ptr(90.0),
		Cover: &Upload{Filename: "virus.exe", Body: strings.NewReader("x")},
	})
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = e.catalog.UpdateBook(e.ctx, book.ID, BookInput{ShopID: other.ID, Price: ptr(10.0)})
	require.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	updated, err := e.catalog.UpdateBook(e.ctx, book.ID, BookInput{
		ShopID: shop.ID, Price: ptr(75.0), Condition: ptr("used"),
		Cover: &Upload{Filename: "back.jpg", Body: strings.NewReader("jpg")},
	})
	require.NoError(t, err)
	require.Equal(t, 75.0, updated.Price)
	require.Equal(t, types.ConditionUsed, updated.Condition)
	require.Equal(t, []string{"/uploads/covers/front.png"}, images.deleted)

	_, err = e.catalog.UpdateBook(e.ctx, book.ID, BookInput{ShopID: shop.ID, Price: ptr(-5.0)})
	require.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestCatalogDeleteBookKeepsOrders(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	other := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Gone Soon", 100, 3)
	student := testutil.SeedStudent(t, e.ctx, e.db, "S")

	require.NoError(t, e.cartSvc.Add(e.ctx, student.ID, book.ID, 2))
	require.NoError(t, e.wishlist.Add(e.ctx, student.ID, book.ID))
	o := testutil.SeedOrder(t, e.ctx, e.db, book, student, types.OrderPending)

	require.True(t, apperr.Is(e.catalog.DeleteBook(e.ctx, book.ID, other.ID), apperr.CodeUnauthorized))
	require.NoError(t, e.catalog.DeleteBook(e.ctx, book.ID, shop.ID))

	gone, err := e.books.GetByID(e.dbc(), book.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	lines, err := e.cartSvc.Get(e.ctx, student.ID)
	require.NoError(t, err)
	require.Empty(t, lines)
	wished, err := e.wishlist.List(e.ctx, student.ID)
	require.NoError(t, err)
	require.Empty(t, wished)

	kept := e.order(t, o.ID)
	require.Nil(t, kept.BookID)
	require.Equal(t, "Gone Soon", kept.BookName)

	require.True(t, apperr.Is(e.catalog.DeleteBook(e.ctx, book.ID, shop.ID), apperr.CodeNotFound))
}

func TestCatalogTakeStockErrors(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	book := testutil.SeedBook(t, e.ctx, e.db, shop.ID, "B", 100, 1)

	require.NoError(t, e.catalog.TakeStock(e.dbc(), book.ID))
	require.True(t, apperr.Is(e.catalog.TakeStock(e.dbc(), book.ID), apperr.CodeOutOfStock))
	require.True(t, apperr.Is(e.catalog.TakeStock(e.dbc(), 777777), apperr.CodeNotFound))
	require.NoError(t, e.catalog.RestoreStock(e.dbc(), book.ID))
	require.Equal(t, 1, e.stock(t, book.ID))
}

func TestCatalogGradesAndSubjects(t *testing.T) {
	e := newTestEnv(t)
	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	_, err := e.catalog.CreateBook(e.ctx, BookInput{
		ShopID: shop.ID, Name: ptr("Intro Python"), Price: ptr(10.0), Grade: ptr("College"), Subject: ptr("Programming"),
	})
	require.NoError(t, err)

	grades, err := e.catalog.Grades(e.ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"9", "10", "11", "12", "College"}, grades)

	curated, err := e.catalog.Subjects(e.ctx, "11")
	require.NoError(t, err)
	require.Contains(t, curated, "Physics")
	require.Contains(t, curated, "Accounts")

	fromDB, err := e.catalog.Subjects(e.ctx, "College")
	require.NoError(t, err)
	require.Equal(t, []string{"Programming"}, fromDB)

	fallback, err := e.catalog.Subjects(e.ctx, "7")
	require.NoError(t, err)
	require.Equal(t, []string{"English", "Math", "Science", "Social Studies"}, fallback)

	_, err = e.catalog.Subjects(e.ctx, "")
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	cities, err := e.catalog.Cities(e.ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Pune"}, cities)
}

func TestCatalogGradesFallBackToDefaults(t *testing.T) {
	e := newTestEnv(t)
	tax, err := catalog.ParseTaxonomy([]byte("defaults:\n  grades: [\"9\", \"10\"]\n  subjects: [English]\n"))
	require.NoError(t, err)
	svc := NewCatalogService(e.db, e.log, e.books, e.shops, e.orders, repos.NewReviewRepo(e.db, e.log), e.cart, repos.NewWishlistRepo(e.db, e.log), nil, tax)

	grades, err := svc.Grades(e.ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"9", "10"}, grades)

	shop := testutil.SeedShop(t, e.ctx, e.db, true, "")
	testutil.SeedBook(t, e.ctx, e.db, shop.ID, "Mechanics", 200, 1)
	grades, err = svc.Grades(e.ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"9", "10", "11"}, grades)
}
