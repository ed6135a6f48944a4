package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/repos"
	"github.com/yungbote/bookmart-backend/internal/data/repos/testutil"
	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
	httpMW "github.com/yungbote/bookmart-backend/internal/http/middleware"
	"github.com/yungbote/bookmart-backend/internal/services"
)

var codeSeq atomic.Int64

type fixture struct {
	db     *gorm.DB
	engine *gin.Engine
	auth   services.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	httpMW.RegisterValidators()

	db := testutil.DB(t)
	log := testutil.Logger(t)
	tax, err := catalog.LoadTaxonomy()
	require.NoError(t, err)
	codes := func() string { return fmt.Sprintf("ORD-HTTP-%06d", codeSeq.Add(1)) }

	books, shops := repos.NewBookRepo(db, log), repos.NewShopRepo(db, log)
	students, orders := repos.NewStudentRepo(db, log), repos.NewOrderRepo(db, log)
	cart, wishlist := repos.NewCartRepo(db, log), repos.NewWishlistRepo(db, log)
	reviews, notices := repos.NewReviewRepo(db, log), repos.NewNotificationRepo(db, log)

	notes := services.NewNotificationService(log, notices)
	catalogSvc := services.NewCatalogService(db, log, books, shops, orders, reviews, cart, wishlist, nil, tax)
	orderSvc := services.NewOrderService(db, log, orders, books, shops, students, catalogSvc, notes, codes)
	cartSvc := services.NewCartService(db, log, cart, books, shops, students, orders, catalogSvc, notes, codes)
	auth := services.NewAuthService(log, shops, students, repos.NewAdminRepo(db, log), services.NewTokenIssuer("test-secret", time.Hour))
	admin := services.NewAdminService(db, log, shops, books, students, orders, cart, wishlist, reviews, notices, orderSvc, notes)

	ch := NewCatalogHandler(catalogSvc)
	oh := NewOrderHandler(orderSvc, cartSvc)
	sh := NewStudentHandler(auth, services.NewStudentService(log, students))
	eh := NewEngagementHandler(services.NewReviewService(log, reviews, books, shops), notes)
	ah := NewAdminHandler(auth, admin)
	ah.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/books", ch.SearchBooks)
	r.GET("/books/:id", ch.GetBook)
	r.POST("/books", ch.CreateBook)
	r.POST("/orders", oh.CreateOrder)
	r.POST("/orders/checkout", oh.Checkout)
	r.PUT("/orders/:id/status", oh.UpdateStatus)
	r.PUT("/orders/:id/cancel", oh.Cancel)
	r.POST("/students/register", sh.Register)
	r.POST("/reviews", eh.AddReview)
	r.GET("/notifications/:user_type/:user_id", eh.ListNotifications)
	r.GET("/admin/export/:kind", ah.Export)
	r.DELETE("/admin/clear-database", ah.ClearDatabase)

	return &fixture{db: db, engine: r, auth: auth}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shop := testutil.SeedShop(t, ctx, f.db, true, "")
	book := testutil.SeedBook(t, ctx, f.db, shop.ID, "Physics Vol 1", 200, 1)
	student := testutil.SeedStudent(t, ctx, f.db, "Asha")

	rec := f.do(t, http.MethodPost, "/orders", gin.H{
		"book_id":         book.ID,
		"student_id":      student.ID,
		"student_address": "Hostel 4",
		"payment_method":  "cod",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	placed := decode[map[string]any](t, rec)
	require.NotEmpty(t, placed["order_id"])
	id := int64(placed["id"].(float64))

	rec = f.do(t, http.MethodPost, "/orders", gin.H{
		"book_id":         book.ID,
		"student_id":      student.ID,
		"student_address": "Hostel 4",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "out_of_stock", decode[errorBody](t, rec).Error.Code)

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/orders/%d/status", id), gin.H{"status": "delivered"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "invalid_transition", decode[errorBody](t, rec).Error.Code)

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/orders/%d/status", id), gin.H{"status": "rejected", "shop_id": shop.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/notifications/student/%d", student.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[[]map[string]any](t, rec)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0]["message"], "rejected")

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/orders/%d/cancel", id), nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderValidationErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shop := testutil.SeedShop(t, ctx, f.db, true, "")
	book := testutil.SeedBook(t, ctx, f.db, shop.ID, "Chemistry", 150, 2)

	rec := f.do(t, http.MethodPost, "/orders", gin.H{
		"book_id":         book.ID,
		"student_name":    "Ravi",
		"student_phone":   "9876543210",
		"student_address": "Hostel 2",
		"payment_method":  "upi",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation", decode[errorBody](t, rec).Error.Code)

	rec = f.do(t, http.MethodPost, "/orders", gin.H{
		"book_id":         book.ID,
		"student_name":    "Ravi",
		"student_phone":   "12",
		"student_address": "Hostel 2",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/orders/abc/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	student := testutil.SeedStudent(t, context.Background(), f.db, "Meena")

	rec := f.do(t, http.MethodPost, "/orders/checkout", gin.H{
		"student_id":      student.ID,
		"student_address": "Hostel 9",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "empty_cart", decode[errorBody](t, rec).Error.Code)
}

func TestSearchAndGetBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shop := testutil.SeedShop(t, ctx, f.db, true, "")
	book := testutil.SeedBook(t, ctx, f.db, shop.ID, "Biology Guide", 300, 4)

	rec := f.do(t, http.MethodGet, "/books?query=biology&sort=price_asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]map[string]any](t, rec)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0]["phone"])

	rec = f.do(t, http.MethodGet, "/books?sort=cheapest", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/books?price_min=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/books/%d", book.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/books/999999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decode[errorBody](t, rec).Error.Code)
}

func TestCreateBookFromForm(t *testing.T) {
	f := newFixture(t)
	shop := testutil.SeedShop(t, context.Background(), f.db, true, "")

	form := strings.NewReader(fmt.Sprintf("shop_id=%d&book_name=Maths&price=120&grade=10&subject=Maths", shop.ID))
	req := httptest.NewRequest(http.MethodPost, "/books", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotZero(t, decode[map[string]any](t, rec)["id"])

	form = strings.NewReader(fmt.Sprintf("shop_id=%d&book_name=Maths&price=free", shop.ID))
	req = httptest.NewRequest(http.MethodPost, "/books", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateReviewReturns400(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shop := testutil.SeedShop(t, ctx, f.db, true, "")
	student := testutil.SeedStudent(t, ctx, f.db, "Kiran")
	body := gin.H{"target_type": "shop", "target_id": shop.ID, "reviewer_id": student.ID, "rating": 4}

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/reviews", body).Code)
	rec := f.do(t, http.MethodPost, "/reviews", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "duplicate_review", decode[errorBody](t, rec).Error.Code)
}

func TestStudentRegisterRejectsBadPhone(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/students/register", gin.H{"name": "A", "phone": "abc", "password": "pw"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/students/register", gin.H{"name": "A", "phone": testutil.Phone(), "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotZero(t, decode[map[string]any](t, rec)["student_id"])
}

func TestAdminExportAndClearGuard(t *testing.T) {
	f := newFixture(t)
	testutil.SeedShop(t, context.Background(), f.db, true, "")

	rec := f.do(t, http.MethodGet, "/admin/export/shops", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), `shops_2026-03-01.csv`)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	require.Contains(t, rec.Body.String(), "Campus Books")

	rec = f.do(t, http.MethodGet, "/admin/export/books", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/admin/clear-database", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodDelete, "/admin/clear-database", nil)
	req.Header.Set(ConfirmClearHeader, "yes")
	rec = httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var shops int64
	require.NoError(t, f.db.Table("shops").Count(&shops).Error)
	require.Zero(t, shops)
}
