package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/repos"
	"github.com/yungbote/bookmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type testEnv struct {
	ctx context.Context
	db  *gorm.DB
	log *logger.Logger

	books    repos.BookRepo
	shops    repos.ShopRepo
	students repos.StudentRepo
	orders   repos.OrderRepo
	cart     repos.CartRepo
	notices  repos.NotificationRepo

	catalog  CatalogService
	orderSvc OrderService
	cartSvc  CartService
	reviews  ReviewService
	notes    NotificationService
	wishlist WishlistService
	shopSvc  ShopService
	admin    AdminService
	auth     AuthService
}

var codeSeq atomic.Int64

func testCodes() string {
	return fmt.Sprintf("ORD-TEST-%06d", codeSeq.Add(1))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tax, err := catalog.LoadTaxonomy()
	require.NoError(t, err)

	e := &testEnv{
		ctx:      context.Background(),
		db:       db,
		log:      log,
		books:    repos.NewBookRepo(db, log),
		shops:    repos.NewShopRepo(db, log),
		students: repos.NewStudentRepo(db, log),
		orders:   repos.NewOrderRepo(db, log),
		cart:     repos.NewCartRepo(db, log),
		notices:  repos.NewNotificationRepo(db, log),
	}
	reviewRepo := repos.NewReviewRepo(db, log)
	wishlistRepo := repos.NewWishlistRepo(db, log)

	e.notes = NewNotificationService(log, e.notices)
	e.catalog = NewCatalogService(db, log, e.books, e.shops, e.orders, reviewRepo, e.cart, wishlistRepo, nil, tax)
	e.orderSvc = NewOrderService(db, log, e.orders, e.books, e.shops, e.students, e.catalog, e.notes, testCodes)
	e.cartSvc = NewCartService(db, log, e.cart, e.books, e.shops, e.students, e.orders, e.catalog, e.notes, testCodes)
	e.reviews = NewReviewService(log, reviewRepo, e.books, e.shops)
	e.wishlist = NewWishlistService(log, wishlistRepo, e.books)
	e.shopSvc = NewShopService(log, e.shops, e.orders, reviewRepo, nil)
	e.admin = NewAdminService(db, log, e.shops, e.books, e.students, e.orders, e.cart, wishlistRepo, reviewRepo, e.notices, e.orderSvc, e.notes)
	e.auth = NewAuthService(log, e.shops, e.students, repos.NewAdminRepo(db, log), NewTokenIssuer("test-secret", time.Hour))
	return e
}

func (e *testEnv) dbc() dbctx.Context { return dbctx.Context{Ctx: e.ctx} }

func (e *testEnv) stock(t *testing.T, bookID int64) int {
	t.Helper()
	b, err := e.books.GetByID(e.dbc(), bookID)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Stock
}

func (e *testEnv) order(t *testing.T, id int64) *types.Order {
	t.Helper()
	o, err := e.orders.GetByID(e.dbc(), id)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func (e *testEnv) notifications(t *testing.T, userType types.UserType, id int64) []*types.Notification {
	t.Helper()
	rows, err := e.notices.ListFor(e.dbc(), userType, id)
	require.NoError(t, err)
	return rows
}
