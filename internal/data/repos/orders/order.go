package orders

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

// RevenueTotals sums delivered and paid orders.
type RevenueTotals struct {
	Orders  int64
	Revenue float64
	Today   float64
}

type OrderRepo interface {
	Create(dbc dbctx.Context, o *types.Order) error
	GetByID(dbc dbctx.Context, id int64) (*types.Order, error)
	// Transition applies updates only while the order is in one of from.
	Transition(dbc dbctx.Context, id int64, from []types.OrderStatus, updates map[string]any) (bool, error)
	Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error)
	ListByPhone(dbc dbctx.Context, phone string) ([]*types.Order, error)
	ListByStudent(dbc dbctx.Context, studentID int64) ([]*types.Order, error)
	// ListByShop filters by status when given, otherwise hides delivered orders.
	ListByShop(dbc dbctx.Context, shopID int64, status types.OrderStatus) ([]*types.Order, error)
	ListAll(dbc dbctx.Context) ([]*types.Order, error)
	HasActiveOrderWithShop(dbc dbctx.Context, studentID, shopID int64) (bool, error)
	DetachBook(dbc dbctx.Context, bookID int64) error
	DetachStudent(dbc dbctx.Context, studentID int64) error
	Totals(dbc dbctx.Context, shopID int64, dayStart time.Time) (RevenueTotals, error)
}

type orderRepo struct {
	db    *gorm.DB
	guard aggregates.CASGuard
	log   *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, guard: aggregates.NewCASGuard(db), log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) Create(dbc dbctx.Context, o *types.Order) error {
	if o == nil {
		return nil
	}
	return dbc.DB(r.db).Create(o).Error
}

func (r *orderRepo) GetByID(dbc dbctx.Context, id int64) (*types.Order, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.Order
	err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil || row.ID == 0 {
		return nil, err
	}
	return &row, nil
}

func (r *orderRepo) Transition(dbc dbctx.Context, id int64, from []types.OrderStatus, updates map[string]any) (bool, error) {
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return r.guard.UpdateByStatus(dbc, "orders", id, allowed, updates)
}

func (r *orderRepo) Update(dbc dbctx.Context, id int64, updates map[string]any) (bool, error) {
	if id <= 0 || len(updates) == 0 {
		return false, nil
	}
	res := dbc.DB(r.db).Model(&types.Order{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) newestFirst(q *gorm.DB) ([]*types.Order, error) {
	var rows []*types.Order
	err := q.Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *orderRepo) ListByPhone(dbc dbctx.Context, phone string) ([]*types.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return []*types.Order{}, nil
	}
	return r.newestFirst(dbc.DB(r.db).Where("student_phone = ?", phone))
}

func (r *orderRepo) ListByStudent(dbc dbctx.Context, studentID int64) ([]*types.Order, error) {
	return r.newestFirst(dbc.DB(r.db).Where("student_id = ?", studentID))
}

func (r *orderRepo) ListByShop(dbc dbctx.Context, shopID int64, status types.OrderStatus) ([]*types.Order, error) {
	q := dbc.DB(r.db).Where("shop_id = ?", shopID)
	if status != "" {
		q = q.Where("status = ?", status)
	} else {
		q = q.Where("status <> ?", types.OrderDelivered)
	}
	return r.newestFirst(q)
}

func (r *orderRepo) ListAll(dbc dbctx.Context) ([]*types.Order, error) {
	return r.newestFirst(dbc.DB(r.db))
}

func (r *orderRepo) HasActiveOrderWithShop(dbc dbctx.Context, studentID, shopID int64) (bool, error) {
	if studentID <= 0 || shopID <= 0 {
		return false, nil
	}
	var n int64
	err := dbc.DB(r.db).Model(&types.Order{}).
		Where("student_id = ? AND shop_id = ? AND status <> ?", studentID, shopID, types.OrderCancelled).
		Count(&n).Error
	return n > 0, err
}

func (r *orderRepo) DetachBook(dbc dbctx.Context, bookID int64) error {
	return dbc.DB(r.db).Model(&types.Order{}).
		Where("book_id = ?", bookID).
		UpdateColumn("book_id", nil).Error
}

func (r *orderRepo) DetachStudent(dbc dbctx.Context, studentID int64) error {
	return dbc.DB(r.db).Model(&types.Order{}).
		Where("student_id = ?", studentID).
		UpdateColumn("student_id", nil).Error
}

// Totals counts all orders and sums amount over delivered, paid ones. shopID
// zero aggregates across every shop.
func (r *orderRepo) Totals(dbc dbctx.Context, shopID int64, dayStart time.Time) (RevenueTotals, error) {
	var out RevenueTotals
	scope := func() *gorm.DB {
		q := dbc.DB(r.db).Model(&types.Order{})
		if shopID > 0 {
			q = q.Where("shop_id = ?", shopID)
		}
		return q
	}
	if err := scope().Count(&out.Orders).Error; err != nil {
		return out, err
	}
	settled := func() *gorm.DB {
		return scope().Where("status = ? AND payment_status = ?", types.OrderDelivered, types.PaymentPaid)
	}
	if err := settled().Select("COALESCE(SUM(amount), 0)").Scan(&out.Revenue).Error; err != nil {
		return out, err
	}
	if err := settled().Where("created_at >= ?", dayStart).Select("COALESCE(SUM(amount), 0)").Scan(&out.Today).Error; err != nil {
		return out, err
	}
	return out, nil
}
