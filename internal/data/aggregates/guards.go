package aggregates

import (
	"strings"

	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// CASGuard provides compare-and-set helpers for status-guarded writes.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx == nil && g.db == nil {
		return nil, apperr.New(apperr.CodeInternal, "cas", "missing db transaction context")
	}
	return dbc.DB(g.db), nil
}

// UpdateByStatus updates a row only while its status is one of allowedStatuses.
// A false result means another writer moved the row first, or it does not exist.
func (g CASGuard) UpdateByStatus(dbc dbctx.Context, table string, id int64, allowedStatuses []string, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || id <= 0 {
		return false, apperr.Validation("cas", "table and id are required for UpdateByStatus")
	}
	if len(allowedStatuses) == 0 {
		return false, apperr.Validation("cas", "allowedStatuses must not be empty")
	}
	res := db.Table(table).
		Where("id = ? AND status IN ?", id, allowedStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementIfPositive lowers column by one only when it is above zero.
func (g CASGuard) DecrementIfPositive(dbc dbctx.Context, table, column string, id int64) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	if table == "" || column == "" || id <= 0 {
		return false, apperr.Validation("cas", "table, column and id are required for DecrementIfPositive")
	}
	res := db.Table(table).
		Where("id = ? AND "+column+" > 0", id).
		UpdateColumn(column, gorm.Expr(column+" - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
