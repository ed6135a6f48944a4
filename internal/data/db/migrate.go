package db

import (
	"fmt"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureSearchIndexes(db)
}

// EnsureSearchIndexes adds composite indexes the struct tags cannot express.
func EnsureSearchIndexes(db *gorm.DB) error {
	stmts := []struct{ name, sql string }{
		{"idx_books_shop_stock", `CREATE INDEX IF NOT EXISTS idx_books_shop_stock ON books (shop_id, stock);`},
		{"idx_orders_shop_status", `CREATE INDEX IF NOT EXISTS idx_orders_shop_status ON orders (shop_id, status, created_at);`},
		{"idx_orders_student_shop", `CREATE INDEX IF NOT EXISTS idx_orders_student_shop ON orders (student_id, shop_id, status);`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
