package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/bookmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
)

func TestBookRepoSearchHidesUnverifiedShops(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewBookRepo(db, testutil.Logger(t))

	open := testutil.SeedShop(t, ctx, db, true, "")
	hidden := testutil.SeedShop(t, ctx, db, false, "")
	testutil.SeedBook(t, ctx, db, open.ID, "Concepts of Physics", 450, 2)
	chem := testutil.SeedBook(t, ctx, db, open.ID, "Organic Chemistry", 300, 1)
	if err := db.Model(chem).Update("subject", "Chemistry").Error; err != nil {
		t.Fatalf("update subject: %v", err)
	}
	testutil.SeedBook(t, ctx, db, hidden.ID, "Physics Hidden", 100, 1)

	rows, err := repo.Search(dbc, types.SearchFilter{Query: "PHYSICS"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Concepts of Physics" {
		t.Fatalf("Search: unexpected rows: %+v", rows)
	}
	if rows[0].ShopName != open.Name || rows[0].City != open.City {
		t.Fatalf("Search: shop columns not joined: %+v", rows[0])
	}
	if rows[0].ShopPhone != nil {
		t.Fatalf("Search: phone must never be exposed")
	}
	for _, r := range rows {
		if r.ShopID == hidden.ID {
			t.Fatalf("Search: unverified shop listed: %+v", r)
		}
	}

	byShop, err := repo.Search(dbc, types.SearchFilter{ShopID: hidden.ID})
	if err != nil {
		t.Fatalf("Search by shop: %v", err)
	}
	if len(byShop) != 0 {
		t.Fatalf("Search: unverified shop books leaked via shop filter: %+v", byShop)
	}
}

func TestBookRepoSearchFiltersAndPriceSort(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewBookRepo(db, testutil.Logger(t))

	shop := testutil.SeedShop(t, ctx, db, true, "")
	testutil.SeedBook(t, ctx, db, shop.ID, "A", 300, 1)
	testutil.SeedBook(t, ctx, db, shop.ID, "B", 100, 1)
	testutil.SeedBook(t, ctx, db, shop.ID, "C", 200, 1)

	lo, hi := 150.0, 400.0
	rows, err := repo.Search(dbc, types.SearchFilter{PriceMin: &lo, PriceMax: &hi, Sort: types.SortPriceAsc})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "C" || rows[1].Name != "A" {
		t.Fatalf("Search price_asc: unexpected order: %+v", rows)
	}

	rows, err = repo.Search(dbc, types.SearchFilter{City: "pune", Sort: types.SortPriceDesc})
	if err != nil {
		t.Fatalf("Search city: %v", err)
	}
	if len(rows) != 3 || rows[0].Name != "A" || rows[2].Name != "B" {
		t.Fatalf("Search price_desc: unexpected order: %+v", rows)
	}

	rows, err = repo.Search(dbc, types.SearchFilter{Condition: types.ConditionUsed})
	if err != nil {
		t.Fatalf("Search condition: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("Search condition: expected no used books, got %d", len(rows))
	}
}

func TestBookRepoDecrementStockStopsAtZero(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewBookRepo(db, testutil.Logger(t))

	shop := testutil.SeedShop(t, ctx, db, true, "")
	book := testutil.SeedBook(t, ctx, db, shop.ID, "One Copy", 200, 1)

	ok, err := repo.DecrementStock(dbc, book.ID)
	if err != nil || !ok {
		t.Fatalf("first decrement: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecrementStock(dbc, book.ID)
	if err != nil || ok {
		t.Fatalf("second decrement: ok=%v err=%v", ok, err)
	}
	got, err := repo.GetByID(dbc, book.ID)
	if err != nil || got == nil || got.Stock != 0 {
		t.Fatalf("stock after decrements: %+v err=%v", got, err)
	}
	if _, err := repo.IncrementStock(dbc, book.ID); err != nil {
		t.Fatalf("IncrementStock: %v", err)
	}
	got, _ = repo.GetByID(dbc, book.ID)
	if got.Stock != 1 {
		t.Fatalf("stock after increment: %d", got.Stock)
	}
	if missing, _ := repo.GetByID(dbc, 9999); missing != nil {
		t.Fatalf("GetByID missing: expected nil")
	}
}

func TestBookRepoDistinctSubjects(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewBookRepo(db, testutil.Logger(t))

	shop := testutil.SeedShop(t, ctx, db, true, "")
	testutil.SeedBook(t, ctx, db, shop.ID, "A", 10, 1)
	b := testutil.SeedBook(t, ctx, db, shop.ID, "B", 10, 1)
	if _, err := repo.Update(dbc, b.ID, map[string]any{"subject": "Biology", "grade": "12"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	subjects, err := repo.DistinctSubjects(dbc, "12")
	if err != nil {
		t.Fatalf("DistinctSubjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0] != "Biology" {
		t.Fatalf("DistinctSubjects: %v", subjects)
	}
	grades, err := repo.DistinctGrades(dbc)
	if err != nil || len(grades) != 2 {
		t.Fatalf("DistinctGrades: %v err=%v", grades, err)
	}
}
