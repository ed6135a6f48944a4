package domain

import (
	"testing"

	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
)

func TestSortAliases(t *testing.T) {
	f := SearchFilter{Sort: SortPriceAsc}
	if f.Sort != catalog.SortPriceAsc || SortPriceDesc != catalog.SortPriceDesc || SortRating != catalog.SortRating || SortNone != catalog.SortNone {
		t.Fatalf("sort aliases drifted from catalog values")
	}
}
