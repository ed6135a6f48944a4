package ctxutil

import (
	"context"
	"testing"
)

func TestIDForPrefersMatchingPrincipal(t *testing.T) {
	ctx := context.Background()
	if got := IDFor(ctx, RoleStudent, 9); got != 9 {
		t.Fatalf("no principal: got=%d", got)
	}
	ctx = WithPrincipal(ctx, &Principal{Role: RoleShop, ID: 3})
	if got := IDFor(ctx, RoleStudent, 9); got != 9 {
		t.Fatalf("other role: got=%d", got)
	}
	if got := IDFor(ctx, RoleShop, 9); got != 3 {
		t.Fatalf("matching role: got=%d", got)
	}
}
