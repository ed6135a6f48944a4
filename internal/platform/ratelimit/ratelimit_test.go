package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

func TestMemoryLimiterBurstThenRefill(t *testing.T) {
	lim := NewMemory(3, time.Minute).(*memoryLimiter)
	clock := time.Unix(1_700_000_000, 0)
	lim.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if ok, _ := lim.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("hit %d should pass", i)
		}
	}
	if ok, _ := lim.Allow(ctx, "1.2.3.4"); ok {
		t.Fatalf("fourth hit should be limited")
	}
	if ok, _ := lim.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatalf("other key should have its own bucket")
	}

	clock = clock.Add(20 * time.Second)
	if ok, _ := lim.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatalf("one token should have refilled")
	}
}

func TestMemoryLimiterSweepsIdleKeys(t *testing.T) {
	lim := NewMemory(1, time.Second).(*memoryLimiter)
	clock := time.Unix(1_700_000_000, 0)
	lim.now = func() time.Time { return clock }
	ctx := context.Background()

	_, _ = lim.Allow(ctx, "a")
	clock = clock.Add(5 * time.Second)
	_, _ = lim.Allow(ctx, "b")
	if _, ok := lim.entries["a"]; ok {
		t.Fatalf("idle key should be swept")
	}
}

func TestNewRejectsZeroConfig(t *testing.T) {
	if _, err := New(Config{Max: 0, Window: time.Minute}, logger.Nop()); err == nil {
		t.Fatalf("expected error")
	}
	lim, err := New(Config{Max: 5, Window: time.Minute}, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := lim.(*memoryLimiter); !ok {
		t.Fatalf("expected memory limiter without redis addr, got %T", lim)
	}
}
