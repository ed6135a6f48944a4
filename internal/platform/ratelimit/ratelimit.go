package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

// Limiter admits at most a fixed number of hits per key per window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	Max       int
	Window    time.Duration
	RedisAddr string
	Prefix    string
}

// New returns a Redis-backed limiter when RedisAddr is set so that replicas
// share counters, otherwise an in-process one.
func New(cfg Config, log *logger.Logger) (Limiter, error) {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return nil, fmt.Errorf("rate limit needs positive max and window (max=%d window=%s)", cfg.Max, cfg.Window)
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return NewMemory(cfg.Max, cfg.Window), nil
	}
	return NewRedis(cfg, log)
}

type redisLimiter struct {
	rdb    *goredis.Client
	max    int64
	window time.Duration
	prefix string
	log    *logger.Logger
}

func NewRedis(cfg Config, log *logger.Logger) (Limiter, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "bookmart:rl"
	}
	return &redisLimiter{
		rdb:    rdb,
		max:    int64(cfg.Max),
		window: cfg.Window,
		prefix: prefix,
		log:    log.With("service", "RedisRateLimiter"),
	}, nil
}

// Allow counts the hit in the current fixed window. The window starts with
// the first hit and expires on its own.
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + ":" + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			l.log.Warn("rate limit expire failed", "key", k, "error", err)
		}
	}
	return n <= l.max, nil
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	every   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewMemory refills limit tokens evenly over window, with a burst of limit.
func NewMemory(limit int, window time.Duration) Limiter {
	return &memoryLimiter{
		entries: map[string]*memoryEntry{},
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idleTTL: window,
		now:     time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		l.sweep(now)
		e = &memoryEntry{lim: rate.NewLimiter(l.every, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1), nil
}

// sweep drops keys idle for longer than a full window; a fresh limiter would
// hold a full bucket for them anyway.
func (l *memoryLimiter) sweep(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.entries, k)
		}
	}
}
