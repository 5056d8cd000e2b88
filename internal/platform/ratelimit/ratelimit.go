// Package ratelimit は固定ウィンドウ方式のレート制限を提供します。
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrUnavailable wraps backend failures of a Limiter.
var ErrUnavailable = errors.New("rate limiter unavailable")

// Limiter は、キーごとにウィンドウ内の試行回数を制限するインターフェースです。
type Limiter interface {
	// Allow records one attempt for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter はプロセス内メモリで試行回数を数えるLimiterです。
// 複数インスタンス間では共有されません。
type MemoryLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count     int
	lastReset time.Time
}

// NewMemoryLimiter は新しいMemoryLimiterのインスタンスを生成します。
func NewMemoryLimiter(limit int, interval time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// Allow はレートリミットの上限に達しているかを確認し、カウントを進めます。
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= l.interval {
		w = &window{lastReset: now}
		l.windows[key] = w
		l.sweep(now)
	}

	w.count++
	return w.count <= l.limit, nil
}

// sweep drops expired windows so idle keys do not accumulate.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if now.Sub(w.lastReset) >= l.interval {
			delete(l.windows, k)
		}
	}
}
