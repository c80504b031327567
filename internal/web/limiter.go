package web

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyAnalyses is returned when every analysis slot stays busy for the
// whole wait period.
var ErrTooManyAnalyses = errors.New("too many concurrent analyses, please try again later")

// analysisLimiter bounds how many uploads are analyzed at once.
// Each analysis holds its whole input in flight, so the bound also caps
// memory used by multipart parsing.
type analysisLimiter struct {
	sem     *semaphore.Weighted
	maxWait time.Duration
	active  atomic.Int64
}

// newAnalysisLimiter returns nil when maxConcurrent is not positive, which
// disables limiting.
func newAnalysisLimiter(maxConcurrent int, maxWait time.Duration) *analysisLimiter {
	if maxConcurrent <= 0 {
		return nil
	}
	return &analysisLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		maxWait: maxWait,
	}
}

// Acquire blocks until a slot is free, maxWait elapses or ctx is done.
func (l *analysisLimiter) Acquire(ctx context.Context) error {
	if l.maxWait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
		defer cancel()
		if err := l.sem.Acquire(waitCtx, 1); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrTooManyAnalyses
		}
	} else if !l.sem.TryAcquire(1) {
		return ErrTooManyAnalyses
	}
	l.active.Add(1)
	return nil
}

// Release frees a slot taken by Acquire.
func (l *analysisLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active returns the number of analyses holding a slot. A nil limiter
// reports zero.
func (l *analysisLimiter) Active() int64 {
	if l == nil {
		return 0
	}
	return l.active.Load()
}

// Middleware wraps analysis routes. Requests that cannot get a slot are
// answered with 503.
func (l *analysisLimiter) Middleware(respond func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := l.Acquire(r.Context()); err != nil {
				w.Header().Set("Retry-After", "1")
				respond(w, r, err)
				return
			}
			defer l.Release()
			next.ServeHTTP(w, r)
		})
	}
}
