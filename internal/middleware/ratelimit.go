package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned, as CodeResourceExhausted, to callers over their limit.
var ErrRateLimited = errors.New("too many requests, slow down")

// RateLimiterConfig configures per-actor rate limiting.
type RateLimiterConfig struct {
	Rate            rate.Limit    // requests per second per actor
	Burst           int           // bucket size
	CleanupInterval time.Duration // how often idle entries are dropped
}

// DefaultRateLimiterConfig returns 5 req/s with a burst of 20.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            5,
		Burst:           20,
		CleanupInterval: 5 * time.Minute,
	}
}

type actorLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per actor. Requests are keyed by the
// authenticated email, or by peer address when there is none, so it must be
// installed after RequireAuth/OptionalAuth.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	limiters map[string]*actorLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter and starts its cleanup loop.
// Call Stop to end it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*actorLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	al, ok := rl.limiters[key]
	if !ok {
		al = &actorLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.limiters[key] = al
	}
	al.lastAccess = time.Now()
	rl.mu.Unlock()

	return al.limiter.Allow()
}

// Len returns the number of tracked actors.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Interceptor returns the Connect interceptor enforcing the limit.
func (rl *RateLimiter) Interceptor() connect.Interceptor {
	return rateLimitInterceptor{rl}
}

func (rl *RateLimiter) check(ctx context.Context, peer connect.Peer, procedure string) error {
	key := GetEmail(ctx)
	if key == "" {
		host, _, err := net.SplitHostPort(peer.Addr)
		if err != nil {
			host = peer.Addr
		}
		key = "peer:" + host
	}
	if rl.Allow(key) {
		return nil
	}
	slog.Warn("Rate limit exceeded", "key", key, "procedure", procedure)
	return connect.NewError(connect.CodeResourceExhausted, ErrRateLimited)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops entries idle for more than two cleanup intervals.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, al := range rl.limiters {
		if now.Sub(al.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}

type rateLimitInterceptor struct {
	rl *RateLimiter
}

func (i rateLimitInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if err := i.rl.check(ctx, req.Peer(), req.Spec().Procedure); err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i rateLimitInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i rateLimitInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		if err := i.rl.check(ctx, conn.Peer(), conn.Spec().Procedure); err != nil {
			return err
		}
		return next(ctx, conn)
	}
}
