package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/bbyas22/QRcode/internal/error/code"
	"github.com/bbyas22/QRcode/internal/error/response"
)

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate       float64                   // 每秒允许的请求数
	Burst      int                       // 允许的突发请求数
	ExpiryTime time.Duration             // 限流器闲置多久后被回收
	KeyFunc    func(*gin.Context) string // 自定义键生成函数，默认按IP
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       1,             // 每秒1个请求
	Burst:      5,             // 允许5个突发请求
	ExpiryTime: 1 * time.Hour, // 闲置1小时后回收
}

// limiterEntry 一个键对应的令牌桶及其最后使用时间
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiters 按键保存令牌桶；闲置的桶在新建桶时顺带回收，没有后台协程
type keyedLimiters struct {
	cfg     RateLimiterConfig
	entries map[string]*limiterEntry
	mu      sync.Mutex
}

func newKeyedLimiters(cfg RateLimiterConfig) *keyedLimiters {
	return &keyedLimiters{cfg: cfg, entries: make(map[string]*limiterEntry)}
}

func (l *keyedLimiters) get(key string, now time.Time) *limiterEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		if l.cfg.ExpiryTime > 0 {
			for k, e := range l.entries {
				if now.Sub(e.lastSeen) > l.cfg.ExpiryTime {
					delete(l.entries, k)
				}
			}
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	return entry
}

// allow 在 now 时刻为 key 取一个令牌
func (l *keyedLimiters) allow(key string, now time.Time) bool {
	return l.get(key, now).limiter.AllowN(now, 1)
}

// RateLimiter 创建限流中间件
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	// 使用默认配置或自定义配置
	var cfg RateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultRateLimiterConfig
	}

	// 确保配置有效
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	limiters := newKeyedLimiters(cfg)

	return func(c *gin.Context) {
		// 检查是否允许请求
		if !limiters.allow(cfg.KeyFunc(c), time.Now()) {
			response.AbortWithMessage(c, code.ErrTooManyRequests, code.GetMessage(code.ErrTooManyRequests))
			return
		}

		c.Next()
	}
}

// IPRateLimiter 按IP限流
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:  rate,
		Burst: burst,
	})
}
