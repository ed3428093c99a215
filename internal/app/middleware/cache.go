package middleware

import (
	"bytes"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// 缓存条目
type cacheEntry struct {
	Content     []byte
	ContentType string
	Expiration  time.Time
}

// ResponseCache 缓存 GET 请求的 200 响应，键为请求路径加排序后的查询参数。
// 过期条目在读取时淘汰；数据修改后由调用方按路径前缀清除。
// 每次清除都会递增 generation，清除前开始处理的请求不再写入缓存
type ResponseCache struct {
	items      map[string]cacheEntry
	generation uint64
	mu         sync.RWMutex
}

// NewResponseCache 创建响应缓存
func NewResponseCache() *ResponseCache {
	return &ResponseCache{items: make(map[string]cacheEntry)}
}

// cacheKey 缓存键生成函数
func cacheKey(c *gin.Context) string {
	path := c.Request.URL.Path

	queryParams := c.Request.URL.Query()
	if len(queryParams) == 0 {
		return path
	}

	queryKeys := make([]string, 0, len(queryParams))
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	for _, key := range queryKeys {
		values := queryParams[key]
		sort.Strings(values)
		for _, value := range values {
			b.WriteString(key + "=" + value + "&")
		}
	}
	return b.String()
}

func (rc *ResponseCache) lookup(key string, now time.Time) (cacheEntry, bool) {
	rc.mu.RLock()
	entry, found := rc.items[key]
	rc.mu.RUnlock()

	if !found {
		return entry, false
	}
	if !entry.Expiration.After(now) {
		rc.mu.Lock()
		delete(rc.items, key)
		rc.mu.Unlock()
		return entry, false
	}
	return entry, true
}

// Middleware 创建缓存中间件
func (rc *ResponseCache) Middleware(expiration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)

		if entry, ok := rc.lookup(key, time.Now()); ok {
			// 缓存命中，直接返回缓存的响应
			c.Data(http.StatusOK, entry.ContentType, entry.Content)
			c.Abort()
			return
		}

		rc.mu.RLock()
		generation := rc.generation
		rc.mu.RUnlock()

		// 缓存未命中，捕获响应
		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		// 如果状态码为200，缓存响应
		if writer.Status() == http.StatusOK {
			rc.store(key, generation, cacheEntry{
				Content:     writer.body.Bytes(),
				ContentType: writer.Header().Get("Content-Type"),
				Expiration:  time.Now().Add(expiration),
			})
		}
	}
}

// store 仅当处理期间没有发生清除时写入条目
func (rc *ResponseCache) store(key string, generation uint64, entry cacheEntry) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.generation != generation {
		return false
	}
	rc.items[key] = entry
	return true
}

// Purge 清除所有缓存
func (rc *ResponseCache) Purge() {
	rc.mu.Lock()
	rc.items = make(map[string]cacheEntry)
	rc.generation++
	rc.mu.Unlock()
}

// PurgeByPrefix 根据路径前缀清除缓存
func (rc *ResponseCache) PurgeByPrefix(prefix string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.generation++

	for key := range rc.items {
		if strings.HasPrefix(key, prefix) {
			delete(rc.items, key)
		}
	}
}

// Len 当前缓存条目数
func (rc *ResponseCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.items)
}

// 自定义响应写入器，用于捕获响应内容
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 重写Write方法，同时写入原始响应和缓冲区
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// WriteString 重写WriteString方法，同时写入原始响应和缓冲区
func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
