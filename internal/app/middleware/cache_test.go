package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedRouter(cache *ResponseCache, hits *int) *gin.Engine {
	r := gin.New()
	cached := cache.Middleware(time.Minute)

	r.GET("/api/dropdown-config", cached, func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"hits": *hits})
	})
	r.GET("/api/qrcode/:id", cached, func(c *gin.Context) {
		*hits++
		if c.Param("id") == "missing" {
			c.String(http.StatusNotFound, "二维码不存在")
			return
		}
		c.Data(http.StatusOK, "image/png", []byte{0x89, 'P', 'N', 'G'})
	})
	r.POST("/api/dropdown-config", cached, func(c *gin.Context) {
		*hits++
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestResponseCache_HitsAndPurge(t *testing.T) {
	cache := NewResponseCache()
	hits := 0
	r := newCachedRouter(cache, &hits)

	first := get(r, http.MethodGet, "/api/dropdown-config")
	second := get(r, http.MethodGet, "/api/dropdown-config")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, hits)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")

	png := get(r, http.MethodGet, "/api/qrcode/abc")
	get(r, http.MethodGet, "/api/qrcode/abc")
	assert.Equal(t, 2, hits)
	assert.Equal(t, "image/png", png.Header().Get("Content-Type"))
	assert.Equal(t, 2, cache.Len())

	cache.PurgeByPrefix("/api/qrcode/abc")
	assert.Equal(t, 1, cache.Len())
	get(r, http.MethodGet, "/api/qrcode/abc")
	assert.Equal(t, 3, hits)

	cache.Purge()
	assert.Zero(t, cache.Len())
}

func TestResponseCache_SkipsNonCacheable(t *testing.T) {
	cache := NewResponseCache()
	hits := 0
	r := newCachedRouter(cache, &hits)

	get(r, http.MethodGet, "/api/qrcode/missing")
	w := get(r, http.MethodGet, "/api/qrcode/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 2, hits)

	get(r, http.MethodPost, "/api/dropdown-config")
	get(r, http.MethodPost, "/api/dropdown-config")
	assert.Equal(t, 4, hits)
	assert.Zero(t, cache.Len())
}

func TestResponseCache_Expiry(t *testing.T) {
	cache := NewResponseCache()
	hits := 0
	r := newCachedRouter(cache, &hits)

	get(r, http.MethodGet, "/api/dropdown-config")
	require.Equal(t, 1, cache.Len())

	_, ok := cache.lookup("/api/dropdown-config", time.Now().Add(2*time.Minute))
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestResponseCache_PurgeDuringRequestSkipsStore(t *testing.T) {
	cache := NewResponseCache()
	hits := 0
	r := gin.New()
	r.GET("/api/qrcode/:id", cache.Middleware(time.Minute), func(c *gin.Context) {
		hits++
		// 图片已读出，此时记录被删除并清除缓存
		png := []byte{0x89, 'P', 'N', 'G'}
		cache.PurgeByPrefix("/api/qrcode/" + c.Param("id"))
		c.Data(http.StatusOK, "image/png", png)
	})

	w := get(r, http.MethodGet, "/api/qrcode/abc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, cache.Len())

	get(r, http.MethodGet, "/api/qrcode/abc")
	assert.Equal(t, 2, hits)
}

func TestCacheKeySortsQuery(t *testing.T) {
	key := func(target string) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		return cacheKey(c)
	}

	assert.Equal(t, "/api/config", key("/api/config"))
	assert.Equal(t, key("/api/config?b=2&a=1"), key("/api/config?a=1&b=2"))
	assert.NotEqual(t, key("/api/config?a=1"), key("/api/config?a=2"))
}
