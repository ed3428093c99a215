package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

// RequestLogger 记录每个请求的方法、路径、状态码、耗时和客户端IP
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			Logger.Error("%s %s %d %s %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
		case status >= 400:
			Logger.Warning("%s %s %d %s %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
		default:
			Logger.Info("%s %s %d %s %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
		}
	}
}
