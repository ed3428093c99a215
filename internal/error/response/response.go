package response

import (
	"github.com/gin-gonic/gin"

	"github.com/bbyas22/QRcode/internal/error/code"
)

// Success 成功响应，data 中的字段与 success 平铺在同一层
func Success(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(code.GetStatus(code.ErrSuccess), body)
}

// SuccessMessage 只带提示信息的成功响应
func SuccessMessage(c *gin.Context, message string) {
	Success(c, gin.H{"message": message})
}

// Fail 失败响应，消息取错误码默认消息
func Fail(c *gin.Context, errorCode int) {
	FailWithMessage(c, errorCode, code.GetMessage(errorCode))
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	c.JSON(code.GetStatus(errorCode), gin.H{
		"success": false,
		"message": message,
	})
}

// AbortWithMessage 失败响应并终止后续处理函数
func AbortWithMessage(c *gin.Context, errorCode int, message string) {
	FailWithMessage(c, errorCode, message)
	c.Abort()
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context) {
	AbortWithMessage(c, code.ErrUnauthorized, code.GetMessage(code.ErrUnauthorized))
}

// TextNotFound 以纯文本返回资源不存在
func TextNotFound(c *gin.Context, errorCode int) {
	c.String(code.StatusNotFound, code.GetMessage(errorCode))
}
