package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/error/code"
	"github.com/bbyas22/QRcode/internal/error/response"
	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

// failWithServiceError 把服务层错误转换为统一的失败响应；op 用于拼接存储错误消息，如 "更新"
func failWithServiceError(c *gin.Context, err error, op string) {
	message := services.UserMessage(err)

	switch services.KindOf(err) {
	case services.KindValidation:
		response.FailWithMessage(c, code.ErrValidation, message)
	case services.KindFile:
		response.FailWithMessage(c, code.ErrFileInvalid, message)
	case services.KindWrongPassword:
		response.FailWithMessage(c, code.ErrCurrentPasswordIncorrect, message)
	case services.KindWeakPassword:
		response.FailWithMessage(c, code.ErrWeakPassword, message)
	case services.KindNotFound:
		response.FailWithMessage(c, code.ErrRecordNotFound, message)
	default:
		Logger.Error("%s失败: %v", op, err)
		response.FailWithMessage(c, code.ErrStorage, op+"失败: "+message)
	}
}
