package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/domain/services/container"
	"github.com/bbyas22/QRcode/internal/error/code"
	"github.com/bbyas22/QRcode/internal/error/response"
)

// ConfigController 处理公开的配置读取请求
type ConfigController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewConfigController 创建一个新的配置控制器
func NewConfigController(ctx *gin.Context, container *container.ServiceContainer) *ConfigController {
	return &ConfigController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleConfigFunc 返回一个处理配置请求的Gin处理函数
func HandleConfigFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewConfigController(ctx, container)

		switch method {
		case "getConfig":
			controller.GetConfig()
		case "getDropdownConfig":
			controller.GetDropdownConfig()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
		}
	}
}

// GetConfig 只返回 baseUrl，读取失败时返回默认值
// GET /api/config
func (c *ConfigController) GetConfig() {
	appConfigService := c.Container.GetService("app_config").(services.InterfaceAppConfigService)
	c.Ctx.JSON(code.StatusOK, gin.H{"baseUrl": appConfigService.BaseURL()})
}

// GetDropdownConfig 获取下拉列表配置
// GET /api/dropdown-config
func (c *ConfigController) GetDropdownConfig() {
	dropdownService := c.Container.GetService("dropdown").(services.InterfaceDropdownService)

	cfg, err := dropdownService.Read()
	if err != nil {
		failWithServiceError(c.Ctx, err, "获取配置")
		return
	}
	c.Ctx.JSON(code.StatusOK, cfg)
}
