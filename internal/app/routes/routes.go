package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bbyas22/QRcode/internal/app/controllers"
	"github.com/bbyas22/QRcode/internal/app/middleware"
	"github.com/bbyas22/QRcode/internal/app/views"
	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/domain/services/container"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

// 公共 GET 接口的缓存时间
const (
	dropdownCacheTTL = 30 * time.Second
	qrcodeCacheTTL   = 5 * time.Minute
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(container *container.ServiceContainer, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if err := r.SetTrustedProxies(nil); err != nil {
		Logger.Warning("设置可信代理失败: %v", err)
	}
	r.MaxMultipartMemory = cfg.MaxUploadSize

	tmpl, err := views.Templates()
	if err != nil {
		// 模板内嵌在二进制中，解析失败说明构建有问题
		panic(err)
	}
	r.SetHTMLTemplate(tmpl)

	cache := middleware.NewResponseCache()
	registerRoutes(r, container, cache)
	return r
}

// registerRoutes 配置所有路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	cache *middleware.ResponseCache,
) {
	// 记录详情页面
	r.GET("/view/:id", controllers.HandleRecordFunc(container, "viewRecord"))

	api := r.Group("/api")
	registerPublicRoutes(api, container, cache)
	registerLoginRoutes(r, container, cache)
	registerAdminRoutes(api, container, cache)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	cache *middleware.ResponseCache,
) {
	healthController := controllers.NewHealthCheckController()
	api.GET("/ping", healthController.Ping)

	api.GET("/config", controllers.HandleConfigFunc(container, "getConfig"))
	api.GET("/dropdown-config", cache.Middleware(dropdownCacheTTL), controllers.HandleConfigFunc(container, "getDropdownConfig"))

	api.POST("/generate-qrcode", controllers.HandleRecordFunc(container, "generateQRCode"))
	api.GET("/qrcode/:id", cache.Middleware(qrcodeCacheTTL), controllers.HandleRecordFunc(container, "getQRCode"))
	api.GET("/download/:filename", controllers.HandleRecordFunc(container, "downloadFile"))
}

// registerLoginRoutes 注册登录登出路由，登录接口按IP限流
func registerLoginRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	cache *middleware.ResponseCache,
) {
	admin := r.Group("/admin")
	// 每秒允许5个请求，最多突发10个
	admin.POST("/login", middleware.IPRateLimiter(5, 10), controllers.HandleAdminFunc(container, cache, "login"))
	admin.POST("/logout", controllers.HandleAdminFunc(container, cache, "logout"))
	admin.GET("/logout", controllers.HandleAdminFunc(container, cache, "logout"))
}

// registerAdminRoutes 注册需要管理员会话的路由
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	cache *middleware.ResponseCache,
) {
	sessionService := container.GetService("session").(services.InterfaceSessionService)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(sessionService))
	{
		admin.GET("/records", controllers.HandleAdminFunc(container, cache, "getRecords"))
		admin.PUT("/record/:id", controllers.HandleAdminFunc(container, cache, "updateRecord"))
		admin.DELETE("/record/:id", controllers.HandleAdminFunc(container, cache, "deleteRecord"))
		admin.PUT("/config", controllers.HandleAdminFunc(container, cache, "updateDropdownConfig"))
		admin.PUT("/password", controllers.HandleAdminFunc(container, cache, "changePassword"))
		admin.GET("/logs", controllers.HandleAdminFunc(container, cache, "getLogs"))
	}
}
