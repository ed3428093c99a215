package container

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	config *config.Config
	redis  *redis.Client

	appConfigService  services.InterfaceAppConfigService
	auditService      services.InterfaceAuditService
	credentialService services.InterfaceCredentialService
	dropdownService   services.InterfaceDropdownService
	sessionService    services.InterfaceSessionService
	qrcodeService     services.InterfaceQRCodeService
	recordService     services.InterfaceRecordService

	mu sync.RWMutex
}

// Option 在初始化服务后替换个别依赖，主要用于测试
type Option func(*ServiceContainer)

// WithSessionService 替换会话服务
func WithSessionService(s services.InterfaceSessionService) Option {
	return func(c *ServiceContainer) { c.sessionService = s }
}

// WithCredentialService 替换管理员密码服务
func WithCredentialService(s services.InterfaceCredentialService) Option {
	return func(c *ServiceContainer) { c.credentialService = s }
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(cfg *config.Config, opts ...Option) *ServiceContainer {
	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{config: cfg}
	container.initializeServices()
	for _, opt := range opts {
		opt(container)
	}
	return container
}

// newImageStore 按配置选择二维码图片存储；Redis 不可用时退回文件存储
func (c *ServiceContainer) newImageStore() services.ImageStore {
	if c.config.ImageStore != config.ImageStoreRedis {
		return services.NewFileImageStore(c.config.QRCodeDir)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.config.GetRedisAddr(),
		Password: c.config.RedisPassword,
		DB:       c.config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		Logger.Warning("Redis连接测试失败: %v，二维码将保存到文件", err)
		client.Close()
		return services.NewFileImageStore(c.config.QRCodeDir)
	}

	c.redis = client
	Logger.Info("二维码图片保存到 Redis: %s", c.config.GetRedisAddr())
	return services.NewRedisImageStore(client)
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	audit := services.NewAuditService(c.config)
	appConfig := services.NewAppConfigService(c.config)
	qrcodeService := services.NewQRCodeService(c.newImageStore())

	c.auditService = audit
	c.appConfigService = appConfig
	c.qrcodeService = qrcodeService
	c.credentialService = services.NewCredentialService(c.config, audit)
	c.dropdownService = services.NewDropdownService(c.config, audit)
	c.sessionService = services.NewSessionService(c.config)
	c.recordService = services.NewRecordService(c.config, appConfig, qrcodeService, audit)
}

// Bootstrap 创建存储目录并写入缺失的默认配置文件；配置文件写入失败只记录日志
func (c *ServiceContainer) Bootstrap() error {
	if err := c.config.EnsureDirs(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.appConfigService.EnsureDefaults(); err != nil {
		Logger.Error("初始化应用配置失败: %v", err)
	}
	if err := c.credentialService.EnsureExists(); err != nil {
		Logger.Error("初始化管理员密码失败: %v", err)
	}
	if err := c.dropdownService.EnsureDefaults(); err != nil {
		Logger.Error("初始化下拉列表配置失败: %v", err)
	}
	return nil
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "app_config":
		return c.appConfigService
	case "audit":
		return c.auditService
	case "credential":
		return c.credentialService
	case "dropdown":
		return c.dropdownService
	case "session":
		return c.sessionService
	case "qrcode":
		return c.qrcodeService
	case "record":
		return c.recordService
	default:
		return nil
	}
}

// Close 释放外部连接
func (c *ServiceContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
