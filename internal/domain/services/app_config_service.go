package services

import (
	"path/filepath"

	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	"github.com/bbyas22/QRcode/internal/infrastructure/storage"
	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

// AppConfigFileName 应用配置文件名
const AppConfigFileName = "app_config.json"

// InterfaceAppConfigService 应用配置服务接口
type InterfaceAppConfigService interface {
	EnsureDefaults() error
	Read() (models.AppConfig, error)
	BaseURL() string
	ServerConfig() models.ServerConfig
	Write(cfg models.AppConfig) error
}

// AppConfigService 读写 app_config.json；每次调用都重新读取文件，修改后立即生效
type AppConfigService struct {
	path string
}

// NewAppConfigService 创建应用配置服务
func NewAppConfigService(cfg *config.Config) *AppConfigService {
	return &AppConfigService{path: filepath.Join(cfg.DataDir, AppConfigFileName)}
}

// 1 EnsureDefaults 配置文件不存在时写入默认配置
func (s *AppConfigService) EnsureDefaults() error {
	if storage.Exists(s.path) {
		return nil
	}
	return s.Write(models.DefaultAppConfig())
}

// 2 Read 读取完整配置，缺失字段使用默认值
func (s *AppConfigService) Read() (models.AppConfig, error) {
	cfg := models.DefaultAppConfig()
	if err := storage.ReadJSON(s.path, &cfg); err != nil {
		return models.DefaultAppConfig(), err
	}
	return cfg, nil
}

// 3 BaseURL 获取 baseUrl，读取失败时返回默认值
func (s *AppConfigService) BaseURL() string {
	cfg, err := s.Read()
	if err != nil {
		Logger.Warning("读取配置文件失败: %v", err)
	}
	if cfg.BaseURL == "" {
		return models.DefaultAppConfig().BaseURL
	}
	return cfg.BaseURL
}

// 4 ServerConfig 获取服务器监听配置，读取失败时返回默认值
func (s *AppConfigService) ServerConfig() models.ServerConfig {
	cfg, err := s.Read()
	if err != nil {
		Logger.Warning("读取服务器配置失败: %v", err)
	}
	defaults := models.DefaultAppConfig().Server
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Port
	}
	return cfg.Server
}

// 5 Write 写入完整配置
func (s *AppConfigService) Write(cfg models.AppConfig) error {
	return storage.WriteJSON(s.path, cfg)
}
