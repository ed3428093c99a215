package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	"github.com/bbyas22/QRcode/internal/infrastructure/storage"
)

// DropdownConfigFileName 下拉列表配置文件名
const DropdownConfigFileName = "dropdown_config.json"

// InterfaceDropdownService 下拉列表配置服务接口
type InterfaceDropdownService interface {
	EnsureDefaults() error
	Read() (models.DropdownConfig, error)
	Replace(ctx context.Context, raw map[string]interface{}, actor string) (models.DropdownConfig, error)
}

// DropdownService 读写 dropdown_config.json，更新时整体替换
type DropdownService struct {
	path  string
	audit InterfaceAuditService
}

// NewDropdownService 创建下拉列表配置服务
func NewDropdownService(cfg *config.Config, audit InterfaceAuditService) *DropdownService {
	return &DropdownService{
		path:  filepath.Join(cfg.DataDir, DropdownConfigFileName),
		audit: audit,
	}
}

// 1 EnsureDefaults 配置文件不存在时写入默认选项
func (s *DropdownService) EnsureDefaults() error {
	if storage.Exists(s.path) {
		return nil
	}
	return storage.WriteJSON(s.path, models.DefaultDropdownConfig())
}

// 2 Read 读取下拉列表配置，文件不存在时返回默认配置
func (s *DropdownService) Read() (models.DropdownConfig, error) {
	var cfg models.DropdownConfig
	if err := storage.ReadJSON(s.path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.DefaultDropdownConfig(), nil
		}
		return models.DropdownConfig{}, storageError("读取下拉列表配置失败", err)
	}
	return cfg, nil
}

// 3 Replace 校验、清理并整体替换下拉列表配置
func (s *DropdownService) Replace(ctx context.Context, raw map[string]interface{}, actor string) (models.DropdownConfig, error) {
	var cleaned models.DropdownConfig

	for _, key := range models.DropdownKeys() {
		value, ok := raw[key]
		if !ok {
			return cleaned, validationError("配置格式错误: " + key)
		}
		items, ok := value.([]interface{})
		if !ok {
			return cleaned, validationError("配置格式错误: " + key)
		}
		cleaned.Set(key, cleanOptionList(items))
	}

	for _, key := range models.DropdownKeys() {
		if len(cleaned.Get(key)) == 0 {
			return cleaned, validationError(key + " 至少需要一个有效选项")
		}
	}

	old, err := s.Read()
	if err != nil {
		return cleaned, err
	}

	if err := storage.WriteJSON(s.path, cleaned); err != nil {
		return cleaned, storageError("保存下拉列表配置失败", err)
	}

	if err := s.audit.Append(ctx, models.OperationUpdateConfig, actor, old, cleaned); err != nil {
		return cleaned, err
	}
	return cleaned, nil
}
