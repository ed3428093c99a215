package services

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	"github.com/bbyas22/QRcode/internal/infrastructure/storage"
)

// AdminCredentialFileName 管理员密码文件名
const AdminCredentialFileName = "admin.json"

// InterfaceCredentialService 管理员密码服务接口
type InterfaceCredentialService interface {
	EnsureExists() error
	Verify(candidate string) bool
	Change(ctx context.Context, current, newPassword, actor string) error
}

// CredentialService 保存单个管理员密码的 bcrypt 哈希
type CredentialService struct {
	path            string
	defaultPassword string
	cost            int
	audit           InterfaceAuditService
}

// NewCredentialService 创建管理员密码服务
func NewCredentialService(cfg *config.Config, audit InterfaceAuditService) *CredentialService {
	return &CredentialService{
		path:            filepath.Join(cfg.DataDir, AdminCredentialFileName),
		defaultPassword: cfg.DefaultAdminPassword,
		cost:            bcrypt.DefaultCost,
		audit:           audit,
	}
}

// WithCost 设置 bcrypt 代价，测试中用 bcrypt.MinCost 加速
func (s *CredentialService) WithCost(cost int) *CredentialService {
	s.cost = cost
	return s
}

func (s *CredentialService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// 1 EnsureExists 密码文件不存在时写入初始密码
func (s *CredentialService) EnsureExists() error {
	if storage.Exists(s.path) {
		return nil
	}
	hashed, err := s.hash(s.defaultPassword)
	if err != nil {
		return err
	}
	return storage.WriteJSON(s.path, models.AdminCredential{Password: hashed})
}

// 2 Verify 校验密码是否与保存的哈希匹配
func (s *CredentialService) Verify(candidate string) bool {
	var cred models.AdminCredential
	if err := storage.ReadJSON(s.path, &cred); err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(candidate)) == nil
}

// 3 Change 修改管理员密码
func (s *CredentialService) Change(ctx context.Context, current, newPassword, actor string) error {
	current = strings.TrimSpace(current)
	newPassword = strings.TrimSpace(newPassword)

	if current == "" || newPassword == "" {
		return validationError("请填写完整信息")
	}
	if msg := ValidateNewPassword(newPassword); msg != "" {
		return &ServiceError{Kind: KindWeakPassword, Message: msg}
	}
	if !s.Verify(current) {
		return &ServiceError{Kind: KindWrongPassword, Message: "当前密码错误"}
	}

	hashed, err := s.hash(newPassword)
	if err != nil {
		return storageError("密码加密失败", err)
	}
	if err := storage.WriteJSON(s.path, models.AdminCredential{Password: hashed}); err != nil {
		return storageError("保存密码失败", err)
	}

	return s.audit.Append(ctx, models.OperationChangePassword, actor,
		map[string]interface{}{"action": "password_change_request"},
		map[string]interface{}{"action": "password_changed"},
	)
}
