package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	"github.com/bbyas22/QRcode/internal/infrastructure/storage"
)

// AuditLogFileName 管理员操作日志文件名
const AuditLogFileName = "admin_operations.json"

// InterfaceAuditService 管理员操作日志服务接口
type InterfaceAuditService interface {
	Append(ctx context.Context, operationType, actor string, before, after interface{}) error
	ReadAll(ctx context.Context) ([]models.AuditEntry, error)
}

// AuditService 把操作日志保存在单个 JSON 数组文件中，每次追加都重写整个文件
type AuditService struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewAuditService 创建操作日志服务
func NewAuditService(cfg *config.Config) *AuditService {
	return &AuditService{
		path: filepath.Join(cfg.LogDir, AuditLogFileName),
		now:  time.Now,
	}
}

// WithClock 替换时间来源
func (s *AuditService) WithClock(now func() time.Time) *AuditService {
	s.now = now
	return s
}

func (s *AuditService) load() ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if err := storage.ReadJSON(s.path, &entries); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.AuditEntry{}, nil
		}
		return nil, err
	}
	return entries, nil
}

// 1 Append 追加一条操作日志
func (s *AuditService) Append(ctx context.Context, operationType, actor string, before, after interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return storageError("写入操作日志失败", err)
	}

	entries = append(entries, models.AuditEntry{
		Timestamp:     models.FormatTime(s.now()),
		OperationType: operationType,
		IPAddress:     actor,
		BeforeState:   before,
		AfterState:    after,
	})

	if err := storage.WriteJSON(s.path, entries); err != nil {
		return storageError("写入操作日志失败", err)
	}
	return nil
}

// 2 ReadAll 读取全部日志，按时间倒序
func (s *AuditService) ReadAll(ctx context.Context) ([]models.AuditEntry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, storageError("读取操作日志失败", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries, nil
}
