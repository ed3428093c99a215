package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	"github.com/bbyas22/QRcode/internal/infrastructure/storage"
	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

// reservedDataFiles 数据目录中不是试块记录的文件
var reservedDataFiles = map[string]struct{}{
	AdminCredentialFileName: {},
	DropdownConfigFileName:  {},
	AppConfigFileName:       {},
}

// UploadedFile 随记录一起上传的证书文件
type UploadedFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CreateResult 创建记录的结果
type CreateResult struct {
	Record     *models.Record
	ViewURL    string
	QRImageURL string
}

// InterfaceRecordService 试块记录服务接口
type InterfaceRecordService interface {
	Create(ctx context.Context, input models.RecordInput, file *UploadedFile) (*CreateResult, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Update(ctx context.Context, id string, input models.RecordInput, actor string) (*models.Record, error)
	Delete(ctx context.Context, id, actor string) error
	ListAll(ctx context.Context) ([]models.Record, error)
	CertificatePath(filename string) (string, error)
}

// RecordService 每条记录一个 JSON 文件；操作不具备事务性
type RecordService struct {
	dataDir       string
	uploadDir     string
	maxUploadSize int64

	appConfig InterfaceAppConfigService
	qrcode    InterfaceQRCodeService
	audit     InterfaceAuditService

	now   func() time.Time
	newID func() string
}

// NewRecordService 创建试块记录服务
func NewRecordService(
	cfg *config.Config,
	appConfig InterfaceAppConfigService,
	qrcodeService InterfaceQRCodeService,
	audit InterfaceAuditService,
) *RecordService {
	return &RecordService{
		dataDir:       cfg.DataDir,
		uploadDir:     cfg.UploadDir,
		maxUploadSize: cfg.MaxUploadSize,
		appConfig:     appConfig,
		qrcode:        qrcodeService,
		audit:         audit,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// WithClock 替换时间来源
func (s *RecordService) WithClock(now func() time.Time) *RecordService {
	s.now = now
	return s
}

func (s *RecordService) recordPath(id string) string {
	return filepath.Join(s.dataDir, id+".json")
}

// prepareInput 去除首尾空白、校验必填与试块编号，再清理四个字段
func prepareInput(input models.RecordInput) (models.RecordInput, error) {
	input = models.RecordInput{
		SpecimenNumber: strings.TrimSpace(input.SpecimenNumber),
		Material:       strings.TrimSpace(input.Material),
		ReflectorType:  strings.TrimSpace(input.ReflectorType),
		StorageArea:    strings.TrimSpace(input.StorageArea),
	}

	if input.SpecimenNumber == "" || input.Material == "" || input.ReflectorType == "" || input.StorageArea == "" {
		return input, validationError("请填写所有必填字段")
	}
	if msg := ValidateSpecimenNumber(input.SpecimenNumber); msg != "" {
		return input, validationError(msg)
	}

	return models.RecordInput{
		SpecimenNumber: SanitizeInput(input.SpecimenNumber),
		Material:       SanitizeInput(input.Material),
		ReflectorType:  SanitizeInput(input.ReflectorType),
		StorageArea:    SanitizeInput(input.StorageArea),
	}, nil
}

// saveCertificate 校验并以新的随机文件名保存上传文件，只保留原扩展名
func (s *RecordService) saveCertificate(file *UploadedFile) (string, error) {
	secureName := SecureFilename(file.Filename)
	if secureName == "" {
		return "", fileError("文件名无效")
	}
	if file.Size > s.maxUploadSize {
		return "", fileError(fmt.Sprintf("文件大小不能超过%dMB", s.maxUploadSize/(1024*1024)))
	}

	newName := uuid.New().String()
	if ext := FileExtension(secureName); ext != "" {
		newName += "." + ext
	}

	dst, err := os.Create(filepath.Join(s.uploadDir, newName))
	if err != nil {
		return "", storageError("保存文件失败", err)
	}
	defer dst.Close()

	// 多读一个字节，用于发现实际内容超过声明大小的情况
	written, err := io.Copy(dst, io.LimitReader(file.Content, s.maxUploadSize+1))
	if err == nil && written > s.maxUploadSize {
		err = fileError(fmt.Sprintf("文件大小不能超过%dMB", s.maxUploadSize/(1024*1024)))
	}
	if err != nil {
		dst.Close()
		os.Remove(dst.Name())
		if KindOf(err) == KindFile {
			return "", err
		}
		return "", storageError("保存文件失败", err)
	}
	return newName, nil
}

// 1 Create 创建记录并生成二维码
func (s *RecordService) Create(ctx context.Context, input models.RecordInput, file *UploadedFile) (*CreateResult, error) {
	input, err := prepareInput(input)
	if err != nil {
		return nil, err
	}

	var certificate *string
	if file != nil && file.Filename != "" {
		name, err := s.saveCertificate(file)
		if err != nil {
			return nil, err
		}
		certificate = &name
	}

	record := &models.Record{
		ID:              s.newID(),
		SpecimenNumber:  input.SpecimenNumber,
		Material:        input.Material,
		ReflectorType:   input.ReflectorType,
		StorageArea:     input.StorageArea,
		CertificateFile: certificate,
		CreatedAt:       models.FormatTime(s.now()),
	}

	if err := storage.WriteJSON(s.recordPath(record.ID), record); err != nil {
		return nil, storageError("保存记录失败", err)
	}

	baseURL := strings.TrimRight(s.appConfig.BaseURL(), "/")
	result := &CreateResult{
		Record:     record,
		ViewURL:    baseURL + "/view/" + record.ID,
		QRImageURL: baseURL + "/api/qrcode/" + record.ID,
	}

	if _, err := s.qrcode.Generate(ctx, record.ID, result.ViewURL); err != nil {
		return nil, err
	}

	Logger.Info("已创建试块记录 %s (%s)", record.ID, record.SpecimenNumber)
	return result, nil
}

// 2 Get 读取记录
func (s *RecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	if !isSinglePathElement(id) {
		return nil, notFoundError("记录不存在")
	}
	if _, reserved := reservedDataFiles[id+".json"]; reserved {
		return nil, notFoundError("记录不存在")
	}

	var record models.Record
	if err := storage.ReadJSON(s.recordPath(id), &record); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFoundError("记录不存在")
		}
		return nil, storageError("读取记录失败", err)
	}
	return &record, nil
}

// 3 Update 更新四个可编辑字段并合并写回原文档，其余字段（包括结构体之外的键）原样保留
func (s *RecordService) Update(ctx context.Context, id string, input models.RecordInput, actor string) (*models.Record, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	input, err = prepareInput(input)
	if err != nil {
		return nil, err
	}

	var oldDoc map[string]interface{}
	if err := storage.ReadJSON(s.recordPath(id), &oldDoc); err != nil {
		return nil, storageError("读取记录失败", err)
	}

	updatedAt := models.FormatTime(s.now())
	doc := make(map[string]interface{}, len(oldDoc)+1)
	for k, v := range oldDoc {
		doc[k] = v
	}
	doc["specimen_number"] = input.SpecimenNumber
	doc["material"] = input.Material
	doc["reflector_type"] = input.ReflectorType
	doc["storage_area"] = input.StorageArea
	doc["updated_at"] = updatedAt

	if err := storage.WriteJSON(s.recordPath(id), doc); err != nil {
		return nil, storageError("保存记录失败", err)
	}

	err = s.audit.Append(ctx, models.OperationUpdateRecord, actor,
		map[string]interface{}{"record_id": id, "old_data": oldDoc},
		map[string]interface{}{"record_id": id, "new_data": doc},
	)
	if err != nil {
		return nil, err
	}

	updated := *old
	updated.SpecimenNumber = input.SpecimenNumber
	updated.Material = input.Material
	updated.ReflectorType = input.ReflectorType
	updated.StorageArea = input.StorageArea
	updated.UpdatedAt = updatedAt
	return &updated, nil
}

// 4 Delete 删除记录及其证书文件和二维码
func (s *RecordService) Delete(ctx context.Context, id, actor string) error {
	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if record.HasCertificate() && isSinglePathElement(*record.CertificateFile) {
		if err := storage.RemoveIfExists(filepath.Join(s.uploadDir, *record.CertificateFile)); err != nil {
			return storageError("删除证书文件失败", err)
		}
	}

	if err := s.qrcode.Remove(ctx, id); err != nil {
		return err
	}

	if err := os.Remove(s.recordPath(id)); err != nil {
		return storageError("删除记录失败", err)
	}

	return s.audit.Append(ctx, models.OperationDeleteRecord, actor,
		map[string]interface{}{"record_id": id, "record_data": record},
		map[string]interface{}{"record_id": id, "deleted": true},
	)
}

// 5 ListAll 读取全部记录，跳过无法解析的文件，按创建时间倒序
func (s *RecordService) ListAll(ctx context.Context) ([]models.Record, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, storageError("读取记录目录失败", err)
	}

	records := make([]models.Record, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if _, reserved := reservedDataFiles[name]; reserved {
			continue
		}

		var record models.Record
		if err := storage.ReadJSON(filepath.Join(s.dataDir, name), &record); err != nil {
			Logger.Debug("跳过无法解析的记录文件 %s: %v", name, err)
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records, nil
}

// 6 CertificatePath 返回上传目录中文件的路径，文件名非法或不存在时返回 NotFound
func (s *RecordService) CertificatePath(filename string) (string, error) {
	if !isSinglePathElement(filename) {
		return "", notFoundError("文件不存在")
	}
	path := filepath.Join(s.uploadDir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", notFoundError("文件不存在")
	}
	return path, nil
}
