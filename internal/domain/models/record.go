package models

import "time"

// TimeLayout 记录与日志使用的时间格式（本地时间，精确到微秒），字典序即时间序
const TimeLayout = "2006-01-02T15:04:05.000000"

// FormatTime 按 TimeLayout 格式化时间
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Record 表示一个试块记录，每条记录保存为 <id>.json
type Record struct {
	ID              string  `json:"id"`
	SpecimenNumber  string  `json:"specimen_number"`
	Material        string  `json:"material"`
	ReflectorType   string  `json:"reflector_type"`
	StorageArea     string  `json:"storage_area"`
	CertificateFile *string `json:"certificate_file"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// HasCertificate 是否关联了证书文件
func (r *Record) HasCertificate() bool {
	return r.CertificateFile != nil && *r.CertificateFile != ""
}

// CertificateName 证书文件名，没有证书时为空串
func (r *Record) CertificateName() string {
	if r.CertificateFile == nil {
		return ""
	}
	return *r.CertificateFile
}

// RecordInput 表示用户可编辑的四个字段
type RecordInput struct {
	SpecimenNumber string `json:"specimen_number" form:"specimen_number"`
	Material       string `json:"material" form:"material"`
	ReflectorType  string `json:"reflector_type" form:"reflector_type"`
	StorageArea    string `json:"storage_area" form:"storage_area"`
}
